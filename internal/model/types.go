package model

import "time"

// Color is an opaque display color carried through from the catalog document
// (e.g. "#1A2B3C"). The service never parses it; rendering is the UI's job.
type Color string

// CollectionType distinguishes the always-present classic collection from
// seasonal/standard ones.
type CollectionType string

const (
	CollectionStandard CollectionType = "standard"
	CollectionClassic  CollectionType = "classic"
)

// Wallpaper is an immutable catalog entry with a portrait/landscape asset pair.
type Wallpaper struct {
	ID               string `json:"id"`
	PortraitAssetID  string `json:"portraitAssetId"`
	LandscapeAssetID string `json:"landscapeAssetId"`
	TextColor        *Color `json:"textColor,omitempty"`
	CardColor        *Color `json:"cardColor,omitempty"`
}

// Availability bounds when a collection may be shown. Both bounds are
// inclusive; a nil Availability means always available.
type Availability struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether now falls within the window.
func (a *Availability) Contains(now time.Time) bool {
	if a == nil {
		return true
	}
	return !now.Before(a.Start) && !now.After(a.End)
}

// Collection groups wallpapers, with optional availability and locale gating.
// A nil Locales slice means the collection is available in every locale.
type Collection struct {
	ID           string         `json:"id"`
	Type         CollectionType `json:"type"`
	Wallpapers   []Wallpaper    `json:"wallpapers"`
	Availability *Availability  `json:"availability,omitempty"`
	Locales      []string       `json:"availableLocales,omitempty"`
	Heading      *string        `json:"heading,omitempty"`
	Description  *string        `json:"description,omitempty"`
	LearnMoreURL *string        `json:"learnMoreUrl,omitempty"`
}

// AvailableIn reports whether the collection is gated open for the locale.
func (c *Collection) AvailableIn(locale string) bool {
	if c.Locales == nil {
		return true
	}
	for _, l := range c.Locales {
		if l == locale {
			return true
		}
	}
	return false
}

// MetadataDocument is the remotely fetched source of truth. Documents are
// compared by Marker equality only; content is never diffed.
type MetadataDocument struct {
	Marker      string       `json:"marker"`
	Collections []Collection `json:"collections"`
}

// CurrentSelection records which wallpaper is current. At most one exists;
// it is overwritten, never appended.
type CurrentSelection struct {
	WallpaperID string `json:"wallpaperId"`
}

// AssetKey addresses a cached binary asset. Scope is the owning wallpaper id,
// which namespaces asset names and lets the garbage collector attribute every
// cached blob to a wallpaper.
type AssetKey struct {
	Scope string `json:"scope"`
	Name  string `json:"name"`
}

// Identity of the built-in default wallpaper. It exists outside any remote
// collection and is never garbage collected.
const (
	DefaultWallpaperID        = "default"
	DefaultPortraitAssetName  = "default-portrait"
	DefaultLandscapeAssetName = "default-landscape"
)

// DefaultWallpaper returns the synthetic wallpaper shown before any remote
// catalog has been fetched and whenever a stored selection cannot be resolved.
func DefaultWallpaper() Wallpaper {
	return Wallpaper{
		ID:               DefaultWallpaperID,
		PortraitAssetID:  DefaultPortraitAssetName,
		LandscapeAssetID: DefaultLandscapeAssetName,
	}
}
