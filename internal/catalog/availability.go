package catalog

import (
	"time"

	"github.com/wallkeep/wallkeep/internal/model"
)

// EffectiveCollections filters the document's collections by availability
// window and locale, then injects the default wallpaper: it is prepended to
// the surviving classic collection, or wrapped in a synthetic classic
// collection placed first when none survives. The result always contains
// exactly one classic collection and its wallpaper list always begins with
// the default wallpaper.
//
// Pure function: no I/O, deterministic for a given (doc, now, locale).
func EffectiveCollections(doc *model.MetadataDocument, now time.Time, locale string) []model.Collection {
	if doc == nil {
		return []model.Collection{syntheticClassic()}
	}

	var classic *model.Collection
	var rest []model.Collection
	for _, c := range doc.Collections {
		if !c.Availability.Contains(now) || !c.AvailableIn(locale) {
			continue
		}
		if c.Type == model.CollectionClassic {
			// First classic wins; the result carries exactly one.
			if classic == nil {
				cc := c
				classic = &cc
			}
			continue
		}
		rest = append(rest, c)
	}

	head := syntheticClassic()
	if classic != nil {
		head = *classic
		head.Wallpapers = append([]model.Wallpaper{model.DefaultWallpaper()}, classic.Wallpapers...)
	}

	return append([]model.Collection{head}, rest...)
}

// ReachableWallpapers returns the set of wallpaper ids whose cached assets
// must be kept: every wallpaper in the effective collections, the current
// selection, and the default.
func ReachableWallpapers(effective []model.Collection, selection *model.CurrentSelection) map[string]struct{} {
	reachable := map[string]struct{}{model.DefaultWallpaperID: {}}
	for _, c := range effective {
		for _, w := range c.Wallpapers {
			reachable[w.ID] = struct{}{}
		}
	}
	if selection != nil {
		reachable[selection.WallpaperID] = struct{}{}
	}
	return reachable
}

// FindWallpaper resolves a wallpaper id against the effective collections.
func FindWallpaper(effective []model.Collection, id string) (model.Wallpaper, bool) {
	for _, c := range effective {
		for _, w := range c.Wallpapers {
			if w.ID == id {
				return w, true
			}
		}
	}
	return model.Wallpaper{}, false
}

func syntheticClassic() model.Collection {
	return model.Collection{
		ID:         "classic",
		Type:       model.CollectionClassic,
		Wallpapers: []model.Wallpaper{model.DefaultWallpaper()},
	}
}
