package catalog

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/wallkeep/wallkeep/internal/events"
	"github.com/wallkeep/wallkeep/internal/metrics"
	"github.com/wallkeep/wallkeep/internal/model"
	"github.com/wallkeep/wallkeep/internal/remote"
	"github.com/wallkeep/wallkeep/internal/store"
)

// SelectionCache tracks which wallpaper is current and keeps its asset pair
// cached locally.
type SelectionCache struct {
	blobs  store.BlobStore
	client remote.NetworkClient
	bus    *events.Bus
	log    zerolog.Logger
}

// NewSelectionCache constructs a SelectionCache. bus may be nil when no
// observer cares about selection changes.
func NewSelectionCache(blobs store.BlobStore, client remote.NetworkClient, bus *events.Bus, log zerolog.Logger) *SelectionCache {
	return &SelectionCache{blobs: blobs, client: client, bus: bus, log: log}
}

// SetCurrentWallpaper persists the selection as a single overwrite and, on
// success, emits a selection-changed event. On failure the prior selection
// remains authoritative.
func (sc *SelectionCache) SetCurrentWallpaper(ctx context.Context, w model.Wallpaper) error {
	if err := sc.blobs.SetCurrentSelection(ctx, model.CurrentSelection{WallpaperID: w.ID}); err != nil {
		return err
	}
	if sc.bus != nil {
		if !sc.bus.Publish(events.Event{Kind: events.EventSelectionChanged, WallpaperID: w.ID}) {
			sc.log.Warn().Str("wallpaper_id", w.ID).Msg("selection event dropped, bus full")
		}
	}
	return nil
}

// CurrentWallpaper resolves the stored selection against the effective
// collections. It never fails: an absent record, a read error, or an id that
// no longer resolves all yield the default wallpaper.
func (sc *SelectionCache) CurrentWallpaper(ctx context.Context, effective []model.Collection) model.Wallpaper {
	sel, err := sc.blobs.GetCurrentSelection(ctx)
	if err != nil {
		if !isNotFound(err) {
			sc.log.Warn().Err(err).Msg("selection read failed, falling back to default")
		}
		return model.DefaultWallpaper()
	}
	if w, ok := FindWallpaper(effective, sel.WallpaperID); ok {
		return w
	}
	return model.DefaultWallpaper()
}

// fetchResult carries one sibling fetch outcome back to the join point.
type fetchResult struct {
	name string
	data []byte
	err  error
}

// FetchAssets downloads the wallpaper's portrait and landscape binaries with
// two sibling goroutines, joins both, and persists the pair in a single
// transaction. If either fetch fails the other is cancelled and nothing is
// stored.
func (sc *SelectionCache) FetchAssets(ctx context.Context, w model.Wallpaper) error {
	fetchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make(chan fetchResult, 2)
	fetch := func(name string) {
		data, err := sc.client.FetchAsset(fetchCtx, w.ID, name)
		if err != nil {
			cancel()
		}
		results <- fetchResult{name: name, data: data, err: err}
	}
	go fetch(w.PortraitAssetID)
	go fetch(w.LandscapeAssetID)

	byName := make(map[string][]byte, 2)
	var firstErr error
	for i := 0; i < 2; i++ {
		r := <-results
		if r.err != nil {
			if firstErr == nil {
				firstErr = r.err
			}
			continue
		}
		byName[r.name] = r.data
	}
	if firstErr != nil {
		metrics.AssetFetchesTotal.WithLabelValues("fetch_failed").Inc()
		return firstErr
	}

	err := sc.blobs.PutAssetPair(ctx,
		model.AssetKey{Scope: w.ID, Name: w.PortraitAssetID}, byName[w.PortraitAssetID],
		model.AssetKey{Scope: w.ID, Name: w.LandscapeAssetID}, byName[w.LandscapeAssetID],
	)
	if err != nil {
		metrics.AssetFetchesTotal.WithLabelValues("store_failed").Inc()
		return err
	}
	metrics.AssetFetchesTotal.WithLabelValues("ok").Inc()
	return nil
}

// HasAssets reports whether both halves of the wallpaper's pair are cached.
func (sc *SelectionCache) HasAssets(ctx context.Context, w model.Wallpaper) (bool, error) {
	p, err := sc.blobs.HasAsset(ctx, model.AssetKey{Scope: w.ID, Name: w.PortraitAssetID})
	if err != nil || !p {
		return false, err
	}
	l, err := sc.blobs.HasAsset(ctx, model.AssetKey{Scope: w.ID, Name: w.LandscapeAssetID})
	if err != nil {
		return false, err
	}
	return l, nil
}

// RemoveUnusedAssets delegates to the garbage collector. Failures are logged
// and swallowed: cache bloat is preferred over disrupting the caller.
func (sc *SelectionCache) RemoveUnusedAssets(ctx context.Context, collector *Collector, reachable map[string]struct{}) {
	if err := collector.Sweep(ctx, reachable); err != nil {
		sc.log.Warn().Err(err).Msg("asset cleanup incomplete")
	}
}
