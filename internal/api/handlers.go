package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/wallkeep/wallkeep/internal/api/respond"
	"github.com/wallkeep/wallkeep/internal/catalog"
	"github.com/wallkeep/wallkeep/internal/model"
)

// CatalogHandler is a thin HTTP transport over the catalog services.
type CatalogHandler struct {
	sync      *catalog.Synchronizer
	selection *catalog.SelectionCache
	collector *catalog.Collector
	log       zerolog.Logger
}

func NewCatalogHandler(sync *catalog.Synchronizer, selection *catalog.SelectionCache, collector *catalog.Collector, log zerolog.Logger) *CatalogHandler {
	return &CatalogHandler{sync: sync, selection: selection, collector: collector, log: log}
}

// ListCollections GET /api/collections
func (h *CatalogHandler) ListCollections(w http.ResponseWriter, r *http.Request) {
	cols := h.sync.EffectiveCollections(r.Context())
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"collections": cols, "count": len(cols)})
}

// GetWallpaper GET /api/wallpaper
func (h *CatalogHandler) GetWallpaper(w http.ResponseWriter, r *http.Request) {
	effective := h.sync.EffectiveCollections(r.Context())
	respond.WriteJSON(w, http.StatusOK, h.selection.CurrentWallpaper(r.Context(), effective))
}

// SetWallpaper PUT /api/wallpaper
//
// Persists the selection, then fetches the pair and sweeps unused assets in
// the background; the response reports only the selection write.
func (h *CatalogHandler) SetWallpaper(w http.ResponseWriter, r *http.Request) {
	var req struct {
		WallpaperID string `json:"wallpaperId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if req.WallpaperID == "" {
		respond.WriteBadRequest(w, "wallpaperId is required")
		return
	}

	effective := h.sync.EffectiveCollections(r.Context())
	wp, ok := catalog.FindWallpaper(effective, req.WallpaperID)
	if !ok {
		respond.WriteNotFound(w, "unknown wallpaper: "+req.WallpaperID)
		return
	}
	if err := h.selection.SetCurrentWallpaper(r.Context(), wp); err != nil {
		respond.WriteInternalError(w, err.Error())
		return
	}

	go func() {
		ctx := context.Background()
		if err := h.selection.FetchAssets(ctx, wp); err != nil {
			h.log.Warn().Err(err).Str("wallpaper_id", wp.ID).Msg("asset fetch after selection failed")
		}
		sel := &model.CurrentSelection{WallpaperID: wp.ID}
		h.selection.RemoveUnusedAssets(ctx, h.collector, catalog.ReachableWallpapers(effective, sel))
	}()

	respond.WriteJSON(w, http.StatusOK, wp)
}

// TriggerSync POST /api/sync
func (h *CatalogHandler) TriggerSync(w http.ResponseWriter, r *http.Request) {
	if h.sync.Refreshing() {
		respond.WriteConflict(w, "update check already in progress")
		return
	}
	go func() {
		if err := h.sync.CheckForUpdates(context.Background()); err != nil && !errors.Is(err, catalog.ErrRefreshInProgress) {
			h.log.Warn().Err(err).Msg("triggered update check failed")
		}
	}()
	respond.WriteJSON(w, http.StatusAccepted, map[string]string{"status": "refresh started"})
}
