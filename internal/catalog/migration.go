package catalog

import (
	"context"

	"github.com/rs/zerolog"
)

// migrate upgrades the pre-v2 selection layout: early releases stored the
// current selection under a bare key with no record envelope. The pass moves
// that record to the current key and drops the legacy one. It is idempotent
// and a no-op when nothing legacy exists, so it is safe to run on every
// document change.
//
// A selection already written in the current layout wins over a legacy one.
func (s *Synchronizer) migrate(ctx context.Context, log zerolog.Logger) error {
	legacy, err := s.blobs.GetLegacySelection(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil
		}
		return err
	}

	if _, err := s.blobs.GetCurrentSelection(ctx); err == nil {
		// Current-layout record exists; just drop the stale legacy one.
		return s.blobs.DeleteLegacySelection(ctx)
	} else if !isNotFound(err) {
		return err
	}

	if err := s.blobs.SetCurrentSelection(ctx, *legacy); err != nil {
		return err
	}
	if err := s.blobs.DeleteLegacySelection(ctx); err != nil {
		return err
	}
	log.Info().Str("wallpaper_id", legacy.WallpaperID).Msg("migrated legacy selection record")
	return nil
}
