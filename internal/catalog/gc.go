package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/wallkeep/wallkeep/internal/metrics"
	"github.com/wallkeep/wallkeep/internal/model"
	"github.com/wallkeep/wallkeep/internal/store"
)

// Collector removes cached assets whose owning wallpaper is no longer
// reachable from the effective collections, the current selection, or the
// default wallpaper.
type Collector struct {
	blobs store.BlobStore
	log   zerolog.Logger
}

func NewCollector(blobs store.BlobStore, log zerolog.Logger) *Collector {
	return &Collector{blobs: blobs, log: log}
}

// Sweep deletes every cached asset whose scope is not in reachable.
// Deletions are independent: a failure on one key does not abort the sweep;
// failures are collected and returned as a single batch error.
func (c *Collector) Sweep(ctx context.Context, reachable map[string]struct{}) error {
	keys, err := c.blobs.ListAssetKeys(ctx)
	if err != nil {
		return err
	}

	var failed []string
	removed := 0
	for _, key := range keys {
		if _, ok := reachable[key.Scope]; ok {
			continue
		}
		if err := c.blobs.DeleteAsset(ctx, key); err != nil {
			c.log.Warn().Err(err).Str("scope", key.Scope).Str("name", key.Name).Msg("asset delete failed")
			failed = append(failed, key.Scope+"/"+key.Name)
			continue
		}
		removed++
	}
	if removed > 0 {
		metrics.GCDeletionsTotal.Add(float64(removed))
		c.log.Info().Int("removed", removed).Msg("unused assets removed")
	}
	if len(failed) > 0 {
		return fmt.Errorf("sweep: %d deletions failed: %s", len(failed), strings.Join(failed, ", "))
	}
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, model.ErrNotFound)
}
