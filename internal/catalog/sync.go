package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/wallkeep/wallkeep/internal/metrics"
	"github.com/wallkeep/wallkeep/internal/model"
	"github.com/wallkeep/wallkeep/internal/remote"
	"github.com/wallkeep/wallkeep/internal/store"
)

// Synchronizer state, advanced atomically so CheckForUpdates is single-flight.
const (
	stateIdle int32 = iota
	stateRefreshing
)

// ErrRefreshInProgress is returned when CheckForUpdates is called while a
// previous check is still running.
var ErrRefreshInProgress = errors.New("update check already in progress")

// Synchronizer reconciles remote catalog metadata against local state.
//
// Change detection uses the version marker only: a server that changes
// content without bumping the marker is not re-processed. The remote
// endpoint owns marker hygiene.
type Synchronizer struct {
	client    remote.NetworkClient
	metadata  store.MetadataStore
	blobs     store.BlobStore
	selection *SelectionCache
	collector *Collector
	locale    string
	now       func() time.Time
	log       zerolog.Logger

	state int32
}

// NewSynchronizer constructs a Synchronizer. nowFn may be nil, defaulting to
// time.Now; tests inject a fixed clock.
func NewSynchronizer(client remote.NetworkClient, metadata store.MetadataStore, blobs store.BlobStore, selection *SelectionCache, collector *Collector, locale string, nowFn func() time.Time, log zerolog.Logger) *Synchronizer {
	if nowFn == nil {
		nowFn = time.Now
	}
	return &Synchronizer{
		client:    client,
		metadata:  metadata,
		blobs:     blobs,
		selection: selection,
		collector: collector,
		locale:    locale,
		now:       nowFn,
		log:       log,
	}
}

// Refreshing reports whether an update check is currently running.
func (s *Synchronizer) Refreshing() bool {
	return atomic.LoadInt32(&s.state) == stateRefreshing
}

// EffectiveCollections evaluates availability against the stored document
// (nil before the first sync) at the current time and configured locale.
func (s *Synchronizer) EffectiveCollections(ctx context.Context) []model.Collection {
	doc, err := s.metadata.GetMetadata(ctx)
	if err != nil {
		if !isNotFound(err) {
			s.log.Warn().Err(err).Msg("metadata read failed, treating catalog as empty")
		}
		doc = nil
	}
	return EffectiveCollections(doc, s.now(), s.locale)
}

// CheckForUpdates fetches the remote document and reconciles it against the
// stored one.
//
// The stored marker is sent with the fetch so the server can answer
// "not modified" without a body. A fetch or decode failure ends the check
// quietly: the stale local document stays authoritative and the error is
// returned for observability only. On a changed marker the new document is
// persisted, the one-shot migration pass runs, then cached assets are
// verified against the new effective list. On an unchanged marker
// persistence and migration are skipped and verification runs against the
// existing list, healing locally missing cache entries.
// Migration and verification errors do not roll back the persisted document.
func (s *Synchronizer) CheckForUpdates(ctx context.Context) error {
	if !atomic.CompareAndSwapInt32(&s.state, stateIdle, stateRefreshing) {
		return ErrRefreshInProgress
	}
	defer atomic.StoreInt32(&s.state, stateIdle)

	log := s.log.With().Str("run_id", uuid.NewString()).Logger()

	stored, err := s.metadata.GetMetadata(ctx)
	if err != nil && !isNotFound(err) {
		log.Warn().Err(err).Msg("metadata read failed, treating as first sync")
		stored = nil
	}
	marker := ""
	if stored != nil {
		marker = stored.Marker
	}

	fetched, err := s.client.FetchMetadata(ctx, marker)
	if err != nil {
		metrics.SyncRunsTotal.WithLabelValues("fetch_failed").Inc()
		log.Warn().Err(err).Msg("metadata fetch failed, keeping stored catalog")
		return err
	}

	changed := stored == nil || stored.Marker != fetched.Marker
	doc := fetched
	var errs []error

	if changed {
		log.Info().Str("marker", fetched.Marker).Msg("catalog changed, persisting new document")
		if err := s.metadata.SetMetadata(ctx, fetched); err != nil {
			metrics.SyncRunsTotal.WithLabelValues("persist_failed").Inc()
			log.Error().Stack().Err(err).Msg("metadata persist failed")
			return err
		}
		// Migration runs only on document change; a failure is reported
		// but the new document stays persisted.
		if err := s.migrate(ctx, log); err != nil {
			errs = append(errs, &model.MigrationError{Err: err})
		}
		metrics.SyncRunsTotal.WithLabelValues("changed").Inc()
	} else {
		doc = stored
		metrics.SyncRunsTotal.WithLabelValues("unchanged").Inc()
	}

	effective := EffectiveCollections(doc, s.now(), s.locale)
	if err := s.verifyAssets(ctx, effective, log); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		err := joinErrors(errs)
		log.Warn().Err(err).Msg("update check completed with errors")
		return err
	}
	return nil
}

// verifyAssets ensures every wallpaper in the effective collections has both
// assets cached, fetching missing pairs. Per-wallpaper failures are collected
// so one bad wallpaper does not starve the rest.
func (s *Synchronizer) verifyAssets(ctx context.Context, effective []model.Collection, log zerolog.Logger) error {
	var failures []string
	seen := make(map[string]struct{})
	for _, c := range effective {
		for _, w := range c.Wallpapers {
			if _, dup := seen[w.ID]; dup {
				continue
			}
			seen[w.ID] = struct{}{}
			if w.ID == model.DefaultWallpaperID {
				// The default ships with the app, never fetched.
				continue
			}
			cached, err := s.selection.HasAssets(ctx, w)
			if err == nil && cached {
				continue
			}
			if err := s.selection.FetchAssets(ctx, w); err != nil {
				log.Warn().Err(err).Str("wallpaper_id", w.ID).Msg("asset verification fetch failed")
				failures = append(failures, w.ID)
			}
		}
	}
	if len(failures) > 0 {
		return fmt.Errorf("asset verification failed for %d wallpaper(s): %s", len(failures), strings.Join(failures, ", "))
	}
	return nil
}

func joinErrors(errs []error) error {
	if len(errs) == 1 {
		return errs[0]
	}
	return errors.Join(errs...)
}
