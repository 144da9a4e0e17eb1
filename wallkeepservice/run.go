// Package wallkeepservice is the composition root for the wallpaper catalog
// service.
package wallkeepservice

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/wallkeep/wallkeep/internal/api"
	"github.com/wallkeep/wallkeep/internal/api/recovery"
	"github.com/wallkeep/wallkeep/internal/catalog"
	"github.com/wallkeep/wallkeep/internal/config"
	"github.com/wallkeep/wallkeep/internal/events"
	"github.com/wallkeep/wallkeep/internal/factory"
	"github.com/wallkeep/wallkeep/internal/logger"
	"github.com/wallkeep/wallkeep/internal/model"
	"github.com/wallkeep/wallkeep/internal/remote"
	"github.com/wallkeep/wallkeep/internal/store"
	"github.com/wallkeep/wallkeep/internal/worker"
)

// Run starts the wallkeep HTTP service and blocks until shutdown or error.
func Run() error {
	log := logger.New("wallkeep-service")

	cfg, err := config.New()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return err
	}

	log.Info().
		Int("http_port", cfg.HTTPPort).
		Str("remote_base_url", cfg.RemoteBaseURL).
		Str("data_dir", cfg.DataDir).
		Msg("Wallkeep service starting")

	// Cancellable root context bound to SIGINT/SIGTERM.
	ctx, stop := newServerContext()
	defer stop()

	blobs, metadata, err := initStores(cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		_ = blobs.Close()
		_ = metadata.Close()
	}()

	client := remote.NewClient(cfg.RemoteBaseURL, cfg.RemoteTimeout)
	bus := events.NewBus(16)
	drainEvents(ctx, bus, log)

	selection := catalog.NewSelectionCache(blobs, client, bus, log)
	collector := catalog.NewCollector(blobs, log)
	sync := catalog.NewSynchronizer(client, metadata, blobs, selection, collector, cfg.Locale, nil, log)

	if cfg.SyncInterval > 0 {
		w := worker.New(sync, worker.Config{Interval: cfg.SyncInterval}, log)
		go func() {
			if err := w.Run(ctx); err != nil && ctx.Err() == nil {
				log.Error().Stack().Err(err).Msg("sync worker exited")
			}
		}()
	}

	router := buildRouter(cfg, sync, selection, collector, metadata, log)
	server := newHTTPServer(ctx, cfg, router)
	errCh := serveHTTP(server, log, cfg)

	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down server")
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctxShutdown); err != nil {
			log.Error().Stack().Err(err).Msg("Server forced to shutdown")
			return err
		}
		log.Info().Msg("Server exited")
		return nil
	case err := <-errCh:
		log.Error().Stack().Err(err).Msg("HTTP server failed")
		return err
	}
}

// initStores constructs the blob and metadata stores, failing fast when
// either backend is unavailable.
func initStores(cfg *config.Config, log zerolog.Logger) (store.BlobStore, store.MetadataStore, error) {
	blobs, err := factory.NewBlobStore(cfg, log)
	if err != nil {
		log.Error().Stack().Err(err).Msg("Blob store unavailable")
		return nil, nil, err
	}
	metadata, err := factory.NewMetadataStore(cfg, log)
	if err != nil {
		log.Error().Stack().Err(err).Msg("Metadata store unavailable")
		_ = blobs.Close()
		return nil, nil, err
	}
	return blobs, metadata, nil
}

// buildRouter wires HTTP routes to handlers.
func buildRouter(cfg *config.Config, sync *catalog.Synchronizer, selection *catalog.SelectionCache, collector *catalog.Collector, metadata store.MetadataStore, log zerolog.Logger) *mux.Router {
	root := mux.NewRouter()
	root.Use(recovery.Middleware(log))

	if cfg.CatalogEnabled {
		h := api.NewCatalogHandler(sync, selection, collector, log)
		root.HandleFunc("/api/collections", h.ListCollections).Methods("GET")
		root.HandleFunc("/api/wallpaper", h.GetWallpaper).Methods("GET")
		root.HandleFunc("/api/wallpaper", h.SetWallpaper).Methods("PUT")
		root.HandleFunc("/api/sync", h.TriggerSync).Methods("POST")
	}

	healthHandler := api.NewHealthHandler(func(ctx context.Context) error {
		_, err := metadata.GetMetadata(ctx)
		if err != nil && errors.Is(err, model.ErrNotFound) {
			return nil
		}
		return err
	})
	root.HandleFunc("/api/health", healthHandler.CheckHealth).Methods("GET")
	root.Handle("/metrics", promhttp.Handler()).Methods("GET")
	return root
}

// drainEvents logs selection-changed events; in-app observers subscribe to
// the bus directly.
func drainEvents(ctx context.Context, bus *events.Bus, log zerolog.Logger) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case evt := <-bus.Subscribe():
				log.Info().Str("wallpaper_id", evt.WallpaperID).Str("kind", string(evt.Kind)).Msg("selection changed")
			}
		}
	}()
}

func newHTTPServer(ctx context.Context, cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
}

func serveHTTP(server *http.Server, log zerolog.Logger, cfg *config.Config) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	return errCh
}

// newServerContext returns a cancellable context that is cancelled on SIGINT/SIGTERM.
func newServerContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
