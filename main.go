package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/carcare/carcarebot/internal/chat"
	"github.com/carcare/carcarebot/internal/classifier"
	"github.com/carcare/carcarebot/internal/config"
	"github.com/carcare/carcarebot/internal/dataset"
	"github.com/carcare/carcarebot/internal/interactionlog"
	"github.com/carcare/carcarebot/internal/logger"
	"github.com/carcare/carcarebot/internal/provider"
	"github.com/carcare/carcarebot/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.NewStructured("error", "json").WithError(err).Error("failed to load config", nil)
		os.Exit(1)
	}

	log := logger.NewStructured(cfg.Logging.Level, cfg.Logging.Format)
	if cfg.Server.GinMode != "" {
		gin.SetMode(cfg.Server.GinMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Dataset + classifier
	loader := dataset.NewLoader(cfg.Dataset.Path, log)
	artifacts, err := classifier.OpenBoltStore(cfg.Classifier.Path)
	if err != nil {
		log.WithError(err).Error("failed to open classifier store", map[string]interface{}{"path": cfg.Classifier.Path})
		os.Exit(1)
	}
	defer artifacts.Close()

	clf := classifier.New(artifacts, loader, log)
	// Training retries on the first query once the dataset is usable.
	if err := clf.Ensure(ctx); err != nil {
		log.WithError(err).Warn("classifier not ready; serving with lazy training", map[string]interface{}{
			"dataset": cfg.Dataset.Path,
		})
	}

	// Interaction log: CSV always, Postgres when configured
	sinks := interactionlog.Multi{interactionlog.NewCSVLogger(cfg.InteractionLog.Path)}
	if cfg.Postgres.DSN != "" {
		pg, err := interactionlog.OpenPostgres(ctx, cfg.Postgres.DSN)
		if err != nil {
			log.WithError(err).Error("failed to open postgres interaction log", nil)
			os.Exit(1)
		}
		defer pg.Close()
		sinks = append(sinks, pg)
	}

	// Sessions
	var sessions store.SessionStore
	switch cfg.Session.Backend {
	case config.SessionBackendRedis:
		rs := store.NewRedisStore(store.NewRedisClient(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB), cfg.Session.TTL)
		if err := rs.Ping(ctx); err != nil {
			log.WithError(err).Error("redis unavailable", map[string]interface{}{"address": cfg.Redis.Address})
			os.Exit(1)
		}
		defer rs.Close()
		sessions = rs
	default:
		sessions = store.NewMemoryStore()
	}

	replies := newChatProvider(cfg.Provider.Kind, provider.NewComposer(loader, clf, cfg.Dataset.SearchLimit))
	r := newRouter(routerDeps{
		chat:          chat.NewService(replies, sinks, log),
		sessions:      sessions,
		logger:        log,
		allowedOrigin: cfg.Server.AllowedOrigin,
		cookieName:    cfg.Session.CookieName,
		cookieTTL:     cfg.Session.TTL,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info("carcarebot listening", map[string]interface{}{
			"port":            cfg.Server.Port,
			"session_backend": cfg.Session.Backend,
			"model":           replies.Model(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("http server failed", nil)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed", nil)
	}
	log.Info("carcarebot stopped", nil)
}

// newChatProvider returns the mock provider when configured, otherwise the
// dataset composer.
func newChatProvider(kind string, composer *provider.Composer) provider.ChatProvider {
	if kind == config.ProviderMock {
		return provider.MockProvider{}
	}
	return composer
}
