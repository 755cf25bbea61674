// Command mindmap-viewer serves the mind map view state to browser
// renderers and relays their commands to the mind map server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/sync/errgroup"

	"github.com/persistorai/mindmap/client"
	"github.com/persistorai/mindmap/internal/api"
	"github.com/persistorai/mindmap/internal/config"
	"github.com/persistorai/mindmap/internal/service"
	"github.com/persistorai/mindmap/internal/ws"
)

const shutdownTimeout = 10 * time.Second

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	if err := run(log); err != nil {
		log.WithError(err).Fatal("viewer stopped")
	}
}

func run(log *logrus.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("parsing log level: %w", err)
	}
	log.SetLevel(level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// appCtx outlives the signal so WebSocket pumps stay up while the hub
	// sends its shutdown frames.
	appCtx, cancelApp := context.WithCancel(context.Background())
	defer cancelApp()

	coord := newCoordinator(cfg, log)
	hub := ws.NewHub(log, coord)

	srv := &http.Server{
		Addr: cfg.Addr(),
		Handler: api.NewRouter(appCtx, &api.RouterDeps{
			Log:         log,
			Session:     coord,
			Hub:         hub,
			CORSOrigins: cfg.CORSOrigins,
			Version:     config.Version,
			Upstream:    cfg.ServerURL,
		}),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	updates, unwatch := coord.Watch()
	defer unwatch()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		coord.Run(gctx)
		return nil
	})
	g.Go(func() error {
		hub.Run(appCtx)
		return nil
	})
	g.Go(func() error {
		hub.Follow(gctx, updates)
		return nil
	})
	g.Go(func() error {
		s, err := coord.Load(gctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, service.ErrStopped) {
				return nil
			}
			return fmt.Errorf("initial load: %w", err)
		}
		log.WithField("nodes", len(s.Graph.Nodes)).Info("initial graph loaded")
		return nil
	})
	g.Go(func() error {
		log.WithFields(logrus.Fields{
			"addr":     cfg.Addr(),
			"upstream": cfg.ServerURL,
			"version":  config.Version,
		}).Info("viewer listening")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		defer cancelApp()

		hub.Shutdown()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func newCoordinator(cfg *config.Config, log *logrus.Logger) *service.Coordinator {
	opts := []client.Option{client.WithTimeout(cfg.RequestTimeout)}
	if key := cfg.APIKey.Value(); key != "" {
		opts = append(opts, client.WithAPIKey(key))
	}
	if cfg.CircuitBreaker {
		settings := client.DefaultBreakerSettings("mindmap-server")
		settings.OnStateChange = func(name string, from, to gobreaker.State) {
			log.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("circuit breaker state changed")
		}
		opts = append(opts, client.WithCircuitBreaker(settings))
	}

	gw := service.NewClientGateway(client.New(cfg.ServerURL, opts...))
	store := service.NewGraphStore(gw, cfg.RootRule(), log)

	return service.NewCoordinator(store, gw, service.NewFileSink(cfg.ExportDir), log,
		service.WithCallTimeout(cfg.RequestTimeout))
}
