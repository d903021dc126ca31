package mediator

import (
	"bridgeai/config"
	"bridgeai/internal/dependencies"
	"bridgeai/internal/services"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	api    *services.Api
	health *services.HealthRpc
	hub    *services.Hub

	shutdownOnce sync.Once
	// settings
	Config config.Config
}

func NewApp(cfg config.Config) (*App, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("error creating newapp: %w", err)
	}

	provider := dependencies.NewOpenAI(cfg.Generate)
	fetcher := services.NewImageFetcher(cfg.Download)
	hub := services.NewHub()

	app := &App{
		api:    services.NewApi(provider, fetcher, hub, cfg),
		hub:    hub,
		Config: cfg,
	}
	if cfg.Rpc.Port != "" {
		app.health = services.NewHealthRpc(cfg.Rpc.Port)
	}
	return app, nil
}

// Start blocks until ctx is cancelled or one of the listeners fails.
func (a *App) Start(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := a.api.Start(); err != nil {
			return fmt.Errorf("api: %w", err)
		}
		return nil
	})

	if a.health != nil {
		g.Go(func() error {
			if err := a.health.Start(); err != nil {
				return fmt.Errorf("health rpc: %w", err)
			}
			return nil
		})
		a.health.SetServing(true)
	}

	g.Go(func() error {
		<-gctx.Done()
		return a.Shutdown()
	})

	return g.Wait()
}

func (a *App) Shutdown() error {
	var err error
	a.shutdownOnce.Do(func() {
		log.Info("shutting down")

		if a.health != nil {
			a.health.SetServing(false)
		}
		a.hub.Shutdown()

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err = a.api.Shutdown(ctx)

		if a.health != nil {
			a.health.Shutdown()
		}
	})
	return err
}
