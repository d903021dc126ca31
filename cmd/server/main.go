package main

import (
	"bridgeai/config"
	"bridgeai/internal/mediator"
	"bridgeai/utils"
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/TypeTerrors/gonfig"
	"github.com/charmbracelet/log"
)

func main() {

	cfg, err := gonfig.Load[config.Config](
		gonfig.WithConfigFile("config/config.yaml"),
		gonfig.WithDotenv(".env"), // ignored if missing
		gonfig.WithStrict(),
	)
	if err != nil {
		log.Fatal("error loading config", "err", err)
	}
	cfg.ApplyDefaults()
	utils.NewLogger(cfg.Log.Level, cfg.Log.Format)

	app, err := mediator.NewApp(cfg)
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Start(ctx); err != nil {
		log.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
