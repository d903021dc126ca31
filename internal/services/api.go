package services

import (
	"bridgeai/config"
	"bridgeai/internal/dependencies"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

type Api struct {
	server   *fiber.App
	provider dependencies.ImageProvider
	fetcher  *ImageFetcher
	hub      *Hub

	port           string
	allowedOrigins string
	landmark       string
	filenamePrefix string
	now            func() time.Time
}

func NewApi(provider dependencies.ImageProvider, fetcher *ImageFetcher, hub *Hub, cfg config.Config) *Api {
	if cfg.Api.AllowedOrigins == "" {
		cfg.Api.AllowedOrigins = "*"
	}

	a := &Api{
		server: fiber.New(fiber.Config{
			AppName:               "bridgeai",
			BodyLimit:             cfg.Api.BodyLimit,
			DisableStartupMessage: true,
		}),
		provider:       provider,
		fetcher:        fetcher,
		hub:            hub,
		port:           cfg.Api.Port,
		allowedOrigins: cfg.Api.AllowedOrigins,
		landmark:       cfg.Generate.Landmark,
		filenamePrefix: cfg.Download.FilenamePrefix,
		now:            time.Now,
	}

	a.addMiddleware()
	a.addRoutes()
	return a
}

func (a *Api) Start() error {
	log.Info("api listening", "port", a.port, "origins", a.allowedOrigins)
	return a.server.Listen(fmt.Sprint(":", a.port))
}

func (a *Api) Shutdown(ctx context.Context) error {
	return a.server.ShutdownWithContext(ctx)
}

func (a *Api) addMiddleware() {

	allowCredentials := a.allowedOrigins != "*"

	a.server.Use(RequestLogger())
	a.server.Use(cors.New(cors.Config{
		AllowOrigins:     a.allowedOrigins,
		AllowCredentials: allowCredentials,
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Content-Type,Authorization,Accept,Origin,X-Client-Id,X-Request-Id",
		ExposeHeaders:    "Content-Disposition,X-Request-Id",
	}))
}

func (a *Api) addRoutes() {
	a.server.Add("GET", "/health", a.Health())
	a.server.Add("POST", "/api/generate", a.GenerateImage())
	a.server.Add("POST", "/api/download", a.DownloadImage())

	// websocket connection
	a.server.Use("/ws", a.WsUpgrade())
	a.server.Get("/ws/:id", a.Notifications())
}
