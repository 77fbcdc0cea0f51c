package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/rentals-web/internal/application/api"
	"github.com/jhoicas/rentals-web/internal/application/ports"
	"github.com/jhoicas/rentals-web/internal/infrastructure/rest"
	httpRouter "github.com/jhoicas/rentals-web/internal/interfaces/http"
	"github.com/jhoicas/rentals-web/internal/querycache"
	"github.com/jhoicas/rentals-web/pkg/config"
	"github.com/jhoicas/rentals-web/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("api_base_url", cfg.API.BaseURL).
		Msg("iniciando aplicación")

	restLog := log.Component("rest")
	cacheLog := log.Component("querycache")
	apiLog := log.Component("api")
	factory := func(session ports.IdentitySession) *api.Client {
		requester := rest.NewBaseQuery(cfg.API.BaseURL, cfg.API.Timeout, session, restLog)
		store := querycache.New(querycache.Options{
			KeepUnusedFor: cfg.Cache.KeepUnusedFor,
			Logger:        cacheLog,
		})
		return api.New(requester, store, apiLog)
	}
	clients := httpRouter.NewClientRegistry(factory, cfg.Cache.KeepUnusedFor, log.Component("bff"))

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	go clients.Run(ctx, cfg.Cache.GCInterval)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.App.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.App.SwaggerFile,
			Path:     "docs",
			Title:    "Rentals Web BFF",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{Clients: clients})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
