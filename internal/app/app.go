package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/jaehokim/marketplace-service/config"
	"github.com/jaehokim/marketplace-service/internal/controller"
	"github.com/jaehokim/marketplace-service/internal/infrastructure/filestore"
	"github.com/jaehokim/marketplace-service/internal/infrastructure/inference"
	"github.com/jaehokim/marketplace-service/internal/infrastructure/message-queue/kafka"
	"github.com/jaehokim/marketplace-service/internal/infrastructure/tracing"
	custommiddleware "github.com/jaehokim/marketplace-service/internal/middleware"
	"github.com/jaehokim/marketplace-service/internal/repository"
	"github.com/jaehokim/marketplace-service/internal/service"
	pkgdto "github.com/jaehokim/marketplace-service/pkg/dto"
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const serviceName = "marketplace-service"

type App struct {
	DB         *sqlx.DB
	Config     *config.Config
	FileStore  filestore.FileStore
	Classifier inference.Classifier
	Producer   kafka.Producer
	Server     *echo.Echo
}

func (app *App) Start() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = logger

	e := echo.New()
	traceProvider, err := tracing.InitTracing(serviceName, app.Config.TracingConfig.CollectorHost)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize tracing")
	}

	defer func() {
		if err := traceProvider.Shutdown(context.Background()); err != nil {
			logger.Error().Err(err).Msg("Failed to shutdown tracing")
		}
	}()

	tracer := traceProvider.Tracer(serviceName)

	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx, span := tracer.Start(c.Request().Context(), fmt.Sprintf("[%s] %s", c.Request().Method, c.Path()))
			defer span.End()

			req := c.Request()
			c.SetRequest(req.WithContext(ctx))

			return next(c)
		}
	})

	// Used empty string so that metrics are not prefixed with the service name making it easier to aggregate across services
	e.Use(echoprometheus.NewMiddleware(""))

	go func() {
		metrics := echo.New()
		metrics.GET("/metrics", echoprometheus.NewHandler())
		if err := metrics.Start(fmt.Sprintf(":%s", app.Config.MetricsPort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start metrics server")
		}
	}()

	g := e.Group("/api/v1")

	g.Use(custommiddleware.RequestID)
	g.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogMethod:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Info().
				Str("method", v.Method).
				Str("URI", v.URI).
				Int("status", v.Status).
				Int64("latency", v.Latency.Microseconds()).
				Str("remote IP", v.RemoteIP).
				Msg("Request")

			return nil
		},
	}))

	repo := repository.CreateNewRepository(app.DB)
	svc := service.CreateProductService(repo, app.FileStore, app.Classifier, app.Producer, *app.Config)
	controller.CreateProductController(g, svc)

	g.GET("/ping", func(c echo.Context) error {
		return pkgdto.WriteSuccessResponse(c, "Hello, World!", nil)
	})

	app.Server = e

	e.Logger.Fatal(e.Start(fmt.Sprintf(":%s", app.Config.ServicePort)))
}

func (app *App) StopServer() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return app.Server.Shutdown(ctx)
}
