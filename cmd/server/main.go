package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/siamstore/storefront/internal/backend"
	"github.com/siamstore/storefront/internal/config"
	"github.com/siamstore/storefront/internal/es"
	"github.com/siamstore/storefront/internal/handlers"
	"github.com/siamstore/storefront/internal/logging"
	"github.com/siamstore/storefront/internal/middleware/csrf"
	"github.com/siamstore/storefront/internal/mykafka"
	httpserver "github.com/siamstore/storefront/internal/transport/http"
	"github.com/siamstore/storefront/internal/vision"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)
	slog.SetDefault(logger)

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("database init error: %v", err)
	}

	jwtSecret := []byte(configuration.JWT_SECRET)

	var prod *mykafka.Producer
	if configuration.KAFKA_ADDRESS != "" {
		prod, err = mykafka.NewProducer([]string{configuration.KAFKA_ADDRESS})
		if err != nil {
			logger.Warn("kafka disabled", "error", err)
			prod = nil
		}
	}

	var esClient *elasticsearch.Client
	if configuration.ES_URL != "" {
		esClient, err = es.NewClient(configuration)
		if err != nil {
			logger.Warn("search disabled", "error", err)
			esClient = nil
		}
	}

	var extractor vision.Extractor
	if configuration.VISION_KEY != "" {
		extractor = vision.NewGoogleVision(configuration.VISION_KEY)
	}

	backendClient := backend.New(configuration.BackendBase, 15*time.Second)

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(logging.RequestLogger(logger))
	e.Use(csrf.Middleware(csrf.Config{
		Secure: true,
		// bearer-token clients carry no session cookie, CSRF does not apply
		Skipper: func(c echo.Context) bool {
			return strings.HasPrefix(c.Request().Header.Get(echo.HeaderAuthorization), "Bearer ")
		},
		SkipPaths: []string{"/api/validate-slip"},
	}))
	e.Validator = httpserver.NewValidator()

	deps := httpserver.Deps{
		OrderHandler:    &handlers.OrderHandler{Backend: backendClient, Producer: prod, JWTSecret: jwtSecret},
		CatalogHandler:  &handlers.CatalogHandler{Backend: backendClient},
		CouponHandler:   &handlers.CouponHandler{Backend: backendClient},
		SlipHandler:     &handlers.SlipHandler{Vision: extractor, Producer: prod},
		SettingsHandler: &handlers.SettingsHandler{DB: db},
		AddressHandler:  &handlers.AddressHandler{DB: db, Producer: prod},
		ProfileHandler:  &handlers.ProfileHandler{DB: db},
		JWTSecret:       jwtSecret,
	}
	if esClient != nil {
		deps.SearchHandler = handlers.NewSearchHandler(esClient, "products")
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         configuration.ListenAddr,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if prod != nil {
		if err := prod.Close(); err != nil {
			log.Printf("kafka close error: %v", err)
		}
	}

	log.Println("shutdown complete")
}
