package main

// @title LeadDesk API
// @version 1.0
// @description Leads, score history and conversation transcripts for a small sales team.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:3001
// @BasePath /

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/google/uuid"
	"github.com/jordanlanch/leaddesk/config"
	"github.com/jordanlanch/leaddesk/pkg/api/handlers"
	"github.com/jordanlanch/leaddesk/pkg/cache"
	"github.com/jordanlanch/leaddesk/pkg/database"
	"github.com/jordanlanch/leaddesk/pkg/events"
	"github.com/jordanlanch/leaddesk/pkg/leads"
	"github.com/jordanlanch/leaddesk/pkg/logger"
	"github.com/jordanlanch/leaddesk/pkg/messages"
	"github.com/jordanlanch/leaddesk/pkg/metrics"
	custommiddleware "github.com/jordanlanch/leaddesk/pkg/middleware"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
	_ "github.com/jordanlanch/leaddesk/docs" // OpenAPI document for /swagger
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Printf("🔧 Configuration loaded (environment: %s)", cfg.APIEnvironment)

	appLogger := logger.New(cfg.LogLevel)

	// Initialize Sentry for error tracking
	if cfg.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			Environment:      cfg.SentryEnvironment,
			TracesSampleRate: 0.2,
			AttachStacktrace: true,
			BeforeSend: func(event *sentry.Event, hint *sentry.EventHint) *sentry.Event {
				// Lead contact details never leave the process
				event.User = sentry.User{}
				if event.Request != nil {
					event.Request.Data = ""
				}
				return event
			},
		})
		if err != nil {
			log.Printf("⚠️  Failed to initialize Sentry: %v", err)
		} else {
			log.Printf("✅ Sentry initialized (environment: %s)", cfg.SentryEnvironment)
			defer sentry.Flush(2 * time.Second)
		}
	} else {
		log.Printf("ℹ️  Sentry disabled (no DSN configured)")
	}

	// Initialize database
	db, err := database.OpenFromConfig(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Printf("✅ Database connected (driver: %s)", cfg.DatabaseDriver)

	if cfg.DBAutoMigrate {
		migrateCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := db.Migrate(migrateCtx)
		cancel()
		if err != nil {
			log.Fatalf("❌ Failed to migrate database: %v", err)
		}
	}

	// Initialize Prometheus metrics
	prometheusMetrics := metrics.New()
	log.Printf("✅ Prometheus metrics initialized")

	leadOpts := []leads.Option{leads.WithMetrics(prometheusMetrics)}

	// Redis lead list cache (optional)
	var redisClient *cache.Client
	if cfg.RedisURL != "" {
		redisClient, err = cache.NewClient(cfg.RedisURL)
		if err != nil {
			log.Printf("⚠️  Redis unavailable, lead list cache disabled: %v", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
			leadOpts = append(leadOpts, leads.WithCache(redisClient, time.Duration(cfg.LeadCacheTTLSeconds)*time.Second))
			log.Printf("✅ Redis lead list cache enabled (ttl: %ds)", cfg.LeadCacheTTLSeconds)
		}
	} else {
		log.Printf("ℹ️  Redis cache disabled (no REDIS_URL configured)")
	}

	// RabbitMQ domain events (optional)
	var publisher events.Publisher = events.Noop{}
	if cfg.AMQPURL != "" {
		rabbit, err := events.NewRabbitMQPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			log.Printf("⚠️  RabbitMQ unavailable, events disabled: %v", err)
		} else {
			defer rabbit.Close()
			publisher = rabbit
			log.Printf("✅ Publishing events to exchange %s", cfg.AMQPExchange)
		}
	} else {
		log.Printf("ℹ️  Event publishing disabled (no AMQP_URL configured)")
	}
	leadOpts = append(leadOpts, leads.WithPublisher(publisher))

	// Initialize services
	leadService := leads.NewService(leads.NewStore(db.DB, db.Dialect()), appLogger, leadOpts...)
	messageService := messages.NewService(messages.NewStore(db.DB, db.Dialect()), leadService, appLogger, publisher, prometheusMetrics)

	// Initialize Echo
	e := echo.New()
	e.HideBanner = true

	limiterCtx, stopLimiter := context.WithCancel(context.Background())
	defer stopLimiter()
	globalRateLimiter := custommiddleware.NewRateLimiter(limiterCtx, cfg.RateLimitRequestsPerMinute, cfg.RateLimitBurst)

	// Global middleware
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogError:     true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Printf("[%s] %s - Status: %d (request_id: %s)", c.Request().Method, v.URI, v.Status, v.RequestID)
			return nil
		},
	}))
	e.Use(middleware.Recover())

	// Sentry error tracking middleware (if configured)
	if cfg.SentryDSN != "" {
		e.Use(sentryecho.New(sentryecho.Options{
			Repanic: true,
		}))
	}

	e.Use(prometheusMetrics.Middleware())
	e.Use(middleware.CORSWithConfig(custommiddleware.CORSConfig(cfg.CORSAllowedOrigins)))
	e.Use(middleware.Gzip())
	e.Use(middleware.Secure())
	e.Use(custommiddleware.SecurityHeaders(custommiddleware.DefaultSecurityHeadersConfig()))
	e.Use(globalRateLimiter.RateLimitMiddleware())

	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{
			"name":        "LeadDesk API",
			"version":     "1.0.0",
			"status":      "running",
			"environment": cfg.APIEnvironment,
			"timestamp":   time.Now().Unix(),
		})
	})

	var cachePinger handlers.Pinger
	if redisClient != nil {
		cachePinger = redisClient
	}
	e.GET("/health", handlers.NewHealthHandler(db, cachePinger).Check)

	// Prometheus metrics endpoint (public)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Swagger documentation (public)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	handlers.Register(e, leadService, messageService, prometheusMetrics)

	address := fmt.Sprintf("%s:%s", cfg.APIHost, cfg.APIPort)
	log.Printf("🚀 Server starting on %s", address)

	// Graceful shutdown
	go func() {
		if err := e.Start(address); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	stopLimiter()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server gracefully stopped")
}
