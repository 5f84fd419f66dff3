// cmd/main.go is the application entry point.
// It wires together all layers and starts the HTTP server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.12.0"

	"github.com/hostboard/hostboard/internal/auth"
	"github.com/hostboard/hostboard/internal/database"
	"github.com/hostboard/hostboard/internal/handler"
	"github.com/hostboard/hostboard/internal/repository"
	"github.com/hostboard/hostboard/internal/service"
)

const serviceName = "hostboard"

func main() {
	_ = godotenv.Load()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	ctx := context.Background()

	// Tracing
	exp, err := newExporter(getEnv("JAEGER_ADDRESS", "http://localhost:14268/api/traces"))
	if err != nil {
		logger.WithError(err).Fatal("initialize trace exporter")
	}
	tp := newTraceProvider(exp)
	defer func() { _ = tp.Shutdown(ctx) }()
	otel.SetTracerProvider(tp)
	tracer := tp.Tracer(serviceName)

	// Session tokens come from the hosted auth provider; this service only
	// verifies them.
	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		logger.Fatal("SESSION_SECRET is required")
	}
	verifier, err := auth.NewVerifier([]byte(secret))
	if err != nil {
		logger.WithError(err).Fatal("initialize session verifier")
	}

	// Storage
	pool, err := database.NewPool(ctx)
	if err != nil {
		logger.WithError(err).Fatal("connect to database")
	}
	defer pool.Close()
	logger.Info("connected to PostgreSQL")

	// Wire up layers
	propertyRepo := repository.NewPropertyRepository(pool, tracer)
	bookingRepo := repository.NewBookingRepository(pool, tracer)
	calendarRepo := repository.NewCalendarRepository(pool, tracer)

	propertySvc := service.NewPropertyService(propertyRepo)
	bookingSvc := service.NewBookingService(bookingRepo, propertyRepo, calendarRepo)
	calendarSvc := service.NewCalendarService(calendarRepo, propertyRepo)

	propertyHandler := handler.NewPropertyHandler(propertySvc, logger)
	bookingHandler := handler.NewBookingHandler(bookingSvc, logger)
	calendarHandler := handler.NewCalendarHandler(calendarSvc, logger)

	// Router
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(handler.TraceContext)
	r.Use(handler.RequestLogger(logger))
	r.Use(handler.CORS)
	r.Use(handler.Session(verifier))

	r.Get("/health", handler.HealthCheck)

	r.Route("/properties", func(r chi.Router) {
		r.Use(handler.RequireSession)
		r.Get("/", propertyHandler.List)
		r.Post("/", propertyHandler.Create)
		r.Get("/{id}", propertyHandler.Get)
		r.Put("/{id}", propertyHandler.Update)
		r.Delete("/{id}", propertyHandler.Delete)
	})

	r.Route("/bookings", func(r chi.Router) {
		// Guest-facing booking form posts without a session.
		r.Post("/", bookingHandler.Create)

		r.Group(func(r chi.Router) {
			r.Use(handler.RequireSession)
			r.Get("/", bookingHandler.List)
			r.Get("/{id}", bookingHandler.Get)
			r.Put("/{id}", bookingHandler.UpdateStatus)
		})
	})

	r.Route("/calendar", func(r chi.Router) {
		r.Use(handler.RequireSession)
		r.Get("/", calendarHandler.Get)
		r.Post("/block", calendarHandler.BulkUpdate)
	})

	// Start server with graceful shutdown
	port := getEnv("PORT", "8080")
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.WithField("port", port).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Fatal("graceful shutdown failed")
	}
	logger.Info("server stopped")
}

func newExporter(address string) (*jaeger.Exporter, error) {
	return jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(address)))
}

func newTraceProvider(exp sdktrace.SpanExporter) *sdktrace.TracerProvider {
	r, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(serviceName),
		),
	)
	if err != nil {
		panic(err)
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(r),
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
