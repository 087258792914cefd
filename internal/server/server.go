// Package server exposes activity reports over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"

	"github.com/verte-zerg/ridestats/internal/model"
	"github.com/verte-zerg/ridestats/internal/stats"
	"github.com/verte-zerg/ridestats/internal/store"
)

const (
	metricsNamespace = "ridestats"
	activitiesKey    = "activities"
	defaultCacheTTL  = time.Minute
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=server_test

type activityLoader interface {
	Load(ctx context.Context) ([]model.Activity, error)
}

// Options configures a Server.
type Options struct {
	CacheTTL time.Duration
	// Registry receives HTTP and domain metrics. A fresh registry is used when nil.
	Registry *prometheus.Registry
}

// Server serves the JSON API.
type Server struct {
	echo    *echo.Echo
	loader  activityLoader
	cache   *cache.Cache
	metrics *Metrics
}

// New wires routes, middleware and the activity cache.
func New(loader activityLoader, opts Options) *Server {
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	s := &Server{
		echo:    echo.New(),
		loader:  loader,
		cache:   cache.New(ttl, 2*ttl),
		metrics: NewMetrics(metricsNamespace, reg),
	}

	e := s.echo
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.WithFields(log.Fields{
				"method":  v.Method,
				"uri":     v.URI,
				"status":  v.Status,
				"latency": v.Latency,
			}).Debug("request")
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  metricsNamespace,
		Subsystem:  "http",
		Registerer: reg,
	}))

	e.GET("/healthz", s.handleHealth)
	e.GET("/api/years", s.handleYears)
	e.GET("/api/report", s.handleReport)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: reg}))
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Invalidate drops the cached activity collection.
func (s *Server) Invalidate() {
	s.cache.Delete(activitiesKey)
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		log.Infof("listening on %s", addr)
		errCh <- s.echo.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) activities(ctx context.Context) ([]model.Activity, error) {
	if cached, ok := s.cache.Get(activitiesKey); ok {
		return cached.([]model.Activity), nil
	}
	s.metrics.CounterCacheMisses.Inc()
	activities, err := s.loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(activitiesKey, activities, cache.DefaultExpiration)
	s.metrics.GaugeActivities.Set(float64(len(activities)))
	return activities, nil
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleYears(c echo.Context) error {
	activities, err := s.activities(c.Request().Context())
	if err != nil {
		return loadError(err)
	}
	return c.JSON(http.StatusOK, map[string][]int{"years": stats.Years(activities)})
}

func (s *Server) handleReport(c echo.Context) error {
	opts := model.Options{Type: c.QueryParam("type")}
	if raw := c.QueryParam("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil || year < 1 || year > 9999 {
			s.metrics.CounterReports.WithLabelValues("bad_request").Inc()
			return echo.NewHTTPError(http.StatusBadRequest, "year must be a positive integer")
		}
		opts.Year = year
	}

	activities, err := s.activities(c.Request().Context())
	if err != nil {
		s.metrics.CounterReports.WithLabelValues("error").Inc()
		return loadError(err)
	}
	s.metrics.CounterReports.WithLabelValues("ok").Inc()
	return c.JSON(http.StatusOK, stats.BuildReportFrom(activities, opts))
}

func loadError(err error) error {
	if errors.Is(err, store.ErrDataUnavailable) {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "activity data unavailable").SetInternal(err)
	}
	log.Errorf("load activities: %s", err)
	return echo.NewHTTPError(http.StatusInternalServerError, "failed to load activities").SetInternal(err)
}
