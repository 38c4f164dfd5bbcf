package router

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/mindline/practice-api/internal/handler"
	appointmenthandler "github.com/mindline/practice-api/internal/handler/appointment"
	authhandler "github.com/mindline/practice-api/internal/handler/auth"
	consenthandler "github.com/mindline/practice-api/internal/handler/consent"
	contacthandler "github.com/mindline/practice-api/internal/handler/contact"
	messagehandler "github.com/mindline/practice-api/internal/handler/message"
	patienthandler "github.com/mindline/practice-api/internal/handler/patient"
	"github.com/mindline/practice-api/internal/middleware"
)

type Config struct {
	RateLimit rate.Limit
	RateBurst int
	CORS      middleware.CORSConfig
	Metrics   bool
}

type Router struct {
	engine  *gin.Engine
	auth    *middleware.AuthMiddleware
	metrics *routerMetrics
}

type Handlers struct {
	Auth        *authhandler.Handler
	Patient     *patienthandler.Handler
	Appointment *appointmenthandler.Handler
	Consent     *consenthandler.Handler
	Message     *messagehandler.Handler
	Contact     *contacthandler.Handler
	Health      *handler.HealthHandler
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
}

func newRouterMetrics() *routerMetrics {
	m := &routerMetrics{
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "practice_api_request_duration_seconds",
			Help:    "HTTP request latency by method and path.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "practice_api_requests_total",
			Help: "HTTP requests by method, path and status.",
		}, []string{"method", "path", "status"}),
	}
	prometheus.MustRegister(m.requestDuration, m.requestTotal)
	return m
}

func New(auth *middleware.AuthMiddleware, handlers Handlers, cfg Config) *Router {
	gin.SetMode(gin.ReleaseMode)
	registerValidations()
	engine := gin.New()

	r := &Router{engine: engine, auth: auth}

	engine.Use(
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORS),
	)

	if cfg.RateLimit > 0 {
		limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateBurst)
		engine.Use(limiter.RateLimit())
	}

	if cfg.Metrics {
		r.metrics = newRouterMetrics()
		engine.Use(r.metricsMiddleware())
		engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	engine.GET("/health", handlers.Health.Health)

	// Public surface: registration, login, lead capture.
	public := engine.Group("")
	handlers.Contact.RegisterPublicRoutes(public)

	api := engine.Group("/api/v1")
	handlers.Auth.RegisterPublicRoutes(api)

	authed := api.Group("")
	authed.Use(auth.Authenticate())
	requirePractitioner := auth.RequirePractitioner()

	handlers.Auth.RegisterRoutes(authed)
	handlers.Patient.RegisterRoutes(authed, requirePractitioner)
	handlers.Appointment.RegisterRoutes(authed, requirePractitioner)
	handlers.Consent.RegisterRoutes(authed, requirePractitioner)
	handlers.Message.RegisterRoutes(authed)
	handlers.Contact.RegisterRoutes(authed, requirePractitioner)

	return r
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		r.metrics.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		r.metrics.requestDuration.WithLabelValues(c.Request.Method, path, status).
			Observe(time.Since(start).Seconds())
	}
}
