package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
)

// NewRouter wires the REST API. Submission is rate limited per caller; every
// route except the health check needs a bearer token.
func NewRouter(h *Handlers, auth *Authenticator, limiter *SubmitLimiter, log *slog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLog(log))

	r.GET("/healthz", func(c *gin.Context) {
		respond(c, http.StatusOK, "ok", nil)
	})

	api := r.Group("/api/v1")
	api.Use(auth.Middleware())
	{
		appts := api.Group("/appointments")
		appts.POST("", limiter.Middleware(), h.CreateAppointment)
		appts.GET("", h.ListAppointments)
		appts.GET("/:id", h.GetAppointment)
		appts.POST("/:id/approve", h.ApproveAppointment)
		appts.POST("/:id/decline", h.DeclineAppointment)
		appts.POST("/:id/schedule", h.ScheduleAppointment)
		appts.POST("/:id/cancel", h.CancelAppointment)
		appts.POST("/:id/outcome", h.MarkSameDayOutcome)
		appts.PUT("/:id/archived", h.SetArchived)

		avail := api.Group("/availability")
		avail.GET("/days", h.DayAvailability)
		avail.GET("/month", h.MonthGrid)
		avail.GET("/slots", h.SlotAvailability)
	}
	return r
}

// WithCORS allows the configured web origins to call handler. Callers send
// bearer headers, so cookies and other credentials are never allowed. An
// empty origin list admits no cross-origin callers.
func WithCORS(handler http.Handler, origins []string) http.Handler {
	if len(origins) == 0 {
		return handler
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         600,
	}).Handler(handler)
}

func requestLog(log *slog.Logger) gin.HandlerFunc {
	log = log.With(slog.String("component", "http.access"))
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug(
			"request finished",
			slog.String("method", c.Request.Method),
			slog.String("path", c.FullPath()),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("elapsed", time.Since(start)),
		)
	}
}
