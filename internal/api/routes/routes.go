package routes

import (
	"net/http"
	"time"

	"github.com/apresmonbac/orientation/config"
	"github.com/apresmonbac/orientation/internal/api/handlers"
	"github.com/apresmonbac/orientation/internal/api/middleware"
	"github.com/apresmonbac/orientation/internal/metrics"
	"github.com/gin-gonic/gin"
)

type Deps struct {
	Catalog      *handlers.CatalogHandler
	Submission   *handlers.SubmissionHandler
	Notification *handlers.NotificationHandler
	Admin        *handlers.AdminHandler

	Health  http.Handler // serves /live and /ready
	Metrics *metrics.Metrics
	Limiter middleware.Limiter
	JWT     config.JWTConfig

	SubmitRateLimit  int
	SubmitRateWindow time.Duration
	NotifyRateLimit  int
	NotifyRateWindow time.Duration
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// global so that preflights of unmatched methods are answered too
	r.Use(middleware.PublicCORS("/functions/"))

	// Health-ish
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
	if d.Health != nil {
		r.GET("/live", gin.WrapH(d.Health))
		r.GET("/ready", gin.WrapH(d.Health))
	}
	if d.Metrics != nil {
		r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}

	// Public catalog + submission
	api := r.Group("/api")

	api.GET("/universities", d.Catalog.Universities)
	api.GET("/universities/:id", d.Catalog.University)
	api.GET("/filieres", d.Catalog.Filieres)
	api.GET("/filieres/:slug", d.Catalog.Filiere)
	api.GET("/concours", d.Catalog.Concours)
	api.GET("/stages", d.Catalog.Stages)
	api.GET("/stages/:id", d.Catalog.Stage)
	api.GET("/formations", d.Catalog.Formations)
	api.GET("/conseils", d.Catalog.Conseils)

	api.POST("/stages/:id/applications",
		middleware.RateLimit(d.Limiter, "submit", d.SubmitRateLimit, d.SubmitRateWindow, d.Metrics),
		d.Submission.Submit,
	)

	// Notification function, callable from the browser
	fn := r.Group("/functions")
	fn.Use(middleware.NotifyCORS())
	fn.OPTIONS("/send-application-email", func(c *gin.Context) {})
	fn.POST("/send-application-email",
		middleware.RateLimit(d.Limiter, "notify", d.NotifyRateLimit, d.NotifyRateWindow, d.Metrics),
		d.Notification.Send,
	)

	// Protected routes (JWT, admin role)
	admin := r.Group("/admin")
	admin.Use(middleware.JWTAuth(d.JWT), middleware.RequireAdmin())

	admin.GET("/applications", d.Admin.ListApplications)
	admin.GET("/applications/:id", d.Admin.GetApplication)
}
