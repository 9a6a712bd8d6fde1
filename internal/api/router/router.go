package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"shift-report/config"
	"shift-report/internal/api/handler"
	"shift-report/internal/api/middleware"
	"shift-report/internal/service"
)

// Setup builds the gin engine.
// limiter may be nil, in which case login is not rate limited.
func Setup(
	cfg *config.Config,
	h *handler.Handler,
	auth middleware.SessionAuthenticator,
	limiter middleware.RateLimiter,
	db *gorm.DB,
	logger *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	// ── health ──
	r.GET("/health", func(c *gin.Context) {
		status := "ok"
		code := http.StatusOK
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			status = "database unavailable"
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{"status": status})
	})

	v1 := r.Group("/api/v1")
	{
		// public forms
		v1.GET("/form-options", h.Report.FormOptions)
		v1.POST("/reports", h.Report.Submit)
		v1.PUT("/location-pings", h.LocationPing.Report)

		// admin login, rate limited per client IP
		v1.POST("/admin/login",
			middleware.RateLimit(limiter, cfg.Admin.LoginRateLimit, cfg.Admin.LoginRateWindow),
			h.Admin.Login)

		admin := v1.Group("/admin")
		admin.Use(middleware.AdminAuth(auth))
		{
			admin.POST("/logout", h.Admin.Logout)

			admin.GET("/hours", h.Hours.WeeklyHours)
			admin.GET("/hours/export.xlsx", h.Export.HoursXLSX)
			admin.GET("/shifts/export.ics", h.Export.ShiftsICS)

			admin.GET("/reports", h.Report.List)
			admin.GET("/reports/export.csv", h.Export.ReportsCSV)

			admin.GET("/location-pings", h.LocationPing.Tracking)

			reset := admin.Group("/reset")
			{
				reset.POST("/locations", h.Admin.Reset(service.ResetLocations))
				reset.POST("/reports", h.Admin.Reset(service.ResetReports))
				reset.POST("/cancel", h.Admin.CancelReset)
			}
		}
	}

	return r
}
