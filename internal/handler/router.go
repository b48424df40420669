package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"undangan/rsvphub/internal/config"
	"undangan/rsvphub/internal/handler/middleware"
	"undangan/rsvphub/internal/service"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	RSVP       *RSVPHandler
	Token      *TokenHandler
	Attendance *AttendanceHandler
	Event      *EventHandler
	Admin      *AdminHandler
}

func SetupRouter(cfg *config.Config, logger *zap.Logger, adminService service.AdminService, h Handlers) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(cfg.CORS))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if cfg.Metrics.Enabled {
		r.GET(cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	// Guest-facing routes
	api := r.Group("/api")
	{
		api.POST("/rsvp", h.RSVP.Submit)
		api.GET("/counter", h.Attendance.Counter)
		api.GET("/event", h.Event.Get)

		api.GET("/token/:token", h.Token.Get)
		api.PATCH("/token/:token", h.Token.CheckIn)
		api.GET("/token/:token/qr", h.Token.QR)

		api.POST("/admin/login", h.Admin.Login)
	}

	// Admin routes (session token or PIN header)
	admin := r.Group("/api")
	admin.Use(middleware.AdminAuth(adminService))
	{
		admin.POST("/admin/logout", h.Admin.Logout)

		admin.GET("/attendance", h.Attendance.List)
		admin.GET("/attendance/stats", h.Attendance.Stats)
		admin.PATCH("/attendance/:id", h.Attendance.Update)
		admin.DELETE("/attendance/:id", h.Attendance.Delete)

		admin.POST("/wa", h.Attendance.Resend)
	}

	return r
}
