package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Kherraz-Med-Achraf/Projet-5IW-sub001/config"
	"github.com/Kherraz-Med-Achraf/Projet-5IW-sub001/internal/api/handler"
	"github.com/Kherraz-Med-Achraf/Projet-5IW-sub001/internal/api/middleware"
	"github.com/Kherraz-Med-Achraf/Projet-5IW-sub001/pkg/jwt"
	"github.com/Kherraz-Med-Achraf/Projet-5IW-sub001/pkg/redis"
)

// Roles known to the identity service.
const (
	RoleDirector = "director"
	RoleStaff    = "staff"
)

// New assembles the gin engine: global middleware, health check, and the
// versioned API routes. rdb may be nil; the rate limiter then passes through.
func New(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	api.Use(middleware.JWTAuth(jwtMgr))

	// Read side, open to both roles.
	read := api.Group("")
	read.Use(middleware.RoleAuth(RoleDirector, RoleStaff))
	{
		read.GET("/semesters", h.Semester.List)
		read.GET("/semesters/:id", h.Semester.Get)
		read.GET("/semesters/:id/schedule", h.Planning.GetSchedule)
		read.GET("/semesters/:id/staff/:staffId", h.Planning.GetStaffSchedule)
		read.GET("/semesters/:id/children/:childId", h.Planning.GetChildSchedule)
		read.GET("/semesters/:id/document", h.Import.GetDocument)
	}

	// Write side, directors only.
	write := api.Group("")
	write.Use(middleware.RoleAuth(RoleDirector))
	{
		write.POST("/semesters", middleware.BodyLimit(1<<20), h.Semester.Create)
		write.POST("/semesters/:id/submit", h.Semester.Submit)

		upload := write.Group("")
		upload.Use(middleware.BodyLimit(cfg.Import.MaxUploadSize + 1<<20))
		upload.Use(middleware.RateLimit(rdb, 10, time.Minute))
		{
			upload.POST("/semesters/:id/preview", h.Import.Preview)
			upload.POST("/semesters/:id/import", h.Import.Import)
		}

		entries := write.Group("/entries", middleware.BodyLimit(1<<20))
		{
			entries.POST("/:id/cancel", h.Entry.Cancel)
			entries.POST("/:id/reactivate", h.Entry.Reactivate)
			entries.POST("/:id/reassign", h.Entry.ReassignAll)
			entries.POST("/:id/reassign-child", h.Entry.ReassignChild)
		}
	}

	return r
}
