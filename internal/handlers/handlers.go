package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/pulsefeed/backend/internal/auth"
	"github.com/pulsefeed/backend/internal/repository"
	"gorm.io/gorm"
)

// Handlers bundles the HTTP handlers and their dependencies
type Handlers struct {
	db   *gorm.DB
	repo repository.PostRepository
	auth auth.Provider
}

// New creates the handler set over the given database and auth provider
func New(db *gorm.DB, provider auth.Provider) *Handlers {
	return &Handlers{
		db:   db,
		repo: repository.NewPostRepository(db),
		auth: provider,
	}
}

// SetupRoutes mounts all routes on the given engine
func (h *Handlers) SetupRoutes(router *gin.Engine) {
	router.GET("/health", h.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	api.Use(auth.Middleware(h.auth))
	{
		api.GET("/posts", h.ListPosts)
		api.POST("/posts", h.CreatePost)
		api.PUT("/posts/:id", h.UpdatePost)
		api.DELETE("/posts/:id", h.DeletePost)
		api.POST("/posts/:id/like", h.ToggleLike)

		api.GET("/users/me", h.GetMe)
	}
}

// Health reports service and database liveness
func (h *Handlers) Health(c *gin.Context) {
	status := "ok"
	dbStatus := "ok"
	httpStatus := http.StatusOK

	if err := h.pingDB(); err != nil {
		status = "degraded"
		dbStatus = err.Error()
		httpStatus = http.StatusServiceUnavailable
	}

	c.JSON(httpStatus, gin.H{
		"status":   status,
		"database": dbStatus,
	})
}

func (h *Handlers) pingDB() error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
