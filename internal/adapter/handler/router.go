package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vibecut/autoeditor/internal/infrastructure/http/middleware"
	"github.com/vibecut/autoeditor/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg           *config.Config
	auth          *middleware.AuthMiddleware
	planHandler   *Plan
	uploadHandler *Upload
	flagHandler   *Flag
}

// NewRouter creates a new router with all handlers
func NewRouter(cfg *config.Config, auth *middleware.AuthMiddleware, planHandler *Plan, uploadHandler *Upload, flagHandler *Flag) *Router {
	return &Router{
		cfg:           cfg,
		auth:          auth,
		planHandler:   planHandler,
		uploadHandler: uploadHandler,
		flagHandler:   flagHandler,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	e.GET("/health", rt.healthCheck)

	v1 := e.Group("/v1")
	v1.Use(rt.auth.Authenticate)

	rt.setupUploadRoutes(v1)
	rt.setupPlanRoutes(v1)
	rt.setupFlagRoutes(v1)
}

func (rt *Router) setupUploadRoutes(g *echo.Group) {
	videos := g.Group("/videos")
	videos.POST("/presign", rt.uploadHandler.Presign)
	videos.POST("/confirm", rt.uploadHandler.Confirm)
	videos.GET("", rt.uploadHandler.List)
	videos.GET("/:id", rt.uploadHandler.Get)
	videos.DELETE("/:id", rt.uploadHandler.Delete)
}

func (rt *Router) setupPlanRoutes(g *echo.Group) {
	plans := g.Group("/plans")
	plans.POST("/generate", rt.planHandler.Generate)
	plans.GET("/:id", rt.planHandler.Get)
	plans.GET("/video/:videoId", rt.planHandler.ListByVideo)
	plans.GET("/jobs/:id", rt.planHandler.GetJob)
}

func (rt *Router) setupFlagRoutes(g *echo.Group) {
	flags := g.Group("/flags", rt.auth.RequireRole("admin"))
	flags.GET("/:key", rt.flagHandler.Get)
	flags.PUT("/:key", rt.flagHandler.Set)
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"environment": rt.cfg.Server.Environment,
	})
}
