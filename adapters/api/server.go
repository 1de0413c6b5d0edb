// Package api exposes the dashboard's aggregations as JSON for external
// renderers. The HTML shell lives in ui; this surface serves the same
// GroupCount rows without any markup.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"failboard/app"
	"failboard/internal"
	"failboard/internal/errors"
	"failboard/internal/viewstate"
)

// Server wraps a gin engine around the dashboard service.
type Server struct {
	engine  *gin.Engine
	service *app.DashboardService
	log     *internal.Logger
	port    string
}

// Config holds API server settings.
type Config struct {
	Port    string
	GinMode string
}

// NewServer creates the JSON API server.
func NewServer(config Config, service *app.DashboardService, log *internal.Logger) *Server {
	if config.GinMode != "" {
		gin.SetMode(config.GinMode)
	}

	s := &Server{
		engine:  gin.New(),
		service: service,
		log:     log.With("API"),
		port:    config.Port,
	}
	s.engine.Use(gin.Recovery())
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.engine.GET("/api/health", s.handleHealth)
	s.engine.GET("/api/views", s.handleViews)
	s.engine.GET("/api/views/:name", s.handleView)
	s.engine.GET("/api/dashboard", s.handleDashboard)
}

// Handler exposes the engine for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	s.log.Info("api listening on :%s", s.port)
	return s.engine.Run(":" + s.port)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "dataset": s.service.DatasetName()})
}

// handleViews lists the configured views without computing them.
func (s *Server) handleViews(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"views": s.service.Registry()})
}

// handleView computes one view. Filter and selection state arrive as the
// same query parameters the HTML shell uses.
func (s *Server) handleView(c *gin.Context) {
	query := c.Request.URL.Query()
	result, err := s.service.RenderView(c.Request.Context(), c.Param("name"),
		viewstate.ParseFilter(query), viewstate.ParseSelection(query))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.GetCode(err) == errors.CodeNotFound {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// handleDashboard computes every view plus the summary panels in one call.
func (s *Server) handleDashboard(c *gin.Context) {
	query := c.Request.URL.Query()
	data, err := s.service.Render(c.Request.Context(),
		viewstate.ParseFilter(query), viewstate.ParseSelection(query))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, data)
}
