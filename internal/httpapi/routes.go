package httpapi

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed static
var staticFiles embed.FS

func (s *Server) setupRoutes() {
	// recovery sits innermost so panics are still logged and counted as 500s.
	s.engine.Use(s.requestID(), s.requestLogger(), s.withMetrics(), s.recovery())

	assets, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}

	s.engine.GET("/", s.handleIndex)
	s.engine.StaticFS("/static", http.FS(assets))
	s.engine.POST("/analyze", s.handleAnalyze)
	s.engine.GET("/health", s.handleHealth)

	// Prometheus metrics endpoint
	s.engine.GET("/metrics", gin.WrapH(s.metrics.Handler()))
}
