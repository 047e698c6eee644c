package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nguyentantai21042004/medscribe/internal/logger"
	"github.com/nguyentantai21042004/medscribe/internal/metrics"
	"github.com/nguyentantai21042004/medscribe/internal/processor"
)

// Options configures the HTTP server.
type Options struct {
	Addr           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	MaxUploadBytes int64
}

// Server serves the analysis API and the front-end page.
type Server struct {
	opts      Options
	processor processor.Processor
	logger    logger.Logger
	metrics   *metrics.Metrics
	engine    *gin.Engine
	server    *http.Server
	startTime time.Time
}

// New creates the server and its routes. Metrics may be nil.
func New(opts Options, proc processor.Processor, log logger.Logger, m *metrics.Metrics) *Server {
	s := &Server{
		opts:      opts,
		processor: proc,
		logger:    log,
		metrics:   m,
		startTime: time.Now(),
	}

	s.engine = gin.New()
	s.engine.MaxMultipartMemory = 8 << 20
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         opts.Addr,
		Handler:      s.engine,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}
