package httpapi

import (
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/nguyentantai21042004/medscribe/internal/apperror"
	"github.com/nguyentantai21042004/medscribe/internal/logger"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-Id"

// requestID injects a unique request id into the response header and the
// request context so every log line of the run carries it. An incoming W3C
// trace context is picked up here too.
func (s *Server) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set("request_id", id)
		c.Header(RequestIDHeader, id)
		ctx := otel.GetTextMapPropagator().Extract(c.Request.Context(), propagation.HeaderCarrier(c.Request.Header))
		c.Request = c.Request.WithContext(logger.WithRequestID(ctx, id))
		c.Next()
	}
}

// recovery turns a panic into the generic 500 response and logs the stack.
func (s *Server) recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error(c.Request.Context(), "Panic recovered on %s %s: %v\n%s",
					c.Request.Method, c.Request.URL.Path, rec, debug.Stack())
				c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse{
					Error: apperror.MsgInternalError,
				})
			}
		}()
		c.Next()
	}
}

// requestLogger logs every request by status. Health and metrics polling is
// skipped.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		if isHealthEndpoint(c.Request.URL.Path) {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		ctx := c.Request.Context()
		const format = "Request completed: %s %s status=%d latency=%s client=%s"
		args := []interface{}{c.Request.Method, c.Request.URL.Path, status, latency, c.ClientIP()}

		switch {
		case status >= 500:
			s.logger.Error(ctx, format, args...)
		case status >= 400:
			s.logger.Warn(ctx, format, args...)
		default:
			s.logger.Info(ctx, format, args...)
		}
	}
}

// withMetrics records count and duration per route.
func (s *Server) withMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		s.metrics.RecordHTTPRequest(c.Request.Method, endpoint, strconv.Itoa(c.Writer.Status()), time.Since(start).Seconds())
	}
}

func isHealthEndpoint(path string) bool {
	return path == "/health" || path == "/metrics"
}
