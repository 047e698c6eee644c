package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nguyentantai21042004/medscribe/internal/apperror"
	"github.com/nguyentantai21042004/medscribe/internal/processor"
)

// FormField is the multipart field carrying the recording.
const FormField = "audioFile"

type analyzeResponse struct {
	Transcript string `json:"transcript"`
	Analysis   string `json:"analysis"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleIndex(c *gin.Context) {
	page, err := staticFiles.ReadFile("static/index.html")
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

// handleAnalyze runs one upload through the pipeline.
func (s *Server) handleAnalyze(c *gin.Context) {
	ctx := c.Request.Context()
	if s.opts.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.opts.MaxUploadBytes)
	}

	fh, err := c.FormFile(FormField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.logger.Warn(ctx, "Upload rejected, body exceeds %d bytes", tooLarge.Limit)
			s.respondError(c, apperror.Validation(apperror.MsgFileTooLarge))
			return
		}
		// A part sent with an empty filename is parsed as a plain value.
		if form := c.Request.MultipartForm; form != nil && len(form.Value[FormField]) > 0 {
			s.logger.Warn(ctx, "Analyze request with empty filename")
			s.respondError(c, apperror.Validation(apperror.MsgInvalidFile))
			return
		}
		s.logger.Warn(ctx, "Analyze request without %s part: %v", FormField, err)
		s.respondError(c, apperror.Validation(apperror.MsgNoFilePart))
		return
	}

	f, err := fh.Open()
	if err != nil {
		s.respondError(c, err)
		return
	}
	defer f.Close()

	res, err := s.processor.Process(ctx, processor.Upload{Filename: fh.Filename, Body: f})
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, analyzeResponse{
		Transcript: res.Transcript,
		Analysis:   res.Analysis.Render(),
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"uptime":    time.Since(s.startTime).Round(time.Second).String(),
		"service": gin.H{
			"name": "medscribe",
		},
	})
}

// respondError writes the client-safe form of err. Details stay in the log.
func (s *Server) respondError(c *gin.Context, err error) {
	appErr := apperror.From(err)
	if appErr.Kind == apperror.KindInternal {
		s.logger.Error(c.Request.Context(), "Request failed: %v", err)
	}
	c.JSON(appErr.HTTPStatus(), errorResponse{Error: appErr.PublicMessage()})
}
