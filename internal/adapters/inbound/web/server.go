// Package web serves the upload form and the validation API over HTTP.
package web

import (
	_ "embed"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/etlvalidator/etlvalidator/internal/application"
	"github.com/etlvalidator/etlvalidator/internal/domain"
)

//go:embed index.html
var indexHTML []byte

// maxUploadBytes caps each uploaded file.
const maxUploadBytes = 32 << 20

// Options configure a Server.
type Options struct {
	// GenerateCorrection is used when a request does not send "correct".
	GenerateCorrection bool
	Debug              bool
}

// Server wires the HTTP routes to the validation pipeline.
type Server struct {
	router    *gin.Engine
	validator application.Validator
	export    *application.ExportService
	runs      domain.RunStore
	opts      Options
	logger    *zap.Logger
}

// NewServer registers all routes.
func NewServer(v application.Validator, export *application.ExportService, runs domain.RunStore, opts Options, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !opts.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		router:    gin.New(),
		validator: v,
		export:    export,
		runs:      runs,
		opts:      opts,
		logger:    logger,
	}
	s.router.Use(gin.Recovery(), s.requestLogger())
	s.router.HandleMethodNotAllowed = true
	s.router.MaxMultipartMemory = 2 * maxUploadBytes

	s.router.GET("/", s.index)
	s.router.POST("/api/validate", s.validate)
	s.router.GET("/api/runs/:id", s.getRun)
	s.router.GET("/api/runs/:id/report.pdf", s.downloadPDF)
	s.router.GET("/api/runs/:id/report.docx", s.downloadDocx)
	s.router.GET("/api/runs/:id/corrected.py", s.downloadCorrected)

	s.router.GET("/health", healthResponse)
	s.router.HEAD("/health", healthResponse)

	return s
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// HTTPServer returns a configured http.Server listening on addr. Model calls
// can be slow, so only header reads are bounded.
func (s *Server) HTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 20 * time.Second,
		ReadTimeout:       5 * time.Minute,
	}
}

func healthResponse(c *gin.Context) {
	c.Writer.WriteHeader(http.StatusOK)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if c.FullPath() == "/health" {
			return
		}
		s.logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.String("remote_addr", c.ClientIP()),
			zap.Duration("elapsed", time.Since(start)),
		)
	}
}

func (s *Server) index(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", indexHTML)
}
