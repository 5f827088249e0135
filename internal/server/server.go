// Package server exposes the post-consume webhook that triggers document
// processing from paperless-ngx.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pigeonhole-ngx/pigeonhole/internal/common"
	"github.com/pigeonhole-ngx/pigeonhole/internal/model"
)

// DocumentProcessor runs the full pipeline for one document.
type DocumentProcessor interface {
	ProcessDocument(ctx context.Context, documentID int) (*model.ReconciliationResult, error)
}

// Server hosts the webhook endpoint.
type Server struct {
	processor DocumentProcessor
	httpSrv   *http.Server
	addr      string
}

// New creates a webhook server bound to addr.
func New(processor DocumentProcessor, addr string) *Server {
	return &Server{processor: processor, addr: addr}
}

// Handler builds the HTTP handler. Exposed separately so tests can drive
// it without a listener.
func (s *Server) Handler() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(requestLogger(), gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "pigeonhole",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	api := router.Group("/api/v1")
	{
		api.POST("/hooks/document", s.handleDocumentHook)
	}
	return router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.httpSrv = &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Webhook server listening", "addr", s.addr)
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		slog.Info("Shutting down webhook server")
		return s.httpSrv.Shutdown(shutdownCtx)
	}
}

type documentHook struct {
	DocumentID int `json:"document_id" binding:"required,gt=0"`
}

func (s *Server) handleDocumentHook(c *gin.Context) {
	var hook documentHook
	if err := c.ShouldBindJSON(&hook); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "document_id is required"})
		return
	}

	result, err := s.processor.ProcessDocument(c.Request.Context(), hook.DocumentID)
	switch {
	case errors.Is(err, common.ErrAlreadyProcessed):
		c.JSON(http.StatusOK, gin.H{
			"status":      "already_processed",
			"document_id": hook.DocumentID,
		})
	case err != nil:
		slog.Error("Webhook processing failed", "document_id", hook.DocumentID, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, result)
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Info("Request handled",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}
