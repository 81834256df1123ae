package internal

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const requestIDHeader = "X-Request-ID"

// Server exposes the App over HTTP
type Server struct {
	app    *App
	engine *gin.Engine
}

// NewServer builds the gin engine and registers all routes
func NewServer(app *App) *Server {
	engine := gin.New()
	engine.HandleMethodNotAllowed = true

	engine.Use(
		gin.CustomRecovery(recoverJSON),
		otelgin.Middleware("tldp"),
		cors.Default(),
		requestID(),
		requestLogger(),
	)

	s := &Server{app: app, engine: engine}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.engine.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Only POST method is allowed"})
	})
	s.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})

	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := s.engine.Group("/api")
	{
		playlist := api.Group("/playlist")
		playlist.POST("/to-file/", s.handlePlaylistToFile)
		playlist.POST("/as-json/", s.handlePlaylistAsJSON)

		summarize := api.Group("/summarize")
		summarize.POST("/video/", s.handleSummarizeVideo)
		summarize.GET("/test-connection/", s.handleTestConnection)
		summarize.POST("/test-connection/", s.handleTestConnection)
		summarize.POST("/playlist/", s.handleSummarizePlaylist)
	}
}

// Handler returns the HTTP handler, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	slog.Info("server ready", "addr", addr, "backend", s.app.config.Backend, "model", s.app.config.Model)

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.InfoContext(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"request_id", c.GetString("request_id"),
		)
	}
}

func recoverJSON(c *gin.Context, recovered any) {
	slog.ErrorContext(c.Request.Context(), "panic while handling request",
		"panic", recovered,
		"stack", string(debug.Stack()),
		"request_id", c.GetString("request_id"),
	)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
