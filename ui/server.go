package ui

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"salesboard/app"
	"salesboard/internal/config"
	"salesboard/internal/logger"
	"salesboard/internal/narrative"
)

//go:embed templates/*.html static/*
var embeddedFiles embed.FS

// Server represents the web server for the sales dashboard
type Server struct {
	router    *gin.Engine
	service   *app.DashboardService
	templates *template.Template
	log       *logger.Logger
}

// NewServer creates the server, parses templates and registers routes.
func NewServer(cfg config.ServerConfig, service *app.DashboardService, log *logger.Logger) (*Server, error) {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	s := &Server{
		router:  gin.New(),
		service: service,
		log:     log,
	}

	if err := s.parseTemplates(); err != nil {
		return nil, err
	}

	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

func (s *Server) parseTemplates() error {
	funcMap := template.FuncMap{
		"number": narrative.Number,
		"join":   strings.Join,
		"add":    func(a, b int) int { return a + b },
		"contains": func(values []string, v string) bool {
			for _, x := range values {
				if x == v {
					return true
				}
			}
			return false
		},
		"formatTime": func(t time.Time) string {
			return t.Format("2006-01-02 15:04:05 MST")
		},
	}

	templatesFS, err := fs.Sub(embeddedFiles, "templates")
	if err != nil {
		return fmt.Errorf("failed to create templates filesystem: %w", err)
	}

	tmpl, err := template.New("").Funcs(funcMap).ParseFS(templatesFS, "*.html")
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}
	s.templates = tmpl
	return nil
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.GET("/healthz", s.handleHealth)

	api := s.router.Group("/api")
	api.GET("/dashboard", s.handleDashboard)
	api.GET("/export.csv", s.handleExportCSV)
	api.GET("/export.xlsx", s.handleExportXLSX)
	api.POST("/reload", s.handleReload)

	s.router.NoRoute(s.handleNotFound)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Infow("starting sales dashboard", "addr", addr, "source", s.service.Source())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		s.log.Info("shutting down sales dashboard")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
