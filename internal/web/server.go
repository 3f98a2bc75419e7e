// Package web serves the portfolio page, its HTMX navigation endpoints, the
// websocket that feeds intersection reports to each page view, and the admin
// dashboard.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FathurrahmanNasution/portfolio/internal/analytics"
	"github.com/FathurrahmanNasution/portfolio/internal/config"
	"github.com/FathurrahmanNasution/portfolio/internal/content"
	"github.com/FathurrahmanNasution/portfolio/internal/section"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Options are the collaborators a Server needs. Analytics may be nil.
type Options struct {
	Config    *config.Config
	Content   *content.Portfolio
	Analytics *analytics.Store
	Logger    *zap.Logger
}

// Server is the portfolio HTTP server.
type Server struct {
	cfg        *config.Config
	logger     *zap.Logger
	engine     *gin.Engine
	tmpl       *template.Template
	content    atomic.Pointer[content.Portfolio]
	views      *viewRegistry
	analytics  *analytics.Store
	adminToken string
	now        func() time.Time
}

// New builds the server and registers every route.
func New(opts Options) (*Server, error) {
	if opts.Config == nil {
		opts.Config = config.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Content == nil {
		opts.Content = content.Default()
	}

	tmpl, err := template.New("").ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	token, err := analytics.RandomToken()
	if err != nil {
		return nil, err
	}

	gin.SetMode(opts.Config.Server.Mode)
	engine := gin.New()
	engine.SetHTMLTemplate(tmpl)

	s := &Server{
		cfg:        opts.Config,
		logger:     opts.Logger,
		engine:     engine,
		tmpl:       tmpl,
		views:      newViewRegistry(opts.Config.Server.ViewTTL),
		analytics:  opts.Analytics,
		adminToken: token,
		now:        time.Now,
	}
	s.content.Store(opts.Content)
	if err := s.routes(); err != nil {
		return nil, err
	}

	s.logger.Info("admin access available at /admin/login")
	if s.cfg.Admin.UsesDefaultPassword() {
		s.logger.Warn("using default admin password, set PORTFOLIO_ADMIN__PASSWORD or ADMIN_PASSWORD",
			zap.String("mode", gin.Mode()))
	}
	return s, nil
}

// Router exposes the gin engine, mainly for tests.
func (s *Server) Router() *gin.Engine { return s.engine }

// SetContent swaps the rendered portfolio. Views already open keep their
// state; they pick up the new copy on their next render.
func (s *Server) SetContent(p *content.Portfolio) {
	s.content.Store(p)
}

func (s *Server) routes() error {
	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		return fmt.Errorf("loading static assets: %w", err)
	}

	r := s.engine
	r.Use(gin.Recovery())
	r.Use(requestLogger(s.logger))
	r.Use(s.visitorTracking())

	r.StaticFS("/static", http.FS(static))
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/", s.handleIndex)
	r.GET("/privacy", func(c *gin.Context) {
		c.HTML(http.StatusOK, "privacy.html", gin.H{"title": "Privacy Policy"})
	})

	views := r.Group("/views/:id")
	views.POST("/navigate/:section", s.handleNavigate)
	views.POST("/menu/toggle", s.handleToggleMenu)
	views.GET("/state", s.handleState)
	views.GET("/observe", s.handleObserve)

	s.adminRoutes(r)
	return nil
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr(),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.sweepViews(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) sweepViews(ctx context.Context) {
	interval := s.cfg.Server.ViewTTL / 2
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := s.views.sweep(now); n > 0 {
				s.logger.Debug("expired idle views", zap.Int("count", n))
			}
		}
	}
}

func (s *Server) recordSectionEvent(viewID string, id section.ID, kind analytics.EventKind) {
	if s.analytics == nil {
		return
	}
	go func() {
		if err := s.analytics.RecordSectionEvent(context.Background(), viewID, id, kind); err != nil {
			s.logger.Warn("recording section event", zap.Error(err))
		}
	}()
}
