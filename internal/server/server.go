// Package server exposes the signal metrics dashboard over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"signal-metrics/internal/analysis"
	"signal-metrics/internal/config"
	"signal-metrics/internal/logger"
	"signal-metrics/internal/metrics"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const (
	sessionName  = "signal-metrics"
	workspaceKey = "workspace"

	workspaceTTL    = 24 * time.Hour
	pruneInterval   = 10 * time.Minute
	shutdownTimeout = 5 * time.Second
)

type Server struct {
	cfg      *config.Config
	analyzer *analysis.Analyzer
	store    *Store
	metrics  *metrics.Collector
	log      zerolog.Logger
	router   *gin.Engine
}

// New builds the dashboard server. collector may be nil.
func New(cfg *config.Config, collector *metrics.Collector) *Server {
	gin.SetMode(cfg.Server.Mode)

	s := &Server{
		cfg:      cfg,
		analyzer: analysis.NewAnalyzer(cfg),
		store:    NewStore(),
		metrics:  collector,
		log:      logger.GetLogger("server"),
	}

	r := gin.New()
	r.MaxMultipartMemory = int64(cfg.Server.MaxUploadMB) << 20
	r.Use(gin.Recovery(), requestLogger(s.log), collector.Middleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "workspaces": s.store.Len()})
	})
	r.GET("/metrics", gin.WrapH(collector.Handler()))

	store := cookie.NewStore([]byte(cfg.Server.SessionSecret))
	store.Options(sessions.Options{Path: "/", MaxAge: int(workspaceTTL / time.Second), HttpOnly: true})

	ws := r.Group("/")
	ws.Use(sessions.Sessions(sessionName, store), s.workspace())
	{
		ws.POST("/datasets", s.uploadDataset)
		ws.GET("/datasets", s.listDatasets)
		ws.DELETE("/datasets/:id", s.deleteDataset)
		ws.GET("/datasets/:id/export", s.exportDataset)
		ws.POST("/analysis", s.runAnalysis)
		ws.POST("/analysis/chart", s.renderChart)
		ws.POST("/analysis/pdf", s.renderPDF)
	}

	s.router = r
	return s
}

func (s *Server) Handler() http.Handler { return s.router }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.cfg.Server.Port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.cfg.Server.SessionSecretGenerated {
		s.log.Warn().Msg("SESSION_SECRET is not set, using a random secret; sessions end on restart")
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", srv.Addr).Msg("signal metrics dashboard listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	ticker := time.NewTicker(pruneInterval)
	defer ticker.Stop()

	for {
		select {
		case err := <-errCh:
			return err
		case now := <-ticker.C:
			if n := s.store.Prune(now, workspaceTTL); n > 0 {
				s.log.Debug().Int("removed", n).Msg("pruned idle workspaces")
			}
		case <-ctx.Done():
			s.log.Info().Msg("shutting down HTTP server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				s.log.Warn().Err(err).Msg("graceful shutdown failed, closing")
				return srv.Close()
			}
			return nil
		}
	}
}

// workspace attaches the session's workspace to the request, creating one
// on first use.
func (s *Server) workspace() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		id, _ := session.Get(workspaceKey).(string)
		ws := s.store.GetOrCreate(id)
		if ws.ID != id {
			session.Set(workspaceKey, ws.ID)
			if err := session.Save(); err != nil {
				fail(c, err)
				return
			}
		}
		c.Set(workspaceKey, ws)
		c.Next()
	}
}

func currentWorkspace(c *gin.Context) *Workspace {
	return c.MustGet(workspaceKey).(*Workspace)
}

func requestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		event := log.Info()
		switch {
		case status >= http.StatusInternalServerError:
			event = log.Error()
		case status >= http.StatusBadRequest:
			event = log.Warn()
		}
		if len(c.Errors) > 0 {
			event = event.Str("errors", c.Errors.String())
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}
