// Package server exposes the reconciliation pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/rezonia/freight-audit/internal/config"
	"github.com/rezonia/freight-audit/internal/export"
	"github.com/rezonia/freight-audit/internal/logger"
	"github.com/rezonia/freight-audit/internal/model"
	"github.com/rezonia/freight-audit/internal/reconcile"
	"github.com/rezonia/freight-audit/internal/store"
)

// Config holds server configuration
type Config struct {
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Debug        bool
}

// Server represents the HTTP API server
type Server struct {
	config   *Config
	app      *config.Config
	router   *gin.Engine
	pipeline *reconcile.Pipeline
	batches  store.BatchStore
	log      logger.Logger
}

// NewServer creates a new API server on top of the given application
// configuration and batch store.
func NewServer(cfg *Config, app *config.Config, batches store.BatchStore, log logger.Logger) *Server {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.Debug {
		router.Use(gin.Logger())
	}

	opts := []reconcile.Option{reconcile.WithLogger(log)}
	if tolerance, err := decimal.NewFromString(app.Tolerance); err == nil && app.Tolerance != "" {
		opts = append(opts, reconcile.WithTolerance(tolerance))
	}

	s := &Server{
		config:   cfg,
		app:      app,
		router:   router,
		pipeline: reconcile.NewPipeline(opts...),
		batches:  batches,
		log:      log,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	v1 := s.router.Group("/api/v1")
	{
		v1.GET("/clients", s.handleClients)
		v1.POST("/reconcile", s.handleReconcile)
		v1.GET("/batches/:id", s.handleBatch)
		v1.GET("/batches/:id/export", s.handleExport)
	}
}

// Run starts the HTTP server
func (s *Server) Run() error {
	srv := &http.Server{
		Addr:         s.config.Address,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}
	return srv.ListenAndServe()
}

// Handler returns the http.Handler for use with custom servers
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleClients(c *gin.Context) {
	c.JSON(http.StatusOK, ClientsResponse{Clients: s.app.ClientIDs()})
}

func (s *Server) handleReconcile(c *gin.Context) {
	clientID := c.Query("client")
	if clientID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "client query parameter is required"})
		return
	}

	clientCfg, err := s.app.Client(clientID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart form expected"})
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no files uploaded"})
		return
	}

	docs := make([]reconcile.Document, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read upload: " + fh.Filename})
			return
		}
		content, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read upload: " + fh.Filename})
			return
		}
		docs = append(docs, reconcile.Document{Name: fh.Filename, Content: content})
	}

	profile, err := reconcile.LoadProfile(clientID, clientCfg)
	if err != nil {
		s.log.Errorf(c.Request.Context(), "profile %s: %v", clientID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Minute)
	defer cancel()

	batch := s.pipeline.Run(ctx, profile, docs)

	if err := s.batches.Save(ctx, batch); err != nil {
		s.log.Errorf(ctx, "save batch %s: %v", batch.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store batch"})
		return
	}

	c.JSON(http.StatusOK, batchResponse(batch))
}

func (s *Server) handleBatch(c *gin.Context) {
	batch, err := s.batches.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.renderBatchError(c, err)
		return
	}
	c.JSON(http.StatusOK, batchResponse(batch))
}

func (s *Server) handleExport(c *gin.Context) {
	batch, err := s.batches.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.renderBatchError(c, err)
		return
	}

	filename := export.Filename(time.Now().UTC())
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", "text/csv")
	c.Status(http.StatusOK)

	if err := export.WriteCSV(c.Writer, batch); err != nil {
		s.log.Errorf(c.Request.Context(), "export batch %s: %v", batch.ID, err)
	}
}

func (s *Server) renderBatchError(c *gin.Context, err error) {
	var noResult *model.NoResultError
	if errors.As(err, &noResult) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
