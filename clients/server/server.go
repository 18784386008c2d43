// Package server provides the laylacards HTTP API: dish management, layout
// tuning and PDF rendering.
package server

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/npillmayer/schuko/tracing"

	"github.com/xob0t/laylacards/pkg/cards"
	"github.com/xob0t/laylacards/pkg/dish"
)

// tracer traces with key 'laylacards.server'.
func tracer() tracing.Trace {
	return tracing.Select("laylacards.server")
}

// DefaultMaxDPI caps the resolution of a single API render.
const DefaultMaxDPI = 300

// Options wires a server to its dish store and render resources.
type Options struct {
	Store      dish.Store
	Layout     cards.Config     // base layout, request layouts are merged onto it
	LayoutPath string           // where PUT /api/layout persists; empty keeps changes in memory
	Font       cards.FontHandle // shared by all requests
	Assets     cards.Assets     // icons, default logo and background
	MaxDPI     float64          // render resolution limit (default: DefaultMaxDPI)
}

// Server serves the HTTP API. Each render request builds its own renderer,
// so requests run concurrently.
type Server struct {
	store      dish.Store
	font       cards.FontHandle
	assets     cards.Assets
	uploads    *uploadManager
	maxDPI     float64
	layoutPath string

	mu     sync.RWMutex // guards layout
	layout cards.Config
}

// New creates a server. A nil store is replaced by an empty in-memory store
// and an empty layout by the default one.
func New(opts Options) *Server {
	store := opts.Store
	if store == nil {
		store = dish.NewMemoryStore()
	}
	layout := opts.Layout
	if layout.Title == "" && layout.DPI == 0 {
		layout = cards.DefaultConfig()
	}
	maxDPI := opts.MaxDPI
	if maxDPI <= 0 {
		maxDPI = DefaultMaxDPI
	}
	return &Server{
		store:      store,
		font:       opts.Font,
		assets:     opts.Assets,
		uploads:    newUploadManager(),
		maxDPI:     maxDPI,
		layoutPath: opts.LayoutPath,
		layout:     layout,
	}
}

// Router returns the gin engine with all API routes.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestID())

	api := r.Group("/api")
	{
		api.GET("/health", s.handleHealth)

		api.GET("/dishes", s.handleListDishes)
		api.POST("/dishes", s.handleUpsertDish)
		api.DELETE("/dishes/:name", s.handleDeleteDish)

		api.GET("/layout", s.handleLayout)
		api.PUT("/layout", s.handleSaveLayout)
		api.POST("/layout/reset", s.handleResetLayout)
		api.POST("/render", s.handleRender)

		api.POST("/assets", s.handleUpload)
		api.GET("/assets", s.handleListUploads)
		api.GET("/assets/:id", s.handleGetUpload)
		api.DELETE("/assets/:id", s.handleDeleteUpload)
	}
	return r
}

// Run serves on addr until the listener fails.
func (s *Server) Run(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	tracer().Infof("laylacards API on http://localhost%s", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("serve %s: %w", addr, err)
	}
	return nil
}

// requestID tags every request with a run id, echoed in X-Request-ID and
// used to correlate traces.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)

		start := time.Now()
		c.Next()
		tracer().Debugf("[%s] %s %s -> %d in %s", id, c.Request.Method, c.Request.URL.Path,
			c.Writer.Status(), time.Since(start))
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "font": s.font.String()})
}

// abort writes a JSON error body.
func abort(c *gin.Context, status int, err error) {
	tracer().Infof("[%s] %d: %v", c.GetString("request_id"), status, err)
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
