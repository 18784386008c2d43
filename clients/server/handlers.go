// handlers.go — Dish, layout and render endpoints.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xob0t/laylacards/pkg/cards"
	"github.com/xob0t/laylacards/pkg/dish"
	"github.com/xob0t/laylacards/pkg/generator"
)

// ── Dishes ──

func (s *Server) handleListDishes(c *gin.Context) {
	records, err := s.store.List(c.Request.Context())
	if err != nil {
		abort(c, http.StatusInternalServerError, err)
		return
	}
	if records == nil {
		records = []dish.Record{}
	}
	c.JSON(http.StatusOK, records)
}

func (s *Server) handleUpsertDish(c *gin.Context) {
	var in dish.Record
	if err := c.ShouldBindJSON(&in); err != nil {
		abort(c, http.StatusBadRequest, fmt.Errorf("decode dish: %w", err))
		return
	}
	rec, err := in.Normalize()
	if err != nil {
		abort(c, dishStatus(err), err)
		return
	}
	if err := s.store.Upsert(c.Request.Context(), rec); err != nil {
		abort(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

func (s *Server) handleDeleteDish(c *gin.Context) {
	name := c.Param("name")
	if err := s.store.Delete(c.Request.Context(), name); err != nil {
		abort(c, http.StatusInternalServerError, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ── Layout ──

// maxLayout limits a layout request body.
const maxLayout = 1 << 20

func (s *Server) currentLayout() cards.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.layout
}

func (s *Server) handleLayout(c *gin.Context) {
	c.JSON(http.StatusOK, s.currentLayout())
}

// handleSaveLayout replaces the base layout. Keys missing from the body
// take the defaults of its profile, as in a layout.json file.
func (s *Server) handleSaveLayout(c *gin.Context) {
	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxLayout))
	if err != nil {
		abort(c, http.StatusBadRequest, fmt.Errorf("read layout: %w", err))
		return
	}
	var strict cards.Config
	if err := json.Unmarshal(data, &strict); err != nil {
		abort(c, http.StatusBadRequest, fmt.Errorf("decode layout: %w", err))
		return
	}
	if _, ok := cards.ProfileCardStyle(strict.Profile); !ok {
		abort(c, http.StatusBadRequest, fmt.Errorf("unknown profile %q", strict.Profile))
		return
	}
	cfg, warnings, err := cards.ParseConfig(data)
	if err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}
	if err := s.checkLayout(cfg); err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}
	if err := s.storeLayout(c, cfg); err != nil {
		abort(c, http.StatusInternalServerError, err)
		return
	}
	for _, w := range warnings {
		c.Writer.Header().Add("X-Layout-Warning", w)
	}
	c.JSON(http.StatusOK, cfg)
}

// handleResetLayout restores the built-in layout of the profile query
// parameter, or of the current profile when it is absent.
func (s *Server) handleResetLayout(c *gin.Context) {
	profile := c.Query("profile")
	if profile == "" {
		profile = s.currentLayout().Profile
	}
	if _, ok := cards.ProfileCardStyle(profile); !ok {
		abort(c, http.StatusBadRequest, fmt.Errorf("unknown profile %q", profile))
		return
	}
	cfg := cards.DefaultConfigFor(profile)
	if err := s.storeLayout(c, cfg); err != nil {
		abort(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// checkLayout validates a layout and holds it to the server's DPI limit.
func (s *Server) checkLayout(cfg cards.Config) error {
	if err := cards.ValidateConfig(cfg); err != nil {
		return err
	}
	if cfg.DPI > s.maxDPI {
		return fmt.Errorf("dpi %g exceeds the server limit of %g", cfg.DPI, s.maxDPI)
	}
	return nil
}

// storeLayout persists cfg when the server has a layout file, then makes
// it the base of later renders.
func (s *Server) storeLayout(c *gin.Context, cfg cards.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.layoutPath != "" {
		if err := cards.SaveConfig(s.layoutPath, cfg); err != nil {
			return err
		}
	}
	s.layout = cfg
	tracer().Infof("[%s] layout replaced (profile %s)", c.GetString("request_id"), cfg.Profile)
	return nil
}

// ── Render ──

// renderRequest selects dishes either inline or by name from the store.
// Logo and Background name uploaded assets and replace the server defaults.
type renderRequest struct {
	Dishes     []dish.Record `json:"dishes"`
	Names      []string      `json:"names"`
	Layout     *cards.Config `json:"layout"`
	Logo       string        `json:"logo"`
	Background string        `json:"background"`
	Format     string        `json:"format"` // "pdf" (default) or "png"
	Page       int           `json:"page"`   // 1-based page for png output
}

func (s *Server) handleRender(c *gin.Context) {
	var req renderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}

	dishes, status, err := s.selectDishes(c, req)
	if err != nil {
		abort(c, status, err)
		return
	}
	if len(dishes) == 0 {
		abort(c, http.StatusBadRequest, errors.New("no dishes to render"))
		return
	}

	cfg := s.currentLayout()
	if req.Layout != nil {
		cfg = cards.MergeConfig(cfg, *req.Layout)
	}
	if cfg.DPI > s.maxDPI {
		abort(c, http.StatusBadRequest, fmt.Errorf("dpi %g exceeds the server limit of %g", cfg.DPI, s.maxDPI))
		return
	}
	assets, err := s.requestAssets(req)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, errUnknownUpload) {
			status = http.StatusNotFound
		}
		abort(c, status, err)
		return
	}

	renderer, err := cards.NewRenderer(cfg, s.font, assets)
	if err != nil {
		abort(c, statusFor(err), err)
		return
	}
	doc, warnings, err := renderer.Paginate(dishes)
	if err != nil {
		abort(c, statusFor(err), err)
		return
	}
	for _, w := range warnings {
		c.Writer.Header().Add("X-Render-Warning", w)
	}

	gcfg := generator.Config{
		Pages:  doc.Images(),
		Title:  doc.Title,
		Width:  doc.Width,
		Height: doc.Height,
	}
	ext, mime := ".pdf", "application/pdf"
	if strings.EqualFold(req.Format, "png") {
		page := max(req.Page, 1)
		if page > len(gcfg.Pages) {
			abort(c, http.StatusBadRequest, fmt.Errorf("page %d of %d", page, len(gcfg.Pages)))
			return
		}
		gcfg.Pages = gcfg.Pages[page-1 : page]
		ext, mime = ".png", "image/png"
	}

	var buf bytes.Buffer
	if err := generator.GenerateToWriter(&buf, ext, gcfg); err != nil {
		abort(c, http.StatusInternalServerError, err)
		return
	}
	tracer().Infof("[%s] rendered %d dishes on %d page(s)", c.GetString("request_id"), len(dishes), len(doc.Pages))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="cards%s"`, ext))
	c.Data(http.StatusOK, mime, buf.Bytes())
}

// selectDishes returns the inline dishes, normalized, or the named dishes
// from the store. With neither, every stored dish is rendered.
func (s *Server) selectDishes(c *gin.Context, req renderRequest) ([]dish.Record, int, error) {
	if len(req.Dishes) > 0 {
		out := make([]dish.Record, 0, len(req.Dishes))
		for i, d := range req.Dishes {
			rec, err := d.Normalize()
			if err != nil {
				return nil, dishStatus(err), fmt.Errorf("dish %d: %w", i+1, err)
			}
			out = append(out, rec)
		}
		return out, 0, nil
	}
	all, err := s.store.List(c.Request.Context())
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	selected, err := dish.Select(all, req.Names)
	if err != nil {
		return nil, http.StatusNotFound, err
	}
	return selected, 0, nil
}

// requestAssets overlays uploaded logo and background images.
func (s *Server) requestAssets(req renderRequest) (cards.Assets, error) {
	assets := s.assets
	if req.Logo != "" {
		img, err := s.uploads.image(req.Logo)
		if err != nil {
			return cards.Assets{}, fmt.Errorf("logo: %w", err)
		}
		assets.Logo = img
	}
	if req.Background != "" {
		img, err := s.uploads.image(req.Background)
		if err != nil {
			return cards.Assets{}, fmt.Errorf("background: %w", err)
		}
		assets.Background = img
	}
	return assets, nil
}

// dishStatus maps an ingestion error: unknown flags are 422, any other
// invalid dish is 400.
func dishStatus(err error) int {
	var ferr *dish.FlagError
	if errors.As(err, &ferr) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadRequest
}

func statusFor(err error) int {
	var (
		cerr *cards.ConfigurationError
		ferr *cards.UnknownFlagError
	)
	switch {
	case errors.As(err, &cerr):
		return http.StatusBadRequest
	case errors.As(err, &ferr):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
