package server

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xob0t/laylacards/pkg/cards"
	"github.com/xob0t/laylacards/pkg/dish"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testServer(t *testing.T) *Server {
	t.Helper()
	images := make(map[cards.IconID]image.Image)
	for _, id := range cards.AllIcons {
		img := image.NewRGBA(image.Rect(0, 0, 8, 8))
		img.Set(2, 2, color.RGBA{G: 200, A: 255})
		images[id] = img
	}
	icons, err := cards.NewIconSet(images)
	require.NoError(t, err)

	layout := cards.DefaultConfig()
	layout.DPI = 72
	return New(Options{
		Store: dish.NewMemoryStore(
			dish.Record{NameEN: "Hummus", NameAR: "حمص", CaloriesKcal: 166,
				Gluten: dish.GlutenFree, ProteinType: dish.ProteinVeg, Dairy: dish.DairyFree},
			dish.Record{NameEN: "Kunafa", NameAR: "كنافة", CaloriesKcal: 450,
				Gluten: dish.GlutenContains, ProteinType: dish.ProteinVeg, Dairy: dish.DairyContains},
		),
		Layout: layout,
		Font:   cards.Unsupported("test"),
		Assets: cards.Assets{Icons: icons},
	})
}

func do(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	defer gotestingadapter.QuickConfig(t, "laylacards.server")()
	w := do(t, testServer(t), http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestDishes(t *testing.T) {
	s := testServer(t)

	w := do(t, s, http.MethodPost, "/api/dishes", map[string]any{
		"name_en": "  Falafel ", "name_ar": "فلافل", "calories_kcal": 333, "gluten": "GF", "protein_type": "vegetarian",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created dish.Record
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "Falafel", created.NameEN)
	assert.Equal(t, dish.GlutenFree, created.Gluten)
	assert.Equal(t, dish.DairyFree, created.Dairy, "blank flag takes its default")

	w = do(t, s, http.MethodGet, "/api/dishes", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []dish.Record
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 3)
	assert.Equal(t, "Falafel", list[2].NameEN)

	w = do(t, s, http.MethodPost, "/api/dishes", map[string]any{"name_en": "Soup", "dairy": "sometimes"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code, "unknown flag")
	w = do(t, s, http.MethodPost, "/api/dishes", map[string]any{"name_en": "Soup", "fat_g": -2})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = do(t, s, http.MethodPost, "/api/dishes", map[string]any{"name_ar": "شوربة"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, s, http.MethodDelete, "/api/dishes/hummus", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = do(t, s, http.MethodGet, "/api/dishes", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 2)
}

func TestLayout(t *testing.T) {
	w := do(t, testServer(t), http.MethodGet, "/api/layout", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var cfg cards.Config
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cfg))
	assert.Equal(t, 2, cfg.Page.Cols)
	assert.Equal(t, 72.0, cfg.DPI)
}

func TestRenderByName(t *testing.T) {
	w := do(t, testServer(t), http.MethodPost, "/api/render", map[string]any{"names": []string{"kunafa", "HUMMUS"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")))
	assert.Len(t, w.Header().Values("X-Render-Warning"), 1, "unsupported font")
}

func TestRenderInlinePNG(t *testing.T) {
	body := map[string]any{
		"dishes": []map[string]any{
			{"name_en": "Tea", "gluten": "gluten_free", "protein_type": "veg", "dairy": "dairy"},
		},
		"layout": map[string]any{"page_preset": "a5", "page": map[string]any{"cols": 1, "rows": 2}},
		"format": "png",
	}
	w := do(t, testServer(t), http.MethodPost, "/api/render", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	img, err := png.Decode(w.Body)
	require.NoError(t, err)
	assert.Equal(t, 420, img.Bounds().Dx(), "A5 at 72 dpi")
}

func TestRenderErrors(t *testing.T) {
	s := testServer(t)

	w := do(t, s, http.MethodPost, "/api/render", map[string]any{"names": []string{"Pizza"}})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Pizza")

	w = do(t, s, http.MethodPost, "/api/render", map[string]any{
		"dishes": []map[string]any{{"name_en": "Tea", "protein_type": "fish"}},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code, "unknown flag")
	assert.Contains(t, w.Body.String(), "fish")

	w = do(t, s, http.MethodPost, "/api/render", map[string]any{
		"dishes": []map[string]any{{"name_en": "Tea", "calories_kcal": -5}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, "invalid dish")

	w = do(t, s, http.MethodPost, "/api/render", map[string]any{
		"names":  []string{"Hummus"},
		"layout": map[string]any{"dpi": 5000},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, "configuration error")

	w = do(t, s, http.MethodPost, "/api/render", map[string]any{"names": []string{"Hummus"}, "logo": "nope"})
	assert.Equal(t, http.StatusNotFound, w.Code, "unknown upload")
	w = do(t, s, http.MethodPost, "/api/render", map[string]any{"names": []string{"Hummus"}, "background": "nope"})
	assert.Equal(t, http.StatusNotFound, w.Code, "unknown upload")

	req := httptest.NewRequest(http.MethodPost, "/api/render", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRenderDPILimit(t *testing.T) {
	s := testServer(t)
	w := do(t, s, http.MethodPost, "/api/render", map[string]any{
		"names":  []string{"Hummus"},
		"layout": map[string]any{"dpi": 1200},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "300")

	w = do(t, s, http.MethodPost, "/api/render", map[string]any{
		"names":  []string{"Hummus"},
		"layout": map[string]any{"dpi": 100},
		"format": "png",
	})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	s = New(Options{Layout: cards.DefaultConfig(), MaxDPI: 90})
	w = do(t, s, http.MethodPost, "/api/render", map[string]any{
		"dishes": []map[string]any{{"name_en": "Tea"}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, "the base layout is held to the limit too")
	assert.Contains(t, w.Body.String(), "90")
}

func TestSaveLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.json")
	s := testServer(t)
	s.layoutPath = path

	body := map[string]any{
		"profile": "no_macros",
		"dpi":     72,
		"page":    map[string]any{"page_width_mm": 210, "page_height_mm": 250, "cols": 2, "rows": 2},
		"card":    map[string]any{"name_en_size": 18},
	}
	w := do(t, s, http.MethodPut, "/api/layout", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var saved cards.Config
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &saved))
	assert.Equal(t, cards.ProfileNoMacros, saved.Profile)
	assert.Equal(t, 250.0, saved.Page.PageHeight, "explicit size without a preset")
	assert.Empty(t, saved.PagePreset)
	assert.Equal(t, 18.0, saved.Card.NameENPt)
	assert.Equal(t, cards.NoMacrosCardStyle().NameWidth, saved.Card.NameWidth)

	onDisk, warnings, err := cards.LoadConfig(path)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, saved, onDisk, "layout persisted")

	w = do(t, s, http.MethodGet, "/api/layout", nil)
	var current cards.Config
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &current))
	assert.Equal(t, saved, current)

	w = do(t, s, http.MethodPost, "/api/render", map[string]any{"names": []string{"Hummus"}, "format": "png"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	img, err := png.Decode(w.Body)
	require.NoError(t, err)
	assert.Equal(t, 709, img.Bounds().Dy(), "250 mm at 72 dpi")
}

func TestSaveLayoutRejects(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.json")
	s := testServer(t)
	s.layoutPath = path

	cases := map[string]any{
		"not json":        "{",
		"wrong type":      map[string]any{"dpi": "high"},
		"unknown profile": map[string]any{"profile": "compact"},
		"card too small":  map[string]any{"dpi": 72, "card": map[string]any{"name_box_width_mm": 500}},
		"dpi over limit":  map[string]any{"dpi": 600},
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			var w *httptest.ResponseRecorder
			if raw, ok := body.(string); ok {
				req := httptest.NewRequest(http.MethodPut, "/api/layout", bytes.NewBufferString(raw))
				w = httptest.NewRecorder()
				s.Router().ServeHTTP(w, req)
			} else {
				w = do(t, s, http.MethodPut, "/api/layout", body)
			}
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
	assert.NoFileExists(t, path)
	assert.Equal(t, 72.0, s.currentLayout().DPI, "layout unchanged")
}

func TestResetLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.json")
	s := testServer(t)
	s.layoutPath = path

	w := do(t, s, http.MethodPost, "/api/layout/reset?profile=no-macros", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var cfg cards.Config
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cfg))
	assert.Equal(t, cards.DefaultConfigFor(cards.ProfileNoMacros), cfg)
	require.FileExists(t, path)

	w = do(t, s, http.MethodPost, "/api/layout/reset", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cfg))
	assert.Equal(t, cards.ProfileNoMacros, cfg.Profile, "keeps the current profile")

	w = do(t, s, http.MethodPost, "/api/layout/reset?profile=full", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, cards.DefaultConfig(), s.currentLayout())

	w = do(t, s, http.MethodPost, "/api/layout/reset?profile=compact", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRenderEmptyStore(t *testing.T) {
	s := New(Options{})
	w := do(t, s, http.MethodPost, "/api/render", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "no dishes")
}

func TestUploads(t *testing.T) {
	s := testServer(t)

	var img bytes.Buffer
	require.NoError(t, png.Encode(&img, image.NewRGBA(image.Rect(0, 0, 30, 10))))
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "logo.png")
	require.NoError(t, err)
	_, err = fw.Write(img.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/assets", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct{ ID, Name, URL string }
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "logo.png", created.Name)

	w = do(t, s, http.MethodGet, "/api/assets/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, img.Bytes(), w.Body.Bytes())

	w = do(t, s, http.MethodPost, "/api/render", map[string]any{"names": []string{"Hummus"}, "logo": created.ID})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, s, http.MethodGet, "/api/assets", nil)
	assert.Contains(t, w.Body.String(), created.ID)

	w = do(t, s, http.MethodDelete, "/api/assets/"+created.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = do(t, s, http.MethodDelete, "/api/assets/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUploadRejectsNonImage(t *testing.T) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "notes.txt")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("hello"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/assets", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	testServer(t).Router().ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
