// Package cards lays out and draws bilingual dish cards onto printable pages.
package cards

import (
	"image"
	"strings"

	"github.com/npillmayer/schuko/tracing"

	"github.com/xob0t/laylacards/pkg/dish"
	"github.com/xob0t/laylacards/pkg/layout"
)

// tracer traces with key 'laylacards.cards'.
func tracer() tracing.Trace {
	return tracing.Select("laylacards.cards")
}

// ── Configuration types ──

// Config is the top-level structure of a layout.json file.
type Config struct {
	Title       string          `json:"title"`
	Profile     string          `json:"profile,omitempty"`     // "full" or "no_macros"; picks the card style defaults
	PagePreset  string          `json:"page_preset,omitempty"` // "a4", "a5", "letter"; fills Page size
	Page        layout.Geometry `json:"page"`
	Card        CardStyle       `json:"card"`
	DPI         float64         `json:"dpi"`
	DrawBorder  *bool           `json:"draw_border,omitempty"`  // card outlines
	DrawLogo    *bool           `json:"draw_logo,omitempty"`    // logo at the top of each card
	PageNumbers *bool           `json:"page_numbers,omitempty"` // "n / total" in the bottom margin
	Debug       *bool           `json:"debug,omitempty"`        // outline and number every slot
	PaperColor  string          `json:"paper_color"`
	TextColor   string          `json:"text_color"`
	BorderColor string          `json:"border_color"`
}

// CardStyle positions card content. Offsets are millimetres from the card's
// top-left corner; text sizes are points and Y values are baselines.
type CardStyle struct {
	LogoTop    float64 `json:"logo_top_mm"`
	LogoWidth  float64 `json:"logo_w_mm"`
	LogoHeight float64 `json:"logo_h_mm"`

	NameLeft  float64 `json:"name_x_offset_mm"`
	NameWidth float64 `json:"name_box_width_mm"`
	NameENY   float64 `json:"name_en_y_mm"`
	NameARY   float64 `json:"name_ar_y_mm"`
	NameENPt  float64 `json:"name_en_size"`
	NameARPt  float64 `json:"name_ar_size"`

	IconTop  float64 `json:"icon_y_offset_mm"`
	IconSize float64 `json:"icon_size_mm"`
	IconGap  float64 `json:"icon_gap_mm"`

	MacroLeft  float64 `json:"macro_x_offset_mm"`
	MacroTop   float64 `json:"macro_y_top_mm"`
	MacroGap   float64 `json:"macro_line_gap_mm"`
	MacroPt    float64 `json:"macro_size"`
	ShowMacros *bool   `json:"show_macros,omitempty"`
}

// ── Rendered types ──

// Placement pairs an occupied slot with the dish drawn into it.
type Placement struct {
	Slot layout.Slot
	Dish dish.Record
}

// RenderedPage is one finished page. Placements are in slot order and hold
// only occupied slots.
type RenderedPage struct {
	Index      int
	Placements []Placement
	Image      *image.RGBA
}

// Document is the finished result of a run.
type Document struct {
	Title  string
	Width  float64 // mm
	Height float64 // mm
	Pages  []RenderedPage
}

// Images returns the page rasters in page order.
func (d *Document) Images() []image.Image {
	imgs := make([]image.Image, len(d.Pages))
	for i, p := range d.Pages {
		imgs[i] = p.Image
	}
	return imgs
}

// ── Page presets ──

// PagePresets maps preset names to portrait [width, height] in millimetres.
var PagePresets = map[string][2]float64{
	"a4":     {210, 297},
	"a5":     {148, 210},
	"letter": {215.9, 279.4},
}

// ── Defaults ──

// DefaultCardStyle fits the default A4 card of 95 × 91 mm.
func DefaultCardStyle() CardStyle {
	return CardStyle{
		LogoTop:    4,
		LogoWidth:  30,
		LogoHeight: 14,

		NameLeft:  3,
		NameWidth: 48,
		NameENY:   30,
		NameARY:   39,
		NameENPt:  14,
		NameARPt:  13,

		IconTop:  50,
		IconSize: 12,
		IconGap:  4,

		MacroLeft:  54,
		MacroTop:   30,
		MacroGap:   6,
		MacroPt:    9.5,
		ShowMacros: boolPtr(true),
	}
}

// NoMacrosCardStyle is the names and icons only card: a full-width name box
// with larger text, and a bigger icon row further down.
func NoMacrosCardStyle() CardStyle {
	st := DefaultCardStyle()
	st.NameWidth = 89
	st.NameENY = 40
	st.NameARY = 50
	st.NameENPt = 16
	st.NameARPt = 15
	st.IconTop = 62
	st.IconSize = 13.2
	st.IconGap = 5
	st.ShowMacros = boolPtr(false)
	return st
}

// ── Profiles ──

// Layout profiles. A profile selects the card style a layout starts from.
const (
	ProfileFull     = "full"
	ProfileNoMacros = "no_macros"
)

// canonicalProfile maps accepted spellings to a profile name. Blank means
// ProfileFull.
func canonicalProfile(name string) string {
	p := strings.ToLower(strings.TrimSpace(name))
	p = strings.NewReplacer("-", "_", " ", "_").Replace(p)
	switch p {
	case "", ProfileFull, "with_macros":
		return ProfileFull
	case ProfileNoMacros, "nomacros", "names":
		return ProfileNoMacros
	}
	return p
}

// ProfileCardStyle returns the card style of a profile.
func ProfileCardStyle(name string) (CardStyle, bool) {
	switch canonicalProfile(name) {
	case ProfileFull:
		return DefaultCardStyle(), true
	case ProfileNoMacros:
		return NoMacrosCardStyle(), true
	}
	return CardStyle{}, false
}

// DefaultConfigFor returns the built-in layout of a profile. Unknown
// profiles yield DefaultConfig.
func DefaultConfigFor(profile string) Config {
	cfg := DefaultConfig()
	if st, ok := ProfileCardStyle(profile); ok {
		cfg.Profile = canonicalProfile(profile)
		cfg.Card = st
	}
	return cfg
}

// DefaultConfig returns the built-in layout.
func DefaultConfig() Config {
	return Config{
		Title:       "Layla Cards",
		Profile:     ProfileFull,
		PagePreset:  "a4",
		Page:        layout.A4,
		Card:        DefaultCardStyle(),
		DPI:         150,
		DrawBorder:  boolPtr(true),
		DrawLogo:    boolPtr(true),
		PageNumbers: boolPtr(false),
		Debug:       boolPtr(false),
		PaperColor:  "#ffffff",
		TextColor:   "#000000",
		BorderColor: "#d9d9d9",
	}
}

func boolPtr(b bool) *bool { return &b }

// on reads an optional switch.
func on(b *bool) bool { return b != nil && *b }
