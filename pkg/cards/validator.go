// validator.go — Check that a layout fits its page and cards.
package cards

import (
	"fmt"
	"strings"

	"github.com/xob0t/laylacards/pkg/generator"
	"github.com/xob0t/laylacards/pkg/layout"
)

// ValidateConfig checks page geometry, resolution, colours and that every
// card element lies inside the card. Failures are ConfigurationErrors.
func ValidateConfig(cfg Config) error {
	if err := cfg.Page.Validate(); err != nil {
		return &ConfigurationError{Op: "page geometry", Err: err}
	}
	if _, ok := ProfileCardStyle(cfg.Profile); !ok {
		return &ConfigurationError{Op: "profile", Err: fmt.Errorf("unknown profile %q, want %q or %q", cfg.Profile, ProfileFull, ProfileNoMacros)}
	}
	if cfg.DPI < 36 || cfg.DPI > 1200 {
		return &ConfigurationError{Op: "resolution", Err: fmt.Errorf("dpi %g outside [36, 1200]", cfg.DPI)}
	}
	for name, c := range map[string]string{
		"paper_color":  cfg.PaperColor,
		"text_color":   cfg.TextColor,
		"border_color": cfg.BorderColor,
	} {
		if _, err := generator.ParseColor(c); err != nil {
			return &ConfigurationError{Op: name, Err: err}
		}
	}

	w, h := cfg.Page.CardSize()
	card := layout.Rect{W: w, H: h}
	st := cfg.Card
	group := 3*st.IconSize + 2*st.IconGap
	parts := []struct {
		what string
		r    layout.Rect
		skip bool
	}{
		{"logo box", layout.Rect{X: (w - st.LogoWidth) / 2, Y: st.LogoTop, W: st.LogoWidth, H: st.LogoHeight}, !on(cfg.DrawLogo)},
		{"name box", layout.Rect{X: st.NameLeft, Y: 0, W: st.NameWidth, H: max(st.NameENY, st.NameARY)}, false},
		{"icon row", layout.Rect{X: st.NameLeft + (st.NameWidth-group)/2, Y: st.IconTop, W: group, H: st.IconSize}, false},
		{"macro column", layout.Rect{X: st.MacroLeft, Y: 0, W: 0, H: st.MacroTop + 3*st.MacroGap}, !on(st.ShowMacros)},
	}
	for _, p := range parts {
		if p.skip {
			continue
		}
		if p.r.X < 0 || p.r.Y < 0 || !card.Contains(p.r) {
			return &ConfigurationError{
				Op:  "card layout",
				Err: fmt.Errorf("%s does not fit the %.1f × %.1f mm card", p.what, w, h),
			}
		}
	}
	return nil
}

// FormatConfig returns a human-readable summary of a layout.
func FormatConfig(cfg Config) string {
	var s strings.Builder
	g := cfg.Page
	w, h := g.CardSize()
	preset := cfg.PagePreset
	if preset == "" {
		preset = "custom"
	}
	fmt.Fprintf(&s, "Layout: %s\n", cfg.Title)
	fmt.Fprintf(&s, "  profile   %s\n", canonicalProfile(cfg.Profile))
	fmt.Fprintf(&s, "  page      %.1f × %.1f mm (%s) at %g dpi\n", g.PageWidth, g.PageHeight, preset, cfg.DPI)
	fmt.Fprintf(&s, "  grid      %d × %d, %d cards per page\n", g.Cols, g.Rows, g.Capacity())
	fmt.Fprintf(&s, "  spacing   margin %.1f mm, gutter %.1f mm\n", g.Margin, g.Gutter)
	fmt.Fprintf(&s, "  card      %.1f × %.1f mm\n", w, h)
	fmt.Fprintf(&s, "  macros    %v\n", on(cfg.Card.ShowMacros))
	fmt.Fprintf(&s, "  border    %v, logo %v, page numbers %v\n", on(cfg.DrawBorder), on(cfg.DrawLogo), on(cfg.PageNumbers))
	return s.String()
}
