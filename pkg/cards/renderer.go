// renderer.go - Card rendering engine.
// Draws one dish into one card rectangle: border, logo, English and Arabic
// names, dietary icons and the macro column. Positions come from CardStyle
// in millimetres and are converted to pixels at the configured DPI.
package cards

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"golang.org/x/image/font"

	"github.com/xob0t/laylacards/pkg/arabic"
	"github.com/xob0t/laylacards/pkg/dish"
	"github.com/xob0t/laylacards/pkg/generator"
	"github.com/xob0t/laylacards/pkg/layout"
)

// minTextPt is the smallest size a name is shrunk to when it overflows its box.
const minTextPt = 6

// Renderer draws cards for one run. Faces are owned by the renderer, so a
// Renderer must not be shared between goroutines; the FontHandle and Assets
// it was built from may be.
type Renderer struct {
	cfg    Config
	font   FontHandle
	assets Assets
	scale  float64 // pixels per millimetre

	paper, text, border color.RGBA

	enFace    font.Face
	arFace    font.Face
	macroFace font.Face
	footFace  font.Face
}

// NewRenderer validates cfg and assets and prepares the faces of a run.
func NewRenderer(cfg Config, fh FontHandle, assets Assets) (*Renderer, error) {
	cfg = applyConfigDefaults(cfg)
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	if err := assets.Icons.validate(); err != nil {
		return nil, err
	}

	r := &Renderer{
		cfg:    cfg,
		font:   fh,
		assets: assets,
		scale:  cfg.DPI / 25.4,
	}
	r.paper, _ = generator.ParseColor(cfg.PaperColor)
	r.text, _ = generator.ParseColor(cfg.TextColor)
	r.border, _ = generator.ParseColor(cfg.BorderColor)

	var err error
	if r.enFace, err = latinFace(true, cfg.Card.NameENPt, cfg.DPI); err != nil {
		return nil, err
	}
	if r.arFace, err = fh.Face(cfg.Card.NameARPt, cfg.DPI); err != nil {
		return nil, err
	}
	if r.macroFace, err = latinFace(false, cfg.Card.MacroPt, cfg.DPI); err != nil {
		return nil, err
	}
	if r.footFace, err = latinFace(false, 9, cfg.DPI); err != nil {
		return nil, err
	}
	return r, nil
}

// Config returns the effective configuration, defaults applied.
func (r *Renderer) Config() Config { return r.cfg }

// RenderCard draws dish d into rect, given in page millimetres.
func (r *Renderer) RenderCard(c Canvas, rect layout.Rect, d dish.Record) error {
	icons, err := MapFlags(d.Gluten, d.ProteinType, d.Dairy)
	if err != nil {
		return err
	}
	st := r.cfg.Card

	if on(r.cfg.DrawBorder) {
		c.StrokeRect(r.rect(rect), r.border, max(r.px(0.3), 1))
	}

	if r.assets.Logo != nil && on(r.cfg.DrawLogo) && r.assets.Background == nil {
		box := r.rect(rect.Offset((rect.W-st.LogoWidth)/2, st.LogoTop, st.LogoWidth, st.LogoHeight))
		drawFitted(c, r.assets.Logo, box)
	}

	left, right := r.nameBox(rect)
	if en := strings.TrimSpace(d.NameEN); en != "" {
		face, err := r.fitted(en, r.enFace, st.NameENPt, right-left, func(size float64) (font.Face, error) {
			return latinFace(true, size, r.cfg.DPI)
		})
		if err != nil {
			return err
		}
		w := font.MeasureString(face, en).Ceil()
		c.DrawString(en, left+(right-left-w)/2, r.px(rect.Y+st.NameENY), face, r.text)
	}
	if ar := strings.TrimSpace(d.NameAR); ar != "" {
		vis := arabic.Visual(ar, arabic.Arabic)
		face, err := r.fitted(vis, r.arFace, st.NameARPt, right-left, func(size float64) (font.Face, error) {
			return r.font.Face(size, r.cfg.DPI)
		})
		if err != nil {
			return err
		}
		w := font.MeasureString(face, vis).Ceil()
		c.DrawString(vis, right-w, r.px(rect.Y+st.NameARY), face, r.text)
	}

	group := 3*st.IconSize + 2*st.IconGap
	x := st.NameLeft + (st.NameWidth-group)/2
	for _, id := range icons {
		box := r.rect(rect.Offset(x, st.IconTop, st.IconSize, st.IconSize))
		drawFitted(c, r.assets.Icons[id], box)
		x += st.IconSize + st.IconGap
	}

	if on(st.ShowMacros) {
		mx := r.px(rect.X + st.MacroLeft)
		for i, line := range MacroLines(d) {
			y := r.px(rect.Y + st.MacroTop + float64(i)*st.MacroGap)
			c.DrawString(line, mx, y, r.macroFace, r.text)
		}
	}
	return nil
}

// MacroLines formats the four nutrition lines of a card.
func MacroLines(d dish.Record) [4]string {
	return [4]string{
		fmt.Sprintf("Calories: %s kcal", dish.FormatNumber(d.CaloriesKcal)),
		fmt.Sprintf("Carbohydrates: %s g", dish.FormatNumber(d.CarbsG)),
		fmt.Sprintf("Protein: %s g", dish.FormatNumber(d.ProteinG)),
		fmt.Sprintf("Fat: %s g", dish.FormatNumber(d.FatG)),
	}
}

// nameBox returns the pixel columns of the name box of a card.
func (r *Renderer) nameBox(rect layout.Rect) (left, right int) {
	st := r.cfg.Card
	return r.px(rect.X + st.NameLeft), r.px(rect.X + st.NameLeft + st.NameWidth)
}

// fitted returns face, or a smaller face from load when text overflows maxW.
func (r *Renderer) fitted(text string, face font.Face, size float64, maxW int, load func(float64) (font.Face, error)) (font.Face, error) {
	w := font.MeasureString(face, text).Ceil()
	if w <= maxW || w <= 0 || maxW <= 0 {
		return face, nil
	}
	smaller := math.Max(size*float64(maxW)/float64(w), minTextPt)
	tracer().Debugf("shrink %q from %.1fpt to %.1fpt", text, size, smaller)
	return load(smaller)
}

// px converts millimetres to pixels.
func (r *Renderer) px(mm float64) int {
	return int(math.Round(mm * r.scale))
}

// rect converts a millimetre rectangle to pixels.
func (r *Renderer) rect(m layout.Rect) image.Rectangle {
	return image.Rect(r.px(m.X), r.px(m.Y), r.px(m.Right()), r.px(m.Bottom()))
}

// drawFitted scales img into box, keeping its aspect ratio, centred.
func drawFitted(c Canvas, img image.Image, box image.Rectangle) {
	if img == nil {
		return
	}
	if dst := fitRect(img.Bounds().Size(), box); !dst.Empty() {
		c.DrawImage(img, dst)
	}
}

func fitRect(src image.Point, box image.Rectangle) image.Rectangle {
	if src.X <= 0 || src.Y <= 0 || box.Empty() {
		return image.Rectangle{}
	}
	bw, bh := box.Dx(), box.Dy()
	w, h := bw, int(math.Round(float64(src.Y)*float64(bw)/float64(src.X)))
	if h > bh {
		h = bh
		w = int(math.Round(float64(src.X) * float64(bh) / float64(src.Y)))
	}
	x := box.Min.X + (bw-w)/2
	y := box.Min.Y + (bh-h)/2
	return image.Rect(x, y, x+w, y+h)
}
