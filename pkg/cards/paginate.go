// paginate.go — Splits dishes into pages and renders every occupied slot.
package cards

import (
	"fmt"
	"image/color"
	"strconv"

	"golang.org/x/image/font"

	"github.com/xob0t/laylacards/pkg/dish"
	"github.com/xob0t/laylacards/pkg/generator"
	"github.com/xob0t/laylacards/pkg/layout"
)

// Paginate renders dishes in input order, Cols·Rows per page, and returns
// every page or none. Flags of all dishes are checked before the first page
// is drawn, so an UnknownFlagError leaves nothing behind. Warnings are
// returned even when err is non-nil.
func (r *Renderer) Paginate(dishes []dish.Record) (*Document, []string, error) {
	var warnings []string
	switch {
	case !r.font.Supported():
		warnings = append(warnings, fmt.Sprintf("%s: %s; Arabic names use the Latin fallback face", UnsupportedFontWarning, r.font.Reason()))
	case !r.font.CoversArabic():
		warnings = append(warnings, fmt.Sprintf("%s: %s", UnsupportedFontWarning, r.font.Reason()))
	}
	for _, w := range warnings {
		tracer().Infof("%s", w)
	}

	geo := r.cfg.Page
	if err := geo.Validate(); err != nil {
		return nil, warnings, &ConfigurationError{Op: "page geometry", Err: err}
	}
	for i, d := range dishes {
		if _, err := MapFlags(d.Gluten, d.ProteinType, d.Dairy); err != nil {
			return nil, warnings, fmt.Errorf("dish %d (%q): %w", i+1, d.NameEN, err)
		}
	}

	per := geo.Capacity()
	total := (len(dishes) + per - 1) / per
	doc := &Document{
		Title:  r.cfg.Title,
		Width:  geo.PageWidth,
		Height: geo.PageHeight,
		Pages:  make([]RenderedPage, 0, total),
	}
	for p := 0; p < total; p++ {
		chunk := dishes[p*per : min((p+1)*per, len(dishes))]
		page, err := r.renderPage(p, total, chunk)
		if err != nil {
			return nil, warnings, fmt.Errorf("page %d: %w", p+1, err)
		}
		doc.Pages = append(doc.Pages, page)
	}
	tracer().Infof("rendered %d dishes on %d page(s)", len(dishes), total)
	return doc, warnings, nil
}

func (r *Renderer) renderPage(index, total int, chunk []dish.Record) (RenderedPage, error) {
	geo := r.cfg.Page
	img := generator.NewSolidImage(r.px(geo.PageWidth), r.px(geo.PageHeight), r.paper)
	canvas := NewRasterCanvas(img)
	if bg := r.assets.Background; bg != nil {
		canvas.DrawImage(bg, img.Bounds())
	}

	slots, err := geo.Slots(index)
	if err != nil {
		return RenderedPage{}, err
	}
	if on(r.cfg.Debug) {
		r.drawDebugGrid(canvas, slots)
	}

	page := RenderedPage{Index: index, Image: img}
	for i, d := range chunk {
		if err := r.RenderCard(canvas, slots[i].Rect, d); err != nil {
			return RenderedPage{}, fmt.Errorf("slot %d (%q): %w", i, d.NameEN, err)
		}
		page.Placements = append(page.Placements, Placement{Slot: slots[i], Dish: d})
	}

	if on(r.cfg.PageNumbers) {
		label := fmt.Sprintf("%d / %d", index+1, total)
		w := font.MeasureString(r.footFace, label).Ceil()
		y := r.px(geo.PageHeight - geo.Margin/2)
		canvas.DrawString(label, (img.Bounds().Dx()-w)/2, y, r.footFace, r.text)
	}
	return page, nil
}

// drawDebugGrid outlines every slot of the page, used or not, and labels it
// with its index.
func (r *Renderer) drawDebugGrid(c *RasterCanvas, slots []layout.Slot) {
	guide := color.NRGBA{R: r.border.R, G: r.border.G, B: r.border.B, A: 0x80}
	for _, s := range slots {
		box := r.rect(s.Rect)
		c.StrokeRect(box, guide, 1)
		label := strconv.Itoa(s.Index)
		c.DrawString(label, box.Min.X+r.px(1), box.Max.Y-r.px(1), r.footFace, guide)
	}
	margin := r.rect(layout.Rect{
		X: r.cfg.Page.Margin, Y: r.cfg.Page.Margin,
		W: r.cfg.Page.PageWidth - 2*r.cfg.Page.Margin,
		H: r.cfg.Page.PageHeight - 2*r.cfg.Page.Margin,
	})
	c.StrokeRect(margin, guide, 1)
}
