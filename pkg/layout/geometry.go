// Package layout computes card placement on a printed page.
//
// All values are millimetres in page coordinates with the origin at the
// top-left corner of the page. Slots are numbered row-major: left to right,
// then top to bottom, starting at 0.
package layout

import (
	"fmt"
	"math"
)

// ── Geometry ──

// Geometry describes a page and the card grid printed on it.
type Geometry struct {
	PageWidth  float64 `json:"page_width_mm"`
	PageHeight float64 `json:"page_height_mm"`
	Margin     float64 `json:"margin_mm"` // uniform outer margin
	Gutter     float64 `json:"gutter_mm"` // space between neighbouring cards
	Cols       int     `json:"cols"`
	Rows       int     `json:"rows"`
}

// A4 is the default sheet: portrait A4 with a 2×3 card grid.
var A4 = Geometry{
	PageWidth:  210,
	PageHeight: 297,
	Margin:     8,
	Gutter:     4,
	Cols:       2,
	Rows:       3,
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X, Y float64
	W, H float64
}

// Slot is one card position on one page. It carries no dish data.
type Slot struct {
	Page  int
	Index int
	Rect  Rect
}

// GeometryError reports a page geometry that cannot hold a card grid.
type GeometryError struct {
	Field  string
	Reason string
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("invalid geometry: %s %s", e.Field, e.Reason)
}

// Capacity is the number of cards per page.
func (g Geometry) Capacity() int {
	return g.Cols * g.Rows
}

// Validate checks that the geometry yields cards of positive size.
func (g Geometry) Validate() error {
	for _, v := range []struct {
		field string
		value float64
	}{
		{"page width", g.PageWidth},
		{"page height", g.PageHeight},
		{"margin", g.Margin},
		{"gutter", g.Gutter},
	} {
		if math.IsNaN(v.value) || math.IsInf(v.value, 0) {
			return &GeometryError{v.field, "must be a finite number"}
		}
	}
	switch {
	case g.PageWidth <= 0:
		return &GeometryError{"page width", "must be positive"}
	case g.PageHeight <= 0:
		return &GeometryError{"page height", "must be positive"}
	case g.Margin < 0:
		return &GeometryError{"margin", "must not be negative"}
	case g.Gutter < 0:
		return &GeometryError{"gutter", "must not be negative"}
	case g.Cols <= 0:
		return &GeometryError{"cols", "must be positive"}
	case g.Rows <= 0:
		return &GeometryError{"rows", "must be positive"}
	}
	w, h := g.CardSize()
	if w <= 0 {
		return &GeometryError{"card width", "leaves no room after margins and gutters"}
	}
	if h <= 0 {
		return &GeometryError{"card height", "leaves no room after margins and gutters"}
	}
	return nil
}

// CardSize returns the width and height shared by every card.
func (g Geometry) CardSize() (w, h float64) {
	if g.Cols <= 0 || g.Rows <= 0 {
		return 0, 0
	}
	w = (g.PageWidth - 2*g.Margin - float64(g.Cols-1)*g.Gutter) / float64(g.Cols)
	h = (g.PageHeight - 2*g.Margin - float64(g.Rows-1)*g.Gutter) / float64(g.Rows)
	return w, h
}

// SlotRect returns the rectangle of the card at the given slot index.
func (g Geometry) SlotRect(index int) (Rect, error) {
	if err := g.Validate(); err != nil {
		return Rect{}, err
	}
	if index < 0 || index >= g.Capacity() {
		return Rect{}, fmt.Errorf("slot %d out of range [0,%d)", index, g.Capacity())
	}
	w, h := g.CardSize()
	col := index % g.Cols
	row := index / g.Cols
	return Rect{
		X: g.Margin + float64(col)*(w+g.Gutter),
		Y: g.Margin + float64(row)*(h+g.Gutter),
		W: w,
		H: h,
	}, nil
}

// Slots returns every slot of a page in row-major order.
func (g Geometry) Slots(page int) ([]Slot, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	slots := make([]Slot, 0, g.Capacity())
	for i := 0; i < g.Capacity(); i++ {
		r, err := g.SlotRect(i)
		if err != nil {
			return nil, err
		}
		slots = append(slots, Slot{Page: page, Index: i, Rect: r})
	}
	return slots, nil
}

// SlotRect computes a single card rectangle without building a Geometry first.
func SlotRect(pageWidth, pageHeight, margin, gutter float64, cols, rows, index int) (Rect, error) {
	g := Geometry{
		PageWidth:  pageWidth,
		PageHeight: pageHeight,
		Margin:     margin,
		Gutter:     gutter,
		Cols:       cols,
		Rows:       rows,
	}
	return g.SlotRect(index)
}

// ── Rect helpers ──

// Right is the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom is the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Area is W·H.
func (r Rect) Area() float64 { return r.W * r.H }

// eps absorbs rounding in sums of millimetre values.
const eps = 1e-9

// Overlaps reports whether r and o share interior points. Touching edges do not overlap.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.Right()-eps && o.X < r.Right()-eps && r.Y < o.Bottom()-eps && o.Y < r.Bottom()-eps
}

// Contains reports whether o lies entirely inside r.
func (r Rect) Contains(o Rect) bool {
	return o.X >= r.X-eps && o.Y >= r.Y-eps && o.Right() <= r.Right()+eps && o.Bottom() <= r.Bottom()+eps
}

// Offset returns a rectangle at (dx, dy) relative to r's origin.
func (r Rect) Offset(dx, dy, w, h float64) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, W: w, H: h}
}
