// canvas.go — Drawing targets for the card renderer.
package cards

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Canvas is a page the renderer draws on. Coordinates are pixels with the
// origin at the top-left corner.
type Canvas interface {
	Size() image.Point
	// DrawString draws text left to right with its baseline at y.
	DrawString(text string, x, y int, face font.Face, col color.Color)
	// DrawImage scales img to r and composites it over the page.
	DrawImage(img image.Image, r image.Rectangle)
	// StrokeRect outlines r with a line of the given width, drawn inside r.
	StrokeRect(r image.Rectangle, col color.Color, width int)
}

// RasterCanvas draws into an RGBA image.
type RasterCanvas struct {
	img *image.RGBA
}

// NewRasterCanvas wraps img.
func NewRasterCanvas(img *image.RGBA) *RasterCanvas {
	return &RasterCanvas{img: img}
}

// Image returns the underlying raster.
func (c *RasterCanvas) Image() *image.RGBA { return c.img }

func (c *RasterCanvas) Size() image.Point { return c.img.Bounds().Size() }

func (c *RasterCanvas) DrawString(text string, x, y int, face font.Face, col color.Color) {
	drawer := &font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	drawer.DrawString(text)
}

func (c *RasterCanvas) DrawImage(img image.Image, r image.Rectangle) {
	if r.Empty() {
		return
	}
	var src image.Image = img
	if img.Bounds().Size() != r.Size() {
		src = imaging.Resize(img, r.Dx(), r.Dy(), imaging.Lanczos)
	}
	draw.Draw(c.img, r, src, src.Bounds().Min, draw.Over)
}

func (c *RasterCanvas) StrokeRect(r image.Rectangle, col color.Color, width int) {
	if width < 1 {
		width = 1
	}
	u := &image.Uniform{col}
	edges := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+width),
		image.Rect(r.Min.X, r.Max.Y-width, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+width, r.Max.Y),
		image.Rect(r.Max.X-width, r.Min.Y, r.Max.X, r.Max.Y),
	}
	for _, e := range edges {
		draw.Draw(c.img, e.Intersect(r), u, image.Point{}, draw.Over)
	}
}
