package cards

import (
	"image"
	"image/color"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font"

	"github.com/xob0t/laylacards/pkg/dish"
	"github.com/xob0t/laylacards/pkg/generator"
)

// testIcons returns six small icons of distinct colours.
func testIcons(t *testing.T) IconSet {
	t.Helper()
	images := make(map[IconID]image.Image, len(AllIcons))
	for i, id := range AllIcons {
		images[id] = generator.NewSolidImage(8, 8, color.RGBA{R: uint8(30 * (i + 1)), G: 90, B: 160, A: 255})
	}
	set, err := NewIconSet(images)
	require.NoError(t, err)
	return set
}

// testConfig is the default layout at a low resolution.
func testConfig() Config {
	cfg := DefaultConfig()
	cfg.DPI = 72
	return cfg
}

func testRenderer(t *testing.T, cfg Config) *Renderer {
	t.Helper()
	r, err := NewRenderer(cfg, Unsupported("test"), Assets{Icons: testIcons(t)})
	require.NoError(t, err)
	return r
}

func sampleDishes(n int) []dish.Record {
	base := []dish.Record{
		{NameEN: "Grilled Chicken", NameAR: "دجاج مشوي", CaloriesKcal: 420, CarbsG: 6, ProteinG: 48, FatG: 22,
			Gluten: dish.GlutenFree, ProteinType: dish.ProteinMeat, Dairy: dish.DairyFree},
		{NameEN: "Hummus", NameAR: "حمص", CaloriesKcal: 166, CarbsG: 14.3, ProteinG: 7.9, FatG: 9.6,
			Gluten: dish.GlutenFree, ProteinType: dish.ProteinVeg, Dairy: dish.DairyFree},
		{NameEN: "Kunafa", NameAR: "كنافة", CaloriesKcal: 450, CarbsG: 54, ProteinG: 9, FatG: 22,
			Gluten: dish.GlutenContains, ProteinType: dish.ProteinVeg, Dairy: dish.DairyContains},
	}
	out := make([]dish.Record, n)
	for i := range out {
		out[i] = base[i%len(base)]
	}
	return out
}

func traceCards(t *testing.T) func() {
	return gotestingadapter.QuickConfig(t, "laylacards.cards")
}

// ── Recording canvas ──

type drawnString struct {
	text string
	x, y int
	face font.Face
}

type drawnImage struct {
	img image.Image
	r   image.Rectangle
}

type recorder struct {
	size    image.Point
	strings []drawnString
	images  []drawnImage
	rects   []image.Rectangle
}

func (c *recorder) Size() image.Point { return c.size }

func (c *recorder) DrawString(text string, x, y int, face font.Face, _ color.Color) {
	c.strings = append(c.strings, drawnString{text, x, y, face})
}

func (c *recorder) DrawImage(img image.Image, r image.Rectangle) {
	c.images = append(c.images, drawnImage{img, r})
}

func (c *recorder) StrokeRect(r image.Rectangle, _ color.Color, _ int) {
	c.rects = append(c.rects, r)
}

func (c *recorder) texts() []string {
	out := make([]string, len(c.strings))
	for i, s := range c.strings {
		out[i] = s.text
	}
	return out
}
