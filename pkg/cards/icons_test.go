package cards

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xob0t/laylacards/pkg/dish"
)

func TestMapFlagsIsTotal(t *testing.T) {
	seen := make(map[[3]IconID]bool)
	for _, g := range []dish.Gluten{dish.GlutenContains, dish.GlutenFree} {
		for _, p := range []dish.Protein{dish.ProteinVeg, dish.ProteinMeat} {
			for _, d := range []dish.Dairy{dish.DairyContains, dish.DairyFree} {
				ids, err := MapFlags(g, p, d)
				require.NoError(t, err)
				assert.Contains(t, []IconID{IconGluten, IconGlutenFree}, ids[0])
				assert.Contains(t, []IconID{IconVeg, IconMeat}, ids[1])
				assert.Contains(t, []IconID{IconDairy, IconDairyFree}, ids[2])
				seen[ids] = true
			}
		}
	}
	assert.Len(t, seen, 8)
}

func TestMapFlagsOrder(t *testing.T) {
	ids, err := MapFlags(dish.GlutenFree, dish.ProteinMeat, dish.DairyContains)
	require.NoError(t, err)
	assert.Equal(t, [3]IconID{IconGlutenFree, IconMeat, IconDairy}, ids)
}

func TestMapFlagsRejectsUnknown(t *testing.T) {
	cases := []struct {
		g        dish.Gluten
		p        dish.Protein
		d        dish.Dairy
		category string
	}{
		{"wheat", dish.ProteinVeg, dish.DairyFree, "gluten"},
		{dish.GlutenFree, "fish", dish.DairyFree, "protein_type"},
		{dish.GlutenFree, dish.ProteinVeg, "", "dairy"},
	}
	for _, c := range cases {
		_, err := MapFlags(c.g, c.p, c.d)
		var ferr *UnknownFlagError
		require.True(t, errors.As(err, &ferr), "got %v", err)
		assert.Equal(t, c.category, ferr.Category)
	}
}

func writeIcon(t *testing.T, path string) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	img.Set(4, 4, color.NRGBA{R: 200, A: 255})
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestLoadIcons(t *testing.T) {
	dir := t.TempDir()
	for _, id := range AllIcons {
		writeIcon(t, filepath.Join(dir, string(id)+".png"))
	}
	set, err := LoadIcons(dir)
	require.NoError(t, err)
	assert.Len(t, set, len(AllIcons))
	assert.Equal(t, image.Pt(16, 16), set[IconVeg].Bounds().Size())
}

func TestLoadIconsMissing(t *testing.T) {
	dir := t.TempDir()
	for _, id := range AllIcons[:5] {
		writeIcon(t, filepath.Join(dir, string(id)+".png"))
	}
	_, err := LoadIcons(dir)
	var cerr *ConfigurationError
	require.True(t, errors.As(err, &cerr), "got %v", err)
	assert.Contains(t, err.Error(), "dairy_free")
}

func TestNewIconSetRequiresAll(t *testing.T) {
	_, err := NewIconSet(map[IconID]image.Image{IconVeg: image.NewRGBA(image.Rect(0, 0, 1, 1))})
	assert.Error(t, err)
}
