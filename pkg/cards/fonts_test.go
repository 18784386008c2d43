package cards

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

func TestResolveFontMissingDirectory(t *testing.T) {
	h := ResolveFont(filepath.Join(t.TempDir(), "nope"))
	assert.False(t, h.Supported())
	assert.False(t, h.CoversArabic())
	assert.Contains(t, h.Reason(), "read font directory")

	assert.False(t, ResolveFont("").Supported())
}

func TestResolveFontEmptyDirectory(t *testing.T) {
	h := ResolveFont(t.TempDir())
	assert.False(t, h.Supported())
	assert.Contains(t, h.Reason(), "no usable")
}

func TestResolveFontOrdering(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.ttf"), []byte("not a font"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.ttf"), goregular.TTF, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Sans-Regular.ttf"), gobold.TTF, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	h := ResolveFont(dir)
	require.True(t, h.Supported())
	assert.Equal(t, "Sans-Regular.ttf", h.Name(), "Regular sorts first")
	assert.Equal(t, filepath.Join(dir, "Sans-Regular.ttf"), h.Path())
	// The Go fonts carry no Arabic glyphs.
	assert.False(t, h.CoversArabic())
	assert.Contains(t, h.Reason(), "no Arabic glyphs")
}

func TestFontHandleFace(t *testing.T) {
	face, err := Unsupported("none").Face(12, 72)
	require.NoError(t, err)
	assert.Positive(t, face.Metrics().Height.Ceil())

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "GoRegular.ttf"), goregular.TTF, 0644))
	face, err = ResolveFont(dir).Face(12, 150)
	require.NoError(t, err)
	assert.Positive(t, face.Metrics().Height.Ceil())
}

func TestFontHandleString(t *testing.T) {
	assert.Equal(t, "unsupported (why)", Unsupported("why").String())
	var zero FontHandle
	assert.False(t, zero.Supported())
}
