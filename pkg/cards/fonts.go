// fonts.go - Arabic font resolution with embedded Go fonts as fallback.
// Uses golang.org/x/image/font/opentype for parsing and face creation. The
// resolved font is an immutable value passed explicitly to the renderer.
package cards

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// FontHandle is the font used for Arabic text during one run.
// The zero value is Unsupported.
type FontHandle struct {
	name   string
	path   string
	font   *opentype.Font
	arabic bool
	reason string
}

// Unsupported returns a handle that draws with the Latin fallback face.
func Unsupported(reason string) FontHandle {
	return FontHandle{reason: reason}
}

// Supported reports whether a font file was resolved.
func (h FontHandle) Supported() bool { return h.font != nil }

// CoversArabic reports whether the resolved font has Arabic glyphs.
func (h FontHandle) CoversArabic() bool { return h.font != nil && h.arabic }

// Name is the file name of the resolved font, empty when Unsupported.
func (h FontHandle) Name() string { return h.name }

// Path is the file path of the resolved font, empty when Unsupported.
func (h FontHandle) Path() string { return h.path }

// Reason explains why the handle is Unsupported or lacks Arabic glyphs.
func (h FontHandle) Reason() string { return h.reason }

func (h FontHandle) String() string {
	if !h.Supported() {
		return "unsupported (" + h.reason + ")"
	}
	return h.name
}

// Face returns a face at size points for the given resolution. An
// Unsupported handle yields Go Regular.
func (h FontHandle) Face(size, dpi float64) (font.Face, error) {
	f := h.font
	if f == nil {
		var err error
		if f, err = goRegular(); err != nil {
			return nil, err
		}
	}
	return newFace(f, size, dpi)
}

// ResolveFont picks the Arabic font from dir. Candidates are *.ttf and *.otf
// files, those with "Regular" in their name first, then by name. The first
// that parses and maps U+0627 wins, else the first that parses. A missing or
// empty directory gives an Unsupported handle, never an error.
func ResolveFont(dir string) FontHandle {
	if dir == "" {
		return Unsupported("no font directory configured")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Unsupported(fmt.Sprintf("read font directory: %v", err))
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".ttf", ".otf":
			names = append(names, e.Name())
		}
	}
	sort.SliceStable(names, func(i, j int) bool {
		ri, rj := strings.Contains(names[i], "Regular"), strings.Contains(names[j], "Regular")
		if ri != rj {
			return ri
		}
		return names[i] < names[j]
	})

	var fallback *FontHandle
	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			tracer().Infof("skip font %s: %v", name, err)
			continue
		}
		f, err := opentype.Parse(data)
		if err != nil {
			tracer().Infof("skip font %s: %v", name, err)
			continue
		}
		h := FontHandle{name: name, path: path, font: f, arabic: hasGlyph(f, '\u0627')}
		if h.arabic {
			tracer().Infof("resolved Arabic font %s", name)
			return h
		}
		if fallback == nil {
			h.reason = fmt.Sprintf("%s has no Arabic glyphs", name)
			fallback = &h
		}
	}
	if fallback != nil {
		tracer().Infof("no Arabic font in %s, using %s", dir, fallback.name)
		return *fallback
	}
	return Unsupported(fmt.Sprintf("no usable .ttf/.otf font in %s", dir))
}

func hasGlyph(f *opentype.Font, r rune) bool {
	var buf sfnt.Buffer
	gi, err := f.GlyphIndex(&buf, r)
	return err == nil && gi != 0
}

// ── Embedded Latin faces ──

var (
	goRegular = sync.OnceValues(func() (*opentype.Font, error) { return parseEmbedded("Go Regular", goregular.TTF) })
	goBold    = sync.OnceValues(func() (*opentype.Font, error) { return parseEmbedded("Go Bold", gobold.TTF) })
)

func parseEmbedded(name string, data []byte) (*opentype.Font, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse embedded %s: %w", name, err)
	}
	return f, nil
}

// latinFace returns the embedded Go font face, bold or regular.
func latinFace(bold bool, size, dpi float64) (font.Face, error) {
	load := goRegular
	if bold {
		load = goBold
	}
	f, err := load()
	if err != nil {
		return nil, err
	}
	return newFace(f, size, dpi)
}

func newFace(f *opentype.Font, size, dpi float64) (font.Face, error) {
	if dpi <= 0 {
		dpi = 72
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     dpi,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create font face: %w", err)
	}
	return face, nil
}
