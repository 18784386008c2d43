// png.go — PNG page writer.
package generator

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// writePNGPages writes one file per page. A single page goes to output
// itself; several pages get a -1, -2, … suffix before the extension.
// All pages are encoded and staged before the first file is renamed into
// place; if any page fails, no page file is left behind.
func writePNGPages(output string, pages []image.Image) ([]string, error) {
	encoded := make([][]byte, len(pages))
	for i, img := range pages {
		var buf bytes.Buffer
		if err := encodePNG(&buf, img); err != nil {
			return nil, fmt.Errorf("page %d: %w", i+1, err)
		}
		encoded[i] = buf.Bytes()
	}

	paths := PagePaths(output, len(pages))
	staged := make([]string, 0, len(paths))
	discard := func() {
		for _, tmp := range staged {
			os.Remove(tmp)
		}
	}
	for i, data := range encoded {
		tmp, err := stageFile(paths[i], data)
		if err != nil {
			discard()
			return nil, fmt.Errorf("page %d: %w", i+1, err)
		}
		staged = append(staged, tmp)
	}
	for i, tmp := range staged {
		if err := os.Rename(tmp, paths[i]); err != nil {
			for _, done := range paths[:i] {
				os.Remove(done)
			}
			discard()
			return nil, fmt.Errorf("page %d: rename to %s: %w", i+1, paths[i], err)
		}
	}
	return paths, nil
}

// PagePaths returns the file names used for n PNG pages of output.
func PagePaths(output string, n int) []string {
	if n == 1 {
		return []string{output}
	}
	ext := filepath.Ext(output)
	stem := strings.TrimSuffix(output, ext)
	paths := make([]string, n)
	for i := range paths {
		paths[i] = fmt.Sprintf("%s-%d%s", stem, i+1, ext)
	}
	return paths
}

// encodePNG encodes img as PNG.
func encodePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode PNG: %w", err)
	}
	return nil
}

// toRGBA is a convenience to construct color.RGBA with full alpha.
func toRGBA(r, g, b uint8) color.RGBA {
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
