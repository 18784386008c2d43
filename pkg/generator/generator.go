// Package generator writes rendered pages as print output.
//
// All output follows a unified pipeline: the caller renders page images
// first, then they are encoded as a multi-page PDF or as PNG files.
// Files are written next to their destination and renamed into place, so a
// failed run never leaves a partial file behind.
package generator

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config holds the pages of one document.
type Config struct {
	Pages   []image.Image // page rasters, in order
	Title   string
	Width   float64   // page width in mm (default: 210)
	Height  float64   // page height in mm (default: 297)
	Created time.Time // PDF creation date; zero means now
}

// ErrNoPages is returned when there is nothing to write.
var ErrNoPages = errors.New("document has no pages")

// Generate creates an output file. The format is inferred from the file extension:
//   - ".pdf" → one PDF with a page per image
//   - ".png" → a single PNG, or name-1.png, name-2.png, … for several pages
func Generate(output string, cfg Config) ([]string, error) {
	cfg = applyDefaults(cfg)
	if len(cfg.Pages) == 0 {
		return nil, ErrNoPages
	}

	switch ext := strings.ToLower(filepath.Ext(output)); ext {
	case ".pdf":
		var buf bytes.Buffer
		if err := writePDF(&buf, cfg); err != nil {
			return nil, err
		}
		if err := WriteFileAtomic(output, buf.Bytes()); err != nil {
			return nil, err
		}
		return []string{output}, nil
	case ".png":
		return writePNGPages(output, cfg.Pages)
	default:
		return nil, fmt.Errorf("unsupported format %q: use .pdf or .png", ext)
	}
}

// GenerateToWriter writes the document to an io.Writer. The format is
// specified by ext (".pdf" or ".png"); PNG output requires a single page.
func GenerateToWriter(w io.Writer, ext string, cfg Config) error {
	cfg = applyDefaults(cfg)
	if len(cfg.Pages) == 0 {
		return ErrNoPages
	}

	switch strings.ToLower(ext) {
	case ".pdf":
		return writePDF(w, cfg)
	case ".png":
		if len(cfg.Pages) != 1 {
			return fmt.Errorf("png stream holds one page, got %d", len(cfg.Pages))
		}
		return encodePNG(w, cfg.Pages[0])
	default:
		return fmt.Errorf("unsupported format %q: use .pdf or .png", ext)
	}
}

func applyDefaults(cfg Config) Config {
	if cfg.Width <= 0 {
		cfg.Width = 210
	}
	if cfg.Height <= 0 {
		cfg.Height = 297
	}
	if cfg.Created.IsZero() {
		cfg.Created = time.Now()
	}
	return cfg
}

// WriteFileAtomic writes data to a temp file beside path and renames it,
// so readers never see a partial file.
func WriteFileAtomic(path string, data []byte) error {
	tmp, err := stageFile(path, data)
	if err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename to %s: %w", path, err)
	}
	return nil
}

// stageFile writes data to a hidden temp file in the directory of path and
// returns its name. The caller renames or removes it.
func stageFile(path string, data []byte) (string, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	return tmp.Name(), nil
}
