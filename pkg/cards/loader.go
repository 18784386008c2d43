// loader.go — Load layout.json, asset bundles (directory or ZIP) and images.
package cards

import (
	"archive/zip"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/xob0t/laylacards/pkg/generator"
	"github.com/xob0t/laylacards/pkg/layout"
)

// LoadConfig reads a layout.json file. Keys present in the file override
// the defaults, unknown keys are ignored. A missing file yields the
// defaults; malformed JSON yields the defaults and a warning.
func LoadConfig(path string) (Config, []string, error) {
	if path == "" {
		return applyConfigDefaults(DefaultConfig()), nil, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		tracer().Infof("no layout file at %s, using defaults", path)
		return applyConfigDefaults(DefaultConfig()), nil, nil
	}
	if err != nil {
		return Config{}, nil, fmt.Errorf("read layout: %w", err)
	}
	return ParseConfig(data)
}

// SaveConfig writes cfg as indented layout JSON. The file is replaced
// atomically.
func SaveConfig(path string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}
	if err := generator.WriteFileAtomic(path, append(data, '\n')); err != nil {
		return fmt.Errorf("save layout: %w", err)
	}
	tracer().Infof("saved layout to %s", path)
	return nil
}

// ParseConfig decodes layout JSON over the defaults of its profile. An
// explicit page size without a page_preset key wins over the default
// preset; an explicit preset wins over the size. See LoadConfig.
func ParseConfig(data []byte) (Config, []string, error) {
	var warnings []string
	var explicit struct {
		Profile    string  `json:"profile"`
		PagePreset *string `json:"page_preset"`
		Page       *struct {
			Width  *float64 `json:"page_width_mm"`
			Height *float64 `json:"page_height_mm"`
		} `json:"page"`
	}
	if err := json.Unmarshal(data, &explicit); err != nil {
		warnings = append(warnings, fmt.Sprintf("malformed layout JSON: %v; using all defaults", err))
		return applyConfigDefaults(DefaultConfig()), warnings, nil
	}

	cfg := DefaultConfigFor(explicit.Profile)
	if _, ok := ProfileCardStyle(explicit.Profile); !ok {
		warnings = append(warnings, fmt.Sprintf("unknown profile %q; using %q", explicit.Profile, ProfileFull))
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		warnings = append(warnings, fmt.Sprintf("malformed layout JSON: %v; using all defaults", err))
		return applyConfigDefaults(DefaultConfig()), warnings, nil
	}
	if _, ok := ProfileCardStyle(cfg.Profile); ok {
		cfg.Profile = canonicalProfile(cfg.Profile)
	} else {
		cfg.Profile = ProfileFull
	}

	sized := explicit.Page != nil && (explicit.Page.Width != nil || explicit.Page.Height != nil)
	switch {
	case sized && explicit.PagePreset == nil:
		cfg.PagePreset = ""
	case sized && isPreset(cfg.PagePreset):
		warnings = append(warnings, fmt.Sprintf("page_preset %q overrides the page size; set it to \"custom\" to keep the size", cfg.PagePreset))
	}
	if p := cfg.PagePreset; p != "" && !strings.EqualFold(p, "custom") && !isPreset(p) {
		warnings = append(warnings, fmt.Sprintf("unknown page preset %q; keeping page size", p))
	}
	return applyConfigDefaults(cfg), warnings, nil
}

func isPreset(name string) bool {
	_, ok := PagePresets[strings.ToLower(name)]
	return ok
}

// applyConfigDefaults sets sane fallbacks for missing values.
func applyConfigDefaults(cfg Config) Config {
	def := DefaultConfig()
	if cfg.Title == "" {
		cfg.Title = def.Title
	}
	if cfg.DPI <= 0 {
		cfg.DPI = def.DPI
	}
	if cfg.Page == (layout.Geometry{}) {
		cfg.Page = def.Page
	}
	if dims, ok := PagePresets[strings.ToLower(cfg.PagePreset)]; ok {
		cfg.Page.PageWidth, cfg.Page.PageHeight = dims[0], dims[1]
	}
	if cfg.Page.Cols <= 0 {
		cfg.Page.Cols = def.Page.Cols
	}
	if cfg.Page.Rows <= 0 {
		cfg.Page.Rows = def.Page.Rows
	}
	if cfg.Profile == "" {
		cfg.Profile = ProfileFull
	}
	applyCardDefaults(&cfg.Card, cfg.Profile)
	if cfg.DrawBorder == nil {
		cfg.DrawBorder = def.DrawBorder
	}
	if cfg.DrawLogo == nil {
		cfg.DrawLogo = def.DrawLogo
	}
	if cfg.PageNumbers == nil {
		cfg.PageNumbers = def.PageNumbers
	}
	if cfg.Debug == nil {
		cfg.Debug = def.Debug
	}
	if cfg.PaperColor == "" {
		cfg.PaperColor = def.PaperColor
	}
	if cfg.TextColor == "" {
		cfg.TextColor = def.TextColor
	}
	if cfg.BorderColor == "" {
		cfg.BorderColor = def.BorderColor
	}
	return cfg
}

// applyCardDefaults fills sizes that must be positive from the style of
// profile. Offsets may legitimately be zero and are kept, unless the whole
// style is empty.
func applyCardDefaults(s *CardStyle, profile string) {
	def, ok := ProfileCardStyle(profile)
	if !ok {
		def = DefaultCardStyle()
	}
	probe := *s
	probe.ShowMacros = nil
	if probe == (CardStyle{}) {
		show := s.ShowMacros
		*s = def
		if show != nil {
			s.ShowMacros = show
		}
		return
	}
	for _, f := range []struct {
		dst *float64
		def float64
	}{
		{&s.LogoWidth, def.LogoWidth},
		{&s.LogoHeight, def.LogoHeight},
		{&s.NameWidth, def.NameWidth},
		{&s.NameENPt, def.NameENPt},
		{&s.NameARPt, def.NameARPt},
		{&s.IconSize, def.IconSize},
		{&s.MacroGap, def.MacroGap},
		{&s.MacroPt, def.MacroPt},
	} {
		if *f.dst <= 0 {
			*f.dst = f.def
		}
	}
	if s.ShowMacros == nil {
		s.ShowMacros = def.ShowMacros
	}
}

// ── Assets ──

// Assets are the images of a run. Icons are required, Logo and Background
// are optional. Assets are read-only and may be shared between runs.
type Assets struct {
	Icons      IconSet
	Logo       image.Image
	Background image.Image // full-page template; replaces the per-card logo
}

// AssetPaths locates asset files on disk.
type AssetPaths struct {
	FontsDir   string
	IconsDir   string
	Logo       string
	Background string
}

// DefaultAssetPaths lays out an asset directory: fonts/, icons/, logo.png and
// an optional template.png page background.
func DefaultAssetPaths(base string) AssetPaths {
	p := AssetPaths{
		FontsDir: filepath.Join(base, "fonts"),
		IconsDir: filepath.Join(base, "icons"),
	}
	if _, err := os.Stat(filepath.Join(base, "logo.png")); err == nil {
		p.Logo = filepath.Join(base, "logo.png")
	}
	if _, err := os.Stat(filepath.Join(base, "template.png")); err == nil {
		p.Background = filepath.Join(base, "template.png")
	}
	return p
}

// LoadAssets decodes icons and the optional images.
func LoadAssets(p AssetPaths) (Assets, error) {
	icons, err := LoadIcons(p.IconsDir)
	if err != nil {
		return Assets{}, err
	}
	a := Assets{Icons: icons}
	if p.Logo != "" {
		if a.Logo, err = imaging.Open(p.Logo); err != nil {
			return Assets{}, &ConfigurationError{Op: "load logo", Err: err}
		}
	}
	if p.Background != "" {
		if a.Background, err = imaging.Open(p.Background); err != nil {
			return Assets{}, &ConfigurationError{Op: "load page background", Err: err}
		}
	}
	return a, nil
}

// OpenBundle returns a directory holding the assets at path. A directory is
// used in place; a .zip bundle is extracted to a temp directory. The
// returned cleanup function removes the temp directory.
func OpenBundle(path string) (string, func(), error) {
	noop := func() {}

	info, err := os.Stat(path)
	if err != nil {
		return "", noop, fmt.Errorf("open assets %s: %w", path, err)
	}
	if info.IsDir() {
		return path, noop, nil
	}

	r, err := zip.OpenReader(path)
	if err != nil {
		return "", noop, fmt.Errorf("open %s: %w", path, err)
	}
	defer r.Close()

	tmpDir, err := os.MkdirTemp("", "laylacards-assets-*")
	if err != nil {
		return "", noop, fmt.Errorf("create temp dir: %w", err)
	}
	cleanup := func() { os.RemoveAll(tmpDir) }

	if err := extractZip(r, tmpDir); err != nil {
		cleanup()
		return "", noop, fmt.Errorf("extract %s: %w", path, err)
	}
	tracer().Infof("extracted asset bundle %s", path)
	return tmpDir, cleanup, nil
}

// extractZip extracts all files from a zip reader into destDir.
func extractZip(r *zip.ReadCloser, destDir string) error {
	for _, f := range r.File {
		target := filepath.Join(destDir, f.Name)

		// Guard against zip slip.
		if !strings.HasPrefix(filepath.Clean(target), filepath.Clean(destDir)+string(os.PathSeparator)) {
			return fmt.Errorf("illegal path in zip: %s", f.Name)
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return err
		}
		if err := extractFile(f, target); err != nil {
			return err
		}
	}
	return nil
}

// extractFile writes a single zip entry to disk.
func extractFile(f *zip.File, target string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.Create(target)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, rc)
	return err
}
