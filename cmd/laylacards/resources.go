// resources.go — Dish source and render resources from flags and environment.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/xob0t/laylacards/pkg/cards"
	"github.com/xob0t/laylacards/pkg/dish"
)

// envOr returns $key, or def when unset.
func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// ── Dish source ──

type source struct {
	csv string
	db  string
}

func sourceFlags(fs *flag.FlagSet) *source {
	s := &source{}
	fs.StringVar(&s.csv, "dishes", "", "Path to dishes.csv")
	fs.StringVar(&s.db, "db", os.Getenv("DATABASE_URL"), "Postgres URL")
	return s
}

// load reads every dish from the database when one is set, else from the CSV.
func (s *source) load(ctx context.Context) ([]dish.Record, error) {
	if s.db != "" {
		store, err := dish.ConnectPostgres(ctx, s.db)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		return store.List(ctx)
	}
	if s.csv == "" {
		return nil, fmt.Errorf("no dish source: use --dishes or --db")
	}
	records, warnings, err := dish.LoadCSV(s.csv)
	warn(warnings)
	if err != nil {
		return nil, err
	}
	tracer().Infof("loaded %d dishes from %s", len(records), s.csv)
	return records, nil
}

// ── Layout and assets ──

type resources struct {
	layoutPath string
	profile    string
	assets     string
	fonts      string
	icons      string
	logo       string
}

func resourceFlags(fs *flag.FlagSet) *resources {
	r := &resources{}
	fs.StringVar(&r.layoutPath, "layout", "", "Path to layout.json")
	fs.StringVar(&r.profile, "profile", "", "Layout profile: full or no_macros")
	fs.StringVar(&r.assets, "assets", envOr("LAYLA_ASSETS_DIR", "assets"), "Asset directory or .zip bundle")
	fs.StringVar(&r.fonts, "fonts", os.Getenv("LAYLA_FONTS_DIR"), "Arabic font directory")
	fs.StringVar(&r.icons, "icons", os.Getenv("LAYLA_ICONS_DIR"), "Icon directory")
	fs.StringVar(&r.logo, "logo", os.Getenv("LAYLA_LOGO"), "Card logo image")
	return r
}

// layout loads the layout file, reporting its warnings, and switches to
// the --profile card style when one is given.
func (r *resources) layout() (cards.Config, error) {
	cfg, warnings, err := cards.LoadConfig(r.layoutPath)
	warn(warnings)
	if err != nil {
		return cfg, err
	}
	if r.profile != "" {
		if _, ok := cards.ProfileCardStyle(r.profile); !ok {
			return cfg, fmt.Errorf("unknown profile %q: use %s or %s", r.profile, cards.ProfileFull, cards.ProfileNoMacros)
		}
		cfg = cards.MergeConfig(cfg, cards.Config{Profile: r.profile})
	}
	return cfg, nil
}

// load resolves the Arabic font and decodes the images of a run. cleanup
// removes an extracted asset bundle and must be called when done.
func (r *resources) load() (cards.FontHandle, cards.Assets, func(), error) {
	dir, cleanup, err := cards.OpenBundle(r.assets)
	if err != nil && (r.fonts == "" || r.icons == "") {
		return cards.FontHandle{}, cards.Assets{}, cleanup, err
	}
	var paths cards.AssetPaths
	if err == nil {
		paths = cards.DefaultAssetPaths(dir)
	}
	if r.fonts != "" {
		paths.FontsDir = r.fonts
	}
	if r.icons != "" {
		paths.IconsDir = r.icons
	}
	if r.logo != "" {
		paths.Logo = r.logo
	}

	fh := cards.ResolveFont(paths.FontsDir)
	tracer().Infof("font: %s", fh)
	assets, err := cards.LoadAssets(paths)
	if err != nil {
		cleanup()
		return cards.FontHandle{}, cards.Assets{}, func() {}, err
	}
	return fh, assets, cleanup, nil
}
