// laylacards — Bilingual recipe cards for print.
//
// Usage:
//
//	laylacards -o <file> --dishes <csv> [options]
//	laylacards init
//	laylacards layout [--layout <path>] [--profile no_macros]
//	laylacards import --dishes <csv> [--db <url>]
//	laylacards serve [--port 8080] [--layout <path>] [--max-dpi 300]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"

	"github.com/xob0t/laylacards/clients/server"
	"github.com/xob0t/laylacards/pkg/cards"
	"github.com/xob0t/laylacards/pkg/dish"
	"github.com/xob0t/laylacards/pkg/generator"
)

// tracer traces with key 'laylacards.cli'.
func tracer() tracing.Trace {
	return tracing.Select("laylacards.cli")
}

// traceKeys are the selectors configured by --trace.
var traceKeys = []string{
	"laylacards.cli",
	"laylacards.cards",
	"laylacards.arabic",
	"laylacards.dish",
	"laylacards.server",
}

func main() {
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}
	initDisplay()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "init":
		err = runInit(os.Args[2:])
	case "layout":
		err = runLayout(os.Args[2:])
	case "import":
		err = runImport(os.Args[2:])
	case "serve":
		err = runServe(os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
	default:
		// Default: render mode (all flags on root).
		err = run(os.Args[1:])
	}
	if err != nil {
		fatal(err)
	}
}

// ── Render ──

func run(args []string) error {
	fs := flag.NewFlagSet("laylacards", flag.ExitOnError)
	var (
		output      string
		selection   string
		noMacros    bool
		pageNumbers bool
		debug       bool
	)
	fs.StringVar(&output, "o", "", "Output file path (.pdf or .png)")
	fs.StringVar(&output, "output", "", "Output file path (.pdf or .png)")
	fs.StringVar(&selection, "select", "", "Comma separated English dish names, in print order")
	fs.BoolVar(&noMacros, "no-macros", false, "Hide the nutrition column")
	fs.BoolVar(&pageNumbers, "page-numbers", false, "Print 'n / total' under each page")
	fs.BoolVar(&debug, "debug", false, "Outline and number every slot")
	src := sourceFlags(fs)
	res := resourceFlags(fs)
	trace := traceFlag(fs)

	fs.Usage = printUsage
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := setupTracing(*trace); err != nil {
		return err
	}
	if output == "" {
		printUsage()
		return fmt.Errorf("output file is required (-o)")
	}

	runID := uuid.NewString()
	ctx := context.Background()
	tracer().Infof("[%s] render run to %s", runID, output)

	records, err := src.load(ctx)
	if err != nil {
		return err
	}
	dishes, err := dish.Select(records, dish.SplitNames(selection))
	if err != nil {
		return err
	}

	cfg, err := res.layout()
	if err != nil {
		return err
	}
	over := cards.Config{}
	if noMacros {
		over.Card.ShowMacros = boolPtr(false)
	}
	if pageNumbers {
		over.PageNumbers = boolPtr(true)
	}
	if debug {
		over.Debug = boolPtr(true)
	}
	cfg = cards.MergeConfig(cfg, over)

	fh, assets, cleanup, err := res.load()
	if err != nil {
		return err
	}
	defer cleanup()

	renderer, err := cards.NewRenderer(cfg, fh, assets)
	if err != nil {
		return err
	}
	pterm.Info.Printf("Rendering %d dishes with font %s\n", len(dishes), fh)
	doc, warnings, err := renderer.Paginate(dishes)
	warn(warnings)
	if err != nil {
		return err
	}

	written, err := generator.Generate(output, generator.Config{
		Pages:  doc.Images(),
		Title:  doc.Title,
		Width:  doc.Width,
		Height: doc.Height,
	})
	if err != nil {
		return err
	}
	tracer().Infof("[%s] wrote %d page(s)", runID, len(doc.Pages))
	for _, path := range written {
		pterm.Success.Printf("Done: %s\n", path)
	}
	return nil
}

// ── Subcommands ──

func runInit(args []string) error {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	var dishesOut, layoutOut string
	fs.StringVar(&dishesOut, "dishes", "dishes.csv", "Output path for sample dishes")
	fs.StringVar(&layoutOut, "layout", "layout.json", "Output path for sample layout")
	if err := fs.Parse(args); err != nil {
		return err
	}

	d, l := cards.GetExampleFiles()
	if err := os.WriteFile(dishesOut, []byte(d), 0644); err != nil {
		return fmt.Errorf("write dishes: %w", err)
	}
	if err := os.WriteFile(layoutOut, []byte(l), 0644); err != nil {
		return fmt.Errorf("write layout: %w", err)
	}

	pterm.Success.Printf("Created: %s, %s\n", dishesOut, layoutOut)
	pterm.Info.Println("Run: laylacards -o cards.pdf --dishes dishes.csv --layout layout.json --assets assets")
	return nil
}

func runLayout(args []string) error {
	fs := flag.NewFlagSet("layout", flag.ExitOnError)
	res := resourceFlags(fs)
	trace := traceFlag(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := setupTracing(*trace); err != nil {
		return err
	}

	cfg, err := res.layout()
	if err != nil {
		return err
	}
	if err := cards.ValidateConfig(cfg); err != nil {
		pterm.Warning.Println(err)
	}
	fmt.Fprint(os.Stderr, cards.FormatConfig(cfg))
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func runImport(args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	src := sourceFlags(fs)
	trace := traceFlag(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := setupTracing(*trace); err != nil {
		return err
	}
	if src.csv == "" || src.db == "" {
		return fmt.Errorf("import needs --dishes and --db (or DATABASE_URL)")
	}

	records, warnings, err := dish.LoadCSV(src.csv)
	warn(warnings)
	if err != nil {
		return err
	}
	ctx := context.Background()
	store, err := dish.ConnectPostgres(ctx, src.db)
	if err != nil {
		return err
	}
	defer store.Close()
	if err := store.Import(ctx, records); err != nil {
		return err
	}
	pterm.Success.Printf("Imported %d dishes from %s\n", len(records), src.csv)
	return nil
}

func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	port := fs.String("port", envOr("PORT", "8080"), "Port to listen on")
	maxDPI := fs.Float64("max-dpi", server.DefaultMaxDPI, "Highest resolution a render request may ask for")
	src := sourceFlags(fs)
	res := resourceFlags(fs)
	trace := traceFlag(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := setupTracing(*trace); err != nil {
		return err
	}

	ctx := context.Background()
	var store dish.Store
	if src.db != "" {
		pg, err := dish.ConnectPostgres(ctx, src.db)
		if err != nil {
			return err
		}
		defer pg.Close()
		store = pg
	} else {
		records, err := src.load(ctx)
		if err != nil {
			return err
		}
		store = dish.NewMemoryStore(records...)
	}

	cfg, err := res.layout()
	if err != nil {
		return err
	}
	fh, assets, cleanup, err := res.load()
	if err != nil {
		return err
	}
	defer cleanup()

	pterm.Info.Printf("laylacards API on http://localhost:%s\n", *port)
	if res.layoutPath != "" {
		pterm.Info.Printf("Layout changes are saved to %s\n", res.layoutPath)
	}
	return server.New(server.Options{
		Store:      store,
		Layout:     cfg,
		LayoutPath: res.layoutPath,
		Font:       fh,
		Assets:     assets,
		MaxDPI:     *maxDPI,
	}).Run(":" + *port)
}

// ── Tracing and display ──

func traceFlag(fs *flag.FlagSet) *string {
	return fs.String("trace", "Error", "Trace level [Debug|Info|Error]")
}

// setupTracing routes all package tracers to the Go logger at level.
func setupTracing(level string) error {
	switch level {
	case "Debug", "Info", "Error":
	default:
		return fmt.Errorf("invalid trace level: %s", level)
	}
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{"tracing.adapter": "go", "trace.root": level}
	for _, key := range traceKeys {
		conf["trace."+key] = level
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		return fmt.Errorf("configure tracing: %w", err)
	}
	tracing.SetTraceSelector(trace2go.Selector())
	return nil
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

func warn(warnings []string) {
	for _, w := range warnings {
		pterm.Warning.Println(w)
	}
}

func fatal(err error) {
	pterm.Error.Println(err)
	os.Exit(1)
}

func boolPtr(b bool) *bool { return &b }

func printUsage() {
	fmt.Print(`laylacards — Bilingual recipe cards for print

USAGE:
    laylacards -o <file> --dishes <csv> [options]
    laylacards init [options]
    laylacards layout [--layout <path>] [--profile <name>]
    laylacards import --dishes <csv> [--db <url>]
    laylacards serve [--port 8080] [--layout <path>] [--max-dpi 300]

RENDER:
    -o, --output <path>    Output file (.pdf, or .png for page images)
    --dishes <path>        Dish CSV (ignored when a database is set)
    --db <url>             Postgres URL (default: $DATABASE_URL)
    --select "A,B"         Dishes to print, in order (default: all, by name)
    --layout <path>        Layout JSON (default: built-in A4 2×3)
    --profile <name>       Card style: full, or no_macros for names and icons only
    --assets <path>        Asset directory or .zip (default: $LAYLA_ASSETS_DIR or assets)
    --fonts <dir>          Arabic font directory (default: <assets>/fonts)
    --icons <dir>          Icon directory (default: <assets>/icons)
    --logo <path>          Card logo (default: <assets>/logo.png if present)
    --no-macros            Hide the nutrition column
    --page-numbers         Print page numbers
    --debug                Outline every slot
    --trace <level>        Debug, Info or Error (default: Error)

SERVER:
    laylacards serve [--port 8080]      Start the HTTP API ($PORT)
    --layout <path>                     Base layout; PUT /api/layout saves to it
    --max-dpi <n>                       Resolution limit for render requests (default: 300)

LAYOUT FILES:
    A page_width_mm/page_height_mm in layout.json is used as written unless
    page_preset names a preset (a4, a5, letter), which then sets the size.

EXAMPLES:
    laylacards init
    laylacards -o cards.pdf --dishes dishes.csv
    laylacards -o cards.pdf --dishes dishes.csv --select "Hummus,Kunafa" --page-numbers
    laylacards -o preview.png --dishes dishes.csv --layout layout.json
    laylacards -o names.pdf --dishes dishes.csv --profile no_macros
    laylacards import --dishes dishes.csv --db postgres://localhost/layla
`)
}
