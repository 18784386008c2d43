// pdf.go — PDF writer: one full-bleed page image per PDF page.
package generator

import (
	"bytes"
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

// writePDF lays every page image over a whole page of cfg.Width × cfg.Height mm.
func writePDF(w io.Writer, cfg Config) error {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           gofpdf.SizeType{Wd: cfg.Width, Ht: cfg.Height},
	})
	pdf.SetTitle(cfg.Title, true)
	pdf.SetCreator("laylacards", true)
	pdf.SetCreationDate(cfg.Created)
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	for i, img := range cfg.Pages {
		var buf bytes.Buffer
		if err := encodePNG(&buf, img); err != nil {
			return fmt.Errorf("page %d: %w", i+1, err)
		}
		name := fmt.Sprintf("page-%d", i+1)
		pdf.RegisterImageOptionsReader(name, opts, &buf)
		pdf.AddPage()
		pdf.ImageOptions(name, 0, 0, cfg.Width, cfg.Height, false, opts, 0, "")
		if pdf.Err() {
			return fmt.Errorf("page %d: %w", i+1, pdf.Error())
		}
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("encode PDF: %w", err)
	}
	return nil
}
