// csv.go — Read and write the dishes.csv database.
package dish

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Columns is the header of dishes.csv, in file order.
var Columns = []string{
	"name_en", "name_ar",
	"calories_kcal", "carbs_g", "protein_g", "fat_g",
	"gluten", "protein_type", "dairy",
}

// LoadCSV reads a dishes.csv file. See ReadCSV.
func LoadCSV(path string) ([]Record, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadCSV(f)
}

// ReadCSV parses dish rows. Columns are matched by header name, so extra or
// reordered columns are fine; a missing name_en column is an error. Rows
// that fail validation are skipped and reported as warnings. Later rows win
// over earlier rows with the same key, keeping the position of the first.
func ReadCSV(r io.Reader) ([]Record, []string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read csv header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\uFEFF")))] = i
	}
	if _, ok := col["name_en"]; !ok {
		return nil, nil, fmt.Errorf("csv header has no name_en column")
	}

	var (
		records  []Record
		warnings []string
		index    = make(map[string]int)
	)
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, warnings, fmt.Errorf("read csv line %d: %w", line, err)
		}
		field := func(name string) string {
			if i, ok := col[name]; ok && i < len(row) {
				return row[i]
			}
			return ""
		}
		rec, err := parseRow(field)
		if err != nil {
			if errors.Is(err, ErrEmptyName) && isBlankRow(row) {
				continue
			}
			warnings = append(warnings, fmt.Sprintf("line %d (%q) skipped: %v", line, strings.TrimSpace(field("name_en")), err))
			continue
		}
		if i, dup := index[rec.Key()]; dup {
			warnings = append(warnings, fmt.Sprintf("line %d replaces earlier %q", line, rec.NameEN))
			records[i] = rec
			continue
		}
		index[rec.Key()] = len(records)
		records = append(records, rec)
	}
	tracer().Infof("read %d dishes from csv, %d warning(s)", len(records), len(warnings))
	return records, warnings, nil
}

func parseRow(field func(string) string) (Record, error) {
	rec := Record{
		NameEN:      field("name_en"),
		NameAR:      field("name_ar"),
		Gluten:      Gluten(field("gluten")),
		ProteinType: Protein(field("protein_type")),
		Dairy:       Dairy(field("dairy")),
	}
	var err error
	for _, m := range []struct {
		name string
		dst  *float64
	}{
		{"calories_kcal", &rec.CaloriesKcal},
		{"carbs_g", &rec.CarbsG},
		{"protein_g", &rec.ProteinG},
		{"fat_g", &rec.FatG},
	} {
		if *m.dst, err = parseMacro(field(m.name)); err != nil {
			return rec, fmt.Errorf("%s: %w", m.name, err)
		}
	}
	return rec.Normalize()
}

// parseMacro reads a nutrition value. Blank means 0.
func parseMacro(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// WriteCSV writes records with the standard header.
func WriteCSV(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.NameEN, r.NameAR,
			formatMacro(r.CaloriesKcal), formatMacro(r.CarbsG),
			formatMacro(r.ProteinG), formatMacro(r.FatG),
			string(r.Gluten), string(r.ProteinType), string(r.Dairy),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveCSV replaces path with the given records. The file is written next
// to path first and renamed into place.
func SaveCSV(path string, records []Record) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".dishes-*.csv")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if err := WriteCSV(tmp, records); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

func formatMacro(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatNumber prints integers without decimals, anything else with one.
func FormatNumber(v float64) string {
	if math.Abs(v-math.Round(v)) < 1e-9 {
		return strconv.FormatInt(int64(math.Round(v)), 10)
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}
