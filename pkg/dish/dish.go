// dish.go — Dish record model and dietary flag parsing.
package dish

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'laylacards.dish'.
func tracer() tracing.Trace {
	return tracing.Select("laylacards.dish")
}

// Gluten tells whether a dish contains gluten.
type Gluten string

// Protein tells whether a dish is vegetarian.
type Protein string

// Dairy tells whether a dish contains dairy.
type Dairy string

const (
	GlutenContains Gluten = "gluten"
	GlutenFree     Gluten = "gluten_free"

	ProteinVeg  Protein = "veg"
	ProteinMeat Protein = "meat"

	DairyContains Dairy = "dairy"
	DairyFree     Dairy = "dairy_free"
)

// Record is one dish of the database. Records are read-only once loaded.
type Record struct {
	NameEN       string  `json:"name_en"`
	NameAR       string  `json:"name_ar"`
	CaloriesKcal float64 `json:"calories_kcal"`
	CarbsG       float64 `json:"carbs_g"`
	ProteinG     float64 `json:"protein_g"`
	FatG         float64 `json:"fat_g"`
	Gluten       Gluten  `json:"gluten"`
	ProteinType  Protein `json:"protein_type"`
	Dairy        Dairy   `json:"dairy"`
}

// ErrEmptyName rejects records without an English name.
var ErrEmptyName = errors.New("dish has no English name")

// FlagError reports a dietary flag value outside its category.
type FlagError struct {
	Category string
	Value    string
}

func (e *FlagError) Error() string {
	return fmt.Sprintf("unknown %s flag %q", e.Category, e.Value)
}

// MacroError reports a negative or non-finite nutrition value.
type MacroError struct {
	Field string
	Value float64
}

func (e *MacroError) Error() string {
	return fmt.Sprintf("%s must be a finite non-negative number, got %g", e.Field, e.Value)
}

// Key is the lookup key of a record: its lowercased English name.
func (r Record) Key() string {
	return Key(r.NameEN)
}

// Key normalizes an English dish name for lookup.
func Key(nameEN string) string {
	return strings.ToLower(strings.TrimSpace(nameEN))
}

// Normalize trims names and canonicalizes the three flags, applying the
// defaults for blank values. The record is returned by value; r is unchanged.
func (r Record) Normalize() (Record, error) {
	r.NameEN = strings.TrimSpace(r.NameEN)
	r.NameAR = strings.TrimSpace(r.NameAR)
	g, err := ParseGluten(string(r.Gluten))
	if err != nil {
		return r, err
	}
	p, err := ParseProtein(string(r.ProteinType))
	if err != nil {
		return r, err
	}
	d, err := ParseDairy(string(r.Dairy))
	if err != nil {
		return r, err
	}
	r.Gluten, r.ProteinType, r.Dairy = g, p, d
	return r, r.Validate()
}

// Validate checks a normalized record.
func (r Record) Validate() error {
	if strings.TrimSpace(r.NameEN) == "" {
		return ErrEmptyName
	}
	for _, m := range []struct {
		field string
		value float64
	}{
		{"calories_kcal", r.CaloriesKcal},
		{"carbs_g", r.CarbsG},
		{"protein_g", r.ProteinG},
		{"fat_g", r.FatG},
	} {
		if m.value < 0 || math.IsNaN(m.value) || math.IsInf(m.value, 0) {
			return &MacroError{Field: m.field, Value: m.value}
		}
	}
	switch r.Gluten {
	case GlutenContains, GlutenFree:
	default:
		return &FlagError{Category: "gluten", Value: string(r.Gluten)}
	}
	switch r.ProteinType {
	case ProteinVeg, ProteinMeat:
	default:
		return &FlagError{Category: "protein_type", Value: string(r.ProteinType)}
	}
	switch r.Dairy {
	case DairyContains, DairyFree:
	default:
		return &FlagError{Category: "dairy", Value: string(r.Dairy)}
	}
	return nil
}

// canonical folds case, trims blanks and maps '-' and inner spaces to '_'.
func canonical(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Join(strings.FieldsFunc(s, func(r rune) bool {
		return r == '-' || r == ' ' || r == '_'
	}), "_")
}

// ParseGluten accepts "gluten", "gluten_free" and their spelling variants.
// A blank value means gluten free.
func ParseGluten(s string) (Gluten, error) {
	switch canonical(s) {
	case "":
		return GlutenFree, nil
	case "gluten", "contains_gluten":
		return GlutenContains, nil
	case "gluten_free", "glutenfree", "gf":
		return GlutenFree, nil
	}
	return "", &FlagError{Category: "gluten", Value: s}
}

// ParseProtein accepts "veg" and "meat". A blank value means vegetarian.
func ParseProtein(s string) (Protein, error) {
	switch canonical(s) {
	case "", "veg", "vegetarian", "vegan":
		return ProteinVeg, nil
	case "meat", "non_veg", "nonveg":
		return ProteinMeat, nil
	}
	return "", &FlagError{Category: "protein_type", Value: s}
}

// ParseDairy accepts "dairy" and "dairy_free". A blank value means dairy free.
func ParseDairy(s string) (Dairy, error) {
	switch canonical(s) {
	case "", "dairy_free", "dairyfree", "df":
		return DairyFree, nil
	case "dairy", "contains_dairy":
		return DairyContains, nil
	}
	return "", &FlagError{Category: "dairy", Value: s}
}
