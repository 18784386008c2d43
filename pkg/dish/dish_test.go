package dish

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	cases := []struct {
		in   string
		want Gluten
	}{
		{"gluten", GlutenContains},
		{"Gluten-Free", GlutenFree},
		{"  GLUTEN_FREE ", GlutenFree},
		{"gluten free", GlutenFree},
		{"", GlutenFree},
	}
	for _, c := range cases {
		got, err := ParseGluten(c.in)
		require.NoError(t, err, "%q", c.in)
		assert.Equal(t, c.want, got, "%q", c.in)
	}

	p, err := ParseProtein("Meat")
	require.NoError(t, err)
	assert.Equal(t, ProteinMeat, p)
	p, err = ParseProtein(" ")
	require.NoError(t, err)
	assert.Equal(t, ProteinVeg, p)

	d, err := ParseDairy("Dairy-Free")
	require.NoError(t, err)
	assert.Equal(t, DairyFree, d)
	d, err = ParseDairy("dairy")
	require.NoError(t, err)
	assert.Equal(t, DairyContains, d)
}

func TestParseFlagRejectsUnknown(t *testing.T) {
	_, err := ParseProtein("fish")
	var ferr *FlagError
	require.True(t, errors.As(err, &ferr))
	assert.Equal(t, "protein_type", ferr.Category)
	assert.Equal(t, "fish", ferr.Value)

	_, err = ParseGluten("maybe")
	assert.Error(t, err)
	_, err = ParseDairy("lactose")
	assert.Error(t, err)
}

func TestNormalize(t *testing.T) {
	r, err := Record{NameEN: "  Falafel ", NameAR: " فلافل ", Gluten: "Gluten", ProteinType: ""}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, "Falafel", r.NameEN)
	assert.Equal(t, "فلافل", r.NameAR)
	assert.Equal(t, GlutenContains, r.Gluten)
	assert.Equal(t, ProteinVeg, r.ProteinType)
	assert.Equal(t, DairyFree, r.Dairy)
	assert.Equal(t, "falafel", r.Key())
}

func TestValidate(t *testing.T) {
	_, err := Record{NameEN: " "}.Normalize()
	assert.ErrorIs(t, err, ErrEmptyName)

	_, err = Record{NameEN: "Soup", FatG: -1}.Normalize()
	var merr *MacroError
	require.True(t, errors.As(err, &merr))
	assert.Equal(t, "fat_g", merr.Field)

	err = Record{NameEN: "Soup", CaloriesKcal: math.NaN(), Gluten: GlutenFree, ProteinType: ProteinVeg, Dairy: DairyFree}.Validate()
	require.True(t, errors.As(err, &merr))
	assert.Equal(t, "calories_kcal", merr.Field)

	err = Record{NameEN: "Soup", ProteinG: math.Inf(1), Gluten: GlutenFree, ProteinType: ProteinVeg, Dairy: DairyFree}.Validate()
	require.True(t, errors.As(err, &merr))
	assert.Equal(t, "protein_g", merr.Field)

	err = Record{NameEN: "Soup", Gluten: "gluten_free", ProteinType: "veg", Dairy: "cheese"}.Validate()
	var ferr *FlagError
	require.True(t, errors.As(err, &ferr))
	assert.Equal(t, "dairy", ferr.Category)
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "450", FormatNumber(450))
	assert.Equal(t, "12.5", FormatNumber(12.5))
	assert.Equal(t, "3.3", FormatNumber(3.333))
	assert.Equal(t, "0", FormatNumber(0))
	assert.Equal(t, "7", FormatNumber(6.9999999999))
}
