package dish

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func sampleRecords() []Record {
	return []Record{
		{NameEN: "Shawarma", Gluten: GlutenContains, ProteinType: ProteinMeat, Dairy: DairyFree},
		{NameEN: "Baba Ganoush", Gluten: GlutenFree, ProteinType: ProteinVeg, Dairy: DairyFree},
		{NameEN: "Kunafa", Gluten: GlutenContains, ProteinType: ProteinVeg, Dairy: DairyContains},
	}
}

func TestSelect(t *testing.T) {
	recs := sampleRecords()

	got, err := Select(recs, []string{"kunafa", " SHAWARMA "})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Kunafa", got[0].NameEN)
	assert.Equal(t, "Shawarma", got[1].NameEN)

	all, err := Select(recs, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Baba Ganoush", all[0].NameEN)
	assert.Equal(t, "Shawarma", recs[0].NameEN, "input is not reordered")

	_, err = Select(recs, []string{"Kunafa", "Tabbouleh", "Fattoush"})
	var uerr *UnknownDishError
	require.True(t, errors.As(err, &uerr))
	assert.Equal(t, []string{"Tabbouleh", "Fattoush"}, uerr.Names)
}

func TestSplitNames(t *testing.T) {
	assert.Equal(t, []string{"A", "B c"}, SplitNames(" A ,, B c,"))
	assert.Nil(t, SplitNames(""))
}

// StoreSuite runs the same contract against every Store implementation.
type StoreSuite struct {
	suite.Suite
	newStore func() Store
}

func (s *StoreSuite) TestUpsertAndList() {
	ctx := context.Background()
	st := s.newStore()
	for _, r := range sampleRecords() {
		s.Require().NoError(st.Upsert(ctx, r))
	}
	replaced := sampleRecords()[0]
	replaced.NameEN = "SHAWARMA"
	replaced.CaloriesKcal = 610
	s.Require().NoError(st.Upsert(ctx, replaced))

	list, err := st.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(list, 3)
	s.Equal("SHAWARMA", list[0].NameEN)
	s.Equal(610.0, list[0].CaloriesKcal)
	s.Equal("Baba Ganoush", list[1].NameEN)
}

func (s *StoreSuite) TestUpsertRejectsInvalid() {
	err := s.newStore().Upsert(context.Background(), Record{NameEN: "x", Gluten: "??"})
	var ferr *FlagError
	s.True(errors.As(err, &ferr))
}

func (s *StoreSuite) TestDelete() {
	ctx := context.Background()
	st := s.newStore()
	for _, r := range sampleRecords() {
		s.Require().NoError(st.Upsert(ctx, r))
	}
	s.Require().NoError(st.Delete(ctx, "baba ganoush"))
	s.Require().NoError(st.Delete(ctx, "not there"))
	list, err := st.List(ctx)
	s.Require().NoError(err)
	s.Len(list, 2)
}

func TestMemoryStore(t *testing.T) {
	suite.Run(t, &StoreSuite{newStore: func() Store { return NewMemoryStore() }})
}

func TestMemoryStoreSeed(t *testing.T) {
	st := NewMemoryStore(sampleRecords()...)
	list, err := st.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sampleRecords(), list)
}

// TestPostgresStore needs a scratch database; set LAYLA_TEST_DATABASE_URL to run it.
func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("LAYLA_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("LAYLA_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pg, err := ConnectPostgres(ctx, dsn)
	require.NoError(t, err)
	defer pg.Close()

	suite.Run(t, &StoreSuite{newStore: func() Store {
		_, err := pg.db.Exec(ctx, `TRUNCATE dishes`)
		require.NoError(t, err)
		return pg
	}})

	_, err = pg.db.Exec(ctx, `TRUNCATE dishes`)
	require.NoError(t, err)
	require.NoError(t, pg.Import(ctx, sampleRecords()))
	list, err := pg.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}
