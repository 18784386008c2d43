// postgres.go — Dish store backed by PostgreSQL.
package dish

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const upsertDishSQL = `
	INSERT INTO dishes (key, name_en, name_ar, calories_kcal, carbs_g, protein_g, fat_g,
	                    gluten, protein_type, dairy)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	ON CONFLICT (key) DO UPDATE SET
		name_en = EXCLUDED.name_en,
		name_ar = EXCLUDED.name_ar,
		calories_kcal = EXCLUDED.calories_kcal,
		carbs_g = EXCLUDED.carbs_g,
		protein_g = EXCLUDED.protein_g,
		fat_g = EXCLUDED.fat_g,
		gluten = EXCLUDED.gluten,
		protein_type = EXCLUDED.protein_type,
		dairy = EXCLUDED.dairy
`

func upsertArgs(r Record) []any {
	return []any{r.Key(), r.NameEN, r.NameAR, r.CaloriesKcal, r.CarbsG, r.ProteinG, r.FatG,
		string(r.Gluten), string(r.ProteinType), string(r.Dairy)}
}

// PostgresStore keeps dishes in a single table.
type PostgresStore struct {
	db *pgxpool.Pool
}

// ConnectPostgres opens a pool for dsn, checks it and creates the schema.
func ConnectPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	config.MaxConns = 4
	config.MaxConnLifetime = time.Hour

	db, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	s := NewPostgresStore(db)
	if err := s.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	tracer().Infof("connected to postgres")
	return s, nil
}

// NewPostgresStore wraps an existing pool.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// Close releases the pool.
func (s *PostgresStore) Close() {
	s.db.Close()
}

// EnsureSchema creates the dishes table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS dishes (
			seq           BIGSERIAL,
			key           TEXT PRIMARY KEY,
			name_en       TEXT NOT NULL,
			name_ar       TEXT NOT NULL DEFAULT '',
			calories_kcal DOUBLE PRECISION NOT NULL DEFAULT 0,
			carbs_g       DOUBLE PRECISION NOT NULL DEFAULT 0,
			protein_g     DOUBLE PRECISION NOT NULL DEFAULT 0,
			fat_g         DOUBLE PRECISION NOT NULL DEFAULT 0,
			gluten        TEXT NOT NULL DEFAULT 'gluten_free',
			protein_type  TEXT NOT NULL DEFAULT 'veg',
			dairy         TEXT NOT NULL DEFAULT 'dairy_free',
			created_at    TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("create dishes table: %w", err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context) ([]Record, error) {
	rows, err := s.db.Query(ctx, `
		SELECT name_en, name_ar, calories_kcal, carbs_g, protein_g, fat_g,
		       gluten, protein_type, dairy
		FROM dishes
		ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("list dishes: %w", err)
	}
	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Record, error) {
		var r Record
		err := row.Scan(&r.NameEN, &r.NameAR, &r.CaloriesKcal, &r.CarbsG, &r.ProteinG, &r.FatG,
			&r.Gluten, &r.ProteinType, &r.Dairy)
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan dishes: %w", err)
	}
	return records, nil
}

func (s *PostgresStore) Upsert(ctx context.Context, r Record) error {
	if err := r.Validate(); err != nil {
		return err
	}
	_, err := s.db.Exec(ctx, upsertDishSQL, upsertArgs(r)...)
	if err != nil {
		return fmt.Errorf("upsert dish %q: %w", r.NameEN, err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, nameEN string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM dishes WHERE key = $1`, Key(nameEN)); err != nil {
		return fmt.Errorf("delete dish %q: %w", nameEN, err)
	}
	return nil
}

// Import upserts all records in one transaction.
func (s *PostgresStore) Import(ctx context.Context, records []Record) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback(ctx)
	batch := &pgx.Batch{}
	for _, r := range records {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("import %q: %w", r.NameEN, err)
		}
		batch.Queue(upsertDishSQL, upsertArgs(r)...)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("import dishes: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}
	tracer().Infof("imported %d dishes", len(records))
	return nil
}
