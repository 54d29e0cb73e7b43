package favoriterepo

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/skymind/internal/domain/favorites"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS favorite_locations (
	position   BIGSERIAL PRIMARY KEY,
	id         TEXT NOT NULL UNIQUE,
	name       TEXT NOT NULL,
	latitude   DOUBLE PRECISION NOT NULL,
	longitude  DOUBLE PRECISION NOT NULL,
	country    TEXT NOT NULL DEFAULT '',
	admin1     TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// PostgresRepository persists favorites in Postgres.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// EnsureSchema creates the favorites table when missing.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, schemaSQL)
	return err
}

// List returns favorites ordered by insertion.
func (r *PostgresRepository) List(ctx context.Context) ([]favorites.Location, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, latitude, longitude, country, admin1
		FROM favorite_locations
		ORDER BY position
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []favorites.Location
	for rows.Next() {
		loc, err := scanLocation(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, loc)
	}
	return items, rows.Err()
}

func (r *PostgresRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM favorite_locations WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

func (r *PostgresRepository) Insert(ctx context.Context, loc favorites.Location) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO favorite_locations (id, name, latitude, longitude, country, admin1)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING
	`, loc.ID, loc.Name, loc.Latitude, loc.Longitude, loc.Country, loc.Admin1)
	return err
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM favorite_locations WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLocation(row rowScanner) (favorites.Location, error) {
	var loc favorites.Location
	if err := row.Scan(&loc.ID, &loc.Name, &loc.Latitude, &loc.Longitude, &loc.Country, &loc.Admin1); err != nil {
		return favorites.Location{}, err
	}
	return loc, nil
}

var _ favorites.Repository = (*PostgresRepository)(nil)
