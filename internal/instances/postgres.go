// internal/instances/postgres.go
package instances

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// pgStore implements Store backed by PostgreSQL.
type pgStore struct {
	dbPool *pgxpool.Pool
	log    *zap.SugaredLogger
}

// NewPostgresStore constructs a PostgreSQL-backed instance store.
func NewPostgresStore(dbPool *pgxpool.Pool, log *zap.SugaredLogger) Store {
	return &pgStore{dbPool: dbPool, log: log}
}

// EnsureSchema creates the instances table if it does not already exist.
// Safe to call repeatedly (idempotent). The primary key on name is the
// authoritative uniqueness guard for concurrent creates.
func EnsureSchema(ctx context.Context, dbPool *pgxpool.Pool) error {
	_, err := dbPool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS instances (
  name varchar(63) PRIMARY KEY,
  locale varchar(10) NOT NULL DEFAULT 'en-US',
  owner_email varchar(255) NOT NULL,
  created_at timestamptz NOT NULL DEFAULT NOW(),
  updated_at timestamptz NOT NULL DEFAULT NOW()
);`)
	return err
}

// uniqueViolation is the SQLSTATE Postgres raises when an insert collides
// with the primary key.
const uniqueViolation = "23505"

func (s *pgStore) FindByName(ctx context.Context, name string) (Instance, error) {
	row := s.dbPool.QueryRow(ctx,
		`SELECT name, locale, owner_email, created_at, updated_at FROM instances WHERE name=$1`, name)
	var inst Instance
	if err := row.Scan(&inst.Name, &inst.Locale, &inst.OwnerEmail, &inst.CreatedAt, &inst.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Instance{}, ErrNotFound
		}
		return Instance{}, err
	}
	return inst, nil
}

func (s *pgStore) Insert(ctx context.Context, inst Instance) (Instance, error) {
	row := s.dbPool.QueryRow(ctx,
		`INSERT INTO instances (name, locale, owner_email) VALUES ($1, $2, $3)
		 RETURNING name, locale, owner_email, created_at, updated_at`,
		inst.Name, inst.Locale, inst.OwnerEmail)
	var saved Instance
	if err := row.Scan(&saved.Name, &saved.Locale, &saved.OwnerEmail, &saved.CreatedAt, &saved.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return Instance{}, ErrDuplicate
		}
		return Instance{}, err
	}
	return saved, nil
}

func (s *pgStore) ListAll(ctx context.Context) ([]Instance, error) {
	rows, err := s.dbPool.Query(ctx,
		`SELECT name, locale, owner_email, created_at, updated_at FROM instances ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Instance
	for rows.Next() {
		var inst Instance
		if err := rows.Scan(&inst.Name, &inst.Locale, &inst.OwnerEmail, &inst.CreatedAt, &inst.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, inst)
	}
	return out, rows.Err()
}
