package repository

import (
	"context"
	"database/sql"
	"errors"
)

// PostgresBackend stores the document as one row of the documents table.
type PostgresBackend struct {
	db   *sql.DB
	name string
}

func NewPostgresBackend(db *sql.DB, name string) *PostgresBackend {
	return &PostgresBackend{db: db, name: name}
}

func (b *PostgresBackend) Load(ctx context.Context) ([]byte, error) {
	var body string
	err := b.db.QueryRowContext(ctx, "SELECT body FROM documents WHERE name = $1", b.name).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return []byte(body), nil
}

func (b *PostgresBackend) Save(ctx context.Context, data []byte) error {
	_, err := b.db.ExecContext(ctx, `
INSERT INTO documents (name, body, updated_at) VALUES ($1, $2, NOW())
ON CONFLICT (name) DO UPDATE SET body = EXCLUDED.body, updated_at = NOW()`,
		b.name, string(data))
	return err
}
