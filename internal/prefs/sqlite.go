package prefs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alphamobile/sessioncore/internal/dbx"
)

// SQLiteRepository persists preference domains in the prefs table.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Get(ctx context.Context, domain, key string) (string, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM prefs WHERE domain = ? AND key = ?`, domain, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get prefs[%s/%s]: %w", domain, key, err)
	}
	return value, true, nil
}

func (r *SQLiteRepository) Set(ctx context.Context, domain, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO prefs (domain, key, value) VALUES (?, ?, ?)
		ON CONFLICT(domain, key) DO UPDATE SET value = excluded.value
	`, domain, key, value)
	if err != nil {
		return fmt.Errorf("failed to set prefs[%s/%s]: %w", domain, key, err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, domain, key string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM prefs WHERE domain = ? AND key = ?`, domain, key)
	if err != nil {
		return fmt.Errorf("failed to delete prefs[%s/%s]: %w", domain, key, err)
	}
	return nil
}

func (r *SQLiteRepository) ClearDomain(ctx context.Context, domain string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM prefs WHERE domain = ?`, domain)
	if err != nil {
		return fmt.Errorf("failed to clear prefs domain %s: %w", domain, err)
	}
	return nil
}
