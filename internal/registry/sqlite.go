package registry

import (
	"context"
	"fmt"

	"github.com/alphamobile/sessioncore/internal/dbx"
)

// SQLiteRepository persists accounts in the accounts table.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Snapshot(ctx context.Context) (*Snapshot, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT username, password_hash, user_id, created_at FROM accounts`)
	if err != nil {
		return nil, fmt.Errorf("failed to read accounts: %w", err)
	}
	defer rows.Close()

	accounts := make(map[string]Account)
	for rows.Next() {
		var acc Account
		if err := rows.Scan(&acc.Username, &acc.PasswordHash, &acc.UserID, &acc.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts[acc.Username] = acc
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate account rows: %w", err)
	}

	return &Snapshot{accounts: accounts}, nil
}

func (r *SQLiteRepository) Create(ctx context.Context, acc *Account) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO accounts (username, password_hash, user_id, created_at)
		VALUES (?, ?, ?, ?)
	`, acc.Username, acc.PasswordHash, acc.UserID, acc.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create account %s: %w", acc.Username, err)
	}
	return nil
}

func (r *SQLiteRepository) UpdatePassword(ctx context.Context, username, passwordHash string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET password_hash = ? WHERE username = ?`, passwordHash, username)
	if err != nil {
		return fmt.Errorf("failed to update password for %s: %w", username, err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, username string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM accounts WHERE username = ?`, username)
	if err != nil {
		return false, fmt.Errorf("failed to delete account %s: %w", username, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read delete result for %s: %w", username, err)
	}
	return n > 0, nil
}
