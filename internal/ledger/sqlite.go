package ledger

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alphamobile/sessioncore/internal/dbx"
)

// SQLiteRepository persists scoped entry lists in the activities table.
// Entries are stored with an explicit position so the newest-first order
// survives the round trip.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) ListScope(ctx context.Context, scope string) ([]Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT title_ref, description_ref, ts, icon_ref, color, owner_user_id
		FROM activities WHERE scope = ? ORDER BY position
	`, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities[%s]: %w", scope, err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.TitleRef, &e.DescriptionRef, &e.Timestamp, &e.IconRef, &e.Color, &e.OwnerUserID); err != nil {
			return nil, fmt.Errorf("failed to scan activity row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate activity rows: %w", err)
	}
	return entries, nil
}

func (r *SQLiteRepository) ReplaceScope(ctx context.Context, scope string, entries []Entry) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM activities WHERE scope = ?`, scope); err != nil {
			return fmt.Errorf("failed to clear activities[%s]: %w", scope, err)
		}
		for i, e := range entries {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO activities (scope, position, title_ref, description_ref, ts, icon_ref, color, owner_user_id)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			`, scope, i, e.TitleRef, e.DescriptionRef, e.Timestamp, e.IconRef, e.Color, e.OwnerUserID)
			if err != nil {
				return fmt.Errorf("failed to insert activity: %w", err)
			}
		}
		return nil
	})
}

func (r *SQLiteRepository) ClearScope(ctx context.Context, scope string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM activities WHERE scope = ?`, scope)
	if err != nil {
		return fmt.Errorf("failed to clear activities[%s]: %w", scope, err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteByOwner(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM activities WHERE owner_user_id = ?`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete activities owned by %s: %w", userID, err)
	}
	return nil
}
