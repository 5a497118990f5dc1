package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-faster/errors"
	"github.com/lib/pq"
)

type UsageRepo struct {
	db *sql.DB
}

func NewUsageRepo(db *sql.DB) *UsageRepo {
	return &UsageRepo{db: db}
}

// Count reads the per-user counter; a missing row means zero uses.
func (r *UsageRepo) Count(ctx context.Context, couponID, userID string) (int, error) {
	var usos int

	query := `SELECT usos FROM cupom_usos_usuario WHERE cupom_id = $1 AND usuario_id = $2`
	err := r.db.QueryRowContext(ctx, query, couponID, userID).Scan(&usos)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, errors.Wrap(err, "count user usage")
	}
	return usos, nil
}

// GetAndLockUsage returns the per-user counter and holds its row lock until
// tx ends, creating the row on first use.
func (r *UsageRepo) GetAndLockUsage(ctx context.Context, tx *sql.Tx, couponID, userID string) (int, error) {
	insert := `
		INSERT INTO cupom_usos_usuario (cupom_id, usuario_id, usos)
		VALUES ($1, $2, 0)
		ON CONFLICT (cupom_id, usuario_id) DO NOTHING
	`
	if _, err := tx.ExecContext(ctx, insert, couponID, userID); err != nil {
		return 0, err
	}

	var usos int
	query := `
		SELECT usos
		FROM cupom_usos_usuario
		WHERE cupom_id = $1 AND usuario_id = $2
		FOR UPDATE
	`
	if err := tx.QueryRowContext(ctx, query, couponID, userID).Scan(&usos); err != nil {
		return 0, err
	}
	return usos, nil
}

// IncrementUsage bumps the per-user counter inside tx.
func (r *UsageRepo) IncrementUsage(ctx context.Context, tx *sql.Tx, couponID, userID string) error {
	query := `
		UPDATE cupom_usos_usuario
		SET usos = usos + 1,
		    ultimo_uso = $3
		WHERE cupom_id = $1 AND usuario_id = $2
	`

	_, err := tx.ExecContext(ctx, query, couponID, userID, time.Now())
	return err
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
