package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/Cheertaboi/restaurant-storefront/internal/models"
)

var (
	ErrCouponNotFound   = errors.New("coupon not found")
	ErrCouponExhausted  = errors.New("coupon total limit reached")
	ErrUserLimitReached = errors.New("coupon per-user limit reached")
	ErrDuplicateCode    = errors.New("coupon code already exists")
)

type CouponRepo struct {
	db    *sql.DB
	usage *UsageRepo
}

func NewCouponRepo(db *sql.DB, usage *UsageRepo) *CouponRepo {
	return &CouponRepo{db: db, usage: usage}
}

// couponRow mirrors the nullable columns of cupons; toModel applies defaults.
type couponRow struct {
	id            string
	code          string
	kind          string
	value         sql.NullFloat64
	active        bool
	expiresOn     sql.NullTime
	totalLimit    sql.NullInt64
	totalUses     sql.NullInt64
	perUserLimit  sql.NullInt64
	minOrderValue sql.NullFloat64
	minItems      sql.NullInt64
	createdAt     time.Time
	updatedAt     time.Time
}

func (r couponRow) toModel() *models.Coupon {
	c := &models.Coupon{
		ID:        r.id,
		Code:      r.code,
		Kind:      models.CouponKind(r.kind),
		Active:    r.active,
		CreatedAt: r.createdAt,
		UpdatedAt: r.updatedAt,
	}
	if r.value.Valid {
		c.Value = r.value.Float64
	}
	if r.totalUses.Valid {
		c.TotalUses = int(r.totalUses.Int64)
	}
	if r.expiresOn.Valid {
		t := r.expiresOn.Time
		c.ExpiresOn = &t
	}
	c.TotalLimit = nullIntPtr(r.totalLimit)
	c.PerUserLimit = nullIntPtr(r.perUserLimit)
	c.MinItems = nullIntPtr(r.minItems)
	if r.minOrderValue.Valid {
		v := r.minOrderValue.Float64
		c.MinOrderValue = &v
	}
	return c
}

func nullIntPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

// FindByCode looks a coupon up case-insensitively. It returns nil, nil when
// no coupon has that code.
func (r *CouponRepo) FindByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var row couponRow

	query := `
		SELECT id, codigo, tipo, valor, ativo, data_expiracao,
		       limite_total, usos_totais, limite_por_usuario,
		       valor_minimo, quantidade_minima, criado_em, atualizado_em
		FROM cupons
		WHERE lower(codigo) = lower($1)
	`

	err := r.db.QueryRowContext(ctx, query, strings.TrimSpace(code)).Scan(
		&row.id,
		&row.code,
		&row.kind,
		&row.value,
		&row.active,
		&row.expiresOn,
		&row.totalLimit,
		&row.totalUses,
		&row.perUserLimit,
		&row.minOrderValue,
		&row.minItems,
		&row.createdAt,
		&row.updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "find coupon")
	}

	return row.toModel(), nil
}

// UserUses returns the per-user counter without locking it.
func (r *CouponRepo) UserUses(ctx context.Context, couponID, userID string) (int, error) {
	return r.usage.Count(ctx, couponID, userID)
}

// Create stores a new coupon with its code upper-cased and returns its id.
func (r *CouponRepo) Create(ctx context.Context, c models.Coupon) (string, error) {
	id := uuid.NewString()

	insert := `
		INSERT INTO cupons
		(id, codigo, tipo, valor, ativo, data_expiracao, limite_total, usos_totais,
		 limite_por_usuario, valor_minimo, quantidade_minima, criado_em, atualizado_em)
		VALUES ($1,$2,$3,$4,$5,$6,$7,0,$8,$9,$10,NOW(),NOW())
	`

	_, err := r.db.ExecContext(ctx, insert,
		id,
		strings.ToUpper(strings.TrimSpace(c.Code)),
		string(c.Kind),
		c.Value,
		c.Active,
		c.ExpiresOn,
		c.TotalLimit,
		c.PerUserLimit,
		c.MinOrderValue,
		c.MinItems,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return "", ErrDuplicateCode
		}
		return "", errors.Wrap(err, "create coupon")
	}
	return id, nil
}

// Apply records one use of the coupon. The total counter is bumped with a
// conditional update and the per-user row is locked for the duration of the
// transaction, so concurrent applies cannot push either counter past its limit.
func (r *CouponRepo) Apply(ctx context.Context, couponID, userID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var perUserLimit sql.NullInt64
	err = tx.QueryRowContext(ctx, `
		UPDATE cupons
		SET usos_totais = usos_totais + 1,
		    atualizado_em = NOW()
		WHERE id = $1
		  AND (limite_total IS NULL OR usos_totais < limite_total)
		RETURNING limite_por_usuario
	`, couponID).Scan(&perUserLimit)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return r.classifyMissed(ctx, tx, couponID)
		}
		return errors.Wrap(err, "increment total uses")
	}

	if userID != "" {
		used, err := r.usage.GetAndLockUsage(ctx, tx, couponID, userID)
		if err != nil {
			return errors.Wrap(err, "lock user usage")
		}
		if perUserLimit.Valid && int64(used) >= perUserLimit.Int64 {
			return ErrUserLimitReached
		}
		if err := r.usage.IncrementUsage(ctx, tx, couponID, userID); err != nil {
			return errors.Wrap(err, "increment user usage")
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "tx commit")
	}
	committed = true
	return nil
}

// classifyMissed tells an unknown coupon apart from an exhausted one after
// the conditional update matched no rows.
func (r *CouponRepo) classifyMissed(ctx context.Context, tx *sql.Tx, couponID string) error {
	var exists bool
	err := tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM cupons WHERE id = $1)`, couponID).Scan(&exists)
	if err != nil {
		return errors.Wrap(err, "check coupon")
	}
	if !exists {
		return ErrCouponNotFound
	}
	return ErrCouponExhausted
}
