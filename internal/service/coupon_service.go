package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/Cheertaboi/restaurant-storefront/internal/coupon"
	"github.com/Cheertaboi/restaurant-storefront/internal/models"
	"github.com/Cheertaboi/restaurant-storefront/internal/repository"
)

var (
	ErrCouponNotFound   = repository.ErrCouponNotFound
	ErrCouponExhausted  = repository.ErrCouponExhausted
	ErrUserLimitReached = repository.ErrUserLimitReached
	ErrDuplicateCode    = repository.ErrDuplicateCode
	ErrInvalidCoupon    = errors.New("invalid coupon")
)

// CouponStore is the coupon persistence the service needs (use interfaces to allow mocking).
type CouponStore interface {
	FindByCode(ctx context.Context, code string) (*models.Coupon, error)
	UserUses(ctx context.Context, couponID, userID string) (int, error)
	Apply(ctx context.Context, couponID, userID string) error
	Create(ctx context.Context, c models.Coupon) (string, error)
}

type CouponService struct {
	store     CouponStore
	evaluator *coupon.Evaluator
}

func NewCouponService(store CouponStore, evaluator *coupon.Evaluator) *CouponService {
	return &CouponService{store: store, evaluator: evaluator}
}

// Validate loads the coupon with fresh counters and evaluates it. It never
// records a use; a rejected coupon is a normal result, not an error.
func (s *CouponService) Validate(ctx context.Context, code string, order models.OrderContext) (models.Evaluation, error) {
	ctx, cancel := context.WithTimeout(ctx, 8*time.Second)
	defer cancel()

	c, err := s.store.FindByCode(ctx, code)
	if err != nil {
		return models.Evaluation{}, errors.Wrap(err, "load coupon")
	}
	if c == nil {
		return models.Evaluation{}, ErrCouponNotFound
	}

	if order.UserID != "" && c.PerUserLimit != nil {
		used, err := s.store.UserUses(ctx, c.ID, order.UserID)
		if err != nil {
			return models.Evaluation{}, errors.Wrap(err, "load user usage")
		}
		c.UsesByUser = map[string]int{order.UserID: used}
	}

	return s.evaluator.Evaluate(*c, order), nil
}

// Apply records one use after an order is placed. Limits are enforced again
// atomically by the store. Ids that are not UUIDs cannot name a coupon.
func (s *CouponService) Apply(ctx context.Context, couponID, userID string) error {
	if _, err := uuid.Parse(couponID); err != nil {
		return ErrCouponNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, 8*time.Second)
	defer cancel()

	return s.store.Apply(ctx, couponID, strings.TrimSpace(userID))
}

// Create validates an admin-supplied coupon and stores it.
func (s *CouponService) Create(ctx context.Context, c models.Coupon) (string, error) {
	if strings.TrimSpace(c.Code) == "" {
		return "", errors.Wrap(ErrInvalidCoupon, "code required")
	}
	switch c.Kind {
	case models.KindFreeShipping, models.KindFreeItem:
	case models.KindFixedDiscount:
		if c.Value <= 0 {
			return "", errors.Wrap(ErrInvalidCoupon, "fixed discount needs a positive value")
		}
	default:
		return "", errors.Wrapf(ErrInvalidCoupon, "unknown kind %q", c.Kind)
	}
	for _, limit := range []*int{c.TotalLimit, c.PerUserLimit, c.MinItems} {
		if limit != nil && *limit < 0 {
			return "", errors.Wrap(ErrInvalidCoupon, "limits must not be negative")
		}
	}
	if c.MinOrderValue != nil && *c.MinOrderValue < 0 {
		return "", errors.Wrap(ErrInvalidCoupon, "minimum order value must not be negative")
	}
	return s.store.Create(ctx, c)
}
