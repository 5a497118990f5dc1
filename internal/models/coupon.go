package models

import "time"

type CouponKind string

const (
	KindFreeShipping  CouponKind = "frete_gratis"
	KindFreeItem      CouponKind = "item_gratis"
	KindFixedDiscount CouponKind = "desconto_fixo"
)

// Coupon is the read model used by the evaluator. Optional gates are nil when
// the stored record leaves them unset; defaults are applied by the repository.
type Coupon struct {
	ID            string
	Code          string
	Kind          CouponKind
	Value         float64
	Active        bool
	ExpiresOn     *time.Time // calendar date, valid through the end of that day
	TotalLimit    *int
	TotalUses     int
	PerUserLimit  *int
	UsesByUser    map[string]int
	MinOrderValue *float64
	MinItems      *int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// UserUses returns how many times userID has used the coupon.
func (c Coupon) UserUses(userID string) int {
	if c.UsesByUser == nil {
		return 0
	}
	return c.UsesByUser[userID]
}

// OrderContext is supplied per evaluation. An empty UserID means anonymous checkout.
type OrderContext struct {
	UserID     string
	OrderTotal float64
	ItemCount  int
}
