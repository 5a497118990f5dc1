// Package coupon decides whether a coupon can be used for an order.
//
// Evaluation is read-only: it never touches usage counters. Recording a use
// is the repository's Apply, which re-checks the limits atomically.
package coupon

import (
	"fmt"
	"time"

	"github.com/Cheertaboi/restaurant-storefront/internal/models"
	"github.com/Cheertaboi/restaurant-storefront/internal/money"
)

const (
	ReasonInactive       = "Cupom inativo"
	ReasonExpired        = "Cupom expirado"
	ReasonExhausted      = "Cupom esgotado (limite total atingido)"
	ReasonUserLimit      = "Você já atingiu o limite de uso deste cupom"
	reasonMinOrderFormat = "Valor mínimo do pedido não atingido (mínimo de %s)"
	reasonMinItemsFormat = "Quantidade mínima de itens não atingida (mínimo de %d itens)"
)

// Evaluator runs the eligibility checks. Expiration dates are calendar days
// in loc; now is injected so tests can pin the clock.
type Evaluator struct {
	now func() time.Time
	loc *time.Location
}

func NewEvaluator(now func() time.Time, loc *time.Location) *Evaluator {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Evaluator{now: now, loc: loc}
}

// Evaluate runs every check and collects all failures in check order,
// so the customer sees every problem at once.
func (e *Evaluator) Evaluate(c models.Coupon, order models.OrderContext) models.Evaluation {
	var reasons []string

	if !c.Active {
		reasons = append(reasons, ReasonInactive)
	}

	if c.ExpiresOn != nil && e.now().After(e.endOfDay(*c.ExpiresOn)) {
		reasons = append(reasons, ReasonExpired)
	}

	if c.TotalLimit != nil && c.TotalUses >= *c.TotalLimit {
		reasons = append(reasons, ReasonExhausted)
	}

	if c.MinOrderValue != nil && order.OrderTotal < *c.MinOrderValue {
		reasons = append(reasons, fmt.Sprintf(reasonMinOrderFormat, money.FormatBRL(*c.MinOrderValue)))
	}

	if c.Kind == models.KindFreeItem && c.MinItems != nil && order.ItemCount < *c.MinItems {
		reasons = append(reasons, fmt.Sprintf(reasonMinItemsFormat, *c.MinItems))
	}

	if order.UserID != "" && c.PerUserLimit != nil && c.UserUses(order.UserID) >= *c.PerUserLimit {
		reasons = append(reasons, ReasonUserLimit)
	}

	if len(reasons) > 0 {
		return models.Evaluation{Valid: false, Reasons: reasons}
	}

	accepted := &models.AcceptedCoupon{
		ID:          c.ID,
		Code:        c.Code,
		Kind:        c.Kind,
		Value:       c.Value,
		Description: Describe(c),
	}
	if c.TotalLimit != nil {
		accepted.RemainingTotal = intPtr(*c.TotalLimit - c.TotalUses)
	}
	if order.UserID != "" && c.PerUserLimit != nil {
		accepted.RemainingForUser = intPtr(*c.PerUserLimit - c.UserUses(order.UserID))
	}
	return models.Evaluation{Valid: true, Coupon: accepted}
}

// endOfDay is the last millisecond of the expiration date in e.loc.
func (e *Evaluator) endOfDay(d time.Time) time.Time {
	y, m, day := d.Date()
	return time.Date(y, m, day, 23, 59, 59, int(999*time.Millisecond), e.loc)
}

// Describe renders the customer-facing summary of what the coupon grants.
func Describe(c models.Coupon) string {
	switch c.Kind {
	case models.KindFreeShipping:
		return "Frete grátis"
	case models.KindFreeItem:
		if c.MinItems != nil && *c.MinItems > 1 {
			return fmt.Sprintf("Item grátis na compra de %d itens ou mais", *c.MinItems)
		}
		return "Item grátis"
	case models.KindFixedDiscount:
		return fmt.Sprintf("Desconto de %s", money.FormatBRL(c.Value))
	default:
		return "Desconto especial"
	}
}

func intPtr(v int) *int { return &v }
