package models

// Evaluation is the outcome of a coupon eligibility check. Exactly one of
// Coupon (accepted) or Reasons (rejected) is populated.
type Evaluation struct {
	Valid   bool            `json:"valido"`
	Coupon  *AcceptedCoupon `json:"cupom,omitempty"`
	Reasons []string        `json:"motivos,omitempty"`
}

type AcceptedCoupon struct {
	ID               string     `json:"id"`
	Code             string     `json:"codigo"`
	Kind             CouponKind `json:"tipo"`
	Value            float64    `json:"valor"`
	Description      string     `json:"descricao"`
	RemainingTotal   *int       `json:"usos_restantes"`
	RemainingForUser *int       `json:"usos_restantes_usuario"`
}
