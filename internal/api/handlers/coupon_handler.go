package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"

	"github.com/Cheertaboi/restaurant-storefront/internal/models"
	"github.com/Cheertaboi/restaurant-storefront/internal/service"
)

// --- Request / Response DTOs ---

type ValidateRequestBody struct {
	Code       string  `json:"codigo"`
	UserID     string  `json:"usuario_id"`
	OrderTotal float64 `json:"valor_pedido"`
	ItemCount  int     `json:"quantidade_itens"`
}

type ApplyRequestBody struct {
	UserID string `json:"usuario_id"`
}

type CreateCouponRequest struct {
	Code          string   `json:"codigo"`
	Kind          string   `json:"tipo"`
	Value         float64  `json:"valor"`
	Active        *bool    `json:"ativo,omitempty"`
	ExpiresOn     string   `json:"data_expiracao,omitempty"` // YYYY-MM-DD
	TotalLimit    *int     `json:"limite_total,omitempty"`
	PerUserLimit  *int     `json:"limite_por_usuario,omitempty"`
	MinOrderValue *float64 `json:"valor_minimo,omitempty"`
	MinItems      *int     `json:"quantidade_minima,omitempty"`
}

// --- Handler struct & constructor ---

type CouponService interface {
	Validate(ctx context.Context, code string, order models.OrderContext) (models.Evaluation, error)
	Apply(ctx context.Context, couponID, userID string) error
	Create(ctx context.Context, c models.Coupon) (string, error)
}

type CouponHandler struct {
	service CouponService
}

func NewCouponHandler(svc CouponService) *CouponHandler {
	return &CouponHandler{service: svc}
}

// --- Handlers ---

// ValidateCoupon handles POST /cupons/validar.
// A rejected coupon is still a 200: the body lists every reason.
func (h *CouponHandler) ValidateCoupon(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequestBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}
	if strings.TrimSpace(req.Code) == "" {
		writeError(w, http.StatusBadRequest, "codigo_obrigatorio")
		return
	}

	order := models.OrderContext{
		UserID:     strings.TrimSpace(req.UserID),
		OrderTotal: req.OrderTotal,
		ItemCount:  req.ItemCount,
	}

	ev, err := h.service.Validate(r.Context(), req.Code, order)
	if err != nil {
		if errors.Is(err, service.ErrCouponNotFound) {
			writeError(w, http.StatusNotFound, "cupom_nao_encontrado")
			return
		}
		log.Printf("validate coupon %q: %v", req.Code, err)
		writeError(w, http.StatusInternalServerError, "internal_error")
		return
	}

	writeJSON(w, http.StatusOK, ev)
}

// ApplyCoupon handles POST /cupons/{id}/aplicar, called once the order is placed.
func (h *CouponHandler) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	couponID := chi.URLParam(r, "id")

	var req ApplyRequestBody
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_body")
			return
		}
	}

	err := h.service.Apply(r.Context(), couponID, req.UserID)
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, service.ErrCouponNotFound):
		writeError(w, http.StatusNotFound, "cupom_nao_encontrado")
	case errors.Is(err, service.ErrCouponExhausted):
		writeError(w, http.StatusConflict, "cupom_esgotado")
	case errors.Is(err, service.ErrUserLimitReached):
		writeError(w, http.StatusConflict, "limite_usuario_atingido")
	default:
		log.Printf("apply coupon %s: %v", couponID, err)
		writeError(w, http.StatusInternalServerError, "internal_error")
	}
}

// CreateCoupon handles POST /admin/cupons.
func (h *CouponHandler) CreateCoupon(w http.ResponseWriter, r *http.Request) {
	var req CreateCouponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}

	c := models.Coupon{
		Code:          req.Code,
		Kind:          models.CouponKind(req.Kind),
		Value:         req.Value,
		Active:        true,
		TotalLimit:    req.TotalLimit,
		PerUserLimit:  req.PerUserLimit,
		MinOrderValue: req.MinOrderValue,
		MinItems:      req.MinItems,
	}
	if req.Active != nil {
		c.Active = *req.Active
	}
	if strings.TrimSpace(req.ExpiresOn) != "" {
		d, err := time.Parse(time.DateOnly, req.ExpiresOn)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid data_expiracao; use YYYY-MM-DD")
			return
		}
		c.ExpiresOn = &d
	}

	id, err := h.service.Create(r.Context(), c)
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, map[string]interface{}{
			"message":  "coupon_created",
			"cupom_id": id,
		})
	case errors.Is(err, service.ErrInvalidCoupon):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_coupon", "detail": err.Error()})
	case errors.Is(err, service.ErrDuplicateCode):
		writeError(w, http.StatusConflict, "codigo_duplicado")
	default:
		log.Printf("create coupon %q: %v", req.Code, err)
		writeError(w, http.StatusInternalServerError, "failed_create_coupon")
	}
}
