package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"

	"github.com/Cheertaboi/restaurant-storefront/internal/models"
	"github.com/Cheertaboi/restaurant-storefront/internal/notify"
	"github.com/Cheertaboi/restaurant-storefront/internal/service"
)

type StatusRequestBody struct {
	Status string  `json:"status"`
	Email  string  `json:"email"`
	Name   string  `json:"nome"`
	Total  float64 `json:"total"`
}

type OrderNotifier interface {
	NotifyStatus(ctx context.Context, order models.OrderSummary, status string) (notify.EmailJob, error)
}

type OrderHandler struct {
	notifier OrderNotifier
}

func NewOrderHandler(n OrderNotifier) *OrderHandler {
	return &OrderHandler{notifier: n}
}

// UpdateStatus handles POST /pedidos/{id}/status and queues the customer email.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req StatusRequestBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}

	order := models.OrderSummary{
		ID:            chi.URLParam(r, "id"),
		CustomerName:  req.Name,
		CustomerEmail: req.Email,
		Total:         req.Total,
	}

	job, err := h.notifier.NotifyStatus(r.Context(), order, req.Status)
	switch {
	case err == nil:
		writeJSON(w, http.StatusAccepted, map[string]string{"job_id": job.ID, "status": job.Status})
	case errors.Is(err, notify.ErrUnknownStatus):
		writeError(w, http.StatusBadRequest, "status_invalido")
	case errors.Is(err, service.ErrMissingRecipient):
		writeError(w, http.StatusBadRequest, "email_obrigatorio")
	default:
		log.Printf("notify order %s: %v", order.ID, err)
		writeError(w, http.StatusServiceUnavailable, "notification_unavailable")
	}
}
