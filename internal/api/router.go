package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Cheertaboi/restaurant-storefront/internal/api/handlers"
)

type Services struct {
	Coupons  handlers.CouponService
	Delivery handlers.DeliveryService
	Orders   handlers.OrderNotifier
}

// NewRouter builds the HTTP router for the storefront
func NewRouter(svc Services) http.Handler {
	r := chi.NewRouter()

	couponHandler := handlers.NewCouponHandler(svc.Coupons)
	deliveryHandler := handlers.NewDeliveryHandler(svc.Delivery)
	orderHandler := handlers.NewOrderHandler(svc.Orders)

	r.Route("/cupons", func(r chi.Router) {
		r.Post("/validar", couponHandler.ValidateCoupon)
		r.Post("/{id}/aplicar", couponHandler.ApplyCoupon)
	})

	r.Post("/entrega/taxa", deliveryHandler.QuoteFee)

	r.Post("/pedidos/{id}/status", orderHandler.UpdateStatus)

	// Admin endpoints
	r.Route("/admin", func(r chi.Router) {
		r.Post("/cupons", couponHandler.CreateCoupon)
	})

	// health
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	return r
}
