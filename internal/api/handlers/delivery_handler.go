package handlers

import (
	"context"
	"encoding/json"
	"log"
	"math"
	"net/http"

	"github.com/go-faster/errors"

	"github.com/Cheertaboi/restaurant-storefront/internal/delivery"
	"github.com/Cheertaboi/restaurant-storefront/internal/models"
	"github.com/Cheertaboi/restaurant-storefront/internal/money"
	"github.com/Cheertaboi/restaurant-storefront/internal/service"
)

type FeeRequestBody struct {
	Lat     *float64 `json:"lat,omitempty"`
	Lng     *float64 `json:"lng,omitempty"`
	Address string   `json:"endereco,omitempty"`
}

type FeeResponse struct {
	Available    bool              `json:"disponivel"`
	Fee          float64           `json:"taxa"`
	FeeFormatted string            `json:"taxa_formatada,omitempty"`
	DistanceKm   float64           `json:"distancia_km"`
	Destination  models.Coordinate `json:"destino"`
	Message      string            `json:"mensagem,omitempty"`
}

type DeliveryService interface {
	QuoteCoordinates(dest models.Coordinate) (delivery.Fee, error)
	QuoteAddress(ctx context.Context, address string) (delivery.Fee, models.Coordinate, error)
}

type DeliveryHandler struct {
	service DeliveryService
}

func NewDeliveryHandler(svc DeliveryService) *DeliveryHandler {
	return &DeliveryHandler{service: svc}
}

// QuoteFee handles POST /entrega/taxa. Coordinates win over the address
// when both are sent.
func (h *DeliveryHandler) QuoteFee(w http.ResponseWriter, r *http.Request) {
	var req FeeRequestBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}

	var (
		fee  delivery.Fee
		dest models.Coordinate
		err  error
	)
	switch {
	case req.Lat != nil && req.Lng != nil:
		dest = models.Coordinate{Lat: *req.Lat, Lng: *req.Lng}
		fee, err = h.service.QuoteCoordinates(dest)
	case req.Address != "":
		fee, dest, err = h.service.QuoteAddress(r.Context(), req.Address)
	default:
		writeError(w, http.StatusBadRequest, "informe lat/lng ou endereco")
		return
	}

	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCoordinate):
			writeError(w, http.StatusBadRequest, "coordenada_invalida")
		case errors.Is(err, service.ErrAddressNotFound):
			writeError(w, http.StatusUnprocessableEntity, "endereco_nao_encontrado")
		default:
			log.Printf("quote delivery fee: %v", err)
			writeError(w, http.StatusBadGateway, "geocoding_failed")
		}
		return
	}

	resp := FeeResponse{
		Available:   fee.Available,
		Destination: dest,
	}
	if !math.IsNaN(fee.DistanceKm) {
		resp.DistanceKm = money.Round2(fee.DistanceKm)
	}
	if fee.Available {
		resp.Fee = fee.Amount
		resp.FeeFormatted = money.FormatBRL(fee.Amount)
	} else {
		resp.Message = "Endereço fora da área de entrega"
	}
	writeJSON(w, http.StatusOK, resp)
}
