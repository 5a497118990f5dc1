package service

import (
	"context"
	"strings"

	"github.com/go-faster/errors"

	"github.com/Cheertaboi/restaurant-storefront/internal/delivery"
	"github.com/Cheertaboi/restaurant-storefront/internal/geocode"
	"github.com/Cheertaboi/restaurant-storefront/internal/models"
)

var (
	ErrAddressNotFound   = geocode.ErrNotFound
	ErrInvalidCoordinate = errors.New("coordinate out of range")
)

// DeliveryService quotes delivery fees from the restaurant's location.
type DeliveryService struct {
	origin   models.Coordinate
	geocoder geocode.Geocoder
}

func NewDeliveryService(origin models.Coordinate, geocoder geocode.Geocoder) *DeliveryService {
	return &DeliveryService{origin: origin, geocoder: geocoder}
}

func (s *DeliveryService) QuoteCoordinates(dest models.Coordinate) (delivery.Fee, error) {
	if !dest.Valid() {
		return delivery.Fee{}, ErrInvalidCoordinate
	}
	return delivery.ComputeFee(s.origin, dest), nil
}

// QuoteAddress geocodes address and quotes the fee to it.
func (s *DeliveryService) QuoteAddress(ctx context.Context, address string) (delivery.Fee, models.Coordinate, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return delivery.Fee{}, models.Coordinate{}, ErrAddressNotFound
	}
	dest, err := s.geocoder.Geocode(ctx, address)
	if err != nil {
		return delivery.Fee{}, models.Coordinate{}, err
	}
	fee, err := s.QuoteCoordinates(dest)
	return fee, dest, err
}
