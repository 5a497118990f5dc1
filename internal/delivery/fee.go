// Package delivery computes delivery fees from the great-circle distance
// between the restaurant and the customer.
package delivery

import (
	"math"

	"github.com/Cheertaboi/restaurant-storefront/internal/models"
	"github.com/Cheertaboi/restaurant-storefront/internal/money"
)

// Haversine earth radius and the delivery fee table, in km and reais.
const (
	EarthRadiusKm = 6371.0

	MaxDistanceKm = 20.0
	BaseFee       = 8.0
	FreeRadiusKm  = 1.0
	PerKmFee      = 1.5
)

// Fee is the quote for one destination. Available is false when the
// destination is outside the delivery radius; Amount is then zero.
type Fee struct {
	Available  bool
	Amount     float64
	DistanceKm float64
}

// DistanceKm returns the haversine distance between a and b in kilometers.
func DistanceKm(a, b models.Coordinate) float64 {
	rad := func(d float64) float64 { return d * math.Pi / 180.0 }
	dlat := rad(b.Lat - a.Lat)
	dlng := rad(b.Lng - a.Lng)
	h := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(rad(a.Lat))*math.Cos(rad(b.Lat))*math.Sin(dlng/2)*math.Sin(dlng/2)
	// rounding can push h just past 1 for near-antipodal points
	h = math.Min(math.Max(h, 0), 1)
	return 2 * EarthRadiusKm * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// FeeForDistance maps a distance to the tiered fee table. Both 1 km and
// 20 km are inclusive: up to 1 km pays only the base fee, and exactly 20 km
// is still delivered. A NaN distance is treated as undeliverable.
func FeeForDistance(km float64) Fee {
	if math.IsNaN(km) || km > MaxDistanceKm {
		return Fee{Available: false, DistanceKm: km}
	}
	if km <= FreeRadiusKm {
		return Fee{Available: true, Amount: BaseFee, DistanceKm: km}
	}
	fee := BaseFee + math.Ceil(km-FreeRadiusKm)*PerKmFee
	return Fee{Available: true, Amount: money.Round2(fee), DistanceKm: km}
}

// ComputeFee quotes delivery from origin to destination. Coordinates are not
// range-checked here.
func ComputeFee(origin, destination models.Coordinate) Fee {
	return FeeForDistance(DistanceKm(origin, destination))
}
