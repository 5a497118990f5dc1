package service

import (
	"context"

	"github.com/Cheertaboi/restaurant-storefront/internal/models"
	"github.com/Cheertaboi/restaurant-storefront/internal/notify"
)

type MockCouponStore struct {
	Coupons  map[string]*models.Coupon
	Uses     map[string]int
	FindErr  error
	ApplyErr error

	UserUsesCalls int
	Applied       []string
	Created       []models.Coupon
}

func (m *MockCouponStore) FindByCode(ctx context.Context, code string) (*models.Coupon, error) {
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	c, ok := m.Coupons[code]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (m *MockCouponStore) UserUses(ctx context.Context, couponID, userID string) (int, error) {
	m.UserUsesCalls++
	return m.Uses[couponID+"/"+userID], nil
}

func (m *MockCouponStore) Apply(ctx context.Context, couponID, userID string) error {
	if m.ApplyErr != nil {
		return m.ApplyErr
	}
	m.Applied = append(m.Applied, couponID+"/"+userID)
	return nil
}

func (m *MockCouponStore) Create(ctx context.Context, c models.Coupon) (string, error) {
	m.Created = append(m.Created, c)
	return "new-id", nil
}

type MockGeocoder struct {
	Coord models.Coordinate
	Err   error
	Calls []string
}

func (m *MockGeocoder) Geocode(ctx context.Context, address string) (models.Coordinate, error) {
	m.Calls = append(m.Calls, address)
	return m.Coord, m.Err
}

type MockPublisher struct {
	Jobs []notify.EmailJob
	Err  error
}

func (m *MockPublisher) Publish(ctx context.Context, job notify.EmailJob) error {
	if m.Err != nil {
		return m.Err
	}
	m.Jobs = append(m.Jobs, job)
	return nil
}
