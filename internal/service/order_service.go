package service

import (
	"context"
	"time"

	"github.com/go-faster/errors"

	"github.com/Cheertaboi/restaurant-storefront/internal/models"
	"github.com/Cheertaboi/restaurant-storefront/internal/notify"
)

var ErrMissingRecipient = errors.New("customer email required")

// OrderService sends the customer an email when an order changes status.
type OrderService struct {
	publisher notify.Publisher
	now       func() time.Time
}

func NewOrderService(publisher notify.Publisher, now func() time.Time) *OrderService {
	if now == nil {
		now = time.Now
	}
	return &OrderService{publisher: publisher, now: now}
}

func (s *OrderService) NotifyStatus(ctx context.Context, order models.OrderSummary, status string) (notify.EmailJob, error) {
	st, err := notify.ParseStatus(status)
	if err != nil {
		return notify.EmailJob{}, err
	}
	if order.CustomerEmail == "" {
		return notify.EmailJob{}, ErrMissingRecipient
	}

	job, err := notify.BuildStatusEmail(order, st, s.now())
	if err != nil {
		return notify.EmailJob{}, err
	}
	if err := s.publisher.Publish(ctx, job); err != nil {
		return notify.EmailJob{}, errors.Wrap(err, "enqueue status email")
	}
	return job, nil
}
