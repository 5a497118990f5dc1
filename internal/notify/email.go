// Package notify turns order status changes into email jobs for the mail worker.
package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/Cheertaboi/restaurant-storefront/internal/models"
	"github.com/Cheertaboi/restaurant-storefront/internal/money"
)

var ErrUnknownStatus = errors.New("unknown order status")

// EmailJob is the JSON payload consumed from the email queue.
type EmailJob struct {
	ID        string    `json:"id"`
	To        string    `json:"to"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	OrderID   string    `json:"order_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Publisher hands email jobs to the delivery pipeline.
type Publisher interface {
	Publish(ctx context.Context, job EmailJob) error
}

var statusHeadlines = map[models.OrderStatus]string{
	models.StatusReceived:       "Recebemos o seu pedido",
	models.StatusPreparing:      "Seu pedido está sendo preparado",
	models.StatusOutForDelivery: "Seu pedido saiu para entrega",
	models.StatusDelivered:      "Seu pedido foi entregue",
	models.StatusCanceled:       "Seu pedido foi cancelado",
}

// ParseStatus validates a status received over the wire.
func ParseStatus(s string) (models.OrderStatus, error) {
	st := models.OrderStatus(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := statusHeadlines[st]; !ok {
		return "", errors.Wrapf(ErrUnknownStatus, "%q", s)
	}
	return st, nil
}

// BuildStatusEmail renders the customer email for an order entering status.
func BuildStatusEmail(order models.OrderSummary, status models.OrderStatus, now time.Time) (EmailJob, error) {
	headline, ok := statusHeadlines[status]
	if !ok {
		return EmailJob{}, errors.Wrapf(ErrUnknownStatus, "%q", status)
	}

	name := order.CustomerName
	if name == "" {
		name = "cliente"
	}

	var body strings.Builder
	fmt.Fprintf(&body, "Olá, %s!\n\n", name)
	fmt.Fprintf(&body, "%s.\n\n", headline)
	fmt.Fprintf(&body, "Pedido: #%s\n", order.ID)
	fmt.Fprintf(&body, "Total: %s\n", money.FormatBRL(order.Total))
	if status == models.StatusCanceled {
		body.WriteString("\nSe o pagamento já foi aprovado, o estorno será feito automaticamente.\n")
	}
	body.WriteString("\nObrigado pela preferência!\n")

	return EmailJob{
		ID:        uuid.NewString(),
		To:        order.CustomerEmail,
		Subject:   fmt.Sprintf("Pedido #%s: %s", order.ID, headline),
		Body:      body.String(),
		OrderID:   order.ID,
		Status:    string(status),
		CreatedAt: now.UTC(),
	}, nil
}
