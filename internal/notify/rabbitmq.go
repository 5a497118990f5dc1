package notify

import (
	"context"
	"encoding/json"
	"log"

	"github.com/go-faster/errors"
	amqp "github.com/rabbitmq/amqp091-go"
)

// RabbitPublisher publishes email jobs as persistent messages on a durable queue.
type RabbitPublisher struct {
	conn  *amqp.Connection
	chn   *amqp.Channel
	queue string
}

func NewRabbitPublisher(url, queue string) (*RabbitPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, errors.Wrap(err, "dial rabbitmq")
	}
	chn, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, errors.Wrap(err, "open channel")
	}

	_, err = chn.QueueDeclare(
		queue, // name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		_ = chn.Close()
		_ = conn.Close()
		return nil, errors.Wrapf(err, "declare queue %s", queue)
	}

	return &RabbitPublisher{conn: conn, chn: chn, queue: queue}, nil
}

func (p *RabbitPublisher) Publish(ctx context.Context, job EmailJob) error {
	body, err := json.Marshal(job)
	if err != nil {
		return errors.Wrap(err, "marshal email job")
	}
	err = p.chn.PublishWithContext(
		ctx,
		"",      // default exchange
		p.queue, // routing key
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    job.ID,
			Timestamp:    job.CreatedAt,
			Body:         body,
		},
	)
	if err != nil {
		return errors.Wrap(err, "publish email job")
	}
	return nil
}

func (p *RabbitPublisher) Close() error {
	if err := p.chn.Close(); err != nil {
		return err
	}
	return p.conn.Close()
}

// LogPublisher is used when no broker is configured; it only logs the job.
type LogPublisher struct{}

func (LogPublisher) Publish(ctx context.Context, job EmailJob) error {
	log.Printf("email job %s for order %s (%s) not sent: no broker configured", job.ID, job.OrderID, job.Status)
	return nil
}
