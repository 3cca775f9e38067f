// Package service publishes domain events to RabbitMQ. Errors are logged
// and swallowed so queue trouble never interrupts the main request flow.
package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/online-market/internal/model"
	q "github.com/iliyamo/online-market/internal/queue"
)

// QueuePublisher pushes events to the broker. The zero value is usable; the
// URL is resolved from the environment when empty.
type QueuePublisher struct {
	URL string
}

func NewQueuePublisher() *QueuePublisher {
	return &QueuePublisher{URL: q.BrokerURL()}
}

// PublishOrderPlaced publishes an OrderPlacedEvent to the "order.placed"
// queue. Messages are marked persistent so they survive broker restarts.
// The order is already committed by the time this runs, so any failure is
// logged and dropped rather than surfaced to the buyer.
func (p *QueuePublisher) PublishOrderPlaced(order model.Order, email string) {
	url := p.URL
	if url == "" {
		url = q.BrokerURL()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	placedAt := order.CreatedAt
	if placedAt.IsZero() {
		placedAt = time.Now()
	}
	ev := q.OrderPlacedEvent{
		OrderID:     order.ID,
		UserID:      order.UserID,
		UserEmail:   email,
		Status:      string(order.Status),
		TotalAmount: order.TotalAmount,
		PlacedAt:    placedAt.UTC().Format(time.RFC3339),
	}
	for _, it := range order.Items {
		ev.Items = append(ev.Items, q.OrderPlacedRow{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return
	}
	defer func() { _ = ch.Close() }()

	// Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(
		"order.placed", // name
		true,           // durable
		false,          // autoDelete
		false,          // exclusive
		false,          // noWait
		nil,            // args
	); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return
	}

	body, err := json.Marshal(ev)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx,
		"",             // default exchange
		"order.placed", // routing key = queue name
		false,          // mandatory
		false,          // immediate
		pub,
	); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
	}
}
