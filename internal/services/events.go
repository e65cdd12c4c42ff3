package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"menucart/internal/metrics"
	"menucart/internal/models"
)

// Routing keys for order events.
const (
	EventOrderCreated       = "order.created"
	EventOrderUpdated       = "order.updated"
	EventOrderStatusChanged = "order.status_changed"
)

// Publisher sends an event body under a routing key. *rabbitmq.Client satisfies it.
type Publisher interface {
	Publish(routingKey string, body []byte) error
}

// OrderEvent is the payload published for every order change.
type OrderEvent struct {
	Type       string             `json:"type"`
	Order      models.Order       `json:"order"`
	Previous   models.OrderStatus `json:"previousStatus,omitempty"`
	OccurredAt time.Time          `json:"occurredAt"`
}

func publishOrderEvent(p Publisher, logger *slog.Logger, eventType string, order *models.Order, previous models.OrderStatus) {
	if p == nil {
		logger.Debug("no event publisher configured, skipping", "event", eventType, "order_id", order.ID)
		return
	}
	body, err := json.Marshal(OrderEvent{Type: eventType, Order: *order, Previous: previous, OccurredAt: time.Now()})
	if err != nil {
		logger.Error("failed to marshal order event", "event", eventType, "order_id", order.ID, "error", err)
		return
	}
	if err := p.Publish(eventType, body); err != nil {
		metrics.EventPublishFailures.WithLabelValues(eventType).Inc()
		logger.Warn("failed to publish order event", "event", eventType, "order_id", order.ID, "error", err)
	}
}

// Notifier delivers a customer-facing message about an order.
type Notifier interface {
	SendOrderConfirmation(ctx context.Context, order *models.Order) error
}

// LogNotifier writes the confirmation message to the log instead of sending it.
type LogNotifier struct {
	RestaurantName string
	Logger         *slog.Logger
}

// FormatConfirmation renders the confirmation text sent to a customer.
func FormatConfirmation(restaurantName string, order *models.Order) string {
	var items strings.Builder
	for _, line := range order.Items {
		fmt.Fprintf(&items, "%s - %dx - $%.2f\n", line.Name, line.Quantity, line.Price*float64(line.Quantity))
	}
	return fmt.Sprintf(
		"Name: %s\nEmail: %s\n--------------------------------\nOrder ID: %s\n\nItems Ordered:\n%s\nTotal: $%.2f\nPayment Status: %s\n\nRestaurant: %s",
		order.UserDetails.Name,
		order.UserDetails.Email,
		order.ID,
		items.String(),
		order.Total,
		strings.ToUpper(string(order.PaymentStatus)),
		restaurantName,
	)
}

func (n *LogNotifier) SendOrderConfirmation(ctx context.Context, order *models.Order) error {
	logger := n.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if order.UserDetails.Phone == "" {
		logger.Info("no phone on order, skipping confirmation", "order_id", order.ID)
		return nil
	}
	logger.Info("order confirmation",
		"order_id", order.ID,
		"to", order.UserDetails.Phone,
		"message", FormatConfirmation(n.RestaurantName, order))
	return nil
}

// EventHandler returns a consumer callback that sends confirmations for
// created and updated orders and ignores everything else.
func EventHandler(notifier Notifier, logger *slog.Logger) func(routingKey string, body []byte) error {
	if logger == nil {
		logger = slog.Default()
	}
	return func(routingKey string, body []byte) error {
		var event OrderEvent
		if err := json.Unmarshal(body, &event); err != nil {
			return fmt.Errorf("decode %s event: %w", routingKey, err)
		}
		switch event.Type {
		case EventOrderCreated, EventOrderUpdated:
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return notifier.SendOrderConfirmation(ctx, &event.Order)
		default:
			logger.Debug("order event", "type", event.Type, "order_id", event.Order.ID, "status", event.Order.Status)
			return nil
		}
	}
}
