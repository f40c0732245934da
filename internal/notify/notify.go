// Package notify publishes and consumes order-placed notifications.
package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/lnascimentosilva/library/internal/domain/models"
	"github.com/lnascimentosilva/library/internal/utils"

	"go.uber.org/zap"
)

const RoutingKeyOrderPlaced = "order.placed"

// OrderPlaced is the message body sent after an order commits.
type OrderPlaced struct {
	OrderID       int64     `json:"orderId"`
	CustomerEmail string    `json:"customerEmail"`
	Total         float64   `json:"total"`
	Items         int       `json:"items"`
	CreatedAt     time.Time `json:"createdAt"`
}

func NewOrderPlaced(o models.Order) OrderPlaced {
	return OrderPlaced{
		OrderID:       o.ID,
		CustomerEmail: o.Customer.Email,
		Total:         o.Total,
		Items:         len(o.Items),
		CreatedAt:     o.CreatedAt,
	}
}

func (m OrderPlaced) Encode() ([]byte, error) { return json.Marshal(m) }

func DecodeOrderPlaced(body []byte) (OrderPlaced, error) {
	var m OrderPlaced
	err := json.Unmarshal(body, &m)
	return m, err
}

type Publisher interface {
	PublishOrderPlaced(ctx context.Context, m OrderPlaced) error
	Close() error
}

// LogPublisher only logs. Used when no broker URL is configured.
type LogPublisher struct{}

func (LogPublisher) PublishOrderPlaced(_ context.Context, m OrderPlaced) error {
	utils.Log().Info("order placed",
		zap.Int64("order_id", m.OrderID),
		zap.String("customer", m.CustomerEmail),
		zap.Float64("total", m.Total),
	)
	return nil
}

func (LogPublisher) Close() error { return nil }

// HandleOrderPlaced logs one received notification. Returning an error
// requeues the delivery.
func HandleOrderPlaced(_ context.Context, messageID string, body []byte) error {
	m, err := DecodeOrderPlaced(body)
	if err != nil {
		utils.Log().Warn("drop malformed order notification", zap.String("message_id", messageID), zap.Error(err))
		return nil
	}
	utils.Log().Info("order notification received",
		zap.String("message_id", messageID),
		zap.Int64("order_id", m.OrderID),
		zap.String("customer", m.CustomerEmail),
		zap.Int("items", m.Items),
		zap.Float64("total", m.Total),
	)
	return nil
}
