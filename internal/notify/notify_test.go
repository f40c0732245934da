package notify

import (
	"context"
	"testing"
	"time"

	"github.com/lnascimentosilva/library/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderPlacedRoundTrip(t *testing.T) {
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	o := models.Order{
		ID:        7,
		CreatedAt: created,
		Customer:  models.User{Email: "mary@example.com"},
		Items:     []models.OrderItem{{Quantity: 2, Price: 10}, {Quantity: 1, Price: 5}},
		Total:     25,
	}

	body, err := NewOrderPlaced(o).Encode()
	require.NoError(t, err)
	assert.Contains(t, string(body), `"orderId":7`)

	m, err := DecodeOrderPlaced(body)
	require.NoError(t, err)
	assert.Equal(t, int64(7), m.OrderID)
	assert.Equal(t, "mary@example.com", m.CustomerEmail)
	assert.Equal(t, 2, m.Items)
	assert.Equal(t, 25.0, m.Total)
	assert.True(t, created.Equal(m.CreatedAt))
}

func TestHandleOrderPlacedAcksMalformed(t *testing.T) {
	assert.NoError(t, HandleOrderPlaced(context.Background(), "m-1", []byte("not json")))
	assert.NoError(t, HandleOrderPlaced(context.Background(), "m-2", []byte(`{"orderId":1}`)))
}

func TestLogPublisher(t *testing.T) {
	var p Publisher = LogPublisher{}
	assert.NoError(t, p.PublishOrderPlaced(context.Background(), OrderPlaced{OrderID: 1}))
	assert.NoError(t, p.Close())
}

func TestRabbitPublisherRequiresURL(t *testing.T) {
	_, err := NewRabbitPublisher(RabbitConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "URL is required")
}
