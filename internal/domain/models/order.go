package models

import "time"

type OrderStatus string

const (
	OrderReserved  OrderStatus = "RESERVED"
	OrderCancelled OrderStatus = "CANCELLED"
	OrderDelivered OrderStatus = "DELIVERED"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderReserved, OrderCancelled, OrderDelivered:
		return true
	}
	return false
}

// Final reports whether no further status change is allowed.
func (s OrderStatus) Final() bool {
	return s == OrderCancelled || s == OrderDelivered
}

type OrderItem struct {
	Book     Book    `json:"book"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

type OrderHistoryEntry struct {
	Status    OrderStatus `json:"status"`
	CreatedAt time.Time   `json:"createdAt"`
}

type Order struct {
	ID            int64               `json:"id"`
	CreatedAt     time.Time           `json:"createdAt"`
	Customer      User                `json:"customer"`
	Items         []OrderItem         `json:"items"`
	Total         float64             `json:"total"`
	CurrentStatus OrderStatus         `json:"currentStatus"`
	History       []OrderHistoryEntry `json:"history"`
}

// CalculateTotal sums price times quantity over every item.
func (o *Order) CalculateTotal() float64 {
	var total float64
	for _, it := range o.Items {
		total += it.Price * float64(it.Quantity)
	}
	o.Total = total
	return total
}

// NewOrderItem is the request-side shape of an order line.
type NewOrderItem struct {
	BookID   int64 `json:"bookId"`
	Quantity int   `json:"quantity"`
}
