package model

import (
    "fmt"
    "strings"
    "time"
)

// OrderStatus is the closed set of order states.
type OrderStatus string

const (
    OrderPending   OrderStatus = "pending"
    OrderPaid      OrderStatus = "paid"
    OrderShipped   OrderStatus = "shipped"
    OrderDelivered OrderStatus = "delivered"
    OrderCancelled OrderStatus = "cancelled"
)

// ParseOrderStatus validates a status string against the closed set.
func ParseOrderStatus(s string) (OrderStatus, error) {
    switch OrderStatus(strings.ToLower(strings.TrimSpace(s))) {
    case OrderPending:
        return OrderPending, nil
    case OrderPaid:
        return OrderPaid, nil
    case OrderShipped:
        return OrderShipped, nil
    case OrderDelivered:
        return OrderDelivered, nil
    case OrderCancelled:
        return OrderCancelled, nil
    }
    return "", fmt.Errorf("unknown order status %q", s)
}

// Order mirrors the `orders` table.  TotalAmount is the sum of its items'
// total prices, snapshotted at checkout.
type Order struct {
    ID          uint64      `json:"id"`
    UserID      uint64      `json:"user_id"`
    Status      OrderStatus `json:"status"`
    TotalAmount float64     `json:"total_amount"`
    CreatedAt   time.Time   `json:"created_at"`
    UpdatedAt   time.Time   `json:"updated_at"`
    Items       []OrderItem `json:"items"`
}

// OrderItem mirrors the `order_items` table.  UnitPrice is the product price
// at the moment the order was placed, so later price changes never alter
// order history.
type OrderItem struct {
    ID         uint64  `json:"id"`
    ProductID  uint64  `json:"product_id"`
    Quantity   uint32  `json:"quantity"`
    UnitPrice  float64 `json:"unit_price"`
    TotalPrice float64 `json:"total_price"`
}

// OrderPage is one page of a user's order history.
type OrderPage struct {
    Items    []Order `json:"items"`
    Total    int64   `json:"total"`
    Page     int     `json:"page"`
    PageSize int     `json:"page_size"`
}
