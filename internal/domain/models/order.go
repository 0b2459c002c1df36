package models

import "time"

// Order is a customer's order. PaymentTypeID == nil means the order is
// open and acts as the customer's cart; setting it completes the order.
type Order struct {
	ID            int64     `json:"id"`
	CustomerID    int64     `json:"customer_id"`
	PaymentTypeID *int64    `json:"payment_type,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Completed reports whether a payment type has been attached.
func (o *Order) Completed() bool {
	return o.PaymentTypeID != nil
}
