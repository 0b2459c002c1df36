package models

import "time"

// Product is an item listed for sale by a customer (the seller).
// Quantity is the stock count; it only decreases when an order completes.
type Product struct {
	ID            int64     `json:"id"`
	CustomerID    int64     `json:"customer_id"`
	ProductTypeID int64     `json:"product_type"`
	Name          string    `json:"name"`
	Price         float64   `json:"price"`
	Description   string    `json:"description"`
	Quantity      int       `json:"quantity"`
	Location      string    `json:"location"`
	CreatedAt     time.Time `json:"created_at"`
}
