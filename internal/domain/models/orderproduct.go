package models

// OrderProduct is a line item joining one product to one order.
// Each row represents one unit added to the cart; adding the same
// product twice yields two rows.
type OrderProduct struct {
	ID        int64 `json:"id"`
	OrderID   int64 `json:"order_id"`
	ProductID int64 `json:"product_id"`
}
