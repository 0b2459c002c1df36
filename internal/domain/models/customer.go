package models

// Customer is the marketplace profile tied one-to-one to a User.
// A customer both buys (orders, payment types) and sells (products).
type Customer struct {
	ID          int64  `json:"id"`
	UserID      int64  `json:"user_id"`
	Address     string `json:"address"`
	PhoneNumber string `json:"phone_number"`
}
