package models

import "time"

// PaymentType is a stored payment method owned by a customer.
// It is a record only; no gateway processing happens here.
type PaymentType struct {
	ID             int64     `json:"id"`
	CustomerID     int64     `json:"customer_id"`
	MerchantName   string    `json:"merchant_name"`
	AccountNumber  string    `json:"account_number"`
	ExpirationDate time.Time `json:"expiration_date"`
	CreatedAt      time.Time `json:"created_at"`
}
