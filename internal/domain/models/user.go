package models

import "time"

// User is the login identity behind a customer account.
type User struct {
	ID        int64
	Username  string
	PassHash  []byte
	IsActive  bool
	CreatedAt time.Time
}
