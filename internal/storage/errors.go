package storage

import "github.com/lib/pq"

// Postgres error codes we react to.
const (
	pgUniqueViolation  = "23505"
	pgLockNotAvailable = "55P03"
)

func isUniqueViolation(err error) bool {
	pqErr, ok := err.(*pq.Error)
	return ok && pqErr.Code == pgUniqueViolation
}

func isLockNotAvailable(err error) bool {
	pqErr, ok := err.(*pq.Error)
	return ok && pqErr.Code == pgLockNotAvailable
}
