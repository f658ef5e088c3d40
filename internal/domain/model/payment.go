package model

import "time"

type PaymentStatus string

const (
	PaymentSuccess PaymentStatus = "SUCCESS"
	PaymentFailed  PaymentStatus = "FAILED"
	PaymentPending PaymentStatus = "PENDING"
)

// Payment is the durable record of a verified charge. Immutable after
// creation; (Provider, OrderID, PaymentID) is the natural dedup key.
type Payment struct {
	ID         string
	UserID     string
	Provider   string
	OrderID    string
	PaymentID  string
	CourseSlug string
	AmountUsd  float64
	Currency   string
	Status     PaymentStatus
	CreatedAt  time.Time
}
