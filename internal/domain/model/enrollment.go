package model

import "time"

type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "ACTIVE"
	EnrollmentCompleted EnrollmentStatus = "COMPLETED"
	EnrollmentCancelled EnrollmentStatus = "CANCELLED"
)

// Enrollment is created alongside a successful Payment but has its own
// lifecycle; it can complete or cancel independently of the payment row.
type Enrollment struct {
	ID           string
	UserID       string
	CourseSlug   string
	CourseTitle  string
	DeliveryMode DeliveryMode
	Status       EnrollmentStatus
	StartDate    *time.Time
	CreatedAt    time.Time
}
