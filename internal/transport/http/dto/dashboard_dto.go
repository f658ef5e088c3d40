package dto

import "time"

type EnrollmentResponse struct {
	ID           string     `json:"id"`
	CourseSlug   string     `json:"courseSlug"`
	CourseTitle  string     `json:"courseTitle"`
	DeliveryMode string     `json:"deliveryMode"`
	Status       string     `json:"status"`
	StartDate    *time.Time `json:"startDate,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

type EnrollmentListResponse struct {
	OK          bool                 `json:"ok"`
	Enrollments []EnrollmentResponse `json:"enrollments"`
}

type PaymentResponse struct {
	ID         string    `json:"id"`
	OrderID    string    `json:"orderId"`
	PaymentID  string    `json:"paymentId"`
	CourseSlug string    `json:"courseSlug,omitempty"`
	AmountUsd  float64   `json:"amountUsd"`
	Currency   string    `json:"currency"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
}

type PaymentListResponse struct {
	OK       bool              `json:"ok"`
	Payments []PaymentResponse `json:"payments"`
}

type DashboardStatsResponse struct {
	OK               bool                `json:"ok"`
	ActiveCourses    int                 `json:"activeCourses"`
	CompletedCourses int                 `json:"completedCourses"`
	PaymentsCount    int                 `json:"paymentsCount"`
	ContinueLearning *EnrollmentResponse `json:"continueLearning"`
}
