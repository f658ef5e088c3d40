package dashboard

import (
	"context"
	"fmt"

	pgrepo "github.com/edudubai/platform/backend/internal/repo/postgres"
)

type EnrollmentStore interface {
	ListByUser(ctx context.Context, userID string) ([]pgrepo.EnrollmentRecord, error)
}

type PaymentStore interface {
	ListByUser(ctx context.Context, userID string) ([]pgrepo.PaymentRecord, error)
	CountSuccessfulByUser(ctx context.Context, userID string) (int, error)
}

// Service assembles the learner dashboard from the ledger.
type Service struct {
	enrollments EnrollmentStore
	payments    PaymentStore
}

func NewService(enrollments EnrollmentStore, payments PaymentStore) *Service {
	return &Service{enrollments: enrollments, payments: payments}
}

type Stats struct {
	ActiveCourses    int
	CompletedCourses int
	PaymentsCount    int

	// ContinueLearning is the most recent ACTIVE enrollment, nil when
	// the learner has none.
	ContinueLearning *pgrepo.EnrollmentRecord
}

func (s *Service) Enrollments(ctx context.Context, userID string) ([]pgrepo.EnrollmentRecord, error) {
	records, err := s.enrollments.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	return records, nil
}

func (s *Service) Payments(ctx context.Context, userID string) ([]pgrepo.PaymentRecord, error) {
	records, err := s.payments.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return records, nil
}

func (s *Service) Stats(ctx context.Context, userID string) (Stats, error) {
	enrollments, err := s.enrollments.ListByUser(ctx, userID)
	if err != nil {
		return Stats{}, fmt.Errorf("list enrollments: %w", err)
	}
	paymentsCount, err := s.payments.CountSuccessfulByUser(ctx, userID)
	if err != nil {
		return Stats{}, fmt.Errorf("count payments: %w", err)
	}

	stats := Stats{PaymentsCount: paymentsCount}
	for i := range enrollments {
		rec := enrollments[i]
		switch rec.Status {
		case "ACTIVE":
			stats.ActiveCourses++
			// ListByUser orders newest first, so the first ACTIVE row
			// is the one to resume.
			if stats.ContinueLearning == nil {
				stats.ContinueLearning = &enrollments[i]
			}
		case "COMPLETED":
			stats.CompletedCourses++
		}
	}
	return stats, nil
}
