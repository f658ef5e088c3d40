package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrEnrollmentNotFound = errors.New("enrollment not found")

type EnrollmentRepo struct {
	pool *pgxpool.Pool
}

type EnrollmentRecord struct {
	ID           string
	UserID       string
	CourseSlug   string
	CourseTitle  string
	DeliveryMode string
	Status       string
	StartDate    *time.Time
	CreatedAt    time.Time
}

func NewEnrollmentRepo(pool *pgxpool.Pool) *EnrollmentRepo {
	return &EnrollmentRepo{pool: pool}
}

// Record creates an ACTIVE enrollment. A user re-verifying the same
// course keeps their existing ACTIVE row; created reports whether a new
// row was written.
func (r *EnrollmentRepo) Record(ctx context.Context, userID, courseSlug, courseTitle, deliveryMode string) (EnrollmentRecord, bool, error) {
	if r.pool == nil {
		return EnrollmentRecord{}, false, fmt.Errorf("postgres pool is nil")
	}

	userID = strings.TrimSpace(userID)
	courseSlug = strings.ToLower(strings.TrimSpace(courseSlug))
	if userID == "" || courseSlug == "" {
		return EnrollmentRecord{}, false, fmt.Errorf("invalid enrollment payload")
	}
	if deliveryMode == "" {
		deliveryMode = "LIVE_VIRTUAL"
	}

	var rec EnrollmentRecord
	var created bool
	err := WithTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		existing, err := findActiveEnrollment(ctx, tx, userID, courseSlug)
		if err == nil {
			rec = existing
			return nil
		}
		if !errors.Is(err, ErrEnrollmentNotFound) {
			return err
		}

		rec, err = scanEnrollmentRow(tx.QueryRow(ctx, `
INSERT INTO enrollments (
	id,
	user_id,
	course_slug,
	course_title,
	delivery_mode,
	status,
	start_date,
	created_at
) VALUES ($1, $2, $3, $4, $5, 'ACTIVE', NOW(), NOW())
RETURNING
	id,
	user_id,
	course_slug,
	course_title,
	delivery_mode,
	status,
	start_date,
	created_at
`, uuid.NewString(), userID, courseSlug, courseTitle, deliveryMode))
		if err != nil {
			return fmt.Errorf("insert enrollment: %w", err)
		}
		created = true
		return nil
	})
	if err != nil {
		return EnrollmentRecord{}, false, err
	}
	return rec, created, nil
}

// The FOR UPDATE lock keeps two concurrent verifies of the same course
// from both passing the dedup check.
func findActiveEnrollment(ctx context.Context, tx pgx.Tx, userID, courseSlug string) (EnrollmentRecord, error) {
	rec, err := scanEnrollmentRow(tx.QueryRow(ctx, `
SELECT
	id,
	user_id,
	course_slug,
	course_title,
	delivery_mode,
	status,
	start_date,
	created_at
FROM enrollments
WHERE user_id = $1
  AND course_slug = $2
  AND status = 'ACTIVE'
ORDER BY created_at DESC
LIMIT 1
FOR UPDATE
`, userID, courseSlug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return EnrollmentRecord{}, ErrEnrollmentNotFound
		}
		return EnrollmentRecord{}, fmt.Errorf("find active enrollment: %w", err)
	}
	return rec, nil
}

func (r *EnrollmentRepo) ListByUser(ctx context.Context, userID string) ([]EnrollmentRecord, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("user id is required")
	}

	rows, err := r.pool.Query(ctx, `
SELECT
	id,
	user_id,
	course_slug,
	course_title,
	delivery_mode,
	status,
	start_date,
	created_at
FROM enrollments
WHERE user_id = $1
ORDER BY created_at DESC
`, userID)
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	defer rows.Close()

	var out []EnrollmentRecord
	for rows.Next() {
		rec, err := scanEnrollmentRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan enrollment row: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate enrollments: %w", err)
	}
	return out, nil
}

// UpdateStatus moves an enrollment through its lifecycle
// (ACTIVE -> COMPLETED or CANCELLED) independently of any payment.
func (r *EnrollmentRepo) UpdateStatus(ctx context.Context, enrollmentID, status string) (EnrollmentRecord, error) {
	if r.pool == nil {
		return EnrollmentRecord{}, fmt.Errorf("postgres pool is nil")
	}

	status = strings.ToUpper(strings.TrimSpace(status))
	switch status {
	case "ACTIVE", "COMPLETED", "CANCELLED":
	default:
		return EnrollmentRecord{}, fmt.Errorf("invalid enrollment status %q", status)
	}

	rec, err := scanEnrollmentRow(r.pool.QueryRow(ctx, `
UPDATE enrollments
SET status = $2
WHERE id = $1
RETURNING
	id,
	user_id,
	course_slug,
	course_title,
	delivery_mode,
	status,
	start_date,
	created_at
`, enrollmentID, status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return EnrollmentRecord{}, ErrEnrollmentNotFound
		}
		return EnrollmentRecord{}, fmt.Errorf("update enrollment status: %w", err)
	}
	return rec, nil
}

func scanEnrollmentRow(row pgx.Row) (EnrollmentRecord, error) {
	var rec EnrollmentRecord
	if err := row.Scan(
		&rec.ID,
		&rec.UserID,
		&rec.CourseSlug,
		&rec.CourseTitle,
		&rec.DeliveryMode,
		&rec.Status,
		&rec.StartDate,
		&rec.CreatedAt,
	); err != nil {
		return EnrollmentRecord{}, err
	}
	return rec, nil
}
