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

var ErrPaymentNotFound = errors.New("payment not found")

type PaymentRepo struct {
	pool *pgxpool.Pool
}

type PaymentRecord struct {
	ID         string
	UserID     string
	Provider   string
	OrderID    string
	PaymentID  string
	CourseSlug string
	AmountUsd  float64
	Currency   string
	Status     string
	CreatedAt  time.Time
}

func NewPaymentRepo(pool *pgxpool.Pool) *PaymentRepo {
	return &PaymentRepo{pool: pool}
}

// Record inserts a payment row keyed by the natural dedup key
// (provider, order_id, payment_id). Re-delivery of the same event
// returns the existing row with created=false instead of a duplicate.
func (r *PaymentRepo) Record(
	ctx context.Context,
	userID, provider, orderID, paymentID, courseSlug string,
	amountUsd float64,
	currency, status string,
) (PaymentRecord, bool, error) {
	if r.pool == nil {
		return PaymentRecord{}, false, fmt.Errorf("postgres pool is nil")
	}

	userID = strings.TrimSpace(userID)
	provider = strings.ToUpper(strings.TrimSpace(provider))
	orderID = strings.TrimSpace(orderID)
	paymentID = strings.TrimSpace(paymentID)
	if userID == "" || provider == "" || orderID == "" || paymentID == "" {
		return PaymentRecord{}, false, fmt.Errorf("invalid payment record payload")
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = "USD"
	}
	status = strings.ToUpper(strings.TrimSpace(status))
	if status == "" {
		status = "SUCCESS"
	}

	rowID := uuid.NewString()
	tag, err := r.pool.Exec(ctx, `
INSERT INTO payments (
	id,
	user_id,
	provider,
	order_id,
	payment_id,
	course_slug,
	amount_usd,
	currency,
	status,
	created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
ON CONFLICT (provider, order_id, payment_id) DO NOTHING
`, rowID, userID, provider, orderID, paymentID, courseSlug, amountUsd, currency, status)
	if err != nil {
		return PaymentRecord{}, false, fmt.Errorf("insert payment: %w", err)
	}

	rec, err := r.FindByProviderEvent(ctx, provider, orderID, paymentID)
	if err != nil {
		return PaymentRecord{}, false, err
	}
	return rec, tag.RowsAffected() > 0, nil
}

func (r *PaymentRepo) FindByProviderEvent(ctx context.Context, provider, orderID, paymentID string) (PaymentRecord, error) {
	if r.pool == nil {
		return PaymentRecord{}, fmt.Errorf("postgres pool is nil")
	}

	rec, err := scanPaymentRow(r.pool.QueryRow(ctx, `
SELECT
	id,
	user_id,
	provider,
	order_id,
	payment_id,
	course_slug,
	amount_usd,
	currency,
	status,
	created_at
FROM payments
WHERE provider = $1
  AND order_id = $2
  AND payment_id = $3
`, strings.ToUpper(strings.TrimSpace(provider)), strings.TrimSpace(orderID), strings.TrimSpace(paymentID)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return PaymentRecord{}, ErrPaymentNotFound
		}
		return PaymentRecord{}, fmt.Errorf("find payment by provider event: %w", err)
	}
	return rec, nil
}

func (r *PaymentRepo) ListByUser(ctx context.Context, userID string) ([]PaymentRecord, error) {
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
	provider,
	order_id,
	payment_id,
	course_slug,
	amount_usd,
	currency,
	status,
	created_at
FROM payments
WHERE user_id = $1
ORDER BY created_at DESC
`, userID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var out []PaymentRecord
	for rows.Next() {
		rec, err := scanPaymentRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment row: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payments: %w", err)
	}
	return out, nil
}

func (r *PaymentRepo) CountSuccessfulByUser(ctx context.Context, userID string) (int, error) {
	if r.pool == nil {
		return 0, fmt.Errorf("postgres pool is nil")
	}

	var count int
	if err := r.pool.QueryRow(ctx, `
SELECT COUNT(*)
FROM payments
WHERE user_id = $1
  AND status = 'SUCCESS'
`, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count successful payments: %w", err)
	}
	return count, nil
}

func scanPaymentRow(row pgx.Row) (PaymentRecord, error) {
	var rec PaymentRecord
	if err := row.Scan(
		&rec.ID,
		&rec.UserID,
		&rec.Provider,
		&rec.OrderID,
		&rec.PaymentID,
		&rec.CourseSlug,
		&rec.AmountUsd,
		&rec.Currency,
		&rec.Status,
		&rec.CreatedAt,
	); err != nil {
		return PaymentRecord{}, err
	}
	return rec, nil
}
