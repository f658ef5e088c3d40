package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/edudubai/platform/backend/internal/domain/model"
	"github.com/edudubai/platform/backend/internal/infra/razorpay"
	"github.com/edudubai/platform/backend/internal/pkg/fanout"
	pgrepo "github.com/edudubai/platform/backend/internal/repo/postgres"
	catalogsvc "github.com/edudubai/platform/backend/internal/services/catalog"
	"github.com/edudubai/platform/backend/internal/services/crm"
	"github.com/edudubai/platform/backend/internal/services/notify"
)

const (
	providerRazorpay = "RAZORPAY"

	statusSuccess = "SUCCESS"
	statusFailed  = "FAILED"

	defaultSideEffectTimeout = 10 * time.Second
	maxReceiptLen            = 40
)

var (
	ErrValidation       = errors.New("validation error")
	ErrInvalidSignature = errors.New("invalid payment signature")
	ErrSignatureCheck   = errors.New("signature verification failed")
	ErrUnauthenticated  = errors.New("authentication required")
	ErrSlugRequired     = errors.New("course slug is required")
	ErrCourseNotFound   = errors.New("course not found")
)

type CourseCatalog interface {
	GetBySlug(slug string) (model.Course, error)
}

type OrderProvider interface {
	FetchOrder(ctx context.Context, orderID string) (razorpay.Order, error)
	CreateOrder(ctx context.Context, in razorpay.CreateOrderInput) (razorpay.Order, error)
	KeyID() string
}

type PaymentStore interface {
	Record(
		ctx context.Context,
		userID, provider, orderID, paymentID, courseSlug string,
		amountUsd float64,
		currency, status string,
	) (pgrepo.PaymentRecord, bool, error)
}

type EnrollmentStore interface {
	Record(ctx context.Context, userID, courseSlug, courseTitle, deliveryMode string) (pgrepo.EnrollmentRecord, bool, error)
}

type Notifier interface {
	SendAdminAlert(ctx context.Context, alert notify.PaymentAlert) error
	SendLearnerConfirmation(ctx context.Context, learnerEmail, courseTitle string) error
}

type EnrollmentSyncer interface {
	SyncEnrollment(ctx context.Context, in crm.SyncInput) (crm.SyncResult, error)
}

type Service struct {
	catalog     CourseCatalog
	orders      OrderProvider
	payments    PaymentStore
	enrollments EnrollmentStore
	notifier    Notifier
	crm         EnrollmentSyncer

	keySecret         string
	webhookSecret     string
	sideEffectTimeout time.Duration

	log *zap.Logger
	now func() time.Time
}

type Dependencies struct {
	Catalog     CourseCatalog
	Orders      OrderProvider
	Payments    PaymentStore
	Enrollments EnrollmentStore
	Notifier    Notifier
	CRM         EnrollmentSyncer

	KeySecret         string
	WebhookSecret     string
	SideEffectTimeout time.Duration
}

func NewService(deps Dependencies, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	timeout := deps.SideEffectTimeout
	if timeout <= 0 {
		timeout = defaultSideEffectTimeout
	}
	return &Service{
		catalog:           deps.Catalog,
		orders:            deps.Orders,
		payments:          deps.Payments,
		enrollments:       deps.Enrollments,
		notifier:          deps.Notifier,
		crm:               deps.CRM,
		keySecret:         deps.KeySecret,
		webhookSecret:     deps.WebhookSecret,
		sideEffectTimeout: timeout,
		log:               log,
		now:               time.Now,
	}
}

type VerifyInput struct {
	OrderID    string
	PaymentID  string
	Signature  string
	CourseSlug string
	Email      string

	// Filled from the validated session, empty when the caller is
	// anonymous. The signature is checked before this is looked at.
	UserID        string
	IdentityEmail string
}

type VerifyResult struct {
	CourseSlug        string
	CourseTitle       string
	PaymentCreated    bool
	EnrollmentCreated bool
}

// VerifyPayment checks the provider signature, resolves the course and
// paid amount, then records the payment and enrollment and fires the
// notification fan-out. Side-effect failures after a valid signature
// are logged but never surfaced to the payer: their money has already
// moved, so the call still succeeds.
func (s *Service) VerifyPayment(ctx context.Context, in VerifyInput) (VerifyResult, error) {
	orderID := strings.TrimSpace(in.OrderID)
	paymentID := strings.TrimSpace(in.PaymentID)
	signature := strings.TrimSpace(in.Signature)
	if orderID == "" || paymentID == "" || signature == "" {
		return VerifyResult{}, ErrValidation
	}

	ok, err := razorpay.VerifyPaymentSignature(s.keySecret, orderID, paymentID, signature)
	if err != nil {
		return VerifyResult{}, fmt.Errorf("%w: %s", ErrSignatureCheck, err)
	}
	if !ok {
		return VerifyResult{}, ErrInvalidSignature
	}

	if strings.TrimSpace(in.UserID) == "" {
		return VerifyResult{}, ErrUnauthenticated
	}
	userID := strings.TrimSpace(in.UserID)

	slug := strings.ToLower(strings.TrimSpace(in.CourseSlug))
	if slug == "" {
		return VerifyResult{}, ErrSlugRequired
	}
	course, err := s.catalog.GetBySlug(slug)
	if err != nil {
		if errors.Is(err, catalogsvc.ErrCourseNotFound) {
			return VerifyResult{}, ErrCourseNotFound
		}
		return VerifyResult{}, fmt.Errorf("resolve course %q: %w", slug, err)
	}

	amountUsd, currency := s.resolveAmount(ctx, orderID, course)

	learnerEmail := strings.TrimSpace(in.Email)
	if learnerEmail == "" {
		learnerEmail = strings.TrimSpace(in.IdentityEmail)
	}

	res := VerifyResult{CourseSlug: course.Slug, CourseTitle: course.Title}

	tasks := []fanout.Task{
		{
			Name: "record_payment",
			Run: func(ctx context.Context) error {
				_, created, err := s.payments.Record(
					ctx, userID, providerRazorpay, orderID, paymentID,
					course.Slug, amountUsd, currency, statusSuccess,
				)
				if err != nil {
					return err
				}
				res.PaymentCreated = created
				return nil
			},
		},
		{
			Name: "record_enrollment",
			Run: func(ctx context.Context) error {
				_, created, err := s.enrollments.Record(
					ctx, userID, course.Slug, course.Title, string(course.DefaultDeliveryMode()),
				)
				if err != nil {
					return err
				}
				res.EnrollmentCreated = created
				return nil
			},
		},
		{
			Name: "admin_alert",
			Run: func(ctx context.Context) error {
				return s.notifier.SendAdminAlert(ctx, notify.PaymentAlert{
					Email:       learnerEmail,
					CourseTitle: course.Title,
					CourseSlug:  course.Slug,
					OrderID:     orderID,
					PaymentID:   paymentID,
				})
			},
		},
	}
	if learnerEmail != "" {
		tasks = append(tasks, fanout.Task{
			Name: "learner_confirmation",
			Run: func(ctx context.Context) error {
				return s.notifier.SendLearnerConfirmation(ctx, learnerEmail, course.Title)
			},
		})
		if s.crm != nil {
			tasks = append(tasks, fanout.Task{
				Name: "crm_sync",
				Run: func(ctx context.Context) error {
					_, err := s.crm.SyncEnrollment(ctx, crm.SyncInput{
						Email:       learnerEmail,
						FirstName:   firstNameFromEmail(learnerEmail),
						CourseTitle: course.Title,
						CourseSlug:  course.Slug,
					})
					return err
				},
			})
		}
	}

	for _, taskRes := range fanout.Join(ctx, s.sideEffectTimeout, tasks...) {
		if taskRes.Err != nil {
			s.log.Error("post-payment side effect failed",
				zap.String("task", taskRes.Name),
				zap.String("order_id", orderID),
				zap.String("payment_id", paymentID),
				zap.String("course_slug", course.Slug),
				zap.Error(taskRes.Err),
			)
		}
	}

	return res, nil
}

// resolveAmount prefers the amount the provider actually charged. When
// the order lookup fails the catalog price stands in so the ledger row
// is still written.
func (s *Service) resolveAmount(ctx context.Context, orderID string, course model.Course) (float64, string) {
	var (
		order razorpay.Order
		err   error
	)
	if s.orders == nil {
		err = fmt.Errorf("order provider is not configured")
	} else {
		order, err = s.orders.FetchOrder(ctx, orderID)
	}
	if err != nil {
		s.log.Warn("order lookup failed, falling back to catalog price",
			zap.String("order_id", orderID),
			zap.String("course_slug", course.Slug),
			zap.Error(err),
		)
		currency := course.Currency
		if currency == "" {
			currency = "USD"
		}
		return course.PriceUsd, currency
	}

	currency := strings.ToUpper(strings.TrimSpace(order.Currency))
	if currency == "" {
		currency = "USD"
	}
	return float64(order.Amount) / 100, currency
}

type CreateOrderInput struct {
	CourseSlug string
}

type OrderResult struct {
	OrderID  string
	Amount   int64
	Currency string
	KeyID    string
}

// CreateOrder opens a provider order for a catalog course. The amount
// always comes from the catalog, never from the caller.
func (s *Service) CreateOrder(ctx context.Context, in CreateOrderInput) (OrderResult, error) {
	if s.orders == nil {
		return OrderResult{}, fmt.Errorf("order provider is not configured")
	}
	slug := strings.ToLower(strings.TrimSpace(in.CourseSlug))
	if slug == "" {
		return OrderResult{}, ErrSlugRequired
	}
	course, err := s.catalog.GetBySlug(slug)
	if err != nil {
		if errors.Is(err, catalogsvc.ErrCourseNotFound) {
			return OrderResult{}, ErrCourseNotFound
		}
		return OrderResult{}, fmt.Errorf("resolve course %q: %w", slug, err)
	}
	if course.PriceUsd <= 0 {
		return OrderResult{}, fmt.Errorf("course %q has no purchasable price", course.Slug)
	}

	currency := course.Currency
	if currency == "" {
		currency = "USD"
	}

	order, err := s.orders.CreateOrder(ctx, razorpay.CreateOrderInput{
		Amount:   usdToCents(course.PriceUsd),
		Currency: currency,
		Receipt:  buildReceipt(course.Slug, s.now()),
		Notes:    map[string]string{"courseSlug": course.Slug},
	})
	if err != nil {
		return OrderResult{}, fmt.Errorf("create provider order: %w", err)
	}

	return OrderResult{
		OrderID:  order.ID,
		Amount:   order.Amount,
		Currency: order.Currency,
		KeyID:    s.orders.KeyID(),
	}, nil
}

type webhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID       string            `json:"id"`
				OrderID  string            `json:"order_id"`
				Amount   int64             `json:"amount"`
				Currency string            `json:"currency"`
				Email    string            `json:"email"`
				Notes    map[string]string `json:"notes"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// HandleWebhook records payment events delivered out of band. Events we
// do not subscribe to are acknowledged and dropped; the provider
// retries on any non-2xx, so orchestration mistakes must not leak out
// as errors.
func (s *Service) HandleWebhook(ctx context.Context, body []byte, signature string) error {
	ok, err := razorpay.VerifyWebhookSignature(s.webhookSecret, body, signature)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrSignatureCheck, err)
	}
	if !ok {
		return ErrInvalidSignature
	}

	var event webhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("%w: malformed webhook payload", ErrValidation)
	}

	var status string
	switch event.Event {
	case "payment.captured":
		status = statusSuccess
	case "payment.failed":
		status = statusFailed
	default:
		return nil
	}

	entity := event.Payload.Payment.Entity
	userID := strings.TrimSpace(entity.Notes["userId"])
	if userID == "" || entity.OrderID == "" || entity.ID == "" {
		s.log.Warn("webhook event missing ledger identifiers, skipping",
			zap.String("event", event.Event),
			zap.String("payment_id", entity.ID),
		)
		return nil
	}

	_, created, err := s.payments.Record(
		ctx, userID, providerRazorpay, entity.OrderID, entity.ID,
		strings.TrimSpace(entity.Notes["courseSlug"]),
		float64(entity.Amount)/100, entity.Currency, status,
	)
	if err != nil {
		return fmt.Errorf("record webhook payment: %w", err)
	}
	if !created {
		s.log.Info("webhook payment already recorded",
			zap.String("payment_id", entity.ID),
			zap.String("order_id", entity.OrderID),
		)
	}
	return nil
}

func buildReceipt(slug string, now time.Time) string {
	receipt := fmt.Sprintf("%s_%d", slug, now.Unix())
	if len(receipt) > maxReceiptLen {
		receipt = receipt[:maxReceiptLen]
	}
	return receipt
}

func usdToCents(usd float64) int64 {
	return int64(usd*100 + 0.5)
}

func firstNameFromEmail(emailAddr string) string {
	local, _, found := strings.Cut(emailAddr, "@")
	if !found || local == "" {
		return ""
	}
	if i := strings.IndexAny(local, "._-"); i > 0 {
		local = local[:i]
	}
	return strings.ToUpper(local[:1]) + local[1:]
}
