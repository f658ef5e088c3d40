package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/edudubai/platform/backend/internal/infra/razorpay"
	pgrepo "github.com/edudubai/platform/backend/internal/repo/postgres"
	catalogsvc "github.com/edudubai/platform/backend/internal/services/catalog"
	"github.com/edudubai/platform/backend/internal/services/crm"
	"github.com/edudubai/platform/backend/internal/services/notify"
)

const testKeySecret = "test_key_secret"

func sign(secret, payload string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

func paymentSig(orderID, paymentID string) string {
	return sign(testKeySecret, orderID+"|"+paymentID)
}

type ordersStub struct {
	order    razorpay.Order
	fetchErr error
	created  []razorpay.CreateOrderInput
}

func (o *ordersStub) FetchOrder(_ context.Context, _ string) (razorpay.Order, error) {
	if o.fetchErr != nil {
		return razorpay.Order{}, o.fetchErr
	}
	return o.order, nil
}

func (o *ordersStub) CreateOrder(_ context.Context, in razorpay.CreateOrderInput) (razorpay.Order, error) {
	o.created = append(o.created, in)
	return razorpay.Order{ID: "order_new", Amount: in.Amount, Currency: in.Currency, Receipt: in.Receipt}, nil
}

func (o *ordersStub) KeyID() string { return "rzp_test_key" }

type paymentCall struct {
	UserID, Provider, OrderID, PaymentID, CourseSlug string
	AmountUsd                                        float64
	Currency, Status                                 string
}

type paymentStoreStub struct {
	calls   []paymentCall
	err     error
	created bool
}

func (p *paymentStoreStub) Record(
	_ context.Context,
	userID, provider, orderID, paymentID, courseSlug string,
	amountUsd float64,
	currency, status string,
) (pgrepo.PaymentRecord, bool, error) {
	if p.err != nil {
		return pgrepo.PaymentRecord{}, false, p.err
	}
	p.calls = append(p.calls, paymentCall{
		UserID: userID, Provider: provider, OrderID: orderID, PaymentID: paymentID,
		CourseSlug: courseSlug, AmountUsd: amountUsd, Currency: currency, Status: status,
	})
	return pgrepo.PaymentRecord{ID: "pay-row", OrderID: orderID, PaymentID: paymentID}, p.created, nil
}

type enrollmentCall struct {
	UserID, CourseSlug, CourseTitle, DeliveryMode string
}

type enrollmentStoreStub struct {
	calls   []enrollmentCall
	err     error
	created bool
}

func (e *enrollmentStoreStub) Record(_ context.Context, userID, courseSlug, courseTitle, deliveryMode string) (pgrepo.EnrollmentRecord, bool, error) {
	if e.err != nil {
		return pgrepo.EnrollmentRecord{}, false, e.err
	}
	e.calls = append(e.calls, enrollmentCall{UserID: userID, CourseSlug: courseSlug, CourseTitle: courseTitle, DeliveryMode: deliveryMode})
	return pgrepo.EnrollmentRecord{ID: "enr-row", CourseSlug: courseSlug}, e.created, nil
}

type notifierStub struct {
	alerts        []notify.PaymentAlert
	confirmations []string
	alertErr      error
}

func (n *notifierStub) SendAdminAlert(_ context.Context, alert notify.PaymentAlert) error {
	if n.alertErr != nil {
		return n.alertErr
	}
	n.alerts = append(n.alerts, alert)
	return nil
}

func (n *notifierStub) SendLearnerConfirmation(_ context.Context, learnerEmail, _ string) error {
	n.confirmations = append(n.confirmations, learnerEmail)
	return nil
}

type crmSyncStub struct {
	inputs []crm.SyncInput
}

func (c *crmSyncStub) SyncEnrollment(_ context.Context, in crm.SyncInput) (crm.SyncResult, error) {
	c.inputs = append(c.inputs, in)
	return crm.SyncResult{ContactID: 1, TagAssigned: true}, nil
}

type verifyFixture struct {
	svc         *Service
	orders      *ordersStub
	payments    *paymentStoreStub
	enrollments *enrollmentStoreStub
	notifier    *notifierStub
	crm         *crmSyncStub
}

func newVerifyFixture() *verifyFixture {
	f := &verifyFixture{
		orders:      &ordersStub{order: razorpay.Order{ID: "order_1", Amount: 109500, Currency: "USD"}},
		payments:    &paymentStoreStub{created: true},
		enrollments: &enrollmentStoreStub{created: true},
		notifier:    &notifierStub{},
		crm:         &crmSyncStub{},
	}
	f.svc = NewService(Dependencies{
		Catalog:           catalogsvc.NewService(nil),
		Orders:            f.orders,
		Payments:          f.payments,
		Enrollments:       f.enrollments,
		Notifier:          f.notifier,
		CRM:               f.crm,
		KeySecret:         testKeySecret,
		WebhookSecret:     "test_webhook_secret",
		SideEffectTimeout: 2 * time.Second,
	}, nil)
	return f
}

func validVerifyInput() VerifyInput {
	return VerifyInput{
		OrderID:    "order_1",
		PaymentID:  "pay_1",
		Signature:  paymentSig("order_1", "pay_1"),
		CourseSlug: "cams",
		Email:      "jane.doe@example.com",
		UserID:     "user-1",
	}
}

func TestVerifyPaymentHappyPath(t *testing.T) {
	f := newVerifyFixture()

	res, err := f.svc.VerifyPayment(context.Background(), validVerifyInput())
	if err != nil {
		t.Fatalf("VerifyPayment: %v", err)
	}
	if res.CourseTitle != "CAMS" || res.CourseSlug != "cams" {
		t.Fatalf("unexpected course in result: %+v", res)
	}
	if !res.PaymentCreated || !res.EnrollmentCreated {
		t.Fatalf("expected fresh ledger rows, got %+v", res)
	}

	if len(f.payments.calls) != 1 {
		t.Fatalf("payment calls = %d, want 1", len(f.payments.calls))
	}
	pc := f.payments.calls[0]
	if pc.Provider != "RAZORPAY" || pc.Status != "SUCCESS" || pc.AmountUsd != 1095 {
		t.Fatalf("unexpected payment call: %+v", pc)
	}
	if len(f.enrollments.calls) != 1 || f.enrollments.calls[0].CourseTitle != "CAMS" {
		t.Fatalf("unexpected enrollment calls: %+v", f.enrollments.calls)
	}
	if len(f.notifier.alerts) != 1 || f.notifier.alerts[0].Email != "jane.doe@example.com" {
		t.Fatalf("unexpected admin alerts: %+v", f.notifier.alerts)
	}
	if len(f.notifier.confirmations) != 1 {
		t.Fatalf("confirmations = %d, want 1", len(f.notifier.confirmations))
	}
	if len(f.crm.inputs) != 1 || f.crm.inputs[0].CourseSlug != "cams" {
		t.Fatalf("unexpected crm sync: %+v", f.crm.inputs)
	}
	if f.crm.inputs[0].FirstName != "Jane" {
		t.Fatalf("first name = %q, want Jane", f.crm.inputs[0].FirstName)
	}
}

func TestVerifyPaymentFallsBackToCatalogPrice(t *testing.T) {
	f := newVerifyFixture()
	f.orders.fetchErr = errors.New("provider timeout")

	res, err := f.svc.VerifyPayment(context.Background(), validVerifyInput())
	if err != nil {
		t.Fatalf("VerifyPayment: %v", err)
	}
	if !res.PaymentCreated {
		t.Fatal("payment should still be recorded")
	}
	if got := f.payments.calls[0].AmountUsd; got != 1095 {
		t.Fatalf("fallback amount = %v, want catalog price 1095", got)
	}
}

func TestVerifyPaymentWithoutEmailSkipsLearnerMailAndCRM(t *testing.T) {
	f := newVerifyFixture()
	in := validVerifyInput()
	in.Email = ""
	in.IdentityEmail = ""

	if _, err := f.svc.VerifyPayment(context.Background(), in); err != nil {
		t.Fatalf("VerifyPayment: %v", err)
	}
	if len(f.notifier.confirmations) != 0 {
		t.Fatalf("learner confirmation sent without an address: %v", f.notifier.confirmations)
	}
	if len(f.crm.inputs) != 0 {
		t.Fatalf("crm sync fired without an address: %+v", f.crm.inputs)
	}
	if len(f.notifier.alerts) != 1 || f.notifier.alerts[0].Email != "" {
		t.Fatalf("admin alert should still fire with empty email: %+v", f.notifier.alerts)
	}
}

func TestVerifyPaymentUsesIdentityEmailWhenBodyOmitsIt(t *testing.T) {
	f := newVerifyFixture()
	in := validVerifyInput()
	in.Email = ""
	in.IdentityEmail = "session@example.com"

	if _, err := f.svc.VerifyPayment(context.Background(), in); err != nil {
		t.Fatalf("VerifyPayment: %v", err)
	}
	if len(f.notifier.confirmations) != 1 || f.notifier.confirmations[0] != "session@example.com" {
		t.Fatalf("confirmations = %v, want session email", f.notifier.confirmations)
	}
}

func TestVerifyPaymentRejectsTamperedSignature(t *testing.T) {
	f := newVerifyFixture()
	in := validVerifyInput()
	in.Signature = paymentSig("order_1", "pay_other")

	_, err := f.svc.VerifyPayment(context.Background(), in)
	if !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("err = %v, want ErrInvalidSignature", err)
	}
	if len(f.payments.calls) != 0 || len(f.enrollments.calls) != 0 || len(f.notifier.alerts) != 0 {
		t.Fatal("no side effect may run on a bad signature")
	}
}

func TestVerifyPaymentMissingSecretIsSignatureCheckError(t *testing.T) {
	f := newVerifyFixture()
	f.svc.keySecret = ""

	_, err := f.svc.VerifyPayment(context.Background(), validVerifyInput())
	if !errors.Is(err, ErrSignatureCheck) {
		t.Fatalf("err = %v, want ErrSignatureCheck", err)
	}
}

func TestVerifyPaymentChecksSignatureBeforeIdentity(t *testing.T) {
	f := newVerifyFixture()
	in := validVerifyInput()
	in.UserID = ""
	in.Signature = "deadbeef"

	// Anonymous caller with a bad signature must see the signature
	// failure, not an auth challenge.
	if _, err := f.svc.VerifyPayment(context.Background(), in); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("err = %v, want ErrInvalidSignature", err)
	}

	in.Signature = paymentSig("order_1", "pay_1")
	if _, err := f.svc.VerifyPayment(context.Background(), in); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("err = %v, want ErrUnauthenticated", err)
	}
}

func TestVerifyPaymentSlugErrors(t *testing.T) {
	f := newVerifyFixture()

	in := validVerifyInput()
	in.CourseSlug = "   "
	if _, err := f.svc.VerifyPayment(context.Background(), in); !errors.Is(err, ErrSlugRequired) {
		t.Fatalf("err = %v, want ErrSlugRequired", err)
	}

	in.CourseSlug = "no-such-course"
	if _, err := f.svc.VerifyPayment(context.Background(), in); !errors.Is(err, ErrCourseNotFound) {
		t.Fatalf("err = %v, want ErrCourseNotFound", err)
	}
}

func TestVerifyPaymentSucceedsDespiteLedgerFailure(t *testing.T) {
	f := newVerifyFixture()
	f.payments.err = errors.New("db down")
	f.notifier.alertErr = errors.New("mail down")

	res, err := f.svc.VerifyPayment(context.Background(), validVerifyInput())
	if err != nil {
		t.Fatalf("VerifyPayment must succeed after a valid signature, got %v", err)
	}
	if res.PaymentCreated {
		t.Fatal("payment row was not written")
	}
	if len(f.enrollments.calls) != 1 {
		t.Fatal("enrollment write must run even when the payment write fails")
	}
	if len(f.notifier.confirmations) != 1 {
		t.Fatal("learner mail must run even when the admin alert fails")
	}
}

func TestVerifyPaymentReplayReportsNoNewRows(t *testing.T) {
	f := newVerifyFixture()
	f.payments.created = false
	f.enrollments.created = false

	res, err := f.svc.VerifyPayment(context.Background(), validVerifyInput())
	if err != nil {
		t.Fatalf("VerifyPayment: %v", err)
	}
	if res.PaymentCreated || res.EnrollmentCreated {
		t.Fatalf("replay must not report fresh rows: %+v", res)
	}
}

func TestVerifyPaymentValidatesRequiredFields(t *testing.T) {
	f := newVerifyFixture()
	in := validVerifyInput()
	in.Signature = ""

	if _, err := f.svc.VerifyPayment(context.Background(), in); !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestCreateOrderBuildsReceiptFromSlug(t *testing.T) {
	f := newVerifyFixture()
	f.svc.now = func() time.Time { return time.Unix(1_700_000_000, 0) }

	res, err := f.svc.CreateOrder(context.Background(), CreateOrderInput{CourseSlug: "CAMS"})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if res.OrderID != "order_new" || res.KeyID != "rzp_test_key" {
		t.Fatalf("unexpected order result: %+v", res)
	}
	if res.Amount != 109500 {
		t.Fatalf("amount = %d, want 109500 minor units", res.Amount)
	}

	created := f.orders.created[0]
	if created.Receipt != "cams_1700000000" {
		t.Fatalf("receipt = %q", created.Receipt)
	}
	if created.Notes["courseSlug"] != "cams" {
		t.Fatalf("notes = %v", created.Notes)
	}
}

func TestCreateOrderCapsReceiptLength(t *testing.T) {
	f := newVerifyFixture()
	f.svc.now = func() time.Time { return time.Unix(1_700_000_000, 0) }

	res, err := f.svc.CreateOrder(context.Background(), CreateOrderInput{CourseSlug: "anti-money-laundering-specialist"})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if res.Amount != 65000 {
		t.Fatalf("amount = %d, want 65000", res.Amount)
	}
	receipt := f.orders.created[0].Receipt
	if len(receipt) > 40 {
		t.Fatalf("receipt %q exceeds 40 chars", receipt)
	}
	if !strings.HasPrefix(receipt, "anti-money-laundering-specialist_") {
		t.Fatalf("receipt %q lost its slug prefix", receipt)
	}
}

func TestCreateOrderUnknownSlug(t *testing.T) {
	f := newVerifyFixture()
	if _, err := f.svc.CreateOrder(context.Background(), CreateOrderInput{CourseSlug: "ghost"}); !errors.Is(err, ErrCourseNotFound) {
		t.Fatalf("err = %v, want ErrCourseNotFound", err)
	}
}

func TestHandleWebhookRecordsCapturedPayment(t *testing.T) {
	f := newVerifyFixture()
	body := []byte(`{
		"event": "payment.captured",
		"payload": {"payment": {"entity": {
			"id": "pay_hook",
			"order_id": "order_hook",
			"amount": 65000,
			"currency": "USD",
			"email": "learner@example.com",
			"notes": {"userId": "user-9", "courseSlug": "anti-money-laundering-specialist"}
		}}}
	}`)
	sig := sign("test_webhook_secret", string(body))

	if err := f.svc.HandleWebhook(context.Background(), body, sig); err != nil {
		t.Fatalf("HandleWebhook: %v", err)
	}
	if len(f.payments.calls) != 1 {
		t.Fatalf("payment calls = %d, want 1", len(f.payments.calls))
	}
	pc := f.payments.calls[0]
	if pc.UserID != "user-9" || pc.Status != "SUCCESS" || pc.AmountUsd != 650 {
		t.Fatalf("unexpected webhook payment: %+v", pc)
	}
}

func TestHandleWebhookRejectsBadSignature(t *testing.T) {
	f := newVerifyFixture()
	body := []byte(`{"event":"payment.captured"}`)

	err := f.svc.HandleWebhook(context.Background(), body, sign("wrong_secret", string(body)))
	if !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("err = %v, want ErrInvalidSignature", err)
	}
}

func TestHandleWebhookIgnoresUnknownEvents(t *testing.T) {
	f := newVerifyFixture()
	body := []byte(`{"event":"order.paid"}`)

	if err := f.svc.HandleWebhook(context.Background(), body, sign("test_webhook_secret", string(body))); err != nil {
		t.Fatalf("HandleWebhook: %v", err)
	}
	if len(f.payments.calls) != 0 {
		t.Fatal("unsubscribed events must not write ledger rows")
	}
}
