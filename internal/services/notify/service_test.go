package notify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/edudubai/platform/backend/internal/infra/email"
)

type mailerStub struct {
	sent []email.Message
	err  error
}

func (m *mailerStub) Send(_ context.Context, msg email.Message) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func TestSendAdminAlertUsesPlaceholderWhenEmailMissing(t *testing.T) {
	mailer := &mailerStub{}
	svc := NewService(mailer, "training@edudubai.org")

	err := svc.SendAdminAlert(context.Background(), PaymentAlert{
		CourseTitle: "CAMS",
		CourseSlug:  "cams",
		OrderID:     "order_1",
		PaymentID:   "pay_1",
	})
	if err != nil {
		t.Fatalf("send admin alert: %v", err)
	}

	if len(mailer.sent) != 1 {
		t.Fatalf("expected 1 message, got %d", len(mailer.sent))
	}
	msg := mailer.sent[0]
	if msg.To != "training@edudubai.org" {
		t.Fatalf("unexpected recipient %q", msg.To)
	}
	if !strings.Contains(msg.HTML, PlaceholderEmail) {
		t.Fatalf("alert body missing placeholder email: %s", msg.HTML)
	}
	if !strings.Contains(msg.Subject, "CAMS") {
		t.Fatalf("subject missing course title: %q", msg.Subject)
	}
}

func TestSendAdminAlertDerivesLearnerName(t *testing.T) {
	mailer := &mailerStub{}
	svc := NewService(mailer, "")

	err := svc.SendAdminAlert(context.Background(), PaymentAlert{
		Email:       "jane.doe@example.com",
		CourseTitle: "Sanctions Compliance Specialist (SCS)",
	})
	if err != nil {
		t.Fatalf("send admin alert: %v", err)
	}
	if !strings.Contains(mailer.sent[0].HTML, "jane.doe") {
		t.Fatalf("alert body missing derived name: %s", mailer.sent[0].HTML)
	}
}

func TestSendLearnerConfirmation(t *testing.T) {
	mailer := &mailerStub{}
	svc := NewService(mailer, "")

	if err := svc.SendLearnerConfirmation(context.Background(), "learner@example.com", "CAMS"); err != nil {
		t.Fatalf("send confirmation: %v", err)
	}
	if mailer.sent[0].To != "learner@example.com" {
		t.Fatalf("unexpected recipient %q", mailer.sent[0].To)
	}

	if err := svc.SendLearnerConfirmation(context.Background(), "", "CAMS"); err == nil {
		t.Fatalf("empty learner email must error")
	}
}

func TestSendAdminAlertPropagatesMailerError(t *testing.T) {
	svc := NewService(&mailerStub{err: errors.New("provider down")}, "")

	if err := svc.SendAdminAlert(context.Background(), PaymentAlert{CourseTitle: "CAMS"}); err == nil {
		t.Fatalf("mailer failure must surface to the caller")
	}
}
