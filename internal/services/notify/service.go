package notify

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/edudubai/platform/backend/internal/infra/email"
)

// PlaceholderEmail stands in for the learner address on admin alerts
// when the verification event carried none.
const PlaceholderEmail = "no-email@edudubai.org"

type Mailer interface {
	Send(ctx context.Context, msg email.Message) error
}

type PaymentAlert struct {
	Email       string
	CourseTitle string
	CourseSlug  string
	OrderID     string
	PaymentID   string
}

type Service struct {
	mailer     Mailer
	adminEmail string
}

func NewService(mailer Mailer, adminEmail string) *Service {
	if adminEmail == "" {
		adminEmail = "training@edudubai.org"
	}
	return &Service{mailer: mailer, adminEmail: adminEmail}
}

// SendAdminAlert notifies the admin inbox of a verified payment.
func (s *Service) SendAdminAlert(ctx context.Context, alert PaymentAlert) error {
	if s.mailer == nil {
		return fmt.Errorf("mailer is not configured")
	}

	learnerEmail := strings.TrimSpace(alert.Email)
	if learnerEmail == "" {
		learnerEmail = PlaceholderEmail
	}
	courseTitle := alert.CourseTitle
	if courseTitle == "" {
		courseTitle = "Course Enrollment"
	}

	body := fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px;">
<h2 style="color: #1e3a5f;">Payment Successful</h2>
<div style="background-color: #f5f5f5; padding: 20px; border-radius: 8px;">
<p><strong>Learner:</strong> %s</p>
<p><strong>Email:</strong> %s</p>
<p><strong>Course:</strong> %s (%s)</p>
<p><strong>Order ID:</strong> %s</p>
<p><strong>Payment ID:</strong> %s</p>
</div>
</div>`,
		html.EscapeString(learnerName(alert.Email)),
		html.EscapeString(learnerEmail),
		html.EscapeString(courseTitle),
		html.EscapeString(alert.CourseSlug),
		html.EscapeString(alert.OrderID),
		html.EscapeString(alert.PaymentID),
	)

	if err := s.mailer.Send(ctx, email.Message{
		To:      s.adminEmail,
		Subject: "Payment Successful: " + courseTitle,
		HTML:    body,
	}); err != nil {
		return fmt.Errorf("send admin alert: %w", err)
	}
	return nil
}

// SendLearnerConfirmation emails the learner their enrollment
// confirmation. Callers only invoke this when an address was supplied.
func (s *Service) SendLearnerConfirmation(ctx context.Context, learnerEmail, courseTitle string) error {
	if s.mailer == nil {
		return fmt.Errorf("mailer is not configured")
	}
	if strings.TrimSpace(learnerEmail) == "" {
		return fmt.Errorf("learner email is required")
	}

	body := fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px;">
<h2 style="color: #1e3a5f;">You're enrolled!</h2>
<p>Hi %s,</p>
<p>Your enrollment in <strong>%s</strong> is confirmed. Our team will reach out with schedule and access details shortly.</p>
<p>— The EduDubai Team</p>
</div>`,
		html.EscapeString(learnerName(learnerEmail)),
		html.EscapeString(courseTitle),
	)

	if err := s.mailer.Send(ctx, email.Message{
		To:      learnerEmail,
		Subject: "Enrollment Confirmed: " + courseTitle,
		HTML:    body,
	}); err != nil {
		return fmt.Errorf("send learner confirmation: %w", err)
	}
	return nil
}

func learnerName(emailAddr string) string {
	emailAddr = strings.TrimSpace(emailAddr)
	if emailAddr == "" {
		return "Learner"
	}
	if at := strings.Index(emailAddr, "@"); at > 0 {
		return emailAddr[:at]
	}
	return emailAddr
}
