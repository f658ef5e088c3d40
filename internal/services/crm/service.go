package crm

import (
	"context"
	"fmt"
	"strings"

	"github.com/edudubai/platform/backend/internal/infra/systeme"
)

type ContactClient interface {
	UpsertContact(ctx context.Context, email, firstName string) (systeme.Contact, error)
	ListTags(ctx context.Context) ([]systeme.Tag, error)
	AssignTag(ctx context.Context, contactID, tagID int64) error
}

// Service pushes verified enrollments into the CRM so its automations
// (welcome sequences, course funnels) fire. Entirely best-effort; the
// caller decides what to do with failures.
type Service struct {
	client ContactClient
}

type SyncInput struct {
	Email       string
	FirstName   string
	CourseTitle string
	CourseSlug  string
}

type SyncResult struct {
	ContactID   int64
	TagAssigned bool
}

func NewService(client ContactClient) *Service {
	return &Service{client: client}
}

func (s *Service) SyncEnrollment(ctx context.Context, in SyncInput) (SyncResult, error) {
	if s.client == nil {
		return SyncResult{}, fmt.Errorf("crm client is not configured")
	}
	if strings.TrimSpace(in.Email) == "" {
		return SyncResult{}, fmt.Errorf("contact email is required")
	}

	contact, err := s.client.UpsertContact(ctx, in.Email, in.FirstName)
	if err != nil {
		return SyncResult{}, fmt.Errorf("upsert crm contact: %w", err)
	}

	tags, err := s.client.ListTags(ctx)
	if err != nil {
		return SyncResult{ContactID: contact.ID}, fmt.Errorf("list crm tags: %w", err)
	}

	tag, ok := matchCourseTag(tags, in.CourseSlug, in.CourseTitle)
	if !ok {
		// No matching tag is not an error: the automation simply has
		// not been configured for this course yet.
		return SyncResult{ContactID: contact.ID}, nil
	}

	if err := s.client.AssignTag(ctx, contact.ID, tag.ID); err != nil {
		return SyncResult{ContactID: contact.ID}, fmt.Errorf("assign crm tag: %w", err)
	}
	return SyncResult{ContactID: contact.ID, TagAssigned: true}, nil
}

// matchCourseTag resolves the CRM tag for a course. Exact slug-derived
// and title matches win; otherwise a distinctive keyword from the title
// is enough, so tags named just "CAMS" or "Sanctions Specialist" work.
func matchCourseTag(tags []systeme.Tag, courseSlug, courseTitle string) (systeme.Tag, bool) {
	slugTag := strings.ToLower("course_" + strings.ReplaceAll(courseSlug, "-", "_"))
	title := strings.ToLower(strings.TrimSpace(courseTitle))
	keywords := distinctiveKeywords(title)

	for _, tag := range tags {
		name := strings.ToLower(strings.TrimSpace(tag.Name))
		if name == slugTag || (title != "" && name == title) {
			return tag, true
		}
	}
	for _, tag := range tags {
		name := strings.ToLower(strings.TrimSpace(tag.Name))
		for _, keyword := range keywords {
			if strings.Contains(name, keyword) {
				return tag, true
			}
		}
	}
	return systeme.Tag{}, false
}

func distinctiveKeywords(title string) []string {
	ignore := map[string]bool{
		"certified": true, "specialist": true, "management": true,
		"of": true, "and": true, "the": true, "course": true,
	}

	var out []string
	for _, word := range strings.Fields(title) {
		word = strings.Trim(word, "()&,")
		if len(word) > 3 && !ignore[word] {
			out = append(out, word)
		}
	}
	return out
}
