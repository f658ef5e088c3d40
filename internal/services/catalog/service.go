package catalog

import (
	"errors"
	"strings"

	"github.com/edudubai/platform/backend/internal/domain/model"
)

var ErrCourseNotFound = errors.New("course not found")

// Service serves the course catalog. The catalog is read-only reference
// data; content management happens outside this system.
type Service struct {
	courses []model.Course
	bySlug  map[string]model.Course
}

func NewService(courses []model.Course) *Service {
	if len(courses) == 0 {
		courses = SeedCourses()
	}

	bySlug := make(map[string]model.Course, len(courses))
	for _, course := range courses {
		bySlug[course.Slug] = course
	}

	return &Service{courses: courses, bySlug: bySlug}
}

func (s *Service) GetBySlug(slug string) (model.Course, error) {
	course, ok := s.bySlug[strings.ToLower(strings.TrimSpace(slug))]
	if !ok {
		return model.Course{}, ErrCourseNotFound
	}
	return course, nil
}

func (s *Service) List() []model.Course {
	out := make([]model.Course, len(s.courses))
	copy(out, s.courses)
	return out
}

func (s *Service) Featured() []model.Course {
	var out []model.Course
	for _, course := range s.courses {
		if course.Featured {
			out = append(out, course)
		}
	}
	return out
}

func (s *Service) ListByCategory(category model.Category) []model.Course {
	var out []model.Course
	for _, course := range s.courses {
		if course.Category == category {
			out = append(out, course)
		}
	}
	return out
}

func (s *Service) ListByDeliveryMode(mode model.DeliveryMode) []model.Course {
	var out []model.Course
	for _, course := range s.courses {
		for _, m := range course.DeliveryModes {
			if m == mode {
				out = append(out, course)
				break
			}
		}
	}
	return out
}
