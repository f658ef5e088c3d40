package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/edudubai/platform/backend/internal/domain/model"
	catalogsvc "github.com/edudubai/platform/backend/internal/services/catalog"
	"github.com/edudubai/platform/backend/internal/transport/http/dto"
	httperrors "github.com/edudubai/platform/backend/internal/transport/http/errors"
)

type CatalogHandler struct {
	catalog *catalogsvc.Service
}

func NewCatalogHandler(catalog *catalogsvc.Service) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.catalog == nil {
		writeInternalError(w)
		return
	}

	var courses []model.Course
	switch {
	case r.URL.Query().Get("featured") == "true":
		courses = h.catalog.Featured()
	case r.URL.Query().Get("category") != "":
		courses = h.catalog.ListByCategory(model.Category(r.URL.Query().Get("category")))
	default:
		courses = h.catalog.List()
	}

	out := make([]dto.CourseResponse, 0, len(courses))
	for _, course := range courses {
		out = append(out, courseToDTO(course))
	}
	httperrors.Write(w, http.StatusOK, dto.CourseListResponse{OK: true, Courses: out})
}

func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.catalog == nil {
		writeInternalError(w)
		return
	}

	course, err := h.catalog.GetBySlug(chi.URLParam(r, "slug"))
	if err != nil {
		if errors.Is(err, catalogsvc.ErrCourseNotFound) {
			httperrors.Write(w, http.StatusNotFound, httperrors.APIError{Error: "Course not found"})
			return
		}
		writeInternalError(w)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.CourseItemResponse{OK: true, Course: courseToDTO(course)})
}

func courseToDTO(course model.Course) dto.CourseResponse {
	modes := make([]string, 0, len(course.DeliveryModes))
	for _, mode := range course.DeliveryModes {
		modes = append(modes, string(mode))
	}
	return dto.CourseResponse{
		ID:            course.ID,
		Slug:          course.Slug,
		Title:         course.Title,
		Description:   course.Description,
		Category:      string(course.Category),
		DeliveryModes: modes,
		Level:         course.Level,
		DurationHours: course.DurationHours,
		PriceUsd:      course.PriceUsd,
		Currency:      course.Currency,
		Featured:      course.Featured,
	}
}
