package handlers

import (
	"net/http"

	authsvc "github.com/edudubai/platform/backend/internal/services/auth"
	dashsvc "github.com/edudubai/platform/backend/internal/services/dashboard"
	pgrepo "github.com/edudubai/platform/backend/internal/repo/postgres"
	"github.com/edudubai/platform/backend/internal/transport/http/dto"
	httperrors "github.com/edudubai/platform/backend/internal/transport/http/errors"
)

type DashboardHandler struct {
	dashboard *dashsvc.Service
}

func NewDashboardHandler(dashboard *dashsvc.Service) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

func (h *DashboardHandler) Enrollments(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if h.dashboard == nil {
		writeInternalError(w)
		return
	}

	records, err := h.dashboard.Enrollments(r.Context(), identity.UserID)
	if err != nil {
		writeInternalError(w)
		return
	}

	out := make([]dto.EnrollmentResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, enrollmentToDTO(rec))
	}
	httperrors.Write(w, http.StatusOK, dto.EnrollmentListResponse{OK: true, Enrollments: out})
}

func (h *DashboardHandler) Payments(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if h.dashboard == nil {
		writeInternalError(w)
		return
	}

	records, err := h.dashboard.Payments(r.Context(), identity.UserID)
	if err != nil {
		writeInternalError(w)
		return
	}

	out := make([]dto.PaymentResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, dto.PaymentResponse{
			ID:         rec.ID,
			OrderID:    rec.OrderID,
			PaymentID:  rec.PaymentID,
			CourseSlug: rec.CourseSlug,
			AmountUsd:  rec.AmountUsd,
			Currency:   rec.Currency,
			Status:     rec.Status,
			CreatedAt:  rec.CreatedAt,
		})
	}
	httperrors.Write(w, http.StatusOK, dto.PaymentListResponse{OK: true, Payments: out})
}

func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if h.dashboard == nil {
		writeInternalError(w)
		return
	}

	stats, err := h.dashboard.Stats(r.Context(), identity.UserID)
	if err != nil {
		writeInternalError(w)
		return
	}

	resp := dto.DashboardStatsResponse{
		OK:               true,
		ActiveCourses:    stats.ActiveCourses,
		CompletedCourses: stats.CompletedCourses,
		PaymentsCount:    stats.PaymentsCount,
	}
	if stats.ContinueLearning != nil {
		enr := enrollmentToDTO(*stats.ContinueLearning)
		resp.ContinueLearning = &enr
	}
	httperrors.Write(w, http.StatusOK, resp)
}

func requireIdentity(w http.ResponseWriter, r *http.Request) (authsvc.Identity, bool) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeAuthRequired(w)
		return authsvc.Identity{}, false
	}
	return identity, true
}

func enrollmentToDTO(rec pgrepo.EnrollmentRecord) dto.EnrollmentResponse {
	return dto.EnrollmentResponse{
		ID:           rec.ID,
		CourseSlug:   rec.CourseSlug,
		CourseTitle:  rec.CourseTitle,
		DeliveryMode: rec.DeliveryMode,
		Status:       rec.Status,
		StartDate:    rec.StartDate,
		CreatedAt:    rec.CreatedAt,
	}
}
