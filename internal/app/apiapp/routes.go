package apiapp

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/edudubai/platform/backend/internal/config"
	authsvc "github.com/edudubai/platform/backend/internal/services/auth"
	catalogsvc "github.com/edudubai/platform/backend/internal/services/catalog"
	dashsvc "github.com/edudubai/platform/backend/internal/services/dashboard"
	paymentsvc "github.com/edudubai/platform/backend/internal/services/payments"
	"github.com/edudubai/platform/backend/internal/transport/http/handlers"
)

type Dependencies struct {
	AuthService      *authsvc.Service
	CatalogService   *catalogsvc.Service
	PaymentService   *paymentsvc.Service
	DashboardService *dashsvc.Service
	Logger           *zap.Logger
	Config           config.Config
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	healthHandler := handlers.NewHealthHandler(deps.Config.Env)
	authHandler := handlers.NewAuthHandler(deps.AuthService)
	catalogHandler := handlers.NewCatalogHandler(deps.CatalogService)
	paymentsHandler := handlers.NewPaymentsHandler(deps.PaymentService)
	dashboardHandler := handlers.NewDashboardHandler(deps.DashboardService)

	requireAuth := AuthMiddleware(deps.AuthService, deps.Logger)
	optionalAuth := OptionalAuthMiddleware(deps.AuthService)

	r.Get("/healthz", healthHandler.Handle)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/auth/session", authHandler.Session)
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/auth/logout", authHandler.Logout)
			r.Post("/auth/logout_all", authHandler.LogoutAll)
		})

		r.Get("/courses", catalogHandler.List)
		r.Get("/courses/{slug}", catalogHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/payments/order", paymentsHandler.CreateOrder)
		})
		r.Group(func(r chi.Router) {
			r.Use(optionalAuth)
			r.Post("/payments/verify", paymentsHandler.Verify)
		})
		r.Post("/webhooks/razorpay", paymentsHandler.Webhook)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/dashboard/enrollments", dashboardHandler.Enrollments)
			r.Get("/dashboard/payments", dashboardHandler.Payments)
			r.Get("/dashboard/stats", dashboardHandler.Stats)
		})
	})
}
