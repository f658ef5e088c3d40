package apiapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/edudubai/platform/backend/internal/config"
	"github.com/edudubai/platform/backend/internal/infra/email"
	"github.com/edudubai/platform/backend/internal/infra/httpclient"
	"github.com/edudubai/platform/backend/internal/infra/razorpay"
	"github.com/edudubai/platform/backend/internal/infra/supabase"
	"github.com/edudubai/platform/backend/internal/infra/systeme"
	pgrepo "github.com/edudubai/platform/backend/internal/repo/postgres"
	redrepo "github.com/edudubai/platform/backend/internal/repo/redis"
	authsvc "github.com/edudubai/platform/backend/internal/services/auth"
	catalogsvc "github.com/edudubai/platform/backend/internal/services/catalog"
	crmsvc "github.com/edudubai/platform/backend/internal/services/crm"
	dashsvc "github.com/edudubai/platform/backend/internal/services/dashboard"
	notifysvc "github.com/edudubai/platform/backend/internal/services/notify"
	paymentsvc "github.com/edudubai/platform/backend/internal/services/payments"
)

type App struct {
	cfg        config.Config
	logger     *zap.Logger
	server     *http.Server
	postgres   *pgxpool.Pool
	redis      *goredis.Client
	httpRouter http.Handler
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	r := chi.NewRouter()
	ApplyMiddlewares(r, log)

	var pool *pgxpool.Pool
	if p, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN); err != nil {
		log.Warn("postgres init failed, continuing in degraded mode", zap.Error(err))
	} else {
		pool = p
	}

	redisClient := redrepo.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	sessionRepo := redrepo.NewSessionRepo(redisClient)
	paymentRepo := pgrepo.NewPaymentRepo(pool)
	enrollmentRepo := pgrepo.NewEnrollmentRepo(pool)

	outbound := httpclient.New(15 * time.Second)

	var supabaseClient *supabase.Client
	if c, err := supabase.NewClient(supabase.Config{
		BaseURL: cfg.Supabase.BaseURL,
		AnonKey: cfg.Supabase.AnonKey,
	}, outbound); err != nil {
		log.Warn("identity provider init failed, continuing in degraded mode", zap.Error(err))
	} else {
		supabaseClient = c
	}

	jwtManager := authsvc.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTAccessTTL)
	var provider authsvc.ProviderVerifier
	if supabaseClient != nil {
		provider = supabaseClient
	}
	authService := authsvc.NewService(jwtManager, sessionRepo, provider)

	catalogService := catalogsvc.NewService(nil)

	var orderClient *razorpay.Client
	if c, err := razorpay.NewClient(razorpay.Config{
		BaseURL:   cfg.Razorpay.BaseURL,
		KeyID:     cfg.Razorpay.KeyID,
		KeySecret: cfg.Razorpay.KeySecret,
	}, outbound); err != nil {
		log.Warn("payment provider init failed, continuing in degraded mode", zap.Error(err))
	} else {
		orderClient = c
	}

	var mailer notifysvc.Mailer
	if c, err := email.NewResendClient(email.Config{
		BaseURL: cfg.Email.BaseURL,
		APIKey:  cfg.Email.APIKey,
		From:    cfg.Email.From,
	}, outbound); err != nil {
		log.Warn("mail provider init failed, continuing in degraded mode", zap.Error(err))
	} else {
		mailer = c
	}
	notifyService := notifysvc.NewService(mailer, cfg.Email.AdminEmail)

	var crmService *crmsvc.Service
	if c, err := systeme.NewClient(systeme.Config{
		BaseURL: cfg.CRM.BaseURL,
		APIKey:  cfg.CRM.APIKey,
	}, outbound); err != nil {
		log.Warn("crm init failed, continuing without enrollment sync", zap.Error(err))
	} else {
		crmService = crmsvc.NewService(c)
	}

	paymentDeps := paymentsvc.Dependencies{
		Catalog:           catalogService,
		Payments:          paymentRepo,
		Enrollments:       enrollmentRepo,
		Notifier:          notifyService,
		KeySecret:         cfg.Razorpay.KeySecret,
		WebhookSecret:     cfg.Razorpay.WebhookSecret,
		SideEffectTimeout: cfg.SideEffects.Timeout,
	}
	if orderClient != nil {
		paymentDeps.Orders = orderClient
	}
	if crmService != nil {
		paymentDeps.CRM = crmService
	}
	paymentService := paymentsvc.NewService(paymentDeps, log)

	dashboardService := dashsvc.NewService(enrollmentRepo, paymentRepo)

	RegisterRoutes(r, Dependencies{
		AuthService:      authService,
		CatalogService:   catalogService,
		PaymentService:   paymentService,
		DashboardService: dashboardService,
		Logger:           log,
		Config:           cfg,
	})

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	return &App{
		cfg:        cfg,
		logger:     log,
		server:     server,
		postgres:   pool,
		redis:      redisClient,
		httpRouter: r,
	}, nil
}

func (a *App) Run() error {
	a.logger.Info("api server started", zap.String("addr", a.cfg.HTTP.Addr))
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error

	if err := a.server.Shutdown(ctx); err != nil {
		shutdownErr = err
	}
	if a.postgres != nil {
		a.postgres.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}

	return shutdownErr
}

func (a *App) Handler() http.Handler {
	return a.httpRouter
}
