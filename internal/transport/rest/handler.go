package rest

import (
	"context"
	"net/http"
	"time"

	"nacospay/internal/domain"
	"nacospay/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type MemberRegistrar interface {
	Register(ctx context.Context, in service.RegisterInput) (*domain.Member, error)
	Login(ctx context.Context, email, password string) (string, *domain.Member, error)
}

type PaymentFlow interface {
	Initiate(ctx context.Context, member *domain.Member, feeItemID int) (*service.InitiationResult, error)
	VerifyAndRecord(ctx context.Context, member *domain.Member, reference string) (*domain.TransactionRecord, error)
	Cancel(ctx context.Context, member *domain.Member, reference string) error
}

type DashboardProvider interface {
	Dashboard(ctx context.Context, member *domain.Member) (*domain.Dashboard, error)
}

type ReceiptProvider interface {
	Generate(ctx context.Context, member *domain.Member, reference string) (*service.ReceiptArtifact, error)
}

type Handler struct {
	members   MemberRegistrar
	payments  PaymentFlow
	dashboard DashboardProvider
	receipts  ReceiptProvider
}

func NewHandler(members MemberRegistrar, payments PaymentFlow, dashboard DashboardProvider, receipts ReceiptProvider) *Handler {
	return &Handler{
		members:   members,
		payments:  payments,
		dashboard: dashboard,
		receipts:  receipts,
	}
}

func (h *Handler) InitRouter(authMiddleware func(http.Handler) http.Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		middleware.Timeout(60*time.Second),
	)

	r.Post("/register", h.register)
	r.Post("/login", h.login)

	r.Group(func(r chi.Router) {
		if authMiddleware != nil {
			r.Use(authMiddleware)
		}

		r.Get("/catalog", h.listCatalog)
		r.Get("/dashboard", h.getDashboard)

		r.Route("/payments", func(r chi.Router) {
			r.Post("/initiate", h.initiatePayment)
			r.Get("/verify/{reference}", h.verifyPayment)
			r.Post("/cancel/{reference}", h.cancelPayment)
		})

		r.Post("/receipts/{reference}", h.generateReceipt)
	})

	return r
}
