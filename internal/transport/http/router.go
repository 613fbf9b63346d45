package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/money-tracker-api/internal/application/contact"
	"github.com/money-tracker-api/internal/application/profile"
	"github.com/money-tracker-api/internal/application/transaction"
	"github.com/money-tracker-api/internal/config"
	"github.com/money-tracker-api/internal/transport/http/handler"
	appmiddleware "github.com/money-tracker-api/internal/transport/http/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// NewRouter builds the application router. The returned stop func releases
// the router's background workers and should be called on shutdown.
func NewRouter(cfg *config.Config, deps *Deps, log *zap.Logger) (http.Handler, func()) {
	r := chi.NewRouter()
	if cfg.TrustProxy {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(chimiddleware.RequestID)
	r.Use(appmiddleware.RequestLogger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	contactRL := appmiddleware.NewRateLimiter(rate.Limit(cfg.ContactRatePerSec), cfg.ContactRateBurst)

	txSvc := transaction.NewService(deps.TransactionRepo, cfg.DefaultCurrency)
	profileSvc := profile.NewService(deps.ProfileRepo, deps.Objects, log)
	contactSvc := contact.NewService(contact.ServiceDeps{
		Repo:     deps.ContactRepo,
		Mailer:   deps.Mailer,
		Alerts:   deps.Alerts,
		MailFrom: cfg.MailFrom,
		Inbox:    cfg.ContactInbox,
		Log:      log,
	})

	healthH := handler.NewHealthHandler()
	txH := handler.NewTransactionHandler(txSvc, log)
	profileH := handler.NewProfileHandler(profileSvc, cfg.AvatarMaxBytes, log)
	contactH := handler.NewContactHandler(contactSvc, log)

	// ── Public routes (no auth) ──────────────────────────────────────────
	r.Get("/health", healthH.Health)

	// ── Authenticated routes ─────────────────────────────────────────────
	r.Route("/api", func(r chi.Router) {
		r.Use(appmiddleware.Auth(deps.Verifier, log))

		r.Get("/transactions", txH.List)
		r.Post("/transactions", txH.Create)
		r.Get("/transactions/{id}", txH.Get)
		r.Put("/transactions/{id}", txH.Update)
		r.Delete("/transactions/{id}", txH.Delete)
		r.Put("/transactions/{id}/mark-paid", txH.MarkPaid)
		r.Delete("/transactions/person/{name}", txH.DeleteByPerson)

		r.Get("/profile", profileH.Get)
		r.Put("/profile", profileH.Update)
		r.Get("/profile/avatar", profileH.GetAvatar)
		r.Put("/profile/avatar", profileH.UploadAvatar)
		r.Delete("/profile/avatar", profileH.DeleteAvatar)

		r.With(contactRL.Limit).Post("/contact", contactH.Submit)
	})

	return r, contactRL.Stop
}
