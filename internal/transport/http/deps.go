package http

import (
	"context"
	"io"

	"github.com/money-tracker-api/internal/domain"
	"github.com/money-tracker-api/internal/transport/http/middleware"
)

// TransactionRepository is the minimal interface the router requires from a transaction store.
type TransactionRepository interface {
	Put(ctx context.Context, t *domain.Transaction) error
	Get(ctx context.Context, userID, transactionID string) (*domain.Transaction, error)
	// ListByUser returns the whole partition; it follows pagination to the end.
	ListByUser(ctx context.Context, userID string) ([]domain.Transaction, error)
	Update(ctx context.Context, userID, transactionID string, updates map[string]interface{}) (*domain.Transaction, error)
	MarkPaid(ctx context.Context, userID, transactionID string) (*domain.Transaction, error)
	Delete(ctx context.Context, userID, transactionID string) error
	BatchDelete(ctx context.Context, userID string, transactionIDs []string) (int, error)
}

// ProfileRepository is the minimal interface the router requires from a profile store.
type ProfileRepository interface {
	Get(ctx context.Context, userID string) (*domain.Profile, error)
	Create(ctx context.Context, p *domain.Profile) error
	Update(ctx context.Context, userID string, updates map[string]interface{}) (*domain.Profile, error)
	SetAvatar(ctx context.Context, userID, url, key string) (*domain.Profile, error)
	ClearAvatar(ctx context.Context, userID string) error
}

// ContactRepository is the minimal interface the router requires from a contact-message store.
type ContactRepository interface {
	Put(ctx context.Context, m *domain.ContactMessage) error
}

// ObjectStore is the minimal interface the router requires from an object storage backend.
type ObjectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	Download(ctx context.Context, key string) (*domain.Object, error)
	Delete(ctx context.Context, key string) error
	KeyFromURL(url string) (string, bool)
}

// Mailer delivers one email.
type Mailer interface {
	Send(ctx context.Context, e domain.Email) error
}

// AlertPublisher fans out operator alerts.
type AlertPublisher interface {
	Publish(ctx context.Context, subject, message string) error
}

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	Verifier        middleware.TokenVerifier
	TransactionRepo TransactionRepository
	ProfileRepo     ProfileRepository
	ContactRepo     ContactRepository
	Objects         ObjectStore
	Mailer          Mailer
	Alerts          AlertPublisher // nil disables contact alerts
}
