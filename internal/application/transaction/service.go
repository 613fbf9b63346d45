package transaction

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/money-tracker-api/internal/domain"
	"github.com/money-tracker-api/internal/pkg/id"
	"github.com/money-tracker-api/internal/pkg/validate"
)

type Service interface {
	List(ctx context.Context, userID string) ([]domain.Transaction, error)
	Get(ctx context.Context, userID, transactionID string) (*domain.Transaction, error)
	Create(ctx context.Context, userID string, req domain.CreateTransactionRequest) (*domain.Transaction, error)
	Update(ctx context.Context, userID, transactionID string, patch map[string]json.RawMessage) (*domain.Transaction, error)
	MarkPaid(ctx context.Context, userID, transactionID string) (*domain.Transaction, error)
	Delete(ctx context.Context, userID, transactionID string) error
	// DeleteByPerson removes every transaction whose person equals person
	// exactly and returns how many were deleted, including on failure.
	DeleteByPerson(ctx context.Context, userID, person string) (int, error)
}

type transactionStore interface {
	Put(ctx context.Context, t *domain.Transaction) error
	Get(ctx context.Context, userID, transactionID string) (*domain.Transaction, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Transaction, error)
	Update(ctx context.Context, userID, transactionID string, updates map[string]interface{}) (*domain.Transaction, error)
	MarkPaid(ctx context.Context, userID, transactionID string) (*domain.Transaction, error)
	Delete(ctx context.Context, userID, transactionID string) error
	BatchDelete(ctx context.Context, userID string, transactionIDs []string) (int, error)
}

type service struct {
	repo            transactionStore
	defaultCurrency string
}

func NewService(repo transactionStore, defaultCurrency string) Service {
	return &service{repo: repo, defaultCurrency: defaultCurrency}
}

func (s *service) List(ctx context.Context, userID string) ([]domain.Transaction, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) Get(ctx context.Context, userID, transactionID string) (*domain.Transaction, error) {
	return s.repo.Get(ctx, userID, transactionID)
}

func (s *service) Create(ctx context.Context, userID string, req domain.CreateTransactionRequest) (*domain.Transaction, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("amount must be positive: %w", domain.ErrBadRequest)
	}
	t := &domain.Transaction{
		UserID:          userID,
		TransactionID:   id.NewUUID(),
		Type:            req.Type,
		Person:          req.Person,
		Amount:          *req.Amount,
		Currency:        req.Currency,
		TransactionDate: req.TransactionDate,
		Deadline:        req.Deadline,
		Status:          req.Status,
	}
	if t.Currency == "" {
		t.Currency = s.defaultCurrency
	}
	if t.Status == "" {
		t.Status = domain.TxStatusUnpaid
	}
	if err := s.repo.Put(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *service) Update(ctx context.Context, userID, transactionID string, patch map[string]json.RawMessage) (*domain.Transaction, error) {
	updates, err := buildUpdates(patch)
	if err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, userID, transactionID, updates)
}

func (s *service) MarkPaid(ctx context.Context, userID, transactionID string) (*domain.Transaction, error) {
	return s.repo.MarkPaid(ctx, userID, transactionID)
}

func (s *service) Delete(ctx context.Context, userID, transactionID string) error {
	return s.repo.Delete(ctx, userID, transactionID)
}

func (s *service) DeleteByPerson(ctx context.Context, userID, person string) (int, error) {
	if person == "" {
		return 0, fmt.Errorf("person is required: %w", domain.ErrBadRequest)
	}
	txs, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	var ids []string
	for _, t := range txs {
		if t.Person == person {
			ids = append(ids, t.TransactionID)
		}
	}
	if len(ids) == 0 {
		return 0, nil
	}
	n, err := s.repo.BatchDelete(ctx, userID, ids)
	if err != nil {
		return n, fmt.Errorf("delete transactions for %q: %w", person, err)
	}
	return n, nil
}
