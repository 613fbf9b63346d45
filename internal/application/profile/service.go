package profile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/gabriel-vasile/mimetype"
	"github.com/money-tracker-api/internal/domain"
	"github.com/money-tracker-api/internal/pkg/id"
	"github.com/money-tracker-api/internal/pkg/validate"
	"go.uber.org/zap"
)

// ErrNoAvatar is returned when deleting an avatar that was never set.
var ErrNoAvatar = fmt.Errorf("no avatar set: %w", domain.ErrBadRequest)

// Updatable profile attributes and their rules.
var updatableFields = map[string]string{
	"username": "required,max=100",
	"email":    "required,email",
	"address":  "max=500",
}

type Service interface {
	// Get returns the caller's profile, creating it from the identity on first use.
	Get(ctx context.Context, ident *domain.Identity) (*domain.Profile, error)
	Update(ctx context.Context, ident *domain.Identity, patch map[string]json.RawMessage) (*domain.Profile, error)
	UploadAvatar(ctx context.Context, ident *domain.Identity, filename string, r io.Reader) (*domain.Profile, error)
	DeleteAvatar(ctx context.Context, ident *domain.Identity) error
	GetAvatar(ctx context.Context, ident *domain.Identity) (*domain.Object, error)
}

type profileStore interface {
	Get(ctx context.Context, userID string) (*domain.Profile, error)
	Create(ctx context.Context, p *domain.Profile) error
	Update(ctx context.Context, userID string, updates map[string]interface{}) (*domain.Profile, error)
	SetAvatar(ctx context.Context, userID, url, key string) (*domain.Profile, error)
	ClearAvatar(ctx context.Context, userID string) error
}

type objectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	Download(ctx context.Context, key string) (*domain.Object, error)
	Delete(ctx context.Context, key string) error
	KeyFromURL(url string) (string, bool)
}

type service struct {
	repo    profileStore
	objects objectStore
	log     *zap.Logger
}

func NewService(repo profileStore, objects objectStore, log *zap.Logger) Service {
	return &service{repo: repo, objects: objects, log: log}
}

func (s *service) Get(ctx context.Context, ident *domain.Identity) (*domain.Profile, error) {
	p, err := s.repo.Get(ctx, ident.Subject)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	p = &domain.Profile{
		UserID:    ident.Subject,
		Username:  ident.Username,
		Email:     ident.Email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	switch err := s.repo.Create(ctx, p); {
	case err == nil:
		s.log.Info("profile created", zap.String("user_id", ident.Subject))
		return p, nil
	case errors.Is(err, domain.ErrConflict):
		// a concurrent request created it first
		return s.repo.Get(ctx, ident.Subject)
	default:
		return nil, err
	}
}

func (s *service) Update(ctx context.Context, ident *domain.Identity, patch map[string]json.RawMessage) (*domain.Profile, error) {
	if len(patch) == 0 {
		return nil, fmt.Errorf("no update data provided: %w", domain.ErrBadRequest)
	}
	updates := make(map[string]interface{}, len(patch))
	for k, raw := range patch {
		tag, ok := updatableFields[k]
		if !ok {
			return nil, fmt.Errorf("field '%s' cannot be updated: %w", k, domain.ErrBadRequest)
		}
		var v string
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("field '%s' must be a string: %w", k, domain.ErrBadRequest)
		}
		if err := validate.Var(k, v, tag); err != nil {
			return nil, err
		}
		updates[k] = v
	}
	if _, err := s.Get(ctx, ident); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, ident.Subject, updates)
}

func (s *service) UploadAvatar(ctx context.Context, ident *domain.Identity, filename string, r io.Reader) (*domain.Profile, error) {
	var head bytes.Buffer
	mt, err := mimetype.DetectReader(io.TeeReader(r, &head))
	if err != nil {
		return nil, fmt.Errorf("read avatar: %w", err)
	}
	if !strings.HasPrefix(mt.String(), "image/") || mt.Is("image/svg+xml") {
		return nil, fmt.Errorf("avatar must be an image, got %s: %w", mt.String(), domain.ErrBadRequest)
	}

	current, err := s.Get(ctx, ident)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("avatars/%s/%s.%s", ident.Subject, id.NewUUID(), extension(filename))
	url, err := s.objects.Upload(ctx, key, io.MultiReader(&head, r), mt.String())
	if err != nil {
		return nil, err
	}

	if old := s.avatarKey(current); old != "" && old != key {
		if err := s.objects.Delete(ctx, old); err != nil {
			s.log.Warn("delete previous avatar failed",
				zap.String("user_id", ident.Subject), zap.String("key", old), zap.Error(err))
		}
	}
	return s.repo.SetAvatar(ctx, ident.Subject, url, key)
}

func (s *service) DeleteAvatar(ctx context.Context, ident *domain.Identity) error {
	p, err := s.Get(ctx, ident)
	if err != nil {
		return err
	}
	if p.Avatar == nil || *p.Avatar == "" {
		return ErrNoAvatar
	}
	if key := s.avatarKey(p); key != "" {
		if err := s.objects.Delete(ctx, key); err != nil {
			return err
		}
	}
	return s.repo.ClearAvatar(ctx, ident.Subject)
}

func (s *service) GetAvatar(ctx context.Context, ident *domain.Identity) (*domain.Object, error) {
	p, err := s.Get(ctx, ident)
	if err != nil {
		return nil, err
	}
	key := s.avatarKey(p)
	if key == "" {
		return nil, fmt.Errorf("avatar: %w", domain.ErrNotFound)
	}
	return s.objects.Download(ctx, key)
}

// avatarKey prefers the recorded object key and falls back to parsing the URL.
func (s *service) avatarKey(p *domain.Profile) string {
	if p.AvatarKey != "" {
		return p.AvatarKey
	}
	if p.Avatar == nil || *p.Avatar == "" {
		return ""
	}
	key, _ := s.objects.KeyFromURL(*p.Avatar)
	return key
}

// extension returns the lowercased alphanumeric extension of name, or jpg.
func extension(name string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	ext = strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return r
		}
		return -1
	}, ext)
	if ext == "" {
		return "jpg"
	}
	return ext
}
