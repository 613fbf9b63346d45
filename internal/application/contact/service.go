package contact

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/money-tracker-api/internal/domain"
	"github.com/money-tracker-api/internal/pkg/id"
	"github.com/money-tracker-api/internal/pkg/validate"
	"go.uber.org/zap"
)

// Step names reported in a Receipt.
const (
	StepStore   = "store"
	StepInbox   = "notify_inbox"
	StepConfirm = "confirm_sender"
	StepAlert   = "alert"
)

// Step outcomes.
const (
	StatusOK      = "ok"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

type Step struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

// Receipt reports which steps of a submission succeeded.
type Receipt struct {
	MessageID string `json:"message_id,omitempty"`
	Steps     []Step `json:"steps"`
}

type Service interface {
	// Submit stores the message and then runs every notification step even
	// if an earlier one fails. The receipt is returned alongside any error.
	Submit(ctx context.Context, ident *domain.Identity, req domain.ContactRequest) (*Receipt, error)
}

type messageStore interface {
	Put(ctx context.Context, m *domain.ContactMessage) error
}

type mailer interface {
	Send(ctx context.Context, e domain.Email) error
}

type publisher interface {
	Publish(ctx context.Context, subject, message string) error
}

type service struct {
	repo     messageStore
	mailer   mailer
	alerts   publisher
	mailFrom string
	inbox    string
	log      *zap.Logger
}

type ServiceDeps struct {
	Repo     messageStore
	Mailer   mailer
	Alerts   publisher // optional
	MailFrom string
	Inbox    string
	Log      *zap.Logger
}

func NewService(deps ServiceDeps) Service {
	return &service{
		repo:     deps.Repo,
		mailer:   deps.Mailer,
		alerts:   deps.Alerts,
		mailFrom: deps.MailFrom,
		inbox:    deps.Inbox,
		log:      deps.Log,
	}
}

func (s *service) Submit(ctx context.Context, ident *domain.Identity, req domain.ContactRequest) (*Receipt, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	msg := &domain.ContactMessage{
		MessageID: id.New(),
		UserID:    ident.Subject,
		Name:      req.Name,
		Email:     req.Email,
		Message:   req.Message,
		CreatedAt: time.Now().UTC(),
	}
	rc := &Receipt{}
	if err := s.repo.Put(ctx, msg); err != nil {
		rc.Steps = []Step{
			{StepStore, StatusFailed},
			{StepInbox, StatusSkipped},
			{StepConfirm, StatusSkipped},
			{StepAlert, StatusSkipped},
		}
		return rc, fmt.Errorf("store contact message: %w", err)
	}
	rc.MessageID = msg.MessageID
	rc.Steps = append(rc.Steps, Step{StepStore, StatusOK})

	var result *multierror.Error
	run := func(name string, fn func() error) {
		if err := fn(); err != nil {
			s.log.Error("contact step failed",
				zap.String("step", name), zap.String("message_id", msg.MessageID), zap.Error(err))
			result = multierror.Append(result, fmt.Errorf("%s: %w", name, err))
			rc.Steps = append(rc.Steps, Step{name, StatusFailed})
			return
		}
		rc.Steps = append(rc.Steps, Step{name, StatusOK})
	}

	run(StepInbox, func() error { return s.mailer.Send(ctx, inboxEmail(s.mailFrom, s.inbox, msg)) })
	run(StepConfirm, func() error { return s.mailer.Send(ctx, confirmationEmail(s.mailFrom, msg)) })
	if s.alerts != nil {
		run(StepAlert, func() error {
			return s.alerts.Publish(ctx, "New contact message from "+msg.Name, alertBody(msg))
		})
	} else {
		rc.Steps = append(rc.Steps, Step{StepAlert, StatusSkipped})
	}

	return rc, result.ErrorOrNil()
}

func inboxEmail(from, inbox string, m *domain.ContactMessage) domain.Email {
	return domain.Email{
		From:    from,
		To:      []string{inbox},
		ReplyTo: []string{m.Email},
		Subject: "New contact message from " + m.Name,
		Text:    alertBody(m),
		HTML: fmt.Sprintf("<p><strong>From:</strong> %s &lt;%s&gt;</p><p><strong>Message ID:</strong> %s</p><p>%s</p>",
			html.EscapeString(m.Name), html.EscapeString(m.Email), m.MessageID, paragraphs(m.Message)),
	}
}

func confirmationEmail(from string, m *domain.ContactMessage) domain.Email {
	return domain.Email{
		From:    from,
		To:      []string{m.Email},
		Subject: "We received your message",
		Text: fmt.Sprintf("Hi %s,\n\nthanks for reaching out. We received your message and will get back to you soon.\n\nYour message:\n%s\n",
			m.Name, m.Message),
		HTML: fmt.Sprintf("<p>Hi %s,</p><p>thanks for reaching out. We received your message and will get back to you soon.</p><blockquote>%s</blockquote>",
			html.EscapeString(m.Name), paragraphs(m.Message)),
	}
}

func alertBody(m *domain.ContactMessage) string {
	return fmt.Sprintf("From: %s <%s>\nUser: %s\nMessage ID: %s\n\n%s\n", m.Name, m.Email, m.UserID, m.MessageID, m.Message)
}

func paragraphs(s string) string {
	return strings.ReplaceAll(html.EscapeString(s), "\n", "<br>")
}
