package contact

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/money-tracker-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// --- mocks ---

type mockStore struct{ mock.Mock }

func (m *mockStore) Put(ctx context.Context, msg *domain.ContactMessage) error {
	return m.Called(ctx, msg).Error(0)
}

type mockMailer struct{ mock.Mock }

func (m *mockMailer) Send(ctx context.Context, e domain.Email) error {
	return m.Called(ctx, e).Error(0)
}

type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) Publish(ctx context.Context, subject, message string) error {
	return m.Called(ctx, subject, message).Error(0)
}

// --- helpers ---

var ident = &domain.Identity{Subject: "sub-1"}

func validReq() domain.ContactRequest {
	return domain.ContactRequest{Name: "Ann", Email: "ann@example.com", Message: "Hello <b>there</b>"}
}

func toInbox(e domain.Email) bool  { return len(e.To) == 1 && e.To[0] == "inbox@site.io" }
func toSender(e domain.Email) bool { return len(e.To) == 1 && e.To[0] == "ann@example.com" }

func statuses(rc *Receipt) []string {
	out := make([]string, len(rc.Steps))
	for i, s := range rc.Steps {
		out[i] = s.Name + "=" + s.Status
	}
	return out
}

func newSvc(st *mockStore, ml *mockMailer, pub *mockPublisher) Service {
	deps := ServiceDeps{Repo: st, Mailer: ml, MailFrom: "noreply@site.io", Inbox: "inbox@site.io", Log: zap.NewNop()}
	if pub != nil {
		deps.Alerts = pub
	}
	return NewService(deps)
}

// --- tests ---

func TestSubmit_AllStepsSucceed(t *testing.T) {
	st, ml, pub := &mockStore{}, &mockMailer{}, &mockPublisher{}
	st.On("Put", mock.Anything, mock.MatchedBy(func(m *domain.ContactMessage) bool {
		return m.UserID == "sub-1" && m.MessageID != "" && m.Email == "ann@example.com"
	})).Return(nil)
	ml.On("Send", mock.Anything, mock.MatchedBy(func(e domain.Email) bool {
		return toInbox(e) && e.ReplyTo[0] == "ann@example.com" && e.From == "noreply@site.io" &&
			strings.Contains(e.HTML, "&lt;b&gt;there&lt;/b&gt;")
	})).Return(nil).Once()
	ml.On("Send", mock.Anything, mock.MatchedBy(toSender)).Return(nil).Once()
	pub.On("Publish", mock.Anything, "New contact message from Ann", mock.Anything).Return(nil)

	rc, err := newSvc(st, ml, pub).Submit(context.Background(), ident, validReq())

	require.NoError(t, err)
	assert.NotEmpty(t, rc.MessageID)
	assert.Equal(t, []string{"store=ok", "notify_inbox=ok", "confirm_sender=ok", "alert=ok"}, statuses(rc))
	st.AssertExpectations(t)
	ml.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestSubmit_NoTopicSkipsAlert(t *testing.T) {
	st, ml := &mockStore{}, &mockMailer{}
	st.On("Put", mock.Anything, mock.Anything).Return(nil)
	ml.On("Send", mock.Anything, mock.Anything).Return(nil)

	rc, err := newSvc(st, ml, nil).Submit(context.Background(), ident, validReq())

	require.NoError(t, err)
	assert.Equal(t, "alert=skipped", statuses(rc)[3])
}

func TestSubmit_StoreFailureSendsNothing(t *testing.T) {
	st, ml := &mockStore{}, &mockMailer{}
	st.On("Put", mock.Anything, mock.Anything).Return(errors.New("throttled"))

	rc, err := newSvc(st, ml, nil).Submit(context.Background(), ident, validReq())

	require.Error(t, err)
	assert.Empty(t, rc.MessageID)
	assert.Equal(t, []string{"store=failed", "notify_inbox=skipped", "confirm_sender=skipped", "alert=skipped"}, statuses(rc))
	ml.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestSubmit_InboxFailureStillConfirms(t *testing.T) {
	st, ml := &mockStore{}, &mockMailer{}
	st.On("Put", mock.Anything, mock.Anything).Return(nil)
	ml.On("Send", mock.Anything, mock.MatchedBy(toInbox)).Return(errors.New("ses rejected")).Once()
	ml.On("Send", mock.Anything, mock.MatchedBy(toSender)).Return(nil).Once()

	rc, err := newSvc(st, ml, nil).Submit(context.Background(), ident, validReq())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "notify_inbox")
	assert.NotEmpty(t, rc.MessageID)
	assert.Equal(t, []string{"store=ok", "notify_inbox=failed", "confirm_sender=ok", "alert=skipped"}, statuses(rc))
	ml.AssertExpectations(t)
}

func TestSubmit_AggregatesFailures(t *testing.T) {
	st, ml, pub := &mockStore{}, &mockMailer{}, &mockPublisher{}
	st.On("Put", mock.Anything, mock.Anything).Return(nil)
	ml.On("Send", mock.Anything, mock.Anything).Return(errors.New("smtp down"))
	pub.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("sns down"))

	_, err := newSvc(st, ml, pub).Submit(context.Background(), ident, validReq())

	require.Error(t, err)
	for _, want := range []string{"notify_inbox", "confirm_sender", "alert", "sns down"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestSubmit_Invalid(t *testing.T) {
	long := strings.Repeat("x", 5001)
	for name, req := range map[string]domain.ContactRequest{
		"missing name":  {Email: "a@b.io", Message: "m"},
		"blank name":    {Name: "   ", Email: "a@b.io", Message: "m"},
		"bad email":     {Name: "A", Email: "nope", Message: "m"},
		"empty message": {Name: "A", Email: "a@b.io"},
		"long message":  {Name: "A", Email: "a@b.io", Message: long},
	} {
		t.Run(name, func(t *testing.T) {
			st := &mockStore{}
			_, err := newSvc(st, &mockMailer{}, nil).Submit(context.Background(), ident, req)

			assert.True(t, errors.Is(err, domain.ErrBadRequest), "got %v", err)
			st.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
		})
	}
}
