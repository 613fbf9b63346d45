package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/money-tracker-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type mockVerifier struct{ mock.Mock }

func (m *mockVerifier) Verify(token string) (*domain.Identity, error) {
	args := m.Called(token)
	id, _ := args.Get(0).(*domain.Identity)
	return id, args.Error(1)
}

func okHandler(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }

func serve(v TokenVerifier, header string, next http.HandlerFunc) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rr := httptest.NewRecorder()
	Auth(v, zap.NewNop())(next).ServeHTTP(rr, req)
	return rr
}

func TestAuth_RejectsWithoutCallingVerifier(t *testing.T) {
	for _, h := range []string{"", "Basic dXNlcjpwYXNz", "Bearer", "Bearer ", "Bearer    ", "bearer abc", "Token abc"} {
		t.Run(h, func(t *testing.T) {
			v := &mockVerifier{}
			rr := serve(v, h, okHandler)

			assert.Equal(t, http.StatusUnauthorized, rr.Code)
			assert.JSONEq(t, `{"error":"unauthorized"}`, rr.Body.String())
			v.AssertNotCalled(t, "Verify", mock.Anything)
		})
	}
}

func TestAuth_VerifierFailuresLookTheSame(t *testing.T) {
	var bodies []string
	for _, cause := range []error{
		errors.New("expired"), errors.New("bad signature"), domain.ErrUnauthorized,
	} {
		v := &mockVerifier{}
		v.On("Verify", "tok").Return(nil, cause)

		rr := serve(v, "Bearer tok", okHandler)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
		bodies = append(bodies, rr.Body.String())
	}
	assert.Equal(t, bodies[0], bodies[1])
	assert.Equal(t, bodies[1], bodies[2])
}

func TestAuth_ValidTokenInjectsIdentity(t *testing.T) {
	v := &mockVerifier{}
	v.On("Verify", "good").Return(&domain.Identity{Subject: "sub-1", Email: "a@b.c"}, nil)

	var got *domain.Identity
	rr := serve(v, "Bearer good", func(w http.ResponseWriter, r *http.Request) {
		got, _ = IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, rr.Code)
	if assert.NotNil(t, got) {
		assert.Equal(t, "sub-1", got.Subject)
	}
}

func TestIdentityFromContext_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := IdentityFromContext(req.Context())
	assert.False(t, ok)
}
