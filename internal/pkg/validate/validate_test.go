package validate

import (
	"errors"
	"testing"

	"github.com/money-tracker-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStruct_ReportsFieldsAndWrapsBadRequest(t *testing.T) {
	err := Struct(domain.ContactRequest{Email: "not-an-email"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
	assert.Contains(t, err.Error(), "field 'Name' failed 'required'")
	assert.Contains(t, err.Error(), "field 'Email' failed 'email'")
}

func TestStruct_Valid(t *testing.T) {
	assert.NoError(t, Struct(domain.ContactRequest{Name: "A", Email: "a@b.co", Message: "hi"}))
}

func TestStruct_NameMustBeSingleLine(t *testing.T) {
	err := Struct(domain.ContactRequest{Name: "Eve\r\nBcc: victim@example.com", Email: "eve@b.co", Message: "hi"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
	assert.Contains(t, err.Error(), "field 'Name' failed 'singleline'")

	assert.Error(t, Var("name", "Eve\nX", "singleline"))
}

func TestVar_UsesGivenName(t *testing.T) {
	err := Var("status", "archived", "oneof=unpaid paid")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
	assert.Equal(t, "field 'status' failed 'oneof': bad request", err.Error())

	assert.NoError(t, Var("status", "paid", "oneof=unpaid paid"))
}
