package dynamo

import (
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/money-tracker-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildUpdateExpr_SingleField(t *testing.T) {
	ue, err := buildUpdateExpr(map[string]interface{}{"person": "Alex"})
	require.NoError(t, err)
	assert.Equal(t, "SET #f0 = :v0", ue.Expr)
	assert.Equal(t, map[string]string{"#f0": "person"}, ue.Names)
	_, ok := ue.Values[":v0"]
	assert.True(t, ok)
}

func TestBuildUpdateExpr_MultipleFields_Deterministic(t *testing.T) {
	updates := map[string]interface{}{
		"status":          "paid",
		"currency":        "USD",
		"transactionDate": "2024-02-01",
	}
	// Call twice to verify determinism.
	ue1, err := buildUpdateExpr(updates)
	require.NoError(t, err)
	ue2, err := buildUpdateExpr(updates)
	require.NoError(t, err)

	assert.Equal(t, ue1.Expr, ue2.Expr)

	// Keys must be sorted: currency < status < transactionDate
	assert.Equal(t, "currency", ue1.Names["#f0"])
	assert.Equal(t, "status", ue1.Names["#f1"])
	assert.Equal(t, "transactionDate", ue1.Names["#f2"])
	assert.Equal(t, "SET #f0 = :v0, #f1 = :v1, #f2 = :v2", ue1.Expr)
}

func TestBuildUpdateExpr_NilBecomesNull(t *testing.T) {
	var deadline *string
	ue, err := buildUpdateExpr(map[string]interface{}{"deadline": deadline})
	require.NoError(t, err)
	_, isNull := ue.Values[":v0"].(*types.AttributeValueMemberNULL)
	assert.True(t, isNull)
}

func TestBuildUpdateExpr_EmptyMap_ReturnsError(t *testing.T) {
	_, err := buildUpdateExpr(map[string]interface{}{})
	assert.ErrorContains(t, err, "no fields to update")
}

func TestNotFoundOnConditionFailure(t *testing.T) {
	err := notFoundOnConditionFailure(&types.ConditionalCheckFailedException{}, "transaction")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	other := errors.New("throttled")
	assert.Equal(t, other, notFoundOnConditionFailure(other, "transaction"))
}
