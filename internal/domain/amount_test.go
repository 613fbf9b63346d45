package domain

import (
	"encoding/json"
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmount_JSONNumberAndString(t *testing.T) {
	var a, b Amount
	require.NoError(t, json.Unmarshal([]byte(`50.10`), &a))
	require.NoError(t, json.Unmarshal([]byte(`"50.10"`), &b))
	assert.True(t, a.Equal(b.Decimal))

	out, err := json.Marshal(a)
	require.NoError(t, err)
	assert.Equal(t, "50.1", string(out))
}

func TestAmount_StoredAsDynamoNumber(t *testing.T) {
	a, err := NewAmount("12.345")
	require.NoError(t, err)

	av, err := attributevalue.Marshal(a)
	require.NoError(t, err)
	n, ok := av.(*types.AttributeValueMemberN)
	require.True(t, ok)
	assert.Equal(t, "12.345", n.Value)

	var back Amount
	require.NoError(t, attributevalue.Unmarshal(av, &back))
	assert.True(t, a.Equal(back.Decimal))
}

func TestTransaction_DynamoRoundTripKeepsAttributeNames(t *testing.T) {
	amt, _ := NewAmount("50")
	tx := Transaction{
		UserID: "u1", TransactionID: "t1", Type: TxTypeOwedToMe, Person: "Alex",
		Amount: amt, Currency: "EUR", TransactionDate: "2024-01-01", Status: TxStatusUnpaid,
	}
	item, err := attributevalue.MarshalMap(tx)
	require.NoError(t, err)
	for _, k := range []string{"user_id", "transaction_id", "type", "person", "amount", "currency", "transactionDate", "deadline", "status"} {
		assert.Contains(t, item, k)
	}
	_, isNull := item["deadline"].(*types.AttributeValueMemberNULL)
	assert.True(t, isNull)
	assert.True(t, tx.OwedToMe())
}
