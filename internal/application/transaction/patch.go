package transaction

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/money-tracker-api/internal/domain"
	"github.com/money-tracker-api/internal/pkg/validate"
)

// Updatable transaction attributes and the rules each value must pass.
var stringFields = map[string]string{
	"type":            "required,oneof=owed_to_me lent i_owe borrowed",
	"person":          "required,max=100",
	"currency":        "required,len=3,uppercase",
	"transactionDate": "required,datetime=2006-01-02",
	"status":          "required,oneof=unpaid paid",
}

const (
	fieldAmount   = "amount"
	fieldDeadline = "deadline"
)

// buildUpdates turns a client patch into a DynamoDB update map. Keys outside
// the allow-list are rejected; ownership keys are never writable.
func buildUpdates(patch map[string]json.RawMessage) (map[string]interface{}, error) {
	if len(patch) == 0 {
		return nil, fmt.Errorf("no update data provided: %w", domain.ErrBadRequest)
	}
	keys := make([]string, 0, len(patch))
	for k := range patch {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	updates := make(map[string]interface{}, len(patch))
	for _, k := range keys {
		raw := patch[k]
		switch k {
		case fieldAmount:
			var a domain.Amount
			if err := json.Unmarshal(raw, &a); err != nil || isNull(raw) {
				return nil, fmt.Errorf("field 'amount' must be a number: %w", domain.ErrBadRequest)
			}
			if !a.IsPositive() {
				return nil, fmt.Errorf("amount must be positive: %w", domain.ErrBadRequest)
			}
			updates[k] = a
		case fieldDeadline:
			if isNull(raw) {
				updates[k] = (*string)(nil)
				continue
			}
			var d string
			if err := json.Unmarshal(raw, &d); err != nil {
				return nil, fmt.Errorf("field 'deadline' must be a string or null: %w", domain.ErrBadRequest)
			}
			if err := validate.Var(k, d, "required,datetime=2006-01-02"); err != nil {
				return nil, err
			}
			updates[k] = d
		default:
			tag, ok := stringFields[k]
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
	}
	return updates, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
