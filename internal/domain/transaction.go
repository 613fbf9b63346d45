package domain

// Transaction types accepted from clients. "lent" and "borrowed" are the
// values the web client sends; the other two are their canonical names.
const (
	TxTypeOwedToMe = "owed_to_me"
	TxTypeLent     = "lent"
	TxTypeIOwe     = "i_owe"
	TxTypeBorrowed = "borrowed"
)

const (
	TxStatusUnpaid = "unpaid"
	TxStatusPaid   = "paid"
)

// DateLayout is the wire and storage format of transaction dates.
const DateLayout = "2006-01-02"

// Transaction is one debt record. PK: user_id, SK: transaction_id.
type Transaction struct {
	UserID          string  `json:"user_id" dynamodbav:"user_id"`
	TransactionID   string  `json:"transaction_id" dynamodbav:"transaction_id"`
	Type            string  `json:"type" dynamodbav:"type"`
	Person          string  `json:"person" dynamodbav:"person"`
	Amount          Amount  `json:"amount" dynamodbav:"amount"`
	Currency        string  `json:"currency" dynamodbav:"currency"`
	TransactionDate string  `json:"transactionDate" dynamodbav:"transactionDate"`
	Deadline        *string `json:"deadline" dynamodbav:"deadline"`
	Status          string  `json:"status" dynamodbav:"status"`
}

// OwedToMe reports whether the counterparty owes the owner.
func (t *Transaction) OwedToMe() bool {
	return t.Type == TxTypeOwedToMe || t.Type == TxTypeLent
}

type CreateTransactionRequest struct {
	Type            string  `json:"type" validate:"required,oneof=owed_to_me lent i_owe borrowed"`
	Person          string  `json:"person" validate:"required,max=100"`
	Amount          *Amount `json:"amount" validate:"required"`
	Currency        string  `json:"currency" validate:"omitempty,len=3,uppercase"`
	TransactionDate string  `json:"transactionDate" validate:"required,datetime=2006-01-02"`
	Deadline        *string `json:"deadline" validate:"omitempty,datetime=2006-01-02"`
	Status          string  `json:"status" validate:"omitempty,oneof=unpaid paid"`
}
