package dynamo

// DynamoDB attribute names used in keys and update expressions across all repos.
// Using constants prevents silent runtime bugs caused by key typos.
const (
	fieldUserID        = "user_id"
	fieldTransactionID = "transaction_id"
	fieldMessageID     = "message_id"
	fieldStatus        = "status"
	fieldAvatar        = "avatar"
	fieldAvatarKey     = "avatar_key"
	fieldUpdatedAt     = "updated_at"
)

// maxBatchWrite is DynamoDB's per-request limit for BatchWriteItem.
const maxBatchWrite = 25
