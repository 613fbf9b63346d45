package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/money-tracker-api/internal/domain"
)

// TransactionRepo provides typed DynamoDB operations for the transactions table.
// PK: user_id, SK: transaction_id. Every method takes the owner id so no
// call can address another user's partition.
type TransactionRepo struct {
	client    API
	tableName string
}

func NewTransactionRepo(client API, tableName string) *TransactionRepo {
	return &TransactionRepo{client: client, tableName: tableName}
}

func (r *TransactionRepo) Put(ctx context.Context, t *domain.Transaction) error {
	item, err := attributevalue.MarshalMap(t)
	if err != nil {
		return fmt.Errorf("marshal transaction: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(transaction_id)"),
	})
	return err
}

func (r *TransactionRepo) Get(ctx context.Context, userID, transactionID string) (*domain.Transaction, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       compositeKey(fieldUserID, userID, fieldTransactionID, transactionID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("transaction not found: %w", domain.ErrNotFound)
	}
	var t domain.Transaction
	if err := attributevalue.UnmarshalMap(out.Item, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// ListByUser returns every transaction in the user's partition, following
// LastEvaluatedKey until the query is exhausted.
func (r *TransactionRepo) ListByUser(ctx context.Context, userID string) ([]domain.Transaction, error) {
	p := dynamodb.NewQueryPaginator(r.client, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("user_id = :uid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uid": &types.AttributeValueMemberS{Value: userID},
		},
	})
	txs := []domain.Transaction{}
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		var batch []domain.Transaction
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, err
		}
		txs = append(txs, batch...)
	}
	return txs, nil
}

// Update overwrites the given attributes on an existing transaction and
// returns the stored item. A missing item yields domain.ErrNotFound rather
// than an upsert.
func (r *TransactionRepo) Update(ctx context.Context, userID, transactionID string, updates map[string]interface{}) (*domain.Transaction, error) {
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return nil, err
	}
	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       compositeKey(fieldUserID, userID, fieldTransactionID, transactionID),
		UpdateExpression:          aws.String(ue.Expr),
		ConditionExpression:       aws.String("attribute_exists(transaction_id)"),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		return nil, notFoundOnConditionFailure(err, "transaction")
	}
	var t domain.Transaction
	if err := attributevalue.UnmarshalMap(out.Attributes, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// MarkPaid sets status=paid and returns the stored item.
func (r *TransactionRepo) MarkPaid(ctx context.Context, userID, transactionID string) (*domain.Transaction, error) {
	return r.Update(ctx, userID, transactionID, map[string]interface{}{fieldStatus: domain.TxStatusPaid})
}

// Delete removes one transaction. Deleting a missing item is not an error.
func (r *TransactionRepo) Delete(ctx context.Context, userID, transactionID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       compositeKey(fieldUserID, userID, fieldTransactionID, transactionID),
	})
	return err
}

// BatchDelete removes the given transactions in chunks of 25 and returns how
// many deletes DynamoDB confirmed. Unprocessed items are not retried: they
// stop the run and are reported as an error alongside the partial count.
func (r *TransactionRepo) BatchDelete(ctx context.Context, userID string, transactionIDs []string) (int, error) {
	deleted := 0
	for start := 0; start < len(transactionIDs); start += maxBatchWrite {
		end := min(start+maxBatchWrite, len(transactionIDs))
		reqs := make([]types.WriteRequest, 0, end-start)
		for _, txID := range transactionIDs[start:end] {
			reqs = append(reqs, types.WriteRequest{
				DeleteRequest: &types.DeleteRequest{
					Key: compositeKey(fieldUserID, userID, fieldTransactionID, txID),
				},
			})
		}
		out, err := r.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{r.tableName: reqs},
		})
		if err != nil {
			return deleted, err
		}
		unprocessed := len(out.UnprocessedItems[r.tableName])
		deleted += len(reqs) - unprocessed
		if unprocessed > 0 {
			return deleted, fmt.Errorf("batch delete: %d of %d items unprocessed", unprocessed, len(reqs))
		}
	}
	return deleted, nil
}
