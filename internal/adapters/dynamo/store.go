package dynamo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"jta.service/internal/core/codec"
	"jta.service/internal/ports/repository"
	"jta.service/pkg/apperror"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Client is the subset of the DynamoDB API the store uses.
type Client interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// Store is the DynamoDB implementation of repository.Store. Every call goes
// through a circuit breaker so a failing table or region is not hammered.
type Store struct {
	client Client
	cb     *gobreaker.CircuitBreaker
}

// NewStore wraps client with the default breaker settings.
func NewStore(client Client) *Store {
	settings := gobreaker.Settings{
		Name:        "DynamoDB",
		MaxRequests: 5,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// Trip if failure rate is at least 50% after at least 10 requests
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 10 && failureRatio >= 0.5
		},
		IsSuccessful: func(err error) bool {
			// A caller hanging up or sending a bad request says nothing about
			// the store's health.
			return err == nil || errors.Is(err, context.Canceled) || isCallerError(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("Circuit breaker state changed")
		},
	}
	return NewStoreWithBreaker(client, gobreaker.NewCircuitBreaker(settings))
}

// NewStoreWithBreaker is NewStore with caller-supplied breaker settings.
func NewStoreWithBreaker(client Client, cb *gobreaker.CircuitBreaker) *Store {
	return &Store{client: client, cb: cb}
}

var _ repository.Store = (*Store)(nil)

// Put writes the full item; an existing item with the same key is replaced.
func (s *Store) Put(ctx context.Context, table string, item repository.Item) error {
	annotate(ctx, table, nil)

	_, err := execute(s.cb, func() (*dynamodb.PutItemOutput, error) {
		return s.client.PutItem(ctx, &dynamodb.PutItemInput{
			TableName: aws.String(table),
			Item:      item,
		})
	})
	if err != nil {
		return wrapError("PutItem", table, err)
	}
	return nil
}

// Get fetches one item. A missing item is returned as an empty item, not an error.
func (s *Store) Get(ctx context.Context, table string, key repository.Key) (repository.Item, error) {
	annotate(ctx, table, key)

	k, err := codec.EncodeKey(key)
	if err != nil {
		return nil, apperror.InvalidInput("invalid key", err)
	}

	out, err := execute(s.cb, func() (*dynamodb.GetItemOutput, error) {
		return s.client.GetItem(ctx, &dynamodb.GetItemInput{
			TableName: aws.String(table),
			Key:       k,
		})
	})
	if err != nil {
		return nil, wrapError("GetItem", table, err)
	}
	if out.Item == nil {
		return repository.Item{}, nil
	}
	return out.Item, nil
}

// Scan reads the whole table, following LastEvaluatedKey across pages.
func (s *Store) Scan(ctx context.Context, table string) ([]repository.Item, error) {
	annotate(ctx, table, nil)

	items := make([]repository.Item, 0)
	var startKey map[string]types.AttributeValue
	for {
		out, err := execute(s.cb, func() (*dynamodb.ScanOutput, error) {
			return s.client.Scan(ctx, &dynamodb.ScanInput{
				TableName:         aws.String(table),
				ExclusiveStartKey: startKey,
			})
		})
		if err != nil {
			return nil, wrapError("Scan", table, err)
		}
		items = append(items, out.Items...)

		if len(out.LastEvaluatedKey) == 0 {
			return items, nil
		}
		startKey = out.LastEvaluatedKey
	}
}

// Update applies a SET of the given assignments and returns the updated attributes.
func (s *Store) Update(ctx context.Context, table string, key repository.Key, set []repository.Assignment) (repository.Item, error) {
	annotate(ctx, table, key)

	k, err := codec.EncodeKey(key)
	if err != nil {
		return nil, apperror.InvalidInput("invalid key", err)
	}
	expr, err := updateExpression(set)
	if err != nil {
		return nil, apperror.InvalidInput("invalid update", err)
	}

	out, err := execute(s.cb, func() (*dynamodb.UpdateItemOutput, error) {
		return s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
			TableName:                 aws.String(table),
			Key:                       k,
			UpdateExpression:          expr.Update(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ReturnValues:              types.ReturnValueUpdatedNew,
		})
	})
	if err != nil {
		return nil, wrapError("UpdateItem", table, err)
	}
	if out.Attributes == nil {
		return repository.Item{}, nil
	}
	return out.Attributes, nil
}

// Delete removes the item. DynamoDB treats deleting an absent key as success.
func (s *Store) Delete(ctx context.Context, table string, key repository.Key) error {
	annotate(ctx, table, key)

	k, err := codec.EncodeKey(key)
	if err != nil {
		return apperror.InvalidInput("invalid key", err)
	}

	_, err = execute(s.cb, func() (*dynamodb.DeleteItemOutput, error) {
		return s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
			TableName: aws.String(table),
			Key:       k,
		})
	})
	if err != nil {
		return wrapError("DeleteItem", table, err)
	}
	return nil
}

// updateExpression renders the assignments as "SET #a = :a, ...". Attribute
// names always go through placeholders because fields such as "date" are
// DynamoDB reserved words.
func updateExpression(set []repository.Assignment) (expression.Expression, error) {
	if len(set) == 0 {
		return expression.Expression{}, codec.ErrEmptyUpdates
	}

	var update expression.UpdateBuilder
	for _, a := range set {
		update = update.Set(expression.Name(a.Field), expression.Value(rawValue{a.Value}))
	}
	return expression.NewBuilder().WithUpdate(update).Build()
}

// rawValue passes an already typed attribute through the expression builder's marshaller.
type rawValue struct {
	av types.AttributeValue
}

func (r rawValue) MarshalDynamoDBAttributeValue() (types.AttributeValue, error) {
	return r.av, nil
}

// execute runs fn through the breaker and restores its concrete result type.
func execute[T any](cb *gobreaker.CircuitBreaker, fn func() (T, error)) (T, error) {
	out, err := cb.Execute(func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return out.(T), nil
}

// callerErrorCodes are rejections caused by the request itself.
var callerErrorCodes = map[string]bool{
	"ValidationException":                      true,
	"ConditionalCheckFailedException":          true,
	"ItemCollectionSizeLimitExceededException": true,
}

func isCallerError(err error) bool {
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && callerErrorCodes[apiErr.ErrorCode()]
}

func wrapError(op, table string, err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return apperror.Wrap(err, apperror.CodeStoreUnavailable, apperror.ErrStoreUnavailable.Message, http.StatusServiceUnavailable)
	}
	return apperror.StoreFailure(fmt.Sprintf("dynamodb %s %s", op, table), err)
}

// annotate records the table and key on the current span.
func annotate(ctx context.Context, table string, key repository.Key) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.SetAttributes(attribute.String("app.table", table))
	if len(key) > 0 {
		span.SetAttributes(attribute.String("app.key", keyString(key)))
	}
}

func keyString(key repository.Key) string {
	names := make([]string, 0, len(key))
	for n := range key {
		names = append(names, n)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, n := range names {
		parts = append(parts, n+"="+key[n])
	}
	return strings.Join(parts, ",")
}
