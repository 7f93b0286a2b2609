package repository

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Item is a record in the store's typed-value encoding.
type Item = map[string]types.AttributeValue

// Key holds the primary key attributes of an item. All keys in this service are strings.
type Key map[string]string

// Assignment sets one attribute to a typed value in a partial update.
type Assignment struct {
	Field string
	Value types.AttributeValue
}

// Store contract. One method per access pattern, each a single store call.
type Store interface {
	// Put writes a full item, replacing any item with the same key.
	Put(ctx context.Context, table string, item Item) error
	// Get returns the item for key, or an empty item if there is none.
	Get(ctx context.Context, table string, key Key) (Item, error)
	// Scan returns every item in the table.
	Scan(ctx context.Context, table string) ([]Item, error)
	// Update applies set to the item and returns the new values of the updated attributes.
	Update(ctx context.Context, table string, key Key, set []Assignment) (Item, error)
	// Delete removes the item; deleting an absent key succeeds.
	Delete(ctx context.Context, table string, key Key) error
}
