// Package memory is an in-process repository.Store for local development and
// tests. It keeps the same semantics as the DynamoDB store: overwrite on put,
// empty item on a missing get, idempotent delete, UPDATED_NEW on update.
package memory

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"

	"jta.service/internal/core/codec"
	"jta.service/internal/ports/repository"
	"jta.service/pkg/apperror"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type Store struct {
	mu     sync.RWMutex
	keys   map[string][]string // table -> key attribute names
	tables map[string]map[string]repository.Item
}

// NewStore creates an empty store. keys maps each table to its key attribute
// names, partition key first.
func NewStore(keys map[string][]string) *Store {
	return &Store{
		keys:   keys,
		tables: make(map[string]map[string]repository.Item),
	}
}

var _ repository.Store = (*Store)(nil)

func (s *Store) Put(_ context.Context, table string, item repository.Item) error {
	k, err := s.itemKey(table, item)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tables[table] == nil {
		s.tables[table] = make(map[string]repository.Item)
	}
	s.tables[table][k] = clone(item)
	return nil
}

func (s *Store) Get(_ context.Context, table string, key repository.Key) (repository.Item, error) {
	k, err := s.keyString(table, key)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.tables[table][k]
	if !ok {
		return repository.Item{}, nil
	}
	return clone(item), nil
}

// Scan returns items ordered by key.
func (s *Store) Scan(_ context.Context, table string) ([]repository.Item, error) {
	if _, err := s.tableKeys(table); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.tables[table]))
	for k := range s.tables[table] {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	items := make([]repository.Item, 0, len(keys))
	for _, k := range keys {
		items = append(items, clone(s.tables[table][k]))
	}
	return items, nil
}

// Update behaves like an upsert, as DynamoDB's UpdateItem does: a missing item
// is created from the key plus the assigned attributes.
func (s *Store) Update(_ context.Context, table string, key repository.Key, set []repository.Assignment) (repository.Item, error) {
	if len(set) == 0 {
		return nil, apperror.InvalidInput("invalid update", codec.ErrEmptyUpdates)
	}
	k, err := s.keyString(table, key)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tables[table] == nil {
		s.tables[table] = make(map[string]repository.Item)
	}
	item, ok := s.tables[table][k]
	if !ok {
		item = make(repository.Item, len(key)+len(set))
		for name, v := range key {
			item[name] = &types.AttributeValueMemberS{Value: v}
		}
	}

	updated := make(repository.Item, len(set))
	for _, a := range set {
		item[a.Field] = a.Value
		updated[a.Field] = a.Value
	}
	s.tables[table][k] = item
	return updated, nil
}

func (s *Store) Delete(_ context.Context, table string, key repository.Key) error {
	k, err := s.keyString(table, key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tables[table], k)
	return nil
}

func (s *Store) tableKeys(table string) ([]string, error) {
	names, ok := s.keys[table]
	if !ok {
		return nil, apperror.StoreFailure("memory store", &types.ResourceNotFoundException{Message: aws.String("table " + table + " does not exist")})
	}
	return names, nil
}

func (s *Store) keyString(table string, key repository.Key) (string, error) {
	names, err := s.tableKeys(table)
	if err != nil {
		return "", err
	}
	parts := make([]string, 0, len(names))
	for _, n := range names {
		v, ok := key[n]
		if !ok || v == "" {
			return "", apperror.InvalidInput("missing key attribute "+n, nil)
		}
		// quoting keeps composite keys distinct whatever bytes the parts hold
		parts = append(parts, strconv.Quote(v))
	}
	return strings.Join(parts, ","), nil
}

func (s *Store) itemKey(table string, item repository.Item) (string, error) {
	names, err := s.tableKeys(table)
	if err != nil {
		return "", err
	}
	key := make(repository.Key, len(names))
	for _, n := range names {
		sv, ok := item[n].(*types.AttributeValueMemberS)
		if !ok {
			return "", apperror.InvalidInput("missing key attribute "+n, nil)
		}
		key[n] = sv.Value
	}
	return s.keyString(table, key)
}

func clone(item repository.Item) repository.Item {
	out := make(repository.Item, len(item))
	for k, v := range item {
		out[k] = v
	}
	return out
}

