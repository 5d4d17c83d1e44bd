package sessionstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/shopframe/go-shop-auth/internal/errors"
)

// InMemoryRepo is an in-memory implementation of Repo. Default for
// development and tests.
type InMemoryRepo struct {
	mu      sync.RWMutex
	records map[string]Record // shop -> record
}

var _ Repo = (*InMemoryRepo)(nil)

func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{records: make(map[string]Record)}
}

// Put creates or replaces the record for a shop.
func (r *InMemoryRepo) Put(ctx context.Context, shop string, record Record) (string, error) {
	if shop == "" {
		return "", fmt.Errorf("shop is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	record.Shop = shop
	r.records[shop] = record
	return uuid.New().String(), nil
}

// Get retrieves the record for a shop.
func (r *InMemoryRepo) Get(ctx context.Context, shop string) (Record, error) {
	if shop == "" {
		return Record{}, fmt.Errorf("shop is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.records[shop]
	if !ok {
		return Record{}, errors.ErrSessionNotFound
	}
	return record, nil
}

// Delete removes the record for a shop.
func (r *InMemoryRepo) Delete(ctx context.Context, shop string) error {
	if shop == "" {
		return fmt.Errorf("shop is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.records, shop)
	return nil
}
