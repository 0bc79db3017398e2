package blobstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a payload does not exist under the given key.
var ErrNotFound = errors.New("blob not found")

// RowStore inlines payloads into the owning database row instead of writing
// them anywhere itself, the production storage mode of the legacy deployment.
type RowStore struct{}

// NewRowStore creates a row-backed store.
func NewRowStore() *RowStore {
	return &RowStore{}
}

// Put hands the payload back for the caller to persist on the row.
func (s *RowStore) Put(ctx context.Context, key string, data []byte) ([]byte, error) {
	return data, nil
}

// Fetch returns the inline bytes carried on the row.
func (s *RowStore) Fetch(ctx context.Context, key string, inline []byte) ([]byte, error) {
	if len(inline) == 0 {
		return nil, ErrNotFound
	}
	return inline, nil
}

// Remove is a no-op; deleting the row removes the payload.
func (s *RowStore) Remove(ctx context.Context, key string) error {
	return nil
}
