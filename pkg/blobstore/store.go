// Package blobstore abstracts where uploaded binaries live. The platform runs
// either against the local filesystem (development) or with payloads inlined
// into database rows (production), chosen once at startup.
package blobstore

import "context"

// Store persists upload payloads under relative string keys.
//
// Put returns the bytes that must be carried inline on the owning row: a
// filesystem-backed store persists the payload itself and returns nil, while
// a row-backed store returns the payload for the caller to write alongside
// its metadata. Fetch is the inverse and receives whatever inline bytes the
// row holds.
type Store interface {
	Put(ctx context.Context, key string, data []byte) (inline []byte, err error)
	Fetch(ctx context.Context, key string, inline []byte) ([]byte, error)
	Remove(ctx context.Context, key string) error
}
