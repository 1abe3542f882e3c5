// Package repository persists the ledger collections as whole JSON blobs.
//
// Each collection lives under one fixed key and is rewritten in full on
// every save. Backends only move bytes; encoding lives in Repository.
package repository

import "context"

// Storage keys. They match the keys older browser builds used, so an
// exported blob can be dropped into any backend unchanged.
const (
	MatchesKey = "kampong-matches"
	RosterKey  = "kampong-saved-players"
)

// BlobStore is a key/value store of opaque blobs.
type BlobStore interface {
	// Get returns the blob under key. ok is false when nothing was stored.
	Get(ctx context.Context, key string) (blob []byte, ok bool, err error)
	// Put replaces the blob under key atomically.
	Put(ctx context.Context, key string, blob []byte) error
	// Close releases backend resources.
	Close() error
}
