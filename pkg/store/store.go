// Package store persists canvas documents.
//
// Persistence is an opaque key-value contract: a [Backend] maps a document
// id to its serialized JSON and can load, save, delete and list ids. The
// [Store] wraps a backend with encoding, retries of transient failures and
// observability hooks. Every save overwrites the whole document, so the
// last writer wins.
//
// Backends:
//   - memory: process-local map, for tests and ephemeral servers
//   - file: one JSON file per document under a directory (CLI default)
//   - redis: one string key per document plus an id index set
//   - mongo: one collection document per canvas, keyed by _id
package store

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/matzehuels/canvaskit/pkg/canvas"
	"github.com/matzehuels/canvaskit/pkg/observability"
)

// ErrNotFound is returned when no document is stored under an id.
var ErrNotFound = errors.New("canvas not found")

// Backend is the raw persistence contract.
type Backend interface {
	// Name identifies the backend in logs and hooks.
	Name() string

	// Load returns the stored bytes for id or ErrNotFound.
	Load(ctx context.Context, id string) ([]byte, error)

	// Save stores data under id, replacing any previous value.
	Save(ctx context.Context, id string, data []byte) error

	// Delete removes id, returning ErrNotFound if it was absent.
	Delete(ctx context.Context, id string) error

	// List returns all stored ids in no particular order.
	List(ctx context.Context) ([]string, error)

	Close() error
}

// Summary describes a stored document without its content.
type Summary struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Kind        canvas.DocumentKind `json:"type"`
	Nodes       int                 `json:"nodeCount"`
	Connections int                 `json:"connectionCount"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

// Summarize returns the summary of doc.
func Summarize(doc *canvas.Document) Summary {
	return Summary{
		ID:          doc.ID,
		Name:        doc.Name,
		Kind:        doc.Kind,
		Nodes:       doc.NodeCount(),
		Connections: doc.ConnectionCount(),
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}
}

// Store loads and saves documents through a Backend.
type Store struct {
	backend Backend
}

// New wraps a backend.
func New(b Backend) *Store {
	return &Store{backend: b}
}

// Backend returns the underlying backend.
func (s *Store) Backend() Backend { return s.backend }

// Load reads and decodes a document.
func (s *Store) Load(ctx context.Context, id string) (*canvas.Document, error) {
	start := time.Now()
	var data []byte
	err := s.retry(ctx, func() error {
		var err error
		data, err = s.backend.Load(ctx, id)
		return err
	})
	observability.Store().OnLoad(ctx, s.backend.Name(), id, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	doc, err := canvas.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("decode canvas %s: %w", id, err)
	}
	return doc, nil
}

// Save encodes and stores a document under its id.
func (s *Store) Save(ctx context.Context, doc *canvas.Document) error {
	data, err := canvas.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode canvas %s: %w", doc.ID, err)
	}
	start := time.Now()
	err = s.retry(ctx, func() error {
		return s.backend.Save(ctx, doc.ID, data)
	})
	observability.Store().OnSave(ctx, s.backend.Name(), doc.ID, len(data), time.Since(start), err)
	return err
}

// Delete removes a document.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.retry(ctx, func() error {
		return s.backend.Delete(ctx, id)
	})
}

// Exists reports whether a document is stored under id.
func (s *Store) Exists(ctx context.Context, id string) (bool, error) {
	_, err := s.backend.Load(ctx, id)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

// List returns summaries of all stored documents, most recently updated
// first. Documents that fail to decode are skipped.
func (s *Store) List(ctx context.Context) ([]Summary, error) {
	var ids []string
	err := s.retry(ctx, func() error {
		var err error
		ids, err = s.backend.List(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	out := make([]Summary, 0, len(ids))
	for _, id := range ids {
		doc, err := s.Load(ctx, id)
		if errors.Is(err, ErrNotFound) {
			continue // deleted concurrently
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		}
		out = append(out, Summarize(doc))
	}
	slices.SortFunc(out, func(a, b Summary) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

// Close releases the backend.
func (s *Store) Close() error { return s.backend.Close() }

func (s *Store) retry(ctx context.Context, fn func() error) error {
	attempt := 0
	return RetryWithBackoff(ctx, func() error {
		attempt++
		err := fn()
		if err != nil && IsRetryable(err) {
			observability.Store().OnRetry(ctx, s.backend.Name(), attempt, err)
		}
		return err
	})
}
