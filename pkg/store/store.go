// Package store defines the document store the dashboard persists tasks to.
package store

import (
	"context"
	"errors"
	"fmt"
)

// Document is one stored task document keyed by its store-assigned id.
type Document struct {
	ID   string
	Data map[string]any
}

// DocumentStore is a flat collection of opaque-keyed documents.
type DocumentStore interface {
	// Stream returns every document in the collection.
	Stream(ctx context.Context) ([]Document, error)
	// Get returns ErrNotFound when no document has the id.
	Get(ctx context.Context, id string) (Document, error)
	// SetMerge writes only the supplied fields of the document, creating it
	// if needed. Fields not present in data are left untouched.
	SetMerge(ctx context.Context, id string, data map[string]any) error
	// Add creates a document and returns its fresh id.
	Add(ctx context.Context, data map[string]any) (string, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

var ErrNotFound = errors.New("document not found")

type serverTimestamp struct{}

func (serverTimestamp) String() string { return "SERVER_TIMESTAMP" }

// ServerTimestamp is a payload value that each store replaces with its own
// write time.
var ServerTimestamp any = serverTimestamp{}

// IsServerTimestamp reports whether v is the ServerTimestamp sentinel.
func IsServerTimestamp(v any) bool {
	_, ok := v.(serverTimestamp)
	return ok
}

// ConnectionError reports that the store or file could not be reached, or
// that the credentials were rejected.
type ConnectionError struct {
	Op  string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("store unreachable during %s: %v", e.Op, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// IsConnection reports whether err is, or wraps, a ConnectionError.
func IsConnection(err error) bool {
	var ce *ConnectionError
	return errors.As(err, &ce)
}
