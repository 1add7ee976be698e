// Package firestore stores tasks as documents of a Cloud Firestore collection.
package firestore

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/harrisonrobin/auditboard/pkg/store"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// DefaultCollection is the collection tasks live in.
const DefaultCollection = "tasks"

// Store is a DocumentStore over one Firestore collection.
type Store struct {
	client     *firestore.Client
	collection string
}

// New connects to the project's Firestore database. Connection and credential
// failures are returned as *store.ConnectionError.
func New(ctx context.Context, projectID, collection string, opts ...option.ClientOption) (*Store, error) {
	if collection == "" {
		collection = DefaultCollection
	}
	if projectID == "" {
		projectID = firestore.DetectProjectID
	}
	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, &store.ConnectionError{Op: "connect", Err: err}
	}
	return &Store{client: client, collection: collection}, nil
}

func (s *Store) coll() *firestore.CollectionRef {
	return s.client.Collection(s.collection)
}

func (s *Store) Stream(ctx context.Context) ([]store.Document, error) {
	iter := s.coll().Documents(ctx)
	defer iter.Stop()

	var docs []store.Document
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, classify("stream", err)
		}
		docs = append(docs, store.Document{ID: snap.Ref.ID, Data: snap.Data()})
	}
	return docs, nil
}

func (s *Store) Get(ctx context.Context, id string) (store.Document, error) {
	snap, err := s.coll().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return store.Document{}, store.ErrNotFound
		}
		return store.Document{}, classify("get", err)
	}
	return store.Document{ID: snap.Ref.ID, Data: snap.Data()}, nil
}

func (s *Store) SetMerge(ctx context.Context, id string, data map[string]any) error {
	if _, err := s.coll().Doc(id).Set(ctx, toWire(data), firestore.MergeAll); err != nil {
		return classify("set", err)
	}
	return nil
}

func (s *Store) Add(ctx context.Context, data map[string]any) (string, error) {
	ref, _, err := s.coll().Add(ctx, toWire(data))
	if err != nil {
		return "", classify("add", err)
	}
	return ref.ID, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.coll().Doc(id).Delete(ctx); err != nil {
		return classify("delete", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

// toWire swaps the store-agnostic timestamp sentinel for Firestore's.
func toWire(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		if store.IsServerTimestamp(v) {
			out[k] = firestore.ServerTimestamp
			continue
		}
		out[k] = v
	}
	return out
}

// classify marks transport and credential failures as connection errors.
func classify(op string, err error) error {
	switch status.Code(err) {
	case codes.Unavailable, codes.Unauthenticated, codes.PermissionDenied, codes.DeadlineExceeded:
		return &store.ConnectionError{Op: op, Err: err}
	}
	return fmt.Errorf("firestore %s: %w", op, err)
}
