// Package store defines the persistence contract: whole collections of
// JSON documents, loaded and rewritten wholesale. Drivers must treat a
// missing or unreadable collection as empty rather than failing, so
// "no data yet" and "no file yet" are indistinguishable to callers.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

const (
	CollectionUsers    = "users"
	CollectionProducts = "products"
	CollectionSessions = "sessions"
	CollectionOrders   = "orders"
)

var ErrNotFound = errors.New("record not found")

// Record is one document in a collection. Data is the full JSON object,
// including its "id" field.
type Record struct {
	ID   string
	Data json.RawMessage
}

// Store is a document store over named collections. Records keep their
// insertion order. Implementations serialize mutations within the
// process; concurrent writers from other processes still race
// (last write wins), which callers accept.
type Store interface {
	List(ctx context.Context, collection string) ([]Record, error)
	Get(ctx context.Context, collection, id string) (Record, error)
	Upsert(ctx context.Context, collection string, rec Record) error
	Delete(ctx context.Context, collection, id string) error
	// Replace overwrites the whole collection with the given records.
	Replace(ctx context.Context, collection string, recs []Record) error
}

// ListAs decodes every record of a collection into T.
func ListAs[T any](ctx context.Context, s Store, collection string) ([]T, error) {
	recs, err := s.List(ctx, collection)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(recs))
	for _, r := range recs {
		var v T
		if err := json.Unmarshal(r.Data, &v); err != nil {
			return nil, fmt.Errorf("store: decode %s/%s: %w", collection, r.ID, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// GetAs decodes a single record into T. Returns ErrNotFound when absent.
func GetAs[T any](ctx context.Context, s Store, collection, id string) (T, error) {
	var v T
	rec, err := s.Get(ctx, collection, id)
	if err != nil {
		return v, err
	}
	if err := json.Unmarshal(rec.Data, &v); err != nil {
		return v, fmt.Errorf("store: decode %s/%s: %w", collection, id, err)
	}
	return v, nil
}

// Put encodes v and upserts it under the given id.
func Put[T any](ctx context.Context, s Store, collection, id string, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("store: encode %s/%s: %w", collection, id, err)
	}
	return s.Upsert(ctx, collection, Record{ID: id, Data: data})
}

// ReplaceAll encodes vs and overwrites the collection. ids must be
// parallel to vs.
func ReplaceAll[T any](ctx context.Context, s Store, collection string, ids []string, vs []T) error {
	if len(ids) != len(vs) {
		return fmt.Errorf("store: replace %s: %d ids for %d records", collection, len(ids), len(vs))
	}
	recs := make([]Record, len(vs))
	for i, v := range vs {
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("store: encode %s/%s: %w", collection, ids[i], err)
		}
		recs[i] = Record{ID: ids[i], Data: data}
	}
	return s.Replace(ctx, collection, recs)
}
