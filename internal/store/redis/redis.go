// Package redis forwards the collection store contract to a Redis
// instance with RedisJSON. It is a pure passthrough: documents are
// shipped as-is and all query logic stays in the engine.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/docql/internal/domain"
	"github.com/kailas-cloud/docql/internal/domain/document"
	"github.com/kailas-cloud/docql/internal/store"
)

// Compile-time check: Store implements store.CollectionStore.
var _ store.CollectionStore = (*Store)(nil)

// Config holds connection parameters.
type Config struct {
	Addrs     []string
	Username  string
	Password  string
	DB        int
	KeyPrefix string
}

// Store implements store.CollectionStore via rueidis.
//
// Key layout: <prefix>collections is the creation-ordered name list,
// <prefix>col:<name> marks an existing collection,
// <prefix>col:<name>:ids is the insertion-ordered document id list,
// and <prefix>doc:<name>:<id> holds each document as JSON.
type Store struct {
	client rueidis.Client
	prefix string
}

// New creates a Redis-backed store.
func New(cfg Config) (*Store, error) {
	if len(cfg.Addrs) == 0 {
		return nil, fmt.Errorf("addrs is required")
	}

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  cfg.Addrs,
		Username:     cfg.Username,
		Password:     cfg.Password,
		SelectDB:     cfg.DB,
		DisableCache: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return &Store{client: client, prefix: cfg.KeyPrefix}, nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	cmd := s.client.B().Ping().Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return &store.Error{Op: store.OpPing, Err: err}
	}
	return nil
}

// Close shuts down the client.
func (s *Store) Close() {
	s.client.Close()
}

// WaitForReady polls Ping until the backend responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for redis: %w", ctx.Err())
		case <-ticker.C:
			if err := s.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}

// Create registers an empty collection.
func (s *Store) Create(ctx context.Context, name string) error {
	exists, err := s.Exists(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %s", domain.ErrCollectionExists, name)
	}

	setCmd := s.client.B().Set().Key(s.markerKey(name)).Value("1").Build()
	if err := s.client.Do(ctx, setCmd).Error(); err != nil {
		return &store.Error{Op: store.OpSet, Err: err}
	}
	pushCmd := s.client.B().Rpush().Key(s.prefix + "collections").Element(name).Build()
	if err := s.client.Do(ctx, pushCmd).Error(); err != nil {
		return &store.Error{Op: store.OpRPush, Err: err}
	}
	return nil
}

// Exists reports whether the collection marker key is present.
func (s *Store) Exists(ctx context.Context, name string) (bool, error) {
	cmd := s.client.B().Exists().Key(s.markerKey(name)).Build()
	n, err := s.client.Do(ctx, cmd).AsInt64()
	if err != nil {
		return false, &store.Error{Op: store.OpExists, Err: err}
	}
	return n > 0, nil
}

// Names lists collections in creation order.
func (s *Store) Names(ctx context.Context) ([]string, error) {
	cmd := s.client.B().Lrange().Key(s.prefix + "collections").Start(0).Stop(-1).Build()
	names, err := s.client.Do(ctx, cmd).AsStrSlice()
	if err != nil {
		return nil, &store.Error{Op: store.OpLRange, Err: err}
	}
	return names, nil
}

// Docs fetches the collection's documents in insertion order.
func (s *Store) Docs(ctx context.Context, name string) ([]document.Document, error) {
	exists, err := s.Exists(ctx, name)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", domain.ErrCollectionNotFound, name)
	}

	idsCmd := s.client.B().Lrange().Key(s.idsKey(name)).Start(0).Stop(-1).Build()
	ids, err := s.client.Do(ctx, idsCmd).AsStrSlice()
	if err != nil {
		return nil, &store.Error{Op: store.OpLRange, Err: err}
	}

	docs := make([]document.Document, 0, len(ids))
	for _, id := range ids {
		getCmd := s.client.B().Arbitrary("JSON.GET").Keys(s.docKey(name, id)).Args("$").Build()
		raw, err := s.client.Do(ctx, getCmd).ToString()
		if err != nil {
			if rueidis.IsRedisNil(err) {
				continue // id list entry without a body; skip
			}
			return nil, &store.Error{Op: store.OpJSONGet, Err: err}
		}
		doc, err := parseJSONGetResult(raw)
		if err != nil {
			return nil, fmt.Errorf("document %s/%s: %w", name, id, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// Append ships documents to the backend as-is.
func (s *Store) Append(ctx context.Context, name string, docs ...document.Document) error {
	exists, err := s.Exists(ctx, name)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %s", domain.ErrCollectionNotFound, name)
	}

	for _, doc := range docs {
		setCmd := s.client.B().Arbitrary("JSON.SET").
			Keys(s.docKey(name, doc.ID())).
			Args("$", string(doc.JSON())).
			Build()
		if err := s.client.Do(ctx, setCmd).Error(); err != nil {
			return &store.Error{Op: store.OpJSONSet, Err: err}
		}
		pushCmd := s.client.B().Rpush().Key(s.idsKey(name)).Element(doc.ID()).Build()
		if err := s.client.Do(ctx, pushCmd).Error(); err != nil {
			return &store.Error{Op: store.OpRPush, Err: err}
		}
	}
	return nil
}

func (s *Store) markerKey(name string) string { return s.prefix + "col:" + name }
func (s *Store) idsKey(name string) string    { return s.prefix + "col:" + name + ":ids" }
func (s *Store) docKey(name, id string) string {
	return s.prefix + "doc:" + name + ":" + id
}

// parseJSONGetResult unwraps the JSONPath array envelope JSON.GET
// returns for "$" queries.
func parseJSONGetResult(raw string) (document.Document, error) {
	if len(raw) >= 2 && raw[0] == '[' && raw[len(raw)-1] == ']' {
		raw = raw[1 : len(raw)-1]
	}
	if raw == "" {
		return document.Document{}, fmt.Errorf("empty JSON.GET result")
	}
	return document.FromJSON([]byte(raw))
}
