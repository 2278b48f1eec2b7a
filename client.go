// Package docql is the embedded client: it wires a collection store,
// the query engine, and the services into a single entry point without
// going through HTTP.
package docql

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/docql/internal/engine"
	"github.com/kailas-cloud/docql/internal/observe"
	"github.com/kailas-cloud/docql/internal/store"
	storeMemory "github.com/kailas-cloud/docql/internal/store/memory"
	storeRedis "github.com/kailas-cloud/docql/internal/store/redis"
	collectionuc "github.com/kailas-cloud/docql/internal/usecase/collection"
	"github.com/kailas-cloud/docql/internal/usecase/querysvc"
)

const defaultReadinessTimeout = 10 * time.Second

// Client is the docql SDK entry point.
type Client struct {
	store    store.CollectionStore
	collSvc  *collectionuc.Service
	querySvc *querysvc.Service
}

// New creates a docql Client. With no options it runs on an in-memory
// store; WithRedis switches to a Redis backend.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o(cfg)
	}

	st, err := createStore(cfg)
	if err != nil {
		return nil, err
	}

	mode := engine.ModeLenient
	if cfg.strict {
		mode = engine.ModeStrict
	}
	var obs observe.Observer = observe.Nop{}
	if cfg.logger != nil {
		obs = observe.NewZapObserver(cfg.logger)
	}
	eng := engine.New(mode, obs)

	querySvc := querysvc.New(st, eng)
	if cfg.defaultPageSize > 0 || cfg.maxPageSize > 0 {
		querySvc = querySvc.WithPagination(cfg.defaultPageSize, cfg.maxPageSize)
	}

	return &Client{
		store:    st,
		collSvc:  collectionuc.New(st),
		querySvc: querySvc,
	}, nil
}

func createStore(cfg *clientConfig) (store.CollectionStore, error) {
	if len(cfg.addrs) == 0 {
		return storeMemory.New(), nil
	}

	rs, err := storeRedis.New(storeRedis.Config{
		Addrs:     cfg.addrs,
		Username:  cfg.username,
		Password:  cfg.password,
		KeyPrefix: cfg.keyPrefix,
	})
	if err != nil {
		return nil, fmt.Errorf("docql: create redis store: %w", err)
	}
	if err := rs.WaitForReady(context.Background(), defaultReadinessTimeout); err != nil {
		rs.Close()
		return nil, fmt.Errorf("docql: redis not ready: %w", err)
	}
	return rs, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks store connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// CreateCollection registers a new empty collection.
func (c *Client) CreateCollection(ctx context.Context, name string) error {
	return c.collSvc.Create(ctx, name)
}

// Collections lists collection names in creation order.
func (c *Client) Collections(ctx context.Context) ([]string, error) {
	return c.collSvc.List(ctx)
}

// Append parses raw JSON objects and stores them in the collection.
// Returns the stored documents with ids assigned.
func (c *Client) Append(ctx context.Context, collection string, bodies ...[]byte) ([]Document, error) {
	docs, err := c.collSvc.Append(ctx, collection, bodies...)
	if err != nil {
		return nil, err
	}
	return wrapDocuments(docs), nil
}

// Query runs the query text against the collection and returns the
// full result sequence.
func (c *Client) Query(ctx context.Context, collection, text string) ([]Document, error) {
	docs, err := c.querySvc.Query(ctx, collection, text)
	if err != nil {
		return nil, err
	}
	return wrapDocuments(docs), nil
}

// QueryPage runs the query and returns one page plus a continuation
// token for the next page. The token is empty at the end of the
// sequence. pageSize 0 selects the configured default.
func (c *Client) QueryPage(
	ctx context.Context, collection, text string, pageSize int, token string,
) ([]Document, string, error) {
	docs, next, err := c.querySvc.QueryPage(ctx, collection, text, pageSize, token)
	if err != nil {
		return nil, "", err
	}
	return wrapDocuments(docs), next, nil
}
