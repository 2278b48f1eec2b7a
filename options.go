package docql

import "go.uber.org/zap"

// Option configures the Client.
type Option func(*clientConfig)

type clientConfig struct {
	addrs           []string
	username        string
	password        string
	keyPrefix       string
	strict          bool
	defaultPageSize int
	maxPageSize     int
	logger          *zap.Logger
}

// WithRedis connects the client to a Redis backend instead of the
// default in-memory store.
func WithRedis(addrs ...string) Option {
	return func(c *clientConfig) {
		c.addrs = addrs
	}
}

// WithAuth sets Redis credentials.
func WithAuth(username, password string) Option {
	return func(c *clientConfig) {
		c.username = username
		c.password = password
	}
}

// WithKeyPrefix sets the Redis key prefix (default "docql:").
func WithKeyPrefix(prefix string) Option {
	return func(c *clientConfig) {
		c.keyPrefix = prefix
	}
}

// WithStrictMode makes queries fail on type mismatches instead of
// silently excluding the offending documents.
func WithStrictMode() Option {
	return func(c *clientConfig) {
		c.strict = true
	}
}

// WithPagination overrides the default and maximum page sizes.
func WithPagination(defaultPageSize, maxPageSize int) Option {
	return func(c *clientConfig) {
		c.defaultPageSize = defaultPageSize
		c.maxPageSize = maxPageSize
	}
}

// WithLogger enables debug-level query tracing through the given logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *clientConfig) {
		c.logger = logger
	}
}
