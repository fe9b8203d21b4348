package searchapi

import "go.uber.org/zap"

type clientConfig struct {
	addrs          []string
	username       string
	password       string
	db             int
	keyPrefix      string
	fuzzyThreshold float64
	logger         *zap.Logger
}

// Option configures the Client.
type Option func(*clientConfig)

// WithRedis sets the Redis (or Valkey) addresses to connect to.
func WithRedis(addrs ...string) Option {
	return func(c *clientConfig) { c.addrs = addrs }
}

// WithAuth sets the database credentials.
func WithAuth(username, password string) Option {
	return func(c *clientConfig) {
		c.username = username
		c.password = password
	}
}

// WithDB selects a logical database number.
func WithDB(db int) Option {
	return func(c *clientConfig) { c.db = db }
}

// WithKeyPrefix namespaces every key the client writes (default "searchapi:").
func WithKeyPrefix(prefix string) Option {
	return func(c *clientConfig) { c.keyPrefix = prefix }
}

// WithFuzzyThreshold sets the fraction of the top score a result must reach
// to survive fuzzy-mode cutoff (default 0.9).
func WithFuzzyThreshold(t float64) Option {
	return func(c *clientConfig) { c.fuzzyThreshold = t }
}

// WithLogger sets the logger used for index mutations (default no-op).
func WithLogger(logger *zap.Logger) Option {
	return func(c *clientConfig) { c.logger = logger }
}
