package httpbind

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
)

// Option configures Bind and Handler.
type Option func(*config)

type config struct {
	strict    bool
	ignore    map[string]struct{}
	raw       map[string]struct{}
	policy    *bluemonday.Policy
	maxMemory int64
	logger    *zap.Logger
}

func newConfig(options []Option) config {
	cfg := config{
		ignore:    make(map[string]struct{}),
		raw:       make(map[string]struct{}),
		policy:    strictPolicy(),
		maxMemory: 32 << 20,
		logger:    zap.NewNop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithStrict rejects posts carrying keys the definition does not declare.
func WithStrict() Option {
	return func(cfg *config) {
		cfg.strict = true
	}
}

// WithIgnore lists posted keys that are never bound, such as CSRF token
// inputs. Ignored keys do not trip WithStrict.
func WithIgnore(keys ...string) Option {
	return func(cfg *config) {
		for _, key := range keys {
			if trimmed := strings.TrimSpace(key); trimmed != "" {
				cfg.ignore[trimmed] = struct{}{}
			}
		}
	}
}

// WithRawFields skips sanitisation for the named fields (passwords, markup
// editors with their own policy).
func WithRawFields(names ...string) Option {
	return func(cfg *config) {
		for _, name := range names {
			if trimmed := strings.TrimSpace(name); trimmed != "" {
				cfg.raw[trimmed] = struct{}{}
			}
		}
	}
}

// WithPolicy replaces the strict sanitisation policy.
func WithPolicy(policy *bluemonday.Policy) Option {
	return func(cfg *config) {
		if policy != nil {
			cfg.policy = policy
		}
	}
}

// WithMaxMemory bounds multipart parsing memory.
func WithMaxMemory(n int64) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.maxMemory = n
		}
	}
}

// WithLogger sets the logger used for binding diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}
