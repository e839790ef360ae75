package codec

import (
	"errors"

	"github.com/joeycumines/logiface"
)

// DefaultMaxDepth is the default maximum message nesting depth.
const DefaultMaxDepth = 100

// config holds the immutable configuration shared by a [Decoder] and an
// [Encoder].
type config struct {
	logger              *logiface.Logger[logiface.Event]
	maxDepth            int
	preserveInt64       bool
	deterministic       bool
	disallowUnknownKeys bool
}

// Option configures a [Decoder], [Encoder] or [Codec].
type Option interface {
	applyOption(*config) error
}

// optionFunc implements [Option] via a closure.
type optionFunc struct {
	fn func(*config) error
}

func (o *optionFunc) applyOption(c *config) error {
	return o.fn(c)
}

// WithPreserveInt64 configures whether 64-bit integer fields (int64, uint64
// and their sint/fixed variants) decode to [dynval.Int64Pair] rather than a
// number. Defaults to false. Encoding accepts both forms regardless.
func WithPreserveInt64(preserve bool) Option {
	return &optionFunc{fn: func(c *config) error {
		c.preserveInt64 = preserve
		return nil
	}}
}

// WithMaxDepth configures the maximum message nesting depth, counting the
// top-level message as 1. Defaults to [DefaultMaxDepth].
func WithMaxDepth(depth int) Option {
	return &optionFunc{fn: func(c *config) error {
		if depth < 1 {
			return errors.New("max depth must be positive")
		}
		c.maxDepth = depth
		return nil
	}}
}

// WithDeterministic configures deterministic serialization, i.e. map
// entries in sorted key order.
func WithDeterministic(deterministic bool) Option {
	return &optionFunc{fn: func(c *config) error {
		c.deterministic = deterministic
		return nil
	}}
}

// WithDisallowUnknownKeys configures the encoder to fail with
// [TypeMismatch] on map keys that name no field. By default such keys are
// ignored.
func WithDisallowUnknownKeys(disallow bool) Option {
	return &optionFunc{fn: func(c *config) error {
		c.disallowUnknownKeys = disallow
		return nil
	}}
}

// WithLogger configures a logger, used to report failed operations at
// debug level. A nil logger disables logging, which is the default.
func WithLogger(logger *logiface.Logger[logiface.Event]) Option {
	return &optionFunc{fn: func(c *config) error {
		c.logger = logger
		return nil
	}}
}

// resolveOptions applies the given options to a default [config].
func resolveOptions(opts []Option) (*config, error) {
	cfg := &config{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.applyOption(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
