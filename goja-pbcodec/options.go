package gojapbcodec

import (
	"errors"

	"github.com/joeycumines/go-eventloop"
	"github.com/joeycumines/go-pbdynamic/codec"
	"github.com/joeycumines/go-pbdynamic/schema"
	"github.com/joeycumines/logiface"
)

// Scheduler runs a task later, on the goroutine that owns the runtime. It
// returns an error if the task cannot be scheduled.
type Scheduler func(task func()) error

// LoopScheduler returns a [Scheduler] that submits tasks to loop, which
// must be the loop driving the runtime.
func LoopScheduler(loop *eventloop.Loop) Scheduler {
	return func(task func()) error {
		return loop.Submit(task)
	}
}

// moduleOptions holds configuration for a [Module] instance.
type moduleOptions struct {
	pool      *schema.Pool
	scheduler Scheduler
	logger    *logiface.Logger[logiface.Event]
	codecOpts []codec.Option
}

// Option configures a [Module] instance. Options are applied during
// module construction.
type Option interface {
	applyOption(*moduleOptions) error
}

// optionFunc implements [Option] via a closure.
type optionFunc struct {
	fn func(*moduleOptions) error
}

func (o *optionFunc) applyOption(opts *moduleOptions) error {
	return o.fn(opts)
}

// WithPool configures a shared pool, used by instances constructed without
// descriptor bytes.
func WithPool(pool *schema.Pool) Option {
	return &optionFunc{fn: func(opts *moduleOptions) error {
		if pool == nil {
			return errors.New("pool must not be nil")
		}
		opts.pool = pool
		return nil
	}}
}

// WithCodecOptions appends options applied to the codec of every instance.
// The preserveInt64 constructor argument takes precedence over
// [codec.WithPreserveInt64].
func WithCodecOptions(opts ...codec.Option) Option {
	return &optionFunc{fn: func(o *moduleOptions) error {
		o.codecOpts = append(o.codecOpts, opts...)
		return nil
	}}
}

// WithScheduler configures where callback-style calls run. If not set,
// callbacks are invoked synchronously.
func WithScheduler(scheduler Scheduler) Option {
	return &optionFunc{fn: func(opts *moduleOptions) error {
		opts.scheduler = scheduler
		return nil
	}}
}

// WithLogger configures a logger for the module, and for the pools and
// codecs it creates. A nil logger disables logging, which is the default.
func WithLogger(logger *logiface.Logger[logiface.Event]) Option {
	return &optionFunc{fn: func(opts *moduleOptions) error {
		opts.logger = logger
		return nil
	}}
}

// resolveOptions applies the given options to a default [moduleOptions].
func resolveOptions(opts []Option) (*moduleOptions, error) {
	cfg := &moduleOptions{}
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
