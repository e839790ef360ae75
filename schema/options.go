package schema

import (
	"github.com/joeycumines/logiface"
	"google.golang.org/protobuf/reflect/protoregistry"
)

// poolOptions holds configuration for a [Pool].
type poolOptions struct {
	files  *protoregistry.Files
	types  *protoregistry.Types
	logger *logiface.Logger[logiface.Event]
}

// Option configures a [Pool]. Options are applied by [NewPool].
type Option interface {
	applyOption(*poolOptions) error
}

// optionFunc implements [Option] via a closure.
type optionFunc struct {
	fn func(*poolOptions) error
}

func (o *optionFunc) applyOption(opts *poolOptions) error {
	return o.fn(opts)
}

// WithFiles configures the fallback [protoregistry.Files], consulted after
// the pool's own files, both for lookups and for resolving the imports of
// loaded files. Defaults to [protoregistry.GlobalFiles].
func WithFiles(files *protoregistry.Files) Option {
	return &optionFunc{fn: func(opts *poolOptions) error {
		opts.files = files
		return nil
	}}
}

// WithTypes configures the fallback [protoregistry.Types], used to resolve
// google.protobuf.Any payloads. Defaults to [protoregistry.GlobalTypes].
func WithTypes(types *protoregistry.Types) Option {
	return &optionFunc{fn: func(opts *poolOptions) error {
		opts.types = types
		return nil
	}}
}

// WithLogger configures a logger for load events. A nil logger disables
// logging, which is the default.
func WithLogger(logger *logiface.Logger[logiface.Event]) Option {
	return &optionFunc{fn: func(opts *poolOptions) error {
		opts.logger = logger
		return nil
	}}
}

// resolveOptions applies the given options to a default [poolOptions].
func resolveOptions(opts []Option) (*poolOptions, error) {
	cfg := &poolOptions{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.applyOption(cfg); err != nil {
			return nil, err
		}
	}
	if cfg.files == nil {
		cfg.files = protoregistry.GlobalFiles
	}
	if cfg.types == nil {
		cfg.types = protoregistry.GlobalTypes
	}
	return cfg, nil
}
