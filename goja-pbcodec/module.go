package gojapbcodec

import (
	"fmt"

	"github.com/dop251/goja"
	"github.com/joeycumines/go-pbdynamic/codec"
	"github.com/joeycumines/go-pbdynamic/schema"
	"github.com/joeycumines/logiface"
)

// Module provides the Protobuf constructor for a [goja.Runtime]. Each
// Module instance is bound to a single runtime.
type Module struct {
	runtime   *goja.Runtime
	pool      *schema.Pool
	scheduler Scheduler
	logger    *logiface.Logger[logiface.Event]
	codecOpts []codec.Option
	ctor      goja.Value
}

// New creates a new [Module] bound to the given [goja.Runtime].
//
// New panics if runtime is nil, as this is a programming error
// (invariant violation). It returns an error if option validation
// fails.
func New(runtime *goja.Runtime, opts ...Option) (*Module, error) {
	if runtime == nil {
		panic("gojapbcodec: runtime must not be nil")
	}

	cfg, err := resolveOptions(opts)
	if err != nil {
		return nil, fmt.Errorf("gojapbcodec: %w", err)
	}

	m := &Module{
		runtime:   runtime,
		pool:      cfg.pool,
		scheduler: cfg.scheduler,
		logger:    cfg.logger,
		codecOpts: cfg.codecOpts,
	}
	m.ctor = runtime.ToValue(m.construct)
	return m, nil
}

// Runtime returns the [goja.Runtime] this module is bound to.
func (m *Module) Runtime() *goja.Runtime {
	return m.runtime
}

// Constructor returns the JS Protobuf constructor.
func (m *Module) Constructor() goja.Value {
	return m.ctor
}

// SetupExports sets the Protobuf constructor as a named export on the given
// exports object. [Require] instead replaces module.exports with the
// constructor.
func (m *Module) SetupExports(exports *goja.Object) {
	_ = exports.Set("Protobuf", m.ctor)
}

// NewCodec builds the codec used by instances, loading descriptorSet into
// a new pool, or using the [WithPool] pool if descriptorSet is nil.
func (m *Module) NewCodec(descriptorSet []byte, preserveInt64 bool) (*codec.Codec, error) {
	pool := m.pool
	if descriptorSet != nil {
		var err error
		if pool, err = schema.NewPool(schema.WithLogger(m.logger)); err != nil {
			return nil, fmt.Errorf("gojapbcodec: %w", err)
		}
		if _, err := pool.LoadDescriptorSet(descriptorSet); err != nil {
			return nil, fmt.Errorf("gojapbcodec: %w", err)
		}
	} else if pool == nil {
		return nil, fmt.Errorf("gojapbcodec: descriptor bytes are required")
	}

	opts := make([]codec.Option, 0, len(m.codecOpts)+2)
	opts = append(opts, codec.WithLogger(m.logger))
	opts = append(opts, m.codecOpts...)
	opts = append(opts, codec.WithPreserveInt64(preserveInt64))

	c, err := codec.New(pool, opts...)
	if err != nil {
		return nil, fmt.Errorf("gojapbcodec: %w", err)
	}
	return c, nil
}

// construct implements `new Protobuf(descriptorBytes[, preserveInt64])`.
func (m *Module) construct(call goja.ConstructorCall) *goja.Object {
	var descriptorSet []byte
	if arg := call.Argument(0); !isNullish(arg) {
		b, err := m.extractBytes(arg)
		if err != nil {
			panic(m.runtime.NewTypeError("Protobuf: descriptor bytes: %s", err))
		}
		descriptorSet = b
	}

	preserveInt64 := true
	if arg := call.Argument(1); !goja.IsUndefined(arg) {
		preserveInt64 = arg.ToBoolean()
	}

	c, err := m.NewCodec(descriptorSet, preserveInt64)
	if err != nil {
		panic(m.runtime.NewGoError(err))
	}

	m.logger.Debug().
		Int(`types`, len(c.Types())).
		Bool(`preserveInt64`, preserveInt64).
		Log(`created protobuf instance`)

	in := &instance{m: m, codec: c}
	in.bind(call.This)
	return nil
}
