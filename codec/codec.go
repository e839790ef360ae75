package codec

import (
	"errors"
	"fmt"

	"github.com/joeycumines/go-pbdynamic/schema"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"
)

type (
	// Decoder converts wire bytes to dynamic values. See [NewDecoder].
	Decoder struct {
		core
	}

	// Encoder converts dynamic values to wire bytes. See [NewEncoder].
	Encoder struct {
		core
	}

	// Codec combines a [Decoder] and an [Encoder] that share one
	// configuration, and adds schema diagnostics. See [New].
	Codec struct {
		Decoder
		Encoder
	}

	core struct {
		pool *schema.Pool
		cfg  *config
	}
)

// New returns a [Codec] resolving types from pool.
func New(pool *schema.Pool, opts ...Option) (*Codec, error) {
	c, err := newCore(pool, opts)
	if err != nil {
		return nil, err
	}
	return &Codec{Decoder: Decoder{c}, Encoder: Encoder{c}}, nil
}

// NewDecoder returns a [Decoder] resolving types from pool.
func NewDecoder(pool *schema.Pool, opts ...Option) (*Decoder, error) {
	c, err := newCore(pool, opts)
	if err != nil {
		return nil, err
	}
	return &Decoder{c}, nil
}

// NewEncoder returns an [Encoder] resolving types from pool.
func NewEncoder(pool *schema.Pool, opts ...Option) (*Encoder, error) {
	c, err := newCore(pool, opts)
	if err != nil {
		return nil, err
	}
	return &Encoder{c}, nil
}

func newCore(pool *schema.Pool, opts []Option) (core, error) {
	if pool == nil {
		return core{}, errors.New("codec: nil pool")
	}
	cfg, err := resolveOptions(opts)
	if err != nil {
		return core{}, fmt.Errorf("codec: %w", err)
	}
	return core{pool: pool, cfg: cfg}, nil
}

// PreserveInt64 reports whether 64-bit integers decode to
// [dynval.Int64Pair].
func (c *Codec) PreserveInt64() bool { return c.Decoder.cfg.preserveInt64 }

// Pool returns the pool types are resolved from.
func (c *Codec) Pool() *schema.Pool { return c.Decoder.pool }

// Info summarises the fields of the named message type.
func (c *Codec) Info(typeName string) (schema.MessageInfo, error) {
	md, err := c.Decoder.resolve(typeName)
	if err != nil {
		return schema.MessageInfo{}, c.Decoder.fail("info", typeName, err)
	}
	return schema.Describe(md), nil
}

// Types returns the sorted names of the message types loaded into the pool.
func (c *Codec) Types() []string {
	return c.Decoder.pool.MessageNames()
}

// Format renders wire bytes of the named type as multi-line proto3 JSON,
// for debugging.
func (c *Codec) Format(typeName string, data []byte) (string, error) {
	d := &c.Decoder
	md, err := d.resolve(typeName)
	if err != nil {
		return "", d.fail("format", typeName, err)
	}
	msg, err := d.unmarshal(md, data)
	if err != nil {
		return "", d.fail("format", typeName, err)
	}
	b, err := protojson.MarshalOptions{
		Multiline: true,
		Resolver:  d.pool.TypeResolver(),
	}.Marshal(msg)
	if err != nil {
		return "", d.fail("format", typeName, newError(SerializationFailure, err))
	}
	return string(b), nil
}

func (c *core) resolve(typeName string) (protoreflect.MessageDescriptor, error) {
	md, err := c.pool.FindMessage(typeName)
	if err != nil {
		return nil, newError(UnknownType, err)
	}
	return md, nil
}

func (c *core) unmarshal(md protoreflect.MessageDescriptor, data []byte) (*dynamicpb.Message, error) {
	msg := dynamicpb.NewMessage(md)
	if err := (proto.UnmarshalOptions{
		AllowPartial: true,
		Resolver:     c.pool.TypeResolver(),
	}).Unmarshal(data, msg); err != nil {
		return nil, newError(MalformedInput, err)
	}
	return msg, nil
}

// fail finalizes an error returned by an operation, setting the type name
// and logging it.
func (c *core) fail(op, typeName string, err error) error {
	var e *Error
	if !errors.As(err, &e) {
		e = newError(SerializationFailure, err)
	}
	if e.TypeName == "" {
		e.TypeName = typeName
	}
	c.cfg.logger.Debug().
		Str(`op`, op).
		Str(`kind`, e.Kind.String()).
		Str(`type`, e.TypeName).
		Str(`field`, e.Field).
		Err(e.Err).
		Log(`codec operation failed`)
	return e
}
