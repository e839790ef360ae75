package schema

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/joeycumines/logiface"
	"github.com/klauspost/compress/gzip"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/dynamicpb"
)

// ErrNotFound is returned (wrapped) by [Pool.FindMessage] when the name does
// not resolve to a message descriptor.
var ErrNotFound = errors.New("schema: message type not found")

// Pool is a registry of message schemas. Files loaded into the pool are
// linked against the pool's own files first, then the fallback files (see
// [WithFiles]).
//
// A Pool is safe for concurrent use. Loaded descriptors are immutable, so
// descriptors returned by the pool may be shared freely.
type Pool struct {
	logger      *logiface.Logger[logiface.Event]
	globalFiles *protoregistry.Files
	globalTypes *protoregistry.Types
	localFiles  *protoregistry.Files
	localTypes  *protoregistry.Types
	messages    []string
	mu          sync.RWMutex
}

// NewPool returns an empty pool. It returns an error if option validation
// fails.
func NewPool(opts ...Option) (*Pool, error) {
	cfg, err := resolveOptions(opts)
	if err != nil {
		return nil, fmt.Errorf("schema: %w", err)
	}
	return &Pool{
		logger:      cfg.logger,
		globalFiles: cfg.files,
		globalTypes: cfg.types,
		localFiles:  new(protoregistry.Files),
		localTypes:  new(protoregistry.Types),
	}, nil
}

// LoadDescriptorSet parses a serialized [descriptorpb.FileDescriptorSet],
// which may be gzip compressed, and registers every file it contains. Files
// must appear after their dependencies, unless those dependencies are
// already resolvable. Files already present in the pool are skipped.
//
// Returns the fully-qualified names of the newly registered message and enum
// types.
func (p *Pool) LoadDescriptorSet(data []byte) ([]string, error) {
	data, err := inflate(data)
	if err != nil {
		return nil, fmt.Errorf("schema: load descriptor set: %w", err)
	}

	fds := new(descriptorpb.FileDescriptorSet)
	if err := proto.Unmarshal(data, fds); err != nil {
		return nil, fmt.Errorf("schema: load descriptor set: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	var names []string
	for _, fdp := range fds.GetFile() {
		n, err := p.loadFileLocked(fdp)
		if err != nil {
			return names, err
		}
		names = append(names, n...)
	}

	p.logger.Info().
		Int(`files`, len(fds.GetFile())).
		Int(`types`, len(names)).
		Log(`loaded descriptor set`)

	return names, nil
}

// LoadFileDescriptorProto parses and registers a single serialized
// [descriptorpb.FileDescriptorProto]. Its imports must already be
// resolvable.
func (p *Pool) LoadFileDescriptorProto(data []byte) ([]string, error) {
	fdp := new(descriptorpb.FileDescriptorProto)
	if err := proto.Unmarshal(data, fdp); err != nil {
		return nil, fmt.Errorf("schema: load file descriptor: %w", err)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loadFileLocked(fdp)
}

// RegisterFile registers an already linked file descriptor, e.g. the
// descriptor of a generated package. Returns the newly registered type names.
func (p *Pool) RegisterFile(fd protoreflect.FileDescriptor) ([]string, error) {
	if fd == nil {
		return nil, errors.New("schema: register file: nil descriptor")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, err := p.localFiles.FindFileByPath(fd.Path()); err == nil {
		p.logger.Debug().Str(`path`, fd.Path()).Log(`skipped registered file`)
		return nil, nil
	}
	if err := p.localFiles.RegisterFile(fd); err != nil {
		return nil, fmt.Errorf("schema: register file %q: %w", fd.Path(), err)
	}
	return p.registerFileTypes(fd), nil
}

func (p *Pool) loadFileLocked(fdp *descriptorpb.FileDescriptorProto) ([]string, error) {
	if _, err := p.localFiles.FindFileByPath(fdp.GetName()); err == nil {
		p.logger.Debug().Str(`path`, fdp.GetName()).Log(`skipped registered file`)
		return nil, nil
	}

	// the lock is already held, the resolver must not take it
	fd, err := protodesc.NewFile(fdp, &combinedFileResolver{
		local:  p.localFiles,
		global: p.globalFiles,
	})
	if err != nil {
		return nil, fmt.Errorf("schema: link %q: %w", fdp.GetName(), err)
	}
	if err := p.localFiles.RegisterFile(fd); err != nil {
		return nil, fmt.Errorf("schema: register %q: %w", fdp.GetName(), err)
	}
	return p.registerFileTypes(fd), nil
}

// registerFileTypes registers all message and enum types from a file
// descriptor into the pool's localTypes.
func (p *Pool) registerFileTypes(fd protoreflect.FileDescriptor) []string {
	var names []string
	names = append(names, p.registerMessageTypes(fd.Messages())...)
	names = append(names, p.registerEnumTypes(fd.Enums())...)
	return names
}

// registerMessageTypes recursively registers message types, skipping
// synthetic map entry messages.
func (p *Pool) registerMessageTypes(msgs protoreflect.MessageDescriptors) []string {
	var names []string
	for i := 0; i < msgs.Len(); i++ {
		md := msgs.Get(i)
		if md.IsMapEntry() {
			continue
		}
		if err := p.localTypes.RegisterMessage(dynamicpb.NewMessageType(md)); err == nil {
			names = append(names, string(md.FullName()))
			p.messages = append(p.messages, string(md.FullName()))
		}
		names = append(names, p.registerMessageTypes(md.Messages())...)
		names = append(names, p.registerEnumTypes(md.Enums())...)
	}
	return names
}

func (p *Pool) registerEnumTypes(enums protoreflect.EnumDescriptors) []string {
	var names []string
	for i := 0; i < enums.Len(); i++ {
		ed := enums.Get(i)
		if err := p.localTypes.RegisterEnum(dynamicpb.NewEnumType(ed)); err == nil {
			names = append(names, string(ed.FullName()))
		}
	}
	return names
}

// FindMessage resolves a fully-qualified message name, checking the pool's
// files then the fallback files. A leading dot is accepted. Errors wrap
// [ErrNotFound].
func (p *Pool) FindMessage(name string) (protoreflect.MessageDescriptor, error) {
	if len(name) != 0 && name[0] == '.' {
		name = name[1:]
	}
	fullName := protoreflect.FullName(name)
	if !fullName.IsValid() {
		return nil, fmt.Errorf("%w: invalid name %q", ErrNotFound, name)
	}
	d, err := p.FileResolver().FindDescriptorByName(fullName)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	md, ok := d.(protoreflect.MessageDescriptor)
	if !ok {
		return nil, fmt.Errorf("%w: %s is a %s", ErrNotFound, name, describeKind(d))
	}
	return md, nil
}

// MessageNames returns the sorted fully-qualified names of every message type
// loaded into the pool, excluding the fallback registry.
func (p *Pool) MessageNames() []string {
	p.mu.RLock()
	names := slices.Clone(p.messages)
	p.mu.RUnlock()
	slices.Sort(names)
	return names
}

// FileResolver returns a [protodesc.Resolver] that checks the pool's files
// first, then the fallback files.
func (p *Pool) FileResolver() interface {
	FindFileByPath(string) (protoreflect.FileDescriptor, error)
	FindDescriptorByName(protoreflect.FullName) (protoreflect.Descriptor, error)
} {
	return &combinedFileResolver{
		mu:     &p.mu,
		local:  p.localFiles,
		global: p.globalFiles,
	}
}

// TypeResolver returns a resolver that checks the pool's types first, then
// the fallback types. It satisfies the resolver interfaces of
// [protojson.MarshalOptions] and [proto.UnmarshalOptions], and is used to
// expand google.protobuf.Any payloads.
func (p *Pool) TypeResolver() interface {
	FindMessageByName(protoreflect.FullName) (protoreflect.MessageType, error)
	FindMessageByURL(string) (protoreflect.MessageType, error)
	FindExtensionByName(protoreflect.FullName) (protoreflect.ExtensionType, error)
	FindExtensionByNumber(protoreflect.FullName, protoreflect.FieldNumber) (protoreflect.ExtensionType, error)
} {
	return &combinedTypeResolver{
		mu:     &p.mu,
		local:  p.localTypes,
		global: p.globalTypes,
	}
}

func describeKind(d protoreflect.Descriptor) string {
	switch d.(type) {
	case protoreflect.EnumDescriptor:
		return "enum"
	case protoreflect.EnumValueDescriptor:
		return "enum value"
	case protoreflect.FieldDescriptor:
		return "field"
	case protoreflect.OneofDescriptor:
		return "oneof"
	case protoreflect.ServiceDescriptor:
		return "service"
	case protoreflect.MethodDescriptor:
		return "method"
	case protoreflect.FileDescriptor:
		return "file"
	default:
		return "descriptor"
	}
}

var gzipMagic = []byte{0x1f, 0x8b}

// maxInflatedSize caps the decompressed size of a gzip descriptor set.
var maxInflatedSize int64 = 64 << 20

// errInflatedTooLarge is returned when gzip input decompresses beyond
// maxInflatedSize.
var errInflatedTooLarge = errors.New("decompressed descriptor set too large")

// inflate decompresses gzip input, returning other input unchanged. A
// serialized FileDescriptorSet never starts with the gzip magic, as 0x1f is
// not a valid tag for it.
func inflate(data []byte) ([]byte, error) {
	if !bytes.HasPrefix(data, gzipMagic) {
		return data, nil
	}
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	out, err := io.ReadAll(io.LimitReader(r, maxInflatedSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(out)) > maxInflatedSize {
		return nil, fmt.Errorf("%w: exceeds %d bytes", errInflatedTooLarge, maxInflatedSize)
	}
	return out, nil
}
