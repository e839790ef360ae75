package schema

import (
	"sync"

	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
)

// combinedFileResolver resolves file descriptors by checking the pool's
// registry first, then falling back to the configured registry. It
// implements [protodesc.Resolver].
type combinedFileResolver struct {
	mu     *sync.RWMutex
	local  *protoregistry.Files
	global *protoregistry.Files
}

func (r *combinedFileResolver) FindFileByPath(path string) (protoreflect.FileDescriptor, error) {
	if r.mu != nil {
		r.mu.RLock()
		defer r.mu.RUnlock()
	}
	fd, err := r.local.FindFileByPath(path)
	if err == nil {
		return fd, nil
	}
	return r.global.FindFileByPath(path)
}

func (r *combinedFileResolver) FindDescriptorByName(name protoreflect.FullName) (protoreflect.Descriptor, error) {
	if r.mu != nil {
		r.mu.RLock()
		defer r.mu.RUnlock()
	}
	d, err := r.local.FindDescriptorByName(name)
	if err == nil {
		return d, nil
	}
	return r.global.FindDescriptorByName(name)
}

// combinedTypeResolver resolves message and extension types by checking
// the pool's registry first, then falling back to the configured registry.
// It satisfies the Resolver interface required by [protojson.MarshalOptions]
// and [proto.UnmarshalOptions].
type combinedTypeResolver struct {
	mu     *sync.RWMutex
	local  *protoregistry.Types
	global *protoregistry.Types
}

func (r *combinedTypeResolver) FindMessageByName(name protoreflect.FullName) (protoreflect.MessageType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	mt, err := r.local.FindMessageByName(name)
	if err == nil {
		return mt, nil
	}
	return r.global.FindMessageByName(name)
}

func (r *combinedTypeResolver) FindMessageByURL(url string) (protoreflect.MessageType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	mt, err := r.local.FindMessageByURL(url)
	if err == nil {
		return mt, nil
	}
	return r.global.FindMessageByURL(url)
}

func (r *combinedTypeResolver) FindExtensionByName(field protoreflect.FullName) (protoreflect.ExtensionType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	xt, err := r.local.FindExtensionByName(field)
	if err == nil {
		return xt, nil
	}
	return r.global.FindExtensionByName(field)
}

func (r *combinedTypeResolver) FindExtensionByNumber(message protoreflect.FullName, field protoreflect.FieldNumber) (protoreflect.ExtensionType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	xt, err := r.local.FindExtensionByNumber(message, field)
	if err == nil {
		return xt, nil
	}
	return r.global.FindExtensionByNumber(message, field)
}
