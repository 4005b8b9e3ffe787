// Package descriptors compiles .proto sources into descriptors so that gRPC
// requests and responses can be built dynamically, without generated code.
//
// Files can be registered one at a time with RegisterProtoFile, or ingested
// in bulk with IngestProtoFile and compiled together by CompileAndRegister
// when they import each other.
package descriptors

import (
	"context"
	"fmt"
	"log"
	"slices"
	"sync"

	"github.com/bufbuild/protocompile"
	"github.com/bufbuild/protocompile/linker"
	"google.golang.org/protobuf/reflect/protoreflect"
)

type Registry interface {
	// MessageDescriptor returns the descriptor of a fully-qualified message name.
	MessageDescriptor(fullName string) (protoreflect.MessageDescriptor, bool)
	// MethodDescriptor returns the descriptor of a gRPC full method, "/pkg.Service/Method".
	MethodDescriptor(fullMethod string) (protoreflect.MethodDescriptor, bool)

	IngestProtoFile(filename, content string)
	CompileAndRegister() error
	RegisterProtoFile(filename, content string) error
}

type defaultRegistry struct {
	mu        sync.RWMutex
	sources   map[string]string
	filenames []string
	messages  map[string]protoreflect.MessageDescriptor
	methods   map[string]protoreflect.MethodDescriptor
}

func NewRegistry() Registry {
	return &defaultRegistry{
		sources:  map[string]string{},
		messages: map[string]protoreflect.MessageDescriptor{},
		methods:  map[string]protoreflect.MethodDescriptor{},
	}
}

// IngestProtoFile stores the source for the next compilation. Ingesting an
// existing filename replaces its content.
func (r *defaultRegistry) IngestProtoFile(filename, content string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources[filename] = content
	if !slices.Contains(r.filenames, filename) {
		r.filenames = append(r.filenames, filename)
	}
}

func (r *defaultRegistry) RegisterProtoFile(filename, content string) error {
	r.IngestProtoFile(filename, content)
	return r.CompileAndRegister()
}

// CompileAndRegister compiles every ingested source and registers the
// messages and methods they declare.
func (r *defaultRegistry) CompileAndRegister() error {
	files, err := r.compile()
	if err != nil {
		return fmt.Errorf("compile error: %w", err)
	}
	r.register(files)
	return nil
}

func (r *defaultRegistry) compile() (linker.Files, error) {
	r.mu.RLock()
	sources := make(map[string]string, len(r.sources))
	for name, content := range r.sources {
		sources[name] = content
	}
	filenames := slices.Clone(r.filenames)
	r.mu.RUnlock()

	resolver := protocompile.WithStandardImports(&protocompile.SourceResolver{
		ImportPaths: []string{"."},
		Accessor:    protocompile.SourceAccessorFromMap(sources),
	})
	compiler := protocompile.Compiler{Resolver: resolver}
	return compiler.Compile(context.Background(), filenames...)
}

func (r *defaultRegistry) register(files linker.Files) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, fd := range files {
		r.registerMessages(fd.Messages())

		services := fd.Services()
		for i := 0; i < services.Len(); i++ {
			svc := services.Get(i)
			methods := svc.Methods()
			for j := 0; j < methods.Len(); j++ {
				method := methods.Get(j)
				fullMethod := fmt.Sprintf("/%s/%s", svc.FullName(), method.Name())
				r.methods[fullMethod] = method
				log.Printf("method descriptor registered: %s", fullMethod)
			}
		}
	}
}

func (r *defaultRegistry) registerMessages(messages protoreflect.MessageDescriptors) {
	for i := 0; i < messages.Len(); i++ {
		md := messages.Get(i)
		name := string(md.FullName())
		if _, exists := r.messages[name]; !exists {
			log.Printf("message descriptor registered: %s", name)
		}
		r.messages[name] = md
		r.registerMessages(md.Messages())
	}
}

func (r *defaultRegistry) MessageDescriptor(fullName string) (protoreflect.MessageDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	md, ok := r.messages[fullName]
	return md, ok
}

func (r *defaultRegistry) MethodDescriptor(fullMethod string) (protoreflect.MethodDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	md, ok := r.methods[fullMethod]
	return md, ok
}
