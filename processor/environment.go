// Package processor is the compile-time instrumentation core. It resolves a
// handle to the host's compilation state into a typed bundle of services,
// dispatches marker-specific handlers over the declarations the host matched,
// and rewrites the decorated syntax trees in place. All state in this package
// is scoped to a single processing round; nothing is retained across rounds.
package processor

import (
	"errors"
	"fmt"
	"log"
	"reflect"

	"github.com/dave/dst/decorator"
	"github.com/deprecation-tools/go-deprecation-instrumentation/internal/codegen"
	"github.com/deprecation-tools/go-deprecation-instrumentation/internal/diag"
)

// ErrEnvironmentUnavailable is returned when a handle cannot be resolved
// into a fully capable environment. It is fatal to the current round: no
// tree mutation happens after it is raised.
var ErrEnvironmentUnavailable = errors.New("compilation environment unavailable")

// UnwrapStrategy recovers the native environment from a handle that an
// intermediary tool (an IDE build daemon, a wrapping driver) has proxied.
// Strategies are best effort: a failure is absorbed by the resolver, which
// falls back to treating the original handle as native.
type UnwrapStrategy func(handle any) (any, error)

// Environment is the resolved bundle of services the instrumentation core
// needs for one processing round. Once built, every field is non-nil;
// construction fails atomically if any required service is unavailable.
type Environment struct {
	pkg     *decorator.Package
	names   *codegen.Interner
	factory *codegen.Factory
	trees   *Bridge
	sink    diag.Sink
}

// Factory returns the tree factory for building synthesized subtrees.
func (env *Environment) Factory() *codegen.Factory { return env.factory }

// Names returns the name interner for this compilation.
func (env *Environment) Names() *codegen.Interner { return env.names }

// Trees returns the bridge from routine symbols to their syntax-tree nodes.
func (env *Environment) Trees() *Bridge { return env.trees }

// Context returns the raw package context for collaborators that need it.
func (env *Environment) Context() *decorator.Package { return env.pkg }

// Sink returns the diagnostic sink for this round.
func (env *Environment) Sink() diag.Sink { return env.sink }

type resolveOptions struct {
	unwrap UnwrapStrategy
	sink   diag.Sink
}

type ResolveOption func(*resolveOptions)

// WithUnwrapStrategy replaces the default reflective unwrap with a strategy
// supplied by the host integration layer.
func WithUnwrapStrategy(strategy UnwrapStrategy) ResolveOption {
	return func(o *resolveOptions) { o.unwrap = strategy }
}

// WithSink sets the diagnostic sink the resolved environment will carry.
func WithSink(sink diag.Sink) ResolveOption {
	return func(o *resolveOptions) { o.sink = sink }
}

// Resolve turns an opaque handle to the current compilation environment into
// an Environment. The handle may be the native *decorator.Package, or a
// wrapper around one put there by an intermediary tool; wrappers are
// unwrapped on a best-effort basis. Resolve fails with
// ErrEnvironmentUnavailable when the handle is nil, is neither native nor
// unwrappable, or when any derived service is missing.
func Resolve(handle any, opts ...ResolveOption) (*Environment, error) {
	options := resolveOptions{
		unwrap: reflectiveUnwrap,
		sink:   diag.NewConsoleReporter(true),
	}
	for _, opt := range opts {
		opt(&options)
	}

	if handle == nil {
		return nil, fmt.Errorf("%w: handle is nil", ErrEnvironmentUnavailable)
	}

	pkg, ok := handle.(*decorator.Package)
	if !ok {
		unwrapped := tryUnwrap(options.unwrap, handle)
		if pkg, ok = unwrapped.(*decorator.Package); !ok {
			return nil, fmt.Errorf("%w: handle type %T is not a *decorator.Package and could not be unwrapped into one", ErrEnvironmentUnavailable, handle)
		}
	}

	// fail fast: the core never operates with a partially capable environment
	if pkg.Package == nil {
		return nil, fmt.Errorf("%w: handle carries no loaded package", ErrEnvironmentUnavailable)
	}
	if pkg.Decorator == nil || pkg.TypesInfo == nil || pkg.Fset == nil {
		return nil, fmt.Errorf("%w: package %q is missing decorator or type information", ErrEnvironmentUnavailable, pkg.ID)
	}
	if options.sink == nil {
		return nil, fmt.Errorf("%w: no diagnostic sink", ErrEnvironmentUnavailable)
	}

	names := codegen.NewInterner()
	env := &Environment{
		pkg:     pkg,
		names:   names,
		factory: codegen.NewFactory(names),
		trees:   NewBridge(pkg),
		sink:    options.sink,
	}

	log.Printf("resolved compilation environment for package %s", pkg.PkgPath)
	return env, nil
}

// tryUnwrap applies the strategy and absorbs every failure, falling back to
// the original handle. Unwrap being unavailable is not an error.
func tryUnwrap(strategy UnwrapStrategy, handle any) any {
	if strategy == nil {
		return handle
	}

	unwrapped, err := strategy(handle)
	if err != nil {
		log.Printf("WARN: failed to unwrap compilation environment handle: %v", err)
		return handle
	}
	if unwrapped == nil {
		return handle
	}
	return unwrapped
}

// reflectiveUnwrap is the default UnwrapStrategy. It looks up a niladic
// Unwrap method on the handle by name and invokes it, accepting whatever
// single value it returns. Hosts that know their wrapper shape should
// inject a cheaper strategy with WithUnwrapStrategy.
func reflectiveUnwrap(handle any) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("Unwrap invocation panicked: %v", r)
		}
	}()

	method := reflect.ValueOf(handle).MethodByName("Unwrap")
	if !method.IsValid() {
		return nil, fmt.Errorf("handle type %T has no Unwrap method", handle)
	}

	t := method.Type()
	if t.NumIn() != 0 || t.NumOut() != 1 {
		return nil, fmt.Errorf("handle type %T has an Unwrap method with an unsupported signature", handle)
	}

	return method.Call(nil)[0].Interface(), nil
}
