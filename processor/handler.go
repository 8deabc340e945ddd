package processor

import (
	"fmt"
	"go/types"

	"github.com/dave/dst"
)

// Handler is the contract a marker-specific rewriter satisfies. The host
// hands each handler the batch of declarations matched for one of its
// markers, together with the resolved environment for the round.
//
// Processing must be order-independent across elements: iteration order of
// a batch conveys no priority, and handling one element must not depend on
// side effects from handling another.
type Handler interface {
	// Markers returns the marker identifiers this handler claims. The set
	// must be non-empty and each identifier must be uniquely resolvable
	// across all registered handlers.
	Markers() []string

	// Process rewrites the matched declarations in place. A failure on one
	// element is isolated as an *ElementError and must not abort the rest
	// of the batch; the returned error joins all element failures.
	Process(elements []*MarkedElement, env *Environment) error
}

// MarkedElement is a routine declaration the host matched for a marker,
// together with its enclosing type and compilation unit. It is read-only
// for handlers except for the routine body it points into, and is discarded
// when the round ends.
type MarkedElement struct {
	// Marker is the identifier of the marker that matched.
	Marker string

	// Object is the routine's symbol, used to locate its declaration
	// through the environment's bridge. May be nil when the host could not
	// produce type information for the declaration.
	Object *types.Func

	// Unit is the compilation unit the declaration lives in.
	Unit *dst.File

	// Name is the routine's simple name.
	Name string

	// EnclosingSimpleName is the simple name of the enclosing type, or the
	// package name for plain functions.
	EnclosingSimpleName string

	// Enclosing is the fully qualified name of the enclosing type, or the
	// package path for plain functions.
	Enclosing string

	// Params is the routine's parameter list in the host's default textual
	// rendering. Opaque and descriptive only; never parse it.
	Params string
}

// Signature renders the routine for diagnostic and counter text:
// fully.qualified.Enclosing.name(params). Callers must treat the result as
// an opaque descriptive string.
func (el *MarkedElement) Signature() string {
	return fmt.Sprintf("%s.%s%s", el.Enclosing, el.Name, el.Params)
}

func (el *MarkedElement) String() string {
	return el.Signature()
}

// ElementError isolates the failure of a single element so that sibling
// elements in the same batch can still be processed.
type ElementError struct {
	Element *MarkedElement
	Err     error
}

func (e *ElementError) Error() string {
	return fmt.Sprintf("failed to process %s: %v", e.Element.Signature(), e.Err)
}

func (e *ElementError) Unwrap() error {
	return e.Err
}
