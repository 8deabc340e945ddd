package codegen

import (
	"go/token"
	"strconv"
	"sync"

	"github.com/dave/dst"
)

// Name is a canonical handle for a textual identifier. Within one Interner,
// identical text always maps to an identical Name value.
type Name string

// Interner returns canonical Name handles for identifier text. It is safe
// for concurrent use.
type Interner struct {
	mu    sync.Mutex
	names map[string]Name
}

func NewInterner() *Interner {
	return &Interner{names: map[string]Name{}}
}

// FromString returns the canonical Name for the given text.
func (i *Interner) FromString(text string) Name {
	i.mu.Lock()
	defer i.mu.Unlock()

	name, ok := i.names[text]
	if !ok {
		name = Name(text)
		i.names[text] = name
	}
	return name
}

// Factory builds expression subtrees from interned names and already built
// argument subtrees. Factory methods are pure: they never mutate an existing
// tree, and argument expressions are defensively cloned, so a Factory can be
// shared by concurrent builders without coordination.
type Factory struct {
	names *Interner
}

func NewFactory(names *Interner) *Factory {
	return &Factory{names: names}
}

// Names returns the interner backing this factory.
func (f *Factory) Names() *Interner {
	return f.names
}

// Ident returns a fresh identifier node for an interned name. A new node is
// returned on every call because a DST node must appear in a tree exactly once.
func (f *Factory) Ident(name Name) *dst.Ident {
	return dst.NewIdent(string(name))
}

// QualifiedIdent returns an identifier that resolves against an import path.
// The restorer turns these into package-qualified selections and manages the
// corresponding import declaration.
func (f *Factory) QualifiedIdent(path string, name Name) *dst.Ident {
	return &dst.Ident{Name: string(name), Path: path}
}

// Call builds a call expression whose target is a chain of selections over
// the receiver path, ending in the method name. Zero receiver segments
// produce a bare identifier call. Argument order is preserved exactly as
// given; callers rely on this for diagnostic text layout.
func (f *Factory) Call(receiverPath []Name, method Name, args ...dst.Expr) *dst.CallExpr {
	if len(receiverPath) == 0 {
		return &dst.CallExpr{
			Fun:  f.Ident(method),
			Args: cloneAll(args),
		}
	}

	var receiver dst.Expr = f.Ident(receiverPath[0])
	for _, segment := range receiverPath[1:] {
		receiver = &dst.SelectorExpr{X: receiver, Sel: f.Ident(segment)}
	}

	return &dst.CallExpr{
		Fun: &dst.SelectorExpr{
			X:   receiver,
			Sel: f.Ident(method),
		},
		Args: cloneAll(args),
	}
}

// PackageCall builds a call to a function exported by the package at the
// given import path.
func (f *Factory) PackageCall(path string, function Name, args ...dst.Expr) *dst.CallExpr {
	return &dst.CallExpr{
		Fun:  f.QualifiedIdent(path, function),
		Args: cloneAll(args),
	}
}

// MethodCall builds a call to a method on an already built receiver
// expression.
func (f *Factory) MethodCall(receiver dst.Expr, method Name, args ...dst.Expr) *dst.CallExpr {
	return &dst.CallExpr{
		Fun: &dst.SelectorExpr{
			X:   dst.Clone(receiver).(dst.Expr),
			Sel: f.Ident(method),
		},
		Args: cloneAll(args),
	}
}

// StringLiteral builds a quoted string literal expression.
func (f *Factory) StringLiteral(value string) *dst.BasicLit {
	return &dst.BasicLit{
		Kind:  token.STRING,
		Value: strconv.Quote(value),
	}
}

// IntLiteral builds an integer literal expression.
func (f *Factory) IntLiteral(value int64) *dst.BasicLit {
	return &dst.BasicLit{
		Kind:  token.INT,
		Value: strconv.FormatInt(value, 10),
	}
}

// Construction builds a pointer to a freshly constructed composite value of
// the named type from the package at the given import path.
func (f *Factory) Construction(path string, typeName Name, elements ...dst.Expr) *dst.UnaryExpr {
	return &dst.UnaryExpr{
		Op: token.AND,
		X: &dst.CompositeLit{
			Type: f.QualifiedIdent(path, typeName),
			Elts: cloneAll(elements),
		},
	}
}

// Field builds a keyed element for use inside a Construction.
func (f *Factory) Field(name Name, value dst.Expr) *dst.KeyValueExpr {
	return &dst.KeyValueExpr{
		Key:   f.Ident(name),
		Value: dst.Clone(value).(dst.Expr),
	}
}

func cloneAll(exprs []dst.Expr) []dst.Expr {
	if len(exprs) == 0 {
		return nil
	}
	out := make([]dst.Expr, len(exprs))
	for i, expr := range exprs {
		out[i] = dst.Clone(expr).(dst.Expr)
	}
	return out
}
