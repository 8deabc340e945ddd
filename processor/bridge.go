package processor

import (
	"fmt"
	"go/types"

	"github.com/dave/dst"
	"github.com/dave/dst/decorator"
	"github.com/deprecation-tools/go-deprecation-instrumentation/internal/util"
)

// Bridge maps routine symbols to the syntax-tree nodes that declare them,
// and declarations to their enclosing compilation units. It is a read path
// over the decorator's node maps; it never mutates the tree.
type Bridge struct {
	pkg *decorator.Package
}

func NewBridge(pkg *decorator.Package) *Bridge {
	return &Bridge{pkg: pkg}
}

// FuncDecl returns the declaration node for the given routine symbol.
func (b *Bridge) FuncDecl(obj *types.Func) (*dst.FuncDecl, error) {
	if obj == nil {
		return nil, fmt.Errorf("no symbol to locate a declaration for")
	}

	for _, file := range b.pkg.Syntax {
		for _, decl := range file.Decls {
			fn, ok := decl.(*dst.FuncDecl)
			if !ok {
				continue
			}
			if util.FuncObject(fn, b.pkg) == obj {
				return fn, nil
			}
		}
	}
	return nil, fmt.Errorf("no declaration found for %s in package %s", obj.Name(), b.pkg.PkgPath)
}

// FileOf returns the compilation unit containing the declaration.
func (b *Bridge) FileOf(decl dst.Decl) (*dst.File, error) {
	for _, file := range b.pkg.Syntax {
		for _, d := range file.Decls {
			if d == decl {
				return file, nil
			}
		}
	}
	return nil, fmt.Errorf("declaration does not belong to package %s", b.pkg.PkgPath)
}
