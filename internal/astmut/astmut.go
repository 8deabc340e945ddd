// Package astmut performs the low-level tree mutations needed by
// instrumentation handlers: splicing statements into a routine body and
// ensuring a compilation unit carries an import declaration. A Mutator is
// scoped to one processing round and must not be shared across rounds.
package astmut

import (
	"fmt"
	"go/token"
	"slices"
	"strconv"

	"github.com/dave/dst"
	"github.com/deprecation-tools/go-deprecation-instrumentation/internal/codegen"
)

// Mutator splices synthesized statements and import declarations into a
// package's trees. Head insertions compose in call order: a later insertion
// lands after earlier-inserted statements but before every original
// statement of the body.
type Mutator struct {
	inserted map[*dst.BlockStmt]int
	imports  map[importKey]bool
}

type importKey struct {
	file *dst.File
	path string
}

func NewMutator() *Mutator {
	return &Mutator{
		inserted: map[*dst.BlockStmt]int{},
		imports:  map[importKey]bool{},
	}
}

// InsertStatementAtHead splices stmt into the body ahead of all of the
// body's original statements, after any statements previously inserted by
// this Mutator. The original statements keep their relative order.
func (m *Mutator) InsertStatementAtHead(body *dst.BlockStmt, fn *dst.FuncDecl, stmt dst.Stmt) error {
	if body == nil {
		return fmt.Errorf("cannot insert a statement into routine %q: it has no body", funcName(fn))
	}

	at := m.inserted[body]
	if at > len(body.List) {
		// the body shrank underneath us; the round owns the tree, so this
		// means two mutators touched the same body
		return fmt.Errorf("insertion point %d is out of bounds for routine %q", at, funcName(fn))
	}

	body.List = slices.Insert(body.List, at, stmt)
	m.inserted[body] = at + 1

	// restyle everything inserted so far as one block, so only the last
	// inserted statement is followed by an empty line
	codegen.CreateStatementBlock(false, body.List[:at+1]...)
	return nil
}

// AddImport ensures the compilation unit imports the package at the given
// path. The simple name identifies the symbol the caller wants to reference
// and is recorded for error text only; Go imports are package-granular.
// Duplicate requests against the same unit yield exactly one import spec.
func (m *Mutator) AddImport(file *dst.File, path, name string) error {
	if file == nil {
		return fmt.Errorf("cannot import %q for symbol %q: no compilation unit", path, name)
	}

	key := importKey{file: file, path: path}
	if m.imports[key] || hasImport(file, path) {
		m.imports[key] = true
		return nil
	}

	spec := &dst.ImportSpec{
		Path: &dst.BasicLit{Value: strconv.Quote(path)},
	}

	decl := importDecl(file)
	if decl == nil {
		decl = &dst.GenDecl{Tok: token.IMPORT}
		file.Decls = append([]dst.Decl{decl}, file.Decls...)
	}
	decl.Specs = append(decl.Specs, spec)
	file.Imports = append(file.Imports, spec)

	m.imports[key] = true
	return nil
}

func hasImport(file *dst.File, path string) bool {
	quoted := strconv.Quote(path)
	for _, spec := range file.Imports {
		if spec.Path != nil && spec.Path.Value == quoted {
			return true
		}
	}
	return false
}

func importDecl(file *dst.File) *dst.GenDecl {
	for _, decl := range file.Decls {
		gen, ok := decl.(*dst.GenDecl)
		if ok && gen.Tok == token.IMPORT {
			return gen
		}
	}
	return nil
}

func funcName(fn *dst.FuncDecl) string {
	if fn == nil || fn.Name == nil {
		return "<unknown>"
	}
	return fn.Name.Name
}
