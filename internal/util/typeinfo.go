package util

import (
	"go/ast"
	"go/token"
	"go/types"

	"github.com/dave/dst"
	"github.com/dave/dst/decorator"
)

// TypeOf returns the types.Type of the expression according to go types info.
func TypeOf(expr dst.Expr, pkg *decorator.Package) types.Type {
	if pkg == nil || pkg.Decorator == nil {
		return nil
	}

	astNode := pkg.Decorator.Ast.Nodes[expr]
	if astNode == nil {
		return nil
	}
	astExpr, ok := astNode.(ast.Expr)
	if !ok || pkg.TypesInfo == nil {
		return nil
	}
	return pkg.TypesInfo.TypeOf(astExpr)
}

// FuncObject returns the types object declared by a function declaration,
// or nil when the declaration has no type information.
func FuncObject(decl *dst.FuncDecl, pkg *decorator.Package) *types.Func {
	if decl == nil || pkg == nil || pkg.Decorator == nil || pkg.TypesInfo == nil {
		return nil
	}

	astNode := pkg.Decorator.Ast.Nodes[decl.Name]
	ident, ok := astNode.(*ast.Ident)
	if !ok {
		return nil
	}

	obj, ok := pkg.TypesInfo.Defs[ident].(*types.Func)
	if !ok {
		return nil
	}
	return obj
}

// Position returns the source position of the node according to the
// package's file set.
func Position(node dst.Node, pkg *decorator.Package) *token.Position {
	if node == nil || pkg == nil || pkg.Decorator == nil {
		return nil
	}

	astNode := pkg.Decorator.Ast.Nodes[node]
	if astNode == nil {
		return nil
	}

	pos := pkg.Fset.Position(astNode.Pos())
	return &pos
}

// ReceiverTypeName returns the simple name of a method's receiver type, or
// an empty string for plain functions. Pointer receivers are unwrapped.
func ReceiverTypeName(decl *dst.FuncDecl) string {
	if decl == nil || decl.Recv == nil || len(decl.Recv.List) == 0 {
		return ""
	}

	recv := decl.Recv.List[0].Type
	if star, ok := recv.(*dst.StarExpr); ok {
		recv = star.X
	}
	if index, ok := recv.(*dst.IndexExpr); ok {
		// generic receiver: Widget[T]
		recv = index.X
	}
	if index, ok := recv.(*dst.IndexListExpr); ok {
		// generic receiver with multiple type parameters: Widget[K, V]
		recv = index.X
	}
	if ident, ok := recv.(*dst.Ident); ok {
		return ident.Name
	}
	return ""
}
