package codegen

import (
	"fmt"

	"github.com/dave/dst"
)

const (
	// DeprecationImportPath is the runtime library referenced by injected code.
	// It is a property of the instrumented program, not of this tool; the
	// instrumented program must be able to import it.
	DeprecationImportPath = "github.com/deprecation-tools/go-deprecation-instrumentation/runtime/deprecation"
	SlogImportPath        = "log/slog"

	// Symbols referenced by the injected statements.
	CounterFunction   = "OnDeprecatedCall"
	LoggerFactory     = "With"
	LoggerType        = "Logger"
	CallErrorType     = "DeprecatedCallError"
	CallErrorField    = "Function"
	componentLogKey   = "component"
	callErrorLogKey   = "call"
	warnMessagePrefix = "deprecated routine called in"
)

// CounterStatement returns a statement that reports one invocation of a
// deprecated routine to the runtime invocation counter:
//
//	deprecation.OnDeprecatedCall("pkg/path.Type.Method(params)")
func CounterStatement(f *Factory, signature string) *dst.ExprStmt {
	return &dst.ExprStmt{
		X: f.PackageCall(DeprecationImportPath, f.Names().FromString(CounterFunction),
			f.StringLiteral(signature),
		),
	}
}

// LoggerWarnStatement returns a statement that constructs a component logger
// and emits a warning carrying a freshly constructed call marker:
//
//	slog.With("component", "pkg/path.Type").Warn("deprecated routine called in pkg/path.Type",
//		"call", &deprecation.DeprecatedCallError{Function: "pkg/path.Type.Method(params)"})
func LoggerWarnStatement(f *Factory, enclosing, signature string) *dst.ExprStmt {
	logger := f.PackageCall(SlogImportPath, f.Names().FromString(LoggerFactory),
		f.StringLiteral(componentLogKey),
		f.StringLiteral(enclosing),
	)

	marker := f.Construction(DeprecationImportPath, f.Names().FromString(CallErrorType),
		f.Field(f.Names().FromString(CallErrorField), f.StringLiteral(signature)),
	)

	return &dst.ExprStmt{
		X: f.MethodCall(logger, f.Names().FromString("Warn"),
			f.StringLiteral(fmt.Sprintf("%s %s", warnMessagePrefix, enclosing)),
			f.StringLiteral(callErrorLogKey),
			marker,
		),
	}
}
