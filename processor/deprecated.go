package processor

import (
	"errors"
	"fmt"

	"github.com/deprecation-tools/go-deprecation-instrumentation/internal/astmut"
	"github.com/deprecation-tools/go-deprecation-instrumentation/internal/codegen"
	"github.com/deprecation-tools/go-deprecation-instrumentation/internal/diag"
)

// MarkerDeprecated identifies declarations carrying the standard Go
// deprecation convention: a doc comment containing a "Deprecated:" paragraph.
const MarkerDeprecated = "deprecated"

// OutcomeRecorder receives the terminal state of each processed element.
type OutcomeRecorder func(el *MarkedElement, outcome Outcome)

// DeprecatedHandler rewrites every routine matched for the deprecated marker
// so that each entry into the routine logs a warning and reports itself to
// the runtime invocation counter. The two statements are spliced at the head
// of the body, ahead of all original statements, and the enclosing unit is
// made to import the symbols the injected code references.
type DeprecatedHandler struct {
	record OutcomeRecorder
}

// NewDeprecatedHandler returns a handler that reports element outcomes
// through record. A nil recorder disables outcome reporting.
func NewDeprecatedHandler(record OutcomeRecorder) *DeprecatedHandler {
	return &DeprecatedHandler{record: record}
}

func (h *DeprecatedHandler) Markers() []string {
	return []string{MarkerDeprecated}
}

// Process rewrites each matched element in place. Failures are isolated per
// element: the returned error joins one *ElementError per failed element,
// and sibling elements are processed regardless.
func (h *DeprecatedHandler) Process(elements []*MarkedElement, env *Environment) error {
	mutator := astmut.NewMutator()

	var errs []error
	for _, el := range elements {
		outcome, err := h.processElement(el, env, mutator)
		if h.record != nil {
			h.record(el, outcome)
		}
		if err != nil {
			errs = append(errs, &ElementError{Element: el, Err: err})
		}
	}
	return errors.Join(errs...)
}

func (h *DeprecatedHandler) processElement(el *MarkedElement, env *Environment, mutator *astmut.Mutator) (Outcome, error) {
	// Heuristic, not a semantic check: a routine sharing its enclosing
	// type's simple name is reported as a constructor. A same-named
	// ordinary member is misclassified in the diagnostic text.
	kind := "method"
	if el.Name == el.EnclosingSimpleName {
		kind = "constructor"
	}

	// Import requests are fire and forget; the mutator deduplicates
	// requests against the same unit.
	mutator.AddImport(el.Unit, codegen.DeprecationImportPath, codegen.CounterFunction)
	mutator.AddImport(el.Unit, codegen.SlogImportPath, codegen.LoggerFactory)
	mutator.AddImport(el.Unit, codegen.SlogImportPath, codegen.LoggerType)

	// The warning is reported before body location so the build surface
	// reflects every matched usage even when later steps fail.
	signature := el.Signature()
	env.Sink().Report(diag.Warning, fmt.Sprintf("usage of deprecated %s detected: %s", kind, signature))

	decl, err := env.Trees().FuncDecl(el.Object)
	if err != nil {
		return OutcomeFailed, err
	}
	if decl.Body == nil {
		// interface or external declaration: nothing to splice into
		return OutcomeSkipped, nil
	}

	factory := env.Factory()
	loggerStmt := codegen.LoggerWarnStatement(factory, el.Enclosing, signature)
	counterStmt := codegen.CounterStatement(factory, signature)

	// Insertions compose in call order: the logger statement runs first on
	// every entry, the counter second, both before any original logic.
	if err := mutator.InsertStatementAtHead(decl.Body, decl, loggerStmt); err != nil {
		return OutcomeFailed, err
	}
	if err := mutator.InsertStatementAtHead(decl.Body, decl, counterStmt); err != nil {
		return OutcomeFailed, err
	}

	return OutcomeRewritten, nil
}
