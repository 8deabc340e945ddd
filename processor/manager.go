package processor

import (
	"bytes"
	"fmt"
	"go/types"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dave/dst"
	"github.com/dave/dst/decorator"
	"github.com/dave/dst/decorator/resolver/gopackages"
	"github.com/deprecation-tools/go-deprecation-instrumentation/internal/codegen"
	"github.com/deprecation-tools/go-deprecation-instrumentation/internal/diag"
	"github.com/deprecation-tools/go-deprecation-instrumentation/internal/util"
	godiffpatch "github.com/sourcegraph/go-diff-patch"
)

// debugOutput gates verbose progress lines during a run.
var debugOutput bool

// EnableDebugOutput turns on verbose logging of marker discovery and
// per-element outcomes.
func EnableDebugOutput() {
	debugOutput = true
}

// Manager drives instrumentation rounds across all loaded packages: it
// discovers marked declarations, resolves an environment per package,
// dispatches the registered handlers, and writes the resulting tree changes
// out as a unified diff. State is per run; a Manager is not reused.
type Manager struct {
	userAppPath    string // path to the user's application as provided by the user
	diffFile       string
	currentPackage string
	registry       Registry
	packages       map[string]*PackageState // stores stateful information on packages by ID
	reporter       *diag.ConsoleReporter
}

// PackageState contains instrumentation state for a single package.
type PackageState struct {
	pkg          *decorator.Package // the package being instrumented
	outcomes     OutcomeCache       // terminal state per processed routine
	importsAdded map[string]bool    // tracks module paths the rewritten code references
}

// NewManager initializes a Manager for the given packages.
func NewManager(pkgs []*decorator.Package, diffFile, userAppPath string, colors bool) *Manager {
	manager := &Manager{
		userAppPath: userAppPath,
		diffFile:    diffFile,
		registry:    NewRegistry(),
		packages:    map[string]*PackageState{},
		reporter:    diag.NewConsoleReporter(colors),
	}

	for _, pkg := range pkgs {
		manager.packages[pkg.ID] = &PackageState{
			pkg:          pkg,
			outcomes:     NewOutcomeCache(),
			importsAdded: map[string]bool{},
		}
	}

	return manager
}

// RegisterDefaultHandlers registers the handlers this tool ships with, for
// the enabled markers only. Enabled markers without a shipped handler are
// ignored; they simply never match anything.
func (m *Manager) RegisterDefaultHandlers(markers []string) error {
	for _, marker := range markers {
		if marker == MarkerDeprecated {
			if err := m.registry.Register(NewDeprecatedHandler(m.recordOutcome)); err != nil {
				return err
			}
		}
	}
	return nil
}

// RegisterHandler adds a marker-specific handler to the run.
func (m *Manager) RegisterHandler(h Handler) error {
	return m.registry.Register(h)
}

// Reporter returns the diagnostic reporter collecting this run's findings.
func (m *Manager) Reporter() *diag.ConsoleReporter {
	return m.reporter
}

func (m *Manager) CreateDiffFile() error {
	f, err := os.Create(m.diffFile)
	f.Close()
	return err
}

func (m *Manager) setPackage(pkgName string) {
	m.currentPackage = pkgName
}

func (m *Manager) addImport(path string) {
	state, ok := m.packages[m.currentPackage]
	if ok {
		state.importsAdded[path] = true
	}
}

func (m *Manager) getDecoratorPackage() *decorator.Package {
	state, ok := m.packages[m.currentPackage]
	if !ok {
		return nil
	}
	return state.pkg
}

func (m *Manager) recordOutcome(el *MarkedElement, outcome Outcome) {
	state, ok := m.packages[m.currentPackage]
	if !ok {
		return
	}
	if err := state.outcomes.Record(el.Signature(), outcome); err != nil {
		log.Printf("failed to record outcome for %s: %v", el.Signature(), err)
		return
	}
	if debugOutput {
		log.Printf("%s: %s", outcome, el.Signature())
	}
}

// OutcomeCounts aggregates element outcomes across all packages.
func (m *Manager) OutcomeCounts() map[Outcome]int {
	counts := map[Outcome]int{}
	for _, state := range m.packages {
		for _, outcome := range state.outcomes {
			counts[outcome]++
		}
	}
	return counts
}

// markerMatchers decides, per marker, whether a doc comment carries it.
var markerMatchers = map[string]func(docLines []string) bool{
	MarkerDeprecated: hasDeprecatedParagraph,
}

// hasDeprecatedParagraph reports whether the doc comment follows the
// standard Go deprecation convention.
func hasDeprecatedParagraph(docLines []string) bool {
	for _, line := range docLines {
		text := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "//"))
		if strings.HasPrefix(text, "Deprecated:") {
			return true
		}
	}
	return false
}

// markersOf returns the registered markers the declaration carries.
func (m *Manager) markersOf(decl *dst.FuncDecl) []string {
	doc := decl.Decorations().Start.All()
	if len(doc) == 0 {
		return nil
	}

	var markers []string
	for _, marker := range m.registry.Markers() {
		match := markerMatchers[marker]
		if match != nil && match(doc) {
			markers = append(markers, marker)
		}
	}
	return markers
}

// discoverMarkedElements scans every compilation unit of the current package
// for declarations carrying a registered marker, grouped per marker.
func (m *Manager) discoverMarkedElements(state *PackageState) map[string][]*MarkedElement {
	batches := map[string][]*MarkedElement{}

	for _, file := range state.pkg.Syntax {
		pos := util.Position(file, state.pkg)
		if pos != nil && strings.Contains(pos.Filename, ".pb.go") {
			continue
		}

		for _, decl := range file.Decls {
			fn, isFn := decl.(*dst.FuncDecl)
			if !isFn {
				continue
			}
			for _, marker := range m.markersOf(fn) {
				batches[marker] = append(batches[marker], m.newMarkedElement(marker, fn, file, state.pkg))
			}
		}
	}

	return batches
}

func (m *Manager) newMarkedElement(marker string, fn *dst.FuncDecl, file *dst.File, pkg *decorator.Package) *MarkedElement {
	el := &MarkedElement{
		Marker: marker,
		Object: util.FuncObject(fn, pkg),
		Unit:   file,
		Name:   fn.Name.Name,
		Params: "()",
	}

	if recv := util.ReceiverTypeName(fn); recv != "" {
		el.EnclosingSimpleName = recv
		el.Enclosing = fmt.Sprintf("%s.%s", pkg.PkgPath, recv)
	} else {
		el.EnclosingSimpleName = pkg.Name
		el.Enclosing = pkg.PkgPath
	}

	if el.Object != nil {
		if sig, ok := el.Object.Type().(*types.Signature); ok {
			el.Params = sig.Params().String()
		}
	}

	return el
}

// InstrumentApplication applies instrumentation in place to the dst trees
// stored in the Manager. This does not change any source code, just the
// decorated syntax trees generated from it.
//
// An unresolvable environment aborts the run before any tree mutation for
// that package. Element failures inside a batch are reported and absorbed:
// sibling elements and remaining packages are still processed.
func (m *Manager) InstrumentApplication() error {
	for pkgName, state := range m.packages {
		m.setPackage(pkgName)

		env, err := Resolve(state.pkg, WithSink(m.reporter))
		if err != nil {
			return fmt.Errorf("cannot instrument package %s: %w", pkgName, err)
		}

		batches := m.discoverMarkedElements(state)
		for _, marker := range sortedKeys(batches) {
			if debugOutput {
				log.Printf("package %s: %d declarations marked %q", pkgName, len(batches[marker]), marker)
			}

			handler := m.registry.Handler(marker)
			if handler == nil {
				continue
			}

			if err := handler.Process(batches[marker], env); err != nil {
				m.reporter.Report(diag.Error, err.Error())
			}
			if len(batches[marker]) > 0 {
				m.addImport(codegen.DeprecationImportPath)
			}
		}
	}
	return nil
}

func sortedKeys(batches map[string][]*MarkedElement) []string {
	keys := make([]string, 0, len(batches))
	for key := range batches {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// WriteDiff writes out the changes made to the trees as a unified diff
// against the original source files.
func (m *Manager) WriteDiff() error {
	for _, state := range m.packages {
		r := decorator.NewRestorerWithImports(state.pkg.Dir, gopackages.New(state.pkg.Dir))

		for _, file := range state.pkg.Syntax {
			path := state.pkg.Decorator.Filenames[file]
			originalFile, err := os.ReadFile(path)
			if err != nil {
				return err
			}

			absAppPath, err := filepath.Abs(m.userAppPath)
			if err != nil {
				return err
			}
			diffFileName, err := filepath.Rel(absAppPath, path)
			if err != nil {
				return err
			}

			modifiedFile := bytes.NewBuffer([]byte{})
			if err := r.Fprint(modifiedFile, file); err != nil {
				return err
			}

			f, err := os.OpenFile(m.diffFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
			if err != nil {
				return err
			}
			defer f.Close()

			patch := godiffpatch.GeneratePatch(diffFileName, string(originalFile), modifiedFile.String())
			if _, err := f.WriteString(patch); err != nil {
				return err
			}
		}
	}
	log.Printf("changes written to %s", m.diffFile)
	return nil
}

// AddRequiredModules runs `go get` in each instrumented package directory
// for every non-standard-library module the rewritten code now references.
func (m *Manager) AddRequiredModules() error {
	for _, state := range m.packages {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %v", err)
		}

		defer func() {
			err := os.Chdir(wd)
			if err != nil {
				log.Printf("error changing back to working directory: %v", err)
			}
		}()

		err = os.Chdir(state.pkg.Dir)
		if err != nil {
			return err
		}

		for module := range state.importsAdded {
			if isStandardLibrary(module) {
				continue
			}
			err := exec.Command("go", "get", module).Run()
			if err != nil {
				return fmt.Errorf("error getting Go module %s: %v", module, err)
			}
		}
	}

	return nil
}

// isStandardLibrary reports whether an import path belongs to the standard
// library: its first path segment carries no domain dot.
func isStandardLibrary(path string) bool {
	first, _, _ := strings.Cut(path, "/")
	return !strings.Contains(first, ".")
}
