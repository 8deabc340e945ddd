// Test utils contains building blocks shared by the processor tests.

package processor

import (
	"bytes"
	"crypto/rand"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"testing"

	"github.com/dave/dst/decorator"
	"github.com/dave/dst/decorator/resolver/guess"
	"golang.org/x/tools/go/packages"
)

// createTestApp creates a test app in the given directory with the given file
// name and contents. Loading packages is expensive, so this is skipped in
// short mode.
func createTestApp(t *testing.T, testAppDir, fileName, contents string) ([]*decorator.Package, error) {
	if testing.Short() {
		t.Skip("Skipping instrumentation integration tests in short mode")
	}

	err := os.Mkdir(testAppDir, 0755)
	if err != nil {
		return nil, err
	}

	filepath := filepath.Join(testAppDir, fileName)

	f, err := os.Create(filepath)
	if err != nil {
		return nil, err
	}

	_, err = f.WriteString(contents)
	if err != nil {
		return nil, err
	}
	return decorator.Load(&packages.Config{Dir: testAppDir, Mode: packages.LoadSyntax})
}

func cleanTestApp(t *testing.T, appDirectoryName string) {
	err := os.RemoveAll(appDirectoryName)
	if err != nil {
		t.Logf("Failed to cleanup test app directory %s: %v", appDirectoryName, err)
	}
}

func panicRecovery(t *testing.T) {
	err := recover()
	if err != nil {
		t.Fatalf("%s recovered from panic: %+v\n\n%s", t.Name(), err, debug.Stack())
	}
}

func pseudoUUID() (uuid string) {
	b := make([]byte, 16)
	_, err := rand.Read(b)
	if err != nil {
		fmt.Println("Error: ", err)
		return
	}

	uuid = fmt.Sprintf("%X-%X-%X-%X-%X", b[0:4], b[4:6], b[6:8], b[8:10], b[10:])

	return
}

// testManager loads the given code as a one-file application and returns a
// Manager primed on it with the deprecated handler enabled, along with the
// temp directory the app lives in. The directory is cleaned up when the test
// ends.
func testManager(t *testing.T, code string) (*Manager, string) {
	return testManagerWithMarkers(t, code, []string{MarkerDeprecated})
}

func testManagerWithMarkers(t *testing.T, code string, markers []string) (*Manager, string) {
	defer panicRecovery(t)

	testAppDir := fmt.Sprintf("tmp_%s", pseudoUUID())
	pkgs, err := createTestApp(t, testAppDir, "app.go", code)
	if err != nil {
		cleanTestApp(t, testAppDir)
		t.Fatal(err)
	}
	t.Cleanup(func() { cleanTestApp(t, testAppDir) })

	if len(pkgs) == 0 {
		t.Fatalf("no packages loaded from %s", testAppDir)
	}

	diffFile := filepath.Join(testAppDir, "changes.diff")
	manager := NewManager(pkgs, diffFile, testAppDir, false)
	if err := manager.RegisterDefaultHandlers(markers); err != nil {
		t.Fatal(err)
	}
	manager.setPackage(pkgs[0].ID)
	return manager, testAppDir
}

// restoreFile prints the manager's current package back to source text.
func restoreFile(t *testing.T, manager *Manager, testAppDir string) string {
	pkg := manager.getDecoratorPackage()
	if pkg == nil {
		t.Fatalf("Package was nil: %+v", manager.packages)
	}

	restorer := decorator.NewRestorerWithImports(testAppDir, guess.New())

	buf := bytes.NewBuffer([]byte{})
	err := restorer.Fprint(buf, pkg.Syntax[0])
	if err != nil {
		t.Fatalf("Failed to restore the file: %v", err)
	}

	return buf.String()
}
