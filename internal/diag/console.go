package diag

import (
	"log"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// ConsoleReporter is a Sink that buffers findings and writes them to the
// standard logger when flushed. Severities are colorized unless disabled.
type ConsoleReporter struct {
	mu       sync.Mutex
	findings []finding
	colors   bool
}

type finding struct {
	severity Severity
	message  string
}

func NewConsoleReporter(colors bool) *ConsoleReporter {
	return &ConsoleReporter{colors: colors}
}

func (r *ConsoleReporter) Report(severity Severity, message string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.findings = append(r.findings, finding{severity: severity, message: message})
}

// Len returns the number of buffered findings.
func (r *ConsoleReporter) Len() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.findings)
}

// Findings returns the rendered form of every buffered finding.
func (r *ConsoleReporter) Findings() []string {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	rendered := make([]string, len(r.findings))
	for i, f := range r.findings {
		rendered[i] = r.render(f)
	}
	return rendered
}

// Flush logs all buffered findings and empties the buffer.
func (r *ConsoleReporter) Flush() {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, f := range r.findings {
		log.Println(r.render(f))
	}
	r.findings = nil
}

func (r *ConsoleReporter) render(f finding) string {
	header := f.severity.String()
	if r.colors {
		switch f.severity {
		case Warning:
			header = color.YellowString(header)
		case Error:
			header = color.RedString(header)
		default:
			header = color.CyanString(header)
		}
	}

	b := strings.Builder{}
	b.WriteString(header)
	b.WriteByte(':')
	b.WriteByte(' ')
	b.WriteString(f.message)
	return b.String()
}
