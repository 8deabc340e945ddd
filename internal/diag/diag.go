// Package diag is the diagnostic channel for instrumentation findings.
// Handlers report findings through a Sink; reporting is fire-and-forget and
// must never fail the caller. The default implementation collects findings
// in memory and flushes them to the console log at the end of a run.
package diag

// Severity classifies a reported finding.
type Severity uint8

const (
	Info Severity = iota
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "INFO"
	case Warning:
		return "WARN"
	case Error:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Sink receives findings from handlers. Implementations must not return
// errors or panic; a finding that cannot be delivered is dropped.
type Sink interface {
	Report(severity Severity, message string)
}
