package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsoleReporter_Report(t *testing.T) {
	r := NewConsoleReporter(false)
	r.Report(Warning, "deprecated method detected")
	r.Report(Info, "resolved environment")

	assert.Equal(t, 2, r.Len())

	r.Flush()
	assert.Equal(t, 0, r.Len())
}

func TestConsoleReporter_NilSafety(t *testing.T) {
	var r *ConsoleReporter
	r.Report(Warning, "dropped")
	r.Flush()
	assert.Equal(t, 0, r.Len())
}

func TestSeverity_String(t *testing.T) {
	tests := []struct {
		severity Severity
		want     string
	}{
		{Info, "INFO"},
		{Warning, "WARN"},
		{Error, "ERROR"},
		{Severity(12), "UNKNOWN"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.severity.String())
	}
}
