package processor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutcome_String(t *testing.T) {
	tests := []struct {
		outcome Outcome
		want    string
	}{
		{OutcomeNone, "None"},
		{OutcomeRewritten, "Rewritten"},
		{OutcomeSkipped, "Skipped"},
		{OutcomeFailed, "Failed"},
		{Outcome(42), "Unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.outcome.String())
	}
}

func TestOutcomeCache_Record(t *testing.T) {
	c := NewOutcomeCache()

	require.NoError(t, c.Record("example.com/app.Widget.Render()", OutcomeRewritten))
	assert.Equal(t, OutcomeRewritten, c.Get("example.com/app.Widget.Render()"))
	assert.Equal(t, OutcomeNone, c.Get("example.com/app.Widget.Paint()"))
}

func TestOutcomeCache_RecordRejectsInvalid(t *testing.T) {
	c := NewOutcomeCache()

	assert.Error(t, c.Record("example.com/app.Widget.Render()", OutcomeNone))
	assert.Error(t, c.Record("example.com/app.Widget.Render()", Outcome(9)))
	assert.Error(t, c.Record("", OutcomeRewritten))
}

func TestOutcomeCache_Count(t *testing.T) {
	c := NewOutcomeCache()
	require.NoError(t, c.Record("a()", OutcomeRewritten))
	require.NoError(t, c.Record("b()", OutcomeRewritten))
	require.NoError(t, c.Record("c()", OutcomeSkipped))

	assert.Equal(t, 2, c.Count(OutcomeRewritten))
	assert.Equal(t, 1, c.Count(OutcomeSkipped))
	assert.Equal(t, 0, c.Count(OutcomeFailed))
}
