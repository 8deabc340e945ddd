// Package deprecation is the runtime support library referenced by code the
// instrumentation tool injects. Instrumented programs import it to count
// invocations of deprecated routines and to construct the call markers
// attached to warning logs.
package deprecation

import (
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	mu          sync.Mutex
	invocations = map[string]uint64{}

	deprecatedCalls = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "deprecated_routine_invocations_total",
		Help: "Number of times each deprecated routine was invoked.",
	}, []string{"signature"})
)

func init() {
	prometheus.MustRegister(deprecatedCalls)
}

// OnDeprecatedCall records one invocation of the deprecated routine
// identified by its rendered signature. Injected at the head of every
// instrumented routine body.
func OnDeprecatedCall(signature string) {
	mu.Lock()
	invocations[signature]++
	mu.Unlock()

	deprecatedCalls.WithLabelValues(signature).Inc()
}

// InvocationCount returns how many times the routine has been invoked in
// this process.
func InvocationCount(signature string) uint64 {
	mu.Lock()
	defer mu.Unlock()
	return invocations[signature]
}

// Logger returns a logger scoped to the fully qualified name of the type or
// package whose deprecated routine is being reported.
func Logger(component string) *slog.Logger {
	return slog.With("component", component)
}

// DeprecatedCallError marks a single invocation of a deprecated routine. It
// carries no stack; it exists to make the offending routine visible in
// structured log output.
type DeprecatedCallError struct {
	Function string
}

func (e *DeprecatedCallError) Error() string {
	return "deprecated routine called: " + e.Function
}
