// Package tracing wires OpenTelemetry into the console. Engine round trips
// are recorded as CLIENT spans; without Init the global no-op provider is
// used and spans cost nothing.
package tracing
