// Package clock wraps time.Now so tests can pin the wall clock.
package clock

import "time"

// LogLayout is the timestamp layout used for activity log entries.
const LogLayout = "15:04:05"

// NowFunc returns current time. Override in tests for determinism.
var NowFunc = time.Now

// Now is a thin wrapper around NowFunc.
func Now() time.Time { return NowFunc() }

// Stamp returns the current local time formatted with LogLayout.
func Stamp() string { return Now().Format(LogLayout) }
