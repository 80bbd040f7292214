// Package invariant guards internal preconditions that a correctly built
// Synthesizer can never violate at runtime -- handler bounds, geometry
// relations assumed true after geometry.Validate already ran. A violation
// indicates a programming bug, not a caller-triggerable condition, so it
// panics here rather than returning an error.
package invariant

import "fmt"

// Check panics with a formatted message if cond is false. Use only for
// conditions a passing geometry.Validate (or an equivalent registration-time
// check) already guarantees -- never for anything a caller can trigger by
// passing bad input, which must return an error instead.
func Check(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf("invariant violated: "+format, args...))
	}
}
