//go:build westleytest

package westley

// In test builds, an internal invariant violation is reported as an error
// instead of crashing the process, so tests can assert on it directly.
func panicOnInvariant(err error) {}
