//go:build !westleytest

package westley

// panicOnInvariant crashes the process when an internal invariant is
// violated, per spec: "InternalInvariant is fatal and should crash the
// process in release builds to prevent silent corruption." Builds tagged
// westleytest use the no-op in invariant_test_helper.go instead, so test
// suites run with -tags westleytest can assert on ErrInternalInvariant
// instead of crashing; a plain go test run does not set that tag.
func panicOnInvariant(err error) {
	panic(err)
}
