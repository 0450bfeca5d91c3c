// Package splice rewrites generated regions of a Go source text.
//
// A generated block is delimited by marker lines naming its table:
//
//	// scaffold:begin table=users
//	type User struct { ... }
//	...
//	// scaffold:end table=users
//
// and sits immediately before the entry point (func main() by default),
// followed by one blank line. Parse produces a line-indexed Document so
// that a missing entry point, a missing block and an unterminated block
// are distinct states. An unterminated block, left by a hand edit, ends at
// the next marker line or the entry point.
//
// Splicer replaces a table's block; RouteSplicer replaces its gin route
// registrations after an anchor line. Both are pure text-in, text-out
// and are meant to be applied one after the other to the same snapshot.
// Neither guards against two runs rewriting one file concurrently.
package splice
