//
// robocide-go - UCI chess engine in Go
//
// MIT License
//

// Package assert is a helper to allow assert tests in a way that makes
// clear the check is an assertion used in non-production settings. It
// costs nothing in a release build: DEBUG is a const, so the Go compiler
// eliminates any `if assert.DEBUG { ... }` block entirely.
package assert

import "fmt"

// DEBUG enables assert checks when true. Keep call sites wrapped in
// `if assert.DEBUG { ... }` so the compiler can eliminate the check (and
// the cost of evaluating its arguments) when DEBUG is false.
const DEBUG = false

// Assert panics with the formatted message if test is false.
func Assert(test bool, msg string, a ...interface{}) {
	if !test {
		panic(fmt.Sprintf(msg, a...))
	}
}
