// Package assert holds the assertions used by the ledger tests. Unlike
// testify's assert package, every failed assertion stops the test at once,
// as later steps of a ledger test depend on the state created by earlier
// ones.
package assert

import (
	tassert "github.com/stretchr/testify/assert"
)

// Tester is the part of testing.TB the assertions use.
type Tester interface {
	Helper()
	Fatalf(string, ...interface{})
}

// fatal reports testify failures through Fatalf.
type fatal struct {
	Tester
}

func (f fatal) Errorf(format string, args ...interface{}) {
	f.Helper()
	f.Fatalf(format, args...)
}

// Nil fails the test if value is not nil. A typed nil pointer is nil.
func Nil(t Tester, value interface{}) {
	t.Helper()
	tassert.Nil(fatal{t}, value, "%+v", value)
}

// Equal fails the test if the values are not equal.
func Equal(t Tester, want, got interface{}) {
	t.Helper()
	tassert.Equal(fatal{t}, want, got)
}

// Panics fails the test if fn returns without a panic.
func Panics(t Tester, fn func()) {
	t.Helper()
	tassert.Panics(fatal{t}, fn)
}

// IsErr fails the test if got is not want, or an error wrapping want. When
// want is one of the registered errors, any error of the same code matches.
func IsErr(t Tester, want, got error) {
	t.Helper()
	if want == got {
		return
	}
	if w, ok := want.(interface{ Is(error) bool }); ok && w.Is(got) {
		return
	}
	t.Fatalf("want %q error, got %+v", want, got)
}
