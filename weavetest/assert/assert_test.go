package assert

import (
	"fmt"
	"testing"

	"github.com/iov-one/splitweave/errors"
)

// recorder counts failures instead of stopping the test.
type recorder struct {
	failures []string
}

func (r *recorder) Helper() {}

func (r *recorder) Fatalf(format string, args ...interface{}) {
	r.failures = append(r.failures, fmt.Sprintf(format, args...))
}

func TestAssertions(t *testing.T) {
	var nilPtr *int
	cases := map[string]struct {
		run      func(Tester)
		wantFail bool
	}{
		"nil":                {run: func(t Tester) { Nil(t, nil) }},
		"typed nil pointer":  {run: func(t Tester) { Nil(t, nilPtr) }},
		"not nil":            {run: func(t Tester) { Nil(t, errors.ErrEmpty) }, wantFail: true},
		"equal":              {run: func(t Tester) { Equal(t, []byte("a"), []byte("a")) }},
		"different":          {run: func(t Tester) { Equal(t, int64(1), int64(2)) }, wantFail: true},
		"different types":    {run: func(t Tester) { Equal(t, 1, int64(1)) }, wantFail: true},
		"panics":             {run: func(t Tester) { Panics(t, func() { panic("boom") }) }},
		"does not panic":     {run: func(t Tester) { Panics(t, func() {}) }, wantFail: true},
		"same error":         {run: func(t Tester) { IsErr(t, errors.ErrEmpty, errors.ErrEmpty) }},
		"both nil":           {run: func(t Tester) { IsErr(t, nil, nil) }},
		"wrapped error":      {run: func(t Tester) { IsErr(t, errors.ErrEmpty, errors.Wrap(errors.ErrEmpty, "recipients")) }},
		"nil compared":       {run: func(t Tester) { IsErr(t, nil, errors.ErrEmpty) }, wantFail: true},
		"missing error":      {run: func(t Tester) { IsErr(t, errors.ErrEmpty, nil) }, wantFail: true},
		"another error code": {run: func(t Tester) { IsErr(t, errors.ErrEmpty, errors.ErrState) }, wantFail: true},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			var r recorder
			tc.run(&r)
			if failed := len(r.failures) > 0; failed != tc.wantFail {
				t.Fatalf("want failure %v, got %q", tc.wantFail, r.failures)
			}
		})
	}
}
