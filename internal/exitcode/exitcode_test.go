package exitcode_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/tserase/tserase/internal/exitcode"
)

func TestGet(t *testing.T) {
	base := exitcode.Set(errors.New(""), exitcode.IO)
	wrapped := fmt.Errorf("wrapping: %w", base)

	testCases := map[string]struct {
		error
		int
	}{
		"nil":        {nil, exitcode.Success},
		"default":    {errors.New(""), exitcode.TransformFailed},
		"canceled":   {fmt.Errorf("reading: %w", context.Canceled), exitcode.Interrupted},
		"set":        {exitcode.Set(errors.New(""), exitcode.Usage), exitcode.Usage},
		"wrapped":    {wrapped, exitcode.IO},
		"set-on-nil": {exitcode.Set(nil, exitcode.Usage), exitcode.Success},
		"set-wins":   {exitcode.Set(context.Canceled, exitcode.IO), exitcode.IO},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			err := tc.error
			want := tc.int
			got := exitcode.Get(err)
			if got != want {
				t.Errorf("%v: %d != %d", err, got, want)
			}
		})
	}
}

func TestSet(t *testing.T) {
	t.Run("same-message", func(t *testing.T) {
		err := errors.New("hello")
		coder := exitcode.Set(err, exitcode.Usage)
		got := err.Error()
		want := coder.Error()
		if got != want {
			t.Errorf("error message %q != %q", got, want)
		}
	})
	t.Run("keep-chain", func(t *testing.T) {
		err := errors.New("hello")
		coder := exitcode.Set(err, exitcode.IO)

		if !errors.Is(coder, err) {
			t.Errorf("broken chain: %v is not %v", coder, err)
		}
	})
}
