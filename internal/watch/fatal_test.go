// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsFatalFsnotifyError(t *testing.T) {
	t.Parallel()

	type testCase struct {
		name string
		err  error
		want bool
	}
	var tests []testCase
	for _, errno := range fatalErrnos {
		tests = append(tests,
			testCase{fmt.Sprintf("errno %d", uintptr(errno)), errno, true},
			testCase{fmt.Sprintf("wrapped errno %d", uintptr(errno)), fmt.Errorf("fsnotify: %w", errno), true},
		)
	}
	for _, errno := range recoverableErrnos {
		tests = append(tests, testCase{fmt.Sprintf("errno %d", uintptr(errno)), errno, false})
	}
	tests = append(tests,
		testCase{"generic error", errors.New("something went wrong"), false},
		testCase{"nil", nil, false},
	)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := isFatalFsnotifyError(tt.err); got != tt.want {
				t.Errorf("isFatalFsnotifyError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
