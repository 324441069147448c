// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"errors"
	"slices"
	"syscall"
)

// isFatalFsnotifyError reports whether err means the watcher cannot recover,
// so a check loop should stop instead of waiting for more events.
func isFatalFsnotifyError(err error) bool {
	return slices.ContainsFunc(fatalErrnos, func(errno syscall.Errno) bool {
		return errors.Is(err, errno)
	})
}
