// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package watch

import "syscall"

// recoverableErrnos are errors the watcher logs and survives.
var recoverableErrnos = []syscall.Errno{syscall.EPERM, syscall.EACCES}
