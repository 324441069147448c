// SPDX-License-Identifier: MPL-2.0

//go:build windows

package watch

import "syscall"

// recoverableErrnos are errors the watcher logs and survives: ERROR_FILE_NOT_FOUND and
// ERROR_ACCESS_DENIED.
var recoverableErrnos = []syscall.Errno{2, 5}
