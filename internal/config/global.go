// SPDX-License-Identifier: MPL-2.0

package config

// configDirOverride replaces the user config directory when set. Tests use
// it because os.UserHomeDir ignores HOME on some platforms.
var configDirOverride string

// SetConfigDirOverride makes ConfigDir return dir until Reset is called.
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}

// Reset clears the config directory override.
func Reset() {
	configDirOverride = ""
}
