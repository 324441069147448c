// SPDX-License-Identifier: MPL-2.0

// Command modvis checks module visibility and name resolution in
// declaration files.
package main

import cmd "github.com/invowk/modvis/cmd/modvis"

func main() {
	cmd.Execute()
}
