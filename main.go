// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/invowk/modglsl/cmd/modglsl"

func main() {
	cmd.Execute()
}
