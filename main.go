// SPDX-License-Identifier: MPL-2.0

// confval inspects and edits structured configuration documents.
package main

import cmd "github.com/confval/confval/cmd/confval"

func main() {
	cmd.Execute()
}
