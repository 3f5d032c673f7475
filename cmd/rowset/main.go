// Command rowset filters, sorts, pages and exports JSON rows from the command
// line using an in-memory row store.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(os.Stdin, os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}
