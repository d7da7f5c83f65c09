// Command reportingctl is a terminal client for the reporting API. It keeps
// the logged-in session on disk and only offers the sections open to the
// session's role.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
