// Command timeseer runs time series analyses from the command line: a
// narrated walkthrough in standard mode, or a JSON-in/JSON-out analysis in
// API mode.
package main

import (
	"errors"
	"fmt"
	"os"
)

// exitError carries a process exit code. Its message, if any, has already
// been printed.
type exitError struct {
	code int
}

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		var exit *exitError
		if errors.As(err, &exit) {
			os.Exit(exit.code)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
