package main

import (
	"fmt"
	"os"

	"github.com/lucas-albers-lz4/amifind/pkg/exitcodes"
)

// main is the entry point of the application. It runs the root command and
// maps the resulting error to the documented exit codes. Nothing is printed
// on stdout on failure paths; the selected identifier only ever appears on
// the success channel.
func main() {
	err := Execute()
	if err == nil {
		return
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	if code, ok := exitcodes.IsExitCodeError(err); ok {
		os.Exit(code)
	}
	os.Exit(exitcodes.ExitGeneralRuntimeError)
}
