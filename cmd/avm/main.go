package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
)

func main() {
	cmd, cleanup := NewAvmCmd()
	err := cmd.Execute()
	cleanup()
	if err == nil {
		return
	}

	var exit exitError
	if errors.As(err, &exit) {
		os.Exit(exit.code)
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}

// exitError ends the process with code; the failure has already been reported
type exitError struct {
	code int
}

func (e exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}
