//go:build !unix

package main

import (
	"fmt"
	"os"
	"time"
)

// Best-effort fallback for non-Unix platforms. Runtime-level output such as
// panics still goes to the original stderr.
func redirectStdIO(path string) error {
	if path == "" {
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	fmt.Fprintf(f, "--- glyphpane pid %d started %s ---\n", os.Getpid(), time.Now().Format(time.RFC3339))
	os.Stdout = f
	os.Stderr = f
	return nil
}
