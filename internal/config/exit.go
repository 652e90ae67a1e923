package config

import (
	"fmt"
	"os"
)

// Exitf writes a formatted error message, prefixed with the program name, to
// stderr and exits with code 1.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "overlord: "+format+"\n", args...)
	os.Exit(1)
}
