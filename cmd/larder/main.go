// Package main provides the larder CLI: import resource files into a local
// store, inspect them, and run conversions between resource types.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/mesh-intelligence/larder/pkg/types"
)

// Exit codes; success is 0.
const (
	exitUserError = 1
	exitSysError  = 2
)

// userErrors are failures caused by the request rather than the system.
var userErrors = []error{
	types.ErrUnsupportedFormat,
	types.ErrMalformed,
	types.ErrUnsupportedType,
	types.ErrNotCastable,
	types.ErrNotDecomposable,
	types.ErrEmpty,
	types.ErrPackMismatch,
	types.ErrUnknownType,
	types.ErrNotFound,
	types.ErrAmbiguousName,
	types.ErrInvalidName,
	types.ErrUnknownFile,
	errUsage,
}

var errUsage = errors.New("usage")

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "larder:", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps an error to exitUserError or exitSysError.
func exitCode(err error) int {
	for _, target := range userErrors {
		if errors.Is(err, target) {
			return exitUserError
		}
	}
	return exitSysError
}
