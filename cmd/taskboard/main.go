// Package main provides the taskboard CLI, the local transport in front of
// the tracker core.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
}

// exitCodeFor maps caller errors to exitUserError and everything else to
// exitSysError.
func exitCodeFor(err error) int {
	for _, sentinel := range []error{
		types.ErrNotFound,
		types.ErrForbidden,
		types.ErrInvalidID,
		types.ErrInvalidData,
		types.ErrUnknownField,
		types.ErrNoFields,
		types.ErrTitleRequired,
		types.ErrBodyRequired,
		types.ErrInvalidStatus,
		types.ErrInvalidPriority,
		types.ErrInvalidFilter,
	} {
		if errors.Is(err, sentinel) {
			return exitUserError
		}
	}
	return exitSysError
}
