// Command leadctl drives the leads API from a terminal. The bearer token
// is kept in a credentials file between invocations.
package main

import (
	"errors"
	"fmt"
	"os"

	apierrors "github.com/leaddesk/leaddesk-dashboard/pkg/errors"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		// The unauthorized hook has already told the user to log in.
		if !errors.Is(err, apierrors.ErrUnauthorized) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
