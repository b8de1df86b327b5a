package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"rustic/internal/diag"
	"rustic/internal/diagfmt"
	"rustic/internal/source"
)

// exitCodeError carries a process exit status through cobra's error path,
// so RunE implementations never call os.Exit and deferred cleanup runs.
// The diagnostics were already printed when this is returned.
type exitCodeError struct {
	code int
}

func (e exitCodeError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// failWith silences cobra's own error printing for an exit whose cause is
// already on stderr, then returns the carrier.
func failWith(cmd *cobra.Command, code int) error {
	cmd.SilenceErrors = true
	return exitCodeError{code: code}
}

// printDiagnostics renders a bag to stderr and returns the process exit
// code the run deserves: 0 clean, 1 user error, 2 compiler defect.
func printDiagnostics(cmd *cobra.Command, bag *diag.Bag, fs *source.FileSet) int {
	if bag == nil || bag.Len() == 0 {
		return 0
	}
	bag.Sort()
	diagfmt.Pretty(os.Stderr, bag, fs, diagfmt.PrettyOpts{
		Color:       useColor(cmd, os.Stderr),
		ShowNotes:   true,
		ShowContext: true,
	})
	switch {
	case bag.HasInternalErrors():
		return 2
	case bag.HasErrors():
		return 1
	}
	return 0
}
