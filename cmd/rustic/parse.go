package main

import (
	"os"

	"github.com/spf13/cobra"

	"rustic/internal/diagfmt"
	"rustic/internal/driver"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] file.rs",
	Short: "Parse a source file and print its syntax tree",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func runParse(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	res, err := driver.Parse(args[0], maxDiagnostics(cmd))
	if code := printDiagnostics(cmd, res.Bag, res.FileSet); code != 0 {
		return failWith(cmd, code)
	}
	if err != nil {
		return err
	}
	return diagfmt.FormatProgramPretty(os.Stdout, res.Program)
}
