package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"rustic/internal/diagfmt"
	"rustic/internal/driver"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] file.rs",
	Short: "Print the token stream of a source file",
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	format, _ := cmd.Flags().GetString("format")

	res, err := driver.Tokenize(args[0], maxDiagnostics(cmd))
	if code := printDiagnostics(cmd, res.Bag, res.FileSet); code != 0 {
		return failWith(cmd, code)
	}
	if err != nil {
		return err
	}

	switch format {
	case "pretty":
		return diagfmt.FormatTokensPretty(os.Stdout, res.Tokens, res.FileSet)
	case "json":
		return diagfmt.FormatTokensJSON(os.Stdout, res.Tokens)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
