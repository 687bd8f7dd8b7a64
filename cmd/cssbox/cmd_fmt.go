package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhamidi/cssbox/css"
	"github.com/dhamidi/cssbox/css/printer"
)

func newFmtCmd() *cobra.Command {
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "fmt [file]",
		Short: "Pretty-print a stylesheet into its canonical form",
		Long: `Pretty-print a stylesheet to stdout.

If a file is provided, it is parsed and re-serialized in canonical
form. If no file is provided, reads CSS source from stdin.

Use -w to overwrite the file in place (requires a file argument).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if overwrite && len(args) == 0 {
				return fmt.Errorf("-w requires a file argument")
			}

			source, file, err := readSource(args)
			if err != nil {
				return err
			}

			rule, err := css.ParseCSS(nil, source, file)
			if err != nil {
				return err
			}

			var buf strings.Builder
			if err := printer.Fprint(&buf, rule); err != nil {
				return fmt.Errorf("format: %w", err)
			}

			if overwrite {
				return os.WriteFile(file, []byte(buf.String()), 0644)
			}
			_, err = os.Stdout.WriteString(buf.String())
			return err
		},
	}

	cmd.Flags().BoolVarP(&overwrite, "write", "w", false, "overwrite the file in place")

	return cmd
}
