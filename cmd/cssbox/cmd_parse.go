package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/cssbox/css"
	"github.com/dhamidi/cssbox/css/printer"
)

func newParseCmd() *cobra.Command {
	var dumpTree bool

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse a stylesheet and print the rules it produces",
		Long: `Parse a stylesheet to stdout.

If a file is provided, it is read and used as the diagnostic file name.
If no file is provided, reads CSS source from stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, file, err := readSource(args)
			if err != nil {
				return err
			}

			rule, err := css.ParseCSS(nil, source, file)
			if err != nil {
				return err
			}

			if dumpTree {
				return printer.Dump(os.Stdout, rule)
			}
			return printer.Fprint(os.Stdout, rule)
		},
	}

	cmd.Flags().BoolVar(&dumpTree, "tree", false, "print the AST as an indented debug tree instead of CSS text")

	return cmd
}

func readSource(args []string) (source []byte, file string, err error) {
	if len(args) == 0 {
		source, err = io.ReadAll(os.Stdin)
		if err != nil {
			return nil, "", fmt.Errorf("read stdin: %w", err)
		}
		return source, "<stdin>", nil
	}

	file = args[0]
	source, err = os.ReadFile(file)
	if err != nil {
		return nil, "", fmt.Errorf("read file: %w", err)
	}
	return source, file, nil
}
