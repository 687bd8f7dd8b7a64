package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhamidi/cssbox/css/cssbin"
	"github.com/dhamidi/cssbox/css/sheetset"
)

func newCompileCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "compile <dir>",
		Short: "Compile a directory of stylesheets into a binary cache file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]

			set, err := sheetset.Load(dir)
			if err != nil {
				return fmt.Errorf("load sheetset: %w", err)
			}

			if outPath == "" {
				outPath = strings.TrimSuffix(filepath.Clean(dir), string(filepath.Separator)) + ".cssb"
			}

			out, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("create output file: %w", err)
			}
			defer out.Close()

			if err := cssbin.Write(out, set.Raw, set.Rules); err != nil {
				return fmt.Errorf("compile: %w", err)
			}

			fmt.Fprintf(os.Stderr, "wrote %s (%d source files)\n", outPath, len(set.Sources))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output path (default: input directory name with .cssb extension)")

	return cmd
}
