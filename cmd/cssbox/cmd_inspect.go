package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/cssbox/css/cssbin"
	"github.com/dhamidi/cssbox/css/printer"
)

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <file.cssb>",
		Short: "Print the contents of a compiled stylesheet cache file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open file: %w", err)
			}
			defer f.Close()

			rule, meta, err := cssbin.Read(f)
			if err != nil {
				return fmt.Errorf("read compiled stylesheet: %w", err)
			}

			fmt.Printf("version: %d\n", meta.Version)
			fmt.Printf("source hash: %x\n", meta.SourceHash)
			fmt.Println()

			return printer.Dump(os.Stdout, rule)
		},
	}

	return cmd
}
