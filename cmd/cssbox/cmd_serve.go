package main

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhamidi/cssbox/ui"
)

func newServeCmd() *cobra.Command {
	var addr string
	var rootDir string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web preview server",
		RunE: func(cmd *cobra.Command, args []string) error {
			server, err := ui.NewServer(rootDir)
			if err != nil {
				return fmt.Errorf("create server: %w", err)
			}
			displayAddr := addr
			if strings.HasPrefix(addr, ":") {
				displayAddr = "localhost" + addr
			}
			fmt.Printf("Starting server at http://%s\n", displayAddr)
			return http.ListenAndServe(addr, server)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "address to listen on")
	cmd.Flags().StringVar(&rootDir, "root", "", "directory of stylesheets to index and browse under /files")

	return cmd
}
