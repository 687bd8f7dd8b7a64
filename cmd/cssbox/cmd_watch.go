package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dhamidi/cssbox/css/codebase"
)

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <dir>",
		Short: "Watch a directory of stylesheets and report parse errors as they change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]
			cb := codebase.New(dir)
			cb.OnUpdate = func(info *codebase.FileInfo) {
				if info.ParseErr != nil {
					fmt.Fprintf(os.Stderr, "%s: %s\n", info.Path, info.ParseErr)
				} else {
					fmt.Fprintf(os.Stderr, "%s: ok\n", info.Path)
				}
			}
			watcher := codebase.NewFileWatcher(cb)
			watcher.Start()
			defer watcher.Stop()

			fmt.Fprintf(os.Stderr, "watching %s\n", dir)

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
			<-sigCh
			return nil
		},
	}
}
