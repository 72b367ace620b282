package main

import (
	"os/user"

	"github.com/spf13/cobra"

	"github.com/dr8co/t3c/repl"
)

func newReplCmd() *cobra.Command {
	var noColor bool
	cmd:= &cobra.Command{
		Use: "repl",
		Short: "start an interactive parse loop",
		RunE: func(cmd *cobra.Command, args []string) error {
			username:= ""
			if u, err:= user.Current(); err == nil {
				username = u.Username
			}
			repl.Start(username, repl.Options{NoColor: noColor, Debug: debugFlag})
			return nil
		},
	}
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable syntax highlighting")
	return cmd
}
