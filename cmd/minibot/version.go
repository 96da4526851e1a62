package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/minibot"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of minibot",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "minibot version %s\n", strings.TrimSpace(minibot.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
