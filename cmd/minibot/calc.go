package main

import (
	"strings"

	"github.com/aretw0/minibot/internal/cli"
	"github.com/spf13/cobra"
)

var calcCmd = &cobra.Command{
	Use:   "calc <expression>",
	Short: "Evaluate an arithmetic expression once",
	Example: `  minibot calc "2^3^2"
  minibot calc --tree "(1+2)*3"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tree, _ := cmd.Flags().GetBool("tree")
		return cli.Calc(cmd.Context(), cmd.OutOrStdout(), strings.Join(args, " "), tree)
	},
}

func init() {
	rootCmd.AddCommand(calcCmd)
	calcCmd.Flags().Bool("tree", false, "Print the parsed expression before the result")
}
