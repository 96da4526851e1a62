package main

import (
	"github.com/aretw0/minibot/internal/cli"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Chat with the bot in the terminal",
	Long:  `Starts an interactive conversation on Stdin/Stdout. Type q, çık or exit to leave.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		debug, _ := cmd.Flags().GetBool("debug")
		replies, _ := cmd.Flags().GetString("replies")
		redisURL, _ := cmd.Flags().GetString("redis-url")
		sessionID, _ := cmd.Flags().GetString("session")
		headless, _ := cmd.Flags().GetBool("headless")
		plain, _ := cmd.Flags().GetBool("plain")
		jsonMode, _ := cmd.Flags().GetBool("json")

		return cli.Execute(cmd.Context(), cli.RunOptions{
			Headless:    headless,
			JSON:        jsonMode,
			Plain:       plain,
			Debug:       debug,
			RepliesPath: replies,
			SessionID:   sessionID,
			RedisURL:    redisURL,
			Stdin:       cmd.InOrStdin(),
			Stdout:      cmd.OutOrStdout(),
		})
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("session", cli.DefaultSessionID, "Conversation ID (selects the task list when using Redis)")
	runCmd.Flags().Bool("headless", false, "No banner and no prompt, for scripted input")
	runCmd.Flags().Bool("plain", false, "Disable colors and markdown rendering")
	runCmd.Flags().Bool("json", false, "Run in JSON mode (NDJSON input/output)")

	// Chatting is the default when no subcommand is given.
	rootCmd.Flags().AddFlagSet(runCmd.Flags())
	rootCmd.RunE = runCmd.RunE
}
