package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "minibot",
	Short: "minibot is a keyword driven Turkish chatbot",
	Long: `minibot answers greetings, tells the time, evaluates arithmetic safely
and keeps a small to-do list. Run it without arguments to start chatting.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().Bool("debug", false, "Write debug logs to stderr")
	rootCmd.PersistentFlags().String("replies", "", "YAML file overriding the built-in replies")
	rootCmd.PersistentFlags().String("redis-url", "", "Keep task lists in Redis (redis://host:port/db)")
}
