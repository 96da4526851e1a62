package main

import (
	"github.com/aretw0/minibot/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP chat server",
	Long: `Serves the chat API described by /openapi.yaml. Every session_id gets its
own bot and task list; use --redis-url to share task lists between replicas.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		debug, _ := cmd.Flags().GetBool("debug")
		replies, _ := cmd.Flags().GetString("replies")
		redisURL, _ := cmd.Flags().GetString("redis-url")
		port, _ := cmd.Flags().GetInt("port")
		metrics, _ := cmd.Flags().GetBool("metrics")

		return cli.Serve(cmd.Context(), cli.ServeOptions{
			Port:        port,
			Debug:       debug,
			Metrics:     metrics,
			RepliesPath: replies,
			RedisURL:    redisURL,
			Stdout:      cmd.OutOrStdout(),
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	serveCmd.Flags().Bool("metrics", true, "Expose Prometheus metrics on /metrics")
}
