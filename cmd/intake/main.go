package main

import (
	"fmt"
	"os"

	"smart-va/internal/apiclient"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "intake",
	Short: "Smart Virtual Assistant intake CLI",
	Long: `intake talks to a running Smart Virtual Assistant server: chat with the
assistant, review submitted task requests and mint admin tokens.`,
	SilenceUsage: true,
}

var (
	apiAddr  string
	apiToken string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&apiAddr, "api", envOr("INTAKE_API", "http://localhost:5000"), "API server address")
	rootCmd.PersistentFlags().StringVar(&apiToken, "token", os.Getenv("INTAKE_TOKEN"), "Admin bearer token")

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(tasksCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(dbCheckCmd)
}

func newClient() *apiclient.Client {
	return apiclient.NewClient(apiAddr, apiToken)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
