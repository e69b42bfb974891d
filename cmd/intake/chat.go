package main

import (
	"context"
	"fmt"

	"smart-va/internal/chatui"

	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the assistant and submit a task request",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient()

		ctx, cancel := requestContext()
		health, err := client.Health(ctx)
		cancel()
		if err != nil {
			return fmt.Errorf("server at %s is not reachable: %w", apiAddr, err)
		}
		fmt.Printf("Connected to %s (storage: %s, ai: %s)\n", apiAddr, health.Storage, health.AI)

		return chatui.Run(context.Background(), client)
	},
}
