package main

import (
	"fmt"
	"time"

	"smart-va/internal/config"
	"smart-va/internal/services"

	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint an admin bearer token from ADMIN_JWT_SECRET",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if cfg.Admin.JWTSecret == "" {
			return fmt.Errorf("ADMIN_JWT_SECRET is not set")
		}

		token, err := services.NewJWTService(cfg.Admin.JWTSecret).GenerateToken(tokenSubject, tokenTTL)
		if err != nil {
			return err
		}
		fmt.Println(token)
		return nil
	},
}

var (
	tokenSubject string
	tokenTTL     time.Duration
)

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "admin", "Token subject")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", services.DefaultTokenTTL, "Token lifetime")
}
