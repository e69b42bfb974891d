package main

import (
	"context"
	"fmt"
	"time"

	"smart-va/internal/config"
	"smart-va/internal/database"
	"smart-va/internal/models"
	"smart-va/internal/services"

	"github.com/spf13/cobra"
)

var dbCheckCmd = &cobra.Command{
	Use:   "db-check",
	Short: "Check the configured databases and show the latest task requests",
	RunE:  runDBCheck,
}

var dbCheckLimit int

func init() {
	dbCheckCmd.Flags().IntVar(&dbCheckLimit, "limit", 5, "Number of recent records to show")
}

func runDBCheck(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	checked := 0
	if cfg.MongoDB.Configured() {
		checked++
		fmt.Println("=== MongoDB ===")
		_, logURI := database.BuildMongoURI(cfg.MongoDB)
		fmt.Printf("URI: %s\n", logURI)
		fmt.Printf("Collection: %s\n", cfg.MongoDB.Collection)
		client, err := database.NewMongoDBClient(cfg.MongoDB)
		if err != nil {
			fmt.Printf("ERROR: %v\n\n", err)
		} else {
			checkStore(client)
			client.Close()
		}
	}

	if cfg.SQLite.Path != "" {
		checked++
		fmt.Println("=== SQLite ===")
		fmt.Printf("Path: %s\n", cfg.SQLite.Path)
		store, err := database.NewSQLiteStore(cfg.SQLite.Path)
		if err != nil {
			fmt.Printf("ERROR: %v\n\n", err)
		} else {
			checkStore(store)
			store.Close()
		}
	}

	if checked == 0 {
		fmt.Println("No database configured: set MONGODB_URI, MONGODB_HOST or SQLITE_PATH.")
		fmt.Println("The server will keep task requests in memory.")
	}
	return nil
}

func checkStore(store services.TaskStore) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := store.Ping(ctx); err != nil {
		fmt.Printf("Ping failed: %v\n\n", err)
		return
	}
	fmt.Println("Ping: ok")

	tasks, total, err := store.ListTasks(ctx, models.TaskFilter{Page: 1, Limit: dbCheckLimit})
	if err != nil {
		fmt.Printf("ERROR listing task requests: %v\n\n", err)
		return
	}
	fmt.Printf("Found %d task requests\n", total)
	for i, t := range tasks {
		fmt.Printf("  [%d] %s  %s <%s>  %s  %s\n",
			i+1, t.CreatedAt.Format(time.RFC3339), t.Name, t.Email, t.TaskCategory, t.Status)
	}
	if total > int64(len(tasks)) {
		fmt.Printf("  ... and %d more records\n", total-int64(len(tasks)))
	}
	fmt.Println()
}
