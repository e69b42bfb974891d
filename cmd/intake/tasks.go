package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"smart-va/internal/models"

	"github.com/spf13/cobra"
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Review submitted task requests",
}

var tasksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List task requests, newest first",
	RunE:  runTasksList,
}

var tasksGetCmd = &cobra.Command{
	Use:   "get [task-id]",
	Short: "Show the full record of a task request",
	Args:  cobra.ExactArgs(1),
	RunE:  runTasksGet,
}

var tasksStatusCmd = &cobra.Command{
	Use:   "status [task-id] [status]",
	Short: "Set the status (pending, in-progress, completed, cancelled)",
	Args:  cobra.ExactArgs(2),
	RunE:  runTasksStatus,
}

var tasksReceiptCmd = &cobra.Command{
	Use:   "receipt [task-id]",
	Short: "Download the PDF receipt of a task request",
	Args:  cobra.ExactArgs(1),
	RunE:  runTasksReceipt,
}

var (
	listStatus   string
	listTaskType string
	listPage     int
	listLimit    int
	receiptOut   string
)

func init() {
	tasksCmd.AddCommand(tasksListCmd, tasksGetCmd, tasksStatusCmd, tasksReceiptCmd)

	tasksListCmd.Flags().StringVar(&listStatus, "status", "", "Filter by status")
	tasksListCmd.Flags().StringVar(&listTaskType, "type", "", "Filter by task type")
	tasksListCmd.Flags().IntVar(&listPage, "page", 1, "Page number")
	tasksListCmd.Flags().IntVar(&listLimit, "limit", 10, "Page size")

	tasksReceiptCmd.Flags().StringVarP(&receiptOut, "output", "o", "", "Output file (default task-request-<id>.pdf)")
}

func requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

func runTasksList(cmd *cobra.Command, args []string) error {
	ctx, cancel := requestContext()
	defer cancel()

	tasks, page, err := newClient().ListTasks(ctx, models.TaskFilter{
		Status:   listStatus,
		TaskType: listTaskType,
		Page:     listPage,
		Limit:    listLimit,
	})
	if err != nil {
		return err
	}

	if len(tasks) == 0 {
		fmt.Println("No task requests found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tCATEGORY\tPRIORITY\tSTATUS\tCREATED")
	for _, t := range tasks {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			t.ID, t.Name, t.Email, models.CategoryLabel(t.TaskCategory), t.Priority, t.Status,
			t.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	w.Flush()
	fmt.Printf("\nPage %d of %d (%d total)\n", page.Current, page.Pages, page.Total)
	return nil
}

func runTasksGet(cmd *cobra.Command, args []string) error {
	ctx, cancel := requestContext()
	defer cancel()

	task, err := newClient().GetTask(ctx, args[0])
	if err != nil {
		return err
	}
	return printJSON(task)
}

func runTasksStatus(cmd *cobra.Command, args []string) error {
	status := models.TaskStatus(args[1])
	if !status.Updatable() {
		return fmt.Errorf("invalid status %q: must be one of %v", args[1], models.UpdatableStatuses)
	}

	ctx, cancel := requestContext()
	defer cancel()

	task, err := newClient().UpdateTaskStatus(ctx, args[0], status)
	if err != nil {
		return err
	}
	fmt.Printf("Task %s is now %s\n", task.ID, task.Status)
	return nil
}

func runTasksReceipt(cmd *cobra.Command, args []string) error {
	ctx, cancel := requestContext()
	defer cancel()

	pdf, err := newClient().Receipt(ctx, args[0])
	if err != nil {
		return err
	}

	out := receiptOut
	if out == "" {
		out = fmt.Sprintf("task-request-%s.pdf", args[0])
	}
	if err := os.WriteFile(out, pdf, 0644); err != nil {
		return fmt.Errorf("failed to write receipt: %w", err)
	}
	fmt.Printf("Receipt written to %s\n", out)
	return nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
