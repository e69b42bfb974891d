package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"smart-va/internal/models"
	"smart-va/internal/services"

	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract [message]",
	Short: "Run the rule-based extractor locally",
	Long: `extract answers one message with the offline rule-based extractor and
prints the reply as JSON. Without a message it reads one utterance per line
from stdin and carries the collected fields from turn to turn.`,
	RunE: runExtract,
}

var extractStateFile string

func init() {
	extractCmd.Flags().StringVar(&extractStateFile, "state", "", "JSON file with previously collected fields")
}

func runExtract(cmd *cobra.Command, args []string) error {
	var state models.ConversationState
	if extractStateFile != "" {
		data, err := os.ReadFile(extractStateFile)
		if err != nil {
			return fmt.Errorf("failed to read state: %w", err)
		}
		if err := json.Unmarshal(data, &state); err != nil {
			return fmt.Errorf("failed to parse state: %w", err)
		}
	}

	extractor := services.NewExtractor()
	if len(args) > 0 {
		reply := extractor.Reply(strings.Join(args, " "), state)
		return printJSON(reply)
	}

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		message := strings.TrimSpace(scanner.Text())
		if message == "" {
			continue
		}
		reply := extractor.Reply(message, state)
		state = reply.CollectedData
		fmt.Printf("ARIA: %s\n", reply.Message)
		if reply.Ready {
			return printJSON(state)
		}
	}
	return scanner.Err()
}
