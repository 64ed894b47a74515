package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/able2/able2-cli/internal/notify"
	"github.com/able2/able2-cli/internal/registry"
)

var deleteYes bool

var deleteCmd = &cobra.Command{
	Use:   "delete <document-id>",
	Short: "Delete an uploaded document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		if !deleteYes && !confirm(fmt.Sprintf("Delete document %s? This cannot be undone.", id)) {
			fmt.Println("Aborted.")
			return nil
		}

		notifier := newNotifier()
		reg := registry.New(newAPIClient())
		if err := reg.Delete(context.Background(), id); err != nil {
			notifier.Publish(notify.LevelError, err.Error())
			return nil
		}
		notifier.Publish(notify.LevelSuccess, "Document deleted")
		return nil
	},
}

// confirm prompts for a y/N answer on stdin.
func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "skip the confirmation prompt")
}
