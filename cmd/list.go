package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/able2/able2-cli/internal/notify"
	"github.com/able2/able2-cli/internal/registry"
	"github.com/able2/able2-cli/internal/utils"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List uploaded documents",
	RunE: func(cmd *cobra.Command, args []string) error {
		notifier := newNotifier()
		reg := registry.New(newAPIClient())

		if err := reg.Refresh(context.Background()); err != nil {
			// Degrade to an empty view rather than failing the command.
			notifier.Publish(notify.LevelError, err.Error())
		}

		docs := reg.Documents()
		if listJSON {
			b, err := utils.PrettyJSON(docs)
			if err != nil {
				return err
			}
			fmt.Println(string(b))
			return nil
		}
		if len(docs) == 0 {
			fmt.Println("(no documents)")
			return nil
		}
		for _, d := range docs {
			fmt.Printf("- %s: %s (%s, %s)\n", d.ID, d.Name, utils.FormatBytes(d.FileSize), d.CreatedAt.Format("2006-01-02 15:04"))
			if d.Summary != "" {
				fmt.Printf("    %s\n", d.Summary)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "print documents as JSON")
}
