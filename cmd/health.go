package cmd

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/able2/able2-cli/internal/utils"
)

var healthJSON bool

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check backend liveness",
	RunE: func(cmd *cobra.Command, args []string) error {
		hs, err := newAPIClient().Health(context.Background())
		if err != nil {
			color.Red("✗ %s", err.Error())
			return nil
		}
		if healthJSON {
			b, err := utils.PrettyJSON(hs)
			if err != nil {
				return err
			}
			fmt.Println(string(b))
			return nil
		}
		if hs.Status == "healthy" {
			color.Green("✓ Server is %s", hs.Status)
		} else {
			color.Yellow("⚠ Server is %s", hs.Status)
		}
		fmt.Printf("vector db: %s\n", hs.VectorDBStatus)
		fmt.Printf("documents: %d\n", hs.DocumentsCount)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
	healthCmd.Flags().BoolVar(&healthJSON, "json", false, "print the raw health payload as JSON")
}
