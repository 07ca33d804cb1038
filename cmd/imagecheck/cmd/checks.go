package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/cloudberry-contrib/imagecheck/internal/verify"
)

// checksCmd represents the checks command
var checksCmd = &cobra.Command{
	Use:   "checks",
	Short: "Inspect the check battery",
}

// checksListCmd represents the checks list command
var checksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every check the battery would run",
	RunE:  runChecksList,
}

func init() {
	rootCmd.AddCommand(checksCmd)
	checksCmd.AddCommand(checksListCmd)
}

func runChecksList(cmd *cobra.Command, args []string) error {
	manifest, err := loadManifest()
	if err != nil {
		return err
	}
	battery := verify.Battery(manifest)

	if IsJSONOutput() {
		type checkInfo struct {
			Name        string `json:"name"`
			Description string `json:"description"`
		}
		infos := make([]checkInfo, 0, len(battery))
		for _, c := range battery {
			infos = append(infos, checkInfo{Name: c.Name, Description: c.Description})
		}
		out, err := json.MarshalIndent(infos, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("CHECK", "DESCRIPTION")
	for _, c := range battery {
		table.Append(c.Name, c.Description)
	}
	if err := table.Render(); err != nil {
		return err
	}
	fmt.Printf("\nTotal checks: %d\n", len(battery))
	return nil
}
