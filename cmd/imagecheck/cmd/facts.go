package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/cloudberry-contrib/imagecheck/internal/facts"
)

// factsCmd represents the facts command
var factsCmd = &cobra.Command{
	Use:   "facts",
	Short: "Show platform facts about the local system",
	Long:  `Collect and display OS, kernel, CPU and memory information about the system imagecheck is running on.`,
	RunE:  runFacts,
}

func init() {
	rootCmd.AddCommand(factsCmd)
}

func runFacts(cmd *cobra.Command, args []string) error {
	f, err := facts.Collect()
	if err != nil {
		return err
	}
	if IsJSONOutput() {
		return facts.WriteJSON(os.Stdout, f)
	}
	return facts.WriteTable(os.Stdout, f)
}
