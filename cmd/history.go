package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/runway/internal/cli"
)

var flagHistoryLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List applied adjustments, newest first",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&flagHistoryLimit, "limit", "n", 20, "Maximum records to show (0 = all)")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(_ *cobra.Command, _ []string) error {
	_, log, _, err := loadService()
	if err != nil {
		return err
	}
	defer func() { _ = log.Close() }()

	records, err := log.List(flagHistoryLimit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("  no adjustments recorded yet")
		return nil
	}
	fmt.Print(cli.RenderAuditList(records))
	return nil
}
