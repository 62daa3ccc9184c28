package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var revertCmd = &cobra.Command{
	Use:   "revert <audit-id>",
	Short: "Undo an applied adjustment by audit id",
	Long: `Restore the plan state captured before the given adjustment. The
original record stays in history untouched; the revert is recorded as
a new entry with the snapshots swapped.`,
	Args: cobra.ExactArgs(1),
	RunE: runRevert,
}

func init() {
	rootCmd.AddCommand(revertCmd)
}

func runRevert(_ *cobra.Command, args []string) error {
	svc, log, _, err := loadService()
	if err != nil {
		return err
	}
	defer func() { _ = log.Close() }()

	rec, err := svc.Revert(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("  reverted %s (new audit %s)\n", args[0], rec.ID)
	return nil
}
