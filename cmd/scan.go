package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/runway/internal/cli"
)

var scanCmd = &cobra.Command{
	Use:   "scan [file]",
	Short: "Scan journal text for undeclared financial events",
	Long: `Run the command parser in suggestion-only mode over free-form text
(a file, or stdin when no file is given). Nothing is ever applied;
low-confidence matches are discarded.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
}

func runScan(_ *cobra.Command, args []string) error {
	var data []byte
	var err error
	if len(args) == 1 {
		data, err = os.ReadFile(args[0])
	} else {
		data, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		return fmt.Errorf("reading text: %w", err)
	}

	svc, log, _, err := loadService()
	if err != nil {
		return err
	}
	defer func() { _ = log.Close() }()

	suggestions := svc.ScanText(string(data))
	fmt.Print(cli.RenderSuggestions(suggestions))
	if len(suggestions) > 0 {
		diag("  suggestions only; use `runway adjust` to apply one\n")
	}
	return nil
}
