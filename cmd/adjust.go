package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/runway/internal/cli"
	"github.com/theirongolddev/runway/internal/model"
)

var flagYes bool

var adjustCmd = &cobra.Command{
	Use:   "adjust <instruction>",
	Short: "Apply a natural-language correction to the plan",
	Long: `Parse a short instruction ("lower earnin to 300 next week"), preview
the structural diff it implies, and apply it after confirmation.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdjust,
}

func init() {
	adjustCmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "Apply without the confirmation prompt")
	rootCmd.AddCommand(adjustCmd)
}

func runAdjust(_ *cobra.Command, args []string) error {
	text := strings.Join(args, " ")

	svc, log, _, err := loadService()
	if err != nil {
		return err
	}
	defer func() { _ = log.Close() }()

	preview, err := svc.ParseAndPreview(text)
	if err != nil {
		var ambiguous *model.AmbiguousMatch
		if errors.As(err, &ambiguous) {
			fmt.Printf("  %q could match more than one entity:\n", ambiguous.Raw)
			for _, alt := range ambiguous.Alternatives {
				fmt.Printf("    - %s (%s)\n", alt.Name, alt.Type)
			}
			fmt.Println("  try again with the exact name")
			return nil
		}
		var failure *model.ParseFailure
		if errors.As(err, &failure) {
			fmt.Printf("  %s\n", failure.Error())
			return nil
		}
		return err
	}

	fmt.Print(cli.RenderIntent(preview.Intent))
	fmt.Print(cli.RenderDiff(preview.Diff))
	fmt.Print(cli.RenderWarnings(preview.Warnings))

	if len(preview.Diff) == 0 {
		return nil
	}

	// Apply-without-confirmation is an explicit opt-in, never a default.
	if !flagYes {
		confirmed := false
		form := huh.NewForm(huh.NewGroup(
			huh.NewConfirm().
				Title("Apply these changes?").
				Value(&confirmed),
		))
		if err := form.Run(); err != nil {
			return err
		}
		if !confirmed {
			diag("  nothing applied\n")
			return nil
		}
	}

	rec, err := svc.Confirm(preview.Token)
	if err != nil {
		return err
	}
	if rec == nil {
		fmt.Println("  no changes to apply")
		return nil
	}
	fmt.Printf("  applied (audit %s); revert with `runway revert %s`\n", rec.ID, rec.ID)
	return nil
}
