package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/runway/internal/config"
	"github.com/theirongolddev/runway/internal/model"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	reader := bufio.NewReader(os.Stdin)

	// Load existing config or defaults
	cfg, _ := config.Load()

	fmt.Println()
	fmt.Println("  Welcome to runway!")
	fmt.Println()

	// 1. Payday weekday (anchors "next week" in adjustments)
	fmt.Println("  1. Payday weekday")
	fmt.Printf("     Current: %s\n", cfg.General.PaydayWeekday)
	fmt.Print("     > ")
	payday, _ := reader.ReadString('\n')
	payday = strings.TrimSpace(payday)
	if payday != "" {
		wd, err := model.ParseWeekday(payday)
		if err != nil {
			return err
		}
		cfg.General.PaydayWeekday = wd
	}
	fmt.Println()

	// 2. Latest known balance
	fmt.Println("  2. Latest known balance (e.g. 412.38)")
	fmt.Printf("     Current: %s\n", cfg.Balance.Current.StringFixed(2))
	fmt.Print("     > ")
	balance, _ := reader.ReadString('\n')
	balance = strings.TrimSpace(balance)
	if balance != "" {
		d, err := decimal.NewFromString(strings.TrimPrefix(balance, "$"))
		if err != nil {
			return fmt.Errorf("parsing balance: %w", err)
		}
		cfg.Balance.Current = d
	}
	fmt.Println()

	// 3. Default window
	fmt.Println("  3. Default forecast window")
	fmt.Println("     (1) 7 days [default]")
	fmt.Println("     (2) 14 days")
	fmt.Println("     (3) 30 days")
	fmt.Print("     > ")
	choice, _ := reader.ReadString('\n')
	switch strings.TrimSpace(choice) {
	case "2":
		cfg.General.DefaultDays = 14
	case "3":
		cfg.General.DefaultDays = 30
	default:
		cfg.General.DefaultDays = 7
	}

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	// Seed an empty plan so `runway adjust` has a file to edit.
	if _, err := os.Stat(planPath()); os.IsNotExist(err) {
		if err := config.SavePlan(planPath(), &model.Plan{}); err != nil {
			return fmt.Errorf("writing starter plan: %w", err)
		}
	}

	fmt.Println()
	fmt.Printf("  Saved config to %s\n", config.ConfigPath())
	fmt.Printf("  Edit %s to declare recurring items, then run `runway`.\n", planPath())
	fmt.Println()

	return nil
}
