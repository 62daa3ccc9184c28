package cmd

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/runway/internal/cli"
	"github.com/theirongolddev/runway/internal/model"
)

var (
	flagDays    int
	flagBalance string
	flagStart   string
)

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Project the daily balance over the coming window",
	RunE:  runForecast,
}

func init() {
	forecastCmd.Flags().IntVarP(&flagDays, "days", "n", 0, "Window length in days (default from config)")
	forecastCmd.Flags().StringVarP(&flagBalance, "balance", "b", "", "Starting balance (default from config)")
	forecastCmd.Flags().StringVar(&flagStart, "start", "", "Window start date, 2006-01-02 (default today)")
	rootCmd.AddCommand(forecastCmd)
}

func runForecast(_ *cobra.Command, _ []string) error {
	svc, log, cfg, err := loadService()
	if err != nil {
		return err
	}
	defer func() { _ = log.Close() }()

	days := flagDays
	if days <= 0 {
		days = cfg.General.DefaultDays
	}

	balance := cfg.Balance.Current
	if flagBalance != "" {
		balance, err = decimal.NewFromString(flagBalance)
		if err != nil {
			return fmt.Errorf("parsing balance %q: %w", flagBalance, err)
		}
	}

	start := model.DateOf(time.Now())
	if flagStart != "" {
		start, err = model.ParseDate(flagStart)
		if err != nil {
			return fmt.Errorf("parsing start date %q: %w", flagStart, err)
		}
	}

	projection, err := svc.GetForecast(start, days, balance)
	if err != nil {
		return err
	}

	fmt.Print(cli.RenderForecast(projection))
	if cli.LowBalance(projection, decimal.Zero) {
		diag("  balance dips below zero inside this window\n")
	}
	return nil
}
