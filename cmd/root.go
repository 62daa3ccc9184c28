package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/runway/internal/adjust"
	"github.com/theirongolddev/runway/internal/config"
	"github.com/theirongolddev/runway/internal/store"
)

var (
	flagPlanPath string
	flagQuiet    bool
)

var rootCmd = &cobra.Command{
	Use:   "runway",
	Short: "Rolling cash-position forecaster",
	Long:  "Project your near-term cash balance and keep the projection accurate with short natural-language corrections.",
	RunE:  runForecast,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagPlanPath, "plan", "", "Plan file (default: "+config.PlanPath()+")")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress diagnostic output")
}

func planPath() string {
	if flagPlanPath != "" {
		return flagPlanPath
	}
	return config.PlanPath()
}

// loadService is the shared wiring path used by all commands: config,
// audit log, and the adjust service over the plan.
func loadService() (*adjust.Service, *store.AuditLog, config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, cfg, err
	}

	log, err := store.Open(config.AuditDBPath(cfg))
	if err != nil {
		return nil, nil, cfg, fmt.Errorf("opening audit log: %w", err)
	}

	svc, err := adjust.NewService(planPath(), cfg.General.PaydayWeekday, log)
	if err != nil {
		_ = log.Close()
		return nil, nil, cfg, err
	}

	return svc, log, cfg, nil
}

func diag(format string, args ...any) {
	if flagQuiet {
		return
	}
	fmt.Fprintf(os.Stderr, format, args...)
}
