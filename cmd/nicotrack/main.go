// Package main provides the CLI entrypoint for nicotrack.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"nicotrack/internal/config"
	"nicotrack/internal/decay"
	"nicotrack/internal/milestone"
	"nicotrack/internal/model"
	"nicotrack/internal/report"
	"nicotrack/internal/tui"
)

const (
	defaultDose       = 20.0
	defaultHorizon    = 24.0
	defaultPoints     = 500
	defaultPlotHeight = 10
)

var (
	trackDose       float64
	trackHorizon    float64
	trackPoints     int
	trackPlotHeight int

	reportDose       float64
	reportLast       string
	reportAt         string
	reportHorizon    float64
	reportPoints     int
	reportWidth      int
	reportPlotHeight int
	reportColor      bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "nicotrack",
		Short:         "Terminal nicotine decay tracker and motivator",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runTrackCmd,
	}

	rootCmd.Flags().Float64Var(&trackDose, "dose", defaultDose, "nicotine dose amount in mg")
	rootCmd.Flags().Float64Var(&trackHorizon, "horizon", defaultHorizon, "hours to track into the future")
	rootCmd.Flags().IntVar(&trackPoints, "points", defaultPoints, "number of time points (50-1000)")
	rootCmd.Flags().IntVar(&trackPlotHeight, "plot-height", defaultPlotHeight, "chart height in rows")

	rootCmd.AddCommand(newReportCmd())
	rootCmd.AddCommand(newMilestonesCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func runTrackCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyFloatConfig(cmd, "dose", &trackDose, fileCfg.Tracker.DoseMg)
	applyFloatConfig(cmd, "horizon", &trackHorizon, fileCfg.Tracker.Horizon)
	applyIntConfig(cmd, "points", &trackPoints, fileCfg.Tracker.Points)
	applyIntConfig(cmd, "plot-height", &trackPlotHeight, fileCfg.Tracker.PlotHeight)

	cfg := model.Config{
		DoseMg:     trackDose,
		Horizon:    trackHorizon,
		Points:     trackPoints,
		PlotHeight: trackPlotHeight,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	m := tui.NewModel(cfg, time.Now())
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print a one-shot decay report",
		RunE:  runReportCmd,
	}
	cmd.Flags().Float64Var(&reportDose, "dose", defaultDose, "nicotine dose amount in mg")
	cmd.Flags().StringVar(&reportLast, "last", "", "last use timestamp (YYYY-MM-DD HH:MM or RFC 3339)")
	cmd.Flags().StringVar(&reportAt, "at", "", "evaluation instant override (same formats as --last)")
	cmd.Flags().Float64Var(&reportHorizon, "horizon", defaultHorizon, "hours to track into the future")
	cmd.Flags().IntVar(&reportPoints, "points", defaultPoints, "number of time points (50-1000)")
	cmd.Flags().IntVar(&reportWidth, "width", 0, "total report width (0 = terminal width)")
	cmd.Flags().IntVar(&reportPlotHeight, "plot-height", defaultPlotHeight, "chart height in rows")
	cmd.Flags().BoolVar(&reportColor, "color", false, "force color output")
	return cmd
}

func runReportCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyFloatConfig(cmd, "dose", &reportDose, fileCfg.Tracker.DoseMg)
	applyFloatConfig(cmd, "horizon", &reportHorizon, fileCfg.Tracker.Horizon)
	applyIntConfig(cmd, "points", &reportPoints, fileCfg.Tracker.Points)
	applyIntConfig(cmd, "plot-height", &reportPlotHeight, fileCfg.Tracker.PlotHeight)

	cfg := model.Config{
		DoseMg:     reportDose,
		Horizon:    reportHorizon,
		Points:     reportPoints,
		PlotHeight: reportPlotHeight,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	if strings.TrimSpace(reportLast) == "" {
		return fmt.Errorf("--last is required: %w", decay.ErrDoseUnset)
	}
	takenAt, err := parseTimestamp(reportLast)
	if err != nil {
		return fmt.Errorf("invalid --last value: %w", err)
	}
	now := time.Now()
	if strings.TrimSpace(reportAt) != "" {
		now, err = parseTimestamp(reportAt)
		if err != nil {
			return fmt.Errorf("invalid --at value: %w", err)
		}
	}

	dose := model.Dose{AmountMg: cfg.DoseMg, TakenAt: takenAt}
	params := model.Params{
		HalfLifeHours: decay.HalfLifeHours,
		HorizonHours:  cfg.Horizon,
		Points:        cfg.Points,
	}
	r, err := report.Build(dose, params, now)
	if err != nil {
		return err
	}
	return report.Render(cmd.OutOrStdout(), r, reportWidth, cfg.PlotHeight, reportColor)
}

func newMilestonesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "milestones",
		Short: "List the health milestone schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return report.RenderSchedule(cmd.OutOrStdout(), milestone.Table())
		},
	}
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// parseTimestamp accepts a local "YYYY-MM-DD HH:MM" or an RFC 3339 string.
func parseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if ts, err := time.ParseInLocation("2006-01-02 15:04", value, time.Local); err == nil {
		return ts, nil
	}
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected YYYY-MM-DD HH:MM or RFC 3339, got %q", value)
	}
	return ts, nil
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# nicotrack configuration
# Uncomment a value to enable it. CLI flags override config values.
# The nicotine half-life is fixed at %.1f hours and is not configurable.

[tracker]
# dose = %.1f         # Nicotine dose amount (mg)
# horizon = %.1f     # Hours to track into the future
# points = %d       # Number of time points (%d-%d)
# plot-height = %d   # Chart height in rows
`,
		decay.HalfLifeHours,
		defaultDose,
		defaultHorizon,
		defaultPoints,
		decay.MinPoints,
		decay.MaxPoints,
		defaultPlotHeight,
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.DoseMg < 0 {
		return fmt.Errorf("--dose must be >= 0")
	}
	if cfg.Horizon < decay.MinHorizonHours {
		return fmt.Errorf("--horizon must be >= %.0f", decay.MinHorizonHours)
	}
	if cfg.Points < decay.MinPoints || cfg.Points > decay.MaxPoints {
		return fmt.Errorf("--points must be in %d-%d", decay.MinPoints, decay.MaxPoints)
	}
	if cfg.PlotHeight <= 0 {
		return fmt.Errorf("--plot-height must be > 0")
	}
	return nil
}
