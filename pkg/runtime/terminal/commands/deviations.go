package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/de-tools/ledger-atlas/pkg/adapters"
	"github.com/de-tools/ledger-atlas/pkg/models/domain"
)

type DeviationsCmd struct {
	env            *Env
	previous       string
	current        string
	previousLabel  string
	currentLabel   string
	materialityAbs float64
	materialityPct float64
}

func NewDeviationsCmd(env *Env) *cobra.Command {
	dc := &DeviationsCmd{env: env}
	cmd := &cobra.Command{
		Use:   "deviations",
		Short: "Compare two periods and report material deviations",
		Example: `  ledger deviations --previous 2023.json --current 2024.json
  ledger deviations --previous prod@2023 --current prod@2024 -o json`,
		RunE: dc.run,
	}

	cmd.Flags().StringVar(&dc.previous, "previous", "", "Bookings of the previous period (file or profile@range)")
	cmd.Flags().StringVar(&dc.current, "current", "", "Bookings of the current period (file or profile@range)")
	cmd.Flags().StringVar(&dc.previousLabel, "previous-label", "", "Label of the previous period (default: the reference)")
	cmd.Flags().StringVar(&dc.currentLabel, "current-label", "", "Label of the current period (default: the reference)")
	cmd.Flags().Float64Var(&dc.materialityAbs, "materiality-abs", 0, "Absolute materiality threshold (default from config)")
	cmd.Flags().Float64Var(&dc.materialityPct, "materiality-pct", 0, "Percent materiality threshold (default from config)")

	_ = cmd.MarkFlagRequired("previous")
	_ = cmd.MarkFlagRequired("current")

	return cmd
}

func (dc *DeviationsCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	previous, err := dc.env.load(ctx, dc.previous)
	if err != nil {
		return err
	}
	current, err := dc.env.load(ctx, dc.current)
	if err != nil {
		return err
	}

	defaults := dc.env.Service.Defaults()
	cfg := domain.DeviationConfig{
		MaterialityAbsolute: defaults.MaterialityAbsolute,
		MaterialityPercent:  defaults.MaterialityPercent,
		PreviousLabel:       orDefault(dc.previousLabel, dc.previous),
		CurrentLabel:        orDefault(dc.currentLabel, dc.current),
	}
	if cmd.Flags().Changed("materiality-abs") {
		cfg.MaterialityAbsolute = dc.materialityAbs
	}
	if cmd.Flags().Changed("materiality-pct") {
		cfg.MaterialityPercent = dc.materialityPct
	}
	if cfg.MaterialityAbsolute < 0 || cfg.MaterialityPercent < 0 {
		return fmt.Errorf("materiality thresholds must not be negative")
	}

	result, err := dc.env.Service.Deviations(ctx, previous, current, cfg)
	if err != nil {
		return err
	}
	return dc.env.Reporter.Render(adapters.MapDeviationResultToReport(result), adapters.MapDeviationResultDomainToApi(result))
}

func orDefault(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
