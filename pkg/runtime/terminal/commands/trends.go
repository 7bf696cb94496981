package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/de-tools/ledger-atlas/pkg/adapters"
	"github.com/de-tools/ledger-atlas/pkg/models/domain"
	"github.com/de-tools/ledger-atlas/pkg/services/trend"
)

type TrendsCmd struct {
	env     *Env
	periods []string
}

func NewTrendsCmd(env *Env) *cobra.Command {
	tc := &TrendsCmd{env: env}
	cmd := &cobra.Command{
		Use:   "trends",
		Short: "Analyse trends over two or more periods, oldest first",
		Example: `  ledger trends --period 2022=2022.json --period 2023=2023.json --period 2024=2024.json
  ledger trends --period 2023=prod@2023 --period 2024=prod@2024`,
		RunE: tc.run,
	}

	cmd.Flags().StringArrayVar(&tc.periods, "period", nil, "Period as label=reference, repeatable, oldest first")
	_ = cmd.MarkFlagRequired("period")

	return cmd
}

func (tc *TrendsCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	classifier := tc.env.Service.Classifier()

	periods := make([]domain.Period, 0, len(tc.periods))
	for _, p := range tc.periods {
		label, ref, ok := strings.Cut(p, "=")
		if !ok {
			label, ref = p, p
		}
		if label == "" || ref == "" {
			return fmt.Errorf("invalid period %q, expected label=reference", p)
		}
		bookings, err := tc.env.load(ctx, ref)
		if err != nil {
			return err
		}
		periods = append(periods, trend.NewPeriod(label, bookings, classifier))
	}

	result, err := tc.env.Service.Trends(ctx, periods)
	if err != nil {
		return err
	}
	return tc.env.Reporter.Render(adapters.MapTrendResultToReport(result), adapters.MapTrendResultDomainToApi(result))
}
