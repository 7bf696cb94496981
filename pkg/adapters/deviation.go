package adapters

import (
	"github.com/de-tools/ledger-atlas/pkg/models/api"
	"github.com/de-tools/ledger-atlas/pkg/models/domain"
)

func mapDelta(d domain.Delta) api.Delta {
	return api.Delta{Previous: d.Previous, Current: d.Current, Abs: d.Abs, Pct: d.Pct}
}

func mapEvidence(e domain.Evidence) api.Evidence {
	return api.Evidence{
		TopPrevious:     MapDomainBookingsToApi(e.TopPrevious),
		TopCurrent:      MapDomainBookingsToApi(e.TopCurrent),
		NewBookings:     MapDomainBookingsToApi(e.NewBookings),
		MissingBookings: MapDomainBookingsToApi(e.MissingBookings),
		CountPrevious:   e.CountPrevious,
		CountCurrent:    e.CountCurrent,
	}
}

func MapDeviationResultDomainToApi(r domain.AnalysisResult) api.DeviationResponse {
	resp := api.DeviationResponse{
		PreviousLabel: r.PreviousLabel,
		CurrentLabel:  r.CurrentLabel,
		Materiality: api.Materiality{
			Absolute: r.Config.MaterialityAbsolute,
			Percent:  r.Config.MaterialityPercent,
		},
		Summary: api.DeviationSummary{
			TotalPrevious:       r.Summary.TotalPrevious,
			TotalCurrent:        r.Summary.TotalCurrent,
			TotalDeltaAbs:       r.Summary.TotalDeltaAbs,
			TotalDeltaPct:       r.Summary.TotalDeltaPct,
			BookingsPrevious:    r.Summary.BookingsPrevious,
			BookingsCurrent:     r.Summary.BookingsCurrent,
			AccountsCompared:    r.Summary.AccountsCompared,
			CostCentersCompared: r.Summary.CostCentersCompared,
			MaterialAccounts:    r.Summary.MaterialAccounts,
			MaterialCostCenters: r.Summary.MaterialCostCenters,
		},
		ByAccount:    make([]api.AccountDeviation, 0, len(r.ByAccount)),
		ByCostCenter: make([]api.CostCenterDeviation, 0, len(r.ByCostCenter)),
		ByDetail:     make([]api.DetailDeviation, 0, len(r.ByDetail)),
	}

	for _, d := range r.ByAccount {
		resp.ByAccount = append(resp.ByAccount, api.AccountDeviation{
			Account:     d.Account,
			AccountName: d.AccountName,
			Class:       string(d.Class),
			Delta:       mapDelta(d.Delta),
			Comment:     d.Comment,
			Evidence:    mapEvidence(d.Evidence),
		})
	}

	for _, d := range r.ByCostCenter {
		top := make([]api.AccountContribution, 0, len(d.TopAccounts))
		for _, c := range d.TopAccounts {
			top = append(top, api.AccountContribution{
				Account:     c.Account,
				AccountName: c.AccountName,
				Delta:       mapDelta(c.Delta),
			})
		}
		resp.ByCostCenter = append(resp.ByCostCenter, api.CostCenterDeviation{
			CostCenter:  d.CostCenter,
			Delta:       mapDelta(d.Delta),
			Comment:     d.Comment,
			TopAccounts: top,
			Evidence:    mapEvidence(d.Evidence),
		})
	}

	for _, d := range r.ByDetail {
		resp.ByDetail = append(resp.ByDetail, api.DetailDeviation{
			Account:     d.Account,
			AccountName: d.AccountName,
			CostCenter:  d.CostCenter,
			Class:       string(d.Class),
			Delta:       mapDelta(d.Delta),
			Comment:     d.Comment,
			Evidence:    mapEvidence(d.Evidence),
		})
	}
	return resp
}
