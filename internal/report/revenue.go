package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/YusovID/agency-backoffice/internal/domain"
)

const RevenueFailedMessage = "Failed to fetch revenue data"

var hundred = decimal.NewFromInt(100)

// AggregateRevenue sums the entries with exact decimal arithmetic. Net profit
// is not floored, a loss comes out negative.
func AggregateRevenue(rows []domain.RevenueEntry) domain.RevenueSummary {
	summary := domain.RevenueSummary{
		TotalRevenue: decimal.Zero,
		TotalCosts:   decimal.Zero,
		EntryCount:   len(rows),
		BySource:     []domain.SourceTotal{},
	}

	bySource := make(map[string]*domain.SourceTotal)

	for _, r := range rows {
		summary.TotalRevenue = summary.TotalRevenue.Add(r.Amount)
		summary.TotalCosts = summary.TotalCosts.Add(r.Costs)

		st, ok := bySource[r.Source]
		if !ok {
			st = &domain.SourceTotal{Source: r.Source, Revenue: decimal.Zero, Costs: decimal.Zero}
			bySource[r.Source] = st
		}

		st.Revenue = st.Revenue.Add(r.Amount)
		st.Costs = st.Costs.Add(r.Costs)
	}

	summary.NetProfit = summary.TotalRevenue.Sub(summary.TotalCosts)

	if !summary.TotalRevenue.IsZero() {
		summary.ProfitMargin = summary.NetProfit.Mul(hundred).
			DivRound(summary.TotalRevenue, 2).
			InexactFloat64()
	}

	for _, st := range bySource {
		summary.BySource = append(summary.BySource, *st)
	}

	sort.Slice(summary.BySource, func(i, j int) bool {
		return summary.BySource[i].Source < summary.BySource[j].Source
	})

	return summary
}
