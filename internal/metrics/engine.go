package metrics

import (
	"sort"
	"strings"
	"time"

	"github.com/adpulse/adpulse-go/internal/filters"
	"github.com/adpulse/adpulse-go/internal/ingest"
	"github.com/adpulse/adpulse-go/internal/models"
)

const fallbackCurrency = "JMD"

// Aggregate derives the full resolved snapshot from an uploaded dataset and
// the current filter state. It is a pure function of (dataset, filters,
// tenant, now): no I/O, no shared state, safe to call concurrently. A nil
// dataset yields an empty snapshot, which is a valid state rather than an
// error.
func Aggregate(ds *models.UploadedDataset, f filters.State, tenantID string, now time.Time) models.ResolvedTenantMetrics {
	out := models.ResolvedTenantMetrics{
		TenantID:            tenantID,
		Currency:            fallbackCurrency,
		SnapshotGeneratedAt: now,
		Campaign: models.CampaignMetrics{
			Trend:     []models.TrendPoint{},
			Campaigns: []models.CampaignAggregate{},
		},
		Creative: []models.CreativeAggregate{},
		Budget:   []models.BudgetAggregate{},
		Parish:   []models.RegionAggregate{},
	}
	if ds == nil {
		return out
	}

	rng := filters.ResolveRange(f, now)
	channels := make(map[string]struct{})
	for _, c := range f.Channels {
		if n := filters.NormalizeChannel(c); n != "" {
			channels[n] = struct{}{}
		}
	}
	query := strings.ToLower(strings.TrimSpace(f.CampaignQuery))

	// Channel and query filters apply everywhere; the date window does not
	// apply to budget spend-to-date recomputation, which is month-scoped.
	var scoped, inRange []models.CampaignRow
	for _, r := range ds.CampaignRows {
		if len(channels) > 0 {
			if _, ok := channels[filters.NormalizeChannel(r.Platform)]; !ok {
				continue
			}
		}
		if query != "" && !strings.Contains(strings.ToLower(r.CampaignName), query) {
			continue
		}
		scoped = append(scoped, r)
		if r.Date >= rng.Start && r.Date <= rng.End {
			inRange = append(inRange, r)
		}
	}

	out.Campaign.Summary = summarize(inRange)
	out.Campaign.Trend = trend(inRange)
	out.Campaign.Campaigns = rollupCampaigns(inRange)
	out.Parish = rollupRegions(ds, inRange, rng)
	out.Budget = reconcileBudgets(ds.BudgetRows, scoped, rng)
	out.Currency = resolveCurrency(ds)
	return out
}

// rowRevenue resolves per-row revenue: explicit revenue wins, then
// roas*spend, then 0.
func rowRevenue(r models.CampaignRow) float64 {
	if r.Revenue != nil {
		return *r.Revenue
	}
	if r.Roas != nil {
		return *r.Roas * r.Spend
	}
	return 0
}

func summarize(rows []models.CampaignRow) models.SummaryMetrics {
	var s models.SummaryMetrics
	for _, r := range rows {
		s.TotalSpend += r.Spend
		s.TotalImpressions += r.Impressions
		s.TotalClicks += r.Clicks
		s.TotalConversions += r.Conversions
		s.TotalRevenue += rowRevenue(r)
	}
	// spend-weighted, never a mean of per-row ROAS values
	s.AverageRoas = safeDiv(s.TotalRevenue, s.TotalSpend)
	return s
}

func trend(rows []models.CampaignRow) []models.TrendPoint {
	byDate := make(map[string]*models.TrendPoint)
	for _, r := range rows {
		p, ok := byDate[r.Date]
		if !ok {
			p = &models.TrendPoint{Date: r.Date}
			byDate[r.Date] = p
		}
		p.Spend += r.Spend
		p.Impressions += r.Impressions
		p.Clicks += r.Clicks
		p.Conversions += r.Conversions
	}
	out := make([]models.TrendPoint, 0, len(byDate))
	for _, p := range byDate {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

func rollupCampaigns(rows []models.CampaignRow) []models.CampaignAggregate {
	byID := make(map[string]*models.CampaignAggregate)
	var order []string
	for _, r := range rows {
		agg, ok := byID[r.CampaignID]
		if !ok {
			agg = &models.CampaignAggregate{
				CampaignID:   r.CampaignID,
				CampaignName: r.CampaignName,
				Platform:     r.Platform,
				Status:       r.Status,
				Objective:    r.Objective,
			}
			byID[r.CampaignID] = agg
			order = append(order, r.CampaignID)
		}
		mergeCampaign(agg, r)
	}
	out := make([]models.CampaignAggregate, 0, len(order))
	for _, id := range order {
		out = append(out, *byID[id])
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Spend != out[j].Spend {
			return out[i].Spend > out[j].Spend
		}
		return out[i].CampaignID < out[j].CampaignID
	})
	return out
}

// mergeCampaign folds one row into a campaign aggregate, recomputing every
// derived rate from the running totals with zero-guarded denominators.
func mergeCampaign(agg *models.CampaignAggregate, r models.CampaignRow) {
	agg.Spend += r.Spend
	agg.Impressions += r.Impressions
	agg.Clicks += r.Clicks
	agg.Conversions += r.Conversions
	agg.Revenue += rowRevenue(r)

	agg.Roas = safeDiv(agg.Revenue, agg.Spend)
	agg.Ctr = safeDiv(agg.Clicks, agg.Impressions)
	agg.Cpc = safeDiv(agg.Spend, agg.Clicks)
	agg.Cpm = safeDiv(agg.Spend, agg.Impressions) * 1000

	if r.StartDate != "" && (agg.StartDate == "" || r.StartDate < agg.StartDate) {
		agg.StartDate = r.StartDate
	}
	if r.EndDate != "" && (agg.EndDate == "" || r.EndDate > agg.EndDate) {
		agg.EndDate = r.EndDate
	}
}

// rollupRegions aggregates explicit region rows when the dataset carries
// them, otherwise synthesizes region aggregates from the filtered campaign
// rows' parish labels.
func rollupRegions(ds *models.UploadedDataset, inRange []models.CampaignRow, rng filters.Range) []models.RegionAggregate {
	type regionAcc struct {
		agg       models.RegionAggregate
		revenue   float64
		campaigns map[string]struct{}
	}
	byName := make(map[string]*regionAcc)
	acc := func(name string) *regionAcc {
		a, ok := byName[name]
		if !ok {
			a = &regionAcc{agg: models.RegionAggregate{Parish: name}}
			byName[name] = a
		}
		return a
	}

	if len(ds.RegionRows) > 0 {
		for _, r := range ds.RegionRows {
			// undated rows pass through unconditionally
			if r.Date != "" && (r.Date < rng.Start || r.Date > rng.End) {
				continue
			}
			a := acc(r.Parish)
			a.agg.Spend += r.Spend
			a.agg.Impressions += r.Impressions
			a.agg.Clicks += r.Clicks
			a.agg.Conversions += r.Conversions
			switch {
			case r.Revenue != nil:
				a.revenue += *r.Revenue
			case r.Roas != nil:
				a.revenue += *r.Roas * r.Spend
			}
			if r.CampaignCount != nil {
				a.agg.CampaignCount += int(*r.CampaignCount)
			}
		}
	} else {
		for _, r := range inRange {
			parish := r.Parish
			if parish == "" {
				parish = "Unknown"
			}
			a := acc(parish)
			a.agg.Spend += r.Spend
			a.agg.Impressions += r.Impressions
			a.agg.Clicks += r.Clicks
			a.agg.Conversions += r.Conversions
			a.revenue += rowRevenue(r)
			if a.campaigns == nil {
				a.campaigns = make(map[string]struct{})
			}
			a.campaigns[r.CampaignID] = struct{}{}
			a.agg.CampaignCount = len(a.campaigns)
		}
	}

	out := make([]models.RegionAggregate, 0, len(byName))
	for _, a := range byName {
		a.agg.Revenue = a.revenue
		a.agg.Roas = safeDiv(a.revenue, a.agg.Spend)
		out = append(out, a.agg)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Spend != out[j].Spend {
			return out[i].Spend > out[j].Spend
		}
		return out[i].Parish < out[j].Parish
	})
	return out
}

// reconcileBudgets keeps budget rows whose month overlaps the active range.
// Absent spend-to-date is recomputed from campaign spend inside the budget
// row's own month bounds, deliberately independent of the filter window.
func reconcileBudgets(budgets []models.BudgetRow, scoped []models.CampaignRow, rng filters.Range) []models.BudgetAggregate {
	out := []models.BudgetAggregate{}
	for _, b := range budgets {
		monthStart := b.Month
		monthEnd := ingest.MonthEnd(b.Month)
		if monthStart > rng.End || monthEnd < rng.Start {
			continue
		}

		var spendToDate float64
		if b.SpendToDate != nil {
			spendToDate = *b.SpendToDate
		} else {
			for _, r := range scoped {
				if r.CampaignName == b.CampaignName && r.Date >= monthStart && r.Date <= monthEnd {
					spendToDate += r.Spend
				}
			}
		}

		projected := spendToDate
		if b.ProjectedSpend != nil {
			projected = *b.ProjectedSpend
		}
		pacing := safeDiv(spendToDate, b.PlannedBudget)
		if b.PacingPercent != nil {
			pacing = *b.PacingPercent
		}

		out = append(out, models.BudgetAggregate{
			Month:          b.Month,
			CampaignName:   b.CampaignName,
			PlannedBudget:  b.PlannedBudget,
			SpendToDate:    spendToDate,
			ProjectedSpend: projected,
			PacingPercent:  pacing,
			Parishes:       b.Parishes,
			Platform:       b.Platform,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Month != out[j].Month {
			return out[i].Month < out[j].Month
		}
		return out[i].CampaignName < out[j].CampaignName
	})
	return out
}

// resolveCurrency picks the display currency: first non-empty among campaign
// rows, then region rows, else JMD. Always upper-cased.
func resolveCurrency(ds *models.UploadedDataset) string {
	for _, r := range ds.CampaignRows {
		if r.Currency != "" {
			return strings.ToUpper(r.Currency)
		}
	}
	for _, r := range ds.RegionRows {
		if r.Currency != "" {
			return strings.ToUpper(r.Currency)
		}
	}
	return fallbackCurrency
}

func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}
