package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adpulse/adpulse-go/internal/filters"
	"github.com/adpulse/adpulse-go/internal/models"
)

var now = time.Date(2024, 10, 15, 12, 0, 0, 0, time.UTC)

func fptr(v float64) *float64 { return &v }

func custom(start, end string) filters.State {
	return filters.State{
		DateRange:   filters.RangeCustom,
		CustomRange: filters.CustomRange{Start: start, End: end},
	}
}

func campaignRow(date, id, name string, spend float64) models.CampaignRow {
	return models.CampaignRow{
		Date: date, CampaignID: id, CampaignName: name,
		Platform: "Meta", Parish: "Kingston",
		Spend: spend, Impressions: 1000, Clicks: 100, Conversions: 10,
	}
}

func TestAggregateNilDataset(t *testing.T) {
	snap := Aggregate(nil, filters.Default(now), "t1", now)
	assert.Equal(t, "t1", snap.TenantID)
	assert.Equal(t, "JMD", snap.Currency)
	assert.Zero(t, snap.Campaign.Summary.TotalSpend)
	assert.NotNil(t, snap.Campaign.Trend)
	assert.NotNil(t, snap.Creative)
	assert.Empty(t, snap.Creative)
}

func TestAggregateSummaryAndTrend(t *testing.T) {
	r1 := campaignRow("2024-10-01", "cmp-1", "Launch", 100)
	r1.Revenue = fptr(400)
	r2 := campaignRow("2024-10-02", "cmp-1", "Launch", 200)
	r2.Revenue = fptr(600)
	ds := &models.UploadedDataset{CampaignRows: []models.CampaignRow{r1, r2}}

	snap := Aggregate(ds, custom("2024-10-01", "2024-10-31"), "t1", now)
	sum := snap.Campaign.Summary
	assert.Equal(t, 300.0, sum.TotalSpend)
	assert.Equal(t, 200.0, sum.TotalClicks)
	assert.Equal(t, 1000.0, sum.TotalRevenue)

	require.Len(t, snap.Campaign.Trend, 2)
	assert.Equal(t, "2024-10-01", snap.Campaign.Trend[0].Date)
	assert.Equal(t, "2024-10-02", snap.Campaign.Trend[1].Date)
	assert.Equal(t, 100.0, snap.Campaign.Trend[0].Spend)

	require.Len(t, snap.Campaign.Campaigns, 1)
	assert.Equal(t, 300.0, snap.Campaign.Campaigns[0].Spend)
}

func TestAggregateSpendWeightedRoas(t *testing.T) {
	r1 := campaignRow("2024-10-01", "cmp-1", "Launch", 100)
	r1.Revenue = fptr(400) // per-row roas 4
	r2 := campaignRow("2024-10-02", "cmp-2", "Brand", 200)
	r2.Revenue = fptr(600) // per-row roas 3
	ds := &models.UploadedDataset{CampaignRows: []models.CampaignRow{r1, r2}}

	snap := Aggregate(ds, custom("2024-10-01", "2024-10-31"), "t1", now)
	avg := snap.Campaign.Summary.AverageRoas
	assert.Equal(t, 1000.0/300.0, avg)
	assert.NotEqual(t, 3.5, avg) // not the arithmetic mean of 4 and 3
}

func TestAggregateRevenueFallbacks(t *testing.T) {
	explicit := campaignRow("2024-10-01", "cmp-1", "A", 100)
	explicit.Revenue = fptr(250)
	viaRoas := campaignRow("2024-10-01", "cmp-2", "B", 100)
	viaRoas.Roas = fptr(3)
	unknown := campaignRow("2024-10-01", "cmp-3", "C", 100)
	ds := &models.UploadedDataset{CampaignRows: []models.CampaignRow{explicit, viaRoas, unknown}}

	snap := Aggregate(ds, custom("2024-10-01", "2024-10-31"), "t1", now)
	assert.Equal(t, 250.0+300.0, snap.Campaign.Summary.TotalRevenue)
}

func TestAggregateChannelAndQueryFilters(t *testing.T) {
	meta := campaignRow("2024-10-01", "cmp-1", "Launch Promo", 100)
	google := campaignRow("2024-10-01", "cmp-2", "Launch Promo", 50)
	google.Platform = "Google Ads"
	tiktok := campaignRow("2024-10-01", "cmp-3", "Holiday", 25)
	tiktok.Platform = "TikTok"
	ds := &models.UploadedDataset{CampaignRows: []models.CampaignRow{meta, google, tiktok}}

	f := custom("2024-10-01", "2024-10-31")
	f.Channels = []string{"Meta Ads", "TikTok"}
	snap := Aggregate(ds, f, "t1", now)
	assert.Equal(t, 125.0, snap.Campaign.Summary.TotalSpend)

	f.CampaignQuery = "launch"
	snap = Aggregate(ds, f, "t1", now)
	assert.Equal(t, 100.0, snap.Campaign.Summary.TotalSpend)

	// empty channel selection means all
	f2 := custom("2024-10-01", "2024-10-31")
	snap = Aggregate(ds, f2, "t1", now)
	assert.Equal(t, 175.0, snap.Campaign.Summary.TotalSpend)
}

func TestAggregateTrendMonotonicOnWiderRange(t *testing.T) {
	ds := &models.UploadedDataset{CampaignRows: []models.CampaignRow{
		campaignRow("2024-10-01", "cmp-1", "A", 10),
		campaignRow("2024-10-05", "cmp-1", "A", 20),
		campaignRow("2024-10-09", "cmp-1", "A", 30),
	}}

	narrow := Aggregate(ds, custom("2024-10-04", "2024-10-06"), "t1", now)
	wide := Aggregate(ds, custom("2024-10-01", "2024-10-31"), "t1", now)

	wideDates := make(map[string]bool)
	for _, p := range wide.Campaign.Trend {
		wideDates[p.Date] = true
	}
	for _, p := range narrow.Campaign.Trend {
		assert.True(t, wideDates[p.Date], "date %s lost on widening", p.Date)
	}
	assert.Greater(t, len(wide.Campaign.Trend), len(narrow.Campaign.Trend))
}

func TestAggregateCampaignDerivedMetrics(t *testing.T) {
	r := campaignRow("2024-10-01", "cmp-1", "Launch", 120)
	r.Impressions = 12000
	r.Clicks = 420
	r.Revenue = fptr(480)
	zero := campaignRow("2024-10-02", "cmp-2", "Ghost", 0)
	zero.Impressions = 0
	zero.Clicks = 0
	zero.Conversions = 0
	ds := &models.UploadedDataset{CampaignRows: []models.CampaignRow{r, zero}}

	snap := Aggregate(ds, custom("2024-10-01", "2024-10-31"), "t1", now)
	require.Len(t, snap.Campaign.Campaigns, 2)

	launch := snap.Campaign.Campaigns[0] // sorted by spend desc
	assert.Equal(t, "cmp-1", launch.CampaignID)
	assert.Equal(t, 4.0, launch.Roas)
	assert.Equal(t, 420.0/12000.0, launch.Ctr)
	assert.Equal(t, 120.0/420.0, launch.Cpc)
	assert.Equal(t, 120.0/12000.0*1000, launch.Cpm)

	ghost := snap.Campaign.Campaigns[1]
	assert.Zero(t, ghost.Roas)
	assert.Zero(t, ghost.Ctr)
	assert.Zero(t, ghost.Cpc)
	assert.Zero(t, ghost.Cpm)
}

func TestAggregateCampaignDateBounds(t *testing.T) {
	r1 := campaignRow("2024-10-01", "cmp-1", "Launch", 10)
	r1.StartDate = "2024-09-20"
	r1.EndDate = "2024-10-10"
	r2 := campaignRow("2024-10-02", "cmp-1", "Launch", 10)
	r2.StartDate = "2024-09-15"
	r2.EndDate = "2024-10-20"
	ds := &models.UploadedDataset{CampaignRows: []models.CampaignRow{r1, r2}}

	snap := Aggregate(ds, custom("2024-10-01", "2024-10-31"), "t1", now)
	require.Len(t, snap.Campaign.Campaigns, 1)
	assert.Equal(t, "2024-09-15", snap.Campaign.Campaigns[0].StartDate)
	assert.Equal(t, "2024-10-20", snap.Campaign.Campaigns[0].EndDate)
}

func TestAggregateSynthesizedRegions(t *testing.T) {
	r1 := campaignRow("2024-10-01", "cmp-1", "A", 100)
	r2 := campaignRow("2024-10-02", "cmp-2", "B", 50)
	r3 := campaignRow("2024-10-03", "cmp-1", "A", 25)
	other := campaignRow("2024-10-01", "cmp-3", "C", 10)
	other.Parish = "Portland"
	noParish := campaignRow("2024-10-01", "cmp-4", "D", 5)
	noParish.Parish = ""
	ds := &models.UploadedDataset{CampaignRows: []models.CampaignRow{r1, r2, r3, other, noParish}}

	snap := Aggregate(ds, custom("2024-10-01", "2024-10-31"), "t1", now)
	require.Len(t, snap.Parish, 3)

	byName := make(map[string]models.RegionAggregate)
	for _, p := range snap.Parish {
		byName[p.Parish] = p
	}
	kingston := byName["Kingston"]
	assert.Equal(t, 175.0, kingston.Spend)
	assert.Equal(t, 2, kingston.CampaignCount) // cmp-1 and cmp-2, distinct
	assert.Equal(t, 1, byName["Portland"].CampaignCount)
	assert.Equal(t, 1, byName["Unknown"].CampaignCount)
}

func TestAggregateExplicitRegions(t *testing.T) {
	ds := &models.UploadedDataset{
		CampaignRows: []models.CampaignRow{campaignRow("2024-10-01", "cmp-1", "A", 100)},
		RegionRows: []models.RegionRow{
			{Parish: "Kingston", Spend: 500, Impressions: 40000, Clicks: 1200, Conversions: 80, Revenue: fptr(1500), CampaignCount: fptr(3)},
			{Parish: "Kingston", Date: "2024-09-01", Spend: 999}, // outside range, dropped
			{Parish: "St. Ann", Date: "2024-10-05", Spend: 200, Roas: fptr(2)},
		},
	}

	snap := Aggregate(ds, custom("2024-10-01", "2024-10-31"), "t1", now)
	require.Len(t, snap.Parish, 2)

	kingston := snap.Parish[0] // highest spend first
	assert.Equal(t, "Kingston", kingston.Parish)
	assert.Equal(t, 500.0, kingston.Spend)
	assert.Equal(t, 3, kingston.CampaignCount)
	assert.Equal(t, 3.0, kingston.Roas) // 1500/500

	stAnn := snap.Parish[1]
	assert.Equal(t, 400.0, stAnn.Revenue) // roas*spend
}

func TestAggregateBudgetReconciliation(t *testing.T) {
	rows := []models.CampaignRow{
		campaignRow("2024-10-05", "cmp-1", "Launch", 100),
		campaignRow("2024-10-25", "cmp-1", "Launch", 150), // outside filter, inside month
		campaignRow("2024-09-25", "cmp-1", "Launch", 999), // outside month
	}
	budgets := []models.BudgetRow{
		{Month: "2024-10-01", CampaignName: "Launch", PlannedBudget: 1000},
		{Month: "2024-10-01", CampaignName: "Explicit", PlannedBudget: 500,
			SpendToDate: fptr(200), ProjectedSpend: fptr(450), PacingPercent: fptr(0.4)},
		{Month: "2024-08-01", CampaignName: "Old", PlannedBudget: 100},
	}
	ds := &models.UploadedDataset{CampaignRows: rows, BudgetRows: budgets}

	snap := Aggregate(ds, custom("2024-10-01", "2024-10-10"), "t1", now)
	require.Len(t, snap.Budget, 2) // August does not overlap

	byName := make(map[string]models.BudgetAggregate)
	for _, b := range snap.Budget {
		byName[b.CampaignName] = b
	}

	launch := byName["Launch"]
	// derived spend-to-date is month-scoped, not filter-scoped
	assert.Equal(t, 250.0, launch.SpendToDate)
	assert.Equal(t, 250.0, launch.ProjectedSpend) // falls back to spend-to-date
	assert.Equal(t, 0.25, launch.PacingPercent)   // 250/1000

	explicit := byName["Explicit"]
	assert.Equal(t, 200.0, explicit.SpendToDate)
	assert.Equal(t, 450.0, explicit.ProjectedSpend)
	assert.Equal(t, 0.4, explicit.PacingPercent)
}

func TestAggregateBudgetZeroPlanned(t *testing.T) {
	ds := &models.UploadedDataset{
		BudgetRows: []models.BudgetRow{{Month: "2024-10-01", CampaignName: "Free", PlannedBudget: 0}},
	}
	snap := Aggregate(ds, custom("2024-10-01", "2024-10-31"), "t1", now)
	require.Len(t, snap.Budget, 1)
	assert.Zero(t, snap.Budget[0].PacingPercent)
}

func TestAggregateCurrencyResolution(t *testing.T) {
	ds := &models.UploadedDataset{
		CampaignRows: []models.CampaignRow{campaignRow("2024-10-01", "cmp-1", "A", 10)},
	}
	snap := Aggregate(ds, custom("2024-10-01", "2024-10-31"), "t1", now)
	assert.Equal(t, "JMD", snap.Currency)

	ds.CampaignRows[0].Currency = "usd"
	snap = Aggregate(ds, custom("2024-10-01", "2024-10-31"), "t1", now)
	assert.Equal(t, "USD", snap.Currency)

	ds.CampaignRows[0].Currency = ""
	ds.RegionRows = []models.RegionRow{{Parish: "Kingston", Currency: "cad"}}
	snap = Aggregate(ds, custom("2024-10-01", "2024-10-31"), "t1", now)
	assert.Equal(t, "CAD", snap.Currency)
}

func TestAggregateCreativeAlwaysEmpty(t *testing.T) {
	ds := &models.UploadedDataset{
		CampaignRows: []models.CampaignRow{campaignRow("2024-10-01", "cmp-1", "A", 10)},
	}
	snap := Aggregate(ds, custom("2024-10-01", "2024-10-31"), "t1", now)
	assert.NotNil(t, snap.Creative)
	assert.Empty(t, snap.Creative)
}
