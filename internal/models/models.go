package models

import "time"

// CampaignRow is one (date, campaign) observation parsed from an uploaded
// campaign CSV. Dates are normalized YYYY-MM-DD strings; optional numerics
// are nil when the cell was absent or unparseable.
type CampaignRow struct {
	Date         string   `json:"date"`
	CampaignID   string   `json:"campaignId"`
	CampaignName string   `json:"campaignName"`
	Platform     string   `json:"platform"`
	Parish       string   `json:"parish,omitempty"`
	Spend        float64  `json:"spend"`
	Impressions  float64  `json:"impressions"`
	Clicks       float64  `json:"clicks"`
	Conversions  float64  `json:"conversions"`
	Revenue      *float64 `json:"revenue,omitempty"`
	Roas         *float64 `json:"roas,omitempty"`
	Status       string   `json:"status,omitempty"`
	Objective    string   `json:"objective,omitempty"`
	StartDate    string   `json:"startDate,omitempty"`
	EndDate      string   `json:"endDate,omitempty"`
	Currency     string   `json:"currency,omitempty"`
}

// RegionRow is one (region) or (date, region) observation from a parish CSV.
type RegionRow struct {
	Parish        string   `json:"parish"`
	Date          string   `json:"date,omitempty"`
	Spend         float64  `json:"spend"`
	Impressions   float64  `json:"impressions"`
	Clicks        float64  `json:"clicks"`
	Conversions   float64  `json:"conversions"`
	CampaignCount *float64 `json:"campaignCount,omitempty"`
	Revenue       *float64 `json:"revenue,omitempty"`
	Roas          *float64 `json:"roas,omitempty"`
	Currency      string   `json:"currency,omitempty"`
}

// BudgetRow is one (month, campaign) planning record. Month is always the
// first calendar day of the month, YYYY-MM-01.
type BudgetRow struct {
	Month          string   `json:"month"`
	CampaignName   string   `json:"campaignName"`
	PlannedBudget  float64  `json:"plannedBudget"`
	SpendToDate    *float64 `json:"spendToDate,omitempty"`
	ProjectedSpend *float64 `json:"projectedSpend,omitempty"`
	PacingPercent  *float64 `json:"pacingPercent,omitempty"`
	Parishes       []string `json:"parishes,omitempty"`
	Platform       string   `json:"platform,omitempty"`
}

// UploadedDataset bundles all parsed rows of one upload. It is immutable once
// built and replaced wholesale on the next upload, never patched in place.
type UploadedDataset struct {
	ID           string        `json:"id"`
	CampaignRows []CampaignRow `json:"campaignRows"`
	RegionRows   []RegionRow   `json:"regionRows"`
	BudgetRows   []BudgetRow   `json:"budgetRows"`
	UploadedAt   time.Time     `json:"uploadedAt"`
}

// SummaryMetrics are the filtered dataset's headline totals. AverageRoas is
// spend-weighted: total revenue over total spend, never a mean of row ratios.
type SummaryMetrics struct {
	TotalSpend       float64 `json:"totalSpend"`
	TotalImpressions float64 `json:"totalImpressions"`
	TotalClicks      float64 `json:"totalClicks"`
	TotalConversions float64 `json:"totalConversions"`
	TotalRevenue     float64 `json:"totalRevenue"`
	AverageRoas      float64 `json:"averageRoas"`
}

// TrendPoint is one day of the trend series.
type TrendPoint struct {
	Date        string  `json:"date"`
	Spend       float64 `json:"spend"`
	Impressions float64 `json:"impressions"`
	Clicks      float64 `json:"clicks"`
	Conversions float64 `json:"conversions"`
}

// CampaignAggregate is the per-campaign rollup with derived rates recomputed
// from running totals, every denominator guarded against zero.
type CampaignAggregate struct {
	CampaignID   string  `json:"campaignId"`
	CampaignName string  `json:"campaignName"`
	Platform     string  `json:"platform"`
	Spend        float64 `json:"spend"`
	Impressions  float64 `json:"impressions"`
	Clicks       float64 `json:"clicks"`
	Conversions  float64 `json:"conversions"`
	Revenue      float64 `json:"revenue"`
	Roas         float64 `json:"roas"`
	Ctr          float64 `json:"ctr"`
	Cpc          float64 `json:"cpc"`
	Cpm          float64 `json:"cpm"`
	StartDate    string  `json:"startDate,omitempty"`
	EndDate      string  `json:"endDate,omitempty"`
	Status       string  `json:"status,omitempty"`
	Objective    string  `json:"objective,omitempty"`
}

// RegionAggregate is the per-parish rollup, either from explicit region rows
// or synthesized from campaign rows.
type RegionAggregate struct {
	Parish        string  `json:"parish"`
	Spend         float64 `json:"spend"`
	Impressions   float64 `json:"impressions"`
	Clicks        float64 `json:"clicks"`
	Conversions   float64 `json:"conversions"`
	Revenue       float64 `json:"revenue"`
	Roas          float64 `json:"roas"`
	CampaignCount int     `json:"campaignCount"`
}

// BudgetAggregate is one reconciled budget row for a month overlapping the
// active filter range.
type BudgetAggregate struct {
	Month          string   `json:"month"`
	CampaignName   string   `json:"campaignName"`
	PlannedBudget  float64  `json:"plannedBudget"`
	SpendToDate    float64  `json:"spendToDate"`
	ProjectedSpend float64  `json:"projectedSpend"`
	PacingPercent  float64  `json:"pacingPercent"`
	Parishes       []string `json:"parishes,omitempty"`
	Platform       string   `json:"platform,omitempty"`
}

// CreativeAggregate exists for shape parity with the live backend. CSV
// uploads carry no creative-level data, so the engine always emits an empty
// list.
type CreativeAggregate struct {
	CreativeID   string  `json:"creativeId"`
	CreativeName string  `json:"creativeName"`
	CampaignID   string  `json:"campaignId"`
	Spend        float64 `json:"spend"`
	Impressions  float64 `json:"impressions"`
	Clicks       float64 `json:"clicks"`
	Conversions  float64 `json:"conversions"`
	Roas         float64 `json:"roas"`
	Ctr          float64 `json:"ctr"`
}

// CampaignMetrics groups the campaign-level sections of a snapshot.
type CampaignMetrics struct {
	Summary   SummaryMetrics      `json:"summary"`
	Trend     []TrendPoint        `json:"trend"`
	Campaigns []CampaignAggregate `json:"campaigns"`
}

// ResolvedTenantMetrics is the full pre-computed snapshot consumed by the
// dashboard. It is derived and disposable: recomputed on every filter change,
// owning no external resources.
type ResolvedTenantMetrics struct {
	TenantID            string              `json:"tenantId"`
	Currency            string              `json:"currency"`
	SnapshotGeneratedAt time.Time           `json:"snapshotGeneratedAt"`
	Campaign            CampaignMetrics     `json:"campaign"`
	Creative            []CreativeAggregate `json:"creative"`
	Budget              []BudgetAggregate   `json:"budget"`
	Parish              []RegionAggregate   `json:"parish"`
}
