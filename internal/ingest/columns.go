package ingest

import (
	"fmt"
	"regexp"
	"strings"
)

// Field is the canonical, stable name of a data column, independent of how
// an uploaded file spells its header.
type Field string

const (
	FieldDate           Field = "date"
	FieldCampaignID     Field = "campaign_id"
	FieldCampaignName   Field = "campaign_name"
	FieldPlatform       Field = "platform"
	FieldParish         Field = "parish"
	FieldSpend          Field = "spend"
	FieldImpressions    Field = "impressions"
	FieldClicks         Field = "clicks"
	FieldConversions    Field = "conversions"
	FieldRevenue        Field = "revenue"
	FieldRoas           Field = "roas"
	FieldStatus         Field = "status"
	FieldObjective      Field = "objective"
	FieldStartDate      Field = "start_date"
	FieldEndDate        Field = "end_date"
	FieldCurrency       Field = "currency"
	FieldCampaignCount  Field = "campaign_count"
	FieldMonth          Field = "month"
	FieldPlannedBudget  Field = "planned_budget"
	FieldSpendToDate    Field = "spend_to_date"
	FieldProjectedSpend Field = "projected_spend"
	FieldPacingPercent  Field = "pacing_percent"
	FieldParishes       Field = "parishes"
)

var allFields = []Field{
	FieldDate, FieldCampaignID, FieldCampaignName, FieldPlatform, FieldParish,
	FieldSpend, FieldImpressions, FieldClicks, FieldConversions, FieldRevenue,
	FieldRoas, FieldStatus, FieldObjective, FieldStartDate, FieldEndDate,
	FieldCurrency, FieldCampaignCount, FieldMonth, FieldPlannedBudget,
	FieldSpendToDate, FieldProjectedSpend, FieldPacingPercent, FieldParishes,
}

// fieldAliases is a closed table: every canonical field maps to the header
// spellings accepted for it, checked in order. First match wins.
var fieldAliases = map[Field][]string{
	FieldDate:           {"date", "day", "report_date", "reporting_date"},
	FieldCampaignID:     {"campaign_id", "campaignid", "campaign_code", "id"},
	FieldCampaignName:   {"campaign_name", "campaign", "campaign_title", "name"},
	FieldPlatform:       {"platform", "channel", "source", "network"},
	FieldParish:         {"parish", "region", "location", "area", "geo"},
	FieldSpend:          {"spend", "cost", "amount_spent", "total_spend"},
	FieldImpressions:    {"impressions", "impr", "imps"},
	FieldClicks:         {"clicks", "link_clicks", "total_clicks"},
	FieldConversions:    {"conversions", "conv", "results", "purchases"},
	FieldRevenue:        {"revenue", "conversion_value", "total_revenue", "rev"},
	FieldRoas:           {"roas", "return_on_ad_spend"},
	FieldStatus:         {"status", "campaign_status"},
	FieldObjective:      {"objective", "goal"},
	FieldStartDate:      {"start_date", "campaign_start", "start"},
	FieldEndDate:        {"end_date", "campaign_end", "end"},
	FieldCurrency:       {"currency", "currency_code"},
	FieldCampaignCount:  {"campaign_count", "campaigns", "num_campaigns"},
	FieldMonth:          {"month", "budget_month", "period"},
	FieldPlannedBudget:  {"planned_budget", "budget", "monthly_budget", "planned"},
	FieldSpendToDate:    {"spend_to_date", "actual_spend", "mtd_spend", "spent"},
	FieldProjectedSpend: {"projected_spend", "forecast_spend", "projected"},
	FieldPacingPercent:  {"pacing_percent", "pacing_pct", "pacing"},
	FieldParishes:       {"parishes", "regions", "locations"},
}

func init() {
	// the alias table is closed: every canonical field must have entries
	for _, f := range allFields {
		if len(fieldAliases[f]) == 0 {
			panic(fmt.Sprintf("ingest: field %q has no aliases", f))
		}
	}
	if len(fieldAliases) != len(allFields) {
		panic("ingest: alias table does not match canonical field list")
	}
}

// columnMissing is the out-of-range sentinel returned when no alias matches.
const columnMissing = -1

var headerSquash = regexp.MustCompile(`[^a-z0-9]+`)

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = headerSquash.ReplaceAllString(h, "_")
	return strings.Trim(h, "_")
}

// resolveColumn returns the index of the first header matching any alias of
// f, in alias-list order, or columnMissing.
func resolveColumn(headers []string, f Field) int {
	norm := make([]string, len(headers))
	for i, h := range headers {
		norm[i] = normalizeHeader(h)
	}
	for _, alias := range fieldAliases[f] {
		want := normalizeHeader(alias)
		for i, h := range norm {
			if h == want {
				return i
			}
		}
	}
	return columnMissing
}
