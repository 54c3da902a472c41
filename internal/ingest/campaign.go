package ingest

import (
	"fmt"

	"github.com/adpulse/adpulse-go/internal/models"
)

// ParseResult is what every dataset parser returns: typed rows plus parallel
// error and warning lists. Errors exclude a row (or the whole file); warnings
// mean the row was kept with a substituted fallback.
type ParseResult[T any] struct {
	Rows     []T      `json:"rows"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
	Headers  []string `json:"headers"`
}

const errEmptyFile = "File is empty or missing headers."

var campaignRequired = []Field{
	FieldDate, FieldCampaignID, FieldCampaignName, FieldPlatform,
	FieldSpend, FieldImpressions, FieldClicks, FieldConversions,
}

var campaignOptional = []Field{
	FieldParish, FieldRevenue, FieldRoas, FieldStatus, FieldObjective,
	FieldStartDate, FieldEndDate, FieldCurrency,
}

// ParseCampaignCSV parses a campaign metrics file. Rows failing any required
// field are dropped with one error each; missing parish downgrades to a
// warning with an "Unknown" fallback.
func ParseCampaignCSV(text string) ParseResult[models.CampaignRow] {
	var res ParseResult[models.CampaignRow]
	t := ParseDelimited(text)
	res.Headers = t.Headers
	if len(t.Headers) == 0 {
		res.Errors = append(res.Errors, errEmptyFile)
		return res
	}

	cols := make(map[Field]int)
	for _, f := range append(append([]Field{}, campaignRequired...), campaignOptional...) {
		cols[f] = resolveColumn(t.Headers, f)
	}
	for _, f := range campaignRequired {
		if cols[f] == columnMissing {
			res.Errors = append(res.Errors, fmt.Sprintf("Missing required column: %s", f))
		}
	}
	if len(res.Errors) > 0 || len(t.Rows) == 0 {
		return res
	}

	for i, raw := range t.Rows {
		rowNum := i + 2 // header is line 1

		date := cell(raw, cols[FieldDate])
		if date == "" {
			res.Errors = append(res.Errors, fmt.Sprintf("Row %d: %s is required.", rowNum, FieldDate))
			continue
		}
		normDate := parseDateCell(date)
		if normDate == "" {
			res.Errors = append(res.Errors, fmt.Sprintf("Row %d: %s is invalid.", rowNum, FieldDate))
			continue
		}

		id := cell(raw, cols[FieldCampaignID])
		if id == "" {
			res.Errors = append(res.Errors, fmt.Sprintf("Row %d: %s is required.", rowNum, FieldCampaignID))
			continue
		}
		name := cell(raw, cols[FieldCampaignName])
		if name == "" {
			res.Errors = append(res.Errors, fmt.Sprintf("Row %d: %s is required.", rowNum, FieldCampaignName))
			continue
		}

		spend, ok := parseRequiredNumber(cell(raw, cols[FieldSpend]), FieldSpend, rowNum, &res.Errors)
		if !ok {
			continue
		}
		impressions, ok := parseRequiredNumber(cell(raw, cols[FieldImpressions]), FieldImpressions, rowNum, &res.Errors)
		if !ok {
			continue
		}
		clicks, ok := parseRequiredNumber(cell(raw, cols[FieldClicks]), FieldClicks, rowNum, &res.Errors)
		if !ok {
			continue
		}
		conversions, ok := parseRequiredNumber(cell(raw, cols[FieldConversions]), FieldConversions, rowNum, &res.Errors)
		if !ok {
			continue
		}

		platform := cell(raw, cols[FieldPlatform])
		if platform == "" {
			platform = "Unknown"
		}
		parish := cell(raw, cols[FieldParish])
		if parish == "" {
			res.Warnings = append(res.Warnings, fmt.Sprintf("Row %d: %s is missing; defaulting to \"Unknown\".", rowNum, FieldParish))
			parish = "Unknown"
		}

		res.Rows = append(res.Rows, models.CampaignRow{
			Date:         normDate,
			CampaignID:   id,
			CampaignName: name,
			Platform:     platform,
			Parish:       parish,
			Spend:        spend,
			Impressions:  impressions,
			Clicks:       clicks,
			Conversions:  conversions,
			Revenue:      parseOptionalNumber(cell(raw, cols[FieldRevenue])),
			Roas:         parseOptionalNumber(cell(raw, cols[FieldRoas])),
			Status:       cell(raw, cols[FieldStatus]),
			Objective:    cell(raw, cols[FieldObjective]),
			StartDate:    parseDateCell(cell(raw, cols[FieldStartDate])),
			EndDate:      parseDateCell(cell(raw, cols[FieldEndDate])),
			Currency:     cell(raw, cols[FieldCurrency]),
		})
	}
	return res
}
