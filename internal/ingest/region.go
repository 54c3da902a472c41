package ingest

import (
	"fmt"

	"github.com/adpulse/adpulse-go/internal/models"
)

var regionRequired = []Field{
	FieldParish, FieldSpend, FieldImpressions, FieldClicks, FieldConversions,
}

var regionOptional = []Field{
	FieldDate, FieldCampaignCount, FieldRevenue, FieldRoas, FieldCurrency,
}

// ParseParishCSV parses a per-region metrics file. The date column is
// optional; undated rows aggregate without date filtering downstream.
func ParseParishCSV(text string) ParseResult[models.RegionRow] {
	var res ParseResult[models.RegionRow]
	t := ParseDelimited(text)
	res.Headers = t.Headers
	if len(t.Headers) == 0 {
		res.Errors = append(res.Errors, errEmptyFile)
		return res
	}

	cols := make(map[Field]int)
	for _, f := range append(append([]Field{}, regionRequired...), regionOptional...) {
		cols[f] = resolveColumn(t.Headers, f)
	}
	for _, f := range regionRequired {
		if cols[f] == columnMissing {
			res.Errors = append(res.Errors, fmt.Sprintf("Missing required column: %s", f))
		}
	}
	if len(res.Errors) > 0 || len(t.Rows) == 0 {
		return res
	}

	for i, raw := range t.Rows {
		rowNum := i + 2

		parish := cell(raw, cols[FieldParish])
		if parish == "" {
			res.Errors = append(res.Errors, fmt.Sprintf("Row %d: %s is required.", rowNum, FieldParish))
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

		res.Rows = append(res.Rows, models.RegionRow{
			Parish:        parish,
			Date:          parseDateCell(cell(raw, cols[FieldDate])),
			Spend:         spend,
			Impressions:   impressions,
			Clicks:        clicks,
			Conversions:   conversions,
			CampaignCount: parseOptionalNumber(cell(raw, cols[FieldCampaignCount])),
			Revenue:       parseOptionalNumber(cell(raw, cols[FieldRevenue])),
			Roas:          parseOptionalNumber(cell(raw, cols[FieldRoas])),
			Currency:      cell(raw, cols[FieldCurrency]),
		})
	}
	return res
}
