package ingest

import (
	"fmt"
	"strings"

	"github.com/adpulse/adpulse-go/internal/models"
)

var budgetRequired = []Field{
	FieldMonth, FieldCampaignName, FieldPlannedBudget,
}

var budgetOptional = []Field{
	FieldSpendToDate, FieldProjectedSpend, FieldPacingPercent,
	FieldParishes, FieldPlatform,
}

// ParseBudgetCSV parses a monthly budget plan. The month column accepts
// YYYY-MM or any parseable date, normalized to the first of the month.
func ParseBudgetCSV(text string) ParseResult[models.BudgetRow] {
	var res ParseResult[models.BudgetRow]
	t := ParseDelimited(text)
	res.Headers = t.Headers
	if len(t.Headers) == 0 {
		res.Errors = append(res.Errors, errEmptyFile)
		return res
	}

	cols := make(map[Field]int)
	for _, f := range append(append([]Field{}, budgetRequired...), budgetOptional...) {
		cols[f] = resolveColumn(t.Headers, f)
	}
	for _, f := range budgetRequired {
		if cols[f] == columnMissing {
			res.Errors = append(res.Errors, fmt.Sprintf("Missing required column: %s", f))
		}
	}
	if len(res.Errors) > 0 || len(t.Rows) == 0 {
		return res
	}

	for i, raw := range t.Rows {
		rowNum := i + 2

		monthRaw := cell(raw, cols[FieldMonth])
		if monthRaw == "" {
			res.Errors = append(res.Errors, fmt.Sprintf("Row %d: %s is required.", rowNum, FieldMonth))
			continue
		}
		month := parseMonthCell(monthRaw)
		if month == "" {
			res.Errors = append(res.Errors, fmt.Sprintf("Row %d: %s is invalid.", rowNum, FieldMonth))
			continue
		}

		name := cell(raw, cols[FieldCampaignName])
		if name == "" {
			res.Errors = append(res.Errors, fmt.Sprintf("Row %d: %s is required.", rowNum, FieldCampaignName))
			continue
		}

		planned, ok := parseRequiredNumber(cell(raw, cols[FieldPlannedBudget]), FieldPlannedBudget, rowNum, &res.Errors)
		if !ok {
			continue
		}

		res.Rows = append(res.Rows, models.BudgetRow{
			Month:          month,
			CampaignName:   name,
			PlannedBudget:  planned,
			SpendToDate:    parseOptionalNumber(cell(raw, cols[FieldSpendToDate])),
			ProjectedSpend: parseOptionalNumber(cell(raw, cols[FieldProjectedSpend])),
			PacingPercent:  parseOptionalNumber(cell(raw, cols[FieldPacingPercent])),
			Parishes:       splitList(cell(raw, cols[FieldParishes])),
			Platform:       cell(raw, cols[FieldPlatform]),
		})
	}
	return res
}

// MonthEnd exposes end-of-month arithmetic for budget reconciliation.
func MonthEnd(monthStart string) string { return endOfMonth(monthStart) }

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
