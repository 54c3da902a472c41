package filters

import (
	"regexp"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// DateRange is the filter bar's preset selection.
type DateRange string

const (
	RangeToday  DateRange = "today"
	Range7D     DateRange = "7d"
	Range30D    DateRange = "30d"
	RangeMTD    DateRange = "mtd"
	RangeCustom DateRange = "custom"
)

// CustomRange holds the custom start/end strings, used only when the preset
// is RangeCustom. Either side may be blank.
type CustomRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// State is the filter bar state the engine reads on every recomputation.
// The engine never mutates it; the UI replaces it wholesale.
type State struct {
	DateRange     DateRange   `json:"dateRange"`
	CustomRange   CustomRange `json:"customRange"`
	Channels      []string    `json:"channels"`
	CampaignQuery string      `json:"campaignQuery"`
}

// Default returns the initial filter state: 7d preset with the current
// month-to-date as the dormant custom range.
func Default(now time.Time) State {
	return State{
		DateRange:   Range7D,
		CustomRange: monthToDate(now),
	}
}

// Range is an inclusive calendar-date window, both ends YYYY-MM-DD.
type Range struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// ResolveRange turns a filter selection into concrete inclusive bounds
// anchored at now. Custom ranges fill blank sides from the current
// month-to-date and are re-ordered so Start never exceeds End.
func ResolveRange(f State, now time.Time) Range {
	today := dayString(now)
	switch f.DateRange {
	case RangeToday:
		return Range{Start: today, End: today}
	case Range30D:
		return Range{Start: dayString(now.AddDate(0, 0, -29)), End: today}
	case RangeMTD:
		return Range{Start: firstOfMonth(now), End: today}
	case RangeCustom:
		def := monthToDate(now)
		start := strings.TrimSpace(f.CustomRange.Start)
		end := strings.TrimSpace(f.CustomRange.End)
		if start == "" {
			start = def.Start
		}
		if end == "" {
			end = def.End
		}
		if start > end {
			start, end = end, start
		}
		return Range{Start: start, End: end}
	default: // 7d, also the fallback for unknown presets
		return Range{Start: dayString(now.AddDate(0, 0, -6)), End: today}
	}
}

// channelLabels maps known display labels to their wire values. Anything
// else falls through to generic slug normalization.
var channelLabels = map[string]string{
	"meta ads":   "meta",
	"meta":       "meta",
	"google ads": "google_ads",
	"google":     "google_ads",
	"linkedin":   "linkedin",
	"tiktok":     "tiktok",
}

var channelSquash = regexp.MustCompile(`[^a-z0-9]+`)

// NormalizeChannel converts a human-readable channel label to the normalized
// form the engine matches against parsed row platforms.
func NormalizeChannel(label string) string {
	key := strings.ToLower(strings.TrimSpace(label))
	if v, ok := channelLabels[key]; ok {
		return v
	}
	key = strings.ReplaceAll(key, "&", "and")
	key = channelSquash.ReplaceAllString(key, "_")
	return strings.Trim(key, "_")
}

func dayString(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

func firstOfMonth(t time.Time) string {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), 1, 0, 0, 0, 0, time.UTC).Format(dateLayout)
}

func monthToDate(now time.Time) CustomRange {
	return CustomRange{Start: firstOfMonth(now), End: dayString(now)}
}
