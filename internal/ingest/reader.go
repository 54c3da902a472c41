package ingest

import "strings"

// Table is the raw output of the delimited-text parser: one header row plus
// an ordered sequence of field slices, nothing typed yet.
type Table struct {
	Headers []string
	Rows    [][]string
}

// ParseDelimited tokenizes raw CSV text. Blank lines are dropped, \r\n and
// \n both delimit records, quoted fields may contain commas and escaped
// quotes (""). It never fails: malformed quoting degrades to best-effort
// tokenization, and empty input yields an empty table, which dataset parsers
// report as "empty or missing headers".
func ParseDelimited(text string) Table {
	var lines []string
	for _, ln := range strings.Split(text, "\n") {
		ln = strings.TrimSpace(ln)
		if ln != "" {
			lines = append(lines, ln)
		}
	}
	if len(lines) == 0 {
		return Table{}
	}
	t := Table{Headers: splitLine(lines[0])}
	for _, ln := range lines[1:] {
		t.Rows = append(t.Rows, splitLine(ln))
	}
	return t
}

func splitLine(line string) []string {
	var fields []string
	var b strings.Builder
	inQuotes := false
	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		switch {
		case ch == '"':
			if inQuotes && i+1 < len(runes) && runes[i+1] == '"' {
				// escaped quote: emit one literal quote, stay inside
				b.WriteRune('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case ch == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(b.String()))
			b.Reset()
		default:
			b.WriteRune(ch)
		}
	}
	fields = append(fields, strings.TrimSpace(b.String()))
	return fields
}
