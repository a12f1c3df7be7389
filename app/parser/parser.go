package parser

import "strings"

// Parser scans comma-separated text into raw rows. It is deliberately more
// lenient than encoding/csv: rows may have varying field counts, an
// unterminated quote is flushed as-is instead of failing, and rows whose
// fields are all blank are dropped. Quoted fields may contain commas,
// escaped quotes ("") and line breaks.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Run parses the given text into rows, preserving input order.
// Empty input yields no rows. The scan never fails.
func (p *Parser) Run(text string) []RawRow {
	var rows []RawRow
	var row RawRow
	var field strings.Builder
	inQuotes := false

	flushField := func() {
		row = append(row, field.String())
		field.Reset()
	}

	flushRow := func() {
		flushField()
		if !row.IsBlank() {
			rows = append(rows, row)
		}
		row = nil
	}

	for i := 0; i < len(text); i++ {
		c := text[i]

		if inQuotes {
			if c == '"' {
				if i+1 < len(text) && text[i+1] == '"' {
					field.WriteByte('"')
					i++
				} else {
					inQuotes = false
				}
			} else {
				field.WriteByte(c)
			}
			continue
		}

		switch c {
		case '"':
			inQuotes = true
		case ',':
			flushField()
		case '\n':
			flushRow()
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			flushRow()
		default:
			field.WriteByte(c)
		}
	}

	// Flush whatever is in progress, including an unterminated quoted field.
	if field.Len() > 0 || len(row) > 0 {
		flushRow()
	}

	return rows
}
