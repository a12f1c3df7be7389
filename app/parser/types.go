package parser

// RawRow is an ordered sequence of string fields from one table row.
// Position 0 is the date column by convention; callers treat row 0 of a
// parse result as the header row.
type RawRow []string

// IsBlank reports whether every field is empty or whitespace-only.
func (r RawRow) IsBlank() bool {
	for _, cell := range r {
		for _, c := range cell {
			if c != ' ' && c != '\t' && c != '\r' && c != '\n' {
				return false
			}
		}
	}
	return true
}
