package parser

import (
	"bytes"
	"encoding/csv"
	"reflect"
	"testing"
)

func TestRunSimpleRows(t *testing.T) {
	p := NewParser()
	rows := p.Run("data,titulo\n01/01/2025,Hello\n02/01/2025,World")

	if len(rows) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(rows))
	}
	if rows[0][0] != "data" || rows[0][1] != "titulo" {
		t.Errorf("Unexpected header row: %v", rows[0])
	}
	if rows[2][1] != "World" {
		t.Errorf("Expected 'World', got '%s'", rows[2][1])
	}
}

func TestRunQuotedFields(t *testing.T) {
	p := NewParser()

	tests := []struct {
		name     string
		input    string
		expected []RawRow
	}{
		{
			name:     "embedded comma",
			input:    "a,\"b,c\",d",
			expected: []RawRow{{"a", "b,c", "d"}},
		},
		{
			name:     "escaped quote",
			input:    "a,\"she said \"\"hi\"\"\"",
			expected: []RawRow{{"a", `she said "hi"`}},
		},
		{
			name:     "embedded newline",
			input:    "a,\"line one\nline two\",b",
			expected: []RawRow{{"a", "line one\nline two", "b"}},
		},
		{
			name:     "embedded CRLF",
			input:    "a,\"one\r\ntwo\"",
			expected: []RawRow{{"a", "one\r\ntwo"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := p.Run(tt.input)
			if !reflect.DeepEqual(rows, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, rows)
			}
		})
	}
}

func TestRunLineTerminators(t *testing.T) {
	p := NewParser()

	// \n, \r\n and \r alone are all single terminators
	rows := p.Run("a,b\nc,d\r\ne,f\rg,h")
	if len(rows) != 4 {
		t.Fatalf("Expected 4 rows, got %d", len(rows))
	}
	if rows[2][0] != "e" || rows[3][0] != "g" {
		t.Errorf("Unexpected rows: %v", rows)
	}
}

func TestRunDropsBlankRows(t *testing.T) {
	p := NewParser()

	rows := p.Run("a,b\n\n  , \t\nc,d\n\n")
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}
	if rows[1][0] != "c" {
		t.Errorf("Expected 'c', got '%s'", rows[1][0])
	}
}

func TestRunEmptyInput(t *testing.T) {
	p := NewParser()

	if rows := p.Run(""); len(rows) != 0 {
		t.Errorf("Expected no rows for empty input, got %d", len(rows))
	}
}

func TestRunUnterminatedQuote(t *testing.T) {
	p := NewParser()

	rows := p.Run("a,\"never closed")
	if len(rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(rows))
	}
	expected := RawRow{"a", "never closed"}
	if !reflect.DeepEqual(rows[0], expected) {
		t.Errorf("Expected %v, got %v", expected, rows[0])
	}
}

func TestRunTrailingNewlineNoExtraRow(t *testing.T) {
	p := NewParser()

	rows := p.Run("a,b\nc,d\n")
	if len(rows) != 2 {
		t.Errorf("Expected 2 rows, got %d", len(rows))
	}
}

func TestRunEmptyFieldsPreserved(t *testing.T) {
	p := NewParser()

	rows := p.Run("a,,c\n,x,")
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}
	if rows[0][1] != "" {
		t.Errorf("Expected empty middle field, got '%s'", rows[0][1])
	}
	if len(rows[1]) != 3 || rows[1][0] != "" || rows[1][2] != "" {
		t.Errorf("Unexpected row: %v", rows[1])
	}
}

func TestRunRoundTrip(t *testing.T) {
	// Serializing with standard CSV quoting then parsing must reproduce the
	// original rows, including commas, quotes and newlines inside cells.
	original := [][]string{
		{"data", "titulo", "reflexao"},
		{"01/01/2025", `um "grande" dia`, "primeira linha\nsegunda linha"},
		{"02/01/2025", "vida, amor", "tudo bem"},
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.UseCRLF = false
	if err := w.WriteAll(original); err != nil {
		t.Fatal(err)
	}

	rows := NewParser().Run(buf.String())
	if len(rows) != len(original) {
		t.Fatalf("Expected %d rows, got %d", len(original), len(rows))
	}
	for i := range original {
		if !reflect.DeepEqual([]string(rows[i]), original[i]) {
			t.Errorf("Row %d: expected %v, got %v", i, original[i], rows[i])
		}
	}
}
