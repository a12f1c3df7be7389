package message

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

type fakeSource struct {
	text string
	err  error
}

func (f *fakeSource) Run(ctx context.Context) (string, error) {
	return f.text, f.err
}

type fakeGenerator struct {
	calls int
}

func (f *fakeGenerator) Run(ctx context.Context) Message {
	f.calls++
	return Message{
		Date:        "15/06/2025",
		Title:       "Mensagem Gerada",
		Member:      "BTS",
		Song:        "Spring Day",
		Album:       "You Never Walk Alone",
		MediaURL:    "https://open.spotify.com/track/x",
		ImageURL:    "https://example.com/img.jpg",
		Quote:       "Citação gerada.",
		Reflection:  "Reflexão gerada.",
		Affirmation: "Afirmação gerada.",
		Source:      SourceGenerated,
	}
}

// fixedNow is midday 15/06/2025 in the content timezone.
var fixedNow = time.Date(2025, 6, 15, 15, 0, 0, 0, time.UTC)

func newTestService(source TableSource, generator Generator) (*Service, *fakeGenerator) {
	setupTestConfig()
	if generator == nil {
		generator = &fakeGenerator{}
	}
	s := NewService(source, generator, DefaultSourceConfig())
	s.now = func() time.Time { return fixedNow }
	gen, _ := generator.(*fakeGenerator)
	return s, gen
}

func sheetCSV(rows ...string) string {
	header := "data,titulo,membro,musica,album,spotify_url,imagem_url,citacao,reflexao,afirmacao"
	return header + "\n" + strings.Join(rows, "\n")
}

func sheetRow(date, title string) string {
	return fmt.Sprintf("%s,%s,RM,Spring Day,You Never Walk Alone,https://s.example/x,https://i.example/y,Citação.,Reflexão.,Afirmação.", date, title)
}

func TestFetchTodayFromTable(t *testing.T) {
	source := &fakeSource{text: sheetCSV(
		sheetRow("14/06/2025", "Ontem"),
		sheetRow("15/06/2025", "Hoje"),
		sheetRow("16/06/2025", "Amanhã"),
	)}
	s, gen := newTestService(source, nil)

	msg := s.FetchToday(context.Background())

	if msg.Title != "Hoje" {
		t.Errorf("Expected today's row, got title '%s'", msg.Title)
	}
	if msg.Source != SourceTable {
		t.Errorf("Expected source %q, got %q", SourceTable, msg.Source)
	}
	if gen.calls != 0 {
		t.Errorf("Expected generator not to be called, got %d calls", gen.calls)
	}
}

func TestFetchTodayBeforeRolloverServesPreviousDay(t *testing.T) {
	source := &fakeSource{text: sheetCSV(
		sheetRow("14/06/2025", "Ontem"),
		sheetRow("15/06/2025", "Hoje"),
	)}
	s, _ := newTestService(source, nil)
	// 03:30 local on 15/06 is still content day 14/06
	s.now = func() time.Time { return time.Date(2025, 6, 15, 6, 30, 0, 0, time.UTC) }

	msg := s.FetchToday(context.Background())
	if msg.Title != "Ontem" {
		t.Errorf("Expected previous day's row before rollover, got '%s'", msg.Title)
	}
}

func TestFetchTodayFallsBack(t *testing.T) {
	tests := []struct {
		name   string
		source *fakeSource
	}{
		{"fetch error", &fakeSource{err: errors.New("connection refused")}},
		{"header only", &fakeSource{text: "titulo,data\n"}},
		{"empty table", &fakeSource{text: ""}},
		{"no row for today", &fakeSource{text: sheetCSV(sheetRow("01/01/2025", "Antigo"))}},
		{"unparseable dates", &fakeSource{text: sheetCSV(sheetRow("hoje", "Inválido"))}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, gen := newTestService(tt.source, nil)

			msg := s.FetchToday(context.Background())

			if gen.calls != 1 {
				t.Fatalf("Expected exactly one generator call, got %d", gen.calls)
			}
			if msg.Source != SourceGenerated {
				t.Errorf("Expected source %q, got %q", SourceGenerated, msg.Source)
			}
			if !msg.Valid() {
				t.Errorf("Expected a complete generated message, got %+v", msg)
			}
		})
	}
}

func TestFetchTodayFirstMatchWins(t *testing.T) {
	source := &fakeSource{text: sheetCSV(
		sheetRow("15/06/2025", "Primeira"),
		sheetRow("15/06/2025", "Segunda"),
	)}
	s, _ := newTestService(source, nil)

	msg := s.FetchToday(context.Background())
	if msg.Title != "Primeira" {
		t.Errorf("Expected first matching row, got '%s'", msg.Title)
	}
}

func TestFetchArchiveOrderingAndFiltering(t *testing.T) {
	source := &fakeSource{text: sheetCSV(
		sheetRow("01/01/2025", "Janeiro"),
		sheetRow("15/06/2025", "Junho"),
		sheetRow("15/06/2026", "Futuro"),
	)}
	s, gen := newTestService(source, nil)

	archive := s.FetchArchive(context.Background())

	if len(archive) != 2 {
		t.Fatalf("Expected 2 archived messages, got %d", len(archive))
	}
	if archive[0].Date != "15/06/2025" {
		t.Errorf("Expected most recent first, got '%s'", archive[0].Date)
	}
	if archive[1].Date != "01/01/2025" {
		t.Errorf("Expected oldest last, got '%s'", archive[1].Date)
	}
	if gen.calls != 0 {
		t.Errorf("Archive must never consult the generator, got %d calls", gen.calls)
	}
}

func TestFetchArchiveIncludesToday(t *testing.T) {
	source := &fakeSource{text: sheetCSV(sheetRow("15/06/2025", "Hoje"))}
	s, _ := newTestService(source, nil)

	archive := s.FetchArchive(context.Background())
	if len(archive) != 1 {
		t.Fatalf("Expected today's row in the archive, got %d messages", len(archive))
	}
}

func TestFetchArchiveSkipsInvalidDates(t *testing.T) {
	source := &fakeSource{text: sheetCSV(
		sheetRow("hoje", "Sem Data"),
		sheetRow("31/02/2025", "Impossível"),
		sheetRow("01/01/2025", "Janeiro"),
	)}
	s, _ := newTestService(source, nil)

	archive := s.FetchArchive(context.Background())
	if len(archive) != 1 {
		t.Fatalf("Expected 1 archived message, got %d", len(archive))
	}
	if archive[0].Title != "Janeiro" {
		t.Errorf("Expected 'Janeiro', got '%s'", archive[0].Title)
	}
}

func TestFetchArchiveDuplicateDateOrder(t *testing.T) {
	source := &fakeSource{text: sheetCSV(
		sheetRow("01/01/2025", "Primeira"),
		sheetRow("01/01/2025", "Segunda"),
	)}
	s, _ := newTestService(source, nil)

	archive := s.FetchArchive(context.Background())
	if len(archive) != 2 {
		t.Fatalf("Expected 2 archived messages, got %d", len(archive))
	}
	// Last in file for a date comes first in output
	if archive[0].Title != "Segunda" || archive[1].Title != "Primeira" {
		t.Errorf("Unexpected same-date ordering: %s, %s", archive[0].Title, archive[1].Title)
	}
}

func TestFetchArchiveEmptyOnFailure(t *testing.T) {
	tests := []struct {
		name   string
		source *fakeSource
	}{
		{"fetch error", &fakeSource{err: errors.New("connection refused")}},
		{"header only", &fakeSource{text: "titulo,data\n"}},
		{"empty table", &fakeSource{text: ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, gen := newTestService(tt.source, nil)

			archive := s.FetchArchive(context.Background())
			if archive == nil {
				t.Fatal("Expected empty slice, got nil")
			}
			if len(archive) != 0 {
				t.Errorf("Expected empty archive, got %d messages", len(archive))
			}
			if gen.calls != 0 {
				t.Errorf("Archive must never consult the generator, got %d calls", gen.calls)
			}
		})
	}
}

func TestResolveByDateExactMatch(t *testing.T) {
	s, _ := newTestService(&fakeSource{}, nil)

	archive := []Message{
		{Date: "09/12/2025", Title: "Dezembro"},
		{Date: "01/01/2025", Title: "Janeiro"},
	}

	msg, found := s.ResolveByDate("09/12/2025", archive)
	if !found {
		t.Fatal("Expected a match for '09/12/2025'")
	}
	if msg.Title != "Dezembro" {
		t.Errorf("Expected 'Dezembro', got '%s'", msg.Title)
	}

	// Matching is exact-string: no leading zero misses
	if _, found := s.ResolveByDate("9/12/2025", archive); found {
		t.Error("Expected '9/12/2025' to miss even though the date is semantically equal")
	}

	if _, found := s.ResolveByDate("31/12/2025", archive); found {
		t.Error("Expected no match for an absent date")
	}
}

func TestProbe(t *testing.T) {
	source := &fakeSource{text: sheetCSV(sheetRow("15/06/2025", "Hoje"))}
	s, _ := newTestService(source, nil)

	found, err := s.Probe(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if !found {
		t.Error("Expected probe to find today's row")
	}

	source.text = sheetCSV(sheetRow("01/01/2025", "Antigo"))
	found, err = s.Probe(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if found {
		t.Error("Expected probe to report missing row")
	}

	source.err = errors.New("connection refused")
	if _, err := s.Probe(context.Background()); err == nil {
		t.Error("Expected probe to surface fetch errors")
	}
}
