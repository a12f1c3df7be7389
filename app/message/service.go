package message

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/luaviz/amanhecer/app/parser"
)

// TableSource retrieves the published table as raw CSV text.
type TableSource interface {
	Run(ctx context.Context) (string, error)
}

// Generator produces a synthetic message when the table has nothing
// usable. Implementations recover internally and always return a complete
// message, so the daily flow can never fail outward.
type Generator interface {
	Run(ctx context.Context) Message
}

// Service resolves daily content against the live table. Every call
// fetches fresh; no state is carried between calls.
type Service struct {
	source    TableSource
	generator Generator
	parser    *parser.Parser
	resolver  *Resolver
	now       func() time.Time
}

func NewService(source TableSource, generator Generator, config SourceConfig) *Service {
	return &Service{
		source:    source,
		generator: generator,
		parser:    parser.NewParser(),
		resolver:  NewResolver(config.Columns),
		now:       time.Now,
	}
}

// FetchToday resolves the message for the current content day. A fetch
// failure, a table without data rows, and a table without a row for today
// are all folded into the same path: the fallback generator.
func (s *Service) FetchToday(ctx context.Context) Message {
	rows, err := s.fetchRows(ctx)
	if err != nil {
		slog.Warn("Sheet fetch failed, falling back to generation", "error", err)
		return s.generator.Run(ctx)
	}

	index := BuildHeaderIndex(rows[0])
	effective := EffectiveDay(s.now())

	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		d, err := ParseDayToken(row[0])
		if err != nil {
			continue
		}
		if SameDay(d, effective) {
			return s.resolver.Run(row, index)
		}
	}

	slog.Info("No sheet row for the effective day, falling back to generation", "effective_day", FormatDayToken(effective))
	return s.generator.Run(ctx)
}

// FetchArchive resolves every past and current row of the table, most
// recent first. Future-dated and date-invalid rows are excluded. Any
// failure yields an empty archive; the generator is never consulted here.
func (s *Service) FetchArchive(ctx context.Context) []Message {
	rows, err := s.fetchRows(ctx)
	if err != nil {
		slog.Warn("Archive fetch failed, returning empty archive", "error", err)
		return []Message{}
	}

	index := BuildHeaderIndex(rows[0])
	effective := EffectiveDay(s.now())

	var archive []Message
	for _, row := range rows[1:] {
		msg := s.resolver.Run(row, index)
		d, err := ParseDayToken(msg.Date)
		if err != nil {
			continue
		}
		if d.After(effective) {
			continue
		}
		archive = append(archive, msg)
	}

	// Most recently dated valid row first; ties keep reverse table order.
	for i, j := 0, len(archive)-1; i < j; i, j = i+1, j-1 {
		archive[i], archive[j] = archive[j], archive[i]
	}

	if archive == nil {
		archive = []Message{}
	}
	return archive
}

// ResolveByDate matches a requested day token verbatim against the
// archive. Matching is exact-string, not calendar comparison: a token
// without a leading zero misses even when a semantically equal date
// exists. The boolean reports whether a record was found.
func (s *Service) ResolveByDate(token string, archive []Message) (Message, bool) {
	for _, msg := range archive {
		if msg.Date == token {
			return msg, true
		}
	}
	return Message{}, false
}

// Probe reports whether the table currently carries a row for the
// effective day. Used for operational logging only.
func (s *Service) Probe(ctx context.Context) (bool, error) {
	rows, err := s.fetchRows(ctx)
	if err != nil {
		return false, err
	}

	effective := EffectiveDay(s.now())
	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		if d, err := ParseDayToken(row[0]); err == nil && SameDay(d, effective) {
			return true, nil
		}
	}
	return false, nil
}

func (s *Service) fetchRows(ctx context.Context) ([]parser.RawRow, error) {
	text, err := s.source.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch table: %w", err)
	}

	rows := s.parser.Run(text)
	if len(rows) < 2 {
		return nil, fmt.Errorf("table has no data rows (%d rows)", len(rows))
	}

	return rows, nil
}
