package message

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/luaviz/amanhecer/app/parser"
)

// HeaderIndex maps a normalized column name to its position in a row.
// It is rebuilt from the header row on every fetch and never cached.
type HeaderIndex map[string]int

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeHeader lowercases a column name, strips diacritics and trims
// surrounding whitespace, so "Título " and "titulo" index the same column.
func NormalizeHeader(s string) string {
	clean, _, err := transform.String(stripMarks, s)
	if err != nil {
		clean = s
	}
	return strings.TrimSpace(strings.ToLower(clean))
}

// BuildHeaderIndex records the position of each normalized header cell.
// When a header occurs more than once, the last occurrence wins.
func BuildHeaderIndex(header parser.RawRow) HeaderIndex {
	index := make(HeaderIndex, len(header))
	for i, cell := range header {
		index[NormalizeHeader(cell)] = i
	}
	return index
}

// Columns lists, per semantic field, the header names to look for. Aliases
// are tried in order; the first one present in the header row wins.
type Columns struct {
	Title       []string `yaml:"title"`
	Member      []string `yaml:"member"`
	Song        []string `yaml:"song"`
	Album       []string `yaml:"album"`
	MediaURL    []string `yaml:"media_url"`
	ImageURL    []string `yaml:"image_url"`
	Quote       []string `yaml:"quote"`
	Reflection  []string `yaml:"reflection"`
	Affirmation []string `yaml:"affirmation"`
}

// DefaultColumns matches the published sheet's Portuguese headers, with
// English fallbacks.
func DefaultColumns() Columns {
	return Columns{
		Title:       []string{"titulo", "title"},
		Member:      []string{"membro", "member"},
		Song:        []string{"musica", "song"},
		Album:       []string{"album"},
		MediaURL:    []string{"spotify_url", "media_url"},
		ImageURL:    []string{"imagem_url", "image_url"},
		Quote:       []string{"citacao", "quote"},
		Reflection:  []string{"reflexao", "reflection"},
		Affirmation: []string{"afirmacao", "affirmation"},
	}
}

// Resolver extracts a typed message from a raw row using a header index.
// It performs structural extraction only; validity is judged by callers.
type Resolver struct {
	columns Columns
}

func NewResolver(columns Columns) *Resolver {
	return &Resolver{columns: columns}
}

// Run reads column 0 as the literal day token and every semantic field by
// header lookup. A missing header or missing cell yields an empty string,
// never an error.
func (r *Resolver) Run(row parser.RawRow, index HeaderIndex) Message {
	date := ""
	if len(row) > 0 {
		date = strings.TrimSpace(row[0])
	}

	return Message{
		Date:        date,
		Title:       r.lookup(row, index, r.columns.Title),
		Member:      r.lookup(row, index, r.columns.Member),
		Song:        r.lookup(row, index, r.columns.Song),
		Album:       r.lookup(row, index, r.columns.Album),
		MediaURL:    r.lookup(row, index, r.columns.MediaURL),
		ImageURL:    r.lookup(row, index, r.columns.ImageURL),
		Quote:       r.lookup(row, index, r.columns.Quote),
		Reflection:  r.lookup(row, index, r.columns.Reflection),
		Affirmation: r.lookup(row, index, r.columns.Affirmation),
		Source:      SourceTable,
	}
}

func (r *Resolver) lookup(row parser.RawRow, index HeaderIndex, aliases []string) string {
	for _, alias := range aliases {
		if i, ok := index[NormalizeHeader(alias)]; ok {
			if i >= 0 && i < len(row) {
				return strings.TrimSpace(row[i])
			}
			return ""
		}
	}
	return ""
}
