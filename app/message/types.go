package message

import "strings"

// Source tags where a message came from.
type Source string

const (
	// SourceTable marks a message resolved from the published spreadsheet.
	SourceTable Source = "table"
	// SourceGenerated marks a synthetic message from the fallback generator.
	SourceGenerated Source = "generated"
)

// Message is the full structured payload shown for one content day.
type Message struct {
	Date        string `json:"date" yaml:"date"`
	Title       string `json:"title" yaml:"title"`
	Member      string `json:"member" yaml:"member"`
	Song        string `json:"song" yaml:"song"`
	Album       string `json:"album" yaml:"album"`
	MediaURL    string `json:"media_url" yaml:"media_url"`
	ImageURL    string `json:"image_url" yaml:"image_url"`
	Quote       string `json:"quote" yaml:"quote"`
	Reflection  string `json:"reflection" yaml:"reflection"`
	Affirmation string `json:"affirmation" yaml:"affirmation"`
	Source      Source `json:"source" yaml:"-"`
}

// Valid reports whether the message is complete enough to display: every
// field except the media and image URLs must be non-empty, and the date
// must parse as a day token.
func (m Message) Valid() bool {
	if _, err := ParseDayToken(m.Date); err != nil {
		return false
	}
	for _, field := range []string{m.Title, m.Member, m.Song, m.Album, m.Quote, m.Reflection, m.Affirmation} {
		if strings.TrimSpace(field) == "" {
			return false
		}
	}
	return true
}

// Paragraphs splits the reflection on embedded line breaks. Blank lines are
// skipped so a CRLF or a doubled newline does not produce empty paragraphs.
func (m Message) Paragraphs() []string {
	var out []string
	for _, line := range strings.Split(m.Reflection, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
