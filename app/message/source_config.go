package message

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Generation holds the prompt pair sent to the fallback generator.
type Generation struct {
	SystemInstruction string `yaml:"system_instruction"`
	Prompt            string `yaml:"prompt"`
}

// SourceConfig is the optional site profile: column aliases for the
// published sheet, the static fallback message, and the generation
// prompts. Every field has an embedded default so the file may be absent
// or partial.
type SourceConfig struct {
	Columns    Columns    `yaml:"columns"`
	Fallback   Message    `yaml:"fallback"`
	Generation Generation `yaml:"generation"`
}

// DefaultSourceConfig mirrors the original site's published sheet and its
// built-in "Spring Day" fallback message.
func DefaultSourceConfig() SourceConfig {
	return SourceConfig{
		Columns: DefaultColumns(),
		Fallback: Message{
			Title:       "O Despertar da Esperança",
			Member:      "BTS",
			Song:        "Spring Day",
			Album:       "You Never Walk Alone",
			MediaURL:    "https://open.spotify.com/track/09mEucvDXqSsq1zSea0Y9L",
			ImageURL:    "https://i.imgur.com/nIvbBDx.jpeg",
			Quote:       "Nenhuma noite é eterna, nenhuma estação dura para sempre.",
			Reflection:  "Mesmo no inverno mais rigoroso, a primavera está a caminho. Respire fundo e confie no seu tempo.",
			Affirmation: "Eu sou resiliente e floresço no meu próprio tempo.",
			Source:      SourceGenerated,
		},
		Generation: Generation{
			SystemInstruction: "Você é um guia inspirado no BTS. Crie uma meditação matinal curta. Retorne APENAS JSON.",
			Prompt:            "Gere uma meditação diária inspiradora baseada no universo BTS para hoje.",
		},
	}
}

// LoadSourceConfig reads the site profile from the given path and merges
// it over the defaults. A missing file is not an error; a present but
// invalid file is.
func LoadSourceConfig(path string) (SourceConfig, error) {
	config := DefaultSourceConfig()

	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Debug("Site profile not found, using defaults", "path", path)
			return config, nil
		}
		return config, fmt.Errorf("failed to read site profile: %w", err)
	}

	var overlay SourceConfig
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return config, fmt.Errorf("failed to parse site profile %s: %w", path, err)
	}

	config.merge(overlay)

	if err := config.validate(); err != nil {
		return config, fmt.Errorf("invalid site profile %s: %w", path, err)
	}

	slog.Debug("Site profile loaded", "path", path)
	return config, nil
}

func (c *SourceConfig) merge(overlay SourceConfig) {
	mergeAliases := func(dst *[]string, src []string) {
		if len(src) > 0 {
			*dst = src
		}
	}
	mergeAliases(&c.Columns.Title, overlay.Columns.Title)
	mergeAliases(&c.Columns.Member, overlay.Columns.Member)
	mergeAliases(&c.Columns.Song, overlay.Columns.Song)
	mergeAliases(&c.Columns.Album, overlay.Columns.Album)
	mergeAliases(&c.Columns.MediaURL, overlay.Columns.MediaURL)
	mergeAliases(&c.Columns.ImageURL, overlay.Columns.ImageURL)
	mergeAliases(&c.Columns.Quote, overlay.Columns.Quote)
	mergeAliases(&c.Columns.Reflection, overlay.Columns.Reflection)
	mergeAliases(&c.Columns.Affirmation, overlay.Columns.Affirmation)

	mergeString := func(dst *string, src string) {
		if src != "" {
			*dst = src
		}
	}
	mergeString(&c.Fallback.Title, overlay.Fallback.Title)
	mergeString(&c.Fallback.Member, overlay.Fallback.Member)
	mergeString(&c.Fallback.Song, overlay.Fallback.Song)
	mergeString(&c.Fallback.Album, overlay.Fallback.Album)
	mergeString(&c.Fallback.MediaURL, overlay.Fallback.MediaURL)
	mergeString(&c.Fallback.ImageURL, overlay.Fallback.ImageURL)
	mergeString(&c.Fallback.Quote, overlay.Fallback.Quote)
	mergeString(&c.Fallback.Reflection, overlay.Fallback.Reflection)
	mergeString(&c.Fallback.Affirmation, overlay.Fallback.Affirmation)
	c.Fallback.Source = SourceGenerated

	mergeString(&c.Generation.SystemInstruction, overlay.Generation.SystemInstruction)
	mergeString(&c.Generation.Prompt, overlay.Generation.Prompt)
}

func (c *SourceConfig) validate() error {
	// The fallback message is the last line of defense for the daily flow,
	// so its text fields may not be blanked out.
	required := map[string]string{
		"fallback.title":       c.Fallback.Title,
		"fallback.member":      c.Fallback.Member,
		"fallback.song":        c.Fallback.Song,
		"fallback.album":       c.Fallback.Album,
		"fallback.quote":       c.Fallback.Quote,
		"fallback.reflection":  c.Fallback.Reflection,
		"fallback.affirmation": c.Fallback.Affirmation,
	}
	for name, value := range required {
		if value == "" {
			return fmt.Errorf("missing required field %s", name)
		}
	}
	return nil
}
