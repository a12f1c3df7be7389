package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/luaviz/amanhecer/app/cfg"
	"github.com/luaviz/amanhecer/app/message"
)

// Generator synthesizes a daily message through the Gemini API when the
// sheet has nothing usable. It never fails outward: any error on the way
// (missing key, rate limit, API failure, unparseable reply) substitutes
// the static fallback message from the site profile.
type Generator struct {
	client     *genai.Client
	model      string
	generation message.Generation
	fallback   message.Message
	limiter    *rate.Limiter
	now        func() time.Time
}

// NewGenerator builds the generator. Without an API key the generator
// still works and always serves the static fallback.
func NewGenerator(ctx context.Context, config message.SourceConfig) *Generator {
	c := cfg.Get()

	g := &Generator{
		model:      c.GeminiModel,
		generation: config.Generation,
		fallback:   config.Fallback,
		// One generation per 30s with a small burst: a sheet outage under
		// traffic must not turn into an API hammering incident.
		limiter: rate.NewLimiter(rate.Every(30*time.Second), 2),
		now:     time.Now,
	}

	if c.GeminiAPIKey == "" {
		slog.Info("Gemini API key not set, fallback generation uses the static message only")
		return g
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  c.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		slog.Error("Failed to create Gemini client, fallback generation uses the static message only", "error", err)
		return g
	}

	g.client = client
	return g
}

// Run returns a generated message for the current content day. The result
// always carries every display field and the generated source tag.
func (g *Generator) Run(ctx context.Context) message.Message {
	if g.client == nil {
		return g.static()
	}

	if !g.limiter.Allow() {
		slog.Warn("Generation rate limit reached, serving static fallback")
		return g.static()
	}

	msg, err := g.generate(ctx)
	if err != nil {
		slog.Error("Generation failed, serving static fallback", "error", err)
		return g.static()
	}

	return msg
}

// payload mirrors the structured-output schema sent to the model.
type payload struct {
	Date        string `json:"date"`
	Title       string `json:"title"`
	Member      string `json:"member"`
	Song        string `json:"song"`
	Album       string `json:"album"`
	MediaURL    string `json:"media_url"`
	ImageURL    string `json:"image_url"`
	Quote       string `json:"quote"`
	Reflection  string `json:"reflection"`
	Affirmation string `json:"affirmation"`
}

func (g *Generator) generate(ctx context.Context) (message.Message, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model,
		genai.Text(g.generation.Prompt),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(g.generation.SystemInstruction, genai.RoleUser),
			ResponseMIMEType:  "application/json",
			ResponseSchema:    responseSchema(),
		})
	if err != nil {
		return message.Message{}, fmt.Errorf("generate content: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return message.Message{}, fmt.Errorf("empty model reply")
	}

	var p payload
	if err := json.Unmarshal([]byte(text), &p); err != nil {
		return message.Message{}, fmt.Errorf("unparseable model reply: %w", err)
	}

	msg := message.Message{
		Date:        p.Date,
		Title:       p.Title,
		Member:      p.Member,
		Song:        p.Song,
		Album:       p.Album,
		MediaURL:    p.MediaURL,
		ImageURL:    p.ImageURL,
		Quote:       p.Quote,
		Reflection:  p.Reflection,
		Affirmation: p.Affirmation,
		Source:      message.SourceGenerated,
	}

	if err := validate(msg); err != nil {
		return message.Message{}, err
	}

	// The model formats its own date; a malformed one is replaced with the
	// effective day rather than rejected.
	if _, err := message.ParseDayToken(msg.Date); err != nil {
		msg.Date = message.FormatDayToken(message.EffectiveDay(g.now()))
	}

	return msg, nil
}

func (g *Generator) static() message.Message {
	msg := g.fallback
	msg.Date = message.FormatDayToken(message.EffectiveDay(g.now()))
	msg.Source = message.SourceGenerated
	return msg
}

func validate(msg message.Message) error {
	required := map[string]string{
		"date":        msg.Date,
		"title":       msg.Title,
		"member":      msg.Member,
		"song":        msg.Song,
		"album":       msg.Album,
		"quote":       msg.Quote,
		"reflection":  msg.Reflection,
		"affirmation": msg.Affirmation,
	}
	for name, value := range required {
		if value == "" {
			return fmt.Errorf("model reply missing required field %q", name)
		}
	}
	return nil
}

func responseSchema() *genai.Schema {
	str := &genai.Schema{Type: genai.TypeString}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"date":        {Type: genai.TypeString, Description: "Data formatada em DD/MM/AAAA"},
			"title":       str,
			"member":      str,
			"song":        str,
			"album":       str,
			"media_url":   str,
			"image_url":   str,
			"quote":       str,
			"reflection":  str,
			"affirmation": str,
		},
		Required: []string{"date", "title", "member", "song", "album",
			"media_url", "image_url", "quote", "reflection", "affirmation"},
	}
}
