package api

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"html"
	"net/url"
	"strings"
	"time"

	"github.com/luaviz/amanhecer/app/cfg"
	"github.com/luaviz/amanhecer/app/message"
)

// Generator renders the archive as an RSS 2.0 feed so fans can subscribe
// to the daily message. Items mirror the archive ordering: most recent
// content day first.
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) Run(archive []message.Message) (string, error) {
	var buf bytes.Buffer

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n")
	buf.WriteString(`<rss version="2.0" xmlns:content="http://purl.org/rss/1.0/modules/content/" xmlns:atom="http://www.w3.org/2005/Atom">`)
	buf.WriteString("\n  <channel>\n")

	baseURL := g.baseURL()

	g.writeElement(&buf, "title", "Amanhecer - Mensagem Diária", 4)
	g.writeElement(&buf, "link", baseURL, 4)
	g.writeElement(&buf, "description", "Uma mensagem inspiradora por dia: citação, reflexão e afirmação.", 4)
	g.writeElement(&buf, "language", "pt-br", 4)

	buf.WriteString(fmt.Sprintf("    <atom:link href=\"%s\" rel=\"self\" type=\"application/rss+xml\" />\n",
		html.EscapeString(baseURL+"/feed.xml")))

	lastBuildDate := time.Now().In(message.Zone())
	if len(archive) > 0 {
		if d, err := message.ParseDayToken(archive[0].Date); err == nil {
			lastBuildDate = d
		}
	}
	g.writeElement(&buf, "lastBuildDate", lastBuildDate.Format(time.RFC1123Z), 4)
	g.writeElement(&buf, "generator", fmt.Sprintf("Amanhecer/%s", cfg.Get().Version), 4)

	for _, msg := range archive {
		g.writeItem(&buf, baseURL, msg)
	}

	buf.WriteString("  </channel>\n</rss>")

	return buf.String(), nil
}

func (g *Generator) writeItem(buf *bytes.Buffer, baseURL string, msg message.Message) {
	buf.WriteString("    <item>\n")

	buf.WriteString("      <guid isPermaLink=\"false\">")
	xml.EscapeText(buf, []byte("amanhecer-"+msg.Date))
	buf.WriteString("</guid>\n")

	title := msg.Title
	if msg.Member != "" {
		title = fmt.Sprintf("%s (%s)", msg.Title, msg.Member)
	}
	g.writeElement(buf, "title", title, 6)

	// Deep link into the day's message
	g.writeElement(buf, "link", fmt.Sprintf("%s/daily?d=%s", baseURL, url.QueryEscape(msg.Date)), 6)

	g.writeElement(buf, "description", msg.Quote, 6)

	var body strings.Builder
	for _, p := range msg.Paragraphs() {
		body.WriteString("<p>")
		body.WriteString(html.EscapeString(p))
		body.WriteString("</p>")
	}
	if msg.Affirmation != "" {
		body.WriteString("<p><em>")
		body.WriteString(html.EscapeString(msg.Affirmation))
		body.WriteString("</em></p>")
	}
	if body.Len() > 0 {
		buf.WriteString("      <content:encoded><![CDATA[")
		buf.WriteString(body.String())
		buf.WriteString("]]></content:encoded>\n")
	}

	if d, err := message.ParseDayToken(msg.Date); err == nil {
		g.writeElement(buf, "pubDate", d.Format(time.RFC1123Z), 6)
	}

	for _, category := range []string{msg.Member, msg.Album, msg.Song} {
		if category != "" {
			g.writeElement(buf, "category", category, 6)
		}
	}

	buf.WriteString("    </item>\n")
}

func (g *Generator) baseURL() string {
	if base := cfg.Get().BaseUrl; base != "" {
		return strings.TrimSuffix(base, "/")
	}
	return "http://localhost:" + cfg.Get().Port
}

func (g *Generator) writeElement(buf *bytes.Buffer, tag, content string, indent int) {
	if content == "" {
		return
	}

	for i := 0; i < indent; i++ {
		buf.WriteByte(' ')
	}

	buf.WriteString("<")
	buf.WriteString(tag)
	buf.WriteString(">")
	xml.EscapeText(buf, []byte(content))
	buf.WriteString("</")
	buf.WriteString(tag)
	buf.WriteString(">\n")
}
