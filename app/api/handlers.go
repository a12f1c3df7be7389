package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/luaviz/amanhecer/app/cfg"
	"github.com/luaviz/amanhecer/app/message"
	"github.com/luaviz/amanhecer/app/tasks"
)

func NewHandler(service ServiceInterface, scheduler tasks.TaskSchedulerInterface,
	httpClient *http.Client) *Handler {
	return &Handler{
		service:    service,
		generator:  NewGenerator(),
		scheduler:  scheduler,
		httpClient: httpClient,
	}
}

// GetDaily serves today's message. With ?d=<day token> it acts as the
// deep-link resolver instead: the token is matched verbatim against the
// archive, and a miss is a plain not_found the front-end degrades on.
func (h *Handler) GetDaily(c *gin.Context) {
	if token := c.Query("d"); token != "" {
		archive := h.service.FetchArchive(c.Request.Context())
		msg, found := h.service.ResolveByDate(token, archive)
		if !found {
			c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "date": token})
			return
		}
		c.JSON(http.StatusOK, msg)
		return
	}

	msg := h.service.FetchToday(c.Request.Context())
	c.JSON(http.StatusOK, msg)
}

func (h *Handler) GetArchive(c *gin.Context) {
	archive := h.service.FetchArchive(c.Request.Context())

	c.Header("X-Archive-Items", strconv.Itoa(len(archive)))
	c.JSON(http.StatusOK, gin.H{
		"count":    len(archive),
		"messages": archive,
	})
}

// GetFacets returns the cascading filter values: all members, albums
// narrowed by ?member=, songs narrowed by ?member= and ?album=.
func (h *Handler) GetFacets(c *gin.Context) {
	archive := h.service.FetchArchive(c.Request.Context())

	member := c.Query("member")
	album := c.Query("album")

	c.JSON(http.StatusOK, gin.H{
		"members": message.Members(archive),
		"albums":  message.Albums(archive, member),
		"songs":   message.Songs(archive, member, album),
	})
}

func (h *Handler) GetFeed(c *gin.Context) {
	archive := h.service.FetchArchive(c.Request.Context())

	rss, err := h.generator.Run(archive)
	if err != nil {
		slog.Error("RSS generation error", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Header("Content-Type", "application/rss+xml; charset=utf-8")
	c.Header("X-Archive-Items", strconv.Itoa(len(archive)))
	c.String(http.StatusOK, rss)
}

func (h *Handler) PostBoard(c *gin.Context) {
	h.relaySubmission(c, "board", []string{"name", "message"})
}

func (h *Handler) PostContact(c *gin.Context) {
	h.relaySubmission(c, "contact", []string{"name", "email", "message"})
}

// relaySubmission accepts the form, queues the relay and replies
// immediately. Delivery to the external endpoint is fire-and-forget.
func (h *Handler) relaySubmission(c *gin.Context, kind string, required []string) {
	if err := c.Request.ParseForm(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid form"})
		return
	}

	form := c.Request.PostForm
	for _, field := range required {
		if strings.TrimSpace(form.Get(field)) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing field", "field": field})
			return
		}
	}

	task := tasks.NewRelaySubmissionTask(kind, form, h.httpClient)
	if err := h.scheduler.EnqueueTask(task); err != nil {
		slog.Error("Failed to enqueue submission relay", "kind", kind, "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "try again later"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
}

func (h *Handler) GetHealth(c *gin.Context) {
	now := time.Now()

	c.JSON(http.StatusOK, gin.H{
		"timestamp":     now.Format(time.RFC3339),
		"effective_day": message.FormatDayToken(message.EffectiveDay(now)),
		"version":       cfg.Get().Version,
	})
}
