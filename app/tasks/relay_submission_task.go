package tasks

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/luaviz/amanhecer/app/cfg"
)

// RelaySubmissionTask forwards a visitor submission (message board or
// contact form) to the external script endpoint. The HTTP handler replies
// to the visitor before this runs; delivery is best effort with the
// scheduler's retry policy behind it.
type RelaySubmissionTask struct {
	Task
	Form       url.Values
	httpClient *http.Client
	scriptURL  string
	userAgent  string
}

func NewRelaySubmissionTask(kind string, form url.Values, httpClient *http.Client) *RelaySubmissionTask {
	c := cfg.Get()
	return &RelaySubmissionTask{
		Task:       NewTask(TaskTypeRelaySubmission, kind),
		Form:       form,
		httpClient: httpClient,
		scriptURL:  c.ScriptURL,
		userAgent:  c.UserAgent,
	}
}

func (t *RelaySubmissionTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if t.scriptURL == "" {
		slog.Warn("Submission relay endpoint not configured, dropping submission", "kind", t.GetDetail())
		return nil
	}

	form := url.Values{}
	for k, vs := range t.Form {
		for _, v := range vs {
			form.Add(k, v)
		}
	}
	form.Set("kind", t.GetDetail())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.scriptURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", t.userAgent)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to relay submission: %w", err)
	}
	defer resp.Body.Close()

	// Drain so the connection can be reused.
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 400 {
		return fmt.Errorf("relay endpoint returned HTTP %d", resp.StatusCode)
	}

	slog.Info("Task completed",
		"type", "RelaySubmission",
		"kind", t.GetDetail(),
		"duration", t.GetDuration(),
		"status", resp.StatusCode)

	return nil
}
