package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/luaviz/amanhecer/app/message"
)

// ProbeSheetTask checks whether the published sheet currently carries a
// row for the effective day and logs the outcome. Purely operational: it
// gives the sheet maintainers early warning that today's entry is missing
// and visitors are being served generated content.
type ProbeSheetTask struct {
	Task
	service *message.Service
}

func NewProbeSheetTask(service *message.Service) *ProbeSheetTask {
	return &ProbeSheetTask{
		Task:    NewTask(TaskTypeProbeSheet, "sheet"),
		service: service,
	}
}

func (t *ProbeSheetTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	found, err := t.service.Probe(ctx)
	if err != nil {
		return fmt.Errorf("sheet probe failed: %w", err)
	}

	if found {
		slog.Debug("Task completed", "type", "ProbeSheet", "duration", t.GetDuration(), "today_row", true)
	} else {
		slog.Warn("Sheet has no row for the effective day, visitors get generated content", "duration", t.GetDuration())
	}

	return nil
}
