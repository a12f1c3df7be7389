package api

import (
	"context"
	"net/http"

	"github.com/luaviz/amanhecer/app/message"
	"github.com/luaviz/amanhecer/app/tasks"
)

type ServiceInterface interface {
	FetchToday(ctx context.Context) message.Message
	FetchArchive(ctx context.Context) []message.Message
	ResolveByDate(token string, archive []message.Message) (message.Message, bool)
}

var _ ServiceInterface = (*message.Service)(nil)

type GeneratorInterface interface {
	Run(archive []message.Message) (string, error)
}

var _ GeneratorInterface = (*Generator)(nil)

type Handler struct {
	service    ServiceInterface
	generator  GeneratorInterface
	scheduler  tasks.TaskSchedulerInterface
	httpClient *http.Client
}
