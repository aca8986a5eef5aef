package api

import (
	"context"

	"github.com/aussiebroadwan/botadmin/internal/console/domain"
)

type Tasks struct{ c *Client }

func (t *Tasks) List(ctx context.Context, p domain.PageRequest, f domain.TaskFilter) Result {
	return t.c.filter(ctx, "/task/keyword/filter", p, f)
}

func (t *Tasks) Create(ctx context.Context, in domain.TaskInput) Result {
	if in.Status == "" {
		in.Status = domain.TaskPending
	}
	return t.c.Post(ctx, "/task/create-keyword-task", in)
}

func (t *Tasks) Update(ctx context.Context, id int64, in domain.TaskInput) Result {
	return t.c.Post(ctx, idPath("/task/update/", id), in)
}

func (t *Tasks) Delete(ctx context.Context, id int64) Result {
	return t.c.Post(ctx, idPath("/task/delete/", id), nil)
}

// SendKeywords hands keywords straight to the crawler. The backend expects a
// bare JSON array.
func (t *Tasks) SendKeywords(ctx context.Context, keywords []string) Result {
	if keywords == nil {
		keywords = []string{}
	}
	return t.c.Post(ctx, "/task/send-data-keyword", keywords)
}

// SendSources hands source URLs straight to the crawler.
func (t *Tasks) SendSources(ctx context.Context, sources []string) Result {
	if sources == nil {
		sources = []string{}
	}
	return t.c.Post(ctx, "/task/send-data-source", sources)
}
