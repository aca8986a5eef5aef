package api

import (
	"context"

	"github.com/aussiebroadwan/botadmin/internal/console/domain"
)

type Sources struct{ c *Client }

func (s *Sources) List(ctx context.Context, p domain.PageRequest, f domain.SourceFilter) Result {
	return s.c.filter(ctx, "/source/filter", p, f)
}

func (s *Sources) Create(ctx context.Context, in domain.SourceCreate) Result {
	if err := in.Validate(); err != nil {
		return invalid(err)
	}
	if in.SourceType == "" {
		in.SourceType = domain.DefaultSourceType
	}
	return s.c.Post(ctx, "/source/create", in)
}

func (s *Sources) Update(ctx context.Context, id int64, in domain.SourceUpdate) Result {
	return s.c.Post(ctx, idPath("/source/update/", id), in)
}

func (s *Sources) Delete(ctx context.Context, id int64) Result {
	return s.c.Post(ctx, idPath("/source/delete/", id), nil)
}

func (s *Sources) ToggleStatus(ctx context.Context, id int64) Result {
	return s.c.Post(ctx, idPath("/source/toggle-status/", id), nil)
}
