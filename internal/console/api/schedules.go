package api

import (
	"context"

	"github.com/aussiebroadwan/botadmin/internal/console/domain"
)

type Schedules struct{ c *Client }

func (s *Schedules) List(ctx context.Context, p domain.PageRequest, f domain.ScheduleFilter) Result {
	return s.c.filter(ctx, "/schedule/filter", p, f)
}

func (s *Schedules) Create(ctx context.Context, in domain.ScheduleInput) Result {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return invalid(err)
	}
	return s.c.Post(ctx, "/schedule/create", in)
}

func (s *Schedules) Update(ctx context.Context, id int64, in domain.ScheduleInput) Result {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return invalid(err)
	}
	return s.c.Post(ctx, idPath("/schedule/update/", id), in)
}

func (s *Schedules) Delete(ctx context.Context, id int64) Result {
	return s.c.Post(ctx, idPath("/schedule/delete/", id), nil)
}
