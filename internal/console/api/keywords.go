package api

import (
	"context"

	"github.com/aussiebroadwan/botadmin/internal/console/domain"
)

type Keywords struct{ c *Client }

// List returns a page of keywords; decode with Decode[domain.Page[domain.Keyword]].
func (k *Keywords) List(ctx context.Context, p domain.PageRequest, f domain.KeywordFilter) Result {
	return k.c.filter(ctx, "/keyword/filter", p, f)
}

func (k *Keywords) Create(ctx context.Context, in domain.KeywordCreate) Result {
	if err := in.Validate(); err != nil {
		return invalid(err)
	}
	if in.Server == nil {
		in.Server = []string{}
	}
	return k.c.Post(ctx, "/keyword/create", in)
}

func (k *Keywords) Update(ctx context.Context, id int64, in domain.KeywordUpdate) Result {
	if in.Server == nil {
		in.Server = []string{}
	}
	return k.c.Post(ctx, idPath("/keyword/update/", id), in)
}

func (k *Keywords) Delete(ctx context.Context, id int64) Result {
	return k.c.Post(ctx, idPath("/keyword/delete/", id), nil)
}

func (k *Keywords) ToggleStatus(ctx context.Context, id int64) Result {
	return k.c.Post(ctx, idPath("/keyword/toggle-status/", id), nil)
}
