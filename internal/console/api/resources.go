package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/aussiebroadwan/botadmin/internal/console/domain"
)

// Resource clients share the pipeline; they are cheap views over Client.
func (c *Client) Keywords() *Keywords   { return &Keywords{c: c} }
func (c *Client) Sources() *Sources     { return &Sources{c: c} }
func (c *Client) Schedules() *Schedules { return &Schedules{c: c} }
func (c *Client) Tasks() *Tasks         { return &Tasks{c: c} }

func pageQuery(p domain.PageRequest) url.Values {
	size := p.Size
	if size <= 0 {
		size = domain.DefaultPageSize
	}
	page := p.Page
	if page < 0 {
		page = 0
	}

	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	return q
}

// filter posts a filter body with page/size in the query string.
func (c *Client) filter(ctx context.Context, path string, p domain.PageRequest, body any) Result {
	return c.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   path,
		Query:  pageQuery(p),
		Body:   body,
	})
}

func idPath(prefix string, id int64) string {
	return prefix + strconv.FormatInt(id, 10)
}

// invalid reports a request rejected before it reached the network.
func invalid(err error) Result {
	return Result{Error: err.Error()}
}
