package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/aussiebroadwan/botadmin/internal/console/api"
	"github.com/aussiebroadwan/botadmin/internal/console/domain"
	"github.com/spf13/cobra"
)

// resource describes one backend collection for the generic subcommands.
type resource[F, C, U any] struct {
	name   string
	path   string
	list   func(*api.Client, context.Context, domain.PageRequest, F) api.Result
	create func(*api.Client, context.Context, C) api.Result
	update func(*api.Client, context.Context, int64, U) api.Result
	delete func(*api.Client, context.Context, int64) api.Result
	toggle func(*api.Client, context.Context, int64) api.Result
}

func (r resource[F, C, U]) command(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   r.name,
		Short: fmt.Sprintf("Manage %s", r.name),
	}

	cmd.AddCommand(r.listCmd(c), r.createCmd(c), r.updateCmd(c), r.deleteCmd(c))
	if r.toggle != nil {
		cmd.AddCommand(r.idCmd(c, "toggle", "Flip the active status of", r.toggle))
	}
	return cmd
}

func (r resource[F, C, U]) listCmd(c *cli) *cobra.Command {
	var (
		page   domain.PageRequest
		filter string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: fmt.Sprintf("List %s", r.name),
		RunE: func(cmd *cobra.Command, args []string) error {
			var f F
			if filter != "" {
				if err := json.Unmarshal([]byte(filter), &f); err != nil {
					return fmt.Errorf("invalid --filter: %w", err)
				}
			}
			a, err := c.open(cmd.Context(), r.path)
			if err != nil {
				return err
			}
			return c.print(r.list(a.Client(), cmd.Context(), page, f))
		},
	}

	cmd.Flags().IntVar(&page.Page, "page", 0, "Zero-based page number")
	cmd.Flags().IntVar(&page.Size, "size", domain.DefaultPageSize, "Page size")
	cmd.Flags().StringVar(&filter, "filter", "", "Filter as JSON")
	return cmd
}

func (r resource[F, C, U]) createCmd(c *cli) *cobra.Command {
	var data string

	cmd := &cobra.Command{
		Use:   "create",
		Short: fmt.Sprintf("Create %s", r.name),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in C
			if err := decodeData(data, &in); err != nil {
				return err
			}
			a, err := c.open(cmd.Context(), r.path)
			if err != nil {
				return err
			}
			return c.print(r.create(a.Client(), cmd.Context(), in))
		},
	}

	cmd.Flags().StringVar(&data, "data", "", "Request body as JSON, or - for stdin")
	return cmd
}

func (r resource[F, C, U]) updateCmd(c *cli) *cobra.Command {
	var data string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: fmt.Sprintf("Update one of the %s", r.name),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var in U
			if err := decodeData(data, &in); err != nil {
				return err
			}
			a, err := c.open(cmd.Context(), r.path)
			if err != nil {
				return err
			}
			return c.print(r.update(a.Client(), cmd.Context(), id, in))
		},
	}

	cmd.Flags().StringVar(&data, "data", "", "Request body as JSON, or - for stdin")
	return cmd
}

func (r resource[F, C, U]) deleteCmd(c *cli) *cobra.Command {
	return r.idCmd(c, "delete", "Delete one of", r.delete)
}

func (r resource[F, C, U]) idCmd(c *cli, use, short string, fn func(*api.Client, context.Context, int64) api.Result) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: fmt.Sprintf("%s the %s", short, r.name),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := c.open(cmd.Context(), r.path)
			if err != nil {
				return err
			}
			return c.print(fn(a.Client(), cmd.Context(), id))
		},
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func keywordsCmd(c *cli) *cobra.Command {
	return resource[domain.KeywordFilter, domain.KeywordCreate, domain.KeywordUpdate]{
		name: "keywords",
		path: "/keywords",
		list: func(cl *api.Client, ctx context.Context, p domain.PageRequest, f domain.KeywordFilter) api.Result {
			return cl.Keywords().List(ctx, p, f)
		},
		create: func(cl *api.Client, ctx context.Context, in domain.KeywordCreate) api.Result {
			return cl.Keywords().Create(ctx, in)
		},
		update: func(cl *api.Client, ctx context.Context, id int64, in domain.KeywordUpdate) api.Result {
			return cl.Keywords().Update(ctx, id, in)
		},
		delete: func(cl *api.Client, ctx context.Context, id int64) api.Result {
			return cl.Keywords().Delete(ctx, id)
		},
		toggle: func(cl *api.Client, ctx context.Context, id int64) api.Result {
			return cl.Keywords().ToggleStatus(ctx, id)
		},
	}.command(c)
}

func sourcesCmd(c *cli) *cobra.Command {
	return resource[domain.SourceFilter, domain.SourceCreate, domain.SourceUpdate]{
		name: "sources",
		path: "/sources",
		list: func(cl *api.Client, ctx context.Context, p domain.PageRequest, f domain.SourceFilter) api.Result {
			return cl.Sources().List(ctx, p, f)
		},
		create: func(cl *api.Client, ctx context.Context, in domain.SourceCreate) api.Result {
			return cl.Sources().Create(ctx, in)
		},
		update: func(cl *api.Client, ctx context.Context, id int64, in domain.SourceUpdate) api.Result {
			return cl.Sources().Update(ctx, id, in)
		},
		delete: func(cl *api.Client, ctx context.Context, id int64) api.Result {
			return cl.Sources().Delete(ctx, id)
		},
		toggle: func(cl *api.Client, ctx context.Context, id int64) api.Result {
			return cl.Sources().ToggleStatus(ctx, id)
		},
	}.command(c)
}

func schedulesCmd(c *cli) *cobra.Command {
	return resource[domain.ScheduleFilter, domain.ScheduleInput, domain.ScheduleInput]{
		name: "schedules",
		path: "/schedules",
		list: func(cl *api.Client, ctx context.Context, p domain.PageRequest, f domain.ScheduleFilter) api.Result {
			return cl.Schedules().List(ctx, p, f)
		},
		create: func(cl *api.Client, ctx context.Context, in domain.ScheduleInput) api.Result {
			return cl.Schedules().Create(ctx, in)
		},
		update: func(cl *api.Client, ctx context.Context, id int64, in domain.ScheduleInput) api.Result {
			return cl.Schedules().Update(ctx, id, in)
		},
		delete: func(cl *api.Client, ctx context.Context, id int64) api.Result {
			return cl.Schedules().Delete(ctx, id)
		},
	}.command(c)
}

func tasksCmd(c *cli) *cobra.Command {
	cmd := resource[domain.TaskFilter, domain.TaskInput, domain.TaskInput]{
		name: "tasks",
		path: "/tasks",
		list: func(cl *api.Client, ctx context.Context, p domain.PageRequest, f domain.TaskFilter) api.Result {
			return cl.Tasks().List(ctx, p, f)
		},
		create: func(cl *api.Client, ctx context.Context, in domain.TaskInput) api.Result {
			return cl.Tasks().Create(ctx, in)
		},
		update: func(cl *api.Client, ctx context.Context, id int64, in domain.TaskInput) api.Result {
			return cl.Tasks().Update(ctx, id, in)
		},
		delete: func(cl *api.Client, ctx context.Context, id int64) api.Result {
			return cl.Tasks().Delete(ctx, id)
		},
	}.command(c)

	cmd.AddCommand(
		sendCmd(c, "send-keywords", "Dispatch keywords to the crawler", func(cl *api.Client, ctx context.Context, v []string) api.Result {
			return cl.Tasks().SendKeywords(ctx, v)
		}),
		sendCmd(c, "send-sources", "Dispatch sources to the crawler", func(cl *api.Client, ctx context.Context, v []string) api.Result {
			return cl.Tasks().SendSources(ctx, v)
		}),
	)
	return cmd
}

func sendCmd(c *cli, use, short string, fn func(*api.Client, context.Context, []string) api.Result) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <value>...",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.open(cmd.Context(), "/tasks")
			if err != nil {
				return err
			}
			return c.print(fn(a.Client(), cmd.Context(), args))
		},
	}
}
