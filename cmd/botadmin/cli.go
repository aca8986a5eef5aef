package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aussiebroadwan/botadmin/internal/console/api"
	"github.com/aussiebroadwan/botadmin/internal/console/app"
	"github.com/spf13/cobra"
)

// cli carries configuration between cobra hooks and commands.
type cli struct {
	out io.Writer
	in  io.Reader

	cfg app.Config
	app *app.Application

	baseURL   string
	storeKind string
	storePath string
	logLevel  string
	asJSON    bool
}

func (c *cli) bindFlags(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.StringVar(&c.baseURL, "api-url", "", "Backend base URL (env BOT_API_BASE_URL)")
	f.StringVar(&c.storeKind, "store", "", "Credential store: sqlite, redis or memory (env BOT_STORE)")
	f.StringVar(&c.storePath, "store-path", "", "sqlite credential store path (env BOT_STORE_PATH)")
	f.StringVar(&c.logLevel, "log-level", "", "Log level (env LOG_LEVEL)")
	f.BoolVar(&c.asJSON, "json", false, "Print raw JSON responses")
}

// loadConfig reads the environment, then applies flags that were set.
func (c *cli) loadConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := app.LoadConfig()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("api-url") {
		cfg.BaseURL = c.baseURL
	}
	if flags.Changed("store") {
		cfg.Store = c.storeKind
	}
	if flags.Changed("store-path") {
		cfg.StorePath = c.storePath
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = c.logLevel
	}
	cfg.Sanitize()

	c.cfg = cfg
	return nil
}

// open builds the application once per invocation. location is the
// resource the command works on, used as the redirect target when the
// session ends mid-command.
func (c *cli) open(ctx context.Context, location string) (*app.Application, error) {
	if c.app == nil {
		a, err := app.New(ctx, c.cfg, c.out)
		if err != nil {
			return nil, err
		}
		c.app = a
	}
	c.app.SetLocation(location)
	return c.app, nil
}

func (c *cli) close() {
	if c.app == nil {
		return
	}
	_ = c.app.Close()
	c.app = nil
}

// print writes a successful result, or turns a failed one into an error.
func (c *cli) print(res api.Result) error {
	if !res.Success {
		if res.SessionEnded {
			return errors.New("session ended: " + res.Error)
		}
		if res.Status != 0 {
			return fmt.Errorf("%s (HTTP %d)", res.Error, res.Status)
		}
		return errors.New(res.Error)
	}
	if len(res.Data) == 0 {
		fmt.Fprintln(c.out, "OK")
		return nil
	}
	return c.printValue(res.Data)
}

func (c *cli) printValue(v any) error {
	enc := json.NewEncoder(c.out)
	if !c.asJSON {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

// prompt reads one line from stdin when a value was not given as a flag.
func (c *cli) prompt(label string) (string, error) {
	in := c.in
	if in == nil {
		in = os.Stdin
	}
	fmt.Fprintf(c.out, "%s: ", label)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// decodeData parses a --data flag into dst.
func decodeData(raw string, dst any) error {
	if strings.TrimSpace(raw) == "" {
		return errors.New("--data is required")
	}
	if raw == "-" {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return err
		}
		raw = string(b)
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return fmt.Errorf("invalid --data: %w", err)
	}
	return nil
}
