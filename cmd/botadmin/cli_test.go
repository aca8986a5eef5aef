package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/aussiebroadwan/botadmin/internal/console/api"
	"github.com/aussiebroadwan/botadmin/internal/console/domain"
	"github.com/stretchr/testify/require"
)

func TestParseID(t *testing.T) {
	t.Parallel()

	id, err := parseID("42")
	require.NoError(t, err)
	require.EqualValues(t, 42, id)

	for _, in := range []string{"", "abc", "0", "-3"} {
		_, err := parseID(in)
		require.Error(t, err, in)
	}
}

func TestDecodeData(t *testing.T) {
	t.Parallel()

	var in domain.ScheduleInput
	require.NoError(t, decodeData(`{"scheduleName":"nightly","startTime":"2024-01-02"}`, &in))
	require.Equal(t, "nightly", in.ScheduleName)

	require.ErrorContains(t, decodeData("  ", &in), "--data is required")
	require.ErrorContains(t, decodeData("{", &in), "invalid --data")
}

func TestPrintResult(t *testing.T) {
	t.Parallel()

	t.Run("success with data", func(t *testing.T) {
		var out bytes.Buffer
		c := &cli{out: &out}
		require.NoError(t, c.print(api.Result{Success: true, Data: json.RawMessage(`{"id":1}`)}))
		require.JSONEq(t, `{"id":1}`, out.String())
	})

	t.Run("success without data", func(t *testing.T) {
		var out bytes.Buffer
		c := &cli{out: &out}
		require.NoError(t, c.print(api.Result{Success: true}))
		require.Equal(t, "OK\n", out.String())
	})

	t.Run("failure carries status", func(t *testing.T) {
		c := &cli{out: &bytes.Buffer{}}
		err := c.print(api.Result{Error: "Keyword not found", Status: 404})
		require.EqualError(t, err, "Keyword not found (HTTP 404)")
	})

	t.Run("ended session", func(t *testing.T) {
		c := &cli{out: &bytes.Buffer{}}
		err := c.print(api.Result{Error: "unauthorized", Status: 401, SessionEnded: true})
		require.EqualError(t, err, "session ended: unauthorized")
	})
}

func TestPrompt(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	c := &cli{out: &out, in: strings.NewReader("secret123\n")}

	v, err := c.prompt("Password")
	require.NoError(t, err)
	require.Equal(t, "secret123", v)
	require.Equal(t, "Password: ", out.String())
}
