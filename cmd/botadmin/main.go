package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aussiebroadwan/botadmin/internal/console/app"
	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	commit = "none"
	date   = "unknown"
)

func main() {
	c := &cli{out: os.Stdout}

	rootCmd := &cobra.Command{
		Use:   "botadmin",
		Short: "Admin console for the BOT crawling backend",
		Long: `botadmin manages a session with the BOT backend and the resources it
crawls: keywords, sources, schedules and tasks.

The session is stored locally (sqlite by default) and refreshed
automatically when the backend rejects an expired access token.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.loadConfig,
		PersistentPostRun: func(*cobra.Command, []string) { c.close() },
	}

	c.bindFlags(rootCmd)

	rootCmd.AddCommand(
		loginCmd(c),
		registerCmd(c),
		logoutCmd(c),
		statusCmd(c),
		refreshCmd(c),
		profileCmd(c),
		watchCmd(c),
		keywordsCmd(c),
		sourcesCmd(c),
		schedulesCmd(c),
		tasksCmd(c),
		versionCmd(),
	)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		c.close()
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		// Skip config loading for version.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			if short {
				fmt.Fprintln(cmd.OutOrStdout(), app.BuildVersion)
				return
			}
			fmt.Fprintf(cmd.OutOrStdout(), "botadmin %s (commit %s, built %s)\n", app.BuildVersion, commit, date)
		},
	}

	cmd.Flags().BoolVar(&short, "short", false, "Print only the version number")
	return cmd
}
