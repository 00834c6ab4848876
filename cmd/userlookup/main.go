/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package main provides the userlookup command line tool.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/suparena/userlookup"
	"github.com/suparena/userlookup/config"
	"github.com/suparena/userlookup/logger"
	"github.com/suparena/userlookup/storagemodels"
)

// Exit codes
const (
	exitOK       = 0
	exitNotFound = 1
	exitError    = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	code := exitError
	root := newRootCmd(stdout, stderr, &code)
	root.SetArgs(args)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitError
	}
	return code
}

func newRootCmd(stdout, stderr io.Writer, code *int) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "userlookup",
		Short: "Look up a user record by username",
		Long: `userlookup reads a single user record from a persistent store.

Stores are addressed by locator: a SQLite file path, a postgres:// URL
or a dynamodb://<table> URL. Settings can also come from a YAML file,
a .env file and USERLOOKUP_ environment variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	rootCmd.AddCommand(newGetCmd(code), newVersionCmd(code))
	return rootCmd
}

func newGetCmd(code *int) *cobra.Command {
	var (
		configPath string
		store      string
		timeout    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "get <username>",
		Short: "Look up one user",
		Long: `Looks up the user whose username equals <username> exactly.

Exit status is 0 when the user is found, 1 when it is not and 2 when
the lookup failed.

Example:
  userlookup get alice --store /var/lib/app/users.db`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if store != "" {
				cfg.Store.Locator = store
			}
			if timeout > 0 {
				cfg.Store.Timeout = timeout
			}
			if cfg.Store.Locator == "" {
				return fmt.Errorf("no store given: use --store or set USERLOOKUP_STORE__LOCATOR")
			}

			log := logger.NewWithWriter(cfg.Logging, cmd.ErrOrStderr())
			svc, err := userlookup.NewServiceFromConfig(cfg, log)
			if err != nil {
				return err
			}

			out := svc.Lookup(cmd.Context(), cfg.Store.Locator, args[0])
			*code = render(cmd.OutOrStdout(), svc.Schema(), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	cmd.Flags().StringVarP(&store, "store", "s", "", "store locator (overrides config)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "lookup timeout (overrides config)")
	return cmd
}

// render prints an outcome and returns its exit code. A found record is
// printed as its schema columns, key first.
func render(w io.Writer, schema storagemodels.Schema, out userlookup.Outcome) int {
	switch out.Status {
	case userlookup.StatusFound:
		values := make([]string, 0, len(schema.Fields)+1)
		for _, f := range schema.Columns() {
			values = append(values, out.Record.String(f))
		}
		fmt.Fprintf(w, "user found: %s\n", strings.Join(values, " "))
		return exitOK
	case userlookup.StatusNotFound:
		fmt.Fprintln(w, "user not found")
		return exitNotFound
	default:
		fmt.Fprintf(w, "lookup failed (%s): %s\n", out.Kind(), out.Reason())
		return exitError
	}
}

func newVersionCmd(code *int) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			info := userlookup.GetVersionInfo()
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "userlookup version %s\n", info.Version)
			fmt.Fprintf(w, "Git commit: %s\n", info.GitCommit)
			fmt.Fprintf(w, "Build date: %s\n", info.BuildDate)
			fmt.Fprintf(w, "Go version: %s\n", info.GoVersion)
			*code = exitOK
		},
	}
}
