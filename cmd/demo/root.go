package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	observer "github.com/kan1-u/event-observer"
	"github.com/kan1-u/event-observer/internal/config"
	"github.com/kan1-u/event-observer/internal/demo"
	"github.com/kan1-u/event-observer/internal/production"
)

type flags struct {
	config   string
	logLevel string
	jsonLogs bool
}

func buildRootCmd() *cobra.Command {
	f := &flags{}
	root := &cobra.Command{
		Use:           "demo",
		Short:         "Drive subjects and shared observers from a scenario file",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&f.config, "config", "", "Scenario file (.yaml, .json or .toml); built-in defaults when empty")
	root.PersistentFlags().StringVar(&f.logLevel, "log-level", "", "Log level: debug|info|warn|error (overrides the scenario)")
	root.PersistentFlags().BoolVar(&f.jsonLogs, "json-logs", false, "Write logs as JSON lines")

	runCmd := &cobra.Command{
		Use:     "run",
		Short:   "Notify every subject and print reaction counts",
		Example: "  demo run --config scenario.yaml",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := f.scenario()
			if err != nil {
				return err
			}
			log, err := demo.NewLogger(cmd.ErrOrStderr(), sc.LogLevel, !f.jsonLogs)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			report, err := demo.Run(ctx, sc, log)
			if err != nil {
				return err
			}
			printReport(cmd.OutOrStdout(), report)
			return nil
		},
	}

	kindsCmd := &cobra.Command{
		Use:   "kinds",
		Short: "List the observer ownership kinds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			for _, k := range observer.AllKinds() {
				fmt.Fprintf(w, "%-16s mutable=%-5t concurrent=%t\n", k, k.Mutable(), k.Concurrent())
			}
			return nil
		},
	}

	var asJSON bool
	dotCmd := &cobra.Command{
		Use:   "dot",
		Short: "Print the scenario's subject/observer graph",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := f.scenario()
			if err != nil {
				return err
			}
			// The graph only needs the registrations.
			sc.Events = 0
			sc.RecordDir = ""
			report, err := demo.Run(context.Background(), sc, zerolog.Nop())
			if err != nil {
				return err
			}
			viz := &production.DefaultVisualizer{}
			if asJSON {
				data, err := viz.ExportJSON(report.Views...)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), viz.ExportDOT(report.Views...))
			return err
		},
	}
	dotCmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of DOT")

	root.AddCommand(runCmd, kindsCmd, dotCmd)
	return root
}

func (f *flags) scenario() (config.Scenario, error) {
	sc := config.Defaults()
	if f.config != "" {
		var err error
		if sc, err = config.Load(f.config); err != nil {
			return sc, err
		}
	}
	if f.logLevel != "" {
		sc.LogLevel = f.logLevel
	}
	return sc, nil
}

func printReport(w io.Writer, r *demo.Report) {
	fmt.Fprintf(w, "scenario %s: %d notifications\n", r.Scenario, r.Notifies)
	for _, k := range r.Kinds() {
		fmt.Fprintf(w, "  %-16s %d\n", k, r.Reactions[k])
	}
	for _, name := range r.Recordings {
		fmt.Fprintf(w, "  recorded %s\n", name)
	}
}
