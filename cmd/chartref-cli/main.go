// chartref-cli resolves charts, SOPs and approach connections from the
// command line.
//
// Usage:
//
//	chartref-cli [global flags] <command> [flags] <args>
//
// Commands:
//
//	chart <airport> <name>        resolve and assemble an airport chart
//	sop <query>                   resolve a procedure document
//	connections <airport>         approaches connecting to a STAR or transition
//	fix <airport> <fix>           approaches reachable from a fix
//	star <airport> <name>         waypoints and approach connections of a STAR
//	cache list | clear [airport]  inspect or drop cached catalog listings
//
// Configuration is read the same way the server reads it (ENV selects
// config/<env>.yaml).
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/chartref"
	"github.com/kailas-cloud/chartref/internal/config"
	logpkg "github.com/kailas-cloud/chartref/internal/logger"
	"github.com/kailas-cloud/chartref/internal/render"
	"github.com/kailas-cloud/chartref/internal/version"
)

var errUsage = errors.New("usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, os.Args[1:], os.Stdout)
	stop()

	switch {
	case err == nil:
	case errors.Is(err, errUsage):
		os.Exit(2)
	default:
		fmt.Fprintln(os.Stderr, "chartref:", err)
		os.Exit(1)
	}
}

type globals struct {
	env      string
	logLevel string
	json     bool
}

func run(ctx context.Context, args []string, out io.Writer) error {
	root := newRootCmd(out)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func newRootCmd(out io.Writer) *cobra.Command {
	g := &globals{}
	root := &cobra.Command{
		Use:           "chartref-cli",
		Short:         "Resolve aviation charts, SOPs and approach connections",
		Version:       version.String(),
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return usageError(cmd, errors.New("missing command"))
			}
			return usageError(cmd, fmt.Errorf("unknown command %q", args[0]))
		},
	}
	root.SetOut(out)
	root.SetVersionTemplate("{{.Version}}\n")
	root.SetFlagErrorFunc(usageError)

	pf := root.PersistentFlags()
	pf.StringVar(&g.env, "env", config.GetEnv(), "configuration environment (config/<env>.yaml)")
	pf.StringVar(&g.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	pf.BoolVar(&g.json, "json", false, "print results as JSON")

	root.AddCommand(
		newChartCmd(g),
		newSOPCmd(g),
		newConnectionsCmd(g),
		newFixCmd(g),
		newStarCmd(g),
		newCacheCmd(g),
	)
	return root
}

// usageError reports err with the command usage and marks it as a usage error.
func usageError(cmd *cobra.Command, err error) error {
	cmd.PrintErrln("Error:", err)
	cmd.PrintErr(cmd.UsageString())
	return fmt.Errorf("%w: %w", errUsage, err)
}

func checkArgs(v cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := v(cmd, args); err != nil {
			return usageError(cmd, err)
		}
		return nil
	}
}

type engineFunc func(ctx context.Context, e *chartref.Engine, cmd *cobra.Command, args []string) error

// withEngine builds the engine from configuration for the duration of fn.
func withEngine(g *globals, fn engineFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, err := config.Load(g.env)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		logger, err := logpkg.NewCLILogger(g.logLevel)
		if err != nil {
			return fmt.Errorf("create logger: %w", err)
		}
		defer func() { _ = logger.Sync() }()

		engine, err := chartref.New(ctx, cfg.EngineOptions(logger)...)
		if err != nil {
			return fmt.Errorf("create engine: %w", err)
		}
		defer engine.Close()

		logger.Debug("running command", zap.String("command", cmd.CommandPath()), zap.Strings("args", args))
		return fn(ctx, engine, cmd, args)
	}
}

func newChartCmd(g *globals) *cobra.Command {
	q := chartref.ChartQuery{}
	cmd := &cobra.Command{
		Use:   "chart <airport> <name>",
		Short: "Resolve and assemble an airport chart",
		Args:  checkArgs(cobra.MinimumNArgs(2)),
	}
	cmd.RunE = withEngine(g, func(ctx context.Context, e *chartref.Engine, cmd *cobra.Command, args []string) error {
		q.Airport = args[0]
		q.Name = strings.Join(args[1:], " ")
		res, err := e.ResolveChart(ctx, q)
		return printResolution(cmd.OutOrStdout(), g, res, err)
	})
	f := cmd.Flags()
	f.StringVar(&q.Type, "type", "", "restrict to a chart category (IAP, DP, STAR, APD)")
	f.StringVar(&q.Section, "section", "", "locate a numbered section")
	f.StringVar(&q.Search, "search", "", "locate a search term")
	f.StringVar(&q.Rotation, "rotation", "", "rotation policy: auto, disabled, 0, 90, 180, 270")
	f.BoolVar(&q.Bypass, "no-cache", false, "bypass the catalog cache")
	return cmd
}

func newSOPCmd(g *globals) *cobra.Command {
	q := chartref.ProcedureQuery{}
	cmd := &cobra.Command{
		Use:   "sop <query>",
		Short: "Resolve a procedure document",
		Args: checkArgs(func(_ *cobra.Command, args []string) error {
			if len(args) == 0 && q.Term == "" {
				return errors.New("requires a query or --term")
			}
			return nil
		}),
	}
	cmd.RunE = withEngine(g, func(ctx context.Context, e *chartref.Engine, cmd *cobra.Command, args []string) error {
		q.Query = strings.Join(args, " ")
		res, err := e.ResolveProcedure(ctx, q)
		return printResolution(cmd.OutOrStdout(), g, res, err)
	})
	f := cmd.Flags()
	f.StringVar(&q.Term, "term", "", "procedure name or facility")
	f.StringVar(&q.Section, "section", "", "locate a numbered section")
	f.StringVar(&q.Search, "search", "", "locate a search term")
	f.StringVar(&q.Rotation, "rotation", "", "rotation policy: auto, disabled, 0, 90, 180, 270")
	f.BoolVar(&q.Bypass, "no-cache", false, "bypass the catalog cache")
	return cmd
}

func newConnectionsCmd(g *globals) *cobra.Command {
	q := chartref.ConnectionQuery{}
	cmd := &cobra.Command{
		Use:   "connections --source <id> <airport>",
		Short: "List approaches connecting to a STAR or transition",
		Args: checkArgs(func(cmd *cobra.Command, args []string) error {
			if q.Source == "" {
				return errors.New("requires --source")
			}
			return cobra.ExactArgs(1)(cmd, args)
		}),
	}
	cmd.RunE = withEngine(g, func(ctx context.Context, e *chartref.Engine, cmd *cobra.Command, args []string) error {
		q.Airport = args[0]
		report, err := e.FindApproachConnections(ctx, q)
		if err != nil {
			return err
		}
		if g.json {
			return writeJSON(cmd.OutOrStdout(), report)
		}
		return render.Connections(cmd.OutOrStdout(), report)
	})
	f := cmd.Flags()
	f.StringVar(&q.Source, "source", "", "STAR or transition identifier")
	f.BoolVar(&q.Bypass, "no-cache", false, "bypass the catalog cache")
	return cmd
}

func newFixCmd(g *globals) *cobra.Command {
	var bypass bool
	cmd := &cobra.Command{
		Use:   "fix <airport> <fix>",
		Short: "List approaches reachable from a fix",
		Args:  checkArgs(cobra.ExactArgs(2)),
	}
	cmd.RunE = withEngine(g, func(ctx context.Context, e *chartref.Engine, cmd *cobra.Command, args []string) error {
		approaches, err := e.FindApproachesByFix(ctx, args[0], args[1], bypass)
		if err != nil {
			return err
		}
		if g.json {
			return writeJSON(cmd.OutOrStdout(), approaches)
		}
		return render.FixApproaches(cmd.OutOrStdout(), strings.ToUpper(args[1]), approaches)
	})
	cmd.Flags().BoolVar(&bypass, "no-cache", false, "bypass the catalog cache")
	return cmd
}

func newStarCmd(g *globals) *cobra.Command {
	var bypass bool
	cmd := &cobra.Command{
		Use:   "star <airport> <name>",
		Short: "Show waypoints and approach connections of a STAR",
		Args:  checkArgs(cobra.MinimumNArgs(2)),
	}
	cmd.RunE = withEngine(g, func(ctx context.Context, e *chartref.Engine, cmd *cobra.Command, args []string) error {
		report, err := e.AnalyzeStar(ctx, args[0], strings.Join(args[1:], " "), bypass)
		if err != nil {
			return err
		}
		if g.json {
			return writeJSON(cmd.OutOrStdout(), report)
		}
		return render.Star(cmd.OutOrStdout(), report)
	})
	cmd.Flags().BoolVar(&bypass, "no-cache", false, "bypass the catalog cache")
	return cmd
}

func newCacheCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache list | clear [airport]",
		Short: "Inspect or drop cached catalog listings",
		Args:  checkArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return usageError(cmd, errors.New("missing cache command"))
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List cached catalog listings",
		Args:  checkArgs(cobra.NoArgs),
	}
	listCmd.RunE = withEngine(g, func(ctx context.Context, e *chartref.Engine, cmd *cobra.Command, _ []string) error {
		listings, err := e.CachedListings(ctx)
		if err != nil {
			return err
		}
		if g.json {
			return writeJSON(cmd.OutOrStdout(), listings)
		}
		t := render.NewTable("CYCLE", "LISTING", "FETCHED")
		for _, l := range listings {
			t.Row(l.Cycle, l.Name, l.FetchedAt.Format("2006-01-02 15:04Z07:00"))
		}
		_, err = t.WriteTo(cmd.OutOrStdout())
		return err
	})

	clearCmd := &cobra.Command{
		Use:   "clear [airport]",
		Short: "Drop cached listings for one airport or all of them",
		Args:  checkArgs(cobra.MaximumNArgs(1)),
	}
	clearCmd.RunE = withEngine(g, func(ctx context.Context, e *chartref.Engine, cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			return e.InvalidateCatalog(ctx, args[0])
		}
		n, err := e.PurgeCatalog(ctx)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "removed %d cached listings\n", n)
		return err
	})

	cmd.AddCommand(listCmd, clearCmd)
	return cmd
}

// printResolution renders res unless resolving failed outright. An
// unambiguous result is still shown when locating a section or term failed.
func printResolution(out io.Writer, g *globals, res *chartref.Resolution, err error) error {
	if err != nil && (res == nil || res.Status != chartref.StatusUnambiguous) {
		return err
	}
	var perr error
	if g.json {
		perr = writeJSON(out, res)
	} else {
		perr = render.Resolution(out, res)
	}
	if perr != nil {
		return perr
	}
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
