package main

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/akhildatla/reshape/internal/config"
	"github.com/akhildatla/reshape/pkg/loader"
	"github.com/akhildatla/reshape/pkg/render"
	"github.com/akhildatla/reshape/pkg/table"
)

// app carries state shared by subcommands after PersistentPreRunE.
type app struct {
	cfgFile       string
	exampleTables bool
	cfg           *config.Config
	logger        *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{logger: slog.New(slog.DiscardHandler)}

	rootCmd := &cobra.Command{
		Use:   "reshape",
		Short: "reshape - a small language for restructuring tables",
		Long: `reshape runs programs of table restructuring commands (drop, move, copy,
merge, split, rename, fill, transpose, fold, unfold, aggregate, test) against
named tables loaded from CSV, JSON or Parquet files.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "version" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.Load(a.cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
				Level: cfg.SlogLevel(),
			}))
			if cfg.File != "" {
				a.logger.Debug("using config file", "path", cfg.File)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default: ./reshape.yaml)")
	flags.StringP("format", "f", "", "output format (table|csv|markdown|json)")
	flags.String("log-level", "", "log level (debug|info|warn|error)")
	flags.StringArrayP(config.TableFlag, "t", nil, "table to load as name=path (repeatable)")
	flags.BoolVar(&a.exampleTables, "example-tables", false, "load built-in example tables (sales, people)")

	_ = rootCmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		var names []string
		for _, f := range render.Formats() {
			names = append(names, string(f))
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(
		newRunCmd(a),
		newCheckCmd(),
		newReplCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}

// loadStore loads every configured table, then the example tables whose
// names are still free.
func (a *app) loadStore(ctx context.Context) (*table.Store, error) {
	store, err := loader.LoadAll(ctx, a.cfg.Tables)
	if err != nil {
		return nil, err
	}
	if a.exampleTables {
		examples := exampleTables()
		for _, name := range slices.Sorted(maps.Keys(examples)) {
			if !store.Has(name) {
				store.Put(name, examples[name])
			}
		}
	}
	a.logger.Debug("tables loaded", "tables", store.Names())
	return store, nil
}

func (a *app) format() (render.Format, error) {
	f, err := render.ParseFormat(a.cfg.Format)
	if err != nil {
		return "", fmt.Errorf("format: %w", err)
	}
	return f, nil
}

// exampleTables constructs the built-in tables used by the example programs.
func exampleTables() map[string]*table.Table {
	return map[string]*table.Table{
		"sales": table.MustNew(nil,
			table.Column{Name: "region", Values: []any{"north", "south", "east", "west"}},
			table.Column{Name: "q1", Values: []any{10.5, 20.0, 5.0, 30.0}},
			table.Column{Name: "q2", Values: []any{12.0, 18.0, 7.5, 41.0}},
			table.Column{Name: "contact", Values: []any{"ann-lee", "bo-kim", "cy-ng", nil}},
		),
		"people": table.MustNew(nil,
			table.Column{Name: "name", Values: []any{"Johnson", "Anderson", "Lee", "Jackson", "Kim"}},
			table.Column{Name: "age", Values: []any{34, 29, 41, 22, 37}},
			table.Column{Name: "team", Values: []any{"red", "blue", "red", "blue", "red"}},
			table.Column{Name: "shift", Values: []any{"day", "night", "night", "day", "day"}},
		),
	}
}
