package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/akhildatla/reshape/pkg/command"
	"github.com/akhildatla/reshape/pkg/embed"
	"github.com/akhildatla/reshape/pkg/loader"
	"github.com/akhildatla/reshape/pkg/render"
	"github.com/akhildatla/reshape/pkg/repl"
)

func newRunCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <program>",
		Short: "Run a program against the loaded tables",
		Long: `Run parses a program file ("-" reads standard input), applies it to the
loaded tables and prints every resulting table and test statistic.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			prog, err := readProgram(cmd, args[0])
			if err != nil {
				return err
			}
			format, err := a.format()
			if err != nil {
				return err
			}
			store, err := a.loadStore(ctx)
			if err != nil {
				return err
			}

			res, err := embed.Run(ctx, prog, store, embed.WithInPlace(), embed.WithLogger(a.logger))
			if err != nil {
				return err
			}

			if err := render.New(cmd.OutOrStdout(), format).Result(res); err != nil {
				return err
			}
			if a.cfg.OutputDir != "" {
				if err := loader.SaveAll(ctx, a.cfg.OutputDir, res.Store); err != nil {
					return err
				}
				a.logger.Info("tables written", "dir", a.cfg.OutputDir, "tables", res.Store.Len())
			}
			return nil
		},
	}
	cmd.Flags().StringP("output-dir", "o", "", "write every resulting table to <dir>/<name>.csv")
	return cmd
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <program>",
		Short: "Parse a program and print its commands",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prog, err := readProgram(cmd, args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), prog.String())
			return err
		},
	}
}

func newReplCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := a.format()
			if err != nil {
				return err
			}
			store, err := a.loadStore(cmd.Context())
			if err != nil {
				return err
			}

			r := repl.New(store,
				repl.WithFormat(format),
				repl.WithHistoryFile(a.cfg.HistoryFile),
				repl.WithLogger(a.logger),
			)
			in, ok := cmd.InOrStdin().(io.ReadCloser)
			if !ok {
				in = io.NopCloser(cmd.InOrStdin())
			}
			return r.Start(cmd.Context(), in, cmd.OutOrStdout())
		},
	}
	cmd.Flags().String("history-file", "", "file for line history")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "reshape version %s\n", version)
			if commit != "none" {
				fmt.Fprintf(out, "  commit: %s\n", commit)
			}
			if date != "unknown" {
				fmt.Fprintf(out, "  built:  %s\n", date)
			}
		},
	}
}

// readProgram reads and parses a program file; "-" reads standard input.
func readProgram(cmd *cobra.Command, path string) (*command.Program, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading program: %w", err)
	}

	prog, err := embed.Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return prog, nil
}
