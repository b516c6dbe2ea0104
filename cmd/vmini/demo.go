package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vmini/internal/config"
	"github.com/vango-dev/vmini/internal/demo"
	"github.com/vango-dev/vmini/pkg/app"
	"github.com/vango-dev/vmini/pkg/host"
)

func demoCmd(opts *globalOptions) *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Play a scripted todo session",
		Long: `Mount the todo list into an in-memory host, apply a scripted
series of reactive writes and print the host operations each one caused.

Writes made in the same step are batched into one render.

Examples:
  vmini demo
  vmini demo --quiet`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			return runDemo(cmd.OutOrStdout(), cfg, !quiet)
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Print only the op counts, not each op")

	return cmd
}

func runDemo(out io.Writer, cfg *config.Config, showOps bool) error {
	mem := host.NewMemHost()
	rec := host.NewRecorder(mem)
	a := app.CreateApp(demo.TodoApp,
		app.WithConfig(cfg),
		app.WithHost(rec),
		app.WithLogger(app.NewLogger(os.Stderr, cfg.Log)),
	)
	store := demo.NewStore(a.Runtime(), "bread")
	a.Provide(demo.StoreKey, store)

	root := mem.NewRoot()
	if err := a.Mount(root); err != nil {
		return err
	}
	printStep(out, "mount", rec, root, showOps)

	for _, step := range demo.Script(store) {
		rec.Reset()
		a.Loop().Do(step.Run)
		printStep(out, step.Name, rec, root, showOps)
	}

	rec.Reset()
	if err := a.Unmount(); err != nil {
		return err
	}
	printStep(out, "unmount", rec, root, showOps)
	return nil
}

func printStep(out io.Writer, name string, rec *host.Recorder, root *host.Node, showOps bool) {
	fmt.Fprintf(out, "\033[1m%s\033[0m  %d ops (%d mounts, %d moves, %d removes)\n",
		name, rec.Len(), rec.Mounts(), rec.Moves(), rec.Count(host.OpRemove))
	if showOps {
		for _, op := range rec.Ops() {
			fmt.Fprintf(out, "    %s\n", op)
		}
	}
	fmt.Fprintf(out, "  %s\n\n", host.InnerHTML(root))
}
