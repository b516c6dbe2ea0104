package main

import (
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vmini/internal/config"
	"github.com/vango-dev/vmini/internal/errors"
	"github.com/vango-dev/vmini/pkg/app"
	"github.com/vango-dev/vmini/pkg/host"
	"github.com/vango-dev/vmini/pkg/renderer"
	"github.com/vango-dev/vmini/pkg/vdom"
)

func benchCmd(opts *globalOptions) *cobra.Command {
	var (
		size       int
		iterations int
		seed       int64
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Compare keyed diffing with positional patching",
		Long: `Patch a list through a series of random edits (moves, removals and
insertions) twice: once with keyed children and once without keys, and
report the host operations each strategy needed.

Examples:
  vmini bench
  vmini bench --size=1000 --iterations=200 --seed=42`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("size") {
				cfg.Bench.Size = size
			}
			if cmd.Flags().Changed("iterations") {
				cfg.Bench.Iterations = iterations
			}
			if cmd.Flags().Changed("seed") {
				cfg.Bench.Seed = seed
			}
			if cfg.Bench.Size <= 0 || cfg.Bench.Iterations <= 0 {
				return errors.New("E401").WithDetail("--size and --iterations must be positive")
			}
			return runBench(cmd.OutOrStdout(), cfg)
		},
	}

	cmd.Flags().IntVarP(&size, "size", "n", 0, "Children per list (default from config)")
	cmd.Flags().IntVarP(&iterations, "iterations", "i", 0, "Number of random edits (default from config)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Random seed (default from config)")

	return cmd
}

// opCounts totals the host work of one strategy.
type opCounts struct {
	Ops     int
	Creates int
	Moves   int
	Removes int
	Props   int
	Texts   int
	Elapsed time.Duration
}

func (c *opCounts) add(rec *host.Recorder, d time.Duration) {
	c.Ops += rec.Len()
	c.Creates += rec.Count(host.OpCreateElement)
	c.Moves += rec.Moves()
	c.Removes += rec.Count(host.OpRemove)
	c.Props += rec.Count(host.OpPatchProp)
	c.Texts += rec.Count(host.OpSetElementText) + rec.Count(host.OpSetText)
	c.Elapsed += d
}

// listTarget renders lists into its own container.
type listTarget struct {
	keyed bool
	r     *renderer.Renderer
	rec   *host.Recorder
	root  *host.Node
}

func newListTarget(cfg *config.Config, keyed bool) *listTarget {
	mem := host.NewMemHost()
	rec := host.NewRecorder(mem)
	r := renderer.New(rec,
		renderer.WithLogger(app.NewLogger(nil, cfg.Log)),
		renderer.WithWarnMissingKeys(false),
	)
	return &listTarget{keyed: keyed, r: r, rec: rec, root: mem.NewRoot()}
}

func (t *listTarget) render(keys []int) (time.Duration, error) {
	list := vdom.Ul(vdom.Range(keys, func(k int, _ int) *vdom.VNode {
		label := strconv.Itoa(k)
		if t.keyed {
			return vdom.Li(vdom.Key(k), vdom.Data("id", label), label)
		}
		return vdom.Li(vdom.Data("id", label), label)
	}))
	t.rec.Reset()
	start := time.Now()
	err := t.r.Render(list, t.root)
	return time.Since(start), err
}

func runBench(out io.Writer, cfg *config.Config) error {
	rng := rand.New(rand.NewSource(cfg.Bench.Seed))
	keyed := newListTarget(cfg, true)
	positional := newListTarget(cfg, false)

	keys := make([]int, cfg.Bench.Size)
	for i := range keys {
		keys[i] = i
	}
	next := len(keys)

	for _, t := range []*listTarget{keyed, positional} {
		if _, err := t.render(keys); err != nil {
			return err
		}
	}

	var kc, pc opCounts
	for i := 0; i < cfg.Bench.Iterations; i++ {
		keys, next = edit(rng, keys, next)

		d, err := keyed.render(keys)
		if err != nil {
			return err
		}
		kc.add(keyed.rec, d)

		d, err = positional.render(keys)
		if err != nil {
			return err
		}
		pc.add(positional.rec, d)
	}

	if host.InnerHTML(keyed.root) != host.InnerHTML(positional.root) {
		return fmt.Errorf("keyed and positional trees diverged")
	}

	fmt.Fprintf(out, "size=%d iterations=%d seed=%d\n\n", cfg.Bench.Size, cfg.Bench.Iterations, cfg.Bench.Seed)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "strategy\tops\tcreates\tmoves\tremoves\tprops\ttexts\ttime\t")
	for _, row := range []struct {
		name string
		c    opCounts
	}{{"keyed", kc}, {"positional", pc}} {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%d\t%d\t%s\t\n",
			row.name, row.c.Ops, row.c.Creates, row.c.Moves, row.c.Removes, row.c.Props, row.c.Texts,
			row.c.Elapsed.Round(time.Microsecond))
	}
	return w.Flush()
}

// edit applies a random mix of swaps, removals and insertions.
func edit(rng *rand.Rand, keys []int, next int) ([]int, int) {
	out := make([]int, len(keys))
	copy(out, keys)
	if len(out) == 0 {
		return []int{next}, next + 1
	}

	swaps := 1 + rng.Intn(3)
	for s := 0; s < swaps; s++ {
		i, j := rng.Intn(len(out)), rng.Intn(len(out))
		out[i], out[j] = out[j], out[i]
	}

	if len(out) > 1 && rng.Intn(2) == 0 {
		i := rng.Intn(len(out))
		out = append(out[:i], out[i+1:]...)
	}

	if rng.Intn(2) == 0 {
		i := rng.Intn(len(out) + 1)
		out = append(out, 0)
		copy(out[i+1:], out[i:])
		out[i] = next
		next++
	}
	return out, next
}
