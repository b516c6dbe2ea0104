package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vango-dev/vmini/internal/config"
	"github.com/vango-dev/vmini/internal/demo"
	"github.com/vango-dev/vmini/pkg/app"
	"github.com/vango-dev/vmini/pkg/devtools"
	"github.com/vango-dev/vmini/pkg/host"
	"github.com/vango-dev/vmini/pkg/metrics"
	"github.com/vango-dev/vmini/pkg/scheduler"
)

func serveCmd(opts *globalOptions) *cobra.Command {
	var (
		addr     string
		inspect  bool
		interval time.Duration
		seed     int64
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the todo demo live",
		Long: `Run the todo list on the event loop and apply a random write every
interval. With the inspector enabled (devtools.enabled in the config, or
--inspect) the host op stream, a tree snapshot and Prometheus metrics are
served over HTTP.

Examples:
  vmini serve --inspect
  vmini serve --inspect --addr=:7070 --interval=250ms`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Devtools.Addr = addr
			}
			if cmd.Flags().Changed("inspect") {
				cfg.Devtools.Enabled = inspect
			}
			if interval <= 0 {
				return fmt.Errorf("--interval must be positive")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg, interval, seed)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", config.DefaultDevtoolsAddr, "Inspector listen address")
	cmd.Flags().BoolVar(&inspect, "inspect", false, "Start the devtools inspector")
	cmd.Flags().DurationVar(&interval, "interval", time.Second, "Time between random writes")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "Random seed for the writes")

	return cmd
}

func runServe(ctx context.Context, cfg *config.Config, interval time.Duration, seed int64) error {
	logger := app.NewLogger(os.Stderr, cfg.Log)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.New(metrics.WithRegistry(reg), metrics.WithNamespace(cfg.Metrics.Namespace))

	loop := scheduler.NewLoop(scheduler.WithLoopLogger(logger))
	mem := host.NewMemHost()
	root := mem.NewRoot()

	inspector := devtools.NewServer(
		devtools.WithLogger(logger),
		devtools.WithGatherer(reg),
		devtools.WithSnapshot(func(ctx context.Context) (string, error) {
			return snapshot(ctx, loop, root)
		}),
	)
	rec := host.NewRecorder(mem, host.WithMetrics(collector), host.WithSink(inspector.Sink()))

	a := app.CreateApp(demo.TodoApp,
		app.WithConfig(cfg),
		app.WithLogger(logger),
		app.WithMetrics(collector),
		app.WithTracer(metrics.Tracer()),
		app.WithHost(rec),
		app.WithLoop(loop),
	)
	store := demo.NewStore(a.Runtime(), "bread", "milk", "eggs")
	a.Provide(demo.StoreKey, store)

	mounted := make(chan error, 1)
	loop.Dispatch(func() { mounted <- a.Mount(root) })

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := loop.Run(gctx); err != nil && !stderrors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		select {
		case err := <-mounted:
			if err != nil {
				return err
			}
		case <-gctx.Done():
			return nil
		}
		return churn(gctx, loop, store, interval, seed, logger)
	})

	if cfg.Devtools.Enabled {
		srv := &http.Server{
			Addr:              cfg.Devtools.Addr,
			Handler:           inspector,
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			inspector.Close()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})

		printBanner()
		success("Inspector on http://%s", cfg.Devtools.Addr)
		info("metrics at http://%s/metrics", cfg.Devtools.Addr)
	} else {
		info("inspector disabled; pass --inspect to enable it")
	}

	return g.Wait()
}

// churn posts one random store write to the loop every interval.
func churn(ctx context.Context, loop *scheduler.Loop, store *demo.Store, interval time.Duration, seed int64, logger *slog.Logger) error {
	rng := rand.New(rand.NewSource(seed))
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			loop.Dispatch(func() {
				op := store.Churn(rng)
				logger.Debug("demo write", "op", op, "remaining", store.Remaining())
			})
		}
	}
}

// snapshot serializes the tree on the loop goroutine.
func snapshot(ctx context.Context, loop *scheduler.Loop, root *host.Node) (string, error) {
	ch := make(chan string, 1)
	if !loop.Dispatch(func() { ch <- host.InnerHTML(root) }) {
		return "", fmt.Errorf("event loop is not accepting tasks")
	}
	select {
	case html := <-ch:
		return html, nil
	case <-ctx.Done():
		return "", ctx.Err()
	case <-loop.Done():
		return "", fmt.Errorf("event loop stopped")
	}
}
