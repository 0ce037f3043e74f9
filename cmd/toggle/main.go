// Command toggle drives a toggle switch owned by a single actor process.
//
// By default it runs a scripted demo: a number of concurrent clients each
// flip the switch through their own mailbox handle, then the final position
// is read back. With -i it opens an interactive shell instead.
//
//	go run ./cmd/toggle -config solo.yaml
//	go run ./cmd/toggle -i
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/abiosoft/ishell/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	promadapter "github.com/codewandler/solo-go/adapters/prometheus"
	"github.com/codewandler/solo-go/core/actor"
	"github.com/codewandler/solo-go/examples/toggle"
	"github.com/codewandler/solo-go/internal/config"
)

var programLevel = new(slog.LevelVar)

func main() {
	var (
		configPath  = flag.String("config", "", "path to a YAML config file")
		interactive = flag.Bool("i", false, "run the interactive shell")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log := newLogger(cfg.Log)
	slog.SetDefault(log)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, log, cfg, *interactive); err != nil {
		log.Error("toggle failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	lvl, _ := cfg.SlogLevel()
	programLevel.Set(lvl)

	opts := &slog.HandlerOptions{Level: programLevel}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func run(ctx context.Context, log *slog.Logger, cfg *config.Config, interactive bool) error {
	opts := actor.Options{
		ID:     cfg.Demo.ProcessID,
		Logger: log,
	}

	if cfg.Metrics.Addr != "" {
		opts.Metrics = promadapter.NewActorMetrics(prometheus.DefaultRegisterer)

		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		srv := &http.Server{Addr: cfg.Metrics.Addr, Handler: mux}
		go func() {
			log.Info("metrics server starting", slog.String("addr", cfg.Metrics.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("metrics server error", slog.Any("error", err))
			}
		}()
		defer srv.Shutdown(context.Background())
	}

	initial := toggle.Alpha
	if strings.EqualFold(cfg.Demo.Initial, "beta") {
		initial = toggle.Beta
	}

	sw, proc := toggle.Start(ctx, initial, opts)
	log = log.With(slog.String("process", proc.ID()))

	if interactive {
		runShell(ctx, sw)
	} else if err := runScript(ctx, log, sw, cfg.Demo); err != nil {
		sw.Close()
		return err
	}

	sw.Close()
	select {
	case <-proc.Done():
		log.Info("process stopped")
	case <-time.After(5 * time.Second):
		return errors.New("process did not stop")
	}
	return nil
}

func runScript(ctx context.Context, log *slog.Logger, sw *toggle.Switch, demo config.DemoConfig) error {
	sw.Peek()

	g, gctx := errgroup.WithContext(ctx)
	for i := range demo.Clients {
		client := sw.Clone()
		g.Go(func() error {
			defer client.Close()
			for range demo.Flips {
				if err := gctx.Err(); err != nil {
					return err
				}
				client.Flip()
			}
			log.Debug("client done", slog.Int("client", i), slog.Int("flips", demo.Flips))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	state, err := sw.State(ctx)
	if err != nil {
		return fmt.Errorf("read final state: %w", err)
	}

	log.Info("final state",
		slog.String("state", state.String()),
		slog.Int("flips", demo.Clients*demo.Flips),
		slog.Uint64("dropped", sw.Dropped()),
	)
	return nil
}

func runShell(ctx context.Context, sw *toggle.Switch) {
	shell := ishell.New()
	shell.Println("toggle shell. 'help' lists commands.")

	shell.AddCmd(&ishell.Cmd{
		Name: "flip",
		Help: "flip the switch [n times]",
		Func: func(c *ishell.Context) {
			n := 1
			if len(c.Args) > 0 {
				v, err := strconv.Atoi(c.Args[0])
				if err != nil || v < 0 {
					c.Err(fmt.Errorf("invalid count %q", c.Args[0]))
					return
				}
				n = v
			}
			for range n {
				sw.Flip()
			}
		},
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "show",
		Help: "print the current position",
		Func: func(c *ishell.Context) {
			reqCtx, cancel := context.WithTimeout(ctx, time.Second)
			defer cancel()
			state, err := sw.State(reqCtx)
			if err != nil {
				c.Err(err)
				return
			}
			c.Println("state:", state)
		},
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "peek",
		Help: "log the current position from inside the process",
		Func: func(c *ishell.Context) { sw.Peek() },
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "stop",
		Help: "stop the process after queued flips",
		Func: func(c *ishell.Context) {
			sw.Stop()
			c.Println("stop queued")
		},
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "debug",
		Help: "set log level to debug",
		Func: func(c *ishell.Context) { programLevel.Set(slog.LevelDebug) },
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "info",
		Help: "set log level to info",
		Func: func(c *ishell.Context) { programLevel.Set(slog.LevelInfo) },
	})

	shell.Run()
}
