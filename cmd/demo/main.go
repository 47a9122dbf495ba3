package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/comalice/typedfsm"
	"github.com/comalice/typedfsm/internal/config"
	"github.com/comalice/typedfsm/internal/logger"
	"github.com/comalice/typedfsm/metrics"
	"github.com/comalice/typedfsm/persist"
	"github.com/comalice/typedfsm/publish"
	"github.com/comalice/typedfsm/visual"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "demo:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadDemo()
	if err != nil {
		return err
	}
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	log := logger.New(
		logger.WithLevel(level),
		logger.WithFormat(logger.Format(cfg.LogFormat)),
		logger.WithAttr(slog.String("service", "typedfsm-demo")),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	dispatch, err := metrics.New(reg)
	if err != nil {
		return err
	}

	opts := []typedfsm.Option{
		typedfsm.WithLogger(log),
		typedfsm.WithMetrics(dispatch),
		typedfsm.WithPublisher(publish.NewLogPublisher(log)),
	}

	if err := runReference(ctx, append(opts, typedfsm.WithID(cfg.MachineID))); err != nil {
		return err
	}
	if err := runStateful(ctx, cfg, log, append(opts, typedfsm.WithID(cfg.MachineID+"-stateful"))); err != nil {
		return err
	}

	if cfg.MetricsAddr == "" {
		return nil
	}
	return serveMetrics(ctx, cfg.MetricsAddr, reg, log)
}

// runReference sends the three reference events through a machine whose
// transitions are keyed by event kind alone.
func runReference(ctx context.Context, opts []typedfsm.Option) error {
	b := typedfsm.NewBuilder[State, EventWrapper]()
	typedfsm.Declare[DataEvent](b)
	typedfsm.Declare[DatalessEvent](b)
	typedfsm.On[DataEvent](b, StateA, processDataEvent, processDatalessEvent)
	typedfsm.On[DatalessEvent](b, StateB, processDataEvent, processDatalessEvent)

	machine, err := b.Build(StateA, opts...)
	if err != nil {
		return fmt.Errorf("build machine: %w", err)
	}

	events := []typedfsm.Event[EventWrapper]{
		DataEvent{Number: 1, String: "Testing!"},
		DatalessEvent{},
		DataEvent{Number: 200, String: "A secret message"},
	}

	fmt.Print("\n==========\n\n")
	for _, evt := range events {
		state, err := machine.Send(ctx, evt)
		if err != nil {
			return err
		}
		fmt.Printf("\n%v\n\n==========\n\n", state)
	}
	return nil
}

// runStateful drives the (state, kind) keyed variant, restoring and saving
// its snapshot so consecutive runs continue where the last one stopped.
func runStateful(ctx context.Context, cfg config.Demo, log *slog.Logger, opts []typedfsm.Option) error {
	b := typedfsm.NewStatefulBuilder[State, EventWrapper]()
	typedfsm.From[DatalessEvent](b, StateA, StateB, processDatalessEvent)
	typedfsm.From[DataEvent](b, StateB, StateA, processDataEvent)

	machine, err := b.Build(StateA, opts...)
	if err != nil {
		return fmt.Errorf("build stateful machine: %w", err)
	}

	store, err := persist.New[State](cfg.SnapshotDir, cfg.SnapshotFormat)
	if err != nil {
		return err
	}
	if err := machine.Load(ctx, store); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		log.InfoContext(ctx, "no snapshot, starting fresh", slog.String("dir", cfg.SnapshotDir))
	}

	for _, evt := range []typedfsm.Event[EventWrapper]{DatalessEvent{}, DatalessEvent{}, DataEvent{Number: 3, String: "back"}} {
		state, err := machine.Send(ctx, evt)
		if typedfsm.IsNoTransitionError(err) {
			log.WarnContext(ctx, "event ignored", logger.Error(err))
			continue
		}
		if err != nil {
			return err
		}
		fmt.Printf("stateful machine now in %v (sequence %d)\n", state, machine.Sequence())
	}

	if err := machine.Save(ctx, store); err != nil {
		return err
	}
	fmt.Println(visual.ExportDOT(machine.Describe()))
	return nil
}

func serveMetrics(ctx context.Context, addr string, reg *prometheus.Registry, log *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		log.Info("serving metrics", slog.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
