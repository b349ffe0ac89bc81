package cli

import (
	"context"
	"log/slog"
	"time"

	"github.com/Igilq/kubejs-recipes/internal/addons"
	"github.com/Igilq/kubejs-recipes/internal/bridge"
	"github.com/Igilq/kubejs-recipes/internal/config"
	"github.com/Igilq/kubejs-recipes/internal/journal"
	"github.com/Igilq/kubejs-recipes/internal/store"
	"github.com/Igilq/kubejs-recipes/internal/worker"
)

// session wires one command invocation: config, store, journal, the worker
// goroutine, and the bridge client in front of it.
type session struct {
	cfg     config.Config
	store   *store.Store
	journal *journal.Journal // nil when the journal could not be opened
	client  *bridge.Client

	cancel context.CancelFunc
	done   chan error
}

// newSession loads config, opens the data files, and starts the worker.
// Store faults (unreadable or corrupt recipes file) are command errors; a
// failed journal open only disables history and logs a warning.
func newSession(opts *RootOptions) (*session, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}
	setupLogging(cfg, opts.Verbose)

	st, err := store.Open(cfg.Paths.RecipesFile)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open recipe store", err)
	}

	jnl, err := journal.Open(cfg.Paths.JournalFile)
	if err != nil {
		slog.Warn("mutation journal unavailable", "path", cfg.Paths.JournalFile, "error", err)
		jnl = nil
	}

	ac := addons.NewClient(cfg.Paths.AddonsDBFile,
		addons.WithURL(cfg.Settings.KubeJSAddonsURL),
		addons.WithMaxAge(time.Duration(cfg.Settings.DBMaxAgeDays)*24*time.Hour),
	)

	w := worker.New(st, jnl, ac)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	return &session{
		cfg:     cfg,
		store:   st,
		journal: jnl,
		client:  bridge.NewClient(w, nil),
		cancel:  cancel,
		done:    done,
	}, nil
}

// Close stops the worker and waits for the loop to drain.
func (s *session) Close() {
	s.cancel()
	select {
	case <-s.done:
	case <-time.After(5 * time.Second):
		slog.Error("worker did not stop in time")
	}
	if s.journal != nil {
		if err := s.journal.Close(); err != nil {
			slog.Error("closing journal failed", "error", err)
		}
	}
}

// call issues one bridge call with a background context.
func (s *session) call(req bridge.Request) bridge.Reply {
	reply, err := s.client.Call(context.Background(), req)
	if err != nil {
		slog.Debug("bridge call cancelled", "action", req.Action, "error", err)
	}
	return reply
}
