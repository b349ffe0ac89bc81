// Package worker runs the backend actor: a single-writer loop that owns the
// recipe store and processes bridge requests in FIFO order. All store
// mutations happen on the loop goroutine, so no request ever observes a
// half-applied write.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Igilq/kubejs-recipes/internal/addons"
	"github.com/Igilq/kubejs-recipes/internal/bridge"
	"github.com/Igilq/kubejs-recipes/internal/journal"
	"github.com/Igilq/kubejs-recipes/internal/schema"
	"github.com/Igilq/kubejs-recipes/internal/store"
)

// ErrNotRunning is returned by Send once the worker has stopped.
var ErrNotRunning = errors.New("worker is not running")

// Worker owns the store and processes requests sequentially.
//
// Implements bridge.Transport: Send enqueues from any goroutine, Replies
// streams results from the Run loop. Replies carry the request's correlation
// token; the bridge routes them back to callers.
type Worker struct {
	store   *store.Store
	journal *journal.Journal // nil disables mutation journaling
	addons  *addons.Client

	queue   *requestQueue
	replies chan bridge.Reply
}

// New creates a worker over an opened store. The journal may be nil; the
// addon client must not be.
func New(st *store.Store, jnl *journal.Journal, ac *addons.Client) *Worker {
	return &Worker{
		store:   st,
		journal: jnl,
		addons:  ac,
		queue:   newRequestQueue(),
		// Buffered so the loop never stalls on a slow reply reader.
		replies: make(chan bridge.Reply, 16),
	}
}

// Send submits a request for processing. Returns ErrNotRunning after the
// worker has stopped; never blocks on worker progress.
func (w *Worker) Send(req bridge.Request) error {
	if !w.queue.Enqueue(req) {
		return ErrNotRunning
	}
	return nil
}

// Replies returns the worker's outbound reply stream. Closed when the
// worker stops.
func (w *Worker) Replies() <-chan bridge.Reply {
	return w.replies
}

// Stop requests shutdown. Equivalent to sending an exit request, minus the
// queue position: requests already queued are still drained by Run.
func (w *Worker) Stop() {
	w.queue.Close()
}

// Run is the single-writer loop. Must be called from exactly one goroutine.
// Blocks until an exit request arrives, Stop is called, or the context is
// cancelled. The reply channel closes on return.
//
// A panic in a handler is an unrecoverable fault: the worker emits one
// worker_error reply carrying the faulting request's token, then stops.
// Everything recoverable (bad input, store errors) is an ordinary failure
// reply and the loop continues.
func (w *Worker) Run(ctx context.Context) (err error) {
	slog.Info("worker starting")
	defer close(w.replies)
	defer w.queue.Close()

	for {
		req, ok := w.queue.TryDequeue()
		if ok {
			if req.Action == bridge.ActionExit {
				slog.Info("worker stopping: exit requested")
				return nil
			}
			reply, fatal := w.handle(ctx, req)
			w.replies <- reply
			if fatal {
				slog.Error("worker stopping after fault", "action", req.Action, "token", req.Token)
				return fmt.Errorf("worker fault on %s: %s", req.Action, reply.Error)
			}
			continue
		}

		select {
		case <-ctx.Done():
			slog.Info("worker stopping: context cancelled")
			return ctx.Err()
		case <-w.queue.Wait():
			if w.queue.Len() == 0 {
				slog.Info("worker stopping: queue closed")
				return nil
			}
		}
	}
}

// handle processes one request. Never panics outward: a handler panic
// becomes a worker_error reply with fatal set, and Run stops the loop.
func (w *Worker) handle(ctx context.Context, req bridge.Request) (reply bridge.Reply, fatal bool) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("worker fault", "action", req.Action, "token", req.Token, "panic", r)
			reply = bridge.Reply{
				Action:  bridge.ReplyWorkerError,
				Token:   req.Token,
				Success: false,
				Error:   fmt.Sprint(r),
			}
			fatal = true
		}
	}()

	slog.Debug("processing request", "action", req.Action, "token", req.Token)

	switch req.Action {
	case bridge.ActionLoadRecipes:
		return w.handleLoad(req), false
	case bridge.ActionSaveRecipe:
		return w.handleSave(ctx, req), false
	case bridge.ActionDeleteRecipe:
		return w.handleDelete(ctx, req), false
	case bridge.ActionSearchRecipes:
		return w.handleSearch(req), false
	case bridge.ActionExportRecipes:
		return w.handleExport(req), false
	case bridge.ActionFetchAddons:
		return w.handleFetchAddons(ctx, req), false
	default:
		slog.Warn("unknown action", "action", req.Action, "token", req.Token)
		return bridge.Failure(req, fmt.Sprintf("Unknown action: %s", req.Action)), false
	}
}

func (w *Worker) handleLoad(req bridge.Request) bridge.Reply {
	c := w.store.Collection()
	return bridge.Reply{
		Action:  bridge.ReplyRecipesLoaded,
		Token:   req.Token,
		Success: true,
		Recipes: c,
	}
}

func (w *Worker) handleSave(ctx context.Context, req bridge.Request) bridge.Reply {
	if req.RecipeName == "" {
		return bridge.Failure(req, "Recipe name is required")
	}
	if req.Recipe == nil {
		return bridge.Failure(req, "Recipe data is required")
	}
	if err := schema.Validate(req.RecipeName, *req.Recipe); err != nil {
		return bridge.Failure(req, err.Error())
	}

	if err := w.store.Save(req.RecipeName, *req.Recipe, req.IsNew); err != nil {
		switch {
		case errors.Is(err, store.ErrDuplicateName):
			return bridge.Failure(req, fmt.Sprintf("Recipe '%s' already exists", req.RecipeName))
		default:
			return bridge.Failure(req, err.Error())
		}
	}

	w.record(ctx, req.Token, bridge.ActionSaveRecipe, req.RecipeName, req.Recipe)
	return bridge.Reply{
		Action:     bridge.ReplyRecipeSaved,
		Token:      req.Token,
		Success:    true,
		RecipeName: req.RecipeName,
		IsNew:      req.IsNew,
	}
}

func (w *Worker) handleDelete(ctx context.Context, req bridge.Request) bridge.Reply {
	if req.RecipeName == "" {
		return bridge.Failure(req, "Recipe name is required")
	}

	if err := w.store.Delete(req.RecipeName); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return bridge.Failure(req, fmt.Sprintf("Recipe '%s' not found", req.RecipeName))
		default:
			return bridge.Failure(req, err.Error())
		}
	}

	w.record(ctx, req.Token, bridge.ActionDeleteRecipe, req.RecipeName, nil)
	return bridge.Reply{
		Action:     bridge.ReplyRecipeDeleted,
		Token:      req.Token,
		Success:    true,
		RecipeName: req.RecipeName,
	}
}

func (w *Worker) handleSearch(req bridge.Request) bridge.Reply {
	if req.SearchTerm == "" {
		return bridge.Failure(req, "Search term is required")
	}
	results := w.store.Search(req.SearchTerm)
	return bridge.Reply{
		Action:     bridge.ReplySearchResults,
		Token:      req.Token,
		Success:    true,
		Results:    results,
		SearchTerm: req.SearchTerm,
	}
}

func (w *Worker) handleExport(req bridge.Request) bridge.Reply {
	if req.FilePath == "" {
		return bridge.Failure(req, "File path is required")
	}
	written, err := w.store.Export(req.FilePath)
	if err != nil {
		return bridge.Failure(req, err.Error())
	}
	return bridge.Reply{
		Action:   bridge.ReplyRecipesExported,
		Token:    req.Token,
		Success:  true,
		FilePath: written,
	}
}

func (w *Worker) handleFetchAddons(ctx context.Context, req bridge.Request) bridge.Reply {
	// Bound the fetch by the caller's reply budget so a hung server cannot
	// stall the loop past the point anyone is still waiting.
	ctx, cancel := context.WithTimeout(ctx, bridge.FetchTimeout)
	defer cancel()

	list, err := w.addons.Fetch(ctx, req.Refresh)
	if err != nil {
		return bridge.Failure(req, err.Error())
	}
	return bridge.Reply{
		Action:  bridge.ReplyAddonsFetched,
		Token:   req.Token,
		Success: true,
		Addons:  list,
	}
}

// record appends a mutation to the journal. Journal failures are logged,
// never surfaced: the store write already succeeded and history is advisory.
func (w *Worker) record(ctx context.Context, token, action, name string, payload any) {
	if w.journal == nil {
		return
	}
	body := ""
	if payload != nil {
		data, err := json.Marshal(payload)
		if err == nil {
			body = string(data)
		}
	}
	if err := w.journal.Append(ctx, token, action, name, body); err != nil {
		slog.Error("journal append failed", "action", action, "recipe", name, "error", err)
	}
}
