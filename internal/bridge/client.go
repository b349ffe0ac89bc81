package bridge

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// TimeoutMessage is the error carried by a reply that timed out.
// The exact string is part of the presentation contract.
const TimeoutMessage = "Timeout waiting for response"

// Transport is the message channel to the backend worker. The worker
// implements it directly (Send enqueues, Replies is its outbound stream);
// tests substitute channel-backed fakes.
type Transport interface {
	// Send submits a request. It returns an error when the worker is not
	// running; it never blocks on worker progress.
	Send(Request) error

	// Replies returns the stream of worker replies. The channel closes when
	// the worker stops.
	Replies() <-chan Reply
}

// Client correlates calls with replies by token.
//
// Call state per request: sent, awaiting, then resolved or timed out.
// The pending entry is registered before Send so the dispatch goroutine can
// never observe a reply for an unregistered token, and deregistered exactly
// once on resolve, timeout, or context cancellation. Replies with no pending
// entry (late replies after a timeout, or the worker's final fault notice)
// are dropped after a debug log.
//
// Safe for concurrent use; any number of calls may be in flight, including
// several with the same action.
type Client struct {
	transport Transport
	tokens    TokenGenerator

	mu      sync.Mutex
	pending map[string]chan Reply

	dispatchOnce sync.Once
}

// NewClient creates a client over a transport. A nil generator defaults to
// UUIDv7 tokens.
func NewClient(transport Transport, tokens TokenGenerator) *Client {
	if tokens == nil {
		tokens = UUIDv7Generator{}
	}
	return &Client{
		transport: transport,
		tokens:    tokens,
		pending:   make(map[string]chan Reply),
	}
}

// Call sends a request and waits for its reply, at most TimeoutFor(action).
// Send failures and timeouts come back as a {success:false, error} reply
// rather than a Go error. The returned error is reserved for context
// cancellation so callers can distinguish "user gave up" from "call failed".
func (c *Client) Call(ctx context.Context, req Request) (Reply, error) {
	c.dispatchOnce.Do(func() { go c.dispatch() })

	req.Token = c.tokens.Generate()
	ch := c.register(req.Token)
	defer c.deregister(req.Token)

	if err := c.transport.Send(req); err != nil {
		slog.Debug("bridge send failed", "action", req.Action, "token", req.Token, "error", err)
		return Failure(req, err.Error()), nil
	}

	timer := time.NewTimer(TimeoutFor(req.Action))
	defer timer.Stop()

	select {
	case reply := <-ch:
		return reply, nil
	case <-timer.C:
		slog.Warn("bridge call timed out", "action", req.Action, "token", req.Token)
		return Failure(req, TimeoutMessage), nil
	case <-ctx.Done():
		return Failure(req, ctx.Err().Error()), ctx.Err()
	}
}

func (c *Client) register(token string) chan Reply {
	// Buffered so dispatch never blocks on a caller that is already
	// giving up.
	ch := make(chan Reply, 1)
	c.mu.Lock()
	c.pending[token] = ch
	c.mu.Unlock()
	return ch
}

func (c *Client) deregister(token string) {
	c.mu.Lock()
	delete(c.pending, token)
	c.mu.Unlock()
}

// dispatch routes worker replies to their pending calls. Runs until the
// transport's reply channel closes.
func (c *Client) dispatch() {
	for reply := range c.transport.Replies() {
		c.mu.Lock()
		ch, ok := c.pending[reply.Token]
		if ok {
			// Claimed: a token resolves at most one call.
			delete(c.pending, reply.Token)
		}
		c.mu.Unlock()

		if !ok {
			slog.Debug("dropping uncorrelated reply", "action", reply.Action, "token", reply.Token)
			continue
		}
		ch <- reply
	}
}
