package skill

import (
	"context"
	"errors"
	"fmt"

	"github.com/jorgej/gimlet-skill-sub000/internal/domain"
	"github.com/jorgej/gimlet-skill-sub000/internal/metrics"
)

var (
	// ErrNoTerminalResponse is returned when a handler finishes without Send
	// or SendEmpty.
	ErrNoTerminalResponse = errors.New("skill: handler sent no response")
	// ErrDuplicateTerminal is returned when a handler finishes a response
	// more than once.
	ErrDuplicateTerminal = errors.New("skill: handler sent more than one response")
)

// Table maps routing keys to handlers for one dialogue state. Build errors
// are collected and reported by NewRouter.
type Table struct {
	state     domain.DialogueState
	handlers  map[string]Handler
	unhandled Handler
	errs      []error
}

func NewTable(state domain.DialogueState) *Table {
	return &Table{state: state, handlers: make(map[string]Handler)}
}

// On registers h for key.
func (t *Table) On(key string, h Handler) *Table {
	switch {
	case key == "":
		t.errs = append(t.errs, fmt.Errorf("state %s: empty key", t.state))
	case h == nil:
		t.errs = append(t.errs, fmt.Errorf("state %s: nil handler for %q", t.state, key))
	default:
		if _, dup := t.handlers[key]; dup {
			t.errs = append(t.errs, fmt.Errorf("state %s: duplicate handler for %q", t.state, key))
			return t
		}
		t.handlers[key] = h
	}
	return t
}

// OnKind registers h for a non-intent request kind.
func (t *Table) OnKind(kind RequestKind, h Handler) *Table {
	return t.On(string(kind), h)
}

// OnEach registers h for every key.
func (t *Table) OnEach(h Handler, keys ...string) *Table {
	for _, k := range keys {
		t.On(k, h)
	}
	return t
}

// Unhandled sets the fallback for keys without an entry.
func (t *Table) Unhandled(h Handler) *Table {
	if h == nil {
		t.errs = append(t.errs, fmt.Errorf("state %s: nil unhandled handler", t.state))
		return t
	}
	if t.unhandled != nil {
		t.errs = append(t.errs, fmt.Errorf("state %s: unhandled handler set twice", t.state))
		return t
	}
	t.unhandled = h
	return t
}

type route struct {
	handlers  map[string]Handler
	unhandled Handler
}

// Router is the two-level lookup DialogueState -> key -> handler. It is
// immutable after NewRouter.
type Router struct {
	routes map[domain.DialogueState]route
}

// NewRouter validates tables and wraps every handler with chain. Every
// dialogue state needs exactly one table with an unhandled fallback.
func NewRouter(chain Middleware, tables ...*Table) (*Router, error) {
	if chain == nil {
		chain = Chain()
	}

	var errs []error
	byState := make(map[domain.DialogueState]*Table, len(tables))
	for _, t := range tables {
		if t == nil {
			errs = append(errs, errors.New("nil table"))
			continue
		}
		if !t.state.Valid() {
			errs = append(errs, fmt.Errorf("table for unknown state %q", t.state))
			continue
		}
		if _, dup := byState[t.state]; dup {
			errs = append(errs, fmt.Errorf("duplicate table for state %s", t.state))
			continue
		}
		byState[t.state] = t
		errs = append(errs, t.errs...)
		if t.unhandled == nil {
			errs = append(errs, fmt.Errorf("state %s: no unhandled handler", t.state))
		}
	}
	for _, s := range domain.DialogueStates {
		if _, ok := byState[s]; !ok {
			errs = append(errs, fmt.Errorf("no table for state %s", s))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("skill: invalid routing tables: %w", err)
	}

	r := &Router{routes: make(map[domain.DialogueState]route, len(byState))}
	for s, t := range byState {
		rt := route{
			handlers:  make(map[string]Handler, len(t.handlers)),
			unhandled: chain(t.unhandled),
		}
		for k, h := range t.handlers {
			rt.handlers[k] = chain(h)
		}
		r.routes[s] = rt
	}
	return r, nil
}

// Handles reports whether state has an explicit entry for key.
func (r *Router) Handles(state domain.DialogueState, key string) bool {
	_, ok := r.routes[state].handlers[key]
	return ok
}

// Dispatch routes c in its current dialogue state and checks that exactly
// one terminal response was produced.
func (r *Router) Dispatch(ctx context.Context, c *Context) error {
	c.State = c.Attrs.State()
	rt := r.routes[c.State]

	h, ok := rt.handlers[c.Request.Key()]
	if !ok {
		metrics.UnhandledTotal.WithLabelValues(string(c.State)).Inc()
		h = rt.unhandled
	}
	if err := h(ctx, c); err != nil {
		return err
	}

	switch n := c.Response.TerminalCalls(); {
	case n == 0:
		return fmt.Errorf("%w: %s in %s", ErrNoTerminalResponse, c.Request.Key(), c.State)
	case n > 1:
		return fmt.Errorf("%w: %s in %s sent %d times", ErrDuplicateTerminal, c.Request.Key(), c.State, n)
	}
	return nil
}
