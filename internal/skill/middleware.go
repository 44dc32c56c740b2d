package skill

import (
	"context"
	"log/slog"
	"maps"
	"time"

	"github.com/jorgej/gimlet-skill-sub000/internal/domain"
	"github.com/jorgej/gimlet-skill-sub000/internal/metrics"
	"github.com/jorgej/gimlet-skill-sub000/internal/session"
)

// Context is the per-request state handed to handlers.
type Context struct {
	Request  Request
	Response *ResponseBuilder
	Attrs    *session.Attributes
	Logger   *slog.Logger
	// State is the dialogue state the request was routed in.
	State domain.DialogueState

	bag session.Bag
}

// NewContext builds a handler context over bag.
func NewContext(req Request, bag session.Bag, logger *slog.Logger) *Context {
	if logger == nil {
		logger = slog.Default()
	}
	return &Context{
		Request:  req,
		Response: NewResponseBuilder(),
		Attrs:    session.NewAttributes(bag),
		Logger:   logger,
		State:    domain.StateDefault,
		bag:      bag,
	}
}

// Handler handles one request. It must finish c.Response with exactly one
// terminal call, or return an error.
type Handler func(ctx context.Context, c *Context) error

// Middleware wraps a Handler.
type Middleware func(Handler) Handler

// Chain composes middlewares. The first one is the outermost.
func Chain(mws ...Middleware) Middleware {
	return func(h Handler) Handler {
		for i := len(mws) - 1; i >= 0; i-- {
			h = mws[i](h)
		}
		return h
	}
}

// ErrorResponder turns a handler error into a spoken apology. Attribute
// changes made before the failure are rolled back and any partial response
// is discarded, so the apology is the only terminal call.
func ErrorResponder() Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, c *Context) error {
			snapshot := c.bag.Clone()
			err := next(ctx, c)
			if err == nil {
				return nil
			}

			metrics.HandlerErrorsTotal.WithLabelValues(c.Request.Key()).Inc()
			c.Logger.Error("handler failed", "key", c.Request.Key(), "state", c.State, "error", err)

			clear(c.bag)
			maps.Copy(c.bag, snapshot)
			c.Response.Discard()
			if !c.Request.CanSpeak() {
				c.Response.SendEmpty(SendOptions{})
				return nil
			}
			c.Response.Speak(speechApology).Send()
			return nil
		}
	}
}

// Instrument logs every request and records request metrics.
func Instrument() Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, c *Context) error {
			start := time.Now()
			err := next(ctx, c)
			elapsed := time.Since(start)

			key := c.Request.Key()
			metrics.RequestsTotal.WithLabelValues(string(c.State), key).Inc()
			metrics.HandlerDuration.WithLabelValues(key).Observe(elapsed.Seconds())
			c.Logger.Info("skill request",
				"state", c.State,
				"key", key,
				"next_state", c.Attrs.State(),
				"duration_ms", elapsed.Milliseconds(),
			)
			return err
		}
	}
}

// HelpStreak counts consecutive help intents. Any other intent resets the
// count; non-intent requests leave it untouched.
func HelpStreak() Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, c *Context) error {
			if c.Request.IsIntent() {
				if c.Request.Intent == IntentHelp {
					c.Attrs.SetHelpStreak(c.Attrs.HelpStreak() + 1)
				} else {
					c.Attrs.SetHelpStreak(0)
				}
			}
			return next(ctx, c)
		}
	}
}
