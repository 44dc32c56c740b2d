package skill

import (
	"context"

	"github.com/jorgej/gimlet-skill-sub000/internal/domain"
	"github.com/jorgej/gimlet-skill-sub000/internal/metrics"
)

// Audio player events never speak. Offsets are only recorded for the track
// the session knows about; events for anything else are acknowledged.

// updateOffset stores offset on the current session when token matches it.
func updateOffset(c *Context, token domain.ContentToken, offset int64) bool {
	pb, ok := c.Attrs.Playback()
	if !ok || !token.Valid() || pb.Token != token {
		return false
	}
	c.Attrs.SetPlayback(pb.WithOffset(offset))
	return true
}

func (s *Skill) playbackStarted(_ context.Context, c *Context) error {
	metrics.PlaybackEventsTotal.WithLabelValues("started").Inc()
	updateOffset(c, c.Request.Token, c.Request.OffsetMillis)
	c.Response.SendEmpty(SendOptions{PersistSession: true})
	return nil
}

func (s *Skill) playbackStopped(_ context.Context, c *Context) error {
	metrics.PlaybackEventsTotal.WithLabelValues("stopped").Inc()
	updateOffset(c, c.Request.Token, c.Request.OffsetMillis)
	c.Response.SendEmpty(SendOptions{PersistSession: true})
	return nil
}

// playbackNearlyFinished does not enqueue anything: one track per session.
func (s *Skill) playbackNearlyFinished(_ context.Context, c *Context) error {
	metrics.PlaybackEventsTotal.WithLabelValues("nearly_finished").Inc()
	c.Response.SendEmpty(SendOptions{})
	return nil
}

func (s *Skill) playbackFinished(_ context.Context, c *Context) error {
	metrics.PlaybackEventsTotal.WithLabelValues("finished").Inc()
	token := c.Request.Token
	if domain.IsValidSerialToken(token) {
		c.Attrs.RecordSerialFinished(token.ShowID, token.Index)
	}
	if pb, ok := c.Attrs.Playback(); ok && token.Valid() && pb.Token == token {
		c.Attrs.SetPlayback(pb.MarkFinished())
	}
	c.Response.SendEmpty(SendOptions{PersistSession: true})
	return nil
}

func (s *Skill) playbackFailed(_ context.Context, c *Context) error {
	metrics.PlaybackEventsTotal.WithLabelValues("failed").Inc()
	c.Logger.Warn("playback failed",
		"token", c.Request.Token.String(),
		"error", c.Request.ErrorMessage,
	)
	c.Response.SendEmpty(SendOptions{})
	return nil
}
