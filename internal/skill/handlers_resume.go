package skill

import (
	"context"
	"fmt"
)

// resumeDirective queues the stored session at its offset. It reports false
// when nothing is resumable.
func (s *Skill) resumeDirective(c *Context) (string, bool) {
	pb, ok := c.Attrs.Playback()
	if !ok {
		return "", false
	}
	offset, ok := pb.ResumeOffset()
	if !ok {
		return "", false
	}
	c.Response.PlayAudio(BehaviorReplaceAll, pb.URL, pb.Token, offset)
	return s.describe(pb.Token), true
}

func (s *Skill) confirmResume(_ context.Context, c *Context) error {
	c.Attrs.Reset()
	title, ok := s.resumeDirective(c)
	if !ok {
		c.Response.Speak(speechNothingToPlay).Listen(s.showHint()).Send()
		return nil
	}
	c.Response.Speak(fmt.Sprintf(speechResuming, title)).Send()
	return nil
}

func (s *Skill) declineResume(_ context.Context, c *Context) error {
	c.Attrs.Reset()
	c.Attrs.ClearPlayback()
	c.Response.Speak(speechResumeDeclined).Listen(s.showHint()).Send()
	return nil
}

func (s *Skill) resume(ctx context.Context, c *Context) error {
	return s.confirmResume(ctx, c)
}

func (s *Skill) pause(_ context.Context, c *Context) error {
	c.Response.StopAudio().Send()
	return nil
}

// startOver replays the current track from the beginning, finished or not.
func (s *Skill) startOver(_ context.Context, c *Context) error {
	c.Attrs.Reset()
	pb, ok := c.Attrs.Playback()
	if !ok || !pb.IsValid() {
		c.Response.Speak(speechNothingToPlay).Listen(s.showHint()).Send()
		return nil
	}
	pb = pb.WithOffset(0)
	c.Attrs.SetPlayback(pb)
	c.Response.
		Speak(fmt.Sprintf(speechStartOver, s.describe(pb.Token))).
		PlayAudio(BehaviorReplaceAll, pb.URL, pb.Token, 0).
		Send()
	return nil
}

func (s *Skill) playCommand(_ context.Context, c *Context) error {
	s.resumeDirective(c)
	c.Response.SendEmpty(SendOptions{})
	return nil
}

func (s *Skill) pauseCommand(_ context.Context, c *Context) error {
	c.Response.StopAudio().SendEmpty(SendOptions{})
	return nil
}

func (s *Skill) ignoreCommand(_ context.Context, c *Context) error {
	c.Response.SendEmpty(SendOptions{})
	return nil
}
