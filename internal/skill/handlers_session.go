package skill

import (
	"context"
	"fmt"
	"strings"

	"github.com/jorgej/gimlet-skill-sub000/internal/domain"
)

func (s *Skill) launch(_ context.Context, c *Context) error {
	c.Attrs.Reset()
	returning := c.Attrs.ReturningUser()
	c.Attrs.SetReturningUser(true)

	if pb, ok := c.Attrs.Playback(); ok && pb.IsResumable() {
		c.Attrs.Ask(domain.QuestionConfirmResumePlayback)
		c.Response.
			Speak(fmt.Sprintf(speechResumePrompt, s.describe(pb.Token))).
			Listen(speechResumeReprompt).
			Send()
		return nil
	}

	welcome := speechWelcomeNew
	if returning {
		welcome = speechWelcomeBack
	}
	c.Response.Speak(welcome).Listen(speechWelcomeReprompt).Send()
	return nil
}

func (s *Skill) sessionEnded(_ context.Context, c *Context) error {
	c.Attrs.Reset()
	c.Response.SendEmpty(SendOptions{PersistSession: true})
	return nil
}

func (s *Skill) help(_ context.Context, c *Context) error {
	c.Response.Speak(helpText(c.Attrs.HelpStreak()))
	if prompt := questionPrompt(c.Attrs.Question()); prompt != "" {
		c.Response.Speak(prompt).Listen(prompt)
	} else {
		c.Response.Listen(speechWelcomeReprompt)
	}
	c.Response.Send()
	return nil
}

func (s *Skill) stop(_ context.Context, c *Context) error {
	c.Attrs.Reset()
	c.Response.StopAudio()
	if _, ok := c.Attrs.Playback(); !ok {
		c.Response.Speak(speechGoodbye)
	}
	c.Response.Send()
	return nil
}

// unhandled re-asks the active question, or falls back to a generic hint
// when nothing was asked.
func (s *Skill) unhandled(ctx context.Context, c *Context) error {
	if !c.Request.CanSpeak() {
		c.Response.SendEmpty(SendOptions{})
		return nil
	}

	switch q := c.Attrs.Question(); q {
	case domain.QuestionFavoriteShowTitle, domain.QuestionMostRecentShowTitle:
		c.Response.Speak(speechUnhandledShow).Speak(questionPrompt(q)).Listen(s.showHint())
	case domain.QuestionConfirmResumePlayback:
		c.Response.Speak(speechUnhandledConfirm).Speak(speechResumeReprompt).Listen(speechResumeReprompt)
	case domain.QuestionExclusiveNumber:
		reprompt := questionPrompt(q)
		if eps, err := s.catalog.Exclusives(ctx); err == nil && len(eps) > 0 {
			reprompt = fmt.Sprintf(speechExclusiveReprompt, len(eps))
		}
		c.Response.Speak(speechUnhandledNumber).Speak(reprompt).Listen(reprompt)
	default:
		c.Response.Speak(speechUnhandled).Listen(speechWelcomeReprompt)
	}
	c.Response.Send()
	return nil
}

func (s *Skill) unsupported(_ context.Context, c *Context) error {
	c.Response.Speak(speechUnsupported).Send()
	return nil
}

func (s *Skill) listShows(_ context.Context, c *Context) error {
	shows := s.catalog.Shows()
	titles := make([]string, len(shows))
	for i, sh := range shows {
		titles[i] = sh.Title
	}
	c.Attrs.Reset()
	c.Response.
		Speak(fmt.Sprintf(speechListShows, joinList(titles))).
		Card("Gimlet shows", strings.Join(titles, "\n")).
		Listen(speechWelcomeReprompt).
		Send()
	return nil
}

func (s *Skill) whoIsMatt(ctx context.Context, c *Context) error {
	clips, err := s.catalog.MiscClips(ctx)
	if err != nil {
		return fmt.Errorf("load clips: %w", err)
	}
	if len(clips) == 0 {
		c.Response.Speak(speechWhoIsMatt).Send()
		return nil
	}
	c.Response.SpeakAudio(clips[s.pick(len(clips))]).Send()
	return nil
}
