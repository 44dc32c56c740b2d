package skill

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jorgej/gimlet-skill-sub000/internal/domain"
)

// playExclusive lists the exclusives for linked accounts and asks for a
// number.
func (s *Skill) playExclusive(ctx context.Context, c *Context) error {
	if linked, err := s.requireLinked(ctx, c); err != nil || !linked {
		return err
	}

	eps, err := s.catalog.Exclusives(ctx)
	if err != nil {
		return fmt.Errorf("load exclusives: %w", err)
	}
	if len(eps) == 0 {
		c.Attrs.Reset()
		c.Response.Speak(speechNoExclusives).Send()
		return nil
	}

	titles := make([]string, len(eps))
	for i, ep := range eps {
		titles[i] = ep.Title
	}
	c.Attrs.Ask(domain.QuestionExclusiveNumber)
	c.Response.
		Speak(fmt.Sprintf(speechExclusivePrompt, numberedList(titles))).
		Listen(fmt.Sprintf(speechExclusiveReprompt, len(eps))).
		Send()
	return nil
}

// exclusiveNumber plays the chosen exclusive. Numbers are 1-based; anything
// else gets the unhandled response and the question stays open. The account
// is checked again since the question may outlive the link.
func (s *Skill) exclusiveNumber(ctx context.Context, c *Context) error {
	if linked, err := s.requireLinked(ctx, c); err != nil || !linked {
		return err
	}

	eps, err := s.catalog.Exclusives(ctx)
	if err != nil {
		return fmt.Errorf("load exclusives: %w", err)
	}
	n, err := strconv.Atoi(c.Request.Slot(SlotNumber))
	if err != nil || n < 1 || n > len(eps) {
		return s.unhandled(ctx, c)
	}

	ep := eps[n-1]
	intro := ep.Intro
	if intro == "" {
		intro = fmt.Sprintf(speechPlaying, ep.Title)
	}
	return s.startPlayback(c, ep, domain.ExclusiveToken(n-1), intro)
}

// requireLinked checks account linking. An unlinked user gets the link card
// and the dialogue is reset.
func (s *Skill) requireLinked(ctx context.Context, c *Context) (bool, error) {
	linked, err := s.auth.IsAuthenticated(ctx, c.Request.AccessToken)
	if err != nil {
		return false, fmt.Errorf("check account link: %w", err)
	}
	if !linked {
		c.Attrs.Reset()
		c.Response.Speak(speechLinkAccount).LinkAccountCard().Send()
	}
	return linked, nil
}
