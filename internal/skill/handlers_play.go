package skill

import (
	"context"
	"errors"
	"fmt"

	"github.com/jorgej/gimlet-skill-sub000/internal/catalog"
	"github.com/jorgej/gimlet-skill-sub000/internal/domain"
)

// resolveShow reads the show slot. named is false when no show was said.
func (s *Skill) resolveShow(c *Context) (id domain.ShowID, named, ok bool) {
	utterance := c.Request.Slot(SlotShowTitle)
	if utterance == "" {
		return "", false, false
	}
	id, ok = s.catalog.ResolveShowID(utterance)
	return id, true, ok
}

func (s *Skill) playLatest(ctx context.Context, c *Context) error {
	id, named, ok := s.resolveShow(c)
	if !ok {
		return s.askForShow(c, domain.QuestionMostRecentShowTitle, named)
	}
	return s.playLatestOf(ctx, c, id)
}

func (s *Skill) playFavorite(ctx context.Context, c *Context) error {
	id, named, ok := s.resolveShow(c)
	if !ok {
		return s.askForShow(c, domain.QuestionFavoriteShowTitle, named)
	}
	return s.playFavoriteOf(ctx, c, id)
}

// answerShowTitle handles the reply to a show question and continues the
// flow that asked it.
func (s *Skill) answerShowTitle(ctx context.Context, c *Context) error {
	q := c.Attrs.Question()
	id, _, ok := s.resolveShow(c)
	if !ok {
		c.Response.
			Speak(speechUnhandledShow).
			Speak(questionPrompt(q)).
			Listen(s.showHint()).
			Send()
		return nil
	}

	c.Attrs.Reset()
	if q == domain.QuestionFavoriteShowTitle {
		return s.playFavoriteOf(ctx, c, id)
	}
	return s.playLatestOf(ctx, c, id)
}

func (s *Skill) askForShow(c *Context, q domain.Question, named bool) error {
	c.Attrs.Ask(q)
	if named {
		c.Response.Speak(fmt.Sprintf(speechUnknownShow, c.Request.Slot(SlotShowTitle)))
	}
	c.Response.
		Speak(questionPrompt(q)).
		Listen(s.showHint()).
		Send()
	return nil
}

func (s *Skill) showHint() string {
	shows := s.catalog.Shows()
	if len(shows) > 3 {
		shows = shows[:3]
	}
	titles := make([]string, len(shows))
	for i, sh := range shows {
		titles[i] = sh.Title
	}
	return fmt.Sprintf(speechShowHint, joinList(titles))
}

// playLatestOf plays the newest episode, or the next unheard one for serial
// shows.
func (s *Skill) playLatestOf(ctx context.Context, c *Context, id domain.ShowID) error {
	if s.catalog.IsSerial(id) {
		return s.playSerial(ctx, c, id)
	}
	ep, err := s.catalog.FetchLatestEpisode(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return s.contentNotFound(c, id)
		}
		return fmt.Errorf("fetch latest episode of %s: %w", id, err)
	}
	return s.startPlayback(c, ep, domain.LatestToken(id), fmt.Sprintf(speechPlaying, s.episodeTitle(id, ep)))
}

func (s *Skill) playSerial(ctx context.Context, c *Context, id domain.ShowID) error {
	index := c.Attrs.Progress().NextSerialIndex(id)
	ep, err := s.catalog.FetchSerialEpisode(ctx, id, index)

	var rangeErr *catalog.RangeError
	if errors.As(err, &rangeErr) {
		wrapped := domain.WrapIndex(index, rangeErr.Count)
		if wrapped < 0 {
			return s.contentNotFound(c, id)
		}
		ep, err = s.catalog.FetchSerialEpisode(ctx, id, wrapped)
	}
	if err != nil {
		if isNotFound(err) {
			return s.contentNotFound(c, id)
		}
		return fmt.Errorf("fetch serial episode %d of %s: %w", index, id, err)
	}
	return s.startPlayback(c, ep, domain.SerialToken(id, ep.Index), fmt.Sprintf(speechPlaying, s.episodeTitle(id, ep)))
}

func (s *Skill) playFavoriteOf(ctx context.Context, c *Context, id domain.ShowID) error {
	index := c.Attrs.Progress().NextFavoriteIndex(id)
	ep, err := s.catalog.FetchFavoriteEpisode(ctx, id, index)

	var rangeErr *catalog.RangeError
	if errors.As(err, &rangeErr) {
		wrapped := domain.WrapIndex(index, rangeErr.Count)
		if wrapped < 0 {
			return s.contentNotFound(c, id)
		}
		ep, err = s.catalog.FetchFavoriteEpisode(ctx, id, wrapped)
	}
	if err != nil {
		if isNotFound(err) {
			return s.contentNotFound(c, id)
		}
		return fmt.Errorf("fetch favorite %d of %s: %w", index, id, err)
	}

	c.Attrs.RecordFavoriteStarted(id, ep.Index)
	intro := ep.Intro
	if intro == "" {
		intro = fmt.Sprintf(speechPlayingFavorite, s.catalog.Title(id), ep.Title)
	}
	return s.startPlayback(c, ep, domain.FavoriteToken(id, ep.Index), intro)
}

// startPlayback replaces whatever is playing with ep and makes it the
// current playback session.
func (s *Skill) startPlayback(c *Context, ep domain.Episode, token domain.ContentToken, intro string) error {
	c.Attrs.Reset()
	c.Attrs.SetPlayback(domain.NewPlaybackSession(ep.URL, token, 0))
	c.Response.
		Speak(intro).
		Card(s.describe(token), ep.Title).
		PlayAudio(BehaviorReplaceAll, ep.URL, token, 0).
		Send()
	return nil
}

func (s *Skill) contentNotFound(c *Context, id domain.ShowID) error {
	c.Attrs.Reset()
	c.Response.Speak(fmt.Sprintf(speechNoEpisodes, s.catalog.Title(id))).Send()
	return nil
}

func (s *Skill) episodeTitle(id domain.ShowID, ep domain.Episode) string {
	if ep.Title != "" {
		return ep.Title
	}
	return "the latest " + s.catalog.Title(id)
}

// describe names what a token points at, for prompts and cards.
func (s *Skill) describe(t domain.ContentToken) string {
	switch t.Tag {
	case domain.TagSerial, domain.TagFavorite, domain.TagLatest:
		if title := s.catalog.Title(t.ShowID); title != "" {
			return title
		}
	case domain.TagExclusive:
		return "a Gimlet exclusive"
	}
	return "your episode"
}

func isNotFound(err error) bool {
	return errors.Is(err, catalog.ErrShowNotFound) ||
		errors.Is(err, catalog.ErrEpisodeNotFound) ||
		errors.Is(err, catalog.ErrEpisodeRange)
}
