// Package catalog resolves shows and episodes: show ids and titles from a
// TOML definition, latest and serial episodes from podcast feeds, and the
// curated favorites, exclusives and clips.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jorgej/gimlet-skill-sub000/internal/domain"
)

var (
	// ErrShowNotFound is returned for show ids the catalog does not know.
	ErrShowNotFound = errors.New("catalog: show not found")
	// ErrEpisodeNotFound is returned when a show has no playable episode.
	ErrEpisodeNotFound = errors.New("catalog: episode not found")
	// ErrEpisodeRange is wrapped by RangeError.
	ErrEpisodeRange = errors.New("catalog: episode index out of range")
	// ErrUpstream wraps failures talking to feed hosts.
	ErrUpstream = errors.New("catalog: upstream fetch failed")
)

// RangeError reports an index past the end of a positional list. Count is the
// list length so callers can wrap around.
type RangeError struct {
	Show  domain.ShowID
	Index int
	Count int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("catalog: index %d out of range for %q (%d episodes)", e.Index, e.Show, e.Count)
}

func (e *RangeError) Unwrap() error {
	return ErrEpisodeRange
}

// Feeds is the episode source for shows.
type Feeds interface {
	Episodes(ctx context.Context, url string) ([]FeedEpisode, error)
}

type showEntry struct {
	def  ShowDefinition
	keys []string
}

// Catalog is immutable after New and safe for concurrent use.
type Catalog struct {
	def    Definition
	feeds  Feeds
	shows  map[domain.ShowID]*showEntry
	order  []domain.ShowID
	lookup map[string]domain.ShowID
}

// New builds a catalog from def, fetching feeds through feeds.
func New(def Definition, feeds Feeds) (*Catalog, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	c := &Catalog{
		def:    def,
		feeds:  feeds,
		shows:  make(map[domain.ShowID]*showEntry, len(def.Shows)),
		lookup: make(map[string]domain.ShowID),
	}
	for _, s := range def.Shows {
		id := domain.ShowID(s.ID)
		e := &showEntry{def: s}
		names := append([]string{s.ID, s.Title}, s.Aliases...)
		for _, n := range names {
			key := normalizeName(trimFiller(n))
			if key == "" {
				continue
			}
			if other, ok := c.lookup[key]; ok && other != id {
				slog.Warn("catalog alias collision", "alias", n, "show", id, "existing", other)
				continue
			}
			c.lookup[key] = id
			e.keys = append(e.keys, key)
		}
		c.shows[id] = e
		c.order = append(c.order, id)
	}
	return c, nil
}

// ResolveShowID maps a spoken show name to a show id.
func (c *Catalog) ResolveShowID(utterance string) (domain.ShowID, bool) {
	if utterance == "" {
		return "", false
	}
	for _, candidate := range []string{utterance, trimFiller(utterance)} {
		if id, ok := c.lookup[normalizeName(candidate)]; ok {
			return id, true
		}
	}
	return "", false
}

// IsSerial reports whether the show's episodes must be played in order.
func (c *Catalog) IsSerial(id domain.ShowID) bool {
	e, ok := c.shows[id]
	return ok && e.def.Serial
}

// Title returns the display title of a show, or "" when unknown.
func (c *Catalog) Title(id domain.ShowID) string {
	if e, ok := c.shows[id]; ok {
		return e.def.Title
	}
	return ""
}

// Shows lists the catalog in definition order.
func (c *Catalog) Shows() []domain.Show {
	out := make([]domain.Show, 0, len(c.order))
	for _, id := range c.order {
		e := c.shows[id]
		out = append(out, domain.Show{
			ID:      id,
			Title:   e.def.Title,
			Serial:  e.def.Serial,
			Aliases: append([]string(nil), e.def.Aliases...),
		})
	}
	return out
}

// FeedURLs returns every configured feed, for cache warming.
func (c *Catalog) FeedURLs() []string {
	var urls []string
	for _, id := range c.order {
		if f := c.shows[id].def.Feed; f != "" {
			urls = append(urls, f)
		}
	}
	return urls
}

func (c *Catalog) feedEpisodes(ctx context.Context, id domain.ShowID) ([]FeedEpisode, error) {
	e, ok := c.shows[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrShowNotFound, id)
	}
	if e.def.Feed == "" {
		return nil, fmt.Errorf("%w: %q has no feed", ErrEpisodeNotFound, id)
	}
	return c.feeds.Episodes(ctx, e.def.Feed)
}

// FetchLatestEpisode returns the most recently published episode.
func (c *Catalog) FetchLatestEpisode(ctx context.Context, id domain.ShowID) (domain.Episode, error) {
	eps, err := c.feedEpisodes(ctx, id)
	if err != nil {
		return domain.Episode{}, err
	}
	if len(eps) == 0 {
		return domain.Episode{}, fmt.Errorf("%w: %q feed is empty", ErrEpisodeNotFound, id)
	}
	last := eps[len(eps)-1]
	return domain.Episode{URL: last.URL, Title: last.Title, Index: len(eps) - 1}, nil
}

// FetchSerialEpisode returns episode index counted from the first episode.
// An index past the end yields a *RangeError carrying the episode count.
func (c *Catalog) FetchSerialEpisode(ctx context.Context, id domain.ShowID, index int) (domain.Episode, error) {
	eps, err := c.feedEpisodes(ctx, id)
	if err != nil {
		return domain.Episode{}, err
	}
	if index < 0 || index >= len(eps) {
		return domain.Episode{}, &RangeError{Show: id, Index: index, Count: len(eps)}
	}
	ep := eps[index]
	return domain.Episode{URL: ep.URL, Title: ep.Title, Index: index}, nil
}

// FetchFavoriteEpisode returns curated favorite index of a show.
func (c *Catalog) FetchFavoriteEpisode(_ context.Context, id domain.ShowID, index int) (domain.Episode, error) {
	e, ok := c.shows[id]
	if !ok {
		return domain.Episode{}, fmt.Errorf("%w: %q", ErrShowNotFound, id)
	}
	favs := e.def.Favorites
	if index < 0 || index >= len(favs) {
		return domain.Episode{}, &RangeError{Show: id, Index: index, Count: len(favs)}
	}
	f := favs[index]
	return domain.Episode{URL: f.URL, Title: f.Title, Intro: f.Intro, Index: index}, nil
}

// Exclusives lists member-only content in presentation order.
func (c *Catalog) Exclusives(_ context.Context) ([]domain.Episode, error) {
	out := make([]domain.Episode, 0, len(c.def.Exclusives))
	for i, e := range c.def.Exclusives {
		out = append(out, domain.Episode{URL: e.URL, Title: e.Title, Intro: e.Intro, Index: i})
	}
	return out, nil
}

// MiscClips lists short clips used for question answers.
func (c *Catalog) MiscClips(_ context.Context) ([]string, error) {
	return append([]string(nil), c.def.MiscClips...), nil
}
