package catalog

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// maxFeedSize bounds a single feed download.
const maxFeedSize = 20 << 20

// FeedEpisode is one enclosure from a podcast feed.
type FeedEpisode struct {
	Title     string
	URL       string
	Published time.Time
}

type rssDocument struct {
	Channel struct {
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	Title     string `xml:"title"`
	PubDate   string `xml:"pubDate"`
	Enclosure struct {
		URL  string `xml:"url,attr"`
		Type string `xml:"type,attr"`
	} `xml:"enclosure"`
}

var pubDateLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
	time.RFC3339,
}

func parsePubDate(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range pubDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// ParseFeed reads an RSS document and returns its audio episodes ordered
// oldest first. Items without an enclosure are skipped.
func ParseFeed(r io.Reader) ([]FeedEpisode, error) {
	dec := xml.NewDecoder(io.LimitReader(r, maxFeedSize))
	dec.Strict = false
	dec.Entity = xml.HTMLEntity

	var doc rssDocument
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode feed: %w", err)
	}

	episodes := make([]FeedEpisode, 0, len(doc.Channel.Items))
	for _, item := range doc.Channel.Items {
		url := strings.TrimSpace(item.Enclosure.URL)
		if url == "" {
			continue
		}
		episodes = append(episodes, FeedEpisode{
			Title:     strings.TrimSpace(item.Title),
			URL:       url,
			Published: parsePubDate(item.PubDate),
		})
	}

	// Feeds list newest first; serial indexes count from the first episode.
	// Without dates on every item the feed order is the only signal.
	dated := true
	for _, ep := range episodes {
		if ep.Published.IsZero() {
			dated = false
			break
		}
	}
	if dated {
		sort.SliceStable(episodes, func(i, j int) bool {
			return episodes[i].Published.Before(episodes[j].Published)
		})
	} else {
		slices.Reverse(episodes)
	}
	return episodes, nil
}

type cachedFeed struct {
	episodes []FeedEpisode
	expires  time.Time
}

const defaultFeedTimeout = 10 * time.Second

// FeedFetcher downloads feeds over HTTP with a read-through TTL cache.
// Concurrent fetches of the same feed share one download.
type FeedFetcher struct {
	client *http.Client
	ttl    time.Duration
	group  singleflight.Group
	now    func() time.Time

	mu    sync.RWMutex
	feeds map[string]cachedFeed
}

// NewFeedFetcher creates a fetcher. A zero ttl disables caching.
func NewFeedFetcher(client *http.Client, ttl time.Duration) *FeedFetcher {
	if client == nil {
		client = &http.Client{Timeout: defaultFeedTimeout}
	}
	return &FeedFetcher{
		client: client,
		ttl:    ttl,
		now:    time.Now,
		feeds:  make(map[string]cachedFeed),
	}
}

// Episodes returns the episodes of the feed at url, oldest first. The shared
// download is not tied to any one caller: a cancelled caller returns early
// while the others keep waiting for the result.
func (f *FeedFetcher) Episodes(ctx context.Context, url string) ([]FeedEpisode, error) {
	if eps, ok := f.cached(url); ok {
		return eps, nil
	}

	ch := f.group.DoChan(url, func() (any, error) {
		if eps, ok := f.cached(url); ok {
			return eps, nil
		}
		dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), f.timeout())
		defer cancel()
		eps, err := f.download(dctx, url)
		if err != nil {
			return nil, err
		}
		f.store(url, eps)
		return eps, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]FeedEpisode), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (f *FeedFetcher) timeout() time.Duration {
	if f.client.Timeout > 0 {
		return f.client.Timeout
	}
	return defaultFeedTimeout
}

// Refresh re-downloads url regardless of the cache.
func (f *FeedFetcher) Refresh(ctx context.Context, url string) error {
	eps, err := f.download(ctx, url)
	if err != nil {
		return err
	}
	f.store(url, eps)
	return nil
}

func (f *FeedFetcher) cached(url string) ([]FeedEpisode, bool) {
	if f.ttl <= 0 {
		return nil, false
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	c, ok := f.feeds[url]
	if !ok || f.now().After(c.expires) {
		return nil, false
	}
	return c.episodes, true
}

func (f *FeedFetcher) store(url string, eps []FeedEpisode) {
	if f.ttl <= 0 {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.feeds[url] = cachedFeed{episodes: eps, expires: f.now().Add(f.ttl)}
}

func (f *FeedFetcher) download(ctx context.Context, url string) ([]FeedEpisode, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request for %s: %w", ErrUpstream, url, err)
	}
	req.Header.Set("Accept", "application/rss+xml, application/xml;q=0.9, */*;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s: %w", ErrUpstream, url, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			slog.Debug("failed to close feed body", "url", url, "error", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: fetch %s: unexpected status %d", ErrUpstream, url, resp.StatusCode)
	}

	eps, err := ParseFeed(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUpstream, url, err)
	}
	slog.Debug("feed downloaded", "url", url, "episodes", len(eps))
	return eps, nil
}
