package skill

import (
	"context"
	"errors"
	"math/rand/v2"

	"github.com/jorgej/gimlet-skill-sub000/internal/domain"
	"github.com/jorgej/gimlet-skill-sub000/internal/identity"
	"github.com/jorgej/gimlet-skill-sub000/internal/session"
)

// Catalog is the show and episode source consulted by handlers.
type Catalog interface {
	ResolveShowID(utterance string) (domain.ShowID, bool)
	IsSerial(id domain.ShowID) bool
	Title(id domain.ShowID) string
	Shows() []domain.Show
	FetchLatestEpisode(ctx context.Context, id domain.ShowID) (domain.Episode, error)
	FetchSerialEpisode(ctx context.Context, id domain.ShowID, index int) (domain.Episode, error)
	FetchFavoriteEpisode(ctx context.Context, id domain.ShowID, index int) (domain.Episode, error)
	Exclusives(ctx context.Context) ([]domain.Episode, error)
	MiscClips(ctx context.Context) ([]string, error)
}

// Authenticator checks account linking.
type Authenticator interface {
	IsAuthenticated(ctx context.Context, accessToken string) (bool, error)
}

// Skill routes requests through the dialogue state machine.
type Skill struct {
	catalog Catalog
	auth    Authenticator
	router  *Router
	pick    func(n int) int
}

// Option configures a Skill.
type Option func(*Skill)

// WithPicker replaces the random choice used for clips. pick(n) must return
// a value in [0, n).
func WithPicker(pick func(n int) int) Option {
	return func(s *Skill) {
		if pick != nil {
			s.pick = pick
		}
	}
}

// New builds the skill and validates its routing tables.
func New(cat Catalog, auth Authenticator, opts ...Option) (*Skill, error) {
	if cat == nil {
		return nil, errors.New("skill: catalog is required")
	}
	if auth == nil {
		return nil, errors.New("skill: authenticator is required")
	}
	s := &Skill{catalog: cat, auth: auth, pick: rand.IntN}
	for _, opt := range opts {
		opt(s)
	}

	// HelpStreak runs outside ErrorResponder so a failed request still
	// updates the streak after the rollback.
	router, err := NewRouter(Chain(HelpStreak(), ErrorResponder(), Instrument()), s.tables()...)
	if err != nil {
		return nil, err
	}
	s.router = router
	return s, nil
}

// Handle dispatches req against bag. The bag is updated in place; the caller
// persists it when the response asks for it.
func (s *Skill) Handle(ctx context.Context, req Request, bag session.Bag) (Response, error) {
	if bag == nil {
		return Response{}, errors.New("skill: nil attribute bag")
	}
	logger := identity.LoggerFromContext(ctx)
	c := NewContext(req, bag, logger)
	if err := s.router.Dispatch(ctx, c); err != nil {
		return Response{}, err
	}
	return c.Response.Result(), nil
}
