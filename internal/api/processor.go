package api

import (
	"context"
	"errors"
	"fmt"

	"github.com/jorgej/gimlet-skill-sub000/internal/domain"
	"github.com/jorgej/gimlet-skill-sub000/internal/identity"
	"github.com/jorgej/gimlet-skill-sub000/internal/session"
	"github.com/jorgej/gimlet-skill-sub000/internal/skill"
	"github.com/jorgej/gimlet-skill-sub000/internal/store"
)

// Dispatcher handles one skill request against an attribute bag.
type Dispatcher interface {
	Handle(ctx context.Context, req skill.Request, bag session.Bag) (skill.Response, error)
}

// Processor loads the user's attributes, dispatches the request and stores
// the attributes again when the response asks for it.
type Processor struct {
	skill Dispatcher
	repo  store.Repository
}

func NewProcessor(d Dispatcher, repo store.Repository) *Processor {
	return &Processor{skill: d, repo: repo}
}

// Result is a processed request.
type Result struct {
	Response skill.Response
	// State is the dialogue state after the request.
	State domain.DialogueState
}

// Process runs req for req.UserID.
func (p *Processor) Process(ctx context.Context, req skill.Request) (Result, error) {
	if req.UserID == "" {
		return Result{}, errors.New("request has no user id")
	}

	bag, err := p.repo.GetAttributes(ctx, req.UserID)
	if err != nil {
		return Result{}, fmt.Errorf("load attributes: %w", err)
	}
	if bag == nil {
		bag = session.NewBag()
	}

	resp, err := p.skill.Handle(ctx, req, bag)
	if err != nil {
		return Result{}, err
	}

	if resp.PersistSession {
		if err := p.repo.PutAttributes(ctx, req.UserID, bag); err != nil {
			// The user still gets their answer; the next request starts from
			// the previously stored bag.
			identity.LoggerFromContext(ctx).Error("failed to persist attributes", "error", err)
		}
	}
	return Result{Response: resp, State: session.NewAttributes(bag).State()}, nil
}
