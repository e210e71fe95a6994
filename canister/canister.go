// Copyright (c) 2025 The reside Authors.
// Use of this source code is governed by the MIT License. See LICENSE.

package canister

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Gisele-123/reside/election"
	"github.com/Gisele-123/reside/models"
)

// ErrStorage wraps failures of the backing store. The in-memory state is
// left unchanged when it is returned.
var ErrStorage = errors.New("storage failure")

// Store is the persistence the canister writes through to.
type Store interface {
	InitializeResidence(ctx context.Context, info models.Residence, createdAt time.Time) error
	InsertApartment(ctx context.Context, residenceID string, apt models.Apartment, at time.Time) error
	InsertApplication(ctx context.Context, residenceID string, app models.Application, at time.Time) error
	OpenCycle(ctx context.Context, residenceID string, cycle uint64, candidates []models.Application, clearApplications bool) error
	UpsertVote(ctx context.Context, residenceID string, cycle uint64, v models.Vote, at time.Time) error
	SaveResult(ctx context.Context, residenceID string, result models.CouncilResult) error
	LoadResidence(ctx context.Context) (election.Snapshot, bool, error)
	CouncilResults(ctx context.Context, residenceID string) ([]models.CouncilResult, error)
}

// Canister owns the residence of this process. Operations run one at a time:
// each applies to a clone, persists the change and only then swaps the clone
// in, so a failed write leaves the previous state in place.
type Canister struct {
	mu    sync.RWMutex
	store Store
	res   *election.Residence
	now   func() time.Time
	newID func() string
}

// New loads the persisted residence, or starts idle when there is none.
func New(ctx context.Context, store Store, opts election.Options) (*Canister, error) {
	snap, found, err := store.LoadResidence(ctx)
	if err != nil {
		return nil, fmt.Errorf("load residence: %w", err)
	}

	res := election.New(opts)
	if found {
		res, err = election.Restore(snap, opts)
		if err != nil {
			return nil, err
		}
		slog.Info("residence loaded",
			"residence_id", snap.Residence.ID,
			"phase", snap.Phase,
			"cycle", snap.Cycle,
			"apartments", len(snap.Apartments))
	}

	return &Canister{
		store: store,
		res:   res,
		now:   time.Now,
		newID: uuid.NewString,
	}, nil
}

// SetClock replaces the time source used for timestamps.
func (c *Canister) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

func (c *Canister) mutate(op string, apply func(next *election.Residence) error, persist func(next *election.Residence) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.res.Clone()
	if err := apply(next); err != nil {
		return err
	}
	if err := persist(next); err != nil {
		slog.Error("failed to persist", "op", op, "error", err)
		return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
	}
	c.res = next
	return nil
}

// InitializeResidence sets up the residence under a fresh identifier.
func (c *Canister) InitializeResidence(ctx context.Context, info models.Residence) (models.Residence, error) {
	var created models.Residence
	err := c.mutate("initialize", func(next *election.Residence) error {
		info.ID = c.newID()
		if err := next.Initialize(info); err != nil {
			return err
		}
		created, _ = next.Info()
		return nil
	}, func(next *election.Residence) error {
		return c.store.InitializeResidence(ctx, created, c.now())
	})
	if err != nil {
		return models.Residence{}, err
	}

	slog.Info("residence initialized",
		"residence_id", created.ID,
		"name", created.Name,
		"apartments_count", created.ApartmentsCount,
		"builder", created.Builder.ID)
	return created, nil
}

// AddApartment registers an apartment on behalf of caller.
func (c *Canister) AddApartment(ctx context.Context, caller string, apt models.Apartment) (models.Apartment, error) {
	var added models.Apartment
	err := c.mutate("add apartment", func(next *election.Residence) error {
		if err := next.AddApartment(caller, apt); err != nil {
			return err
		}
		added, _ = next.Apartment(apt.Number)
		return nil
	}, func(next *election.Residence) error {
		return c.store.InsertApartment(ctx, residenceID(next), added, c.now())
	})
	if err != nil {
		return models.Apartment{}, err
	}

	slog.Info("apartment added", "number", added.Number, "owner", added.Owner)
	return added, nil
}

// ApplyForCouncil records caller's application.
func (c *Canister) ApplyForCouncil(ctx context.Context, apartment uint32, role models.CouncilRole, caller string) (models.Application, error) {
	var app models.Application
	err := c.mutate("apply for council", func(next *election.Residence) error {
		var err error
		app, err = next.ApplyForCouncil(apartment, role, caller)
		return err
	}, func(next *election.Residence) error {
		return c.store.InsertApplication(ctx, residenceID(next), app, c.now())
	})
	if err != nil {
		return models.Application{}, err
	}

	slog.Info("council application received", "apartment", app.Apartment, "role", app.Role)
	return app, nil
}

// MakeCouncilProposal opens a new voting cycle and returns its candidates.
func (c *Canister) MakeCouncilProposal(ctx context.Context) (uint64, []models.Application, error) {
	var (
		cycle      uint64
		candidates []models.Application
	)
	err := c.mutate("make council proposal", func(next *election.Residence) error {
		var err error
		if cycle, err = next.MakeCouncilProposal(); err != nil {
			return err
		}
		candidates = next.Candidates()
		return nil
	}, func(next *election.Residence) error {
		return c.store.OpenCycle(ctx, residenceID(next), cycle, candidates, next.Options().ClearApplicationsOnProposal)
	})
	if err != nil {
		return 0, nil, err
	}

	slog.Info("council proposal made", "cycle", cycle, "candidates", len(candidates))
	return cycle, candidates, nil
}

// VoteForCouncil records a vote and reports whether it replaced an earlier one.
func (c *Canister) VoteForCouncil(ctx context.Context, voter, target uint32, role models.CouncilRole, caller string) (replaced bool, cycle uint64, err error) {
	vote := models.Vote{Voter: voter, Target: target, Role: role}
	err = c.mutate("vote for council", func(next *election.Residence) error {
		var err error
		replaced, err = next.VoteForCouncil(voter, target, role, caller)
		cycle = next.Cycle()
		return err
	}, func(next *election.Residence) error {
		return c.store.UpsertVote(ctx, residenceID(next), cycle, vote, c.now())
	})
	if err != nil {
		return false, 0, err
	}

	slog.Debug("vote recorded", "cycle", cycle, "voter", voter, "role", role, "replaced", replaced)
	return replaced, cycle, nil
}

// FinalizeCouncil closes the open cycle and stores its council.
func (c *Canister) FinalizeCouncil(ctx context.Context) (models.CouncilResult, error) {
	var result models.CouncilResult
	err := c.mutate("finalize council", func(next *election.Residence) error {
		var err error
		result, err = next.FinalizeCouncil(c.now())
		return err
	}, func(next *election.Residence) error {
		return c.store.SaveResult(ctx, residenceID(next), result)
	})
	if err != nil {
		return models.CouncilResult{}, err
	}

	attrs := []any{"cycle", result.Cycle, "tie_break", result.TieBreak}
	for _, m := range result.Members {
		attrs = append(attrs, m.Role.String(), m.Apartment)
	}
	slog.Info("council finalized", attrs...)
	return result, nil
}

func residenceID(r *election.Residence) string {
	info, _ := r.Info()
	return info.ID
}
