// Copyright (c) 2025 The reside Authors.
// Use of this source code is governed by the MIT License. See LICENSE.

package canister

import (
	"context"

	"github.com/Gisele-123/reside/election"
	"github.com/Gisele-123/reside/models"
)

// Overview is a consistent read of the residence header.
type Overview struct {
	Residence            models.Residence
	Phase                models.Phase
	Cycle                uint64
	ApartmentsRegistered int
}

func (c *Canister) Overview() (Overview, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	info, err := c.res.Info()
	if err != nil {
		return Overview{}, err
	}
	return Overview{
		Residence:            info,
		Phase:                c.res.Phase(),
		Cycle:                c.res.Cycle(),
		ApartmentsRegistered: c.res.ApartmentCount(),
	}, nil
}

func (c *Canister) Phase() models.Phase {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.res.Phase()
}

func (c *Canister) Options() election.Options {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.res.Options()
}

func (c *Canister) Apartments() ([]models.Apartment, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.res.Initialized() {
		return nil, election.ErrNotInitialized
	}
	return c.res.Apartments(), nil
}

func (c *Canister) CouncilApplications() ([]models.Application, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.res.Initialized() {
		return nil, election.ErrNotInitialized
	}
	return c.res.CouncilApplications(), nil
}

// Ballot summarizes the open cycle.
func (c *Canister) Ballot() (models.Ballot, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.res.Initialized() {
		return models.Ballot{}, election.ErrNotInitialized
	}
	return c.res.Ballot(), nil
}

func (c *Canister) CouncilMembers() (models.CouncilResult, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.res.CouncilMembers()
}

// CouncilResults lists every finalized cycle, newest first.
func (c *Canister) CouncilResults(ctx context.Context) ([]models.CouncilResult, error) {
	c.mu.RLock()
	info, err := c.res.Info()
	c.mu.RUnlock()
	if err != nil {
		return nil, err
	}
	return c.store.CouncilResults(ctx, info.ID)
}
