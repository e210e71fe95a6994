// Copyright (c) 2025 The reside Authors.
// Use of this source code is governed by the MIT License. See LICENSE.

package election

import (
	"fmt"
	"slices"

	"github.com/Gisele-123/reside/models"
)

// Snapshot is the complete persisted form of a Residence.
type Snapshot struct {
	Residence    models.Residence
	Phase        models.Phase
	Cycle        uint64
	Apartments   []models.Apartment
	Applications []models.Application
	// Candidates and Votes belong to cycle Cycle.
	Candidates []models.Application
	Votes      []models.Vote
	Result     *models.CouncilResult
}

// Snapshot captures the current state.
func (r *Residence) Snapshot() Snapshot {
	s := Snapshot{
		Residence:    r.info,
		Phase:        r.phase,
		Cycle:        r.cycle,
		Apartments:   r.registry.Apartments(),
		Applications: r.book.List(),
		Candidates:   r.Candidates(),
		Votes:        r.Votes(),
	}
	s.Residence.MaintenanceExpenses = slices.Clone(r.info.MaintenanceExpenses)
	if r.result != nil {
		result := cloneResult(*r.result)
		s.Result = &result
	}
	return s
}

// Restore rebuilds a Residence from a snapshot, rejecting snapshots that
// violate the invariants the operations maintain.
func Restore(s Snapshot, opts Options) (*Residence, error) {
	if !s.Phase.Valid() {
		return nil, fmt.Errorf("restore: unknown phase %q", s.Phase)
	}
	r := New(opts)
	if s.Phase == models.PhaseIdle {
		return r, nil
	}

	r.info = s.Residence
	r.info.MaintenanceExpenses = slices.Clone(s.Residence.MaintenanceExpenses)
	r.registry = NewRegistry(s.Residence.Builder.ID, s.Residence.ApartmentsCount)
	for _, apt := range s.Apartments {
		if _, exists := r.registry.apartments[apt.Number]; exists || apt.Number == 0 {
			return nil, fmt.Errorf("restore: invalid apartment %d", apt.Number)
		}
		r.registry.apartments[apt.Number] = apt
	}

	for _, app := range s.Applications {
		owner, err := r.registry.OwnerOf(app.Apartment)
		if err != nil || owner != app.Owner {
			return nil, fmt.Errorf("restore: application of apartment %d does not match its owner", app.Apartment)
		}
		if _, exists := r.book.byOwner[app.Owner]; exists {
			return nil, fmt.Errorf("restore: owner of apartment %d applied twice", app.Apartment)
		}
		r.book.byOwner[app.Owner] = app
	}

	r.phase = s.Phase
	r.cycle = s.Cycle
	if s.Cycle > 0 {
		r.ballot = newBallot(s.Cycle, slices.Values(s.Candidates))
		for _, v := range s.Votes {
			if _, err := r.registry.Apartment(v.Voter); err != nil {
				return nil, fmt.Errorf("restore: vote from unknown apartment %d", v.Voter)
			}
			if !r.ballot.isCandidate(v.Target, v.Role) {
				return nil, fmt.Errorf("restore: vote for apartment %d, not a %s candidate", v.Target, v.Role)
			}
			r.ballot.cast(v)
		}
	} else if s.Phase == models.PhaseVoting || s.Phase == models.PhaseFinalized {
		return nil, fmt.Errorf("restore: phase %s without a cycle", s.Phase)
	}

	if s.Result != nil {
		result := cloneResult(*s.Result)
		r.result = &result
	}
	if s.Phase == models.PhaseFinalized && r.result == nil {
		return nil, fmt.Errorf("restore: finalized residence without a result")
	}
	return r, nil
}
