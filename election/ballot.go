// Copyright (c) 2025 The reside Authors.
// Use of this source code is governed by the MIT License. See LICENSE.

package election

import (
	"cmp"
	"iter"
	"maps"
	"slices"

	"github.com/Gisele-123/reside/models"
)

type voteKey struct {
	voter uint32
	role  models.CouncilRole
}

// ballot is one generation of the election: the candidates frozen when the
// proposal was made and the votes cast against them. A new proposal builds a
// new ballot instead of clearing this one.
type ballot struct {
	cycle      uint64
	candidates map[models.CouncilRole]map[uint32]models.Application
	votes      map[voteKey]uint32
}

func newBallot(cycle uint64, apps iter.Seq[models.Application]) *ballot {
	b := &ballot{
		cycle:      cycle,
		candidates: make(map[models.CouncilRole]map[uint32]models.Application),
		votes:      make(map[voteKey]uint32),
	}
	for app := range apps {
		if b.candidates[app.Role] == nil {
			b.candidates[app.Role] = make(map[uint32]models.Application)
		}
		b.candidates[app.Role][app.Apartment] = app
	}
	return b
}

func (b *ballot) isCandidate(apartment uint32, role models.CouncilRole) bool {
	_, ok := b.candidates[role][apartment]
	return ok
}

// cast records v, replacing an earlier vote of the same voter for the same role.
func (b *ballot) cast(v models.Vote) (replaced bool) {
	key := voteKey{voter: v.Voter, role: v.Role}
	_, replaced = b.votes[key]
	b.votes[key] = v.Target
	return replaced
}

func (b *ballot) hasVoted(voter uint32, role models.CouncilRole) bool {
	_, ok := b.votes[voteKey{voter: voter, role: role}]
	return ok
}

func (b *ballot) votesCast(role models.CouncilRole) int {
	n := 0
	for key := range b.votes {
		if key.role == role {
			n++
		}
	}
	return n
}

// voteList returns the votes ordered by voter apartment, then role.
func (b *ballot) voteList() []models.Vote {
	votes := make([]models.Vote, 0, len(b.votes))
	for key, target := range b.votes {
		votes = append(votes, models.Vote{Voter: key.voter, Target: target, Role: key.role})
	}
	slices.SortFunc(votes, func(x, y models.Vote) int {
		if c := cmp.Compare(x.Voter, y.Voter); c != 0 {
			return c
		}
		return cmp.Compare(x.Role, y.Role)
	})
	return votes
}

func (b *ballot) candidateList() []models.Application {
	apps := []models.Application{}
	for _, byApartment := range b.candidates {
		for _, app := range byApartment {
			apps = append(apps, app)
		}
	}
	slices.SortFunc(apps, compareApplications)
	return apps
}

func (b *ballot) candidateNumbers(role models.CouncilRole) []uint32 {
	numbers := slices.Collect(maps.Keys(b.candidates[role]))
	slices.Sort(numbers)
	if numbers == nil {
		numbers = []uint32{}
	}
	return numbers
}

func (b *ballot) clone() *ballot {
	c := &ballot{
		cycle:      b.cycle,
		candidates: make(map[models.CouncilRole]map[uint32]models.Application, len(b.candidates)),
		votes:      maps.Clone(b.votes),
	}
	for role, byApartment := range b.candidates {
		c.candidates[role] = maps.Clone(byApartment)
	}
	return c
}
