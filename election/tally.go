// Copyright (c) 2025 The reside Authors.
// Use of this source code is governed by the MIT License. See LICENSE.

package election

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/Gisele-123/reside/models"
)

// TieBreak selects how Tally resolves several candidates sharing the highest count.
type TieBreak string

const (
	// TieBreakLowestNumber elects the lowest apartment number among the leaders.
	TieBreakLowestNumber TieBreak = "lowest-number"
	// TieBreakReject refuses to elect anyone and returns ErrTie.
	TieBreakReject TieBreak = "reject"
)

// ParseTieBreak accepts a policy name; the empty string selects the default.
func ParseTieBreak(s string) (TieBreak, error) {
	switch TieBreak(s) {
	case "", TieBreakLowestNumber:
		return TieBreakLowestNumber, nil
	case TieBreakReject:
		return TieBreakReject, nil
	}
	return "", fmt.Errorf("%w: unknown tie-break policy %q", ErrInvalidInput, s)
}

// Outcome is the result of tallying one role.
type Outcome struct {
	Role        models.CouncilRole
	Winner      uint32
	WinnerVotes int
	Tied        bool
	TieBreak    TieBreak
	// Counts holds every apartment that received a vote, ordered by number.
	Counts []models.CandidateCount
}

// Tally counts the votes cast for role and picks the apartment with the most
// votes. It reads votes only and is safe to call repeatedly.
func Tally(votes []models.Vote, role models.CouncilRole, policy TieBreak) (Outcome, error) {
	policy, err := ParseTieBreak(string(policy))
	if err != nil {
		return Outcome{}, err
	}

	perTarget := make(map[uint32]int)
	for _, v := range votes {
		if v.Role == role {
			perTarget[v.Target]++
		}
	}
	if len(perTarget) == 0 {
		return Outcome{}, fmt.Errorf("%w for %s", ErrNoVotesCast, role)
	}

	out := Outcome{
		Role:     role,
		TieBreak: policy,
		Counts:   make([]models.CandidateCount, 0, len(perTarget)),
	}
	for apartment, n := range perTarget {
		out.Counts = append(out.Counts, models.CandidateCount{Apartment: apartment, Votes: n})
	}
	slices.SortFunc(out.Counts, func(a, b models.CandidateCount) int {
		return cmp.Compare(a.Apartment, b.Apartment)
	})

	// Counts are ascending by apartment, so a strict comparison keeps the
	// lowest number among equal leaders.
	leaders := 0
	for i, c := range out.Counts {
		switch {
		case i == 0 || c.Votes > out.WinnerVotes:
			out.Winner = c.Apartment
			out.WinnerVotes = c.Votes
			leaders = 1
		case c.Votes == out.WinnerVotes:
			leaders++
		}
	}
	out.Tied = leaders > 1

	if out.Tied && policy == TieBreakReject {
		return out, fmt.Errorf("%w for %s: %d candidates with %d votes", ErrTie, role, leaders, out.WinnerVotes)
	}
	return out, nil
}

// TallyAll tallies every council role in enumeration order.
func TallyAll(votes []models.Vote, policy TieBreak) ([]Outcome, error) {
	outcomes := make([]Outcome, 0, len(models.CouncilRoles))
	for _, role := range models.CouncilRoles {
		out, err := Tally(votes, role, policy)
		if err != nil {
			return nil, err
		}
		outcomes = append(outcomes, out)
	}
	return outcomes, nil
}
