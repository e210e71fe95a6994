// Copyright (c) 2025 The reside Authors.
// Use of this source code is governed by the MIT License. See LICENSE.

package election

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/Gisele-123/reside/models"
)

// Options are the product decisions a residence is configured with.
type Options struct {
	AllowSelfVote bool
	TieBreak      TieBreak
	// ClearApplicationsOnProposal empties the application book once a
	// proposal has frozen it into the ballot, so the next cycle collects anew.
	ClearApplicationsOnProposal bool
}

// DefaultOptions permits self votes and breaks ties by lowest apartment number.
func DefaultOptions() Options {
	return Options{AllowSelfVote: true, TieBreak: TieBreakLowestNumber}
}

// Residence is the election state machine of a single residence. It is not
// safe for concurrent use; callers serialize access to it. Every operation
// validates its input completely before changing any state.
type Residence struct {
	opts     Options
	info     models.Residence
	phase    models.Phase
	cycle    uint64
	registry *Registry
	book     *ApplicationBook
	ballot   *ballot
	result   *models.CouncilResult
}

// New returns an uninitialized residence in the Idle phase.
func New(opts Options) *Residence {
	return &Residence{
		opts:     opts,
		phase:    models.PhaseIdle,
		registry: NewRegistry("", 0),
		book:     NewApplicationBook(),
	}
}

func (r *Residence) Options() Options      { return r.opts }
func (r *Residence) Phase() models.Phase   { return r.phase }
func (r *Residence) Cycle() uint64         { return r.cycle }
func (r *Residence) Initialized() bool     { return r.phase != models.PhaseIdle }
func (r *Residence) ApartmentCount() int   { return r.registry.Count() }
func (r *Residence) ApplicationCount() int { return r.book.Len() }

// Initialize sets up the residence and opens applications.
func (r *Residence) Initialize(info models.Residence) error {
	if r.phase != models.PhaseIdle {
		return ErrAlreadyInitialized
	}
	info.Name = strings.TrimSpace(info.Name)
	info.Builder.ID = strings.TrimSpace(info.Builder.ID)
	if info.Name == "" {
		return fmt.Errorf("%w: residence name cannot be empty", ErrInvalidInput)
	}
	if info.ApartmentsCount == 0 {
		return fmt.Errorf("%w: apartments count must be greater than zero", ErrInvalidInput)
	}
	if info.Builder.ID == "" {
		return fmt.Errorf("%w: builder identity is required", ErrInvalidInput)
	}
	if info.Builder.ID == models.AnonymousPrincipal {
		return fmt.Errorf("%w: builder cannot be the anonymous principal", ErrInvalidInput)
	}
	if len(info.MaintenanceExpenses) == 0 {
		return fmt.Errorf("%w: maintenance expenses cannot be empty", ErrInvalidInput)
	}
	for i, e := range info.MaintenanceExpenses {
		if strings.TrimSpace(e.Name) == "" {
			return fmt.Errorf("%w: maintenance expense %d has no name", ErrInvalidInput, i)
		}
		if e.Amount < 0 {
			return fmt.Errorf("%w: maintenance expense %q is negative", ErrInvalidInput, e.Name)
		}
	}

	info.MaintenanceExpenses = slices.Clone(info.MaintenanceExpenses)
	r.info = info
	r.registry = NewRegistry(info.Builder.ID, info.ApartmentsCount)
	r.book = NewApplicationBook()
	r.phase = models.PhaseCollecting
	return nil
}

// Info returns the residence setup.
func (r *Residence) Info() (models.Residence, error) {
	if r.phase == models.PhaseIdle {
		return models.Residence{}, ErrNotInitialized
	}
	info := r.info
	info.MaintenanceExpenses = slices.Clone(r.info.MaintenanceExpenses)
	return info, nil
}

// AddApartment registers an apartment; only the builder may call it.
func (r *Residence) AddApartment(caller string, apt models.Apartment) error {
	if r.phase == models.PhaseIdle {
		return ErrNotInitialized
	}
	return r.registry.AddApartment(caller, apt)
}

// Apartment looks up a registered apartment.
func (r *Residence) Apartment(number uint32) (models.Apartment, error) {
	return r.registry.Apartment(number)
}

// Apartments lists registered apartments ordered by number.
func (r *Residence) Apartments() []models.Apartment {
	return r.registry.Apartments()
}

// ApplyForCouncil records caller's application for role on behalf of apartment.
// Applications made while a vote is open are not on the current ballot; they
// join the next proposal.
func (r *Residence) ApplyForCouncil(apartment uint32, role models.CouncilRole, caller string) (models.Application, error) {
	if r.phase == models.PhaseIdle {
		return models.Application{}, ErrNotInitialized
	}
	return r.book.Apply(r.registry, apartment, role, caller)
}

// CouncilApplications lists the application book in apartment, role order.
func (r *Residence) CouncilApplications() []models.Application {
	return r.book.List()
}

// MakeCouncilProposal opens a new voting cycle over the current applications.
// A proposal made while a cycle is open replaces its ballot, so votes of any
// previous cycle are discarded.
func (r *Residence) MakeCouncilProposal() (uint64, error) {
	if r.phase == models.PhaseIdle {
		return 0, fmt.Errorf("%w: residence is %s", ErrInvalidState, r.phase)
	}
	if r.book.Len() == 0 {
		return 0, ErrNoApplications
	}

	r.cycle++
	r.ballot = newBallot(r.cycle, r.book.All())
	if r.opts.ClearApplicationsOnProposal {
		r.book.reset()
	}
	r.phase = models.PhaseVoting
	return r.cycle, nil
}

// Candidates lists the applications frozen into the open ballot.
func (r *Residence) Candidates() []models.Application {
	if r.ballot == nil {
		return []models.Application{}
	}
	return r.ballot.candidateList()
}

// VoteForCouncil records the vote of voter for target in role. A repeated vote
// for the same role replaces the previous one.
func (r *Residence) VoteForCouncil(voter, target uint32, role models.CouncilRole, caller string) (replaced bool, err error) {
	if r.phase != models.PhaseVoting {
		return false, fmt.Errorf("%w: voting is not open (phase %s)", ErrInvalidState, r.phase)
	}
	if !role.Valid() {
		return false, fmt.Errorf("%w: unknown council role %d", ErrInvalidInput, int(role))
	}
	voterApt, err := r.registry.Apartment(voter)
	if err != nil {
		return false, err
	}
	targetApt, err := r.registry.Apartment(target)
	if err != nil {
		return false, err
	}
	if !r.ballot.isCandidate(target, role) {
		return false, fmt.Errorf("%w: apartment %d for %s", ErrNotACandidate, target, role)
	}
	if voterApt.Owner != caller {
		return false, fmt.Errorf("%w: only the owner of apartment %d can vote", ErrUnauthorized, voter)
	}
	if !r.opts.AllowSelfVote && targetApt.Owner == caller {
		return false, fmt.Errorf("%w: apartment %d for %s", ErrSelfVoteNotAllowed, target, role)
	}

	return r.ballot.cast(models.Vote{Voter: voter, Target: target, Role: role}), nil
}

// Votes returns the votes of the current cycle.
func (r *Residence) Votes() []models.Vote {
	if r.ballot == nil {
		return []models.Vote{}
	}
	return r.ballot.voteList()
}

// Ballot summarizes the current cycle without revealing per-candidate counts.
func (r *Residence) Ballot() models.Ballot {
	b := models.Ballot{
		Cycle:                r.cycle,
		Phase:                r.phase,
		ApartmentsRegistered: r.registry.Count(),
		Roles:                make([]models.BallotRole, 0, len(models.CouncilRoles)),
	}
	for _, role := range models.CouncilRoles {
		br := models.BallotRole{Role: role, Candidates: []uint32{}}
		if r.ballot != nil {
			br.Candidates = r.ballot.candidateNumbers(role)
			br.VotesCast = r.ballot.votesCast(role)
		}
		b.Roles = append(b.Roles, br)
	}
	return b
}

// FinalizeCouncil computes the council once every apartment has voted for
// every role, then closes the cycle.
func (r *Residence) FinalizeCouncil(now time.Time) (models.CouncilResult, error) {
	if r.phase != models.PhaseVoting {
		return models.CouncilResult{}, fmt.Errorf("%w: voting is not open (phase %s)", ErrInvalidState, r.phase)
	}
	for _, apt := range r.registry.Apartments() {
		for _, role := range models.CouncilRoles {
			if !r.ballot.hasVoted(apt.Number, role) {
				return models.CouncilResult{}, fmt.Errorf("%w: apartment %d has not voted for %s",
					ErrIncompleteVoting, apt.Number, role)
			}
		}
	}

	outcomes, err := TallyAll(r.ballot.voteList(), r.opts.TieBreak)
	if err != nil {
		return models.CouncilResult{}, err
	}

	result := models.CouncilResult{
		Cycle:       r.cycle,
		FinalizedAt: now.UTC(),
		Members:     make([]models.CouncilMember, 0, len(outcomes)),
	}
	for _, out := range outcomes {
		owner, err := r.registry.OwnerOf(out.Winner)
		if err != nil {
			return models.CouncilResult{}, err
		}
		result.TieBreak = string(out.TieBreak)
		result.Members = append(result.Members, models.CouncilMember{
			Role:      out.Role,
			Apartment: out.Winner,
			Owner:     owner,
			Votes:     out.WinnerVotes,
			Tied:      out.Tied,
			Counts:    out.Counts,
		})
	}

	r.result = &result
	r.phase = models.PhaseFinalized
	return cloneResult(result), nil
}

// CouncilMembers returns the result of the last finalized cycle.
func (r *Residence) CouncilMembers() (models.CouncilResult, error) {
	if r.result == nil {
		return models.CouncilResult{}, ErrNotFinalized
	}
	return cloneResult(*r.result), nil
}

// Clone returns a deep copy that shares no state with r.
func (r *Residence) Clone() *Residence {
	c := &Residence{
		opts:     r.opts,
		info:     r.info,
		phase:    r.phase,
		cycle:    r.cycle,
		registry: r.registry.clone(),
		book:     r.book.clone(),
	}
	c.info.MaintenanceExpenses = slices.Clone(r.info.MaintenanceExpenses)
	if r.ballot != nil {
		c.ballot = r.ballot.clone()
	}
	if r.result != nil {
		result := cloneResult(*r.result)
		c.result = &result
	}
	return c
}

func cloneResult(res models.CouncilResult) models.CouncilResult {
	res.Members = slices.Clone(res.Members)
	for i := range res.Members {
		res.Members[i].Counts = slices.Clone(res.Members[i].Counts)
	}
	return res
}
