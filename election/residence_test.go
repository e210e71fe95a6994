// Copyright (c) 2025 The reside Authors.
// Use of this source code is governed by the MIT License. See LICENSE.

package election

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Gisele-123/reside/models"
)

const testBuilder = "builder-principal"

func owner(n uint32) string {
	return fmt.Sprintf("owner-%d", n)
}

// newTestResidence initializes a residence with apartments 1..n, each owned
// by owner(i).
func newTestResidence(t *testing.T, opts Options, n uint32) *Residence {
	t.Helper()

	r := New(opts)
	err := r.Initialize(models.Residence{
		ID:                  "test-residence",
		Name:                "Sunrise",
		ApartmentsCount:     n,
		Builder:             models.Builder{ID: testBuilder, Name: "ACME"},
		MaintenanceExpenses: []models.MaintenanceExpense{{Name: "Elevator", Amount: 100}},
	})
	if err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	for i := uint32(1); i <= n; i++ {
		apt := models.Apartment{Number: i, Name: fmt.Sprintf("Apt %d", i), Owner: owner(i)}
		if err := r.AddApartment(testBuilder, apt); err != nil {
			t.Fatalf("AddApartment(%d) error = %v", i, err)
		}
	}
	return r
}

// openScenario applies 1→Chairman, 2→Treasurer, 3→Controller and opens voting.
func openScenario(t *testing.T, opts Options) *Residence {
	t.Helper()

	r := newTestResidence(t, opts, 3)
	for i, role := range models.CouncilRoles {
		apt := uint32(i + 1)
		if _, err := r.ApplyForCouncil(apt, role, owner(apt)); err != nil {
			t.Fatalf("ApplyForCouncil(%d, %s) error = %v", apt, role, err)
		}
	}
	if _, err := r.MakeCouncilProposal(); err != nil {
		t.Fatalf("MakeCouncilProposal() error = %v", err)
	}
	return r
}

// voteUnanimously makes every apartment vote for the role's single candidate.
func voteUnanimously(t *testing.T, r *Residence) {
	t.Helper()

	for voter := uint32(1); voter <= 3; voter++ {
		for i, role := range models.CouncilRoles {
			if _, err := r.VoteForCouncil(voter, uint32(i+1), role, owner(voter)); err != nil {
				t.Fatalf("VoteForCouncil(%d, %d, %s) error = %v", voter, i+1, role, err)
			}
		}
	}
}

func TestInitialize(t *testing.T) {
	valid := models.Residence{
		Name:                "Sunrise",
		ApartmentsCount:     3,
		Builder:             models.Builder{ID: testBuilder},
		MaintenanceExpenses: []models.MaintenanceExpense{{Name: "Cleaning", Amount: 10}},
	}

	tests := []struct {
		name    string
		mutate  func(*models.Residence)
		wantErr error
	}{
		{"valid", func(*models.Residence) {}, nil},
		{"empty name", func(r *models.Residence) { r.Name = "  " }, ErrInvalidInput},
		{"zero apartments", func(r *models.Residence) { r.ApartmentsCount = 0 }, ErrInvalidInput},
		{"missing builder", func(r *models.Residence) { r.Builder.ID = "" }, ErrInvalidInput},
		{"anonymous builder", func(r *models.Residence) { r.Builder.ID = models.AnonymousPrincipal }, ErrInvalidInput},
		{"no expenses", func(r *models.Residence) { r.MaintenanceExpenses = nil }, ErrInvalidInput},
		{"negative expense", func(r *models.Residence) {
			r.MaintenanceExpenses = []models.MaintenanceExpense{{Name: "Refund", Amount: -1}}
		}, ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := valid
			tt.mutate(&info)

			r := New(DefaultOptions())
			err := r.Initialize(info)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Expected error %v, got %v", tt.wantErr, err)
			}
			if tt.wantErr != nil && r.Phase() != models.PhaseIdle {
				t.Errorf("Expected failed initialize to stay idle, got %s", r.Phase())
			}
			if tt.wantErr == nil && r.Phase() != models.PhaseCollecting {
				t.Errorf("Expected phase collecting, got %s", r.Phase())
			}
		})
	}

	r := New(DefaultOptions())
	if err := r.Initialize(valid); err != nil {
		t.Fatal(err)
	}
	if err := r.Initialize(valid); !errors.Is(err, ErrAlreadyInitialized) {
		t.Errorf("Expected ErrAlreadyInitialized, got %v", err)
	}
}

func TestIdleResidence(t *testing.T) {
	r := New(DefaultOptions())

	if _, err := r.Info(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Info: expected ErrNotInitialized, got %v", err)
	}
	if err := r.AddApartment(testBuilder, models.Apartment{Number: 1, Name: "A", Owner: "o"}); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("AddApartment: expected ErrNotInitialized, got %v", err)
	}
	if _, err := r.ApplyForCouncil(1, models.Chairman, "o"); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("ApplyForCouncil: expected ErrNotInitialized, got %v", err)
	}
	if _, err := r.MakeCouncilProposal(); !errors.Is(err, ErrInvalidState) {
		t.Errorf("MakeCouncilProposal: expected ErrInvalidState, got %v", err)
	}
	if _, err := r.CouncilMembers(); !errors.Is(err, ErrNotFinalized) {
		t.Errorf("CouncilMembers: expected ErrNotFinalized, got %v", err)
	}
}

func TestAddApartment(t *testing.T) {
	tests := []struct {
		name    string
		caller  string
		apt     models.Apartment
		wantErr error
	}{
		{"builder adds apartment", testBuilder, models.Apartment{Number: 10, Name: "Penthouse", Owner: "zoe"}, nil},
		{"non builder", owner(1), models.Apartment{Number: 10, Name: "Penthouse", Owner: "zoe"}, ErrUnauthorized},
		{"duplicate number", testBuilder, models.Apartment{Number: 1, Name: "Again", Owner: "zoe"}, ErrDuplicateApartment},
		{"zero number", testBuilder, models.Apartment{Number: 0, Name: "Ground", Owner: "zoe"}, ErrInvalidInput},
		{"empty name", testBuilder, models.Apartment{Number: 11, Name: " ", Owner: "zoe"}, ErrInvalidInput},
		{"missing owner", testBuilder, models.Apartment{Number: 11, Name: "Loft"}, ErrInvalidInput},
		{"anonymous owner", testBuilder, models.Apartment{Number: 11, Name: "Loft", Owner: models.AnonymousPrincipal}, ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestResidence(t, DefaultOptions(), 2)
			r.registry.capacity = 5

			err := r.AddApartment(tt.caller, tt.apt)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Expected error %v, got %v", tt.wantErr, err)
			}

			wantCount := 2
			if tt.wantErr == nil {
				wantCount = 3
			}
			if r.ApartmentCount() != wantCount {
				t.Errorf("Expected %d apartments, got %d", wantCount, r.ApartmentCount())
			}
		})
	}
}

func TestAddApartment_DuplicateBeforeCapacity(t *testing.T) {
	r := newTestResidence(t, DefaultOptions(), 3)

	// Registry is full, but a repeated number still reports the duplicate
	err := r.AddApartment(testBuilder, models.Apartment{Number: 2, Name: "Again", Owner: "x"})
	if !errors.Is(err, ErrDuplicateApartment) {
		t.Errorf("Expected ErrDuplicateApartment, got %v", err)
	}

	err = r.AddApartment(testBuilder, models.Apartment{Number: 4, Name: "Extra", Owner: "x"})
	if !errors.Is(err, ErrCapacityReached) {
		t.Errorf("Expected ErrCapacityReached, got %v", err)
	}
}

func TestOwnerOf(t *testing.T) {
	r := newTestResidence(t, DefaultOptions(), 2)

	got, err := r.registry.OwnerOf(2)
	if err != nil {
		t.Fatalf("OwnerOf() error = %v", err)
	}
	if got != owner(2) {
		t.Errorf("Expected owner %q, got %q", owner(2), got)
	}
	if _, err := r.registry.OwnerOf(99); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestApplyForCouncil(t *testing.T) {
	tests := []struct {
		name      string
		apartment uint32
		role      models.CouncilRole
		caller    string
		wantErr   error
	}{
		{"owner applies", 1, models.Chairman, owner(1), nil},
		{"unknown apartment", 42, models.Chairman, owner(1), ErrNotFound},
		{"not the owner", 2, models.Treasurer, owner(1), ErrUnauthorized},
		{"invalid role", 1, models.CouncilRole(9), owner(1), ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestResidence(t, DefaultOptions(), 3)

			app, err := r.ApplyForCouncil(tt.apartment, tt.role, tt.caller)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Expected error %v, got %v", tt.wantErr, err)
			}
			if tt.wantErr != nil {
				if r.ApplicationCount() != 0 {
					t.Errorf("Expected no application recorded, got %d", r.ApplicationCount())
				}
				return
			}
			if app.Apartment != tt.apartment || app.Role != tt.role || app.Owner != tt.caller {
				t.Errorf("Unexpected application %+v", app)
			}
		})
	}
}

func TestApplyForCouncil_OneApplicationPerOwner(t *testing.T) {
	r := New(DefaultOptions())
	err := r.Initialize(models.Residence{
		Name:                "Twin Towers",
		ApartmentsCount:     3,
		Builder:             models.Builder{ID: testBuilder},
		MaintenanceExpenses: []models.MaintenanceExpense{{Name: "Garden", Amount: 5}},
	})
	if err != nil {
		t.Fatal(err)
	}
	// carol owns two apartments
	for _, apt := range []models.Apartment{
		{Number: 1, Name: "A", Owner: "carol"},
		{Number: 2, Name: "B", Owner: "carol"},
		{Number: 3, Name: "C", Owner: "dave"},
	} {
		if err := r.AddApartment(testBuilder, apt); err != nil {
			t.Fatal(err)
		}
	}

	if _, err := r.ApplyForCouncil(1, models.Chairman, "carol"); err != nil {
		t.Fatalf("first application failed: %v", err)
	}

	attempts := []struct {
		apartment uint32
		role      models.CouncilRole
	}{
		{1, models.Chairman},
		{1, models.Treasurer},
		{2, models.Controller},
	}
	for _, a := range attempts {
		_, err := r.ApplyForCouncil(a.apartment, a.role, "carol")
		if !errors.Is(err, ErrDuplicateApplication) {
			t.Errorf("apply(%d, %s): expected ErrDuplicateApplication, got %v", a.apartment, a.role, err)
		}
	}

	if _, err := r.ApplyForCouncil(3, models.Chairman, "dave"); err != nil {
		t.Errorf("other owner should still apply: %v", err)
	}
	if r.ApplicationCount() != 2 {
		t.Errorf("Expected 2 applications, got %d", r.ApplicationCount())
	}
}

func TestCouncilApplications_Ordering(t *testing.T) {
	r := newTestResidence(t, DefaultOptions(), 4)

	submissions := []struct {
		apartment uint32
		role      models.CouncilRole
	}{
		{4, models.Chairman},
		{2, models.Controller},
		{3, models.Treasurer},
		{1, models.Controller},
	}
	for _, s := range submissions {
		if _, err := r.ApplyForCouncil(s.apartment, s.role, owner(s.apartment)); err != nil {
			t.Fatal(err)
		}
	}

	for pass := 0; pass < 2; pass++ {
		var got []uint32
		for app := range r.book.All() {
			got = append(got, app.Apartment)
		}
		want := []uint32{1, 2, 3, 4}
		if fmt.Sprint(got) != fmt.Sprint(want) {
			t.Errorf("pass %d: expected order %v, got %v", pass, want, got)
		}
	}

	// Stopping early must not panic
	for range r.book.All() {
		break
	}

	if apps := r.CouncilApplications(); len(apps) != 4 || apps[0].Role != models.Controller {
		t.Errorf("Unexpected listing %+v", apps)
	}
}

func TestMakeCouncilProposal(t *testing.T) {
	r := newTestResidence(t, DefaultOptions(), 3)

	if _, err := r.MakeCouncilProposal(); !errors.Is(err, ErrNoApplications) {
		t.Fatalf("Expected ErrNoApplications, got %v", err)
	}
	if r.Phase() != models.PhaseCollecting || r.Cycle() != 0 {
		t.Fatalf("failed proposal changed state: phase=%s cycle=%d", r.Phase(), r.Cycle())
	}

	if _, err := r.ApplyForCouncil(1, models.Chairman, owner(1)); err != nil {
		t.Fatal(err)
	}
	cycle, err := r.MakeCouncilProposal()
	if err != nil {
		t.Fatalf("MakeCouncilProposal() error = %v", err)
	}
	if cycle != 1 || r.Cycle() != 1 {
		t.Errorf("Expected cycle 1, got %d", cycle)
	}
	if r.Phase() != models.PhaseVoting {
		t.Errorf("Expected phase voting, got %s", r.Phase())
	}

	if len(r.CouncilApplications()) != 1 {
		t.Error("Expected proposal to keep applications")
	}
}

func TestMakeCouncilProposal_WhileVotingReplacesBallot(t *testing.T) {
	r := openScenario(t, DefaultOptions())

	if _, err := r.VoteForCouncil(1, 1, models.Chairman, owner(1)); err != nil {
		t.Fatal(err)
	}
	cycle, err := r.MakeCouncilProposal()
	if err != nil {
		t.Fatalf("MakeCouncilProposal() while voting error = %v", err)
	}
	if cycle != 2 || r.Phase() != models.PhaseVoting {
		t.Errorf("Expected voting cycle 2, got %d %s", cycle, r.Phase())
	}
	if votes := r.Votes(); len(votes) != 0 {
		t.Errorf("Expected votes of cycle 1 to be discarded, got %v", votes)
	}
	if _, err := r.CouncilMembers(); !errors.Is(err, ErrNotFinalized) {
		t.Errorf("Expected no council, got %v", err)
	}
}

func TestVoteForCouncil_Validation(t *testing.T) {
	tests := []struct {
		name    string
		voter   uint32
		target  uint32
		role    models.CouncilRole
		caller  string
		wantErr error
	}{
		{"valid vote", 1, 2, models.Treasurer, owner(1), nil},
		{"unknown voter", 9, 2, models.Treasurer, owner(1), ErrNotFound},
		{"unknown target", 1, 9, models.Treasurer, owner(1), ErrNotFound},
		{"target not candidate for role", 1, 2, models.Chairman, owner(1), ErrNotACandidate},
		{"not the voter's owner", 1, 2, models.Treasurer, owner(2), ErrUnauthorized},
		{"anonymous caller", 1, 2, models.Treasurer, models.AnonymousPrincipal, ErrUnauthorized},
		{"invalid role", 1, 2, models.CouncilRole(-1), owner(1), ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := openScenario(t, DefaultOptions())

			_, err := r.VoteForCouncil(tt.voter, tt.target, tt.role, tt.caller)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Expected error %v, got %v", tt.wantErr, err)
			}
			wantVotes := 0
			if tt.wantErr == nil {
				wantVotes = 1
			}
			if len(r.Votes()) != wantVotes {
				t.Errorf("Expected %d votes recorded, got %d", wantVotes, len(r.Votes()))
			}
		})
	}
}

func TestVoteForCouncil_NotACandidateRegardlessOfCaller(t *testing.T) {
	callers := []string{owner(1), owner(2), owner(3), testBuilder, models.AnonymousPrincipal, ""}

	for _, caller := range callers {
		r := openScenario(t, DefaultOptions())
		// apartment 3 applied for Controller only
		_, err := r.VoteForCouncil(1, 3, models.Chairman, caller)
		if !errors.Is(err, ErrNotACandidate) {
			t.Errorf("caller %q: expected ErrNotACandidate, got %v", caller, err)
		}
	}
}

func TestVoteForCouncil_InvalidState(t *testing.T) {
	r := newTestResidence(t, DefaultOptions(), 3)
	if _, err := r.ApplyForCouncil(1, models.Chairman, owner(1)); err != nil {
		t.Fatal(err)
	}

	_, err := r.VoteForCouncil(1, 1, models.Chairman, owner(1))
	if !errors.Is(err, ErrInvalidState) {
		t.Errorf("Expected ErrInvalidState before a proposal, got %v", err)
	}
	if _, err := r.FinalizeCouncil(time.Now()); !errors.Is(err, ErrInvalidState) {
		t.Errorf("Expected ErrInvalidState finalizing before a proposal, got %v", err)
	}
}

func TestVoteForCouncil_LastWriteWins(t *testing.T) {
	r := newTestResidence(t, DefaultOptions(), 3)
	for _, apt := range []uint32{1, 2} {
		if _, err := r.ApplyForCouncil(apt, models.Chairman, owner(apt)); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := r.MakeCouncilProposal(); err != nil {
		t.Fatal(err)
	}

	replaced, err := r.VoteForCouncil(3, 1, models.Chairman, owner(3))
	if err != nil || replaced {
		t.Fatalf("first vote: replaced=%v err=%v", replaced, err)
	}
	replaced, err = r.VoteForCouncil(3, 2, models.Chairman, owner(3))
	if err != nil {
		t.Fatal(err)
	}
	if !replaced {
		t.Error("Expected second vote to replace the first")
	}

	votes := r.Votes()
	if len(votes) != 1 {
		t.Fatalf("Expected a single vote, got %d", len(votes))
	}
	if votes[0].Target != 2 {
		t.Errorf("Expected latest target 2, got %d", votes[0].Target)
	}
}

func TestVoteForCouncil_SelfVote(t *testing.T) {
	allowed := openScenario(t, DefaultOptions())
	if _, err := allowed.VoteForCouncil(1, 1, models.Chairman, owner(1)); err != nil {
		t.Errorf("Expected self vote to be allowed by default, got %v", err)
	}

	opts := DefaultOptions()
	opts.AllowSelfVote = false
	denied := openScenario(t, opts)
	if _, err := denied.VoteForCouncil(1, 1, models.Chairman, owner(1)); !errors.Is(err, ErrSelfVoteNotAllowed) {
		t.Errorf("Expected ErrSelfVoteNotAllowed, got %v", err)
	}
	if _, err := denied.VoteForCouncil(2, 1, models.Chairman, owner(2)); err != nil {
		t.Errorf("Expected vote for another apartment to pass, got %v", err)
	}
}

func TestEndToEnd_UnanimousCouncil(t *testing.T) {
	r := openScenario(t, DefaultOptions())
	voteUnanimously(t, r)

	if len(r.Votes()) != 9 {
		t.Fatalf("Expected 9 votes, got %d", len(r.Votes()))
	}

	finalizedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	result, err := r.FinalizeCouncil(finalizedAt)
	if err != nil {
		t.Fatalf("FinalizeCouncil() error = %v", err)
	}
	if r.Phase() != models.PhaseFinalized {
		t.Errorf("Expected phase finalized, got %s", r.Phase())
	}

	want := map[models.CouncilRole]uint32{
		models.Chairman:   1,
		models.Treasurer:  2,
		models.Controller: 3,
	}
	members, err := r.CouncilMembers()
	if err != nil {
		t.Fatalf("CouncilMembers() error = %v", err)
	}
	for role, apt := range want {
		m, ok := members.Member(role)
		if !ok {
			t.Fatalf("missing member for %s", role)
		}
		if m.Apartment != apt {
			t.Errorf("%s: expected apartment %d, got %d", role, apt, m.Apartment)
		}
		if m.Owner != owner(apt) {
			t.Errorf("%s: expected owner %q, got %q", role, owner(apt), m.Owner)
		}
		if m.Votes != 3 || m.Tied {
			t.Errorf("%s: expected 3 untied votes, got %d tied=%v", role, m.Votes, m.Tied)
		}
	}
	if result.Cycle != 1 || !result.FinalizedAt.Equal(finalizedAt) {
		t.Errorf("Unexpected result metadata %+v", result)
	}
	if result.TieBreak != string(TieBreakLowestNumber) {
		t.Errorf("Expected tie-break recorded, got %q", result.TieBreak)
	}

	// Returned result is a copy
	result.Members[0].Apartment = 99
	again, _ := r.CouncilMembers()
	if again.Members[0].Apartment == 99 {
		t.Error("CouncilMembers() shares state with caller")
	}
}

func TestFinalize_IncompleteVoting(t *testing.T) {
	for skipVoter := uint32(1); skipVoter <= 3; skipVoter++ {
		for skipIdx, skipRole := range models.CouncilRoles {
			t.Run(fmt.Sprintf("apartment %d skips %s", skipVoter, skipRole), func(t *testing.T) {
				r := openScenario(t, DefaultOptions())
				for voter := uint32(1); voter <= 3; voter++ {
					for i, role := range models.CouncilRoles {
						if voter == skipVoter && i == skipIdx {
							continue
						}
						if _, err := r.VoteForCouncil(voter, uint32(i+1), role, owner(voter)); err != nil {
							t.Fatal(err)
						}
					}
				}

				_, err := r.FinalizeCouncil(time.Now())
				if !errors.Is(err, ErrIncompleteVoting) {
					t.Fatalf("Expected ErrIncompleteVoting, got %v", err)
				}
				if r.Phase() != models.PhaseVoting {
					t.Errorf("Expected to stay in voting, got %s", r.Phase())
				}
				if _, err := r.CouncilMembers(); !errors.Is(err, ErrNotFinalized) {
					t.Errorf("Expected ErrNotFinalized, got %v", err)
				}

				// Casting the missing vote completes the round
				if _, err := r.VoteForCouncil(skipVoter, uint32(skipIdx+1), skipRole, owner(skipVoter)); err != nil {
					t.Fatal(err)
				}
				if _, err := r.FinalizeCouncil(time.Now()); err != nil {
					t.Errorf("Expected finalize to succeed once complete, got %v", err)
				}
			})
		}
	}
}

func TestFinalize_RoleWithoutCandidatesRecovers(t *testing.T) {
	r := newTestResidence(t, DefaultOptions(), 3)
	if _, err := r.ApplyForCouncil(1, models.Chairman, owner(1)); err != nil {
		t.Fatal(err)
	}
	if _, err := r.MakeCouncilProposal(); err != nil {
		t.Fatal(err)
	}

	// Applications filed while voting are not on the open ballot
	if _, err := r.ApplyForCouncil(2, models.Treasurer, owner(2)); err != nil {
		t.Fatal(err)
	}
	if _, err := r.ApplyForCouncil(3, models.Controller, owner(3)); err != nil {
		t.Fatal(err)
	}
	if _, err := r.VoteForCouncil(1, 2, models.Treasurer, owner(1)); !errors.Is(err, ErrNotACandidate) {
		t.Fatalf("Expected ErrNotACandidate, got %v", err)
	}
	for voter := uint32(1); voter <= 3; voter++ {
		if _, err := r.VoteForCouncil(voter, 1, models.Chairman, owner(voter)); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := r.FinalizeCouncil(time.Now()); !errors.Is(err, ErrIncompleteVoting) {
		t.Fatalf("Expected ErrIncompleteVoting, got %v", err)
	}

	// Proposing again puts the late applications on a fresh ballot
	cycle, err := r.MakeCouncilProposal()
	if err != nil {
		t.Fatalf("MakeCouncilProposal() while voting error = %v", err)
	}
	if cycle != 2 {
		t.Errorf("Expected cycle 2, got %d", cycle)
	}
	if len(r.Votes()) != 0 {
		t.Errorf("Expected a fresh ballot, got %d votes", len(r.Votes()))
	}

	voteUnanimously(t, r)
	result, err := r.FinalizeCouncil(time.Now())
	if err != nil {
		t.Fatalf("FinalizeCouncil() error = %v", err)
	}
	if result.Cycle != 2 {
		t.Errorf("Expected result for cycle 2, got %d", result.Cycle)
	}
	for i, role := range models.CouncilRoles {
		if m, ok := result.Member(role); !ok || m.Apartment != uint32(i+1) {
			t.Errorf("Expected %s to be apartment %d, got %+v", role, i+1, m)
		}
	}
}

func TestFinalize_TieBreakPolicies(t *testing.T) {
	build := func(policy TieBreak) *Residence {
		opts := DefaultOptions()
		opts.TieBreak = policy
		r := newTestResidence(t, opts, 4)
		apps := []struct {
			apt  uint32
			role models.CouncilRole
		}{{1, models.Chairman}, {2, models.Chairman}, {3, models.Treasurer}, {4, models.Controller}}
		for _, a := range apps {
			if _, err := r.ApplyForCouncil(a.apt, a.role, owner(a.apt)); err != nil {
				t.Fatal(err)
			}
		}
		if _, err := r.MakeCouncilProposal(); err != nil {
			t.Fatal(err)
		}
		chairChoice := map[uint32]uint32{1: 2, 2: 1, 3: 2, 4: 1}
		for voter := uint32(1); voter <= 4; voter++ {
			votes := []struct {
				target uint32
				role   models.CouncilRole
			}{{chairChoice[voter], models.Chairman}, {3, models.Treasurer}, {4, models.Controller}}
			for _, v := range votes {
				if _, err := r.VoteForCouncil(voter, v.target, v.role, owner(voter)); err != nil {
					t.Fatal(err)
				}
			}
		}
		return r
	}

	lowest := build(TieBreakLowestNumber)
	result, err := lowest.FinalizeCouncil(time.Now())
	if err != nil {
		t.Fatalf("FinalizeCouncil() error = %v", err)
	}
	chair, _ := result.Member(models.Chairman)
	if chair.Apartment != 1 || !chair.Tied {
		t.Errorf("Expected tied chairman resolved to 1, got %+v", chair)
	}

	reject := build(TieBreakReject)
	if _, err := reject.FinalizeCouncil(time.Now()); !errors.Is(err, ErrTie) {
		t.Fatalf("Expected ErrTie, got %v", err)
	}
	if reject.Phase() != models.PhaseVoting {
		t.Errorf("Expected rejected tie to keep voting open, got %s", reject.Phase())
	}
	// Breaking the tie by changing a vote lets finalize succeed
	if _, err := reject.VoteForCouncil(4, 2, models.Chairman, owner(4)); err != nil {
		t.Fatal(err)
	}
	result, err = reject.FinalizeCouncil(time.Now())
	if err != nil {
		t.Fatalf("FinalizeCouncil() error = %v", err)
	}
	if chair, _ := result.Member(models.Chairman); chair.Apartment != 2 {
		t.Errorf("Expected chairman 2, got %d", chair.Apartment)
	}
}

func TestNewCycleDiscardsPreviousVotes(t *testing.T) {
	r := openScenario(t, DefaultOptions())
	voteUnanimously(t, r)
	if _, err := r.FinalizeCouncil(time.Now()); err != nil {
		t.Fatal(err)
	}

	cycle, err := r.MakeCouncilProposal()
	if err != nil {
		t.Fatalf("MakeCouncilProposal() after finalize error = %v", err)
	}
	if cycle != 2 {
		t.Errorf("Expected cycle 2, got %d", cycle)
	}
	if len(r.Votes()) != 0 {
		t.Fatalf("Expected no votes in new cycle, got %d", len(r.Votes()))
	}

	// Cycle 1's chairman vote of apartment 1 must not count in cycle 2
	if _, err := r.FinalizeCouncil(time.Now()); !errors.Is(err, ErrIncompleteVoting) {
		t.Errorf("Expected ErrIncompleteVoting, got %v", err)
	}
	if _, err := r.VoteForCouncil(1, 1, models.Chairman, owner(1)); err != nil {
		t.Fatal(err)
	}
	out, err := Tally(r.Votes(), models.Chairman, TieBreakLowestNumber)
	if err != nil {
		t.Fatal(err)
	}
	if out.WinnerVotes != 1 {
		t.Errorf("Expected only the cycle 2 vote to count, got %d", out.WinnerVotes)
	}

	// Previous result stays queryable until the new cycle finalizes
	members, err := r.CouncilMembers()
	if err != nil || members.Cycle != 1 {
		t.Errorf("Expected cycle 1 result, got %+v err=%v", members, err)
	}
}

func TestClearApplicationsOnProposal(t *testing.T) {
	opts := DefaultOptions()
	opts.ClearApplicationsOnProposal = true
	r := openScenario(t, opts)

	if n := len(r.CouncilApplications()); n != 0 {
		t.Errorf("Expected book to be cleared, got %d applications", n)
	}
	if n := len(r.Candidates()); n != 3 {
		t.Errorf("Expected 3 frozen candidates, got %d", n)
	}
	// Candidates remain votable
	if _, err := r.VoteForCouncil(2, 1, models.Chairman, owner(2)); err != nil {
		t.Errorf("Expected vote for frozen candidate, got %v", err)
	}
	// Owners may apply again for the next cycle
	if _, err := r.ApplyForCouncil(1, models.Treasurer, owner(1)); err != nil {
		t.Errorf("Expected new application after reset, got %v", err)
	}
	// but a late application is not on the open ballot
	if _, err := r.VoteForCouncil(2, 1, models.Treasurer, owner(2)); !errors.Is(err, ErrNotACandidate) {
		t.Errorf("Expected ErrNotACandidate for late application, got %v", err)
	}
}

func TestBallot(t *testing.T) {
	r := openScenario(t, DefaultOptions())
	if _, err := r.VoteForCouncil(1, 1, models.Chairman, owner(1)); err != nil {
		t.Fatal(err)
	}
	if _, err := r.VoteForCouncil(2, 1, models.Chairman, owner(2)); err != nil {
		t.Fatal(err)
	}

	b := r.Ballot()
	if b.Cycle != 1 || b.Phase != models.PhaseVoting || b.ApartmentsRegistered != 3 {
		t.Errorf("Unexpected ballot header %+v", b)
	}
	if len(b.Roles) != 3 {
		t.Fatalf("Expected 3 roles, got %d", len(b.Roles))
	}
	if b.Roles[0].VotesCast != 2 || b.Roles[1].VotesCast != 0 {
		t.Errorf("Unexpected vote progress %+v", b.Roles)
	}
	if len(b.Roles[2].Candidates) != 1 || b.Roles[2].Candidates[0] != 3 {
		t.Errorf("Expected controller candidate 3, got %v", b.Roles[2].Candidates)
	}
}

func TestClone_Independent(t *testing.T) {
	r := openScenario(t, DefaultOptions())
	c := r.Clone()

	if _, err := c.VoteForCouncil(1, 1, models.Chairman, owner(1)); err != nil {
		t.Fatal(err)
	}
	if err := c.AddApartment(testBuilder, models.Apartment{Number: 4, Name: "X", Owner: "x"}); !errors.Is(err, ErrCapacityReached) {
		t.Fatalf("Expected ErrCapacityReached, got %v", err)
	}

	if len(r.Votes()) != 0 {
		t.Error("vote on clone leaked into original")
	}
	if len(c.Votes()) != 1 {
		t.Error("clone lost its vote")
	}
}
