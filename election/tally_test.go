// Copyright (c) 2025 The reside Authors.
// Use of this source code is governed by the MIT License. See LICENSE.

package election

import (
	"errors"
	"reflect"
	"testing"

	"github.com/Gisele-123/reside/models"
)

func votesFor(role models.CouncilRole, targets ...uint32) []models.Vote {
	votes := make([]models.Vote, len(targets))
	for i, target := range targets {
		votes[i] = models.Vote{Voter: uint32(i + 1), Target: target, Role: role}
	}
	return votes
}

func TestTally(t *testing.T) {
	tests := []struct {
		name       string
		votes      []models.Vote
		policy     TieBreak
		wantWinner uint32
		wantVotes  int
		wantTied   bool
		wantCounts []models.CandidateCount
	}{
		{
			name:       "clear majority",
			votes:      votesFor(models.Chairman, 2, 2, 3),
			policy:     TieBreakLowestNumber,
			wantWinner: 2,
			wantVotes:  2,
			wantCounts: []models.CandidateCount{{Apartment: 2, Votes: 2}, {Apartment: 3, Votes: 1}},
		},
		{
			name:       "unanimous",
			votes:      votesFor(models.Chairman, 1, 1, 1),
			policy:     TieBreakLowestNumber,
			wantWinner: 1,
			wantVotes:  3,
			wantCounts: []models.CandidateCount{{Apartment: 1, Votes: 3}},
		},
		{
			name:       "tie goes to lowest apartment number",
			votes:      votesFor(models.Chairman, 7, 3, 7, 3, 9),
			policy:     TieBreakLowestNumber,
			wantWinner: 3,
			wantVotes:  2,
			wantTied:   true,
			wantCounts: []models.CandidateCount{{Apartment: 3, Votes: 2}, {Apartment: 7, Votes: 2}, {Apartment: 9, Votes: 1}},
		},
		{
			name:       "empty policy uses default",
			votes:      votesFor(models.Chairman, 5, 4),
			policy:     "",
			wantWinner: 4,
			wantVotes:  1,
			wantTied:   true,
			wantCounts: []models.CandidateCount{{Apartment: 4, Votes: 1}, {Apartment: 5, Votes: 1}},
		},
		{
			name: "votes of other roles are ignored",
			votes: append(votesFor(models.Chairman, 1, 2, 2),
				models.Vote{Voter: 1, Target: 1, Role: models.Treasurer},
				models.Vote{Voter: 2, Target: 1, Role: models.Treasurer},
			),
			policy:     TieBreakLowestNumber,
			wantWinner: 2,
			wantVotes:  2,
			wantCounts: []models.CandidateCount{{Apartment: 1, Votes: 1}, {Apartment: 2, Votes: 2}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Tally(tt.votes, models.Chairman, tt.policy)
			if err != nil {
				t.Fatalf("Tally() error = %v", err)
			}
			if out.Winner != tt.wantWinner {
				t.Errorf("Expected winner %d, got %d", tt.wantWinner, out.Winner)
			}
			if out.WinnerVotes != tt.wantVotes {
				t.Errorf("Expected %d winner votes, got %d", tt.wantVotes, out.WinnerVotes)
			}
			if out.Tied != tt.wantTied {
				t.Errorf("Expected tied=%v, got %v", tt.wantTied, out.Tied)
			}
			if out.TieBreak != TieBreakLowestNumber {
				t.Errorf("Expected tie-break %q recorded, got %q", TieBreakLowestNumber, out.TieBreak)
			}
			if !reflect.DeepEqual(out.Counts, tt.wantCounts) {
				t.Errorf("Expected counts %v, got %v", tt.wantCounts, out.Counts)
			}
		})
	}
}

func TestTally_Deterministic(t *testing.T) {
	votes := votesFor(models.Treasurer, 4, 8, 8, 4, 6, 2, 2)

	first, err := Tally(votes, models.Treasurer, TieBreakLowestNumber)
	if err != nil {
		t.Fatalf("Tally() error = %v", err)
	}
	for i := 0; i < 50; i++ {
		again, err := Tally(votes, models.Treasurer, TieBreakLowestNumber)
		if err != nil {
			t.Fatalf("Tally() error = %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("Tally() is not deterministic: %+v vs %+v", first, again)
		}
	}
	if first.Winner != 2 {
		t.Errorf("Expected winner 2, got %d", first.Winner)
	}

	// Input must not be touched
	if votes[0].Target != 4 || len(votes) != 7 {
		t.Error("Tally() mutated its input")
	}
}

func TestTally_NoVotesCast(t *testing.T) {
	tests := []struct {
		name  string
		votes []models.Vote
	}{
		{"nil votes", nil},
		{"only other roles", votesFor(models.Controller, 1, 2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tally(tt.votes, models.Chairman, TieBreakLowestNumber)
			if !errors.Is(err, ErrNoVotesCast) {
				t.Errorf("Expected ErrNoVotesCast, got %v", err)
			}
		})
	}
}

func TestTally_RejectPolicy(t *testing.T) {
	out, err := Tally(votesFor(models.Chairman, 1, 2), models.Chairman, TieBreakReject)
	if !errors.Is(err, ErrTie) {
		t.Fatalf("Expected ErrTie, got %v", err)
	}
	if !out.Tied {
		t.Error("Expected outcome to report the tie")
	}

	// Without a tie the reject policy elects normally
	out, err = Tally(votesFor(models.Chairman, 1, 2, 2), models.Chairman, TieBreakReject)
	if err != nil {
		t.Fatalf("Tally() error = %v", err)
	}
	if out.Winner != 2 {
		t.Errorf("Expected winner 2, got %d", out.Winner)
	}
}

func TestTally_UnknownPolicy(t *testing.T) {
	_, err := Tally(votesFor(models.Chairman, 1), models.Chairman, "coin-flip")
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}

func TestTallyAll(t *testing.T) {
	var votes []models.Vote
	for _, role := range models.CouncilRoles {
		votes = append(votes, votesFor(role, 3, 3, 1)...)
	}

	outcomes, err := TallyAll(votes, TieBreakLowestNumber)
	if err != nil {
		t.Fatalf("TallyAll() error = %v", err)
	}
	if len(outcomes) != len(models.CouncilRoles) {
		t.Fatalf("Expected %d outcomes, got %d", len(models.CouncilRoles), len(outcomes))
	}
	for i, out := range outcomes {
		if out.Role != models.CouncilRoles[i] {
			t.Errorf("Expected role %s at %d, got %s", models.CouncilRoles[i], i, out.Role)
		}
		if out.Winner != 3 {
			t.Errorf("Expected winner 3 for %s, got %d", out.Role, out.Winner)
		}
	}

	_, err = TallyAll(votesFor(models.Chairman, 1), TieBreakLowestNumber)
	if !errors.Is(err, ErrNoVotesCast) {
		t.Errorf("Expected ErrNoVotesCast for missing roles, got %v", err)
	}
}

func TestParseTieBreak(t *testing.T) {
	tests := []struct {
		in      string
		want    TieBreak
		wantErr bool
	}{
		{"", TieBreakLowestNumber, false},
		{"lowest-number", TieBreakLowestNumber, false},
		{"reject", TieBreakReject, false},
		{"highest-number", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTieBreak(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTieBreak(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseTieBreak(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
