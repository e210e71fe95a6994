// Copyright (c) 2025 The reside Authors.
// Use of this source code is governed by the MIT License. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/Gisele-123/reside/models"
	"github.com/Gisele-123/reside/testutil"
)

// TestConcurrentVotes verifies that simultaneous votes from every apartment
// are all recorded exactly once
func TestConcurrentVotes(t *testing.T) {
	cfg := testutil.GetTestConfig()
	h, _ := setupVoting(t, cfg)

	var successCount atomic.Int32
	var wg sync.WaitGroup

	for voter := uint32(1); voter <= 3; voter++ {
		for i, role := range models.CouncilRoles {
			wg.Add(1)
			go func(voter, target uint32, role models.CouncilRole) {
				defer wg.Done()
				if w := vote(h, cfg, voter, target, role); w.Code == http.StatusOK {
					successCount.Add(1)
				}
			}(voter, uint32(i+1), role)
		}
	}
	wg.Wait()

	if successCount.Load() != 9 {
		t.Errorf("Expected 9 successful votes, got %d", successCount.Load())
	}

	w := httptest.NewRecorder()
	h.GetCouncilBallot(w, testutil.MakeRequest("GET", "/council/ballot", nil, nil))
	var ballot models.Ballot
	testutil.AssertJSON(t, w, &ballot)
	for _, r := range ballot.Roles {
		if r.VotesCast != 3 {
			t.Errorf("Expected 3 votes for %s, got %d", r.Role, r.VotesCast)
		}
	}

	w = httptest.NewRecorder()
	h.FinalizeCouncil(w, testutil.MakeRequest("POST", "/council/finalize", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)
}

// TestConcurrentApplications verifies that when one owner applies for several
// roles at once, exactly one application is accepted
func TestConcurrentApplications(t *testing.T) {
	cfg := testutil.GetTestConfig()
	c := testutil.SetupTestCanister(t, cfg)
	testutil.CreateTestResidence(t, c, 1)
	h := NewCouncilHandler(c, cfg)

	var successCount, conflictCount atomic.Int32
	var wg sync.WaitGroup

	for _, role := range models.CouncilRoles {
		wg.Add(1)
		go func(role models.CouncilRole) {
			defer wg.Done()
			w := httptest.NewRecorder()
			h.ApplyForCouncil(w, testutil.MakeRequest("POST", "/council/applications",
				models.ApplyForCouncilRequest{Apartment: 1, Role: rolePtr(role)},
				testutil.PrincipalHeaders(testutil.Owner(1), cfg)))
			switch w.Code {
			case http.StatusCreated:
				successCount.Add(1)
			case http.StatusConflict:
				conflictCount.Add(1)
			}
		}(role)
	}
	wg.Wait()

	if successCount.Load() != 1 {
		t.Errorf("Expected exactly 1 accepted application, got %d", successCount.Load())
	}
	if conflictCount.Load() != 2 {
		t.Errorf("Expected 2 conflicts, got %d", conflictCount.Load())
	}
}
