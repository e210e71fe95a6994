// Copyright (c) 2025 The reside Authors.
// Use of this source code is governed by the MIT License. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/Gisele-123/reside/canister"
	"github.com/Gisele-123/reside/cliparse"
	"github.com/Gisele-123/reside/middleware"
	"github.com/Gisele-123/reside/models"
)

type CouncilHandler struct {
	c   *canister.Canister
	cfg cliparse.Config
}

func NewCouncilHandler(c *canister.Canister, cfg cliparse.Config) *CouncilHandler {
	return &CouncilHandler{c: c, cfg: cfg}
}

// ApplyForCouncil handles POST /council/applications
func (h *CouncilHandler) ApplyForCouncil(w http.ResponseWriter, r *http.Request) {
	principal, ok := caller(w, r, h.cfg.PrincipalSalt)
	if !ok {
		return
	}

	var req models.ApplyForCouncilRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Role == nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "role is required")
		return
	}

	app, err := h.c.ApplyForCouncil(r.Context(), req.Apartment, *req.Role, principal)
	if err != nil {
		writeError(w, "apply for council", err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, app)
}

// GetCouncilApplications handles GET /council/applications
func (h *CouncilHandler) GetCouncilApplications(w http.ResponseWriter, r *http.Request) {
	apps, err := h.c.CouncilApplications()
	if err != nil {
		writeError(w, "list council applications", err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, apps)
}

// MakeCouncilProposal handles POST /council/proposal
func (h *CouncilHandler) MakeCouncilProposal(w http.ResponseWriter, r *http.Request) {
	if _, ok := caller(w, r, h.cfg.PrincipalSalt); !ok {
		return
	}

	cycle, candidates, err := h.c.MakeCouncilProposal(r.Context())
	if err != nil {
		writeError(w, "make council proposal", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ProposalResponse{
		Cycle:      cycle,
		Phase:      models.PhaseVoting,
		Candidates: candidates,
	})
}

// VoteForCouncil handles POST /council/votes
func (h *CouncilHandler) VoteForCouncil(w http.ResponseWriter, r *http.Request) {
	principal, ok := caller(w, r, h.cfg.PrincipalSalt)
	if !ok {
		return
	}

	var req models.VoteForCouncilRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Role == nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "role is required")
		return
	}

	replaced, cycle, err := h.c.VoteForCouncil(r.Context(), req.VoterApartment, req.TargetApartment, *req.Role, principal)
	if err != nil {
		writeError(w, "record vote", err)
		return
	}

	msg := "Vote recorded"
	if replaced {
		msg = "Vote updated"
	}
	middleware.JSONResponse(w, http.StatusOK, models.VoteForCouncilResponse{
		Cycle:    cycle,
		Replaced: replaced,
		Message:  msg,
	})
}

// GetCouncilBallot handles GET /council/ballot
func (h *CouncilHandler) GetCouncilBallot(w http.ResponseWriter, r *http.Request) {
	ballot, err := h.c.Ballot()
	if err != nil {
		writeError(w, "load ballot", err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, ballot)
}

// FinalizeCouncil handles POST /council/finalize
func (h *CouncilHandler) FinalizeCouncil(w http.ResponseWriter, r *http.Request) {
	if _, ok := caller(w, r, h.cfg.PrincipalSalt); !ok {
		return
	}

	result, err := h.c.FinalizeCouncil(r.Context())
	if err != nil {
		writeError(w, "finalize council", err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, result)
}

// GetCouncilMembers handles GET /council/members
func (h *CouncilHandler) GetCouncilMembers(w http.ResponseWriter, r *http.Request) {
	result, err := h.c.CouncilMembers()
	if err != nil {
		writeError(w, "load council members", err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, result)
}

// GetCouncilResults handles GET /council/results
func (h *CouncilHandler) GetCouncilResults(w http.ResponseWriter, r *http.Request) {
	results, err := h.c.CouncilResults(r.Context())
	if err != nil {
		writeError(w, "load council results", err)
		return
	}
	if results == nil {
		results = []models.CouncilResult{}
	}
	middleware.JSONResponse(w, http.StatusOK, results)
}
