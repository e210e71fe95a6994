// Copyright (c) 2025 The reside Authors.
// Use of this source code is governed by the MIT License. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - InitializeResidenceRequest: name, apartments_count, builder, maintenance_expenses
  - AddApartmentRequest: number, name, owner
  - ApplyForCouncilRequest: apartment, role
  - VoteForCouncilRequest: voter_apartment, target_apartment, role

# Response Types

Types for JSON responses:

  - ResidenceResponse: residence, phase, cycle, expense totals
  - ProposalResponse: cycle, phase, candidates
  - VoteForCouncilResponse: cycle, replaced, message
  - WhoamiResponse: principal, anonymous
  - ErrorResponse: error, message

# Domain Types

  - Residence, Builder, MaintenanceExpense: residence setup
  - Apartment: number, name, owner principal
  - Application: one council application per owner
  - Vote: one vote per (voter apartment, role) per cycle
  - Ballot, BallotRole: the open cycle's candidates and progress
  - CouncilResult, CouncilMember, CandidateCount: finalized outcome

# Council Roles

CouncilRole is a closed enumeration ordered Chairman < Treasurer < Controller.
It marshals as its lowercase name:

	"chairman", "treasurer", "controller"

# Phases

	PhaseIdle       = "idle"        // residence not initialized
	PhaseCollecting = "collecting"  // applications open
	PhaseVoting     = "voting"      // proposal made, votes open
	PhaseFinalized  = "finalized"   // council computed
*/
package models
