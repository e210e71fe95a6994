// Copyright (c) 2025 The reside Authors.
// Use of this source code is governed by the MIT License. See LICENSE.

/*
Package election implements the council election of a residence.

# Phases

A Residence moves through four phases:

	idle → collecting → voting ⇄ finalized
	                      ↺ MakeCouncilProposal

Initialize opens the collecting phase. MakeCouncilProposal freezes the
application book into a new ballot, increments the cycle and opens voting.
It is accepted from any phase but idle; proposing while voting is open
replaces the ballot and discards its votes, which is how a cycle with a
role nobody applied for is restarted once applications arrive.
FinalizeCouncil closes the cycle once every apartment voted for every role.

# Components

  - Registry: apartments and the builder allowed to add them
  - ApplicationBook: one application per owner across all roles
  - ballot: one cycle's candidates and votes, replaced wholesale per proposal
  - Tally: pure per-role winner computation

# Tie-breaking

Tally elects the strictly highest count. When several apartments share it the
TieBreak policy decides:

	TieBreakLowestNumber  // lowest apartment number wins, Outcome.Tied is set
	TieBreakReject        // ErrTie, the cycle stays open

# Concurrency

Residence is not safe for concurrent use. The canister package serializes
calls and persists every change.

# Errors

All failures are sentinel errors wrapped with context; use errors.Is:

	if errors.Is(err, election.ErrIncompleteVoting) { ... }
*/
package election
