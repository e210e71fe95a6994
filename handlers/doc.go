// Copyright (c) 2025 The reside Authors.
// Use of this source code is governed by the MIT License. See LICENSE.

/*
Package handlers contains HTTP request handlers for the reside API.

# Handler Types

Each handler is a struct holding the canister and config:

  - ResidenceHandler: Residence setup, apartment registry, caller identity
  - CouncilHandler: Applications, proposals, votes, and council results

Handlers are created via constructor functions:

	councilHandler := handlers.NewCouncilHandler(c, cfg)

# Caller Identity

Every mutating request resolves its caller from the X-Principal and
X-Principal-Signature headers. A request without a principal acts as the
anonymous principal. A principal whose signature does not verify is
rejected with 401 before the operation runs.

# Election Lifecycle

	POST /residence            → InitializeResidence (idle → collecting)
	POST /apartments           → AddApartment (builder only)
	POST /council/applications → ApplyForCouncil (apartment owner only)
	POST /council/proposal     → MakeCouncilProposal (any initialized phase → voting)
	POST /council/votes        → VoteForCouncil (voting only)
	POST /council/finalize     → FinalizeCouncil (voting → finalized)
	GET  /council/members      → GetCouncilMembers

# Errors

Election errors map to fixed status codes in errors.go. Storage failures
answer 500 and are logged with the failing operation.
*/
package handlers
