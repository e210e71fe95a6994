// Copyright (c) 2025 The reside Authors.
// Use of this source code is governed by the MIT License. See LICENSE.

/*
Package router defines HTTP routes for the reside API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(c, cfg)

# Endpoints

Health:

	GET /health

Residence (mutations take X-Principal and X-Principal-Signature):

	POST /residence  - Initialize the residence
	GET  /residence  - Residence, phase, cycle, expense total
	POST /apartments - Register an apartment (builder only)
	GET  /apartments - List apartments by number
	GET  /whoami     - Resolved caller identity

Council election:

	POST /council/applications - Apply for a role (owner only)
	GET  /council/applications - List applications
	POST /council/proposal     - Open a voting cycle
	POST /council/votes        - Cast or replace a vote
	GET  /council/ballot       - Candidates and votes cast per role
	POST /council/finalize     - Tally and close the cycle

Results (public):

	GET /council/members - Council of the last finalized cycle
	GET /council/results - Every finalized cycle, newest first
*/
package router
