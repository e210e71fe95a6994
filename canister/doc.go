// Copyright (c) 2025 The reside Authors.
// Use of this source code is governed by the MIT License. See LICENSE.

/*
Package canister hosts the single residence of a running server.

A Canister wraps an election.Residence behind a mutex and writes every
accepted operation through to a Store:

	c, err := canister.New(ctx, db.NewStore(conn), opts)
	cycle, candidates, err := c.MakeCouncilProposal(ctx)

Each operation runs on a clone of the residence. The clone replaces the live
state only after the Store accepted the change, so callers observe either the
full effect of an operation or none of it. Store failures are reported as
ErrStorage; validation failures are the election package's sentinel errors.

Reads take a shared lock and return copies.
*/
package canister
