// Copyright (c) 2025 The reside Authors.
// Use of this source code is governed by the MIT License. See LICENSE.

/*
Package main provides the entry point for the reside API server.

reside runs the council election of a residential cooperative: the builder
registers apartments, owners apply for Chairman, Treasurer, or Controller,
every apartment votes for every role, and the top vote getter per role
joins the council.

# Starting the Server

The server reads environment variables (optionally from a .env file) and
CLI flags:

	PRINCIPAL_SALT=... DATABASE_URL=reside.db go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." -principal-salt ...

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite file path or PostgreSQL connection string
  - PRINCIPAL_SALT (-principal-salt): Secret for principal signatures

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - SEED_FILE (-seed): YAML residence to bootstrap on first start
  - ALLOW_SELF_VOTE (-allow-self-vote): default true
  - TIE_BREAK (-tie-break): lowest-number or reject
  - CLEAR_APPLICATIONS_ON_PROPOSAL (-clear-applications): default false

# Architecture

  - election: Registry, application book, phases, and tally
  - canister: Serialized access to the election with durable commits
  - db: Schema and store for SQLite and PostgreSQL
  - handlers: HTTP request handlers (residence, council)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, request IDs, JSON helpers
  - auth: Principal signatures
  - seed: YAML bootstrap
  - models: Domain and request/response types
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
