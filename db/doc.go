// Copyright (c) 2025 The reside Authors.
// Use of this source code is governed by the MIT License. See LICENSE.

/*
Package db handles database connections, schema creation and persistence of
the residence election.

# Connecting

Open selects the driver from DATABASE_TYPE and pings the database:

	conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)

Both PostgreSQL (github.com/lib/pq) and SQLite (modernc.org/sqlite) are
supported. Queries use $N placeholders, which both drivers accept.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - residence: Residence setup, current phase and cycle
  - maintenance_expense: Ordered expense lines of a residence
  - apartment: Registered apartments and their owners
  - council_application: One application per owner
  - council_candidate: Applications frozen by the open proposal
  - council_vote: One vote per (voter, role) in the open cycle
  - council_result: Finalized councils, payload stored as JSON text

# Relationships

	residence 1──* maintenance_expense
	residence 1──* apartment
	residence 1──* council_application
	residence 1──* council_candidate
	residence 1──* council_vote
	residence 1──* council_result

All foreign keys use ON DELETE CASCADE.

# Store

Store writes one election operation at a time. Multi-row operations
(InitializeResidence, OpenCycle, SaveResult) run in a transaction.
LoadResidence returns an election.Snapshot for election.Restore.
*/
package db
