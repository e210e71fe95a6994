// Copyright (c) 2025 The reside Authors.
// Use of this source code is governed by the MIT License. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// The schema sticks to types both PostgreSQL and SQLite accept. Timestamps
// are unix milliseconds.
const schema = `
-- Residence
CREATE TABLE IF NOT EXISTS residence (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    apartments_count BIGINT NOT NULL CHECK (apartments_count > 0),
    builder_id TEXT NOT NULL,
    builder_name TEXT NOT NULL DEFAULT '',
    builder_contact TEXT NOT NULL DEFAULT '',
    phase TEXT NOT NULL DEFAULT 'collecting' CHECK (phase IN ('idle', 'collecting', 'voting', 'finalized')),
    cycle BIGINT NOT NULL DEFAULT 0,
    created_at BIGINT NOT NULL
);

-- Maintenance Expenses
CREATE TABLE IF NOT EXISTS maintenance_expense (
    residence_id TEXT NOT NULL REFERENCES residence(id) ON DELETE CASCADE,
    ordinal INTEGER NOT NULL,
    name TEXT NOT NULL,
    amount DOUBLE PRECISION NOT NULL CHECK (amount >= 0),
    PRIMARY KEY (residence_id, ordinal)
);

-- Apartments
CREATE TABLE IF NOT EXISTS apartment (
    residence_id TEXT NOT NULL REFERENCES residence(id) ON DELETE CASCADE,
    number BIGINT NOT NULL CHECK (number > 0),
    name TEXT NOT NULL,
    owner TEXT NOT NULL,
    created_at BIGINT NOT NULL,
    PRIMARY KEY (residence_id, number)
);

CREATE INDEX IF NOT EXISTS idx_apartment_owner ON apartment(residence_id, owner);

-- Council Applications (one per owner)
CREATE TABLE IF NOT EXISTS council_application (
    residence_id TEXT NOT NULL REFERENCES residence(id) ON DELETE CASCADE,
    owner TEXT NOT NULL,
    apartment BIGINT NOT NULL,
    role TEXT NOT NULL CHECK (role IN ('chairman', 'treasurer', 'controller')),
    created_at BIGINT NOT NULL,
    PRIMARY KEY (residence_id, owner)
);

-- Candidates frozen by the open proposal
CREATE TABLE IF NOT EXISTS council_candidate (
    residence_id TEXT NOT NULL REFERENCES residence(id) ON DELETE CASCADE,
    cycle BIGINT NOT NULL,
    apartment BIGINT NOT NULL,
    role TEXT NOT NULL,
    owner TEXT NOT NULL,
    PRIMARY KEY (residence_id, role, apartment)
);

-- Votes of the open cycle
CREATE TABLE IF NOT EXISTS council_vote (
    residence_id TEXT NOT NULL REFERENCES residence(id) ON DELETE CASCADE,
    cycle BIGINT NOT NULL,
    voter BIGINT NOT NULL,
    role TEXT NOT NULL,
    target BIGINT NOT NULL,
    cast_at BIGINT NOT NULL,
    PRIMARY KEY (residence_id, voter, role)
);

CREATE INDEX IF NOT EXISTS idx_council_vote_cycle ON council_vote(residence_id, cycle);

-- Council Results
CREATE TABLE IF NOT EXISTS council_result (
    residence_id TEXT NOT NULL REFERENCES residence(id) ON DELETE CASCADE,
    cycle BIGINT NOT NULL,
    tie_break TEXT NOT NULL,
    finalized_at BIGINT NOT NULL,
    payload TEXT NOT NULL,
    PRIMARY KEY (residence_id, cycle)
);
`
