// Copyright (c) 2025 The reside Authors.
// Use of this source code is governed by the MIT License. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

The environment is read first with github.com/caarlos0/env, then flags are
parsed with the environment values as their defaults.

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: PostgreSQL URL or SQLite DSN (required)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - PrincipalSalt: Secret for principal signatures (required)
  - SeedFile: Optional YAML residence bootstrap
  - AllowSelfVote: Owners may vote for their own apartment (default: true)
  - TieBreak: lowest-number or reject (default: lowest-number)
  - ClearApplicationsOnProposal: Empty the application book on proposal (default: false)

# Environment Variables

	PORT                           → -p
	DATABASE_URL                   → -d
	DATABASE_TYPE                  → -t
	PRINCIPAL_SALT                 → -principal-salt
	SEED_FILE                      → -seed
	ALLOW_SELF_VOTE                → -allow-self-vote
	TIE_BREAK                      → -tie-break
	CLEAR_APPLICATIONS_ON_PROPOSAL → -clear-applications

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if:

  - DATABASE_URL is missing
  - PRINCIPAL_SALT is missing
  - the port, database type or tie-break policy is unknown

Database types are checked with db.DriverName, so every alias db.Open
accepts (postgresql, pg, sqlite3) is accepted here too.

# Example

	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	// ...
	opts, err := cfg.ElectionOptions()
	// ...
	c, err := canister.New(ctx, db.NewStore(conn), opts)
*/
package cliparse
