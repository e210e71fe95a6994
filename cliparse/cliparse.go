package cliparse

import (
	"errors"
	"flag"
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/Gisele-123/reside/db"
	"github.com/Gisele-123/reside/election"
)

type Config struct {
	Port          int    `env:"PORT" envDefault:"3318"`
	DatabaseURL   string `env:"DATABASE_URL"`
	DatabaseType  string `env:"DATABASE_TYPE" envDefault:"sqlite"`
	PrincipalSalt string `env:"PRINCIPAL_SALT"`
	SeedFile      string `env:"SEED_FILE"`

	// Election product decisions
	AllowSelfVote               bool   `env:"ALLOW_SELF_VOTE" envDefault:"true"`
	TieBreak                    string `env:"TIE_BREAK" envDefault:"lowest-number"`
	ClearApplicationsOnProposal bool   `env:"CLEAR_APPLICATIONS_ON_PROPOSAL" envDefault:"false"`
}

// ParseFlags reads the environment, then lets command-line flags override it.
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	fs := flag.NewFlagSet("reside", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", cfg.Port, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", cfg.DatabaseURL, "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", cfg.DatabaseType, "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.SeedFile, "seed", cfg.SeedFile, "YAML file to bootstrap the residence from")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.PrincipalSalt, "principal-salt", cfg.PrincipalSalt, "Principal signature salt (prefer env)")

	fs.BoolVar(&cfg.AllowSelfVote, "allow-self-vote", cfg.AllowSelfVote, "Allow owners to vote for their own apartment")
	fs.StringVar(&cfg.TieBreak, "tie-break", cfg.TieBreak, "Tie-break policy (lowest-number or reject)")
	fs.BoolVar(&cfg.ClearApplicationsOnProposal, "clear-applications", cfg.ClearApplicationsOnProposal, "Empty the application book when a proposal is made")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("invalid port %d", cfg.Port)
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}
	if _, err := db.DriverName(cfg.DatabaseType); err != nil {
		return Config{}, fmt.Errorf("%w (use sqlite or postgres)", err)
	}

	// Secrets - MUST be provided
	if cfg.PrincipalSalt == "" {
		return Config{}, errors.New("PRINCIPAL_SALT required")
	}

	if _, err := cfg.ElectionOptions(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// ElectionOptions converts the election settings.
func (c Config) ElectionOptions() (election.Options, error) {
	tieBreak, err := election.ParseTieBreak(c.TieBreak)
	if err != nil {
		return election.Options{}, err
	}
	return election.Options{
		AllowSelfVote:               c.AllowSelfVote,
		TieBreak:                    tieBreak,
		ClearApplicationsOnProposal: c.ClearApplicationsOnProposal,
	}, nil
}
