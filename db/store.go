// Copyright (c) 2025 The reside Authors.
// Use of this source code is governed by the MIT License. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Gisele-123/reside/election"
	"github.com/Gisele-123/reside/models"
)

// Store persists residence election state. Every write mirrors one election
// operation that has already been validated in memory.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

// InitializeResidence inserts the residence and its maintenance expenses.
func (s *Store) InitializeResidence(ctx context.Context, info models.Residence, createdAt time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO residence (id, name, apartments_count, builder_id, builder_name, builder_contact, phase, cycle, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, info.ID, info.Name, int64(info.ApartmentsCount), info.Builder.ID, info.Builder.Name,
		info.Builder.ContactInfo, string(models.PhaseCollecting), int64(0), toMillis(createdAt))
	if err != nil {
		return fmt.Errorf("insert residence: %w", err)
	}

	for i, e := range info.MaintenanceExpenses {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO maintenance_expense (residence_id, ordinal, name, amount)
			VALUES ($1, $2, $3, $4)
		`, info.ID, i, e.Name, e.Amount)
		if err != nil {
			return fmt.Errorf("insert maintenance expense: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *Store) InsertApartment(ctx context.Context, residenceID string, apt models.Apartment, at time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO apartment (residence_id, number, name, owner, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, residenceID, int64(apt.Number), apt.Name, apt.Owner, toMillis(at))
	if err != nil {
		return fmt.Errorf("insert apartment: %w", err)
	}
	return nil
}

func (s *Store) InsertApplication(ctx context.Context, residenceID string, app models.Application, at time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO council_application (residence_id, owner, apartment, role, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, residenceID, app.Owner, int64(app.Apartment), app.Role.String(), toMillis(at))
	if err != nil {
		return fmt.Errorf("insert application: %w", err)
	}
	return nil
}

// OpenCycle replaces the previous ballot with the candidates of cycle and
// moves the residence into the voting phase.
func (s *Store) OpenCycle(ctx context.Context, residenceID string, cycle uint64, candidates []models.Application, clearApplications bool) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM council_vote WHERE residence_id = $1`, residenceID); err != nil {
		return fmt.Errorf("delete votes: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM council_candidate WHERE residence_id = $1`, residenceID); err != nil {
		return fmt.Errorf("delete candidates: %w", err)
	}

	for _, c := range candidates {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO council_candidate (residence_id, cycle, apartment, role, owner)
			VALUES ($1, $2, $3, $4, $5)
		`, residenceID, int64(cycle), int64(c.Apartment), c.Role.String(), c.Owner)
		if err != nil {
			return fmt.Errorf("insert candidate: %w", err)
		}
	}

	if clearApplications {
		if _, err := tx.ExecContext(ctx, `DELETE FROM council_application WHERE residence_id = $1`, residenceID); err != nil {
			return fmt.Errorf("delete applications: %w", err)
		}
	}

	if err := updatePhase(ctx, tx, residenceID, models.PhaseVoting, cycle); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// UpsertVote records a vote, replacing the voter's previous vote for the role.
func (s *Store) UpsertVote(ctx context.Context, residenceID string, cycle uint64, v models.Vote, at time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO council_vote (residence_id, cycle, voter, role, target, cast_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (residence_id, voter, role) DO UPDATE SET
			cycle = excluded.cycle,
			target = excluded.target,
			cast_at = excluded.cast_at
	`, residenceID, int64(cycle), int64(v.Voter), v.Role.String(), int64(v.Target), toMillis(at))
	if err != nil {
		return fmt.Errorf("upsert vote: %w", err)
	}
	return nil
}

// SaveResult stores the finalized council and closes the cycle.
func (s *Store) SaveResult(ctx context.Context, residenceID string, result models.CouncilResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO council_result (residence_id, cycle, tie_break, finalized_at, payload)
		VALUES ($1, $2, $3, $4, $5)
	`, residenceID, int64(result.Cycle), result.TieBreak, toMillis(result.FinalizedAt), string(payload))
	if err != nil {
		return fmt.Errorf("insert result: %w", err)
	}

	if err := updatePhase(ctx, tx, residenceID, models.PhaseFinalized, result.Cycle); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func updatePhase(ctx context.Context, tx *sql.Tx, residenceID string, phase models.Phase, cycle uint64) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE residence SET phase = $1, cycle = $2 WHERE id = $3
	`, string(phase), int64(cycle), residenceID)
	if err != nil {
		return fmt.Errorf("update phase: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update phase: residence %s not found", residenceID)
	}
	return nil
}

// LoadResidence reads the persisted residence. found is false when the
// database holds no residence yet.
func (s *Store) LoadResidence(ctx context.Context) (snap election.Snapshot, found bool, err error) {
	var (
		count, cycle int64
		phase        string
	)
	err = s.db.QueryRowContext(ctx, `
		SELECT id, name, apartments_count, builder_id, builder_name, builder_contact, phase, cycle
		FROM residence
		ORDER BY created_at
		LIMIT 1
	`).Scan(&snap.Residence.ID, &snap.Residence.Name, &count, &snap.Residence.Builder.ID,
		&snap.Residence.Builder.Name, &snap.Residence.Builder.ContactInfo, &phase, &cycle)
	if errors.Is(err, sql.ErrNoRows) {
		return election.Snapshot{Phase: models.PhaseIdle}, false, nil
	}
	if err != nil {
		return election.Snapshot{}, false, fmt.Errorf("query residence: %w", err)
	}
	snap.Residence.ApartmentsCount = uint32(count)
	snap.Phase = models.Phase(phase)
	snap.Cycle = uint64(cycle)
	id := snap.Residence.ID

	if snap.Residence.MaintenanceExpenses, err = s.loadExpenses(ctx, id); err != nil {
		return election.Snapshot{}, false, err
	}
	if snap.Apartments, err = s.loadApartments(ctx, id); err != nil {
		return election.Snapshot{}, false, err
	}
	if snap.Applications, err = s.loadApplications(ctx, `
		SELECT apartment, role, owner FROM council_application
		WHERE residence_id = $1
		ORDER BY apartment
	`, id); err != nil {
		return election.Snapshot{}, false, err
	}
	if snap.Candidates, err = s.loadApplications(ctx, `
		SELECT apartment, role, owner FROM council_candidate
		WHERE residence_id = $1 AND cycle = $2
		ORDER BY apartment
	`, id, cycle); err != nil {
		return election.Snapshot{}, false, err
	}
	if snap.Votes, err = s.loadVotes(ctx, id, cycle); err != nil {
		return election.Snapshot{}, false, err
	}
	if snap.Result, err = s.loadLatestResult(ctx, id); err != nil {
		return election.Snapshot{}, false, err
	}
	return snap, true, nil
}

func (s *Store) loadExpenses(ctx context.Context, residenceID string) ([]models.MaintenanceExpense, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, amount FROM maintenance_expense
		WHERE residence_id = $1
		ORDER BY ordinal
	`, residenceID)
	if err != nil {
		return nil, fmt.Errorf("query maintenance expenses: %w", err)
	}
	defer rows.Close()

	var expenses []models.MaintenanceExpense
	for rows.Next() {
		var e models.MaintenanceExpense
		if err := rows.Scan(&e.Name, &e.Amount); err != nil {
			return nil, fmt.Errorf("scan maintenance expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

func (s *Store) loadApartments(ctx context.Context, residenceID string) ([]models.Apartment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT number, name, owner FROM apartment
		WHERE residence_id = $1
		ORDER BY number
	`, residenceID)
	if err != nil {
		return nil, fmt.Errorf("query apartments: %w", err)
	}
	defer rows.Close()

	var apartments []models.Apartment
	for rows.Next() {
		var (
			apt    models.Apartment
			number int64
		)
		if err := rows.Scan(&number, &apt.Name, &apt.Owner); err != nil {
			return nil, fmt.Errorf("scan apartment: %w", err)
		}
		apt.Number = uint32(number)
		apartments = append(apartments, apt)
	}
	return apartments, rows.Err()
}

func (s *Store) loadApplications(ctx context.Context, query string, args ...any) ([]models.Application, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query applications: %w", err)
	}
	defer rows.Close()

	var apps []models.Application
	for rows.Next() {
		var (
			app       models.Application
			apartment int64
			role      string
		)
		if err := rows.Scan(&apartment, &role, &app.Owner); err != nil {
			return nil, fmt.Errorf("scan application: %w", err)
		}
		if app.Role, err = models.ParseCouncilRole(role); err != nil {
			return nil, fmt.Errorf("scan application: %w", err)
		}
		app.Apartment = uint32(apartment)
		apps = append(apps, app)
	}
	return apps, rows.Err()
}

func (s *Store) loadVotes(ctx context.Context, residenceID string, cycle int64) ([]models.Vote, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT voter, role, target FROM council_vote
		WHERE residence_id = $1 AND cycle = $2
		ORDER BY voter
	`, residenceID, cycle)
	if err != nil {
		return nil, fmt.Errorf("query votes: %w", err)
	}
	defer rows.Close()

	var votes []models.Vote
	for rows.Next() {
		var (
			voter, target int64
			role          string
		)
		if err := rows.Scan(&voter, &role, &target); err != nil {
			return nil, fmt.Errorf("scan vote: %w", err)
		}
		r, err := models.ParseCouncilRole(role)
		if err != nil {
			return nil, fmt.Errorf("scan vote: %w", err)
		}
		votes = append(votes, models.Vote{Voter: uint32(voter), Target: uint32(target), Role: r})
	}
	return votes, rows.Err()
}

func (s *Store) loadLatestResult(ctx context.Context, residenceID string) (*models.CouncilResult, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `
		SELECT payload FROM council_result
		WHERE residence_id = $1
		ORDER BY cycle DESC
		LIMIT 1
	`, residenceID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query council result: %w", err)
	}

	var result models.CouncilResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, fmt.Errorf("decode council result: %w", err)
	}
	return &result, nil
}

// CouncilResults lists every finalized cycle, newest first.
func (s *Store) CouncilResults(ctx context.Context, residenceID string) ([]models.CouncilResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT payload FROM council_result
		WHERE residence_id = $1
		ORDER BY cycle DESC
	`, residenceID)
	if err != nil {
		return nil, fmt.Errorf("query council results: %w", err)
	}
	defer rows.Close()

	results := []models.CouncilResult{}
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan council result: %w", err)
		}
		var result models.CouncilResult
		if err := json.Unmarshal([]byte(payload), &result); err != nil {
			return nil, fmt.Errorf("decode council result: %w", err)
		}
		results = append(results, result)
	}
	return results, rows.Err()
}
