// Copyright (c) 2025 The reside Authors.
// Use of this source code is governed by the MIT License. See LICENSE.

package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Gisele-123/reside/election"
	"github.com/Gisele-123/reside/models"
)

// File models the on-disk seed schema.
type File struct {
	Name                string                      `yaml:"name"`
	ApartmentsCount     uint32                      `yaml:"apartments_count"`
	Builder             models.Builder              `yaml:"builder"`
	MaintenanceExpenses []models.MaintenanceExpense `yaml:"maintenance_expenses"`
	Apartments          []models.Apartment          `yaml:"apartments"`
	Applications        []Application               `yaml:"applications,omitempty"`
}

// Application is filed by the owner of Apartment.
type Application struct {
	Apartment uint32             `yaml:"apartment"`
	Role      models.CouncilRole `yaml:"role"`
}

// Target is the residence a seed is applied to.
type Target interface {
	Phase() models.Phase
	InitializeResidence(ctx context.Context, info models.Residence) (models.Residence, error)
	AddApartment(ctx context.Context, caller string, apt models.Apartment) (models.Apartment, error)
	ApplyForCouncil(ctx context.Context, apartment uint32, role models.CouncilRole, caller string) (models.Application, error)
}

// Load reads and validates a seed file.
func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("seed: read %s: %w", path, err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("seed: parse %s: %w", path, err)
	}
	if err := f.validate(); err != nil {
		return File{}, fmt.Errorf("seed: %s: %w", path, err)
	}
	return f, nil
}

func (f File) validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return errors.New("name is required")
	}
	if strings.TrimSpace(f.Builder.ID) == "" {
		return errors.New("builder.id is required")
	}
	if uint32(len(f.Apartments)) > f.ApartmentsCount {
		return fmt.Errorf("%d apartments listed but apartments_count is %d", len(f.Apartments), f.ApartmentsCount)
	}
	return nil
}

// Apply initializes the residence when it is still idle, then registers the
// listed apartments as the builder and files the listed applications as
// each apartment's owner. Entries that already exist are skipped, so a seed
// can be applied on every start.
func Apply(ctx context.Context, target Target, f File) error {
	if target.Phase() == models.PhaseIdle {
		_, err := target.InitializeResidence(ctx, models.Residence{
			Name:                f.Name,
			ApartmentsCount:     f.ApartmentsCount,
			Builder:             f.Builder,
			MaintenanceExpenses: f.MaintenanceExpenses,
		})
		if err != nil {
			return fmt.Errorf("seed: initialize: %w", err)
		}
	} else {
		slog.Info("residence already initialized, seeding apartments only", "phase", target.Phase())
	}

	owners := make(map[uint32]string, len(f.Apartments))
	added := 0
	for _, apt := range f.Apartments {
		owners[apt.Number] = apt.Owner
		_, err := target.AddApartment(ctx, f.Builder.ID, apt)
		switch {
		case errors.Is(err, election.ErrDuplicateApartment):
			continue
		case err != nil:
			return fmt.Errorf("seed: apartment %d: %w", apt.Number, err)
		}
		added++
	}

	applied := 0
	for _, app := range f.Applications {
		owner, ok := owners[app.Apartment]
		if !ok {
			return fmt.Errorf("seed: application for unlisted apartment %d", app.Apartment)
		}
		_, err := target.ApplyForCouncil(ctx, app.Apartment, app.Role, owner)
		switch {
		case errors.Is(err, election.ErrDuplicateApplication):
			continue
		case err != nil:
			return fmt.Errorf("seed: application of apartment %d: %w", app.Apartment, err)
		}
		applied++
	}

	slog.Info("seed applied", "apartments_added", added, "applications_filed", applied)
	return nil
}
