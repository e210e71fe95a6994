// Copyright (c) 2025 The reside Authors.
// Use of this source code is governed by the MIT License. See LICENSE.

package election

import (
	"cmp"
	"fmt"
	"iter"
	"maps"
	"slices"

	"github.com/Gisele-123/reside/models"
)

// ApplicationBook collects council applications, keyed by owner identity so an
// owner can hold at most one application across all roles.
type ApplicationBook struct {
	byOwner map[string]models.Application
}

func NewApplicationBook() *ApplicationBook {
	return &ApplicationBook{byOwner: make(map[string]models.Application)}
}

// Apply records an application for apartment and role made by caller.
func (b *ApplicationBook) Apply(reg *Registry, apartment uint32, role models.CouncilRole, caller string) (models.Application, error) {
	if !role.Valid() {
		return models.Application{}, fmt.Errorf("%w: unknown council role %d", ErrInvalidInput, int(role))
	}
	owner, err := reg.OwnerOf(apartment)
	if err != nil {
		return models.Application{}, err
	}
	if owner != caller {
		return models.Application{}, fmt.Errorf("%w: only the owner of apartment %d can apply", ErrUnauthorized, apartment)
	}
	if existing, ok := b.byOwner[caller]; ok {
		return models.Application{}, fmt.Errorf("%w: apartment %d already applied for %s",
			ErrDuplicateApplication, existing.Apartment, existing.Role)
	}

	app := models.Application{Apartment: apartment, Role: role, Owner: caller}
	b.byOwner[caller] = app
	return app, nil
}

func (b *ApplicationBook) Len() int { return len(b.byOwner) }

// All yields the applications ordered by apartment number, then role. The
// sequence is computed when iterated, so it can be ranged over repeatedly.
func (b *ApplicationBook) All() iter.Seq[models.Application] {
	return func(yield func(models.Application) bool) {
		apps := slices.Collect(maps.Values(b.byOwner))
		slices.SortFunc(apps, compareApplications)
		for _, app := range apps {
			if !yield(app) {
				return
			}
		}
	}
}

// List collects All into a slice.
func (b *ApplicationBook) List() []models.Application {
	apps := slices.Collect(b.All())
	if apps == nil {
		apps = []models.Application{}
	}
	return apps
}

func (b *ApplicationBook) reset() {
	b.byOwner = make(map[string]models.Application)
}

func (b *ApplicationBook) clone() *ApplicationBook {
	return &ApplicationBook{byOwner: maps.Clone(b.byOwner)}
}

func compareApplications(a, b models.Application) int {
	if c := cmp.Compare(a.Apartment, b.Apartment); c != 0 {
		return c
	}
	return cmp.Compare(a.Role, b.Role)
}
