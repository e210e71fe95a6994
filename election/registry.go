// Copyright (c) 2025 The reside Authors.
// Use of this source code is governed by the MIT License. See LICENSE.

package election

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/Gisele-123/reside/models"
)

// Registry holds the apartments of a residence. Only the builder may add
// apartments and nothing may change one once it is registered.
type Registry struct {
	builder    string
	capacity   uint32
	apartments map[uint32]models.Apartment
}

// NewRegistry creates an empty registry that accepts up to capacity apartments.
func NewRegistry(builder string, capacity uint32) *Registry {
	return &Registry{
		builder:    builder,
		capacity:   capacity,
		apartments: make(map[uint32]models.Apartment),
	}
}

func (r *Registry) Builder() string  { return r.builder }
func (r *Registry) Capacity() uint32 { return r.capacity }
func (r *Registry) Count() int       { return len(r.apartments) }

// AddApartment registers apt on behalf of caller.
func (r *Registry) AddApartment(caller string, apt models.Apartment) error {
	if caller != r.builder {
		return fmt.Errorf("%w: only the builder can add apartments", ErrUnauthorized)
	}
	apt.Name = strings.TrimSpace(apt.Name)
	apt.Owner = strings.TrimSpace(apt.Owner)
	if apt.Number == 0 {
		return fmt.Errorf("%w: apartment number cannot be zero", ErrInvalidInput)
	}
	if apt.Name == "" {
		return fmt.Errorf("%w: apartment name cannot be empty", ErrInvalidInput)
	}
	if apt.Owner == "" {
		return fmt.Errorf("%w: apartment owner is required", ErrInvalidInput)
	}
	if apt.Owner == models.AnonymousPrincipal {
		return fmt.Errorf("%w: apartment owner cannot be the anonymous principal", ErrInvalidInput)
	}
	if _, exists := r.apartments[apt.Number]; exists {
		return fmt.Errorf("%w: apartment %d", ErrDuplicateApartment, apt.Number)
	}
	if uint32(len(r.apartments)) >= r.capacity {
		return fmt.Errorf("%w: cannot add more than %d apartments", ErrCapacityReached, r.capacity)
	}

	r.apartments[apt.Number] = apt
	return nil
}

// Apartment looks up an apartment by number.
func (r *Registry) Apartment(number uint32) (models.Apartment, error) {
	apt, ok := r.apartments[number]
	if !ok {
		return models.Apartment{}, fmt.Errorf("%w: apartment %d", ErrNotFound, number)
	}
	return apt, nil
}

// OwnerOf returns the owner identity of an apartment.
func (r *Registry) OwnerOf(number uint32) (string, error) {
	apt, err := r.Apartment(number)
	if err != nil {
		return "", err
	}
	return apt.Owner, nil
}

// Apartments returns every apartment ordered by number.
func (r *Registry) Apartments() []models.Apartment {
	apts := slices.Collect(maps.Values(r.apartments))
	slices.SortFunc(apts, func(a, b models.Apartment) int {
		return cmp.Compare(a.Number, b.Number)
	})
	return apts
}

func (r *Registry) clone() *Registry {
	return &Registry{
		builder:    r.builder,
		capacity:   r.capacity,
		apartments: maps.Clone(r.apartments),
	}
}
