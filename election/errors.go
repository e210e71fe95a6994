// Copyright (c) 2025 The reside Authors.
// Use of this source code is governed by the MIT License. See LICENSE.

package election

import "errors"

var (
	ErrUnauthorized         = errors.New("unauthorized")
	ErrNotFound             = errors.New("not found")
	ErrInvalidInput         = errors.New("invalid input")
	ErrAlreadyInitialized   = errors.New("residence already initialized")
	ErrNotInitialized       = errors.New("residence not initialized")
	ErrDuplicateApartment   = errors.New("apartment already registered")
	ErrCapacityReached      = errors.New("apartment capacity reached")
	ErrDuplicateApplication = errors.New("owner already applied for a council role")
	ErrNotACandidate        = errors.New("apartment is not a candidate for this role")
	ErrSelfVoteNotAllowed   = errors.New("self voting is not allowed")
	ErrInvalidState         = errors.New("operation not allowed in current phase")
	ErrNoApplications       = errors.New("no council applications")
	ErrIncompleteVoting     = errors.New("not all apartments have voted for every role")
	ErrNotFinalized         = errors.New("council has not been finalized")
	ErrNoVotesCast          = errors.New("no votes cast")
	ErrTie                  = errors.New("tie between candidates")
)
