// Copyright (c) 2025 The reside Authors.
// Use of this source code is governed by the MIT License. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Gisele-123/reside/canister"
	"github.com/Gisele-123/reside/election"
	"github.com/Gisele-123/reside/middleware"
)

// errorStatuses maps election failures to HTTP status codes. Order matters
// only for wrapped errors that match several entries.
var errorStatuses = []struct {
	err    error
	status int
}{
	{election.ErrInvalidInput, http.StatusBadRequest},
	{election.ErrUnauthorized, http.StatusForbidden},
	{election.ErrSelfVoteNotAllowed, http.StatusForbidden},
	{election.ErrNotFound, http.StatusNotFound},
	{election.ErrNotInitialized, http.StatusNotFound},
	{election.ErrNotFinalized, http.StatusNotFound},
	{election.ErrAlreadyInitialized, http.StatusConflict},
	{election.ErrDuplicateApartment, http.StatusConflict},
	{election.ErrCapacityReached, http.StatusConflict},
	{election.ErrDuplicateApplication, http.StatusConflict},
	{election.ErrNoApplications, http.StatusConflict},
	{election.ErrInvalidState, http.StatusConflict},
	{election.ErrIncompleteVoting, http.StatusConflict},
	{election.ErrTie, http.StatusConflict},
	{election.ErrNoVotesCast, http.StatusConflict},
	{election.ErrNotACandidate, http.StatusUnprocessableEntity},
}

func statusFor(err error) int {
	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			return e.status
		}
	}
	return http.StatusInternalServerError
}

// writeError responds with the status mapped from err. Unmapped and storage
// errors are logged and reported without detail.
func writeError(w http.ResponseWriter, op string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError || errors.Is(err, canister.ErrStorage) {
		slog.Error("operation failed", "op", op, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to "+op)
		return
	}
	middleware.ErrorResponse(w, status, err.Error())
}
