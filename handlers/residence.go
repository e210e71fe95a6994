// Copyright (c) 2025 The reside Authors.
// Use of this source code is governed by the MIT License. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/dustin/go-humanize"

	"github.com/Gisele-123/reside/auth"
	"github.com/Gisele-123/reside/canister"
	"github.com/Gisele-123/reside/cliparse"
	"github.com/Gisele-123/reside/middleware"
	"github.com/Gisele-123/reside/models"
)

type ResidenceHandler struct {
	c   *canister.Canister
	cfg cliparse.Config
}

func NewResidenceHandler(c *canister.Canister, cfg cliparse.Config) *ResidenceHandler {
	return &ResidenceHandler{c: c, cfg: cfg}
}

// caller resolves the request principal, answering 401 when the signature
// does not verify.
func caller(w http.ResponseWriter, r *http.Request, salt string) (string, bool) {
	principal, err := auth.CallerFromRequest(r, salt)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid principal signature")
		return "", false
	}
	return principal, true
}

// InitializeResidence handles POST /residence
func (h *ResidenceHandler) InitializeResidence(w http.ResponseWriter, r *http.Request) {
	if _, ok := caller(w, r, h.cfg.PrincipalSalt); !ok {
		return
	}

	var req models.InitializeResidenceRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	info, err := h.c.InitializeResidence(r.Context(), models.Residence{
		Name:                req.Name,
		ApartmentsCount:     req.ApartmentsCount,
		Builder:             req.Builder,
		MaintenanceExpenses: req.MaintenanceExpenses,
	})
	if err != nil {
		writeError(w, "initialize residence", err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, residenceResponse(canister.Overview{
		Residence: info,
		Phase:     models.PhaseCollecting,
	}))
}

// GetResidence handles GET /residence
func (h *ResidenceHandler) GetResidence(w http.ResponseWriter, r *http.Request) {
	ov, err := h.c.Overview()
	if err != nil {
		writeError(w, "load residence", err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, residenceResponse(ov))
}

func residenceResponse(ov canister.Overview) models.ResidenceResponse {
	var total float64
	for _, e := range ov.Residence.MaintenanceExpenses {
		total += e.Amount
	}
	return models.ResidenceResponse{
		Residence:            ov.Residence,
		Phase:                ov.Phase,
		Cycle:                ov.Cycle,
		ApartmentsRegistered: ov.ApartmentsRegistered,
		TotalExpenses:        total,
		TotalExpensesDisplay: humanize.CommafWithDigits(total, 2),
	}
}

// AddApartment handles POST /apartments
func (h *ResidenceHandler) AddApartment(w http.ResponseWriter, r *http.Request) {
	principal, ok := caller(w, r, h.cfg.PrincipalSalt)
	if !ok {
		return
	}

	var req models.AddApartmentRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	apt, err := h.c.AddApartment(r.Context(), principal, models.Apartment{
		Number: req.Number,
		Name:   req.Name,
		Owner:  req.Owner,
	})
	if err != nil {
		writeError(w, "add apartment", err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, apt)
}

// GetApartments handles GET /apartments
func (h *ResidenceHandler) GetApartments(w http.ResponseWriter, r *http.Request) {
	apts, err := h.c.Apartments()
	if err != nil {
		writeError(w, "list apartments", err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, apts)
}

// Whoami handles GET /whoami
func (h *ResidenceHandler) Whoami(w http.ResponseWriter, r *http.Request) {
	principal, ok := caller(w, r, h.cfg.PrincipalSalt)
	if !ok {
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.WhoamiResponse{
		Principal: principal,
		Anonymous: principal == models.AnonymousPrincipal,
	})
}
