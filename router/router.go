// Copyright (c) 2025 The reside Authors.
// Use of this source code is governed by the MIT License. See LICENSE.

package router

import (
	"net/http"

	"github.com/Gisele-123/reside/canister"
	"github.com/Gisele-123/reside/cliparse"
	"github.com/Gisele-123/reside/handlers"
	"github.com/Gisele-123/reside/middleware"
)

func NewRouter(c *canister.Canister, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	residenceHandler := handlers.NewResidenceHandler(c, cfg)
	councilHandler := handlers.NewCouncilHandler(c, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Residence and apartment registry
	mux.HandleFunc("POST /residence", middleware.WithLogging(residenceHandler.InitializeResidence))
	mux.HandleFunc("GET /residence", middleware.WithLogging(residenceHandler.GetResidence))
	mux.HandleFunc("POST /apartments", middleware.WithLogging(residenceHandler.AddApartment))
	mux.HandleFunc("GET /apartments", middleware.WithLogging(residenceHandler.GetApartments))
	mux.HandleFunc("GET /whoami", middleware.WithLogging(residenceHandler.Whoami))

	// Council election
	mux.HandleFunc("POST /council/applications", middleware.WithLogging(councilHandler.ApplyForCouncil))
	mux.HandleFunc("GET /council/applications", middleware.WithLogging(councilHandler.GetCouncilApplications))
	mux.HandleFunc("POST /council/proposal", middleware.WithLogging(councilHandler.MakeCouncilProposal))
	mux.HandleFunc("POST /council/votes", middleware.WithLogging(councilHandler.VoteForCouncil))
	mux.HandleFunc("GET /council/ballot", middleware.WithLogging(councilHandler.GetCouncilBallot))
	mux.HandleFunc("POST /council/finalize", middleware.WithLogging(councilHandler.FinalizeCouncil))

	// Results (public)
	mux.HandleFunc("GET /council/members", middleware.WithLogging(councilHandler.GetCouncilMembers))
	mux.HandleFunc("GET /council/results", middleware.WithLogging(councilHandler.GetCouncilResults))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("reside API v1"))
	})

	return mux
}
