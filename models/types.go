package models

import (
	"fmt"
	"strings"
	"time"
)

// Phase is the lifecycle state of a residence election.
type Phase string

// Election phase constants
const (
	PhaseIdle       Phase = "idle"
	PhaseCollecting Phase = "collecting"
	PhaseVoting     Phase = "voting"
	PhaseFinalized  Phase = "finalized"
)

// Valid reports whether p is one of the known phases.
func (p Phase) Valid() bool {
	switch p {
	case PhaseIdle, PhaseCollecting, PhaseVoting, PhaseFinalized:
		return true
	}
	return false
}

// AnonymousPrincipal is the identity of a caller that presented no principal.
const AnonymousPrincipal = "2vxsx-fae"

// CouncilRole is one of the three governance positions. The zero value is
// Chairman, and the declaration order is the ordering used for listings.
type CouncilRole int

const (
	Chairman CouncilRole = iota
	Treasurer
	Controller
)

// CouncilRoles lists every role in enumeration order.
var CouncilRoles = [...]CouncilRole{Chairman, Treasurer, Controller}

func (r CouncilRole) String() string {
	switch r {
	case Chairman:
		return "chairman"
	case Treasurer:
		return "treasurer"
	case Controller:
		return "controller"
	}
	return fmt.Sprintf("CouncilRole(%d)", int(r))
}

// Valid reports whether r is a member of the closed role set.
func (r CouncilRole) Valid() bool {
	switch r {
	case Chairman, Treasurer, Controller:
		return true
	}
	return false
}

// ParseCouncilRole accepts the lowercase wire name or the capitalized role name.
func ParseCouncilRole(s string) (CouncilRole, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "chairman":
		return Chairman, nil
	case "treasurer":
		return Treasurer, nil
	case "controller":
		return Controller, nil
	}
	return 0, fmt.Errorf("unknown council role %q", s)
}

func (r CouncilRole) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid council role %d", int(r))
	}
	return []byte(r.String()), nil
}

func (r *CouncilRole) UnmarshalText(text []byte) error {
	role, err := ParseCouncilRole(string(text))
	if err != nil {
		return err
	}
	*r = role
	return nil
}

// Request types

type InitializeResidenceRequest struct {
	Name                string               `json:"name"`
	ApartmentsCount     uint32               `json:"apartments_count"`
	Builder             Builder              `json:"builder"`
	MaintenanceExpenses []MaintenanceExpense `json:"maintenance_expenses"`
}

type AddApartmentRequest struct {
	Number uint32 `json:"number"`
	Name   string `json:"name"`
	Owner  string `json:"owner"`
}

// Role is a pointer so a missing role is rejected instead of read as Chairman.
type ApplyForCouncilRequest struct {
	Apartment uint32       `json:"apartment"`
	Role      *CouncilRole `json:"role"`
}

type VoteForCouncilRequest struct {
	VoterApartment  uint32       `json:"voter_apartment"`
	TargetApartment uint32       `json:"target_apartment"`
	Role            *CouncilRole `json:"role"`
}

// Response types

type ResidenceResponse struct {
	Residence            Residence `json:"residence"`
	Phase                Phase     `json:"phase"`
	Cycle                uint64    `json:"cycle"`
	ApartmentsRegistered int       `json:"apartments_registered"`
	TotalExpenses        float64   `json:"total_expenses"`
	TotalExpensesDisplay string    `json:"total_expenses_display"`
}

type ProposalResponse struct {
	Cycle      uint64        `json:"cycle"`
	Phase      Phase         `json:"phase"`
	Candidates []Application `json:"candidates"`
}

type VoteForCouncilResponse struct {
	Cycle    uint64 `json:"cycle"`
	Replaced bool   `json:"replaced"`
	Message  string `json:"message"`
}

type WhoamiResponse struct {
	Principal string `json:"principal"`
	Anonymous bool   `json:"anonymous"`
}

// Domain types

type Builder struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	ContactInfo string `json:"contact_info" yaml:"contact_info"`
}

type MaintenanceExpense struct {
	Name   string  `json:"name" yaml:"name"`
	Amount float64 `json:"amount" yaml:"amount"`
}

type Residence struct {
	ID                  string               `json:"id"`
	Name                string               `json:"name"`
	ApartmentsCount     uint32               `json:"apartments_count"`
	Builder             Builder              `json:"builder"`
	MaintenanceExpenses []MaintenanceExpense `json:"maintenance_expenses"`
}

type Apartment struct {
	Number uint32 `json:"number" yaml:"number"`
	Name   string `json:"name" yaml:"name"`
	Owner  string `json:"owner" yaml:"owner"`
}

type Application struct {
	Apartment uint32      `json:"apartment"`
	Role      CouncilRole `json:"role"`
	Owner     string      `json:"owner"`
}

type Vote struct {
	Voter  uint32      `json:"voter_apartment"`
	Target uint32      `json:"target_apartment"`
	Role   CouncilRole `json:"role"`
}

type CandidateCount struct {
	Apartment uint32 `json:"apartment"`
	Votes     int    `json:"votes"`
}

// BallotRole describes the candidates of one role in the open cycle.
// Per-candidate counts stay sealed until the council is finalized.
type BallotRole struct {
	Role       CouncilRole `json:"role"`
	Candidates []uint32    `json:"candidates"`
	VotesCast  int         `json:"votes_cast"`
}

type Ballot struct {
	Cycle                uint64       `json:"cycle"`
	Phase                Phase        `json:"phase"`
	ApartmentsRegistered int          `json:"apartments_registered"`
	Roles                []BallotRole `json:"roles"`
}

type CouncilMember struct {
	Role      CouncilRole      `json:"role"`
	Apartment uint32           `json:"apartment"`
	Owner     string           `json:"owner"`
	Votes     int              `json:"votes"`
	Tied      bool             `json:"tied"`
	Counts    []CandidateCount `json:"counts"`
}

// CouncilResult is the immutable outcome of one finalized cycle.
type CouncilResult struct {
	Cycle       uint64          `json:"cycle"`
	TieBreak    string          `json:"tie_break"`
	FinalizedAt time.Time       `json:"finalized_at"`
	Members     []CouncilMember `json:"members"`
}

// Member returns the winner recorded for role.
func (c CouncilResult) Member(role CouncilRole) (CouncilMember, bool) {
	for _, m := range c.Members {
		if m.Role == role {
			return m, true
		}
	}
	return CouncilMember{}, false
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
