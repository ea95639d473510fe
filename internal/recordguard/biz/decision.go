package biz

import (
	"context"
	stderrors "errors"

	"github.com/kart-io/logger"
	"gorm.io/gorm"

	"github.com/kart-io/recordguard/internal/model"
	"github.com/kart-io/recordguard/internal/recordguard/store"
)

// Outcome is the explicit result of an access or rate-limit check. It is
// deliberately not a boolean: callers must be able to tell a legitimate deny
// from a throttle or an internal failure.
type Outcome int

// Check outcomes.
const (
	Deny Outcome = iota
	Allow
	Throttled
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case Allow:
		return "allow"
	case Throttled:
		return "throttled"
	default:
		return "deny"
	}
}

// Decision reasons. Reasons are recorded in the audit trail; they are never
// returned to clients, which only ever see a generic response.
const (
	ReasonRoleWide          = "role_wide"
	ReasonCatchmentMatch    = "catchment_match"
	ReasonNoCatchment       = "no_catchment"
	ReasonInteraction       = "interaction"
	ReasonNoInteraction     = "no_interaction"
	ReasonRequesterInactive = "requester_inactive"
	ReasonPatientUnknown    = "patient_unknown"
	ReasonPatientInactive   = "patient_inactive"
	ReasonUnknownRole       = "unknown_role"
	ReasonNoCapability      = "no_capability"
	ReasonLookupFailure     = "lookup_failure"
)

// Decision is the result of one access check.
type Decision struct {
	Outcome Outcome
	Reason  string
}

// Allowed reports whether access was granted.
func (d Decision) Allowed() bool {
	return d.Outcome == Allow
}

// AccessDecisionService decides whether a requester may access a patient's
// record. Decisions are pure with respect to the engine's own state: every
// call re-reads the facts it needs, so a revoked assignment or deleted
// interaction takes effect on the next call.
type AccessDecisionService struct {
	store store.Factory
}

// NewAccessDecisionService creates a new AccessDecisionService.
func NewAccessDecisionService(store store.Factory) *AccessDecisionService {
	return &AccessDecisionService{store: store}
}

// Decide evaluates the rule family for the requester's role against the
// target patient. Any lookup failure denies: the engine fails closed and
// never surfaces storage errors to the caller.
func (s *AccessDecisionService) Decide(ctx context.Context, requester *Requester, patientID uint64) Decision {
	if requester == nil || !requester.Active {
		return Decision{Outcome: Deny, Reason: ReasonRequesterInactive}
	}

	patient, err := s.store.Patients().Get(ctx, patientID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return Decision{Outcome: Deny, Reason: ReasonPatientUnknown}
		}
		logger.Errorw("patient lookup failed, denying access",
			"staff_id", requester.ID, "patient_id", patientID, "error", err)
		return Decision{Outcome: Deny, Reason: ReasonLookupFailure}
	}
	if !patient.Active() {
		return Decision{Outcome: Deny, Reason: ReasonPatientInactive}
	}

	switch requester.Role {
	case model.RoleAdministrator, model.RolePhysician, model.RoleNurse,
		model.RoleRecordsOfficer, model.RoleDistrictHealthOfficer:
		return Decision{Outcome: Allow, Reason: ReasonRoleWide}

	case model.RoleCommunityHealthWorker:
		assigned, err := s.store.Catchments().HasActiveAssignment(ctx, requester.ID, patient.CatchmentArea)
		if err != nil {
			logger.Errorw("catchment lookup failed, denying access",
				"staff_id", requester.ID, "patient_id", patientID, "error", err)
			return Decision{Outcome: Deny, Reason: ReasonLookupFailure}
		}
		if assigned {
			return Decision{Outcome: Allow, Reason: ReasonCatchmentMatch}
		}
		return Decision{Outcome: Deny, Reason: ReasonNoCatchment}

	case model.RolePharmacist, model.RoleCashier, model.RoleLabTechnician:
		interacted, err := s.store.Interactions().HasInteraction(ctx, requester.ID, patientID)
		if err != nil {
			logger.Errorw("interaction lookup failed, denying access",
				"staff_id", requester.ID, "patient_id", patientID, "error", err)
			return Decision{Outcome: Deny, Reason: ReasonLookupFailure}
		}
		if interacted {
			return Decision{Outcome: Allow, Reason: ReasonInteraction}
		}
		return Decision{Outcome: Deny, Reason: ReasonNoInteraction}

	default:
		// Closed role set: anything unrecognized is denied, never mapped
		// to a privileged default.
		return Decision{Outcome: Deny, Reason: ReasonUnknownRole}
	}
}
