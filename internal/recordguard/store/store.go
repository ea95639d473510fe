package store

import (
	"context"
	"time"

	"github.com/kart-io/recordguard/internal/model"
)

// Factory defines the factory interface for creating stores.
type Factory interface {
	Staff() StaffStore
	Patients() PatientStore
	Catchments() CatchmentStore
	Interactions() InteractionStore
	Audit() AuditStore
	Close() error
}

// StaffStore defines the staff account storage interface.
type StaffStore interface {
	Create(ctx context.Context, staff *model.Staff) error
	Get(ctx context.Context, id uint64) (*model.Staff, error)
}

// PatientStore defines the patient projection storage interface.
type PatientStore interface {
	Create(ctx context.Context, patient *model.Patient) error
	Get(ctx context.Context, id uint64) (*model.Patient, error)
}

// CatchmentStore defines the catchment assignment storage interface.
type CatchmentStore interface {
	Create(ctx context.Context, assignment *model.CatchmentAssignment) error
	Deactivate(ctx context.Context, staffID uint64, area string) error
	// HasActiveAssignment reports whether an active assignment links the
	// staff member to the catchment area.
	HasActiveAssignment(ctx context.Context, staffID uint64, area string) (bool, error)
}

// InteractionStore answers the single question the decision engine asks of
// the clinical tables: has this staff member ever acted on this patient.
type InteractionStore interface {
	// HasInteraction reports whether at least one consultation,
	// prescription, lab order, or invoice links the staff member to the
	// patient.
	HasInteraction(ctx context.Context, staffID, patientID uint64) (bool, error)
}

// AuditStore defines the append-only audit trail interface. There is
// deliberately no update or delete operation.
type AuditStore interface {
	Create(ctx context.Context, entry *model.AuditEntry) error
	CreateAccessLog(ctx context.Context, log *model.RecordAccessLog) error
	// CountActionsSince counts completed actions of the given kind by the
	// staff member at or after the given instant.
	CountActionsSince(ctx context.Context, staffID uint64, action model.Action, since time.Time) (int64, error)
	List(ctx context.Context, opts ListOptions) (int64, []*model.AuditEntry, error)
}

// ListOptions filters and paginates audit entry listings.
type ListOptions struct {
	StaffID   uint64
	PatientID uint64
	Action    model.Action
	Offset    int
	Limit     int
}
