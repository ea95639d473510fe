package store

import (
	"gorm.io/gorm"

	"github.com/kart-io/recordguard/internal/model"
)

// datastore implements the Factory interface.
type datastore struct {
	db *gorm.DB
}

// NewFactory creates a storage factory on top of the given gorm connection.
func NewFactory(db *gorm.DB) Factory {
	return &datastore{db: db}
}

// Staff returns the staff store.
func (ds *datastore) Staff() StaffStore {
	return newStaff(ds.db)
}

// Patients returns the patient store.
func (ds *datastore) Patients() PatientStore {
	return newPatients(ds.db)
}

// Catchments returns the catchment assignment store.
func (ds *datastore) Catchments() CatchmentStore {
	return newCatchments(ds.db)
}

// Interactions returns the interaction store.
func (ds *datastore) Interactions() InteractionStore {
	return newInteractions(ds.db)
}

// Audit returns the audit store.
func (ds *datastore) Audit() AuditStore {
	return newAudit(ds.db)
}

// AutoMigrate migrates the database schema.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Staff{},
		&model.Patient{},
		&model.CatchmentAssignment{},
		&model.Consultation{},
		&model.Prescription{},
		&model.LabOrder{},
		&model.Invoice{},
		&model.AuditEntry{},
		&model.RecordAccessLog{},
	)
}

// Close closes the factory and underlying connections.
func (ds *datastore) Close() error {
	return nil
}
