package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/kart-io/recordguard/internal/model"
)

type interactions struct {
	db *gorm.DB
}

func newInteractions(db *gorm.DB) *interactions {
	return &interactions{db}
}

// HasInteraction reports whether at least one interaction row of any type
// links the staff member to the patient. The four tables are checked in
// turn; the first hit short-circuits.
func (i *interactions) HasInteraction(ctx context.Context, staffID, patientID uint64) (bool, error) {
	checks := []struct {
		model    interface{}
		staffCol string
	}{
		{&model.Consultation{}, "attending_id"},
		{&model.Prescription{}, "dispensed_by"},
		{&model.LabOrder{}, "performed_by"},
		{&model.Invoice{}, "cashier_id"},
	}

	for _, check := range checks {
		var count int64
		err := i.db.WithContext(ctx).
			Model(check.model).
			Where(check.staffCol+" = ? AND patient_id = ?", staffID, patientID).
			Limit(1).
			Count(&count).Error
		if err != nil {
			return false, err
		}
		if count > 0 {
			return true, nil
		}
	}
	return false, nil
}
