package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/kart-io/recordguard/internal/model"
)

type patients struct {
	db *gorm.DB
}

func newPatients(db *gorm.DB) *patients {
	return &patients{db}
}

// Create creates a new patient projection row.
func (p *patients) Create(ctx context.Context, patient *model.Patient) error {
	return p.db.WithContext(ctx).Create(patient).Error
}

// Get retrieves a patient by id.
func (p *patients) Get(ctx context.Context, id uint64) (*model.Patient, error) {
	var patient model.Patient
	if err := p.db.WithContext(ctx).Where("id = ?", id).First(&patient).Error; err != nil {
		return nil, err
	}
	return &patient, nil
}
