package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/kart-io/recordguard/internal/model"
)

type staffStore struct {
	db *gorm.DB
}

func newStaff(db *gorm.DB) *staffStore {
	return &staffStore{db}
}

// Create creates a new staff account.
func (s *staffStore) Create(ctx context.Context, staff *model.Staff) error {
	return s.db.WithContext(ctx).Create(staff).Error
}

// Get retrieves a staff account by id.
func (s *staffStore) Get(ctx context.Context, id uint64) (*model.Staff, error) {
	var staff model.Staff
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&staff).Error; err != nil {
		return nil, err
	}
	return &staff, nil
}
