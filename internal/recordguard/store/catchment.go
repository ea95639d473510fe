package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/kart-io/recordguard/internal/model"
)

type catchments struct {
	db *gorm.DB
}

func newCatchments(db *gorm.DB) *catchments {
	return &catchments{db}
}

// Create creates a new catchment assignment.
func (c *catchments) Create(ctx context.Context, assignment *model.CatchmentAssignment) error {
	return c.db.WithContext(ctx).Create(assignment).Error
}

// Deactivate disables the assignment linking the staff member to the area.
func (c *catchments) Deactivate(ctx context.Context, staffID uint64, area string) error {
	return c.db.WithContext(ctx).
		Model(&model.CatchmentAssignment{}).
		Where("staff_id = ? AND catchment_area = ?", staffID, area).
		Update("status", model.StatusDisabled).Error
}

// HasActiveAssignment reports whether an active assignment links the staff
// member to the catchment area. The query hits storage on every call so a
// revoked assignment takes effect on the next decision.
func (c *catchments) HasActiveAssignment(ctx context.Context, staffID uint64, area string) (bool, error) {
	var count int64
	err := c.db.WithContext(ctx).
		Model(&model.CatchmentAssignment{}).
		Where("staff_id = ? AND catchment_area = ? AND status = ?", staffID, area, model.StatusEnabled).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
