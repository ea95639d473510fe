package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/kart-io/recordguard/internal/model"
)

type audit struct {
	db *gorm.DB
}

func newAudit(db *gorm.DB) *audit {
	return &audit{db}
}

// Create appends one audit entry. Entries are never updated or deleted.
func (a *audit) Create(ctx context.Context, entry *model.AuditEntry) error {
	return a.db.WithContext(ctx).Create(entry).Error
}

// CreateAccessLog appends one legacy access-log row.
func (a *audit) CreateAccessLog(ctx context.Context, log *model.RecordAccessLog) error {
	return a.db.WithContext(ctx).Create(log).Error
}

// CountActionsSince counts completed actions of the given kind by the staff
// member at or after the given instant. Only completed actions count: a
// denied or throttled attempt did not perform the action.
func (a *audit) CountActionsSince(ctx context.Context, staffID uint64, action model.Action, since time.Time) (int64, error) {
	var count int64
	err := a.db.WithContext(ctx).
		Model(&model.AuditEntry{}).
		Where("staff_id = ? AND action = ? AND outcome = ? AND created_at >= ?",
			staffID, action, model.OutcomeCompleted, since.UnixMilli()).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// List lists audit entries, newest first.
func (a *audit) List(ctx context.Context, opts ListOptions) (int64, []*model.AuditEntry, error) {
	query := a.db.WithContext(ctx).Model(&model.AuditEntry{})
	if opts.StaffID != 0 {
		query = query.Where("staff_id = ?", opts.StaffID)
	}
	if opts.PatientID != 0 {
		query = query.Where("patient_id = ?", opts.PatientID)
	}
	if opts.Action != "" {
		query = query.Where("action = ?", opts.Action)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, nil, err
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 20
	}

	var entries []*model.AuditEntry
	err := query.Order("created_at DESC").Offset(opts.Offset).Limit(limit).Find(&entries).Error
	if err != nil {
		return 0, nil, err
	}
	return count, entries, nil
}
