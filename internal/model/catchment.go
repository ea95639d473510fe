package model

import (
	"time"

	"gorm.io/gorm"
)

// CatchmentAssignment links a community health worker to a catchment area.
// Only active assignments grant access to patients in the area.
type CatchmentAssignment struct {
	ID            uint64 `json:"id" gorm:"primaryKey;autoIncrement;comment:主键ID"`
	StaffID       uint64 `json:"staff_id" gorm:"uniqueIndex:uk_staff_area;index:idx_catchment_staff_id;not null;comment:员工ID"`
	CatchmentArea string `json:"catchment_area" gorm:"size:32;uniqueIndex:uk_staff_area;not null;comment:辖区编码"`
	Status        int    `json:"status" gorm:"default:1;index:idx_catchment_status;comment:状态 1启用 0禁用"`
	CreatedAt     int64  `json:"created_at" gorm:"autoCreateTime:milli;comment:创建时间(时间戳)"`
	UpdatedAt     int64  `json:"updated_at" gorm:"autoUpdateTime:milli;comment:更新时间(时间戳)"`
}

// TableName returns the table name for GORM.
func (a *CatchmentAssignment) TableName() string {
	return "catchment_assignments"
}

// BeforeCreate sets the CreatedAt and UpdatedAt fields.
func (a *CatchmentAssignment) BeforeCreate(tx *gorm.DB) (err error) {
	now := time.Now().UnixMilli()
	a.CreatedAt = now
	a.UpdatedAt = now
	return
}
