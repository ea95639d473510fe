package model

import (
	"time"

	"gorm.io/gorm"
)

// Patient is the access-relevant projection of a patient record. The full
// clinical record is owned by the records subsystem; authorization only needs
// identity, active status, and the catchment area.
type Patient struct {
	ID            uint64         `json:"id" gorm:"primaryKey;autoIncrement;comment:患者ID"`
	Name          string         `json:"name" gorm:"size:64;not null;comment:姓名"`
	CatchmentArea string         `json:"catchment_area" gorm:"size:32;index:idx_catchment;comment:辖区编码"`
	Status        int            `json:"status" gorm:"default:1;index:idx_patient_status;comment:状态 1启用 0禁用"`
	CreatedAt     int64          `json:"created_at" gorm:"autoCreateTime:milli;comment:创建时间(时间戳)"`
	UpdatedAt     int64          `json:"updated_at" gorm:"autoUpdateTime:milli;comment:更新时间(时间戳)"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index;comment:软删除时间"`
}

// TableName returns the table name for GORM.
func (p *Patient) TableName() string {
	return "patients"
}

// BeforeCreate sets the CreatedAt and UpdatedAt fields.
func (p *Patient) BeforeCreate(tx *gorm.DB) (err error) {
	now := time.Now().UnixMilli()
	p.CreatedAt = now
	p.UpdatedAt = now
	return
}

// BeforeUpdate sets the UpdatedAt field.
func (p *Patient) BeforeUpdate(tx *gorm.DB) (err error) {
	p.UpdatedAt = time.Now().UnixMilli()
	return
}

// Active reports whether the patient record is active.
func (p *Patient) Active() bool {
	return p.Status == StatusEnabled
}
