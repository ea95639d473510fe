package model

import (
	"time"

	"gorm.io/gorm"
)

// Role is the closed set of staff roles. Role strings coming from storage or
// session hints must go through ParseRole; anything outside the set maps to
// RoleUnknown, which carries no capabilities.
type Role string

// Staff roles.
const (
	RoleAdministrator         Role = "administrator"
	RolePhysician             Role = "physician"
	RoleNurse                 Role = "nurse"
	RoleRecordsOfficer        Role = "records_officer"
	RoleDistrictHealthOfficer Role = "district_health_officer"
	RoleCommunityHealthWorker Role = "community_health_worker"
	RolePharmacist            Role = "pharmacist"
	RoleCashier               Role = "cashier"
	RoleLabTechnician         Role = "lab_technician"

	// RoleUnknown is the catch-all for unrecognized role strings.
	RoleUnknown Role = ""
)

var knownRoles = map[Role]bool{
	RoleAdministrator:         true,
	RolePhysician:             true,
	RoleNurse:                 true,
	RoleRecordsOfficer:        true,
	RoleDistrictHealthOfficer: true,
	RoleCommunityHealthWorker: true,
	RolePharmacist:            true,
	RoleCashier:               true,
	RoleLabTechnician:         true,
}

// ParseRole maps a role code to its Role. Unrecognized codes, including the
// empty string, return RoleUnknown.
func ParseRole(code string) Role {
	r := Role(code)
	if knownRoles[r] {
		return r
	}
	return RoleUnknown
}

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	return knownRoles[r]
}

// String returns the role code.
func (r Role) String() string {
	return string(r)
}

// Capability is a permission a role may hold on medical records.
type Capability string

// Record capabilities.
const (
	CapabilityView   Capability = "view"
	CapabilityPrint  Capability = "print"
	CapabilityExport Capability = "export"
	CapabilityAudit  Capability = "audit"
)

// Staff represents a staff account in the database.
type Staff struct {
	ID        uint64         `json:"id" gorm:"primaryKey;autoIncrement;comment:员工ID"`
	Name      string         `json:"name" gorm:"size:64;not null;comment:姓名"`
	Role      Role           `json:"role" gorm:"size:32;not null;index:idx_role;comment:角色编码"`
	Status    int            `json:"status" gorm:"default:1;index:idx_staff_status;comment:状态 1启用 0禁用"`
	CreatedAt int64          `json:"created_at" gorm:"autoCreateTime:milli;comment:创建时间(时间戳)"`
	UpdatedAt int64          `json:"updated_at" gorm:"autoUpdateTime:milli;comment:更新时间(时间戳)"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index;comment:软删除时间"`
}

// TableName returns the table name for GORM.
func (s *Staff) TableName() string {
	return "staff"
}

// BeforeCreate sets the CreatedAt and UpdatedAt fields.
func (s *Staff) BeforeCreate(tx *gorm.DB) (err error) {
	now := time.Now().UnixMilli()
	s.CreatedAt = now
	s.UpdatedAt = now
	return
}

// BeforeUpdate sets the UpdatedAt field.
func (s *Staff) BeforeUpdate(tx *gorm.DB) (err error) {
	s.UpdatedAt = time.Now().UnixMilli()
	return
}

// Active reports whether the account is enabled.
func (s *Staff) Active() bool {
	return s.Status == StatusEnabled
}

// Status values shared by staff, patients, and catchment assignments.
const (
	StatusDisabled = 0
	StatusEnabled  = 1
)
