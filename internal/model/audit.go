package model

// Action is the kind of record operation being audited.
type Action string

// Record actions.
const (
	ActionView     Action = "view"
	ActionPreview  Action = "preview"
	ActionGenerate Action = "generate"
	ActionDownload Action = "download"
	ActionAudit    Action = "audit"
)

// Outcome is the recorded result of a record operation.
type Outcome string

// Audit outcomes.
const (
	OutcomeAllow     Outcome = "allow"
	OutcomeDeny      Outcome = "deny"
	OutcomeThrottled Outcome = "throttled"
	OutcomeCompleted Outcome = "completed"
	OutcomeFailure   Outcome = "failure"
)

// AuditEntry is one immutable row of the access audit trail. Rows are only
// ever inserted; there is no update or delete path. CreatedAt is filled by
// gorm when zero, so backfilled entries may carry their own timestamp.
type AuditEntry struct {
	ID        string  `json:"id" gorm:"primaryKey;size:26;comment:ULID"`
	StaffID   uint64  `json:"staff_id" gorm:"index:idx_audit_staff_id;not null;comment:员工ID"`
	PatientID uint64  `json:"patient_id" gorm:"index:idx_audit_patient_id;comment:患者ID"`
	Action    Action  `json:"action" gorm:"size:32;index:idx_action;not null;comment:操作类型"`
	Outcome   Outcome `json:"outcome" gorm:"size:16;index:idx_outcome;not null;comment:结果"`
	Reason    string  `json:"reason" gorm:"size:64;comment:决策原因"`
	ClientIP  string  `json:"client_ip" gorm:"size:64;comment:客户端IP"`
	UserAgent string  `json:"user_agent" gorm:"size:255;comment:浏览器标识"`
	SessionID string  `json:"session_id" gorm:"size:64;index:idx_session_id;comment:会话ID"`
	Role      Role    `json:"role" gorm:"size:32;comment:操作时角色"`
	Metadata  string  `json:"metadata" gorm:"type:text;comment:附加信息(JSON)"`
	CreatedAt int64   `json:"created_at" gorm:"autoCreateTime:milli;index:idx_audit_created_at;comment:创建时间(时间戳)"`
}

// TableName returns the table name for GORM.
func (e *AuditEntry) TableName() string {
	return "audit_entries"
}
