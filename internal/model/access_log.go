package model

// RecordAccessLog is the narrow legacy projection of the audit trail. One row
// is written per preview, generate, or download action so reporting queries
// that predate the general audit trail keep working.
type RecordAccessLog struct {
	ID         uint64 `json:"id" gorm:"primaryKey;autoIncrement;comment:主键ID"`
	PatientID  uint64 `json:"patient_id" gorm:"index:idx_access_log_patient_id;not null;comment:患者ID"`
	StaffID    uint64 `json:"staff_id" gorm:"index:idx_access_log_staff_id;not null;comment:员工ID"`
	AccessKind string `json:"access_kind" gorm:"size:32;not null;comment:访问类型"`
	Sections   string `json:"sections" gorm:"type:text;comment:访问的记录段(JSON)"`
	Format     string `json:"format" gorm:"size:16;default:pdf;comment:输出格式"`
	CreatedAt  int64  `json:"created_at" gorm:"autoCreateTime:milli;index:idx_access_log_created_at;comment:创建时间(时间戳)"`
}

// TableName returns the table name for GORM.
func (l *RecordAccessLog) TableName() string {
	return "record_access_logs"
}
