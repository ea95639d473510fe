package model

// Interaction rows are the evidence that a staff member has previously acted
// on a patient's record. Limited-access roles (pharmacist, cashier, lab
// technician) are granted access only when at least one such row exists for
// the pair, across any of the four interaction types.

// Consultation records a clinical consultation.
type Consultation struct {
	ID          uint64 `json:"id" gorm:"primaryKey;autoIncrement;comment:主键ID"`
	PatientID   uint64 `json:"patient_id" gorm:"index:idx_consultation_patient_id;not null;comment:患者ID"`
	AttendingID uint64 `json:"attending_id" gorm:"index:idx_attending_id;not null;comment:接诊员工ID"`
	Diagnosis   string `json:"diagnosis" gorm:"size:255;comment:诊断"`
	CreatedAt   int64  `json:"created_at" gorm:"autoCreateTime:milli;comment:创建时间(时间戳)"`
}

// TableName returns the table name for GORM.
func (c *Consultation) TableName() string {
	return "consultations"
}

// Prescription records a dispensed prescription.
type Prescription struct {
	ID          uint64 `json:"id" gorm:"primaryKey;autoIncrement;comment:主键ID"`
	PatientID   uint64 `json:"patient_id" gorm:"index:idx_prescription_patient_id;not null;comment:患者ID"`
	DispensedBy uint64 `json:"dispensed_by" gorm:"index:idx_dispensed_by;not null;comment:发药员工ID"`
	Medication  string `json:"medication" gorm:"size:128;comment:药品"`
	CreatedAt   int64  `json:"created_at" gorm:"autoCreateTime:milli;comment:创建时间(时间戳)"`
}

// TableName returns the table name for GORM.
func (p *Prescription) TableName() string {
	return "prescriptions"
}

// LabOrder records a laboratory test performed for a patient.
type LabOrder struct {
	ID          uint64 `json:"id" gorm:"primaryKey;autoIncrement;comment:主键ID"`
	PatientID   uint64 `json:"patient_id" gorm:"index:idx_lab_order_patient_id;not null;comment:患者ID"`
	PerformedBy uint64 `json:"performed_by" gorm:"index:idx_performed_by;not null;comment:检验员工ID"`
	TestName    string `json:"test_name" gorm:"size:128;comment:检验项目"`
	CreatedAt   int64  `json:"created_at" gorm:"autoCreateTime:milli;comment:创建时间(时间戳)"`
}

// TableName returns the table name for GORM.
func (l *LabOrder) TableName() string {
	return "lab_orders"
}

// Invoice records a billing interaction handled by a cashier.
type Invoice struct {
	ID          uint64 `json:"id" gorm:"primaryKey;autoIncrement;comment:主键ID"`
	PatientID   uint64 `json:"patient_id" gorm:"index:idx_invoice_patient_id;not null;comment:患者ID"`
	CashierID   uint64 `json:"cashier_id" gorm:"index:idx_cashier_id;not null;comment:收费员工ID"`
	AmountCents int64  `json:"amount_cents" gorm:"default:0;comment:金额(分)"`
	CreatedAt   int64  `json:"created_at" gorm:"autoCreateTime:milli;comment:创建时间(时间戳)"`
}

// TableName returns the table name for GORM.
func (i *Invoice) TableName() string {
	return "invoices"
}
