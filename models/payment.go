package models

import "time"

// Payment record statuses. The student-facing flags in accounts.go mirror
// the latest successful/failed record.
const (
	TxnPending    = "pending"
	TxnSuccessful = "successful"
	TxnFailed     = "failed"
	TxnCancelled  = "cancelled"
)

type Payment struct {
	PaymentID    string                 `json:"paymentid" bson:"paymentid"`
	StudentID    string                 `json:"studentid" bson:"studentid"`
	Amount       float64                `json:"amount" bson:"amount"`
	Reference    string                 `json:"reference" bson:"reference"`
	Code         string                 `json:"code" bson:"code"`
	Status       string                 `json:"status" bson:"status"`
	Method       string                 `json:"method" bson:"method"`
	DatePaid     *time.Time             `json:"date_paid,omitempty" bson:"date_paid,omitempty"`
	GatewayMeta  map[string]interface{} `json:"gateway_meta,omitempty" bson:"gateway_meta,omitempty"`
	Semester     string                 `json:"semester,omitempty" bson:"semester,omitempty"`
	AcademicYear string                 `json:"academic_year,omitempty" bson:"academic_year,omitempty"`
	Notes        string                 `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt    time.Time              `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at" bson:"updated_at"`
}

type PaymentConfig struct {
	Amount       float64   `json:"amount" bson:"amount"`
	Description  string    `json:"description,omitempty" bson:"description,omitempty"`
	Semester     string    `json:"semester,omitempty" bson:"semester,omitempty"`
	AcademicYear string    `json:"academic_year,omitempty" bson:"academic_year,omitempty"`
	UpdatedBy    string    `json:"updated_by,omitempty" bson:"updated_by,omitempty"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}
