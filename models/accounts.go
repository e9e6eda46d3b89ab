package models

import "time"

// Account roles. Dispatch is over this closed set, never over free-form
// role strings.
const (
	RoleStudent = "student"
	RolePorter  = "porter"
	RoleAdmin   = "admin"
)

// Payment statuses on the student record.
const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
	PaymentFailed  = "failed"
)

// Reservation statuses on the student record.
const (
	ReservationNone      = "none"
	ReservationTemporary = "temporary"
	ReservationConfirmed = "confirmed"
	ReservationCheckedIn = "checked_in"
	ReservationExpired   = "expired"
)

// Porter application statuses.
const (
	PorterPending   = "pending"
	PorterApproved  = "approved"
	PorterRejected  = "rejected"
	PorterSuspended = "suspended"
)

type Student struct {
	StudentID    string `json:"studentid" bson:"studentid"`
	FirstName    string `json:"first_name" bson:"first_name"`
	LastName     string `json:"last_name" bson:"last_name"`
	MatricNo     string `json:"matric_no" bson:"matric_no"`
	Email        string `json:"email" bson:"email"`
	PasswordHash string `json:"-" bson:"password_hash"`
	Gender       string `json:"gender,omitempty" bson:"gender,omitempty"`
	Level        int    `json:"level" bson:"level"`
	CollegeID    string `json:"collegeid" bson:"collegeid"`
	DepartmentID string `json:"departmentid" bson:"departmentid"`

	AssignedHostel string   `json:"assigned_hostel,omitempty" bson:"assigned_hostel,omitempty"`
	AssignedRoom   string   `json:"assigned_room,omitempty" bson:"assigned_room,omitempty"`
	AssignedBunk   string   `json:"assigned_bunk,omitempty" bson:"assigned_bunk,omitempty"`
	Roommates      []string `json:"roommates,omitempty" bson:"roommates,omitempty"`

	PaymentStatus    string `json:"payment_status" bson:"payment_status"`
	PaymentReference string `json:"payment_reference,omitempty" bson:"payment_reference,omitempty"`
	PaymentCode      string `json:"payment_code,omitempty" bson:"payment_code,omitempty"`

	ReservationStatus    string     `json:"reservation_status" bson:"reservation_status"`
	ReservationExpiresAt *time.Time `json:"reservation_expires_at,omitempty" bson:"reservation_expires_at,omitempty"`

	FirstLogin bool      `json:"first_login" bson:"first_login"`
	IsActive   bool      `json:"is_active" bson:"is_active"`
	LastLogin  time.Time `json:"last_login,omitempty" bson:"last_login,omitempty"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" bson:"updated_at"`
}

type Porter struct {
	PorterID     string `json:"porterid" bson:"porterid"`
	FirstName    string `json:"first_name" bson:"first_name"`
	LastName     string `json:"last_name" bson:"last_name"`
	Email        string `json:"email" bson:"email"`
	PasswordHash string `json:"-" bson:"password_hash"`
	Phone        string `json:"phone,omitempty" bson:"phone,omitempty"`

	AssignedHostel string     `json:"assigned_hostel,omitempty" bson:"assigned_hostel,omitempty"`
	Status         string     `json:"status" bson:"status"`
	Approved       bool       `json:"approved" bson:"approved"`
	AppliedAt      time.Time  `json:"applied_at" bson:"applied_at"`
	ApprovedAt     *time.Time `json:"approved_at,omitempty" bson:"approved_at,omitempty"`
	ApprovedBy     string     `json:"approved_by,omitempty" bson:"approved_by,omitempty"`

	FirstLogin bool      `json:"first_login" bson:"first_login"`
	IsActive   bool      `json:"is_active" bson:"is_active"`
	LastLogin  time.Time `json:"last_login,omitempty" bson:"last_login,omitempty"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" bson:"updated_at"`
}

type Admin struct {
	AdminID      string    `json:"adminid" bson:"adminid"`
	FirstName    string    `json:"first_name" bson:"first_name"`
	LastName     string    `json:"last_name" bson:"last_name"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	IsActive     bool      `json:"is_active" bson:"is_active"`
	LastLogin    time.Time `json:"last_login,omitempty" bson:"last_login,omitempty"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}
