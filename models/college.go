package models

import "time"

type College struct {
	CollegeID   string    `json:"collegeid" bson:"collegeid"`
	Name        string    `json:"name" bson:"name"`
	Code        string    `json:"code" bson:"code"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	DeanName    string    `json:"dean_name,omitempty" bson:"dean_name,omitempty"`
	DeanEmail   string    `json:"dean_email,omitempty" bson:"dean_email,omitempty"`
	IsActive    bool      `json:"is_active" bson:"is_active"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}

type Department struct {
	DepartmentID    string    `json:"departmentid" bson:"departmentid"`
	Name            string    `json:"name" bson:"name"`
	Code            string    `json:"code" bson:"code"`
	Description     string    `json:"description,omitempty" bson:"description,omitempty"`
	HodName         string    `json:"hod_name,omitempty" bson:"hod_name,omitempty"`
	HodEmail        string    `json:"hod_email,omitempty" bson:"hod_email,omitempty"`
	AvailableLevels []int     `json:"available_levels,omitempty" bson:"available_levels,omitempty"`
	CollegeID       string    `json:"collegeid" bson:"collegeid"`
	IsActive        bool      `json:"is_active" bson:"is_active"`
	CreatedAt       time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" bson:"updated_at"`
}
