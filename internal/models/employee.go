package models

import "time"

// Employee is a person eligible to hold a locker and its keys.
type Employee struct {
	ID         string    `db:"id" json:"id"`
	NIK        string    `db:"nik" json:"nik"`
	Name       string    `db:"name" json:"name"`
	Department string    `db:"department" json:"department"`
	IsActive   bool      `db:"is_active" json:"is_active"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// EmployeeFilter encapsulates allowed search parameters for listing employees.
type EmployeeFilter struct {
	Search     string
	ActiveOnly bool
}

// EmployeeDetail joins an employee with their current locker assignment.
type EmployeeDetail struct {
	Employee
	CurrentLockerID     *string `db:"current_locker_id" json:"current_locker_id,omitempty"`
	CurrentLockerNumber *string `db:"current_locker_number" json:"current_locker_number,omitempty"`
	CurrentRoomID       *string `db:"current_room_id" json:"current_room_id,omitempty"`
}
