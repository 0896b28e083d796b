package models

import "time"

// Contract binds an employee to a locker for a date range. A nil EndDate
// marks a permanent assignment that can never become overdue. Contracts are
// never deleted; deactivation is a one-way transition and rows accumulate
// into an append-only history per locker.
type Contract struct {
	ID          string     `db:"id" json:"id"`
	EmployeeID  string     `db:"employee_id" json:"employee_id"`
	LockerID    string     `db:"locker_id" json:"locker_id"`
	ContractSeq int        `db:"contract_seq" json:"contract_seq"`
	StartDate   time.Time  `db:"start_date" json:"start_date"`
	EndDate     *time.Time `db:"end_date" json:"end_date,omitempty"`
	IsActive    bool       `db:"is_active" json:"is_active"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}

// Permanent reports whether the contract has no expiry.
func (c Contract) Permanent() bool {
	return c.EndDate == nil
}

// ContractFilter encapsulates contract listing parameters.
type ContractFilter struct {
	LockerID   string
	ActiveOnly bool
}

// ContractDetail joins a contract with its employee and locker context.
type ContractDetail struct {
	Contract
	EmployeeNIK  string `db:"employee_nik" json:"employee_nik"`
	EmployeeName string `db:"employee_name" json:"employee_name"`
	Department   string `db:"department" json:"department"`
	LockerNumber string `db:"locker_number" json:"locker_number"`
	RoomID       string `db:"room_id" json:"room_id"`
}
