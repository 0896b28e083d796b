package models

import "time"

// KeyAction is the kind of key hand-off recorded in the log.
type KeyAction string

const (
	ActionTaken    KeyAction = "TAKEN"
	ActionReturned KeyAction = "RETURNED"
)

// Valid reports whether the action is one of the known values.
func (a KeyAction) Valid() bool {
	return a == ActionTaken || a == ActionReturned
}

// KeyMethod records how a hand-off was captured.
type KeyMethod string

const (
	MethodQR     KeyMethod = "QR"
	MethodManual KeyMethod = "MANUAL"
)

// Valid reports whether the method is one of the known values.
func (m KeyMethod) Valid() bool {
	return m == MethodQR || m == MethodManual
}

// KeyLog is one immutable hand-off fact. Rows are only ever appended; they
// are the single source of truth for "who currently holds a key", which is
// derived from the most recent row rather than cached anywhere.
type KeyLog struct {
	ID          string    `db:"id" json:"id"`
	LockerID    string    `db:"locker_id" json:"locker_id"`
	LockerKeyID *string   `db:"locker_key_id" json:"locker_key_id,omitempty"`
	EmployeeID  string    `db:"employee_id" json:"employee_id"`
	Action      KeyAction `db:"action" json:"action"`
	Method      KeyMethod `db:"method" json:"method"`
	Timestamp   time.Time `db:"timestamp" json:"timestamp"`
}

// KeyLogFilter encapsulates key log listing parameters.
type KeyLogFilter struct {
	LockerID   string
	EmployeeID string
	Limit      int
}

// KeyLogDetail joins a log row with employee and locker context.
type KeyLogDetail struct {
	KeyLog
	EmployeeNIK  string `db:"employee_nik" json:"employee_nik"`
	EmployeeName string `db:"employee_name" json:"employee_name"`
	LockerNumber string `db:"locker_number" json:"locker_number"`
}
