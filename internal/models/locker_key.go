package models

import "time"

// KeyStatus is the custody state of a physical key.
type KeyStatus string

const (
	KeyAvailable    KeyStatus = "AVAILABLE"
	KeyWithEmployee KeyStatus = "WITH_EMPLOYEE"
	KeyWithHRGA     KeyStatus = "WITH_HRGA"
	KeyLost         KeyStatus = "LOST"
)

// Valid reports whether the status is one of the known values.
func (s KeyStatus) Valid() bool {
	switch s {
	case KeyAvailable, KeyWithEmployee, KeyWithHRGA, KeyLost:
		return true
	}
	return false
}

// LockerKey is a physical key belonging to a locker. PhysicalKeyNumber is
// nil for duplicate/spare keys that carry no engraved number. HolderID is
// meaningful only while the status is WITH_EMPLOYEE.
type LockerKey struct {
	ID                string    `db:"id" json:"id"`
	LockerID          string    `db:"locker_id" json:"locker_id"`
	KeyNumber         int       `db:"key_number" json:"key_number"`
	PhysicalKeyNumber *string   `db:"physical_key_number" json:"physical_key_number,omitempty"`
	Label             *string   `db:"label" json:"label,omitempty"`
	Status            KeyStatus `db:"status" json:"status"`
	HolderID          *string   `db:"holder_id" json:"holder_id,omitempty"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

// KeyFilter encapsulates key listing parameters.
type KeyFilter struct {
	LockerID string
	Status   KeyStatus
	HolderID string
	RoomID   string
	Page     int
	PageSize int
}

// LockerKeyDetail joins a key with its locker and current holder.
type LockerKeyDetail struct {
	LockerKey
	LockerNumber string  `db:"locker_number" json:"locker_number"`
	RoomID       string  `db:"room_id" json:"room_id"`
	HolderName   *string `db:"holder_name" json:"holder_name,omitempty"`
	HolderNIK    *string `db:"holder_nik" json:"holder_nik,omitempty"`
}
