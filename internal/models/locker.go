package models

import (
	"fmt"
	"time"
)

// LockerStatus is the stored occupancy projection of a locker.
type LockerStatus string

const (
	// Derived statuses, recomputed from contract state.
	LockerAvailable LockerStatus = "AVAILABLE"
	LockerFilled    LockerStatus = "FILLED"
	LockerOverdue   LockerStatus = "OVERDUE"

	// Operator overrides, never derived from contract state.
	LockerMaintenance  LockerStatus = "MAINTENANCE"
	LockerUnidentified LockerStatus = "UNIDENTIFIED"
)

// Valid reports whether the status is one of the known values.
func (s LockerStatus) Valid() bool {
	switch s {
	case LockerAvailable, LockerFilled, LockerOverdue, LockerMaintenance, LockerUnidentified:
		return true
	}
	return false
}

// Override reports whether the status is a manual operator override rather
// than a projection of contract state.
func (s LockerStatus) Override() bool {
	return s == LockerMaintenance || s == LockerUnidentified
}

// Room describes a physical locker room with a fixed slot count.
type Room struct {
	ID    string
	Name  string
	Slots int
}

// Rooms is the facility's fixed provisioning layout.
var Rooms = []Room{
	{ID: "M01", Name: "Male 01", Slots: 218},
	{ID: "M02", Name: "Male 02", Slots: 42},
	{ID: "F01", Name: "Female 01", Slots: 94},
}

// LockerNumber renders the canonical locker number for a room slot,
// e.g. L/M01/001.
func LockerNumber(roomID string, seq int) string {
	return fmt.Sprintf("L/%s/%03d", roomID, seq)
}

// Locker is a physical locker slot.
type Locker struct {
	ID           string       `db:"id" json:"id"`
	LockerNumber string       `db:"locker_number" json:"locker_number"`
	RoomID       string       `db:"room_id" json:"room_id"`
	Status       LockerStatus `db:"status" json:"status"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time    `db:"updated_at" json:"updated_at"`
}

// LockerFilter encapsulates locker listing parameters.
type LockerFilter struct {
	RoomID string
	Status LockerStatus
}

// LockerDetail is a locker with its contract history, recent key activity
// and the resolved current active contract.
type LockerDetail struct {
	Locker
	Contracts       []ContractDetail `json:"contracts"`
	Keys            []LockerKey      `json:"keys,omitempty"`
	KeyLogs         []KeyLogDetail   `json:"key_logs"`
	CurrentContract *ContractDetail  `json:"current_contract,omitempty"`
}

// LockerStats is the per-status occupancy snapshot for dashboards.
type LockerStats struct {
	Total        int `json:"total"`
	Available    int `json:"available"`
	Filled       int `json:"filled"`
	Overdue      int `json:"overdue"`
	Maintenance  int `json:"maintenance"`
	Unidentified int `json:"unidentified"`
}
