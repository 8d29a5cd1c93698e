package storage

import (
	"time"

	apperrors "github.com/vbamtools/campaignstore/internal/platform/errors"
)

// ErrNotFound indicates a requested persistence record is missing.
// Callers use this to differentiate between legitimate "no such entity"
// states and transport or data corruption failures.
var ErrNotFound = apperrors.New(apperrors.CodeNotFound, "record not found")

// ErrConflict indicates an insert collided with an existing identifier,
// such as re-creating a campaign file or reusing a unique empire name.
var ErrConflict = apperrors.New(apperrors.CodeConflict, "record already exists")

// ErrPoolClosed indicates the connection pool was closed while operations
// were queued or in flight. It is a lifecycle error, fatal to the calling
// operation but never retried internally.
var ErrPoolClosed = apperrors.New(apperrors.CodePoolClosed, "connection pool is closed")

// SessionRecord is a moderator session log entry for a campaign.
//
// Session identifiers are engine-generated; inserting a record with a
// nonzero ID is a programming error. Updates are last-writer-wins and
// deletes are physical.
type SessionRecord struct {
	ID        int64
	Title     string
	Body      string
	Turn      int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// EmpireRecord is a player or NPC empire in the campaign.
//
// Empire identifiers are engine-generated, but names are unique: inserting
// a duplicate name fails with ErrConflict.
type EmpireRecord struct {
	ID        int64
	Name      string
	Treasury  int64
	Tech      int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SystemRecord is a star system on the campaign map.
//
// Owner is the owning empire's ID; zero means unowned.
type SystemRecord struct {
	ID        int64
	Name      string
	Ptype     string
	Raw       int64
	Cap       int64
	Pop       int64
	Mor       int64
	Ind       int64
	Dev       int64
	Fails     int64
	Owner     int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FleetRecord is a named fleet owned by an empire at a system location.
type FleetRecord struct {
	ID        int64
	Name      string
	Owner     int64
	Location  int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ShipTypeRecord is a ship design in the campaign's roster.
//
// Empire is the owning empire for empire-specific designs; zero marks a
// design available to every empire.
type ShipTypeRecord struct {
	ID     int64
	Class  string
	Hull   string
	Cost   int64
	CR     int64
	Atk    int64
	Def    int64
	Cap    int64
	Empire int64
}

// ShipRecord is a single hull in a fleet, built from a roster design.
type ShipRecord struct {
	ID         int64
	Type       int64
	Fleet      int64
	Crippled   bool
	Mothballed bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// GroundTypeRecord is a ground unit design. The standard roster is seeded
// when the campaign file is created.
type GroundTypeRecord struct {
	ID   int64
	Name string
	Abbr string
	Cost int64
	Atk  int64
	Def  int64
}

// GroundUnitRecord is a ground unit stationed at a system.
type GroundUnitRecord struct {
	ID        int64
	Type      int64
	Location  int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SessionFilter restricts session listings. Zero values match everything.
type SessionFilter struct {
	// Turn filters to entries logged on a specific turn when non-nil.
	Turn *int64
	// TitlePrefix filters to titles beginning with the prefix.
	TitlePrefix string
}

// SystemFilter restricts system listings. Zero values match everything.
type SystemFilter struct {
	// Owner filters to systems owned by an empire when non-nil;
	// a pointer to zero selects unowned systems.
	Owner *int64
	// Ptype filters by planet type.
	Ptype string
}

// AuditEvent is an operational audit row recorded alongside campaign data.
type AuditEvent struct {
	ID             string
	Timestamp      time.Time
	EventName      string
	Severity       string
	Attributes     map[string]string
	AttributesJSON []byte
}

// Statistics aggregates per-campaign record counts.
type Statistics struct {
	SessionCount int64
	EmpireCount  int64
	SystemCount  int64
	FleetCount   int64
}
