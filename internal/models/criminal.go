package models

import (
	"time"
)

// Criminal record states. New records start as "wanted".
const (
	CriminalStatusWanted    = "wanted"
	CriminalStatusArrested  = "arrested"
	CriminalStatusConvicted = "convicted"
	CriminalStatusReleased  = "released"
)

// ValidCriminalStatus reports whether s is one of the enumerated record states.
func ValidCriminalStatus(s string) bool {
	switch s {
	case CriminalStatusWanted, CriminalStatusArrested, CriminalStatusConvicted, CriminalStatusReleased:
		return true
	}
	return false
}

type Criminal struct {
	ID           string
	NationalID   string // 12-digit, unique among criminal records
	Name         string
	Age          *int
	Gender       *string
	Address      *string
	CrimeType    string
	CrimeDetails *string
	CrimeDate    *string

	Status string // "wanted", "arrested", "convicted", "released"

	// ArrestingOfficerID is set when the record transitions to "arrested" and
	// is sticky from then on: later transitions never clear it.
	ArrestingOfficerID *string

	// CreatedBy is the user who filed the record. Immutable. Fallback owner
	// for statistics attribution when no arrest has been made.
	CreatedBy string

	ImageURL *string // at most one stored photo per record

	CreatedAt time.Time
	UpdatedAt time.Time

	// OfficerName is the attributed officer's display name, populated by
	// read queries via a left join. Not a column on the criminals table.
	OfficerName *string
}

// CriminalPatch is a partial update: nil fields mean "unchanged". Built by
// the handler from whichever form fields the client supplied.
type CriminalPatch struct {
	NationalID   *string
	Name         *string
	Age          *int
	Gender       *string
	Address      *string
	CrimeType    *string
	CrimeDetails *string
	CrimeDate    *string
	ImageURL     *string
}

// IsEmpty reports whether the patch carries no changes at all.
func (p *CriminalPatch) IsEmpty() bool {
	return p.NationalID == nil && p.Name == nil && p.Age == nil &&
		p.Gender == nil && p.Address == nil && p.CrimeType == nil &&
		p.CrimeDetails == nil && p.CrimeDate == nil && p.ImageURL == nil
}

// OfficerStats is a live per-officer aggregate computed straight from the
// criminals table, independent of the cached counters on the users row.
type OfficerStats struct {
	OfficerID   string
	Name        string
	Designation *string
	Solved      int
	Ongoing     int
}
