// Package policy holds the role-based access rules. Every decision the rest
// of the application makes about visibility or permission goes through these
// functions; no handler or service branches on roles on its own.
package policy

import (
	"github.com/Negi04/Criminals-Record-Management-System/internal/models"
)

// VisibleStatuses returns the criminal record states a caller with the given
// role may see. Police and admins see everything; regular users only see
// records that have already led to an arrest or conviction.
func VisibleStatuses(role string) []string {
	switch role {
	case models.RoleAdmin, models.RolePolice:
		return []string{
			models.CriminalStatusWanted,
			models.CriminalStatusArrested,
			models.CriminalStatusConvicted,
			models.CriminalStatusReleased,
		}
	default:
		return []string{
			models.CriminalStatusArrested,
			models.CriminalStatusConvicted,
		}
	}
}

// CanMutateCriminalRecords reports whether the role may create or modify
// criminal records, including status changes.
func CanMutateCriminalRecords(role string) bool {
	return role == models.RoleAdmin || role == models.RolePolice
}

// CanManageUsers reports whether the role may review and decide pending
// registrations.
func CanManageUsers(role string) bool {
	return role == models.RoleAdmin
}

// CanViewOfficerStats reports whether the role may read the live per-officer
// aggregates. The officer roster itself is visible to everyone authenticated.
func CanViewOfficerStats(role string) bool {
	return role == models.RoleAdmin || role == models.RolePolice
}
