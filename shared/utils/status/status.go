package status

import "saasgrid-backend/shared/database/models"

// Transition tables per entity. A pair not listed here is not allowed, and
// terminal states have no successors at all.

var tenantTransitions = map[string][]string{
	models.TenantStatusPending:   {models.TenantStatusActive, models.TenantStatusDeleted},
	models.TenantStatusActive:    {models.TenantStatusSuspended, models.TenantStatusArchived},
	models.TenantStatusSuspended: {models.TenantStatusActive, models.TenantStatusArchived},
	models.TenantStatusArchived:  {models.TenantStatusDeleted},
	models.TenantStatusDeleted:   {},
}

var userTransitions = map[string][]string{
	models.UserStatusPending:  {models.UserStatusActive, models.UserStatusDeleted},
	models.UserStatusActive:   {models.UserStatusDisabled, models.UserStatusDeleted},
	models.UserStatusDisabled: {models.UserStatusActive, models.UserStatusDeleted},
	models.UserStatusDeleted:  {},
}

var organizationTransitions = map[string][]string{
	models.OrganizationStatusActive:   {models.OrganizationStatusInactive, models.OrganizationStatusDeleted},
	models.OrganizationStatusInactive: {models.OrganizationStatusActive, models.OrganizationStatusDeleted},
	models.OrganizationStatusDeleted:  {},
}

var departmentTransitions = map[string][]string{
	models.DepartmentStatusActive:   {models.DepartmentStatusInactive, models.DepartmentStatusDeleted},
	models.DepartmentStatusInactive: {models.DepartmentStatusActive, models.DepartmentStatusDeleted},
	models.DepartmentStatusDeleted:  {},
}

func canTransition(table map[string][]string, from, to string) bool {
	for _, next := range table[from] {
		if next == to {
			return true
		}
	}
	return false
}

func nextStates(table map[string][]string, from string) []string {
	successors, ok := table[from]
	if !ok {
		return nil
	}
	out := make([]string, len(successors))
	copy(out, successors)
	return out
}

// CanTenantTransition reports whether a tenant may move from one status to another.
func CanTenantTransition(from, to string) bool {
	return canTransition(tenantTransitions, from, to)
}

// NextTenantStates returns the statuses reachable from the given tenant status.
func NextTenantStates(from string) []string {
	return nextStates(tenantTransitions, from)
}

// CanUserTransition reports whether a user may move from one status to another.
func CanUserTransition(from, to string) bool {
	return canTransition(userTransitions, from, to)
}

// NextUserStates returns the statuses reachable from the given user status.
func NextUserStates(from string) []string {
	return nextStates(userTransitions, from)
}

// CanOrganizationTransition reports whether an organization status change is allowed.
func CanOrganizationTransition(from, to string) bool {
	return canTransition(organizationTransitions, from, to)
}

// CanDepartmentTransition reports whether a department status change is allowed.
func CanDepartmentTransition(from, to string) bool {
	return canTransition(departmentTransitions, from, to)
}

// IsTerminalTenantStatus reports whether no further tenant transitions exist.
func IsTerminalTenantStatus(s string) bool {
	successors, ok := tenantTransitions[s]
	return ok && len(successors) == 0
}

// IsTerminalUserStatus reports whether no further user transitions exist.
func IsTerminalUserStatus(s string) bool {
	successors, ok := userTransitions[s]
	return ok && len(successors) == 0
}
