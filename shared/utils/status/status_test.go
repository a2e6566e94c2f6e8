package status

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"saasgrid-backend/shared/database/models"
)

func TestTenantTransitions(t *testing.T) {
	allowed := [][2]string{
		{models.TenantStatusPending, models.TenantStatusActive},
		{models.TenantStatusPending, models.TenantStatusDeleted},
		{models.TenantStatusActive, models.TenantStatusSuspended},
		{models.TenantStatusActive, models.TenantStatusArchived},
		{models.TenantStatusSuspended, models.TenantStatusActive},
		{models.TenantStatusSuspended, models.TenantStatusArchived},
		{models.TenantStatusArchived, models.TenantStatusDeleted},
	}
	for _, pair := range allowed {
		assert.True(t, CanTenantTransition(pair[0], pair[1]), "%s -> %s should be allowed", pair[0], pair[1])
	}

	denied := [][2]string{
		{models.TenantStatusPending, models.TenantStatusSuspended},
		{models.TenantStatusActive, models.TenantStatusPending},
		{models.TenantStatusActive, models.TenantStatusDeleted},
		{models.TenantStatusArchived, models.TenantStatusActive},
		{models.TenantStatusDeleted, models.TenantStatusActive},
	}
	for _, pair := range denied {
		assert.False(t, CanTenantTransition(pair[0], pair[1]), "%s -> %s should be denied", pair[0], pair[1])
	}
}

func TestDeletedIsTerminal(t *testing.T) {
	assert.True(t, IsTerminalTenantStatus(models.TenantStatusDeleted))
	assert.True(t, IsTerminalUserStatus(models.UserStatusDeleted))
	assert.Empty(t, NextTenantStates(models.TenantStatusDeleted))
	assert.Empty(t, NextUserStates(models.UserStatusDeleted))

	for _, to := range []string{
		models.TenantStatusPending,
		models.TenantStatusActive,
		models.TenantStatusSuspended,
		models.TenantStatusArchived,
	} {
		assert.False(t, CanTenantTransition(models.TenantStatusDeleted, to))
	}
}

func TestUnknownStatusesAreRejected(t *testing.T) {
	assert.False(t, CanTenantTransition("BOGUS", models.TenantStatusActive))
	assert.False(t, CanTenantTransition(models.TenantStatusActive, "BOGUS"))
	assert.Nil(t, NextTenantStates("BOGUS"))
	assert.False(t, IsTerminalTenantStatus("BOGUS"))
}

func TestUserTransitions(t *testing.T) {
	assert.True(t, CanUserTransition(models.UserStatusPending, models.UserStatusActive))
	assert.True(t, CanUserTransition(models.UserStatusActive, models.UserStatusDisabled))
	assert.True(t, CanUserTransition(models.UserStatusDisabled, models.UserStatusActive))
	assert.False(t, CanUserTransition(models.UserStatusPending, models.UserStatusDisabled))
	assert.False(t, CanUserTransition(models.UserStatusDisabled, models.UserStatusPending))
}

func TestOrganizationAndDepartmentTransitions(t *testing.T) {
	assert.True(t, CanOrganizationTransition(models.OrganizationStatusActive, models.OrganizationStatusInactive))
	assert.True(t, CanOrganizationTransition(models.OrganizationStatusInactive, models.OrganizationStatusActive))
	assert.False(t, CanOrganizationTransition(models.OrganizationStatusDeleted, models.OrganizationStatusActive))

	assert.True(t, CanDepartmentTransition(models.DepartmentStatusActive, models.DepartmentStatusInactive))
	assert.False(t, CanDepartmentTransition(models.DepartmentStatusDeleted, models.DepartmentStatusActive))
}

func TestNextStatesReturnsCopy(t *testing.T) {
	first := NextTenantStates(models.TenantStatusActive)
	first[0] = "MUTATED"
	second := NextTenantStates(models.TenantStatusActive)
	assert.NotEqual(t, "MUTATED", second[0])
}
