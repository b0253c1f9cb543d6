package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRolePredicates(t *testing.T) {
	tests := []struct {
		role            Role
		approveLeaves   bool
		manageEmployees bool
		trackTime       bool
		managerRole     bool
	}{
		{RoleDirector, true, true, false, true},
		{RoleHR, true, true, true, true},
		{RoleTeamLeader, true, false, true, true},
		{RoleEmployee, false, false, true, false},
		{RoleIntern, false, false, true, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.approveLeaves, tt.role.CanApproveLeaves())
			assert.Equal(t, tt.manageEmployees, tt.role.CanManageEmployees())
			assert.Equal(t, tt.trackTime, tt.role.RequiresTimeTracking())
			assert.Equal(t, tt.managerRole, tt.role.IsManagerRole())
		})
	}
}

func TestStageCapabilities(t *testing.T) {
	assert.True(t, RoleDirector.Can(CapabilityReviewDirectorStage))
	assert.False(t, RoleHR.Can(CapabilityReviewDirectorStage))
	assert.True(t, RoleHR.Can(CapabilityReviewHRStage))
	assert.False(t, RoleTeamLeader.Can(CapabilityReviewHRStage))
	assert.True(t, RoleDirector.Can(CapabilityViewGlobalStats))
	assert.False(t, RoleHR.Can(CapabilityViewGlobalStats))
}

func TestUnknownRoleHasNoCapabilities(t *testing.T) {
	unknown := Role("CONTRACTOR")
	for _, caps := range RoleCapabilities {
		for _, c := range caps {
			assert.False(t, unknown.Can(c))
		}
	}
}

func TestParseRole(t *testing.T) {
	role, err := ParseRole(" team_leader ")
	require.NoError(t, err)
	assert.Equal(t, RoleTeamLeader, role)

	_, err = ParseRole("owner")
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleIntern.Valid())
	assert.False(t, Role("").Valid())
	assert.False(t, Role("director").Valid())
}
