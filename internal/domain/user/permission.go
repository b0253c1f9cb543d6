package user

type Capability string

const (
	// Leave workflow
	CapabilityApproveLeaves       Capability = "leave.approve"
	CapabilityReviewHRStage       Capability = "leave.review_hr"
	CapabilityReviewDirectorStage Capability = "leave.review_director"

	// Attendance
	CapabilityTrackTime Capability = "attendance.track_time"

	// People management
	CapabilityManagerRole     Capability = "team.manage"
	CapabilityManageEmployees Capability = "employee.manage"

	// Reporting
	CapabilityViewGlobalStats Capability = "stats.view_global"
)

// RoleCapabilities is the single authorization policy table.
var RoleCapabilities = map[Role][]Capability{
	RoleDirector: {
		CapabilityApproveLeaves,
		CapabilityReviewHRStage,
		CapabilityReviewDirectorStage,
		CapabilityManagerRole,
		CapabilityManageEmployees,
		CapabilityViewGlobalStats,
	},
	RoleHR: {
		CapabilityApproveLeaves,
		CapabilityReviewHRStage,
		CapabilityTrackTime,
		CapabilityManagerRole,
		CapabilityManageEmployees,
	},
	RoleTeamLeader: {
		CapabilityApproveLeaves,
		CapabilityTrackTime,
		CapabilityManagerRole,
	},
	RoleEmployee: {
		CapabilityTrackTime,
	},
	RoleIntern: {
		CapabilityTrackTime,
	},
}

// Can reports whether the role holds the capability.
func (r Role) Can(c Capability) bool {
	for _, granted := range RoleCapabilities[r] {
		if granted == c {
			return true
		}
	}
	return false
}

func (r Role) CanApproveLeaves() bool     { return r.Can(CapabilityApproveLeaves) }
func (r Role) CanManageEmployees() bool   { return r.Can(CapabilityManageEmployees) }
func (r Role) RequiresTimeTracking() bool { return r.Can(CapabilityTrackTime) }
func (r Role) IsManagerRole() bool        { return r.Can(CapabilityManagerRole) }
