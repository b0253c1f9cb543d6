package user

import (
	"strings"
	"time"
)

type Role string

const (
	RoleDirector   Role = "DIRECTOR"    // Top of the hierarchy, approves escalated leave
	RoleHR         Role = "HR"          // Human resources, second approval stage
	RoleTeamLeader Role = "TEAM_LEADER" // Line manager of a team
	RoleEmployee   Role = "EMPLOYEE"
	RoleIntern     Role = "INTERN"
)

var validRoles = map[Role]struct{}{
	RoleDirector: {}, RoleHR: {}, RoleTeamLeader: {}, RoleEmployee: {}, RoleIntern: {},
}

// ParseRole accepts a role name in any case.
func ParseRole(s string) (Role, error) {
	role := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !role.Valid() {
		return "", ErrInvalidRole
	}
	return role, nil
}

func (r Role) Valid() bool {
	_, ok := validRoles[r]
	return ok
}

type User struct {
	ID        string
	Email     string
	FullName  string
	Role      Role
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Caller is the identity resolved from an access token.
type Caller struct {
	UserID string
	Role   Role
}
