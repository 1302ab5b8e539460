package entities

import "strings"

// Role is the closed set of identities the judging workflow recognises.
type Role string

const (
	RoleAdmin       Role = "ADMIN"
	RoleOrganizer   Role = "ORGANIZER"
	RoleBoard       Role = "BOARD"
	RoleJudge       Role = "JUDGE"
	RoleTallyMaster Role = "TALLY_MASTER"
	RoleAuditor     Role = "AUDITOR"
	RoleEmcee       Role = "EMCEE"
	RoleContestant  Role = "CONTESTANT"
)

var knownRoles = []Role{
	RoleAdmin,
	RoleOrganizer,
	RoleBoard,
	RoleJudge,
	RoleTallyMaster,
	RoleAuditor,
	RoleEmcee,
	RoleContestant,
}

// ParseRole normalises a raw role string. Unknown values report false.
func ParseRole(raw string) (Role, bool) {
	value := Role(strings.ToUpper(strings.TrimSpace(raw)))
	for _, role := range knownRoles {
		if role == value {
			return role, true
		}
	}
	return "", false
}

func (r Role) String() string {
	return string(r)
}

// Actor is the authenticated caller identity handed to every operation.
// Authentication happens upstream; the core only authorizes.
type Actor struct {
	UserID   string
	Role     Role
	TenantID string
}

// InTenant reports whether a resource is visible to the actor. Resources of
// another tenant are reported as missing, never as forbidden.
func (a Actor) InTenant(resourceTenantID string) bool {
	return SameTenant(a.TenantID, resourceTenantID)
}

// SameTenant compares tenant ids ignoring surrounding whitespace.
func SameTenant(a string, b string) bool {
	return strings.TrimSpace(a) == strings.TrimSpace(b)
}
