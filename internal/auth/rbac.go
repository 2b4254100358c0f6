// Package auth defines the role hierarchy and permission sets that gate
// every operation in the API.  Two independent mechanisms exist: a total
// order over roles (rank comparison) and an explicit per-role permission
// enumeration.  Route enforcement goes exclusively through permissions;
// rank comparison is kept for in-handler checks that are naturally
// phrased as "at least admin".
package auth

// Role names match the values stored in the users.role column and the
// "role" claim of issued access tokens.
type Role string

const (
    RoleSuperAdmin      Role = "super_admin"
    RoleAdmin           Role = "admin"
    RoleTeamManagement  Role = "team_management"
    RoleCommitteeMember Role = "committee_member"
    RoleUser            Role = "user"
)

// Permission is a named capability assigned to roles below.  Handlers
// reference these constants instead of raw strings so that a typo fails
// to compile rather than silently denying access.
type Permission string

const (
    PermManageUsers        Permission = "manage_users"
    PermManageAdmins       Permission = "manage_admins"
    PermManageCycles       Permission = "manage_cycles"
    PermDeleteCycles       Permission = "delete_cycles"
    PermManageForms        Permission = "manage_forms"
    PermManageApplications Permission = "manage_applications"
    PermReviewApplications Permission = "review_applications"
    PermManageInterviews   Permission = "manage_interviews"
    PermScheduleInterviews Permission = "schedule_interviews"
    PermSendEmails         Permission = "send_emails"
    PermViewAuditLogs      Permission = "view_audit_logs"
    PermSubmitApplication  Permission = "submit_application"
    PermViewOwnProfile     Permission = "view_own_profile"
)

// roleRank assigns each role its position in the total order.  A missing
// role ranks 0 so every comparison against a real role fails closed.
var roleRank = map[Role]int{
    RoleSuperAdmin:      5,
    RoleAdmin:           4,
    RoleTeamManagement:  3,
    RoleCommitteeMember: 2,
    RoleUser:            1,
}

// rolePermissions enumerates each role's capabilities explicitly.  Sets
// are not derived from rank: higher roles happen to list supersets of
// lower ones plus extras, but nothing inherits automatically.
var rolePermissions = map[Role]map[Permission]bool{
    RoleSuperAdmin: permSet(
        PermManageUsers, PermManageAdmins,
        PermManageCycles, PermDeleteCycles,
        PermManageForms, PermManageApplications,
        PermReviewApplications,
        PermManageInterviews, PermScheduleInterviews,
        PermSendEmails, PermViewAuditLogs,
    ),
    RoleAdmin: permSet(
        PermManageCycles,
        PermManageForms, PermManageApplications,
        PermReviewApplications,
        PermManageInterviews, PermScheduleInterviews,
        PermSendEmails, PermViewAuditLogs,
    ),
    RoleTeamManagement: permSet(
        PermManageForms, PermManageApplications,
        PermReviewApplications,
        PermManageInterviews, PermScheduleInterviews,
    ),
    RoleCommitteeMember: permSet(
        PermReviewApplications, PermScheduleInterviews,
    ),
    RoleUser: permSet(
        PermSubmitApplication, PermViewOwnProfile,
    ),
}

func permSet(perms ...Permission) map[Permission]bool {
    m := make(map[Permission]bool, len(perms))
    for _, p := range perms {
        m[p] = true
    }
    return m
}

// Rank returns the numeric rank of a role, 0 when the role is unknown.
func Rank(r Role) int {
    return roleRank[r]
}

// Valid reports whether r is one of the five recognized roles.
func Valid(r Role) bool {
    _, ok := roleRank[r]
    return ok
}

// HasRole reports whether actual ranks at or above required.  Unknown
// roles rank 0, so any comparison involving one returns false as long as
// the other side is a real role.
func HasRole(actual, required Role) bool {
    ra, ok := roleRank[actual]
    if !ok {
        return false
    }
    rr, ok := roleRank[required]
    if !ok {
        return false
    }
    return ra >= rr
}

// HasPermission reports whether the role's enumerated set contains the
// permission.  Unknown roles have no permissions.
func HasPermission(r Role, p Permission) bool {
    return rolePermissions[r][p]
}

// Roles returns all recognized roles in descending rank order.  Used by
// validation and tests.
func Roles() []Role {
    return []Role{RoleSuperAdmin, RoleAdmin, RoleTeamManagement, RoleCommitteeMember, RoleUser}
}
