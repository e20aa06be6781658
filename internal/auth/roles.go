package auth

// Role names as stored on user records.
const (
	RoleEmployee  = "Employee"
	RoleITSupport = "IT Support"
	RoleAdmin     = "Admin"
)

// roleLevels defines the fixed permission ordering. Higher level implies
// every capability of the levels below it.
var roleLevels = map[string]int{
	RoleEmployee:  1,
	RoleITSupport: 2,
	RoleAdmin:     3,
}

// RoleLevel returns the numeric level for a role name.
// Unknown roles map to 0 and fail every permission check.
func RoleLevel(role string) int {
	return roleLevels[role]
}

// KnownRole reports whether role is one of the defined role names.
func KnownRole(role string) bool {
	_, ok := roleLevels[role]
	return ok
}

// HasPermission reports whether a user holding userRole may perform an
// action gated on requiredRole. An unknown required role always denies;
// gating on a role that does not exist is an input error, not a grant.
func HasPermission(userRole, requiredRole string) bool {
	required, ok := roleLevels[requiredRole]
	if !ok {
		return false
	}
	return roleLevels[userRole] >= required
}
