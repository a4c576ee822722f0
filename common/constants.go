package common

// Gin context keys set by the authenticator.
const (
	UserContextKey      = "ctx_user"
	SessionIDContextKey = "ctx_session_id"
)

// Preload field names for gorm associations.
const (
	FieldRole            = "Role"
	FieldRolePermissions = "Role.Permissions"
	FieldPermissions     = "Permissions"
	FieldEmployee        = "Employee"
	FieldDepartment      = "Department"
)
