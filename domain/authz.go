package domain

import (
	"context"
	"net/http"
)

/****************************
*     Authorization errors  *
****************************/
var (
	ErrUserDeleted = &DetailedError{
		IDField:         "USER_DELETED",
		StatusDescField: http.StatusText(http.StatusForbidden),
		ErrorField:      "User account has been deleted",
		StatusCodeField: http.StatusForbidden,
	}
	ErrNoRoleAssigned = &DetailedError{
		IDField:         "NO_ROLE_ASSIGNED",
		StatusDescField: http.StatusText(http.StatusForbidden),
		ErrorField:      "User has no role assigned",
		StatusCodeField: http.StatusForbidden,
	}
	ErrPermissionNotGranted = &DetailedError{
		IDField:         "PERMISSION_NOT_GRANTED",
		StatusDescField: http.StatusText(http.StatusForbidden),
		ErrorField:      "User does not have the required permission",
		StatusCodeField: http.StatusForbidden,
	}
	ErrRoleInUse = &DetailedError{
		IDField:         "ROLE_IN_USE",
		StatusDescField: http.StatusText(http.StatusConflict),
		ErrorField:      "Role is still assigned to active users",
		StatusCodeField: http.StatusConflict,
	}
	ErrPermissionInUse = &DetailedError{
		IDField:         "PERMISSION_IN_USE",
		StatusDescField: http.StatusText(http.StatusConflict),
		ErrorField:      "Permission is still granted to active roles or users",
		StatusCodeField: http.StatusConflict,
	}
	ErrInvalidPermissionReference = &DetailedError{
		IDField:         "INVALID_PERMISSION_REFERENCE",
		StatusDescField: http.StatusText(http.StatusBadRequest),
		ErrorField:      "One or more permission ids do not resolve to an active permission",
		StatusCodeField: http.StatusBadRequest,
	}
)

// PermissionSet maps permission codes to whether the principal holds them.
// Every code of the active catalog is present; absent codes are denied.
type PermissionSet map[string]bool

func (s PermissionSet) Allows(code string) bool {
	return s[code]
}

// Granted returns the codes that resolve to true.
func (s PermissionSet) Granted() []string {
	granted := make([]string, 0, len(s))
	for code, ok := range s {
		if ok {
			granted = append(granted, code)
		}
	}
	return granted
}

/****************************
*     Permission catalog    *
****************************/
const (
	PermReadUser   = "read_user"
	PermCreateUser = "create_user"
	PermUpdateUser = "update_user"
	PermDeleteUser = "delete_user"

	PermReadRole   = "read_role"
	PermCreateRole = "create_role"
	PermUpdateRole = "update_role"
	PermDeleteRole = "delete_role"

	PermReadPermission   = "read_permission"
	PermCreatePermission = "create_permission"
	PermUpdatePermission = "update_permission"
	PermDeletePermission = "delete_permission"

	PermReadDepartment   = "read_department"
	PermCreateDepartment = "create_department"
	PermUpdateDepartment = "update_department"
	PermDeleteDepartment = "delete_department"

	PermReadEmployee   = "read_employee"
	PermCreateEmployee = "create_employee"
	PermUpdateEmployee = "update_employee"
	PermDeleteEmployee = "delete_employee"
)

const (
	ModuleUsers       = "users"
	ModuleRoles       = "roles"
	ModulePermissions = "permissions"
	ModuleDepartments = "departments"
	ModuleEmployees   = "employees"
)

// PermissionSeed describes one catalog entry for bootstrap seeding.
type PermissionSeed struct {
	Code        string
	Name        string
	ModuleName  string
	Description string
}

// CatalogScopes returns the full permission catalog grouped by module.
func CatalogScopes() []PermissionSeed {
	return []PermissionSeed{
		{Code: PermReadUser, Name: "Read users", ModuleName: ModuleUsers, Description: "List and view user accounts"},
		{Code: PermCreateUser, Name: "Create users", ModuleName: ModuleUsers, Description: "Create user accounts"},
		{Code: PermUpdateUser, Name: "Update users", ModuleName: ModuleUsers, Description: "Update user accounts and their grants"},
		{Code: PermDeleteUser, Name: "Delete users", ModuleName: ModuleUsers, Description: "Delete and restore user accounts"},

		{Code: PermReadRole, Name: "Read roles", ModuleName: ModuleRoles, Description: "List and view roles"},
		{Code: PermCreateRole, Name: "Create roles", ModuleName: ModuleRoles, Description: "Create roles"},
		{Code: PermUpdateRole, Name: "Update roles", ModuleName: ModuleRoles, Description: "Update roles and their permission sets"},
		{Code: PermDeleteRole, Name: "Delete roles", ModuleName: ModuleRoles, Description: "Delete and restore roles"},

		{Code: PermReadPermission, Name: "Read permissions", ModuleName: ModulePermissions, Description: "List and view permissions"},
		{Code: PermCreatePermission, Name: "Create permissions", ModuleName: ModulePermissions, Description: "Create permissions"},
		{Code: PermUpdatePermission, Name: "Update permissions", ModuleName: ModulePermissions, Description: "Update permissions"},
		{Code: PermDeletePermission, Name: "Delete permissions", ModuleName: ModulePermissions, Description: "Delete and restore permissions"},

		{Code: PermReadDepartment, Name: "Read departments", ModuleName: ModuleDepartments, Description: "List and view departments"},
		{Code: PermCreateDepartment, Name: "Create departments", ModuleName: ModuleDepartments, Description: "Create departments"},
		{Code: PermUpdateDepartment, Name: "Update departments", ModuleName: ModuleDepartments, Description: "Update departments"},
		{Code: PermDeleteDepartment, Name: "Delete departments", ModuleName: ModuleDepartments, Description: "Delete and restore departments"},

		{Code: PermReadEmployee, Name: "Read employees", ModuleName: ModuleEmployees, Description: "List and view employees"},
		{Code: PermCreateEmployee, Name: "Create employees", ModuleName: ModuleEmployees, Description: "Create employees"},
		{Code: PermUpdateEmployee, Name: "Update employees", ModuleName: ModuleEmployees, Description: "Update employees"},
		{Code: PermDeleteEmployee, Name: "Delete employees", ModuleName: ModuleEmployees, Description: "Delete and restore employees"},
	}
}

/**********************************************
*     Authorization usecase interface         *
**********************************************/

// AuthzUsecase is the authorization core. Decisions are always computed
// from current database state; results are never cached.
type AuthzUsecase interface {
	// ComputeEffectivePermissions resolves the full permission map for the
	// given principal: every active catalog code mapped to granted or not.
	ComputeEffectivePermissions(ctx context.Context, user *User) (PermissionSet, error)

	// Authorize reloads the principal and returns nil when it holds the
	// permission code. A non-nil error is always one of the deny reasons.
	Authorize(ctx context.Context, userID string, code string) error

	// AssertRoleDeletable fails with ErrRoleInUse while any active user
	// still references the role.
	AssertRoleDeletable(ctx context.Context, roleID string) error

	// AssertPermissionDeletable fails with ErrPermissionInUse while any
	// active role or active user still holds the permission.
	AssertPermissionDeletable(ctx context.Context, permissionID string) error
}
