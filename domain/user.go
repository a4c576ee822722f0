package domain

import (
	"context"
	"net/http"
)

/****************************
*        User errors        *
****************************/
var (
	ErrUserNotFound = &DetailedError{
		IDField:         "USER_NOT_FOUND",
		StatusDescField: http.StatusText(http.StatusNotFound),
		ErrorField:      "User not found",
		StatusCodeField: http.StatusNotFound,
	}
	ErrEmailAlreadyExists = &DetailedError{
		IDField:         "EMAIL_ALREADY_EXISTS",
		StatusDescField: http.StatusText(http.StatusBadRequest),
		ErrorField:      "User with this email already exists",
		StatusCodeField: http.StatusBadRequest,
	}
	ErrUsernameAlreadyExists = &DetailedError{
		IDField:         "USERNAME_ALREADY_EXISTS",
		StatusDescField: http.StatusText(http.StatusBadRequest),
		ErrorField:      "User with this username already exists",
		StatusCodeField: http.StatusBadRequest,
	}
	ErrPasswordHashFailed = &DetailedError{
		IDField:         "PASSWORD_HASH_FAILED",
		StatusDescField: http.StatusText(http.StatusInternalServerError),
		ErrorField:      "Failed to hash password",
		StatusCodeField: http.StatusInternalServerError,
	}
	ErrUserInactive = &DetailedError{
		IDField:         "USER_INACTIVE",
		StatusDescField: http.StatusText(http.StatusForbidden),
		ErrorField:      "User account is inactive",
		StatusCodeField: http.StatusForbidden,
	}
	ErrUserSelfDelete = &DetailedError{
		IDField:         "USER_SELF_DELETE",
		StatusDescField: http.StatusText(http.StatusBadRequest),
		ErrorField:      "Users cannot delete their own account",
		StatusCodeField: http.StatusBadRequest,
	}
	ErrUserRoleDeleted = &DetailedError{
		IDField:         "USER_ROLE_DELETED",
		StatusDescField: http.StatusText(http.StatusConflict),
		ErrorField:      "Referenced role has been deleted",
		StatusCodeField: http.StatusConflict,
	}
)

/***************************************
*       User entities and types       *
***************************************/

type User struct {
	AuditModel
	Email       string        `json:"email" gorm:"type:varchar(100);unique;not null"`
	Username    string        `json:"username" gorm:"type:varchar(50);unique;not null"`
	Password    string        `json:"-" gorm:"type:varchar(60);not null"`
	IsActive    bool          `json:"is_active" gorm:"default:true"`
	IsSuperuser bool          `json:"is_superuser" gorm:"default:false"`
	RoleID      *string       `json:"role_id" gorm:"type:varchar(36);index"`
	Role        *Role         `json:"role,omitempty"`
	Permissions []*Permission `json:"permissions,omitempty" gorm:"many2many:user_permissions;"`
	EmployeeID  *string       `json:"employee_id" gorm:"type:varchar(36);unique"`
	Employee    *Employee     `json:"employee,omitempty"`
}

// UserPermission is the direct-grant join row. Kept as a first-class
// struct so the grant time is recorded.
type UserPermission struct {
	UserID       string `json:"user_id" gorm:"type:varchar(36);primaryKey"`
	PermissionID string `json:"permission_id" gorm:"type:varchar(36);primaryKey"`
	CreatedAt    int64  `json:"created_at" gorm:"autoCreateTime:milli"`
}

// HasRole reports whether the user references a role that has not been
// soft deleted. The Role association must be loaded by the caller.
func (u *User) HasRole() bool {
	return u.RoleID != nil && u.Role != nil && !u.Role.IsDeleted()
}

// ActiveDirectGrants returns the user's direct permission grants that
// are still live.
func (u *User) ActiveDirectGrants() []*Permission {
	grants := make([]*Permission, 0, len(u.Permissions))
	for _, p := range u.Permissions {
		if p != nil && !p.IsDeleted() {
			grants = append(grants, p)
		}
	}
	return grants
}

type UserFilter struct {
	ID              *string  `json:"id" form:"id"`
	IDNe            *string  `json:"id_ne" form:"id_ne"`
	IDIn            []string `json:"id_in" form:"id_in"`
	Email           *string  `json:"email" form:"email"`
	Username        *string  `json:"username" form:"username"`
	RoleID          *string  `json:"role_id" form:"role_id"`
	IsActive        *bool    `json:"is_active" form:"is_active"`
	IsSuperuser     *bool    `json:"is_superuser" form:"is_superuser"`
	HasPermissionID *string  `json:"has_permission_id" form:"has_permission_id"`
	SearchTerm      *string  `json:"search_term" form:"search_term"`
	SearchFields    []string `json:"search_fields" form:"search_fields"`
	IncludeDeleted  *bool    `json:"include_deleted" form:"include_deleted"`
}

/**********************************************
*      User usecase interfaces and types      *
**********************************************/
type UserUsecase interface {
	Create(ctx context.Context, actor *User, req *UserCreateRequest) (*User, error)
	FindByID(ctx context.Context, userID string, option *FindOneOption) (*User, error)
	FindPage(ctx context.Context, filter *UserFilter, option *FindPageOption) ([]*User, *Pagination, error)
	Update(ctx context.Context, actor *User, userID string, req *UserUpdateRequest) (*User, error)
	Delete(ctx context.Context, actor *User, userID string, permanent bool) error
	Restore(ctx context.Context, actor *User, userID string) (*User, error)
}

type UserCreateRequest struct {
	Email         string   `json:"email" binding:"required,email"`
	Username      string   `json:"username" binding:"required,min=3,max=50"`
	Password      string   `json:"password" binding:"required,min=8"`
	IsActive      *bool    `json:"is_active"`
	IsSuperuser   bool     `json:"is_superuser"`
	RoleID        *string  `json:"role_id"`
	PermissionIDs []string `json:"permission_ids"`
	EmployeeID    *string  `json:"employee_id"`
}

type UserUpdateRequest struct {
	Email         *string   `json:"email,omitempty" binding:"omitempty,email"`
	Username      *string   `json:"username,omitempty" binding:"omitempty,min=3,max=50"`
	IsActive      *bool     `json:"is_active,omitempty"`
	IsSuperuser   *bool     `json:"is_superuser,omitempty"`
	RoleID        *string   `json:"role_id,omitempty"`
	PermissionIDs *[]string `json:"permission_ids,omitempty"`
	EmployeeID    *string   `json:"employee_id,omitempty"`
}
