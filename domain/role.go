package domain

import (
	"context"
	"net/http"
)

/****************************
*        Role errors        *
****************************/
var (
	ErrRoleNotFound = &DetailedError{
		IDField:         "ROLE_NOT_FOUND",
		StatusDescField: http.StatusText(http.StatusNotFound),
		ErrorField:      "Role not found",
		StatusCodeField: http.StatusNotFound,
	}
	ErrRoleCodeExists = &DetailedError{
		IDField:         "ROLE_CODE_EXISTS",
		StatusDescField: http.StatusText(http.StatusBadRequest),
		ErrorField:      "Role with this code already exists",
		StatusCodeField: http.StatusBadRequest,
	}
)

/***************************************
*       Role entities and types       *
***************************************/

type Role struct {
	AuditModel
	Name        string        `json:"name" gorm:"type:varchar(100);not null"`
	Code        string        `json:"code" gorm:"type:varchar(50);unique;not null"`
	Description string        `json:"description" gorm:"type:text"`
	Permissions []*Permission `json:"permissions,omitempty" gorm:"many2many:role_permissions;"`
}

// RolePermission is the role-grant join row.
type RolePermission struct {
	RoleID       string `json:"role_id" gorm:"type:varchar(36);primaryKey"`
	PermissionID string `json:"permission_id" gorm:"type:varchar(36);primaryKey"`
	CreatedAt    int64  `json:"created_at" gorm:"autoCreateTime:milli"`
}

// ActivePermissions filters out grants whose permission has been soft
// deleted since it was attached.
func (r *Role) ActivePermissions() []*Permission {
	perms := make([]*Permission, 0, len(r.Permissions))
	for _, p := range r.Permissions {
		if p != nil && !p.IsDeleted() {
			perms = append(perms, p)
		}
	}
	return perms
}

type RoleFilter struct {
	ID              *string  `json:"id" form:"id"`
	IDIn            []string `json:"id_in" form:"id_in"`
	Code            *string  `json:"code" form:"code"`
	CodeNe          *string  `json:"code_ne" form:"code_ne"`
	HasPermissionID *string  `json:"has_permission_id" form:"has_permission_id"`
	SearchTerm      *string  `json:"search_term" form:"search_term"`
	SearchFields    []string `json:"search_fields" form:"search_fields"`
	IncludeDeleted  *bool    `json:"include_deleted" form:"include_deleted"`
}

/**********************************************
*      Role usecase interfaces and types      *
**********************************************/
type RoleUsecase interface {
	Create(ctx context.Context, actor *User, req *RoleCreateRequest) (*Role, error)
	FindByID(ctx context.Context, roleID string, option *FindOneOption) (*Role, error)
	FindPage(ctx context.Context, filter *RoleFilter, option *FindPageOption) ([]*Role, *Pagination, error)
	Update(ctx context.Context, actor *User, roleID string, req *RoleUpdateRequest) (*Role, error)
	Delete(ctx context.Context, actor *User, roleID string, permanent bool) error
	Restore(ctx context.Context, actor *User, roleID string) (*Role, error)
}

type RoleCreateRequest struct {
	Name          string   `json:"name" binding:"required,max=100"`
	Code          string   `json:"code" binding:"required,max=50,code"`
	Description   string   `json:"description"`
	PermissionIDs []string `json:"permission_ids"`
}

type RoleUpdateRequest struct {
	Name          *string   `json:"name,omitempty" binding:"omitempty,max=100"`
	Description   *string   `json:"description,omitempty"`
	PermissionIDs *[]string `json:"permission_ids,omitempty"`
}
