package domain

import (
	"context"
	"net/http"
)

/****************************
*     Permission errors     *
****************************/
var (
	ErrPermissionNotFound = &DetailedError{
		IDField:         "PERMISSION_NOT_FOUND",
		StatusDescField: http.StatusText(http.StatusNotFound),
		ErrorField:      "Permission not found",
		StatusCodeField: http.StatusNotFound,
	}
	ErrPermissionCodeExists = &DetailedError{
		IDField:         "PERMISSION_CODE_EXISTS",
		StatusDescField: http.StatusText(http.StatusBadRequest),
		ErrorField:      "Permission with this code already exists",
		StatusCodeField: http.StatusBadRequest,
	}
)

/***************************************
*    Permission entities and types    *
***************************************/

type Permission struct {
	AuditModel
	Name        string `json:"name" gorm:"type:varchar(100);not null"`
	Code        string `json:"code" gorm:"type:varchar(50);unique;not null"`
	Description string `json:"description" gorm:"type:text"`
	ModuleName  string `json:"module_name" gorm:"type:varchar(50);index"`
}

type PermissionFilter struct {
	ID             *string  `json:"id" form:"id"`
	IDIn           []string `json:"id_in" form:"id_in"`
	Code           *string  `json:"code" form:"code"`
	CodeIn         []string `json:"code_in" form:"code_in"`
	ModuleName     *string  `json:"module_name" form:"module_name"`
	SearchTerm     *string  `json:"search_term" form:"search_term"`
	SearchFields   []string `json:"search_fields" form:"search_fields"`
	IncludeDeleted *bool    `json:"include_deleted" form:"include_deleted"`
}

/***************************************************
*     Permission usecase interfaces and types      *
***************************************************/
type PermissionUsecase interface {
	Create(ctx context.Context, actor *User, req *PermissionCreateRequest) (*Permission, error)
	FindByID(ctx context.Context, permissionID string, option *FindOneOption) (*Permission, error)
	FindPage(ctx context.Context, filter *PermissionFilter, option *FindPageOption) ([]*Permission, *Pagination, error)
	Update(ctx context.Context, actor *User, permissionID string, req *PermissionUpdateRequest) (*Permission, error)
	Delete(ctx context.Context, actor *User, permissionID string, permanent bool) error
	Restore(ctx context.Context, actor *User, permissionID string) (*Permission, error)
}

type PermissionCreateRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Code        string `json:"code" binding:"required,max=50,code"`
	Description string `json:"description"`
	ModuleName  string `json:"module_name" binding:"required,max=50"`
}

type PermissionUpdateRequest struct {
	Name        *string `json:"name,omitempty" binding:"omitempty,max=100"`
	Description *string `json:"description,omitempty"`
	ModuleName  *string `json:"module_name,omitempty" binding:"omitempty,max=50"`
}
