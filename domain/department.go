package domain

import (
	"context"
	"net/http"
)

/****************************
*     Department errors     *
****************************/
var (
	ErrDepartmentNotFound = &DetailedError{
		IDField:         "DEPARTMENT_NOT_FOUND",
		StatusDescField: http.StatusText(http.StatusNotFound),
		ErrorField:      "Department not found",
		StatusCodeField: http.StatusNotFound,
	}
	ErrDepartmentNameExists = &DetailedError{
		IDField:         "DEPARTMENT_NAME_EXISTS",
		StatusDescField: http.StatusText(http.StatusBadRequest),
		ErrorField:      "Department with this name already exists",
		StatusCodeField: http.StatusBadRequest,
	}
	ErrDepartmentInUse = &DetailedError{
		IDField:         "DEPARTMENT_IN_USE",
		StatusDescField: http.StatusText(http.StatusConflict),
		ErrorField:      "Department still has active employees",
		StatusCodeField: http.StatusConflict,
	}
)

/***************************************
*    Department entities and types    *
***************************************/

// Department code is generated from the name on create and never
// changes afterwards.
type Department struct {
	AuditModel
	Name        string `json:"name" gorm:"type:varchar(100);unique;not null"`
	Code        string `json:"code" gorm:"type:varchar(20);unique;not null"`
	Description string `json:"description" gorm:"type:text"`
}

type DepartmentFilter struct {
	ID             *string  `json:"id" form:"id"`
	Name           *string  `json:"name" form:"name"`
	Code           *string  `json:"code" form:"code"`
	SearchTerm     *string  `json:"search_term" form:"search_term"`
	SearchFields   []string `json:"search_fields" form:"search_fields"`
	IncludeDeleted *bool    `json:"include_deleted" form:"include_deleted"`
}

/***************************************************
*     Department usecase interfaces and types      *
***************************************************/
type DepartmentUsecase interface {
	Create(ctx context.Context, actor *User, req *DepartmentCreateRequest) (*Department, error)
	FindByID(ctx context.Context, departmentID string, option *FindOneOption) (*Department, error)
	FindPage(ctx context.Context, filter *DepartmentFilter, option *FindPageOption) ([]*Department, *Pagination, error)
	Update(ctx context.Context, actor *User, departmentID string, req *DepartmentUpdateRequest) (*Department, error)
	Delete(ctx context.Context, actor *User, departmentID string, permanent bool) error
	Restore(ctx context.Context, actor *User, departmentID string) (*Department, error)
}

type DepartmentCreateRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description"`
}

type DepartmentUpdateRequest struct {
	Name        *string `json:"name,omitempty" binding:"omitempty,max=100"`
	Description *string `json:"description,omitempty"`
}
