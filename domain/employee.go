package domain

import (
	"context"
	"net/http"
)

/****************************
*      Employee errors      *
****************************/
var (
	ErrEmployeeNotFound = &DetailedError{
		IDField:         "EMPLOYEE_NOT_FOUND",
		StatusDescField: http.StatusText(http.StatusNotFound),
		ErrorField:      "Employee not found",
		StatusCodeField: http.StatusNotFound,
	}
	ErrEmployeeEmailExists = &DetailedError{
		IDField:         "EMPLOYEE_EMAIL_EXISTS",
		StatusDescField: http.StatusText(http.StatusBadRequest),
		ErrorField:      "Employee with this email already exists",
		StatusCodeField: http.StatusBadRequest,
	}
	ErrInvalidPhoneNumber = &DetailedError{
		IDField:         "INVALID_PHONE_NUMBER",
		StatusDescField: http.StatusText(http.StatusBadRequest),
		ErrorField:      "Phone number is not valid",
		StatusCodeField: http.StatusBadRequest,
	}
	ErrEmployeeDepartmentDeleted = &DetailedError{
		IDField:         "EMPLOYEE_DEPARTMENT_DELETED",
		StatusDescField: http.StatusText(http.StatusConflict),
		ErrorField:      "Referenced department has been deleted",
		StatusCodeField: http.StatusConflict,
	}
)

/***************************************
*     Employee entities and types     *
***************************************/

type Employee struct {
	AuditModel
	FirstName    string      `json:"first_name" gorm:"type:varchar(50);not null"`
	LastName     string      `json:"last_name" gorm:"type:varchar(50);not null"`
	Email        string      `json:"email" gorm:"type:varchar(100);unique;not null"`
	Phone        string      `json:"phone" gorm:"type:varchar(20)"`
	Position     string      `json:"position" gorm:"type:varchar(100)"`
	DepartmentID *string     `json:"department_id" gorm:"type:varchar(36);index"`
	Department   *Department `json:"department,omitempty"`
	HireDate     *Date       `json:"hire_date"`
}

func (e *Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

type EmployeeFilter struct {
	ID             *string  `json:"id" form:"id"`
	Email          *string  `json:"email" form:"email"`
	DepartmentID   *string  `json:"department_id" form:"department_id"`
	Position       *string  `json:"position" form:"position"`
	SearchTerm     *string  `json:"search_term" form:"search_term"`
	SearchFields   []string `json:"search_fields" form:"search_fields"`
	IncludeDeleted *bool    `json:"include_deleted" form:"include_deleted"`
}

/***************************************************
*      Employee usecase interfaces and types       *
***************************************************/
type EmployeeUsecase interface {
	Create(ctx context.Context, actor *User, req *EmployeeCreateRequest) (*Employee, error)
	FindByID(ctx context.Context, employeeID string, option *FindOneOption) (*Employee, error)
	FindPage(ctx context.Context, filter *EmployeeFilter, option *FindPageOption) ([]*Employee, *Pagination, error)
	Update(ctx context.Context, actor *User, employeeID string, req *EmployeeUpdateRequest) (*Employee, error)
	Delete(ctx context.Context, actor *User, employeeID string, permanent bool) error
	Restore(ctx context.Context, actor *User, employeeID string) (*Employee, error)
}

type EmployeeCreateRequest struct {
	FirstName    string  `json:"first_name" binding:"required,max=50"`
	LastName     string  `json:"last_name" binding:"required,max=50"`
	Email        string  `json:"email" binding:"required,email"`
	Phone        string  `json:"phone" binding:"omitempty,phone_number"`
	Position     string  `json:"position" binding:"omitempty,max=100"`
	DepartmentID *string `json:"department_id"`
	HireDate     *Date   `json:"hire_date" binding:"omitempty,hire_date"`
}

type EmployeeUpdateRequest struct {
	FirstName    *string `json:"first_name,omitempty" binding:"omitempty,max=50"`
	LastName     *string `json:"last_name,omitempty" binding:"omitempty,max=50"`
	Email        *string `json:"email,omitempty" binding:"omitempty,email"`
	Phone        *string `json:"phone,omitempty" binding:"omitempty,phone_number"`
	Position     *string `json:"position,omitempty" binding:"omitempty,max=100"`
	DepartmentID *string `json:"department_id,omitempty"`
	HireDate     *Date   `json:"hire_date,omitempty" binding:"omitempty,hire_date"`
}
