package repository

import (
	"context"

	"hradmin/database"
	"hradmin/domain"

	"gorm.io/gorm"
)

type EmployeeRepository struct {
	sqlHandler *database.SQLHandler[domain.Employee, domain.EmployeeFilter]
}

func NewPgEmployeeRepo(db *gorm.DB) *EmployeeRepository {
	sqlHandler := database.NewSQLHandler[domain.Employee](db, applyFilter)
	return &EmployeeRepository{
		sqlHandler: sqlHandler,
	}
}

func applyFilter(qb *gorm.DB, filter *domain.EmployeeFilter) *gorm.DB {
	if filter == nil {
		return qb
	}

	if filter.ID != nil {
		qb = qb.Where("id = ?", *filter.ID)
	}
	if filter.Email != nil {
		qb = qb.Where("email = ?", *filter.Email)
	}
	if filter.DepartmentID != nil {
		qb = qb.Where("department_id = ?", *filter.DepartmentID)
	}
	if filter.Position != nil {
		qb = qb.Where("position = ?", *filter.Position)
	}
	if filter.SearchTerm != nil && *filter.SearchTerm != "" {
		searchFields := filter.SearchFields
		if len(searchFields) == 0 {
			searchFields = []string{"first_name", "last_name", "email", "position"}
		}

		searchQuery := ""
		searchValues := []interface{}{}
		for i, field := range searchFields {
			if i > 0 {
				searchQuery += " OR "
			}
			searchQuery += field + " ILIKE ?"
			searchValues = append(searchValues, "%"+*filter.SearchTerm+"%")
		}
		qb = qb.Where(searchQuery, searchValues...)
	}
	if filter.IncludeDeleted == nil || !*filter.IncludeDeleted {
		qb = qb.Where("deleted_at = 0")
	}

	return qb
}

func (r *EmployeeRepository) Create(ctx context.Context, employee *domain.Employee) error {
	return r.sqlHandler.Create(ctx, employee)
}

func (r *EmployeeRepository) FindByID(ctx context.Context, employeeID string, option *domain.FindOneOption) (*domain.Employee, error) {
	return r.sqlHandler.FindByID(ctx, employeeID, option)
}

func (r *EmployeeRepository) FindOne(ctx context.Context, filter *domain.EmployeeFilter, option *domain.FindOneOption) (*domain.Employee, error) {
	return r.sqlHandler.FindOne(ctx, filter, option)
}

func (r *EmployeeRepository) FindPage(ctx context.Context, filter *domain.EmployeeFilter, option *domain.FindPageOption) ([]*domain.Employee, *domain.Pagination, error) {
	return r.sqlHandler.FindPage(ctx, filter, option)
}

func (r *EmployeeRepository) Update(ctx context.Context, employee *domain.Employee) error {
	return r.sqlHandler.Update(ctx, employee)
}

func (r *EmployeeRepository) Delete(ctx context.Context, employeeID string, fields map[string]any) error {
	return r.sqlHandler.DeleteByID(ctx, employeeID, fields)
}

func (r *EmployeeRepository) Restore(ctx context.Context, employeeID string, fields map[string]any) error {
	return r.sqlHandler.RestoreByID(ctx, employeeID, fields)
}

func (r *EmployeeRepository) HardDelete(ctx context.Context, employeeID string) error {
	return r.sqlHandler.HardDeleteByID(ctx, employeeID)
}

func (r *EmployeeRepository) Count(ctx context.Context, filter *domain.EmployeeFilter) (int64, error) {
	return r.sqlHandler.Count(ctx, filter)
}
