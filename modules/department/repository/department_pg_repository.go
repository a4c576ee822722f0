package repository

import (
	"context"

	"hradmin/database"
	"hradmin/domain"

	"gorm.io/gorm"
)

type DepartmentRepository struct {
	sqlHandler *database.SQLHandler[domain.Department, domain.DepartmentFilter]
}

func NewPgDepartmentRepo(db *gorm.DB) *DepartmentRepository {
	sqlHandler := database.NewSQLHandler[domain.Department](db, applyFilter)
	return &DepartmentRepository{
		sqlHandler: sqlHandler,
	}
}

func applyFilter(qb *gorm.DB, filter *domain.DepartmentFilter) *gorm.DB {
	if filter == nil {
		return qb
	}

	if filter.ID != nil {
		qb = qb.Where("id = ?", *filter.ID)
	}
	if filter.Name != nil {
		qb = qb.Where("name = ?", *filter.Name)
	}
	if filter.Code != nil {
		qb = qb.Where("code = ?", *filter.Code)
	}
	if filter.SearchTerm != nil && *filter.SearchTerm != "" {
		searchFields := filter.SearchFields
		if len(searchFields) == 0 {
			searchFields = []string{"name", "code"}
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

func (r *DepartmentRepository) Create(ctx context.Context, department *domain.Department) error {
	return r.sqlHandler.Create(ctx, department)
}

func (r *DepartmentRepository) FindByID(ctx context.Context, departmentID string, option *domain.FindOneOption) (*domain.Department, error) {
	return r.sqlHandler.FindByID(ctx, departmentID, option)
}

func (r *DepartmentRepository) FindOne(ctx context.Context, filter *domain.DepartmentFilter, option *domain.FindOneOption) (*domain.Department, error) {
	return r.sqlHandler.FindOne(ctx, filter, option)
}

func (r *DepartmentRepository) FindPage(ctx context.Context, filter *domain.DepartmentFilter, option *domain.FindPageOption) ([]*domain.Department, *domain.Pagination, error) {
	return r.sqlHandler.FindPage(ctx, filter, option)
}

func (r *DepartmentRepository) Update(ctx context.Context, department *domain.Department) error {
	return r.sqlHandler.Update(ctx, department)
}

func (r *DepartmentRepository) Delete(ctx context.Context, departmentID string, fields map[string]any) error {
	return r.sqlHandler.DeleteByID(ctx, departmentID, fields)
}

func (r *DepartmentRepository) Restore(ctx context.Context, departmentID string, fields map[string]any) error {
	return r.sqlHandler.RestoreByID(ctx, departmentID, fields)
}

func (r *DepartmentRepository) HardDelete(ctx context.Context, departmentID string) error {
	return r.sqlHandler.HardDeleteByID(ctx, departmentID)
}

func (r *DepartmentRepository) Count(ctx context.Context, filter *domain.DepartmentFilter) (int64, error) {
	return r.sqlHandler.Count(ctx, filter)
}
