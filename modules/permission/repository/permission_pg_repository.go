package repository

import (
	"context"

	"hradmin/database"
	"hradmin/domain"

	"gorm.io/gorm"
)

type PermissionRepository struct {
	sqlHandler *database.SQLHandler[domain.Permission, domain.PermissionFilter]
}

func NewPgPermissionRepo(db *gorm.DB) *PermissionRepository {
	sqlHandler := database.NewSQLHandler[domain.Permission](db, applyFilter)
	return &PermissionRepository{
		sqlHandler: sqlHandler,
	}
}

func applyFilter(qb *gorm.DB, filter *domain.PermissionFilter) *gorm.DB {
	if filter == nil {
		return qb
	}

	if filter.ID != nil {
		qb = qb.Where("id = ?", *filter.ID)
	}
	if len(filter.IDIn) > 0 {
		qb = qb.Where("id IN (?)", filter.IDIn)
	}
	if filter.Code != nil {
		qb = qb.Where("code = ?", *filter.Code)
	}
	if len(filter.CodeIn) > 0 {
		qb = qb.Where("code IN (?)", filter.CodeIn)
	}
	if filter.ModuleName != nil {
		qb = qb.Where("module_name = ?", *filter.ModuleName)
	}
	if filter.SearchTerm != nil && *filter.SearchTerm != "" {
		searchFields := filter.SearchFields
		if len(searchFields) == 0 {
			searchFields = []string{"name", "code", "module_name"}
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

func (r *PermissionRepository) Create(ctx context.Context, permission *domain.Permission) error {
	return r.sqlHandler.Create(ctx, permission)
}

func (r *PermissionRepository) FindByID(ctx context.Context, permissionID string, option *domain.FindOneOption) (*domain.Permission, error) {
	return r.sqlHandler.FindByID(ctx, permissionID, option)
}

func (r *PermissionRepository) FindOne(ctx context.Context, filter *domain.PermissionFilter, option *domain.FindOneOption) (*domain.Permission, error) {
	return r.sqlHandler.FindOne(ctx, filter, option)
}

func (r *PermissionRepository) FindMany(ctx context.Context, filter *domain.PermissionFilter, option *domain.FindManyOption) ([]*domain.Permission, error) {
	return r.sqlHandler.FindMany(ctx, filter, option)
}

func (r *PermissionRepository) FindPage(ctx context.Context, filter *domain.PermissionFilter, option *domain.FindPageOption) ([]*domain.Permission, *domain.Pagination, error) {
	return r.sqlHandler.FindPage(ctx, filter, option)
}

func (r *PermissionRepository) Update(ctx context.Context, permission *domain.Permission) error {
	return r.sqlHandler.Update(ctx, permission)
}

func (r *PermissionRepository) Delete(ctx context.Context, permissionID string, fields map[string]any) error {
	return r.sqlHandler.DeleteByID(ctx, permissionID, fields)
}

func (r *PermissionRepository) Restore(ctx context.Context, permissionID string, fields map[string]any) error {
	return r.sqlHandler.RestoreByID(ctx, permissionID, fields)
}

func (r *PermissionRepository) HardDelete(ctx context.Context, permissionID string) error {
	return r.sqlHandler.HardDeleteByID(ctx, permissionID)
}

func (r *PermissionRepository) Count(ctx context.Context, filter *domain.PermissionFilter) (int64, error) {
	return r.sqlHandler.Count(ctx, filter)
}
