package repository

import (
	"context"

	"hradmin/database"
	"hradmin/domain"

	"gorm.io/gorm"
)

type RoleRepository struct {
	sqlHandler *database.SQLHandler[domain.Role, domain.RoleFilter]
}

func NewPgRoleRepo(db *gorm.DB) *RoleRepository {
	sqlHandler := database.NewSQLHandler[domain.Role](db, applyFilter)
	return &RoleRepository{
		sqlHandler: sqlHandler,
	}
}

func applyFilter(qb *gorm.DB, filter *domain.RoleFilter) *gorm.DB {
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
	if filter.CodeNe != nil {
		qb = qb.Where("code != ?", *filter.CodeNe)
	}
	if filter.HasPermissionID != nil {
		qb = qb.Where("id IN (SELECT role_id FROM role_permissions WHERE permission_id = ?)", *filter.HasPermissionID)
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

func (r *RoleRepository) Create(ctx context.Context, role *domain.Role) error {
	return r.sqlHandler.Create(ctx, role)
}

func (r *RoleRepository) FindByID(ctx context.Context, roleID string, option *domain.FindOneOption) (*domain.Role, error) {
	return r.sqlHandler.FindByID(ctx, roleID, option)
}

func (r *RoleRepository) FindOne(ctx context.Context, filter *domain.RoleFilter, option *domain.FindOneOption) (*domain.Role, error) {
	return r.sqlHandler.FindOne(ctx, filter, option)
}

func (r *RoleRepository) FindMany(ctx context.Context, filter *domain.RoleFilter, option *domain.FindManyOption) ([]*domain.Role, error) {
	return r.sqlHandler.FindMany(ctx, filter, option)
}

func (r *RoleRepository) FindPage(ctx context.Context, filter *domain.RoleFilter, option *domain.FindPageOption) ([]*domain.Role, *domain.Pagination, error) {
	return r.sqlHandler.FindPage(ctx, filter, option)
}

func (r *RoleRepository) Update(ctx context.Context, role *domain.Role) error {
	return r.sqlHandler.Update(ctx, role)
}

// ReplacePermissions swaps the role's permission set atomically with the
// row update.
func (r *RoleRepository) ReplacePermissions(ctx context.Context, role *domain.Role, permissions []*domain.Permission) error {
	return r.sqlHandler.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(role).Error; err != nil {
			return err
		}
		return tx.Model(role).Association("Permissions").Replace(permissions)
	})
}

func (r *RoleRepository) Delete(ctx context.Context, roleID string, fields map[string]any) error {
	return r.sqlHandler.DeleteByID(ctx, roleID, fields)
}

func (r *RoleRepository) Restore(ctx context.Context, roleID string, fields map[string]any) error {
	return r.sqlHandler.RestoreByID(ctx, roleID, fields)
}

func (r *RoleRepository) HardDelete(ctx context.Context, roleID string) error {
	return r.sqlHandler.HardDeleteByID(ctx, roleID)
}

func (r *RoleRepository) Count(ctx context.Context, filter *domain.RoleFilter) (int64, error) {
	return r.sqlHandler.Count(ctx, filter)
}
