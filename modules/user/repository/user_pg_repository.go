package repository

import (
	"context"

	"hradmin/database"
	"hradmin/domain"

	"gorm.io/gorm"
)

type UserRepository struct {
	sqlHandler *database.SQLHandler[domain.User, domain.UserFilter]
}

func NewPgUserRepo(db *gorm.DB) *UserRepository {
	sqlHandler := database.NewSQLHandler[domain.User](db, applyFilter)
	return &UserRepository{
		sqlHandler: sqlHandler,
	}
}

func applyFilter(qb *gorm.DB, filter *domain.UserFilter) *gorm.DB {
	if filter == nil {
		return qb
	}

	if filter.ID != nil {
		qb = qb.Where("id = ?", *filter.ID)
	}
	if filter.IDNe != nil {
		qb = qb.Where("id != ?", *filter.IDNe)
	}
	if len(filter.IDIn) > 0 {
		qb = qb.Where("id IN (?)", filter.IDIn)
	}
	if filter.Email != nil {
		qb = qb.Where("email = ?", *filter.Email)
	}
	if filter.Username != nil {
		qb = qb.Where("username = ?", *filter.Username)
	}
	if filter.RoleID != nil {
		qb = qb.Where("role_id = ?", *filter.RoleID)
	}
	if filter.IsActive != nil {
		qb = qb.Where("is_active = ?", *filter.IsActive)
	}
	if filter.IsSuperuser != nil {
		qb = qb.Where("is_superuser = ?", *filter.IsSuperuser)
	}
	if filter.HasPermissionID != nil {
		qb = qb.Where("id IN (SELECT user_id FROM user_permissions WHERE permission_id = ?)", *filter.HasPermissionID)
	}
	if filter.SearchTerm != nil && *filter.SearchTerm != "" {
		searchFields := filter.SearchFields
		if len(searchFields) == 0 {
			searchFields = []string{"username", "email"}
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

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	return r.sqlHandler.Create(ctx, user)
}

func (r *UserRepository) FindByID(ctx context.Context, userID string, option *domain.FindOneOption) (*domain.User, error) {
	return r.sqlHandler.FindByID(ctx, userID, option)
}

func (r *UserRepository) FindOne(ctx context.Context, filter *domain.UserFilter, option *domain.FindOneOption) (*domain.User, error) {
	return r.sqlHandler.FindOne(ctx, filter, option)
}

func (r *UserRepository) FindMany(ctx context.Context, filter *domain.UserFilter, option *domain.FindManyOption) ([]*domain.User, error) {
	return r.sqlHandler.FindMany(ctx, filter, option)
}

func (r *UserRepository) FindPage(ctx context.Context, filter *domain.UserFilter, option *domain.FindPageOption) ([]*domain.User, *domain.Pagination, error) {
	return r.sqlHandler.FindPage(ctx, filter, option)
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	return r.sqlHandler.Update(ctx, user)
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID string, hashedPassword string) error {
	return r.sqlHandler.UpdateFields(ctx, userID, map[string]any{
		"password": hashedPassword,
	})
}

// ReplacePermissions swaps the user's direct grants for the given set
// inside one transaction together with the row update.
func (r *UserRepository) ReplacePermissions(ctx context.Context, user *domain.User, permissions []*domain.Permission) error {
	return r.sqlHandler.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(user).Error; err != nil {
			return err
		}
		return tx.Model(user).Association("Permissions").Replace(permissions)
	})
}

func (r *UserRepository) Delete(ctx context.Context, userID string, fields map[string]any) error {
	return r.sqlHandler.DeleteByID(ctx, userID, fields)
}

func (r *UserRepository) Restore(ctx context.Context, userID string, fields map[string]any) error {
	return r.sqlHandler.RestoreByID(ctx, userID, fields)
}

func (r *UserRepository) HardDelete(ctx context.Context, userID string) error {
	return r.sqlHandler.HardDeleteByID(ctx, userID)
}

func (r *UserRepository) Count(ctx context.Context, filter *domain.UserFilter) (int64, error) {
	return r.sqlHandler.Count(ctx, filter)
}
