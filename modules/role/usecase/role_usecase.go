package usecase

import (
	"context"
	"errors"

	"hradmin/common"
	"hradmin/domain"

	"github.com/samber/lo"
)

type RoleRepository interface {
	Create(ctx context.Context, role *domain.Role) error
	FindByID(ctx context.Context, roleID string, option *domain.FindOneOption) (*domain.Role, error)
	FindOne(ctx context.Context, filter *domain.RoleFilter, option *domain.FindOneOption) (*domain.Role, error)
	FindPage(ctx context.Context, filter *domain.RoleFilter, option *domain.FindPageOption) ([]*domain.Role, *domain.Pagination, error)
	Update(ctx context.Context, role *domain.Role) error
	ReplacePermissions(ctx context.Context, role *domain.Role, permissions []*domain.Permission) error
	Delete(ctx context.Context, roleID string, fields map[string]any) error
	Restore(ctx context.Context, roleID string, fields map[string]any) error
	HardDelete(ctx context.Context, roleID string) error
}

type PermissionRepository interface {
	FindMany(ctx context.Context, filter *domain.PermissionFilter, option *domain.FindManyOption) ([]*domain.Permission, error)
}

type DeletionGuard interface {
	AssertRoleDeletable(ctx context.Context, roleID string) error
}

type roleUsecase struct {
	repo     RoleRepository
	permRepo PermissionRepository
	guard    DeletionGuard
}

func NewRoleUsecase(repo RoleRepository, permRepo PermissionRepository, guard DeletionGuard) domain.RoleUsecase {
	return &roleUsecase{
		repo:     repo,
		permRepo: permRepo,
		guard:    guard,
	}
}

func (u *roleUsecase) Create(ctx context.Context, actor *domain.User, req *domain.RoleCreateRequest) (*domain.Role, error) {
	if err := u.assertCodeAvailable(ctx, req.Code); err != nil {
		return nil, err
	}

	permissions, err := u.resolvePermissions(ctx, req.PermissionIDs)
	if err != nil {
		return nil, err
	}

	role := &domain.Role{
		Name:        req.Name,
		Code:        req.Code,
		Description: req.Description,
		Permissions: permissions,
	}
	if actor != nil {
		role.CreatedBy = &actor.ID
	}

	if err := u.repo.Create(ctx, role); err != nil {
		return nil, domain.ErrInternalServerError.WithWrap(err)
	}
	return role, nil
}

func (u *roleUsecase) FindByID(ctx context.Context, roleID string, option *domain.FindOneOption) (*domain.Role, error) {
	role, err := u.repo.FindByID(ctx, roleID, option)
	if err != nil {
		if common.IsRecordNotFound(err) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, domain.ErrInternalServerError.WithWrap(err)
	}
	if role.IsDeleted() {
		return nil, domain.ErrRoleNotFound
	}
	return role, nil
}

func (u *roleUsecase) FindPage(ctx context.Context, filter *domain.RoleFilter, option *domain.FindPageOption) ([]*domain.Role, *domain.Pagination, error) {
	return u.repo.FindPage(ctx, filter, option)
}

func (u *roleUsecase) Update(ctx context.Context, actor *domain.User, roleID string, req *domain.RoleUpdateRequest) (*domain.Role, error) {
	role, err := u.FindByID(ctx, roleID, &domain.FindOneOption{
		Preloads: []string{common.FieldPermissions},
	})
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		role.Name = *req.Name
	}
	if req.Description != nil {
		role.Description = *req.Description
	}
	if actor != nil {
		role.UpdatedBy = &actor.ID
	}

	// Swapping the permission set is all or nothing.
	if req.PermissionIDs != nil {
		permissions, err := u.resolvePermissions(ctx, *req.PermissionIDs)
		if err != nil {
			return nil, err
		}
		role.Permissions = permissions
		if err := u.repo.ReplacePermissions(ctx, role, permissions); err != nil {
			return nil, domain.ErrInternalServerError.WithWrap(err)
		}
		return role, nil
	}

	if err := u.repo.Update(ctx, role); err != nil {
		return nil, domain.ErrInternalServerError.WithWrap(err)
	}
	return role, nil
}

func (u *roleUsecase) Delete(ctx context.Context, actor *domain.User, roleID string, permanent bool) error {
	role, err := u.repo.FindByID(ctx, roleID, nil)
	if err != nil {
		if common.IsRecordNotFound(err) {
			return domain.ErrRoleNotFound
		}
		return domain.ErrInternalServerError.WithWrap(err)
	}

	// Both delete flavors are blocked while active users hold the role.
	if err := u.guard.AssertRoleDeletable(ctx, role.ID); err != nil {
		return err
	}

	if permanent {
		if actor == nil || !actor.IsSuperuser {
			return domain.ErrForbidden.WithReason("Only superusers may delete permanently")
		}
		if err := u.repo.HardDelete(ctx, role.ID); err != nil {
			return domain.ErrInternalServerError.WithWrap(err)
		}
		return nil
	}

	if role.IsDeleted() {
		return domain.ErrRoleNotFound
	}

	fields := map[string]any{}
	if actor != nil {
		fields["deleted_by"] = actor.ID
	}
	if err := u.repo.Delete(ctx, role.ID, fields); err != nil {
		return domain.ErrInternalServerError.WithWrap(err)
	}
	return nil
}

func (u *roleUsecase) Restore(ctx context.Context, actor *domain.User, roleID string) (*domain.Role, error) {
	role, err := u.repo.FindByID(ctx, roleID, nil)
	if err != nil {
		if common.IsRecordNotFound(err) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, domain.ErrInternalServerError.WithWrap(err)
	}
	if !role.IsDeleted() {
		return role, nil
	}

	fields := map[string]any{}
	if actor != nil {
		fields["updated_by"] = actor.ID
	}
	if err := u.repo.Restore(ctx, role.ID, fields); err != nil {
		return nil, domain.ErrInternalServerError.WithWrap(err)
	}
	return u.FindByID(ctx, roleID, nil)
}

func (u *roleUsecase) assertCodeAvailable(ctx context.Context, code string) error {
	existing, err := u.repo.FindOne(ctx, &domain.RoleFilter{Code: &code}, nil)
	if err != nil && !errors.Is(err, domain.ErrRecordNotFound) {
		return domain.ErrInternalServerError.WithWrap(err)
	}
	if existing != nil {
		return domain.ErrRoleCodeExists
	}
	return nil
}

func (u *roleUsecase) resolvePermissions(ctx context.Context, ids []string) ([]*domain.Permission, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	ids = lo.Uniq(ids)
	permissions, err := u.permRepo.FindMany(ctx, &domain.PermissionFilter{IDIn: ids}, nil)
	if err != nil {
		return nil, domain.ErrInternalServerError.WithWrap(err)
	}

	if len(permissions) != len(ids) {
		found := lo.Map(permissions, func(p *domain.Permission, _ int) string { return p.ID })
		missing, _ := lo.Difference(ids, found)
		return nil, domain.ErrInvalidPermissionReference.WithDetail("missing_ids", missing)
	}
	return permissions, nil
}
