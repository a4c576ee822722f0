package usecase

import (
	"context"
	"errors"

	"hradmin/common"
	"hradmin/domain"
)

type PermissionRepository interface {
	Create(ctx context.Context, permission *domain.Permission) error
	FindByID(ctx context.Context, permissionID string, option *domain.FindOneOption) (*domain.Permission, error)
	FindOne(ctx context.Context, filter *domain.PermissionFilter, option *domain.FindOneOption) (*domain.Permission, error)
	FindPage(ctx context.Context, filter *domain.PermissionFilter, option *domain.FindPageOption) ([]*domain.Permission, *domain.Pagination, error)
	Update(ctx context.Context, permission *domain.Permission) error
	Delete(ctx context.Context, permissionID string, fields map[string]any) error
	Restore(ctx context.Context, permissionID string, fields map[string]any) error
	HardDelete(ctx context.Context, permissionID string) error
}

type DeletionGuard interface {
	AssertPermissionDeletable(ctx context.Context, permissionID string) error
}

type permissionUsecase struct {
	repo  PermissionRepository
	guard DeletionGuard
}

func NewPermissionUsecase(repo PermissionRepository, guard DeletionGuard) domain.PermissionUsecase {
	return &permissionUsecase{
		repo:  repo,
		guard: guard,
	}
}

func (u *permissionUsecase) Create(ctx context.Context, actor *domain.User, req *domain.PermissionCreateRequest) (*domain.Permission, error) {
	if err := u.assertCodeAvailable(ctx, req.Code); err != nil {
		return nil, err
	}

	permission := &domain.Permission{
		Name:        req.Name,
		Code:        req.Code,
		Description: req.Description,
		ModuleName:  req.ModuleName,
	}
	if actor != nil {
		permission.CreatedBy = &actor.ID
	}

	if err := u.repo.Create(ctx, permission); err != nil {
		return nil, domain.ErrInternalServerError.WithWrap(err)
	}
	return permission, nil
}

func (u *permissionUsecase) FindByID(ctx context.Context, permissionID string, option *domain.FindOneOption) (*domain.Permission, error) {
	permission, err := u.repo.FindByID(ctx, permissionID, option)
	if err != nil {
		if common.IsRecordNotFound(err) {
			return nil, domain.ErrPermissionNotFound
		}
		return nil, domain.ErrInternalServerError.WithWrap(err)
	}
	if permission.IsDeleted() {
		return nil, domain.ErrPermissionNotFound
	}
	return permission, nil
}

func (u *permissionUsecase) FindPage(ctx context.Context, filter *domain.PermissionFilter, option *domain.FindPageOption) ([]*domain.Permission, *domain.Pagination, error) {
	return u.repo.FindPage(ctx, filter, option)
}

func (u *permissionUsecase) Update(ctx context.Context, actor *domain.User, permissionID string, req *domain.PermissionUpdateRequest) (*domain.Permission, error) {
	permission, err := u.FindByID(ctx, permissionID, nil)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		permission.Name = *req.Name
	}
	if req.Description != nil {
		permission.Description = *req.Description
	}
	if req.ModuleName != nil {
		permission.ModuleName = *req.ModuleName
	}
	if actor != nil {
		permission.UpdatedBy = &actor.ID
	}

	if err := u.repo.Update(ctx, permission); err != nil {
		return nil, domain.ErrInternalServerError.WithWrap(err)
	}
	return permission, nil
}

func (u *permissionUsecase) Delete(ctx context.Context, actor *domain.User, permissionID string, permanent bool) error {
	permission, err := u.repo.FindByID(ctx, permissionID, nil)
	if err != nil {
		if common.IsRecordNotFound(err) {
			return domain.ErrPermissionNotFound
		}
		return domain.ErrInternalServerError.WithWrap(err)
	}

	// Deletion is blocked while any role or user still holds the grant.
	if err := u.guard.AssertPermissionDeletable(ctx, permission.ID); err != nil {
		return err
	}

	if permanent {
		if actor == nil || !actor.IsSuperuser {
			return domain.ErrForbidden.WithReason("Only superusers may delete permanently")
		}
		if err := u.repo.HardDelete(ctx, permission.ID); err != nil {
			return domain.ErrInternalServerError.WithWrap(err)
		}
		return nil
	}

	if permission.IsDeleted() {
		return domain.ErrPermissionNotFound
	}

	fields := map[string]any{}
	if actor != nil {
		fields["deleted_by"] = actor.ID
	}
	if err := u.repo.Delete(ctx, permission.ID, fields); err != nil {
		return domain.ErrInternalServerError.WithWrap(err)
	}
	return nil
}

func (u *permissionUsecase) Restore(ctx context.Context, actor *domain.User, permissionID string) (*domain.Permission, error) {
	permission, err := u.repo.FindByID(ctx, permissionID, nil)
	if err != nil {
		if common.IsRecordNotFound(err) {
			return nil, domain.ErrPermissionNotFound
		}
		return nil, domain.ErrInternalServerError.WithWrap(err)
	}
	if !permission.IsDeleted() {
		return permission, nil
	}

	fields := map[string]any{}
	if actor != nil {
		fields["updated_by"] = actor.ID
	}
	if err := u.repo.Restore(ctx, permission.ID, fields); err != nil {
		return nil, domain.ErrInternalServerError.WithWrap(err)
	}
	return u.FindByID(ctx, permissionID, nil)
}

func (u *permissionUsecase) assertCodeAvailable(ctx context.Context, code string) error {
	existing, err := u.repo.FindOne(ctx, &domain.PermissionFilter{Code: &code}, nil)
	if err != nil && !errors.Is(err, domain.ErrRecordNotFound) {
		return domain.ErrInternalServerError.WithWrap(err)
	}
	if existing != nil {
		return domain.ErrPermissionCodeExists
	}
	return nil
}
