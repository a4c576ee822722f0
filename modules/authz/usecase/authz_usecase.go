package usecase

import (
	"context"
	"strings"

	"hradmin/common"
	"hradmin/domain"

	"github.com/samber/lo"
)

type UserRepository interface {
	FindByID(ctx context.Context, userID string, option *domain.FindOneOption) (*domain.User, error)
	Count(ctx context.Context, filter *domain.UserFilter) (int64, error)
}

type RoleRepository interface {
	FindMany(ctx context.Context, filter *domain.RoleFilter, option *domain.FindManyOption) ([]*domain.Role, error)
}

type PermissionRepository interface {
	FindMany(ctx context.Context, filter *domain.PermissionFilter, option *domain.FindManyOption) ([]*domain.Permission, error)
}

// TxRunner scopes repository calls made inside fn to one database
// transaction.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type authzUsecase struct {
	userRepo UserRepository
	roleRepo RoleRepository
	permRepo PermissionRepository
	tx       TxRunner
}

func NewAuthzUsecase(
	userRepo UserRepository,
	roleRepo RoleRepository,
	permRepo PermissionRepository,
	tx TxRunner,
) domain.AuthzUsecase {
	return &authzUsecase{
		userRepo: userRepo,
		roleRepo: roleRepo,
		permRepo: permRepo,
		tx:       tx,
	}
}

// ComputeEffectivePermissions resolves the full permission map for the
// principal. The map always covers the entire active catalog; codes the
// user does not hold resolve to false. The user must be loaded with the
// Role.Permissions and Permissions associations.
func (a *authzUsecase) ComputeEffectivePermissions(ctx context.Context, user *domain.User) (domain.PermissionSet, error) {
	catalog, err := a.permRepo.FindMany(ctx, &domain.PermissionFilter{}, nil)
	if err != nil {
		return nil, domain.ErrInternalServerError.WithWrap(err)
	}

	set := make(domain.PermissionSet, len(catalog))
	for _, p := range catalog {
		set[p.Code] = false
	}

	// Superusers hold every active permission.
	if user.IsSuperuser {
		for code := range set {
			set[code] = true
		}
		return set, nil
	}

	directGrants := user.ActiveDirectGrants()
	if !user.HasRole() && len(directGrants) == 0 {
		return nil, domain.ErrNoRoleAssigned
	}

	if user.HasRole() {
		for _, p := range user.Role.ActivePermissions() {
			// Grants referencing codes outside the active catalog are inert.
			if _, ok := set[p.Code]; ok {
				set[p.Code] = true
			}
		}
	}

	// Direct grants are additive on top of the role.
	for _, p := range directGrants {
		if _, ok := set[p.Code]; ok {
			set[p.Code] = true
		}
	}

	return set, nil
}

// Authorize reloads the principal with its grants and decides whether
// it holds the permission code. Every call recomputes from current
// database state; the principal and catalog reads share one transaction
// so the decision is made against a single snapshot.
func (a *authzUsecase) Authorize(ctx context.Context, userID string, code string) error {
	return a.tx.RunInTx(ctx, func(ctx context.Context) error {
		user, err := a.userRepo.FindByID(ctx, userID, &domain.FindOneOption{
			Preloads: []string{common.FieldRolePermissions, common.FieldPermissions},
		})
		if err != nil {
			if common.IsRecordNotFound(err) {
				return domain.ErrUserDeleted
			}
			return domain.ErrInternalServerError.WithWrap(err)
		}

		if user.IsDeleted() {
			return domain.ErrUserDeleted
		}
		if !user.IsActive {
			return domain.ErrUserInactive
		}

		set, err := a.ComputeEffectivePermissions(ctx, user)
		if err != nil {
			return err
		}

		if !set.Allows(code) {
			return domain.ErrPermissionNotGranted.WithReasonf("permission %q is not granted", code)
		}
		return nil
	})
}

// AssertRoleDeletable blocks deletion while any non-deleted user still
// references the role. Deactivated accounts count too; they keep their
// role through suspension.
func (a *authzUsecase) AssertRoleDeletable(ctx context.Context, roleID string) error {
	count, err := a.userRepo.Count(ctx, &domain.UserFilter{
		RoleID: &roleID,
	})
	if err != nil {
		return domain.ErrInternalServerError.WithWrap(err)
	}

	if count > 0 {
		return domain.ErrRoleInUse.WithReasonf("%d users still reference this role", count)
	}
	return nil
}

// AssertPermissionDeletable blocks deletion while any non-deleted role
// or any non-deleted user still holds the permission.
func (a *authzUsecase) AssertPermissionDeletable(ctx context.Context, permissionID string) error {
	roles, err := a.roleRepo.FindMany(ctx, &domain.RoleFilter{
		HasPermissionID: &permissionID,
	}, nil)
	if err != nil {
		return domain.ErrInternalServerError.WithWrap(err)
	}

	if len(roles) > 0 {
		codes := lo.Map(roles, func(r *domain.Role, _ int) string { return r.Code })
		return domain.ErrPermissionInUse.WithReasonf("held by roles: %s", strings.Join(codes, ", "))
	}

	userCount, err := a.userRepo.Count(ctx, &domain.UserFilter{
		HasPermissionID: &permissionID,
	})
	if err != nil {
		return domain.ErrInternalServerError.WithWrap(err)
	}

	if userCount > 0 {
		return domain.ErrPermissionInUse.WithReasonf("%d users hold this permission directly", userCount)
	}
	return nil
}
