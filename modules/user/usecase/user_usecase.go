package usecase

import (
	"context"
	"errors"

	"hradmin/common"
	"hradmin/domain"

	"github.com/samber/lo"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, userID string, option *domain.FindOneOption) (*domain.User, error)
	FindOne(ctx context.Context, filter *domain.UserFilter, option *domain.FindOneOption) (*domain.User, error)
	FindPage(ctx context.Context, filter *domain.UserFilter, option *domain.FindPageOption) ([]*domain.User, *domain.Pagination, error)
	Update(ctx context.Context, user *domain.User) error
	ReplacePermissions(ctx context.Context, user *domain.User, permissions []*domain.Permission) error
	Delete(ctx context.Context, userID string, fields map[string]any) error
	Restore(ctx context.Context, userID string, fields map[string]any) error
	HardDelete(ctx context.Context, userID string) error
}

type RoleRepository interface {
	FindByID(ctx context.Context, roleID string, option *domain.FindOneOption) (*domain.Role, error)
}

type PermissionRepository interface {
	FindMany(ctx context.Context, filter *domain.PermissionFilter, option *domain.FindManyOption) ([]*domain.Permission, error)
}

type EmployeeRepository interface {
	FindByID(ctx context.Context, employeeID string, option *domain.FindOneOption) (*domain.Employee, error)
}

type userUsecase struct {
	repo         UserRepository
	roleRepo     RoleRepository
	permRepo     PermissionRepository
	employeeRepo EmployeeRepository
	hasher       common.Hasher
}

func NewUserUsecase(
	repo UserRepository,
	roleRepo RoleRepository,
	permRepo PermissionRepository,
	employeeRepo EmployeeRepository,
	hasher common.Hasher,
) domain.UserUsecase {
	return &userUsecase{
		repo:         repo,
		roleRepo:     roleRepo,
		permRepo:     permRepo,
		employeeRepo: employeeRepo,
		hasher:       hasher,
	}
}

func (u *userUsecase) Create(ctx context.Context, actor *domain.User, req *domain.UserCreateRequest) (*domain.User, error) {
	if err := u.assertEmailAvailable(ctx, req.Email, nil); err != nil {
		return nil, err
	}
	if err := u.assertUsernameAvailable(ctx, req.Username, nil); err != nil {
		return nil, err
	}

	if req.RoleID != nil {
		if err := u.assertRoleUsable(ctx, *req.RoleID); err != nil {
			return nil, err
		}
	}
	if req.EmployeeID != nil {
		if err := u.assertEmployeeUsable(ctx, *req.EmployeeID); err != nil {
			return nil, err
		}
	}

	permissions, err := u.resolvePermissions(ctx, req.PermissionIDs)
	if err != nil {
		return nil, err
	}

	hashedPassword, err := u.hasher.Hash(req.Password)
	if err != nil {
		return nil, domain.ErrPasswordHashFailed.WithWrap(err)
	}

	user := &domain.User{
		Email:       req.Email,
		Username:    req.Username,
		Password:    hashedPassword,
		IsActive:    true,
		IsSuperuser: req.IsSuperuser,
		RoleID:      req.RoleID,
		Permissions: permissions,
		EmployeeID:  req.EmployeeID,
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if actor != nil {
		user.CreatedBy = &actor.ID
	}

	if err := u.repo.Create(ctx, user); err != nil {
		return nil, domain.ErrInternalServerError.WithWrap(err)
	}
	return user, nil
}

func (u *userUsecase) FindByID(ctx context.Context, userID string, option *domain.FindOneOption) (*domain.User, error) {
	user, err := u.repo.FindByID(ctx, userID, option)
	if err != nil {
		if common.IsRecordNotFound(err) {
			return nil, domain.ErrUserNotFound
		}
		return nil, domain.ErrInternalServerError.WithWrap(err)
	}
	if user.IsDeleted() {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (u *userUsecase) FindPage(ctx context.Context, filter *domain.UserFilter, option *domain.FindPageOption) ([]*domain.User, *domain.Pagination, error) {
	return u.repo.FindPage(ctx, filter, option)
}

func (u *userUsecase) Update(ctx context.Context, actor *domain.User, userID string, req *domain.UserUpdateRequest) (*domain.User, error) {
	user, err := u.FindByID(ctx, userID, &domain.FindOneOption{
		Preloads: []string{common.FieldPermissions},
	})
	if err != nil {
		return nil, err
	}

	if req.Email != nil && *req.Email != user.Email {
		if err := u.assertEmailAvailable(ctx, *req.Email, &user.ID); err != nil {
			return nil, err
		}
		user.Email = *req.Email
	}
	if req.Username != nil && *req.Username != user.Username {
		if err := u.assertUsernameAvailable(ctx, *req.Username, &user.ID); err != nil {
			return nil, err
		}
		user.Username = *req.Username
	}
	if req.RoleID != nil {
		if err := u.assertRoleUsable(ctx, *req.RoleID); err != nil {
			return nil, err
		}
		user.RoleID = req.RoleID
	}
	if req.EmployeeID != nil {
		if err := u.assertEmployeeUsable(ctx, *req.EmployeeID); err != nil {
			return nil, err
		}
		user.EmployeeID = req.EmployeeID
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if req.IsSuperuser != nil {
		user.IsSuperuser = *req.IsSuperuser
	}
	if actor != nil {
		user.UpdatedBy = &actor.ID
	}

	// Replacing the grant set is all or nothing; one bad id fails the
	// whole request and the row update rolls back with it.
	if req.PermissionIDs != nil {
		permissions, err := u.resolvePermissions(ctx, *req.PermissionIDs)
		if err != nil {
			return nil, err
		}
		user.Permissions = permissions
		if err := u.repo.ReplacePermissions(ctx, user, permissions); err != nil {
			return nil, domain.ErrInternalServerError.WithWrap(err)
		}
		return user, nil
	}

	if err := u.repo.Update(ctx, user); err != nil {
		return nil, domain.ErrInternalServerError.WithWrap(err)
	}
	return user, nil
}

func (u *userUsecase) Delete(ctx context.Context, actor *domain.User, userID string, permanent bool) error {
	if actor != nil && actor.ID == userID {
		return domain.ErrUserSelfDelete
	}

	user, err := u.repo.FindByID(ctx, userID, nil)
	if err != nil {
		if common.IsRecordNotFound(err) {
			return domain.ErrUserNotFound
		}
		return domain.ErrInternalServerError.WithWrap(err)
	}

	if permanent {
		if actor == nil || !actor.IsSuperuser {
			return domain.ErrForbidden.WithReason("Only superusers may delete permanently")
		}
		if err := u.repo.HardDelete(ctx, user.ID); err != nil {
			return domain.ErrInternalServerError.WithWrap(err)
		}
		return nil
	}

	if user.IsDeleted() {
		return domain.ErrUserNotFound
	}

	fields := map[string]any{}
	if actor != nil {
		fields["deleted_by"] = actor.ID
	}
	if err := u.repo.Delete(ctx, user.ID, fields); err != nil {
		return domain.ErrInternalServerError.WithWrap(err)
	}
	return nil
}

func (u *userUsecase) Restore(ctx context.Context, actor *domain.User, userID string) (*domain.User, error) {
	user, err := u.repo.FindByID(ctx, userID, nil)
	if err != nil {
		if common.IsRecordNotFound(err) {
			return nil, domain.ErrUserNotFound
		}
		return nil, domain.ErrInternalServerError.WithWrap(err)
	}
	if !user.IsDeleted() {
		return user, nil
	}

	// A restored account must come back in a valid state; a role that
	// disappeared while the user was deleted blocks the restore.
	if user.RoleID != nil {
		if err := u.assertRoleUsable(ctx, *user.RoleID); err != nil {
			return nil, err
		}
	}

	fields := map[string]any{}
	if actor != nil {
		fields["updated_by"] = actor.ID
	}
	if err := u.repo.Restore(ctx, user.ID, fields); err != nil {
		return nil, domain.ErrInternalServerError.WithWrap(err)
	}

	return u.FindByID(ctx, userID, nil)
}

func (u *userUsecase) assertEmailAvailable(ctx context.Context, email string, excludeID *string) error {
	existing, err := u.repo.FindOne(ctx, &domain.UserFilter{Email: &email, IDNe: excludeID}, nil)
	if err != nil && !errors.Is(err, domain.ErrRecordNotFound) {
		return domain.ErrInternalServerError.WithWrap(err)
	}
	if existing != nil {
		return domain.ErrEmailAlreadyExists
	}
	return nil
}

func (u *userUsecase) assertUsernameAvailable(ctx context.Context, username string, excludeID *string) error {
	existing, err := u.repo.FindOne(ctx, &domain.UserFilter{Username: &username, IDNe: excludeID}, nil)
	if err != nil && !errors.Is(err, domain.ErrRecordNotFound) {
		return domain.ErrInternalServerError.WithWrap(err)
	}
	if existing != nil {
		return domain.ErrUsernameAlreadyExists
	}
	return nil
}

func (u *userUsecase) assertRoleUsable(ctx context.Context, roleID string) error {
	role, err := u.roleRepo.FindByID(ctx, roleID, nil)
	if err != nil {
		if common.IsRecordNotFound(err) {
			return domain.ErrRoleNotFound
		}
		return domain.ErrInternalServerError.WithWrap(err)
	}
	if role.IsDeleted() {
		return domain.ErrUserRoleDeleted
	}
	return nil
}

func (u *userUsecase) assertEmployeeUsable(ctx context.Context, employeeID string) error {
	employee, err := u.employeeRepo.FindByID(ctx, employeeID, nil)
	if err != nil {
		if common.IsRecordNotFound(err) {
			return domain.ErrEmployeeNotFound
		}
		return domain.ErrInternalServerError.WithWrap(err)
	}
	if employee.IsDeleted() {
		return domain.ErrEmployeeNotFound
	}
	return nil
}

// resolvePermissions maps ids to active permission rows. Any id that
// does not resolve fails the whole set.
func (u *userUsecase) resolvePermissions(ctx context.Context, ids []string) ([]*domain.Permission, error) {
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
