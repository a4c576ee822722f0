package usecase

import (
	"context"
	"testing"

	"hradmin/common"
	"hradmin/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePermissionRepo struct {
	perms       map[string]*domain.Permission
	hardDeleted []string
}

func (f *fakePermissionRepo) Create(_ context.Context, permission *domain.Permission) error {
	if permission.ID == "" {
		permission.ID = common.GenerateUUID()
	}
	f.perms[permission.ID] = permission
	return nil
}

func (f *fakePermissionRepo) FindByID(_ context.Context, permissionID string, _ *domain.FindOneOption) (*domain.Permission, error) {
	permission, ok := f.perms[permissionID]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	return permission, nil
}

func (f *fakePermissionRepo) FindOne(_ context.Context, filter *domain.PermissionFilter, _ *domain.FindOneOption) (*domain.Permission, error) {
	for _, permission := range f.perms {
		if permission.IsDeleted() {
			continue
		}
		if filter.Code != nil && permission.Code == *filter.Code {
			return permission, nil
		}
	}
	return nil, domain.ErrRecordNotFound
}

func (f *fakePermissionRepo) FindPage(_ context.Context, _ *domain.PermissionFilter, _ *domain.FindPageOption) ([]*domain.Permission, *domain.Pagination, error) {
	perms := make([]*domain.Permission, 0, len(f.perms))
	for _, permission := range f.perms {
		perms = append(perms, permission)
	}
	return perms, domain.NewPagination(1, 10, int64(len(perms))), nil
}

func (f *fakePermissionRepo) Update(_ context.Context, permission *domain.Permission) error {
	f.perms[permission.ID] = permission
	return nil
}

func (f *fakePermissionRepo) Delete(_ context.Context, permissionID string, fields map[string]any) error {
	permission := f.perms[permissionID]
	permission.DeletedAt = 1
	if deletedBy, ok := fields["deleted_by"].(string); ok {
		permission.DeletedBy = &deletedBy
	}
	return nil
}

func (f *fakePermissionRepo) Restore(_ context.Context, permissionID string, _ map[string]any) error {
	f.perms[permissionID].DeletedAt = 0
	f.perms[permissionID].DeletedBy = nil
	return nil
}

func (f *fakePermissionRepo) HardDelete(_ context.Context, permissionID string) error {
	delete(f.perms, permissionID)
	f.hardDeleted = append(f.hardDeleted, permissionID)
	return nil
}

type fakeGuard struct {
	err error
}

func (f *fakeGuard) AssertPermissionDeletable(_ context.Context, _ string) error {
	return f.err
}

func newPermissionFixture(t *testing.T) (domain.PermissionUsecase, *fakePermissionRepo, *fakeGuard, *domain.User) {
	t.Helper()

	actor := &domain.User{Email: "root@example.com", Username: "root", IsActive: true, IsSuperuser: true}
	actor.ID = "super-1"

	repo := &fakePermissionRepo{perms: map[string]*domain.Permission{}}
	guard := &fakeGuard{}
	return NewPermissionUsecase(repo, guard), repo, guard, actor
}

func TestPermissionCreate(t *testing.T) {
	uc, _, _, actor := newPermissionFixture(t)

	permission, err := uc.Create(context.Background(), actor, &domain.PermissionCreateRequest{
		Name:       "Read users",
		Code:       domain.PermReadUser,
		ModuleName: domain.ModuleUsers,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ModuleUsers, permission.ModuleName)
}

func TestPermissionCreateDuplicateCode(t *testing.T) {
	uc, _, _, actor := newPermissionFixture(t)

	_, err := uc.Create(context.Background(), actor, &domain.PermissionCreateRequest{
		Name: "Read users", Code: domain.PermReadUser, ModuleName: domain.ModuleUsers,
	})
	require.NoError(t, err)

	_, err = uc.Create(context.Background(), actor, &domain.PermissionCreateRequest{
		Name: "Read users again", Code: domain.PermReadUser, ModuleName: domain.ModuleUsers,
	})
	assert.ErrorIs(t, err, domain.ErrPermissionCodeExists)
}

func TestPermissionDeleteBlockedWhileHeld(t *testing.T) {
	uc, _, guard, actor := newPermissionFixture(t)
	guard.err = domain.ErrPermissionInUse

	permission, err := uc.Create(context.Background(), actor, &domain.PermissionCreateRequest{
		Name: "Read users", Code: domain.PermReadUser, ModuleName: domain.ModuleUsers,
	})
	require.NoError(t, err)

	err = uc.Delete(context.Background(), actor, permission.ID, false)
	assert.ErrorIs(t, err, domain.ErrPermissionInUse)
}

func TestPermissionDeleteAndRestore(t *testing.T) {
	uc, repo, _, actor := newPermissionFixture(t)

	permission, err := uc.Create(context.Background(), actor, &domain.PermissionCreateRequest{
		Name: "Read users", Code: domain.PermReadUser, ModuleName: domain.ModuleUsers,
	})
	require.NoError(t, err)

	require.NoError(t, uc.Delete(context.Background(), actor, permission.ID, false))
	assert.True(t, repo.perms[permission.ID].IsDeleted())

	restored, err := uc.Restore(context.Background(), actor, permission.ID)
	require.NoError(t, err)
	assert.False(t, restored.IsDeleted())
}

func TestPermissionPermanentDeleteSuperuserOnly(t *testing.T) {
	uc, repo, _, actor := newPermissionFixture(t)

	permission, err := uc.Create(context.Background(), actor, &domain.PermissionCreateRequest{
		Name: "Read users", Code: domain.PermReadUser, ModuleName: domain.ModuleUsers,
	})
	require.NoError(t, err)

	regular := &domain.User{Email: "carol@example.com", Username: "carol", IsActive: true}
	regular.ID = "user-carol"

	err = uc.Delete(context.Background(), regular, permission.ID, true)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	require.NoError(t, uc.Delete(context.Background(), actor, permission.ID, true))
	assert.Contains(t, repo.hardDeleted, permission.ID)
}
