package usecase

import (
	"context"
	"testing"

	"hradmin/common"
	"hradmin/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRoleRepo struct {
	roles       map[string]*domain.Role
	hardDeleted []string
	replaced    []*domain.Permission
}

func (f *fakeRoleRepo) Create(_ context.Context, role *domain.Role) error {
	if role.ID == "" {
		role.ID = common.GenerateUUID()
	}
	f.roles[role.ID] = role
	return nil
}

func (f *fakeRoleRepo) FindByID(_ context.Context, roleID string, _ *domain.FindOneOption) (*domain.Role, error) {
	role, ok := f.roles[roleID]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	return role, nil
}

func (f *fakeRoleRepo) FindOne(_ context.Context, filter *domain.RoleFilter, _ *domain.FindOneOption) (*domain.Role, error) {
	for _, role := range f.roles {
		if role.IsDeleted() {
			continue
		}
		if filter.Code != nil && role.Code == *filter.Code {
			return role, nil
		}
	}
	return nil, domain.ErrRecordNotFound
}

func (f *fakeRoleRepo) FindPage(_ context.Context, _ *domain.RoleFilter, _ *domain.FindPageOption) ([]*domain.Role, *domain.Pagination, error) {
	roles := make([]*domain.Role, 0, len(f.roles))
	for _, role := range f.roles {
		roles = append(roles, role)
	}
	return roles, domain.NewPagination(1, 10, int64(len(roles))), nil
}

func (f *fakeRoleRepo) Update(_ context.Context, role *domain.Role) error {
	f.roles[role.ID] = role
	return nil
}

func (f *fakeRoleRepo) ReplacePermissions(_ context.Context, role *domain.Role, permissions []*domain.Permission) error {
	f.roles[role.ID] = role
	f.replaced = permissions
	return nil
}

func (f *fakeRoleRepo) Delete(_ context.Context, roleID string, fields map[string]any) error {
	role := f.roles[roleID]
	role.DeletedAt = 1
	if deletedBy, ok := fields["deleted_by"].(string); ok {
		role.DeletedBy = &deletedBy
	}
	return nil
}

func (f *fakeRoleRepo) Restore(_ context.Context, roleID string, _ map[string]any) error {
	f.roles[roleID].DeletedAt = 0
	f.roles[roleID].DeletedBy = nil
	return nil
}

func (f *fakeRoleRepo) HardDelete(_ context.Context, roleID string) error {
	delete(f.roles, roleID)
	f.hardDeleted = append(f.hardDeleted, roleID)
	return nil
}

type fakePermRepo struct {
	perms map[string]*domain.Permission
}

func (f *fakePermRepo) FindMany(_ context.Context, filter *domain.PermissionFilter, _ *domain.FindManyOption) ([]*domain.Permission, error) {
	var out []*domain.Permission
	for _, id := range filter.IDIn {
		if p, ok := f.perms[id]; ok && !p.IsDeleted() {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeGuard struct {
	err error
}

func (f *fakeGuard) AssertRoleDeletable(_ context.Context, _ string) error {
	return f.err
}

type roleFixture struct {
	uc       domain.RoleUsecase
	repo     *fakeRoleRepo
	permRepo *fakePermRepo
	guard    *fakeGuard
	actor    *domain.User
}

func newRoleFixture(t *testing.T) *roleFixture {
	t.Helper()

	actor := &domain.User{Email: "root@example.com", Username: "root", IsActive: true, IsSuperuser: true}
	actor.ID = "super-1"

	repo := &fakeRoleRepo{roles: map[string]*domain.Role{}}
	permRepo := &fakePermRepo{perms: map[string]*domain.Permission{}}
	guard := &fakeGuard{}

	return &roleFixture{
		uc:       NewRoleUsecase(repo, permRepo, guard),
		repo:     repo,
		permRepo: permRepo,
		guard:    guard,
		actor:    actor,
	}
}

func (f *roleFixture) addPermission(id, code string) *domain.Permission {
	p := &domain.Permission{Code: code}
	p.ID = id
	f.permRepo.perms[id] = p
	return p
}

func TestRoleCreate(t *testing.T) {
	f := newRoleFixture(t)
	f.addPermission("p1", domain.PermReadUser)

	role, err := f.uc.Create(context.Background(), f.actor, &domain.RoleCreateRequest{
		Name:          "HR Manager",
		Code:          "hr_manager",
		PermissionIDs: []string{"p1"},
	})
	require.NoError(t, err)

	assert.Equal(t, "hr_manager", role.Code)
	assert.Len(t, role.Permissions, 1)
	require.NotNil(t, role.CreatedBy)
	assert.Equal(t, f.actor.ID, *role.CreatedBy)
}

func TestRoleCreateDuplicateCode(t *testing.T) {
	f := newRoleFixture(t)

	_, err := f.uc.Create(context.Background(), f.actor, &domain.RoleCreateRequest{Name: "A", Code: "staff"})
	require.NoError(t, err)

	_, err = f.uc.Create(context.Background(), f.actor, &domain.RoleCreateRequest{Name: "B", Code: "staff"})
	assert.ErrorIs(t, err, domain.ErrRoleCodeExists)
}

func TestRoleCreateInvalidPermissionReference(t *testing.T) {
	f := newRoleFixture(t)
	f.addPermission("p1", domain.PermReadUser)

	_, err := f.uc.Create(context.Background(), f.actor, &domain.RoleCreateRequest{
		Name:          "HR Manager",
		Code:          "hr_manager",
		PermissionIDs: []string{"p1", "ghost"},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidPermissionReference)
	assert.Empty(t, f.repo.roles)
}

func TestRoleUpdateReplacesPermissionsAtomically(t *testing.T) {
	f := newRoleFixture(t)
	f.addPermission("p1", domain.PermReadUser)
	f.addPermission("p2", domain.PermCreateUser)

	role, err := f.uc.Create(context.Background(), f.actor, &domain.RoleCreateRequest{
		Name:          "HR Manager",
		Code:          "hr_manager",
		PermissionIDs: []string{"p1"},
	})
	require.NoError(t, err)

	updated, err := f.uc.Update(context.Background(), f.actor, role.ID, &domain.RoleUpdateRequest{
		PermissionIDs: &[]string{"p2"},
	})
	require.NoError(t, err)

	require.Len(t, updated.Permissions, 1)
	assert.Equal(t, "p2", updated.Permissions[0].ID)
	assert.Len(t, f.repo.replaced, 1)
}

func TestRoleUpdateBadPermissionSetRejected(t *testing.T) {
	f := newRoleFixture(t)
	f.addPermission("p1", domain.PermReadUser)

	role, err := f.uc.Create(context.Background(), f.actor, &domain.RoleCreateRequest{
		Name:          "HR Manager",
		Code:          "hr_manager",
		PermissionIDs: []string{"p1"},
	})
	require.NoError(t, err)

	_, err = f.uc.Update(context.Background(), f.actor, role.ID, &domain.RoleUpdateRequest{
		PermissionIDs: &[]string{"ghost"},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidPermissionReference)
	assert.Nil(t, f.repo.replaced)
}

func TestRoleDeleteBlockedWhileInUse(t *testing.T) {
	f := newRoleFixture(t)
	f.guard.err = domain.ErrRoleInUse

	role, err := f.uc.Create(context.Background(), f.actor, &domain.RoleCreateRequest{Name: "A", Code: "staff"})
	require.NoError(t, err)

	err = f.uc.Delete(context.Background(), f.actor, role.ID, false)
	assert.ErrorIs(t, err, domain.ErrRoleInUse)

	err = f.uc.Delete(context.Background(), f.actor, role.ID, true)
	assert.ErrorIs(t, err, domain.ErrRoleInUse)
}

func TestRoleDeleteAndRestore(t *testing.T) {
	f := newRoleFixture(t)

	role, err := f.uc.Create(context.Background(), f.actor, &domain.RoleCreateRequest{Name: "A", Code: "staff"})
	require.NoError(t, err)

	require.NoError(t, f.uc.Delete(context.Background(), f.actor, role.ID, false))
	assert.True(t, f.repo.roles[role.ID].IsDeleted())

	restored, err := f.uc.Restore(context.Background(), f.actor, role.ID)
	require.NoError(t, err)
	assert.False(t, restored.IsDeleted())
}

func TestRolePermanentDeleteSuperuserOnly(t *testing.T) {
	f := newRoleFixture(t)

	role, err := f.uc.Create(context.Background(), f.actor, &domain.RoleCreateRequest{Name: "A", Code: "staff"})
	require.NoError(t, err)

	regular := &domain.User{Email: "carol@example.com", Username: "carol", IsActive: true}
	regular.ID = "user-carol"

	err = f.uc.Delete(context.Background(), regular, role.ID, true)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	require.NoError(t, f.uc.Delete(context.Background(), f.actor, role.ID, true))
	assert.Contains(t, f.repo.hardDeleted, role.ID)
}
