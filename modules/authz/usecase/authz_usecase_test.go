package usecase

import (
	"context"
	"testing"

	"hradmin/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	users map[string]*domain.User
}

func (f *fakeUserRepo) FindByID(_ context.Context, userID string, _ *domain.FindOneOption) (*domain.User, error) {
	user, ok := f.users[userID]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) Count(_ context.Context, filter *domain.UserFilter) (int64, error) {
	var count int64
	for _, user := range f.users {
		if user.IsDeleted() && (filter.IncludeDeleted == nil || !*filter.IncludeDeleted) {
			continue
		}
		if filter.RoleID != nil && (user.RoleID == nil || *user.RoleID != *filter.RoleID) {
			continue
		}
		if filter.IsActive != nil && user.IsActive != *filter.IsActive {
			continue
		}
		if filter.HasPermissionID != nil {
			held := false
			for _, p := range user.Permissions {
				if p.ID == *filter.HasPermissionID {
					held = true
					break
				}
			}
			if !held {
				continue
			}
		}
		count++
	}
	return count, nil
}

type fakeRoleRepo struct {
	roles []*domain.Role
}

func (f *fakeRoleRepo) FindMany(_ context.Context, _ *domain.RoleFilter, _ *domain.FindManyOption) ([]*domain.Role, error) {
	return f.roles, nil
}

type fakePermRepo struct {
	perms []*domain.Permission
}

func (f *fakePermRepo) FindMany(_ context.Context, _ *domain.PermissionFilter, _ *domain.FindManyOption) ([]*domain.Permission, error) {
	return f.perms, nil
}

func newPermission(id, code string) *domain.Permission {
	p := &domain.Permission{Code: code}
	p.ID = id
	return p
}

func newDeletedPermission(id, code string) *domain.Permission {
	p := newPermission(id, code)
	p.DeletedAt = 1
	return p
}

func newCatalog() []*domain.Permission {
	return []*domain.Permission{
		newPermission("p1", domain.PermReadUser),
		newPermission("p2", domain.PermCreateUser),
		newPermission("p3", domain.PermReadRole),
		newPermission("p4", domain.PermReadEmployee),
	}
}

func newActiveUser(id string) *domain.User {
	u := &domain.User{IsActive: true}
	u.ID = id
	return u
}

func attachRole(u *domain.User, perms ...*domain.Permission) {
	role := &domain.Role{Name: "Staff", Code: "staff", Permissions: perms}
	role.ID = "role-1"
	u.RoleID = &role.ID
	u.Role = role
}

type passthroughTx struct{}

func (passthroughTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newAuthz(users *fakeUserRepo, perms []*domain.Permission) domain.AuthzUsecase {
	if users == nil {
		users = &fakeUserRepo{}
	}
	return NewAuthzUsecase(users, &fakeRoleRepo{}, &fakePermRepo{perms: perms}, passthroughTx{})
}

func TestComputeEffectivePermissionsSuperuser(t *testing.T) {
	user := newActiveUser("u1")
	user.IsSuperuser = true

	set, err := newAuthz(nil, newCatalog()).ComputeEffectivePermissions(context.Background(), user)
	require.NoError(t, err)

	assert.Len(t, set, 4)
	for code, allowed := range set {
		assert.True(t, allowed, "superuser should hold %s", code)
	}
}

func TestComputeEffectivePermissionsRoleGrants(t *testing.T) {
	user := newActiveUser("u1")
	attachRole(user, newPermission("p1", domain.PermReadUser), newPermission("p3", domain.PermReadRole))

	set, err := newAuthz(nil, newCatalog()).ComputeEffectivePermissions(context.Background(), user)
	require.NoError(t, err)

	assert.True(t, set[domain.PermReadUser])
	assert.True(t, set[domain.PermReadRole])
	assert.False(t, set[domain.PermCreateUser])
	assert.False(t, set[domain.PermReadEmployee])
}

func TestComputeEffectivePermissionsDirectGrantsAreAdditive(t *testing.T) {
	user := newActiveUser("u1")
	attachRole(user, newPermission("p1", domain.PermReadUser))
	user.Permissions = []*domain.Permission{newPermission("p4", domain.PermReadEmployee)}

	set, err := newAuthz(nil, newCatalog()).ComputeEffectivePermissions(context.Background(), user)
	require.NoError(t, err)

	assert.True(t, set[domain.PermReadUser])
	assert.True(t, set[domain.PermReadEmployee])
	assert.False(t, set[domain.PermCreateUser])
}

func TestComputeEffectivePermissionsDirectGrantsOnly(t *testing.T) {
	user := newActiveUser("u1")
	user.Permissions = []*domain.Permission{newPermission("p2", domain.PermCreateUser)}

	set, err := newAuthz(nil, newCatalog()).ComputeEffectivePermissions(context.Background(), user)
	require.NoError(t, err)

	assert.True(t, set[domain.PermCreateUser])
	assert.False(t, set[domain.PermReadUser])
}

func TestComputeEffectivePermissionsIdempotent(t *testing.T) {
	user := newActiveUser("u1")
	attachRole(user, newPermission("p1", domain.PermReadUser))
	user.Permissions = []*domain.Permission{newPermission("p4", domain.PermReadEmployee)}

	authz := newAuthz(nil, newCatalog())

	first, err := authz.ComputeEffectivePermissions(context.Background(), user)
	require.NoError(t, err)
	second, err := authz.ComputeEffectivePermissions(context.Background(), user)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestComputeEffectivePermissionsNoRoleNoGrants(t *testing.T) {
	user := newActiveUser("u1")

	_, err := newAuthz(nil, newCatalog()).ComputeEffectivePermissions(context.Background(), user)
	assert.ErrorIs(t, err, domain.ErrNoRoleAssigned)
}

func TestComputeEffectivePermissionsDeletedRoleIgnored(t *testing.T) {
	user := newActiveUser("u1")
	attachRole(user, newPermission("p1", domain.PermReadUser))
	user.Role.DeletedAt = 1

	_, err := newAuthz(nil, newCatalog()).ComputeEffectivePermissions(context.Background(), user)
	assert.ErrorIs(t, err, domain.ErrNoRoleAssigned)
}

func TestComputeEffectivePermissionsDeletedPermissionInert(t *testing.T) {
	// The catalog holds only the active permission. The role grants a
	// deleted one too; it must not surface in the resolved map.
	user := newActiveUser("u1")
	attachRole(user,
		newPermission("p1", domain.PermReadUser),
		newDeletedPermission("p9", "ghost_permission"),
	)
	user.Permissions = []*domain.Permission{newDeletedPermission("p8", "another_ghost")}

	set, err := newAuthz(nil, newCatalog()).ComputeEffectivePermissions(context.Background(), user)
	require.NoError(t, err)

	assert.True(t, set[domain.PermReadUser])
	assert.NotContains(t, set, "ghost_permission")
	assert.NotContains(t, set, "another_ghost")
}

func TestAuthorizeGranted(t *testing.T) {
	user := newActiveUser("u1")
	attachRole(user, newPermission("p1", domain.PermReadUser))
	users := &fakeUserRepo{users: map[string]*domain.User{"u1": user}}

	err := newAuthz(users, newCatalog()).Authorize(context.Background(), "u1", domain.PermReadUser)
	assert.NoError(t, err)
}

func TestAuthorizeNotGranted(t *testing.T) {
	user := newActiveUser("u1")
	attachRole(user, newPermission("p1", domain.PermReadUser))
	users := &fakeUserRepo{users: map[string]*domain.User{"u1": user}}

	err := newAuthz(users, newCatalog()).Authorize(context.Background(), "u1", domain.PermDeleteUser)
	assert.ErrorIs(t, err, domain.ErrPermissionNotGranted)
}

func TestAuthorizeUnknownCodeDenied(t *testing.T) {
	user := newActiveUser("u1")
	attachRole(user, newPermission("p1", domain.PermReadUser))
	users := &fakeUserRepo{users: map[string]*domain.User{"u1": user}}

	err := newAuthz(users, newCatalog()).Authorize(context.Background(), "u1", "launch_rockets")
	assert.ErrorIs(t, err, domain.ErrPermissionNotGranted)
}

func TestAuthorizeDenyPrecedence(t *testing.T) {
	deleted := newActiveUser("u1")
	deleted.DeletedAt = 1
	deleted.IsActive = false

	inactive := newActiveUser("u2")
	inactive.IsActive = false

	noRole := newActiveUser("u3")

	cases := []struct {
		name string
		user *domain.User
		want *domain.DetailedError
	}{
		{"deleted wins over inactive", deleted, domain.ErrUserDeleted},
		{"inactive wins over no role", inactive, domain.ErrUserInactive},
		{"no role wins over not granted", noRole, domain.ErrNoRoleAssigned},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			users := &fakeUserRepo{users: map[string]*domain.User{tc.user.ID: tc.user}}
			err := newAuthz(users, newCatalog()).Authorize(context.Background(), tc.user.ID, domain.PermReadUser)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestAuthorizeMissingUserTreatedAsDeleted(t *testing.T) {
	users := &fakeUserRepo{users: map[string]*domain.User{}}

	err := newAuthz(users, newCatalog()).Authorize(context.Background(), "nobody", domain.PermReadUser)
	assert.ErrorIs(t, err, domain.ErrUserDeleted)
}

func TestAuthorizeSuperuserBypassesRoleRequirement(t *testing.T) {
	user := newActiveUser("u1")
	user.IsSuperuser = true
	users := &fakeUserRepo{users: map[string]*domain.User{"u1": user}}

	err := newAuthz(users, newCatalog()).Authorize(context.Background(), "u1", domain.PermDeleteEmployee)
	assert.NoError(t, err)
}

func roleHolder(id, roleID string, active bool) *domain.User {
	u := newActiveUser(id)
	u.IsActive = active
	u.RoleID = &roleID
	return u
}

func TestAssertRoleDeletable(t *testing.T) {
	t.Run("in use", func(t *testing.T) {
		users := &fakeUserRepo{users: map[string]*domain.User{
			"u1": roleHolder("u1", "role-1", true),
			"u2": roleHolder("u2", "role-1", true),
		}}
		authz := NewAuthzUsecase(users, &fakeRoleRepo{}, &fakePermRepo{}, passthroughTx{})

		err := authz.AssertRoleDeletable(context.Background(), "role-1")
		assert.ErrorIs(t, err, domain.ErrRoleInUse)
	})

	t.Run("deactivated holder still blocks", func(t *testing.T) {
		users := &fakeUserRepo{users: map[string]*domain.User{
			"u1": roleHolder("u1", "role-1", false),
		}}
		authz := NewAuthzUsecase(users, &fakeRoleRepo{}, &fakePermRepo{}, passthroughTx{})

		err := authz.AssertRoleDeletable(context.Background(), "role-1")
		assert.ErrorIs(t, err, domain.ErrRoleInUse)
	})

	t.Run("deleted holder does not block", func(t *testing.T) {
		holder := roleHolder("u1", "role-1", true)
		holder.DeletedAt = 1
		users := &fakeUserRepo{users: map[string]*domain.User{"u1": holder}}
		authz := NewAuthzUsecase(users, &fakeRoleRepo{}, &fakePermRepo{}, passthroughTx{})

		assert.NoError(t, authz.AssertRoleDeletable(context.Background(), "role-1"))
	})

	t.Run("unused", func(t *testing.T) {
		authz := NewAuthzUsecase(&fakeUserRepo{}, &fakeRoleRepo{}, &fakePermRepo{}, passthroughTx{})
		assert.NoError(t, authz.AssertRoleDeletable(context.Background(), "role-1"))
	})
}

func TestAssertPermissionDeletable(t *testing.T) {
	t.Run("held by role", func(t *testing.T) {
		role := &domain.Role{Name: "Staff", Code: "staff"}
		role.ID = "role-1"
		authz := NewAuthzUsecase(&fakeUserRepo{}, &fakeRoleRepo{roles: []*domain.Role{role}}, &fakePermRepo{}, passthroughTx{})

		err := authz.AssertPermissionDeletable(context.Background(), "p1")
		assert.ErrorIs(t, err, domain.ErrPermissionInUse)
	})

	t.Run("held directly by user", func(t *testing.T) {
		holder := newActiveUser("u1")
		holder.Permissions = []*domain.Permission{newPermission("p1", domain.PermReadUser)}
		users := &fakeUserRepo{users: map[string]*domain.User{"u1": holder}}
		authz := NewAuthzUsecase(users, &fakeRoleRepo{}, &fakePermRepo{}, passthroughTx{})

		err := authz.AssertPermissionDeletable(context.Background(), "p1")
		assert.ErrorIs(t, err, domain.ErrPermissionInUse)
	})

	t.Run("deactivated direct holder still blocks", func(t *testing.T) {
		holder := newActiveUser("u1")
		holder.IsActive = false
		holder.Permissions = []*domain.Permission{newPermission("p1", domain.PermReadUser)}
		users := &fakeUserRepo{users: map[string]*domain.User{"u1": holder}}
		authz := NewAuthzUsecase(users, &fakeRoleRepo{}, &fakePermRepo{}, passthroughTx{})

		err := authz.AssertPermissionDeletable(context.Background(), "p1")
		assert.ErrorIs(t, err, domain.ErrPermissionInUse)
	})

	t.Run("unused", func(t *testing.T) {
		authz := NewAuthzUsecase(&fakeUserRepo{}, &fakeRoleRepo{}, &fakePermRepo{}, passthroughTx{})
		assert.NoError(t, authz.AssertPermissionDeletable(context.Background(), "p1"))
	})
}
