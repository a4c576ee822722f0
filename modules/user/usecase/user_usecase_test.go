package usecase

import (
	"context"
	"testing"

	"hradmin/common"
	"hradmin/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	users       map[string]*domain.User
	hardDeleted []string
	replaced    []*domain.Permission
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	if user.ID == "" {
		user.ID = common.GenerateUUID()
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, userID string, _ *domain.FindOneOption) (*domain.User, error) {
	user, ok := f.users[userID]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) FindOne(_ context.Context, filter *domain.UserFilter, _ *domain.FindOneOption) (*domain.User, error) {
	for _, user := range f.users {
		if user.IsDeleted() {
			continue
		}
		if filter.IDNe != nil && user.ID == *filter.IDNe {
			continue
		}
		if filter.Email != nil && user.Email == *filter.Email {
			return user, nil
		}
		if filter.Username != nil && user.Username == *filter.Username {
			return user, nil
		}
	}
	return nil, domain.ErrRecordNotFound
}

func (f *fakeUserRepo) FindPage(_ context.Context, _ *domain.UserFilter, _ *domain.FindPageOption) ([]*domain.User, *domain.Pagination, error) {
	users := make([]*domain.User, 0, len(f.users))
	for _, user := range f.users {
		users = append(users, user)
	}
	return users, domain.NewPagination(1, 10, int64(len(users))), nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) ReplacePermissions(_ context.Context, user *domain.User, permissions []*domain.Permission) error {
	f.users[user.ID] = user
	f.replaced = permissions
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, userID string, fields map[string]any) error {
	user := f.users[userID]
	user.DeletedAt = 1
	if deletedBy, ok := fields["deleted_by"].(string); ok {
		user.DeletedBy = &deletedBy
	}
	return nil
}

func (f *fakeUserRepo) Restore(_ context.Context, userID string, _ map[string]any) error {
	f.users[userID].DeletedAt = 0
	f.users[userID].DeletedBy = nil
	return nil
}

func (f *fakeUserRepo) HardDelete(_ context.Context, userID string) error {
	delete(f.users, userID)
	f.hardDeleted = append(f.hardDeleted, userID)
	return nil
}

type fakeRoleRepo struct {
	roles map[string]*domain.Role
}

func (f *fakeRoleRepo) FindByID(_ context.Context, roleID string, _ *domain.FindOneOption) (*domain.Role, error) {
	role, ok := f.roles[roleID]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	return role, nil
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

type fakeEmployeeRepo struct {
	employees map[string]*domain.Employee
}

func (f *fakeEmployeeRepo) FindByID(_ context.Context, employeeID string, _ *domain.FindOneOption) (*domain.Employee, error) {
	employee, ok := f.employees[employeeID]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	return employee, nil
}

type userFixture struct {
	uc        domain.UserUsecase
	userRepo  *fakeUserRepo
	roleRepo  *fakeRoleRepo
	permRepo  *fakePermRepo
	superuser *domain.User
}

func newUserFixture(t *testing.T) *userFixture {
	t.Helper()

	superuser := &domain.User{Email: "root@example.com", Username: "root", IsActive: true, IsSuperuser: true}
	superuser.ID = "super-1"

	userRepo := &fakeUserRepo{users: map[string]*domain.User{superuser.ID: superuser}}
	roleRepo := &fakeRoleRepo{roles: map[string]*domain.Role{}}
	permRepo := &fakePermRepo{perms: map[string]*domain.Permission{}}
	employeeRepo := &fakeEmployeeRepo{employees: map[string]*domain.Employee{}}

	uc := NewUserUsecase(userRepo, roleRepo, permRepo, employeeRepo, common.NewBcryptHasher())
	return &userFixture{
		uc:        uc,
		userRepo:  userRepo,
		roleRepo:  roleRepo,
		permRepo:  permRepo,
		superuser: superuser,
	}
}

func (f *userFixture) addRole(id string, deleted bool) *domain.Role {
	role := &domain.Role{Name: "Staff", Code: "staff"}
	role.ID = id
	if deleted {
		role.DeletedAt = 1
	}
	f.roleRepo.roles[id] = role
	return role
}

func (f *userFixture) addPermission(id, code string) *domain.Permission {
	p := &domain.Permission{Code: code}
	p.ID = id
	f.permRepo.perms[id] = p
	return p
}

func TestUserCreate(t *testing.T) {
	f := newUserFixture(t)
	f.addPermission("p1", domain.PermReadUser)

	user, err := f.uc.Create(context.Background(), f.superuser, &domain.UserCreateRequest{
		Email:         "bob@example.com",
		Username:      "bob",
		Password:      "secret-password",
		PermissionIDs: []string{"p1"},
	})
	require.NoError(t, err)

	assert.True(t, user.IsActive)
	assert.NotEqual(t, "secret-password", user.Password)
	require.NotNil(t, user.CreatedBy)
	assert.Equal(t, f.superuser.ID, *user.CreatedBy)
	assert.Len(t, user.Permissions, 1)
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	f := newUserFixture(t)

	_, err := f.uc.Create(context.Background(), f.superuser, &domain.UserCreateRequest{
		Email:    "root@example.com",
		Username: "other",
		Password: "secret-password",
	})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestUserCreateDuplicateUsername(t *testing.T) {
	f := newUserFixture(t)

	_, err := f.uc.Create(context.Background(), f.superuser, &domain.UserCreateRequest{
		Email:    "other@example.com",
		Username: "root",
		Password: "secret-password",
	})
	assert.ErrorIs(t, err, domain.ErrUsernameAlreadyExists)
}

func TestUserCreateInvalidPermissionReference(t *testing.T) {
	f := newUserFixture(t)
	f.addPermission("p1", domain.PermReadUser)

	_, err := f.uc.Create(context.Background(), f.superuser, &domain.UserCreateRequest{
		Email:         "bob@example.com",
		Username:      "bob",
		Password:      "secret-password",
		PermissionIDs: []string{"p1", "missing"},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidPermissionReference)
	assert.Empty(t, f.userRepo.replaced)
}

func TestUserCreateDeletedRoleRejected(t *testing.T) {
	f := newUserFixture(t)
	role := f.addRole("role-1", true)

	_, err := f.uc.Create(context.Background(), f.superuser, &domain.UserCreateRequest{
		Email:    "bob@example.com",
		Username: "bob",
		Password: "secret-password",
		RoleID:   &role.ID,
	})
	assert.ErrorIs(t, err, domain.ErrUserRoleDeleted)
}

func TestUserUpdateReplacesGrantsAtomically(t *testing.T) {
	f := newUserFixture(t)
	f.addPermission("p1", domain.PermReadUser)
	f.addPermission("p2", domain.PermCreateUser)

	user, err := f.uc.Create(context.Background(), f.superuser, &domain.UserCreateRequest{
		Email:         "bob@example.com",
		Username:      "bob",
		Password:      "secret-password",
		PermissionIDs: []string{"p1"},
	})
	require.NoError(t, err)

	updated, err := f.uc.Update(context.Background(), f.superuser, user.ID, &domain.UserUpdateRequest{
		PermissionIDs: &[]string{"p2"},
	})
	require.NoError(t, err)

	require.Len(t, updated.Permissions, 1)
	assert.Equal(t, "p2", updated.Permissions[0].ID)
	assert.Len(t, f.userRepo.replaced, 1)
}

func TestUserUpdateBadGrantSetLeavesUserUntouched(t *testing.T) {
	f := newUserFixture(t)
	f.addPermission("p1", domain.PermReadUser)

	user, err := f.uc.Create(context.Background(), f.superuser, &domain.UserCreateRequest{
		Email:         "bob@example.com",
		Username:      "bob",
		Password:      "secret-password",
		PermissionIDs: []string{"p1"},
	})
	require.NoError(t, err)

	_, err = f.uc.Update(context.Background(), f.superuser, user.ID, &domain.UserUpdateRequest{
		PermissionIDs: &[]string{"p1", "ghost"},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidPermissionReference)
	assert.Nil(t, f.userRepo.replaced)
}

func TestUserSelfDeleteRejected(t *testing.T) {
	f := newUserFixture(t)

	err := f.uc.Delete(context.Background(), f.superuser, f.superuser.ID, false)
	assert.ErrorIs(t, err, domain.ErrUserSelfDelete)
}

func TestUserPermanentDeleteSuperuserOnly(t *testing.T) {
	f := newUserFixture(t)

	target, err := f.uc.Create(context.Background(), f.superuser, &domain.UserCreateRequest{
		Email:    "bob@example.com",
		Username: "bob",
		Password: "secret-password",
	})
	require.NoError(t, err)

	regular := &domain.User{Email: "carol@example.com", Username: "carol", IsActive: true}
	regular.ID = "user-carol"
	f.userRepo.users[regular.ID] = regular

	err = f.uc.Delete(context.Background(), regular, target.ID, true)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	err = f.uc.Delete(context.Background(), f.superuser, target.ID, true)
	require.NoError(t, err)
	assert.Contains(t, f.userRepo.hardDeleted, target.ID)
}

func TestUserSoftDeleteStampsActor(t *testing.T) {
	f := newUserFixture(t)

	target, err := f.uc.Create(context.Background(), f.superuser, &domain.UserCreateRequest{
		Email:    "bob@example.com",
		Username: "bob",
		Password: "secret-password",
	})
	require.NoError(t, err)

	require.NoError(t, f.uc.Delete(context.Background(), f.superuser, target.ID, false))

	stored := f.userRepo.users[target.ID]
	assert.True(t, stored.IsDeleted())
	require.NotNil(t, stored.DeletedBy)
	assert.Equal(t, f.superuser.ID, *stored.DeletedBy)
}

func TestUserRestoreBlockedByDeletedRole(t *testing.T) {
	f := newUserFixture(t)
	role := f.addRole("role-1", false)

	target, err := f.uc.Create(context.Background(), f.superuser, &domain.UserCreateRequest{
		Email:    "bob@example.com",
		Username: "bob",
		Password: "secret-password",
		RoleID:   &role.ID,
	})
	require.NoError(t, err)

	require.NoError(t, f.uc.Delete(context.Background(), f.superuser, target.ID, false))

	// The role disappears while the user is deleted.
	role.DeletedAt = 1

	_, err = f.uc.Restore(context.Background(), f.superuser, target.ID)
	assert.ErrorIs(t, err, domain.ErrUserRoleDeleted)
}

func TestUserRestore(t *testing.T) {
	f := newUserFixture(t)

	target, err := f.uc.Create(context.Background(), f.superuser, &domain.UserCreateRequest{
		Email:    "bob@example.com",
		Username: "bob",
		Password: "secret-password",
	})
	require.NoError(t, err)

	require.NoError(t, f.uc.Delete(context.Background(), f.superuser, target.ID, false))

	restored, err := f.uc.Restore(context.Background(), f.superuser, target.ID)
	require.NoError(t, err)
	assert.False(t, restored.IsDeleted())
}
