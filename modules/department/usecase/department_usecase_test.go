package usecase

import (
	"context"
	"testing"
	"time"

	"hradmin/common"
	"hradmin/domain"
	"hradmin/pkg/cache"
	"hradmin/pkg/log"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDepartmentRepo struct {
	departments   map[string]*domain.Department
	findPageCalls int
}

func (f *fakeDepartmentRepo) Create(_ context.Context, department *domain.Department) error {
	if department.ID == "" {
		department.ID = common.GenerateUUID()
	}
	f.departments[department.ID] = department
	return nil
}

func (f *fakeDepartmentRepo) FindByID(_ context.Context, departmentID string, _ *domain.FindOneOption) (*domain.Department, error) {
	department, ok := f.departments[departmentID]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	return department, nil
}

func (f *fakeDepartmentRepo) FindOne(_ context.Context, filter *domain.DepartmentFilter, _ *domain.FindOneOption) (*domain.Department, error) {
	includeDeleted := filter.IncludeDeleted != nil && *filter.IncludeDeleted
	for _, department := range f.departments {
		if department.IsDeleted() && !includeDeleted {
			continue
		}
		if filter.Name != nil && department.Name == *filter.Name {
			return department, nil
		}
		if filter.Code != nil && department.Code == *filter.Code {
			return department, nil
		}
	}
	return nil, domain.ErrRecordNotFound
}

func (f *fakeDepartmentRepo) FindPage(_ context.Context, _ *domain.DepartmentFilter, _ *domain.FindPageOption) ([]*domain.Department, *domain.Pagination, error) {
	f.findPageCalls++
	departments := make([]*domain.Department, 0, len(f.departments))
	for _, department := range f.departments {
		if !department.IsDeleted() {
			departments = append(departments, department)
		}
	}
	return departments, domain.NewPagination(1, 10, int64(len(departments))), nil
}

func (f *fakeDepartmentRepo) Update(_ context.Context, department *domain.Department) error {
	f.departments[department.ID] = department
	return nil
}

func (f *fakeDepartmentRepo) Delete(_ context.Context, departmentID string, fields map[string]any) error {
	department := f.departments[departmentID]
	department.DeletedAt = 1
	if deletedBy, ok := fields["deleted_by"].(string); ok {
		department.DeletedBy = &deletedBy
	}
	return nil
}

func (f *fakeDepartmentRepo) Restore(_ context.Context, departmentID string, _ map[string]any) error {
	f.departments[departmentID].DeletedAt = 0
	f.departments[departmentID].DeletedBy = nil
	return nil
}

func (f *fakeDepartmentRepo) HardDelete(_ context.Context, departmentID string) error {
	delete(f.departments, departmentID)
	return nil
}

type fakeEmployeeRepo struct {
	count int64
}

func (f *fakeEmployeeRepo) Count(_ context.Context, _ *domain.EmployeeFilter) (int64, error) {
	return f.count, nil
}

type cacheTestLogger struct{}

func (cacheTestLogger) Info(msg string, fields ...interface{})    {}
func (cacheTestLogger) Error(msg string, fields ...interface{})   {}
func (cacheTestLogger) Debug(msg string, fields ...interface{})   {}
func (cacheTestLogger) Infof(format string, args ...interface{})  {}
func (cacheTestLogger) Errorf(format string, args ...interface{}) {}
func (cacheTestLogger) Debugf(format string, args ...interface{}) {}

type departmentFixture struct {
	uc           domain.DepartmentUsecase
	repo         *fakeDepartmentRepo
	employeeRepo *fakeEmployeeRepo
	actor        *domain.User
}

func newDepartmentFixture(t *testing.T) *departmentFixture {
	t.Helper()

	actor := &domain.User{Email: "root@example.com", Username: "root", IsActive: true, IsSuperuser: true}
	actor.ID = "super-1"

	repo := &fakeDepartmentRepo{departments: map[string]*domain.Department{}}
	employeeRepo := &fakeEmployeeRepo{}
	memCache := cache.NewMemoryCache(&cache.Config{MaxSize: 100, DefaultTTL: time.Minute}, cacheTestLogger{})

	uc := NewDepartmentUsecase(repo, employeeRepo, memCache, time.Minute, log.MustNewDevelopmentLogger())
	return &departmentFixture{uc: uc, repo: repo, employeeRepo: employeeRepo, actor: actor}
}

func TestDepartmentCodeGeneration(t *testing.T) {
	cases := []struct {
		name string
		code string
	}{
		{"Engineering", "ENG"},
		{"Human Resources", "HR"},
		{"IT", "IT"},
		{"Research and Development", "RAD"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newDepartmentFixture(t)
			department, err := f.uc.Create(context.Background(), f.actor, &domain.DepartmentCreateRequest{Name: tc.name})
			require.NoError(t, err)
			assert.Equal(t, tc.code, department.Code)
		})
	}
}

func TestDepartmentCodeUniquified(t *testing.T) {
	f := newDepartmentFixture(t)

	first, err := f.uc.Create(context.Background(), f.actor, &domain.DepartmentCreateRequest{Name: "Engineering"})
	require.NoError(t, err)
	assert.Equal(t, "ENG", first.Code)

	// Same derived base, different name.
	second, err := f.uc.Create(context.Background(), f.actor, &domain.DepartmentCreateRequest{Name: "Engine Room"})
	require.NoError(t, err)
	assert.Equal(t, "ER", second.Code)

	third, err := f.uc.Create(context.Background(), f.actor, &domain.DepartmentCreateRequest{Name: "Engagement"})
	require.NoError(t, err)
	assert.Equal(t, "ENG1", third.Code)
}

func TestDepartmentCodeTakenByDeletedRow(t *testing.T) {
	f := newDepartmentFixture(t)

	first, err := f.uc.Create(context.Background(), f.actor, &domain.DepartmentCreateRequest{Name: "Engineering"})
	require.NoError(t, err)
	require.NoError(t, f.uc.Delete(context.Background(), f.actor, first.ID, false))

	second, err := f.uc.Create(context.Background(), f.actor, &domain.DepartmentCreateRequest{Name: "Engagement"})
	require.NoError(t, err)
	assert.Equal(t, "ENG1", second.Code)
}

func TestDepartmentDuplicateName(t *testing.T) {
	f := newDepartmentFixture(t)

	_, err := f.uc.Create(context.Background(), f.actor, &domain.DepartmentCreateRequest{Name: "Engineering"})
	require.NoError(t, err)

	_, err = f.uc.Create(context.Background(), f.actor, &domain.DepartmentCreateRequest{Name: "Engineering"})
	assert.ErrorIs(t, err, domain.ErrDepartmentNameExists)
}

func TestDepartmentListServedFromCache(t *testing.T) {
	f := newDepartmentFixture(t)

	_, err := f.uc.Create(context.Background(), f.actor, &domain.DepartmentCreateRequest{Name: "Engineering"})
	require.NoError(t, err)

	filter := &domain.DepartmentFilter{}
	option := &domain.FindPageOption{Page: 1, PerPage: 10}

	_, _, err = f.uc.FindPage(context.Background(), filter, option)
	require.NoError(t, err)
	assert.Equal(t, 1, f.repo.findPageCalls)

	_, _, err = f.uc.FindPage(context.Background(), filter, option)
	require.NoError(t, err)
	assert.Equal(t, 1, f.repo.findPageCalls, "second identical request should hit the cache")
}

func TestDepartmentWriteInvalidatesListCache(t *testing.T) {
	f := newDepartmentFixture(t)

	filter := &domain.DepartmentFilter{}
	option := &domain.FindPageOption{Page: 1, PerPage: 10}

	_, _, err := f.uc.FindPage(context.Background(), filter, option)
	require.NoError(t, err)
	require.Equal(t, 1, f.repo.findPageCalls)

	_, err = f.uc.Create(context.Background(), f.actor, &domain.DepartmentCreateRequest{Name: "Engineering"})
	require.NoError(t, err)

	items, _, err := f.uc.FindPage(context.Background(), filter, option)
	require.NoError(t, err)
	assert.Equal(t, 2, f.repo.findPageCalls, "write should evict the cached page")
	assert.Len(t, items, 1)
}

func TestDepartmentDeleteBlockedByActiveEmployees(t *testing.T) {
	f := newDepartmentFixture(t)
	f.employeeRepo.count = 4

	department, err := f.uc.Create(context.Background(), f.actor, &domain.DepartmentCreateRequest{Name: "Engineering"})
	require.NoError(t, err)

	err = f.uc.Delete(context.Background(), f.actor, department.ID, false)
	assert.ErrorIs(t, err, domain.ErrDepartmentInUse)

	err = f.uc.Delete(context.Background(), f.actor, department.ID, true)
	assert.ErrorIs(t, err, domain.ErrDepartmentInUse)
}

func TestDepartmentCodeImmutableOnRename(t *testing.T) {
	f := newDepartmentFixture(t)

	department, err := f.uc.Create(context.Background(), f.actor, &domain.DepartmentCreateRequest{Name: "Engineering"})
	require.NoError(t, err)

	renamed, err := f.uc.Update(context.Background(), f.actor, department.ID, &domain.DepartmentUpdateRequest{
		Name: stringPtr("Platform Engineering"),
	})
	require.NoError(t, err)
	assert.Equal(t, "ENG", renamed.Code)
	assert.Equal(t, "Platform Engineering", renamed.Name)
}

func stringPtr(s string) *string { return &s }
