package usecase

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"
	"unicode"

	"hradmin/common"
	"hradmin/domain"
	"hradmin/pkg/cache"
	"hradmin/pkg/log"

	"github.com/samber/lo"
)

const (
	listCachePrefix = "departments:list"
	maxCodeLength   = 20
)

type DepartmentRepository interface {
	Create(ctx context.Context, department *domain.Department) error
	FindByID(ctx context.Context, departmentID string, option *domain.FindOneOption) (*domain.Department, error)
	FindOne(ctx context.Context, filter *domain.DepartmentFilter, option *domain.FindOneOption) (*domain.Department, error)
	FindPage(ctx context.Context, filter *domain.DepartmentFilter, option *domain.FindPageOption) ([]*domain.Department, *domain.Pagination, error)
	Update(ctx context.Context, department *domain.Department) error
	Delete(ctx context.Context, departmentID string, fields map[string]any) error
	Restore(ctx context.Context, departmentID string, fields map[string]any) error
	HardDelete(ctx context.Context, departmentID string) error
}

type EmployeeRepository interface {
	Count(ctx context.Context, filter *domain.EmployeeFilter) (int64, error)
}

type departmentUsecase struct {
	repo         DepartmentRepository
	employeeRepo EmployeeRepository
	cache        cache.Client
	cacheTTL     time.Duration
	logger       log.Logger
}

func NewDepartmentUsecase(
	repo DepartmentRepository,
	employeeRepo EmployeeRepository,
	cacheClient cache.Client,
	cacheTTL time.Duration,
	logger log.Logger,
) domain.DepartmentUsecase {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &departmentUsecase{
		repo:         repo,
		employeeRepo: employeeRepo,
		cache:        cacheClient,
		cacheTTL:     cacheTTL,
		logger:       logger,
	}
}

func (u *departmentUsecase) Create(ctx context.Context, actor *domain.User, req *domain.DepartmentCreateRequest) (*domain.Department, error) {
	if err := u.assertNameAvailable(ctx, req.Name); err != nil {
		return nil, err
	}

	code, err := u.generateCode(ctx, req.Name)
	if err != nil {
		return nil, err
	}

	department := &domain.Department{
		Name:        req.Name,
		Code:        code,
		Description: req.Description,
	}
	if actor != nil {
		department.CreatedBy = &actor.ID
	}

	if err := u.repo.Create(ctx, department); err != nil {
		return nil, domain.ErrInternalServerError.WithWrap(err)
	}
	u.invalidateListCache(ctx)
	return department, nil
}

func (u *departmentUsecase) FindByID(ctx context.Context, departmentID string, option *domain.FindOneOption) (*domain.Department, error) {
	department, err := u.repo.FindByID(ctx, departmentID, option)
	if err != nil {
		if common.IsRecordNotFound(err) {
			return nil, domain.ErrDepartmentNotFound
		}
		return nil, domain.ErrInternalServerError.WithWrap(err)
	}
	if department.IsDeleted() {
		return nil, domain.ErrDepartmentNotFound
	}
	return department, nil
}

type departmentPage struct {
	Items      []*domain.Department `json:"items"`
	Pagination *domain.Pagination   `json:"pagination"`
}

// FindPage serves list requests from the cache when possible. Cache
// failures are logged and fall through to the database.
func (u *departmentUsecase) FindPage(ctx context.Context, filter *domain.DepartmentFilter, option *domain.FindPageOption) ([]*domain.Department, *domain.Pagination, error) {
	key := cache.ListKey(listCachePrefix, listCacheParams(filter, option))

	if u.cache != nil {
		var cached departmentPage
		if err := u.cache.GetJSON(ctx, key, &cached); err == nil {
			return cached.Items, cached.Pagination, nil
		} else if !errors.Is(err, cache.ErrKeyNotFound) {
			u.logger.Warn("department list cache read failed", log.String("key", key), log.Error(err))
		}
	}

	items, pagination, err := u.repo.FindPage(ctx, filter, option)
	if err != nil {
		return nil, nil, err
	}

	if u.cache != nil {
		page := departmentPage{Items: items, Pagination: pagination}
		if err := u.cache.SetJSON(ctx, key, page, u.cacheTTL); err != nil {
			u.logger.Warn("department list cache write failed", log.String("key", key), log.Error(err))
		}
	}
	return items, pagination, nil
}

func (u *departmentUsecase) Update(ctx context.Context, actor *domain.User, departmentID string, req *domain.DepartmentUpdateRequest) (*domain.Department, error) {
	department, err := u.FindByID(ctx, departmentID, nil)
	if err != nil {
		return nil, err
	}

	// The code is derived from the original name once and never changes.
	if req.Name != nil && *req.Name != department.Name {
		if err := u.assertNameAvailable(ctx, *req.Name); err != nil {
			return nil, err
		}
		department.Name = *req.Name
	}
	if req.Description != nil {
		department.Description = *req.Description
	}
	if actor != nil {
		department.UpdatedBy = &actor.ID
	}

	if err := u.repo.Update(ctx, department); err != nil {
		return nil, domain.ErrInternalServerError.WithWrap(err)
	}
	u.invalidateListCache(ctx)
	return department, nil
}

func (u *departmentUsecase) Delete(ctx context.Context, actor *domain.User, departmentID string, permanent bool) error {
	department, err := u.repo.FindByID(ctx, departmentID, nil)
	if err != nil {
		if common.IsRecordNotFound(err) {
			return domain.ErrDepartmentNotFound
		}
		return domain.ErrInternalServerError.WithWrap(err)
	}

	employeeCount, err := u.employeeRepo.Count(ctx, &domain.EmployeeFilter{
		DepartmentID: &department.ID,
	})
	if err != nil {
		return domain.ErrInternalServerError.WithWrap(err)
	}
	if employeeCount > 0 {
		return domain.ErrDepartmentInUse.WithReasonf("%d active employees belong to this department", employeeCount)
	}

	if permanent {
		if actor == nil || !actor.IsSuperuser {
			return domain.ErrForbidden.WithReason("Only superusers may delete permanently")
		}
		if err := u.repo.HardDelete(ctx, department.ID); err != nil {
			return domain.ErrInternalServerError.WithWrap(err)
		}
		u.invalidateListCache(ctx)
		return nil
	}

	if department.IsDeleted() {
		return domain.ErrDepartmentNotFound
	}

	fields := map[string]any{}
	if actor != nil {
		fields["deleted_by"] = actor.ID
	}
	if err := u.repo.Delete(ctx, department.ID, fields); err != nil {
		return domain.ErrInternalServerError.WithWrap(err)
	}
	u.invalidateListCache(ctx)
	return nil
}

func (u *departmentUsecase) Restore(ctx context.Context, actor *domain.User, departmentID string) (*domain.Department, error) {
	department, err := u.repo.FindByID(ctx, departmentID, nil)
	if err != nil {
		if common.IsRecordNotFound(err) {
			return nil, domain.ErrDepartmentNotFound
		}
		return nil, domain.ErrInternalServerError.WithWrap(err)
	}
	if !department.IsDeleted() {
		return department, nil
	}

	fields := map[string]any{}
	if actor != nil {
		fields["updated_by"] = actor.ID
	}
	if err := u.repo.Restore(ctx, department.ID, fields); err != nil {
		return nil, domain.ErrInternalServerError.WithWrap(err)
	}
	u.invalidateListCache(ctx)
	return u.FindByID(ctx, departmentID, nil)
}

func (u *departmentUsecase) assertNameAvailable(ctx context.Context, name string) error {
	existing, err := u.repo.FindOne(ctx, &domain.DepartmentFilter{Name: &name}, nil)
	if err != nil && !errors.Is(err, domain.ErrRecordNotFound) {
		return domain.ErrInternalServerError.WithWrap(err)
	}
	if existing != nil {
		return domain.ErrDepartmentNameExists
	}
	return nil
}

// generateCode derives a short uppercase code from the department name
// and uniquifies it with a numeric suffix when taken. Deleted rows
// still hold their codes, so they count as taken.
func (u *departmentUsecase) generateCode(ctx context.Context, name string) (string, error) {
	base := deriveCode(name)

	candidate := base
	for suffix := 1; ; suffix++ {
		taken, err := u.codeTaken(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = base + strconv.Itoa(suffix)
		if len(candidate) > maxCodeLength {
			candidate = base[:maxCodeLength-len(strconv.Itoa(suffix))] + strconv.Itoa(suffix)
		}
	}
}

func (u *departmentUsecase) codeTaken(ctx context.Context, code string) (bool, error) {
	_, err := u.repo.FindOne(ctx, &domain.DepartmentFilter{
		Code:           &code,
		IncludeDeleted: lo.ToPtr(true),
	}, nil)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return false, nil
		}
		return false, domain.ErrInternalServerError.WithWrap(err)
	}
	return true, nil
}

// deriveCode builds the base code: one word takes its first three
// letters, several words take their initials.
func deriveCode(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	if len(words) == 0 {
		return "DEPT"
	}

	if len(words) == 1 {
		word := []rune(words[0])
		if len(word) > 3 {
			word = word[:3]
		}
		return strings.ToUpper(string(word))
	}

	var b strings.Builder
	for _, word := range words {
		b.WriteRune([]rune(word)[0])
	}
	code := strings.ToUpper(b.String())
	if len(code) > maxCodeLength {
		code = code[:maxCodeLength]
	}
	return code
}

func (u *departmentUsecase) invalidateListCache(ctx context.Context) {
	if u.cache == nil {
		return
	}
	if err := u.cache.DeletePattern(ctx, listCachePrefix+":*"); err != nil {
		u.logger.Warn("department list cache invalidation failed", log.Error(err))
	}
}

func listCacheParams(filter *domain.DepartmentFilter, option *domain.FindPageOption) map[string]string {
	params := map[string]string{}
	if filter != nil {
		if filter.ID != nil {
			params["id"] = *filter.ID
		}
		if filter.Name != nil {
			params["name"] = *filter.Name
		}
		if filter.Code != nil {
			params["code"] = *filter.Code
		}
		if filter.SearchTerm != nil {
			params["search_term"] = *filter.SearchTerm
		}
		if len(filter.SearchFields) > 0 {
			params["search_fields"] = strings.Join(filter.SearchFields, ",")
		}
		if filter.IncludeDeleted != nil {
			params["include_deleted"] = strconv.FormatBool(*filter.IncludeDeleted)
		}
	}
	if option != nil {
		params["page"] = strconv.Itoa(option.Page)
		params["per_page"] = strconv.Itoa(option.PerPage)
		if len(option.Sort) > 0 {
			params["sort"] = strings.Join(option.Sort, ",")
		}
	}
	return params
}
