package usecase

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"hradmin/common"
	"hradmin/domain"
	"hradmin/pkg/cache"
	"hradmin/pkg/log"
	"hradmin/pkg/utils"
)

const (
	listCachePrefix = "employees:list"
	defaultRegion   = "US"
)

type EmployeeRepository interface {
	Create(ctx context.Context, employee *domain.Employee) error
	FindByID(ctx context.Context, employeeID string, option *domain.FindOneOption) (*domain.Employee, error)
	FindOne(ctx context.Context, filter *domain.EmployeeFilter, option *domain.FindOneOption) (*domain.Employee, error)
	FindPage(ctx context.Context, filter *domain.EmployeeFilter, option *domain.FindPageOption) ([]*domain.Employee, *domain.Pagination, error)
	Update(ctx context.Context, employee *domain.Employee) error
	Delete(ctx context.Context, employeeID string, fields map[string]any) error
	Restore(ctx context.Context, employeeID string, fields map[string]any) error
	HardDelete(ctx context.Context, employeeID string) error
}

type DepartmentRepository interface {
	FindByID(ctx context.Context, departmentID string, option *domain.FindOneOption) (*domain.Department, error)
}

type employeeUsecase struct {
	repo           EmployeeRepository
	departmentRepo DepartmentRepository
	cache          cache.Client
	cacheTTL       time.Duration
	logger         log.Logger
}

func NewEmployeeUsecase(
	repo EmployeeRepository,
	departmentRepo DepartmentRepository,
	cacheClient cache.Client,
	cacheTTL time.Duration,
	logger log.Logger,
) domain.EmployeeUsecase {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &employeeUsecase{
		repo:           repo,
		departmentRepo: departmentRepo,
		cache:          cacheClient,
		cacheTTL:       cacheTTL,
		logger:         logger,
	}
}

func (u *employeeUsecase) Create(ctx context.Context, actor *domain.User, req *domain.EmployeeCreateRequest) (*domain.Employee, error) {
	if err := u.assertEmailAvailable(ctx, req.Email); err != nil {
		return nil, err
	}

	phone, err := normalizePhone(req.Phone)
	if err != nil {
		return nil, err
	}

	if req.DepartmentID != nil {
		if err := u.assertDepartmentUsable(ctx, *req.DepartmentID); err != nil {
			return nil, err
		}
	}

	employee := &domain.Employee{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Phone:        phone,
		Position:     req.Position,
		DepartmentID: req.DepartmentID,
		HireDate:     req.HireDate,
	}
	if actor != nil {
		employee.CreatedBy = &actor.ID
	}

	if err := u.repo.Create(ctx, employee); err != nil {
		return nil, domain.ErrInternalServerError.WithWrap(err)
	}
	u.invalidateListCache(ctx)
	return employee, nil
}

func (u *employeeUsecase) FindByID(ctx context.Context, employeeID string, option *domain.FindOneOption) (*domain.Employee, error) {
	employee, err := u.repo.FindByID(ctx, employeeID, option)
	if err != nil {
		if common.IsRecordNotFound(err) {
			return nil, domain.ErrEmployeeNotFound
		}
		return nil, domain.ErrInternalServerError.WithWrap(err)
	}
	if employee.IsDeleted() {
		return nil, domain.ErrEmployeeNotFound
	}
	return employee, nil
}

type employeePage struct {
	Items      []*domain.Employee `json:"items"`
	Pagination *domain.Pagination `json:"pagination"`
}

func (u *employeeUsecase) FindPage(ctx context.Context, filter *domain.EmployeeFilter, option *domain.FindPageOption) ([]*domain.Employee, *domain.Pagination, error) {
	key := cache.ListKey(listCachePrefix, listCacheParams(filter, option))

	if u.cache != nil {
		var cached employeePage
		if err := u.cache.GetJSON(ctx, key, &cached); err == nil {
			return cached.Items, cached.Pagination, nil
		} else if !errors.Is(err, cache.ErrKeyNotFound) {
			u.logger.Warn("employee list cache read failed", log.String("key", key), log.Error(err))
		}
	}

	items, pagination, err := u.repo.FindPage(ctx, filter, option)
	if err != nil {
		return nil, nil, err
	}

	if u.cache != nil {
		page := employeePage{Items: items, Pagination: pagination}
		if err := u.cache.SetJSON(ctx, key, page, u.cacheTTL); err != nil {
			u.logger.Warn("employee list cache write failed", log.String("key", key), log.Error(err))
		}
	}
	return items, pagination, nil
}

func (u *employeeUsecase) Update(ctx context.Context, actor *domain.User, employeeID string, req *domain.EmployeeUpdateRequest) (*domain.Employee, error) {
	employee, err := u.FindByID(ctx, employeeID, nil)
	if err != nil {
		return nil, err
	}

	if req.Email != nil && *req.Email != employee.Email {
		if err := u.assertEmailAvailable(ctx, *req.Email); err != nil {
			return nil, err
		}
		employee.Email = *req.Email
	}
	if req.Phone != nil {
		phone, err := normalizePhone(*req.Phone)
		if err != nil {
			return nil, err
		}
		employee.Phone = phone
	}
	if req.DepartmentID != nil {
		if err := u.assertDepartmentUsable(ctx, *req.DepartmentID); err != nil {
			return nil, err
		}
		employee.DepartmentID = req.DepartmentID
	}
	if req.FirstName != nil {
		employee.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		employee.LastName = *req.LastName
	}
	if req.Position != nil {
		employee.Position = *req.Position
	}
	if req.HireDate != nil {
		employee.HireDate = req.HireDate
	}
	if actor != nil {
		employee.UpdatedBy = &actor.ID
	}

	if err := u.repo.Update(ctx, employee); err != nil {
		return nil, domain.ErrInternalServerError.WithWrap(err)
	}
	u.invalidateListCache(ctx)
	return employee, nil
}

func (u *employeeUsecase) Delete(ctx context.Context, actor *domain.User, employeeID string, permanent bool) error {
	employee, err := u.repo.FindByID(ctx, employeeID, nil)
	if err != nil {
		if common.IsRecordNotFound(err) {
			return domain.ErrEmployeeNotFound
		}
		return domain.ErrInternalServerError.WithWrap(err)
	}

	if permanent {
		if actor == nil || !actor.IsSuperuser {
			return domain.ErrForbidden.WithReason("Only superusers may delete permanently")
		}
		if err := u.repo.HardDelete(ctx, employee.ID); err != nil {
			return domain.ErrInternalServerError.WithWrap(err)
		}
		u.invalidateListCache(ctx)
		return nil
	}

	if employee.IsDeleted() {
		return domain.ErrEmployeeNotFound
	}

	fields := map[string]any{}
	if actor != nil {
		fields["deleted_by"] = actor.ID
	}
	if err := u.repo.Delete(ctx, employee.ID, fields); err != nil {
		return domain.ErrInternalServerError.WithWrap(err)
	}
	u.invalidateListCache(ctx)
	return nil
}

func (u *employeeUsecase) Restore(ctx context.Context, actor *domain.User, employeeID string) (*domain.Employee, error) {
	employee, err := u.repo.FindByID(ctx, employeeID, nil)
	if err != nil {
		if common.IsRecordNotFound(err) {
			return nil, domain.ErrEmployeeNotFound
		}
		return nil, domain.ErrInternalServerError.WithWrap(err)
	}
	if !employee.IsDeleted() {
		return employee, nil
	}

	// The department may have been deleted while the employee was.
	if employee.DepartmentID != nil {
		if err := u.assertDepartmentUsable(ctx, *employee.DepartmentID); err != nil {
			return nil, err
		}
	}

	fields := map[string]any{}
	if actor != nil {
		fields["updated_by"] = actor.ID
	}
	if err := u.repo.Restore(ctx, employee.ID, fields); err != nil {
		return nil, domain.ErrInternalServerError.WithWrap(err)
	}
	u.invalidateListCache(ctx)
	return u.FindByID(ctx, employeeID, nil)
}

func (u *employeeUsecase) assertEmailAvailable(ctx context.Context, email string) error {
	existing, err := u.repo.FindOne(ctx, &domain.EmployeeFilter{Email: &email}, nil)
	if err != nil && !errors.Is(err, domain.ErrRecordNotFound) {
		return domain.ErrInternalServerError.WithWrap(err)
	}
	if existing != nil {
		return domain.ErrEmployeeEmailExists
	}
	return nil
}

func (u *employeeUsecase) assertDepartmentUsable(ctx context.Context, departmentID string) error {
	department, err := u.departmentRepo.FindByID(ctx, departmentID, nil)
	if err != nil {
		if common.IsRecordNotFound(err) {
			return domain.ErrDepartmentNotFound
		}
		return domain.ErrInternalServerError.WithWrap(err)
	}
	if department.IsDeleted() {
		return domain.ErrEmployeeDepartmentDeleted
	}
	return nil
}

// normalizePhone stores phone numbers in E.164. An empty phone is fine.
func normalizePhone(phone string) (string, error) {
	if phone == "" {
		return "", nil
	}
	if !utils.IsValidPhone(phone, defaultRegion) {
		return "", domain.ErrInvalidPhoneNumber
	}
	formatted, err := utils.FormatE164(phone, defaultRegion)
	if err != nil {
		return "", domain.ErrInvalidPhoneNumber.WithWrap(err)
	}
	return formatted, nil
}

func (u *employeeUsecase) invalidateListCache(ctx context.Context) {
	if u.cache == nil {
		return
	}
	if err := u.cache.DeletePattern(ctx, listCachePrefix+":*"); err != nil {
		u.logger.Warn("employee list cache invalidation failed", log.Error(err))
	}
}

func listCacheParams(filter *domain.EmployeeFilter, option *domain.FindPageOption) map[string]string {
	params := map[string]string{}
	if filter != nil {
		if filter.ID != nil {
			params["id"] = *filter.ID
		}
		if filter.Email != nil {
			params["email"] = *filter.Email
		}
		if filter.DepartmentID != nil {
			params["department_id"] = *filter.DepartmentID
		}
		if filter.Position != nil {
			params["position"] = *filter.Position
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
