package api

import (
	"strconv"

	"hradmin/common"
	"hradmin/domain"
	"hradmin/middleware"

	"github.com/gin-gonic/gin"
)

type EmployeeHandler struct {
	usecase     domain.EmployeeUsecase
	middlewares middleware.Middlewares
}

func NewEmployeeHandler(usecase domain.EmployeeUsecase, middlewares middleware.Middlewares) *EmployeeHandler {
	return &EmployeeHandler{
		usecase:     usecase,
		middlewares: middlewares,
	}
}

func (h *EmployeeHandler) RegisterRoutes(rg *gin.RouterGroup) {
	employees := rg.Group("/employees")

	employees.Use(h.middlewares.Authenticator())
	employees.Use(h.middlewares.APIRateLimits())

	employees.GET("", h.middlewares.RequirePermission(domain.PermReadEmployee), h.List)
	employees.GET("/:id", h.middlewares.RequirePermission(domain.PermReadEmployee), h.GetByID)
	employees.POST("", h.middlewares.RequirePermission(domain.PermCreateEmployee), h.Create)
	employees.PUT("/:id", h.middlewares.RequirePermission(domain.PermUpdateEmployee), h.Update)
	employees.DELETE("/:id", h.middlewares.RequirePermission(domain.PermDeleteEmployee), h.Delete)
	employees.POST("/:id/restore", h.middlewares.RequirePermission(domain.PermDeleteEmployee), h.Restore)
}

func (h *EmployeeHandler) List(c *gin.Context) {
	var filter domain.EmployeeFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		common.ResponseBadRequest(c, err.Error())
		return
	}

	var option domain.FindPageOption
	if err := c.ShouldBindQuery(&option); err != nil {
		common.ResponseBadRequest(c, err.Error())
		return
	}

	employees, pagination, err := h.usecase.FindPage(c.Request.Context(), &filter, &option)
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK(c, gin.H{"items": employees, "pagination": pagination}, "Employees listed")
}

func (h *EmployeeHandler) GetByID(c *gin.Context) {
	employee, err := h.usecase.FindByID(c.Request.Context(), c.Param("id"), &domain.FindOneOption{
		Preloads: []string{common.FieldDepartment},
	})
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK(c, employee, "Employee found")
}

func (h *EmployeeHandler) Create(c *gin.Context) {
	var req domain.EmployeeCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBadRequest(c, err.Error())
		return
	}

	employee, err := h.usecase.Create(c.Request.Context(), common.GetUserFromCtx(c), &req)
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseCreated(c, employee, "Employee created successfully")
}

func (h *EmployeeHandler) Update(c *gin.Context) {
	var req domain.EmployeeUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBadRequest(c, err.Error())
		return
	}

	employee, err := h.usecase.Update(c.Request.Context(), common.GetUserFromCtx(c), c.Param("id"), &req)
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK(c, employee, "Employee updated successfully")
}

func (h *EmployeeHandler) Delete(c *gin.Context) {
	permanent, _ := strconv.ParseBool(c.Query("permanent"))

	err := h.usecase.Delete(c.Request.Context(), common.GetUserFromCtx(c), c.Param("id"), permanent)
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseNoContent(c, "Employee deleted successfully")
}

func (h *EmployeeHandler) Restore(c *gin.Context) {
	employee, err := h.usecase.Restore(c.Request.Context(), common.GetUserFromCtx(c), c.Param("id"))
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK(c, employee, "Employee restored successfully")
}
