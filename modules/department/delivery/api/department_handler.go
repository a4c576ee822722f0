package api

import (
	"strconv"

	"hradmin/common"
	"hradmin/domain"
	"hradmin/middleware"

	"github.com/gin-gonic/gin"
)

type DepartmentHandler struct {
	usecase     domain.DepartmentUsecase
	middlewares middleware.Middlewares
}

func NewDepartmentHandler(usecase domain.DepartmentUsecase, middlewares middleware.Middlewares) *DepartmentHandler {
	return &DepartmentHandler{
		usecase:     usecase,
		middlewares: middlewares,
	}
}

func (h *DepartmentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	departments := rg.Group("/departments")

	departments.Use(h.middlewares.Authenticator())
	departments.Use(h.middlewares.APIRateLimits())

	departments.GET("", h.middlewares.RequirePermission(domain.PermReadDepartment), h.List)
	departments.GET("/:id", h.middlewares.RequirePermission(domain.PermReadDepartment), h.GetByID)
	departments.POST("", h.middlewares.RequirePermission(domain.PermCreateDepartment), h.Create)
	departments.PUT("/:id", h.middlewares.RequirePermission(domain.PermUpdateDepartment), h.Update)
	departments.DELETE("/:id", h.middlewares.RequirePermission(domain.PermDeleteDepartment), h.Delete)
	departments.POST("/:id/restore", h.middlewares.RequirePermission(domain.PermDeleteDepartment), h.Restore)
}

func (h *DepartmentHandler) List(c *gin.Context) {
	var filter domain.DepartmentFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		common.ResponseBadRequest(c, err.Error())
		return
	}

	var option domain.FindPageOption
	if err := c.ShouldBindQuery(&option); err != nil {
		common.ResponseBadRequest(c, err.Error())
		return
	}

	departments, pagination, err := h.usecase.FindPage(c.Request.Context(), &filter, &option)
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK(c, gin.H{"items": departments, "pagination": pagination}, "Departments listed")
}

func (h *DepartmentHandler) GetByID(c *gin.Context) {
	department, err := h.usecase.FindByID(c.Request.Context(), c.Param("id"), nil)
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK(c, department, "Department found")
}

func (h *DepartmentHandler) Create(c *gin.Context) {
	var req domain.DepartmentCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBadRequest(c, err.Error())
		return
	}

	department, err := h.usecase.Create(c.Request.Context(), common.GetUserFromCtx(c), &req)
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseCreated(c, department, "Department created successfully")
}

func (h *DepartmentHandler) Update(c *gin.Context) {
	var req domain.DepartmentUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBadRequest(c, err.Error())
		return
	}

	department, err := h.usecase.Update(c.Request.Context(), common.GetUserFromCtx(c), c.Param("id"), &req)
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK(c, department, "Department updated successfully")
}

func (h *DepartmentHandler) Delete(c *gin.Context) {
	permanent, _ := strconv.ParseBool(c.Query("permanent"))

	err := h.usecase.Delete(c.Request.Context(), common.GetUserFromCtx(c), c.Param("id"), permanent)
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseNoContent(c, "Department deleted successfully")
}

func (h *DepartmentHandler) Restore(c *gin.Context) {
	department, err := h.usecase.Restore(c.Request.Context(), common.GetUserFromCtx(c), c.Param("id"))
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK(c, department, "Department restored successfully")
}
