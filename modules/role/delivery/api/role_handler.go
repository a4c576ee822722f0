package api

import (
	"strconv"

	"hradmin/common"
	"hradmin/domain"
	"hradmin/middleware"

	"github.com/gin-gonic/gin"
)

type RoleHandler struct {
	usecase     domain.RoleUsecase
	middlewares middleware.Middlewares
}

func NewRoleHandler(usecase domain.RoleUsecase, middlewares middleware.Middlewares) *RoleHandler {
	return &RoleHandler{
		usecase:     usecase,
		middlewares: middlewares,
	}
}

func (h *RoleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	roles := rg.Group("/roles")

	roles.Use(h.middlewares.Authenticator())
	roles.Use(h.middlewares.APIRateLimits())

	roles.GET("", h.middlewares.RequirePermission(domain.PermReadRole), h.List)
	roles.GET("/:id", h.middlewares.RequirePermission(domain.PermReadRole), h.GetByID)
	roles.POST("", h.middlewares.RequirePermission(domain.PermCreateRole), h.Create)
	roles.PUT("/:id", h.middlewares.RequirePermission(domain.PermUpdateRole), h.Update)
	roles.DELETE("/:id", h.middlewares.RequirePermission(domain.PermDeleteRole), h.Delete)
	roles.POST("/:id/restore", h.middlewares.RequirePermission(domain.PermDeleteRole), h.Restore)
}

func (h *RoleHandler) List(c *gin.Context) {
	var filter domain.RoleFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		common.ResponseBadRequest(c, err.Error())
		return
	}

	var option domain.FindPageOption
	if err := c.ShouldBindQuery(&option); err != nil {
		common.ResponseBadRequest(c, err.Error())
		return
	}
	option.Preloads = []string{common.FieldPermissions}

	roles, pagination, err := h.usecase.FindPage(c.Request.Context(), &filter, &option)
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK(c, gin.H{"items": roles, "pagination": pagination}, "Roles listed")
}

func (h *RoleHandler) GetByID(c *gin.Context) {
	role, err := h.usecase.FindByID(c.Request.Context(), c.Param("id"), &domain.FindOneOption{
		Preloads: []string{common.FieldPermissions},
	})
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK(c, role, "Role found")
}

func (h *RoleHandler) Create(c *gin.Context) {
	var req domain.RoleCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBadRequest(c, err.Error())
		return
	}

	role, err := h.usecase.Create(c.Request.Context(), common.GetUserFromCtx(c), &req)
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseCreated(c, role, "Role created successfully")
}

func (h *RoleHandler) Update(c *gin.Context) {
	var req domain.RoleUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBadRequest(c, err.Error())
		return
	}

	role, err := h.usecase.Update(c.Request.Context(), common.GetUserFromCtx(c), c.Param("id"), &req)
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK(c, role, "Role updated successfully")
}

func (h *RoleHandler) Delete(c *gin.Context) {
	permanent, _ := strconv.ParseBool(c.Query("permanent"))

	err := h.usecase.Delete(c.Request.Context(), common.GetUserFromCtx(c), c.Param("id"), permanent)
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseNoContent(c, "Role deleted successfully")
}

func (h *RoleHandler) Restore(c *gin.Context) {
	role, err := h.usecase.Restore(c.Request.Context(), common.GetUserFromCtx(c), c.Param("id"))
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK(c, role, "Role restored successfully")
}
