package api

import (
	"strconv"

	"hradmin/common"
	"hradmin/domain"
	"hradmin/middleware"

	"github.com/gin-gonic/gin"
)

type PermissionHandler struct {
	usecase     domain.PermissionUsecase
	middlewares middleware.Middlewares
}

func NewPermissionHandler(usecase domain.PermissionUsecase, middlewares middleware.Middlewares) *PermissionHandler {
	return &PermissionHandler{
		usecase:     usecase,
		middlewares: middlewares,
	}
}

func (h *PermissionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	permissions := rg.Group("/permissions")

	permissions.Use(h.middlewares.Authenticator())
	permissions.Use(h.middlewares.APIRateLimits())

	permissions.GET("", h.middlewares.RequirePermission(domain.PermReadPermission), h.List)
	permissions.GET("/:id", h.middlewares.RequirePermission(domain.PermReadPermission), h.GetByID)
	permissions.POST("", h.middlewares.RequirePermission(domain.PermCreatePermission), h.Create)
	permissions.PUT("/:id", h.middlewares.RequirePermission(domain.PermUpdatePermission), h.Update)
	permissions.DELETE("/:id", h.middlewares.RequirePermission(domain.PermDeletePermission), h.Delete)
	permissions.POST("/:id/restore", h.middlewares.RequirePermission(domain.PermDeletePermission), h.Restore)
}

func (h *PermissionHandler) List(c *gin.Context) {
	var filter domain.PermissionFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		common.ResponseBadRequest(c, err.Error())
		return
	}

	var option domain.FindPageOption
	if err := c.ShouldBindQuery(&option); err != nil {
		common.ResponseBadRequest(c, err.Error())
		return
	}

	permissions, pagination, err := h.usecase.FindPage(c.Request.Context(), &filter, &option)
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK(c, gin.H{"items": permissions, "pagination": pagination}, "Permissions listed")
}

func (h *PermissionHandler) GetByID(c *gin.Context) {
	permission, err := h.usecase.FindByID(c.Request.Context(), c.Param("id"), nil)
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK(c, permission, "Permission found")
}

func (h *PermissionHandler) Create(c *gin.Context) {
	var req domain.PermissionCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBadRequest(c, err.Error())
		return
	}

	permission, err := h.usecase.Create(c.Request.Context(), common.GetUserFromCtx(c), &req)
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseCreated(c, permission, "Permission created successfully")
}

func (h *PermissionHandler) Update(c *gin.Context) {
	var req domain.PermissionUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBadRequest(c, err.Error())
		return
	}

	permission, err := h.usecase.Update(c.Request.Context(), common.GetUserFromCtx(c), c.Param("id"), &req)
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK(c, permission, "Permission updated successfully")
}

func (h *PermissionHandler) Delete(c *gin.Context) {
	permanent, _ := strconv.ParseBool(c.Query("permanent"))

	err := h.usecase.Delete(c.Request.Context(), common.GetUserFromCtx(c), c.Param("id"), permanent)
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseNoContent(c, "Permission deleted successfully")
}

func (h *PermissionHandler) Restore(c *gin.Context) {
	permission, err := h.usecase.Restore(c.Request.Context(), common.GetUserFromCtx(c), c.Param("id"))
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK(c, permission, "Permission restored successfully")
}
