package api

import (
	"strconv"

	"hradmin/common"
	"hradmin/domain"
	"hradmin/middleware"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	usecase     domain.UserUsecase
	middlewares middleware.Middlewares
}

func NewUserHandler(usecase domain.UserUsecase, middlewares middleware.Middlewares) *UserHandler {
	return &UserHandler{
		usecase:     usecase,
		middlewares: middlewares,
	}
}

func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	users := rg.Group("/users")

	users.Use(h.middlewares.Authenticator())
	users.Use(h.middlewares.APIRateLimits())

	users.GET("", h.middlewares.RequirePermission(domain.PermReadUser), h.List)
	users.GET("/:id", h.middlewares.RequirePermission(domain.PermReadUser), h.GetByID)
	users.POST("", h.middlewares.RequirePermission(domain.PermCreateUser), h.Create)
	users.PUT("/:id", h.middlewares.RequirePermission(domain.PermUpdateUser), h.Update)
	users.DELETE("/:id", h.middlewares.RequirePermission(domain.PermDeleteUser), h.Delete)
	users.POST("/:id/restore", h.middlewares.RequirePermission(domain.PermDeleteUser), h.Restore)
}

func (h *UserHandler) List(c *gin.Context) {
	var filter domain.UserFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		common.ResponseBadRequest(c, err.Error())
		return
	}

	var option domain.FindPageOption
	if err := c.ShouldBindQuery(&option); err != nil {
		common.ResponseBadRequest(c, err.Error())
		return
	}
	option.Preloads = []string{common.FieldRole, common.FieldEmployee}

	users, pagination, err := h.usecase.FindPage(c.Request.Context(), &filter, &option)
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK(c, gin.H{"items": users, "pagination": pagination}, "Users listed")
}

func (h *UserHandler) GetByID(c *gin.Context) {
	user, err := h.usecase.FindByID(c.Request.Context(), c.Param("id"), &domain.FindOneOption{
		Preloads: []string{common.FieldRolePermissions, common.FieldPermissions, common.FieldEmployee},
	})
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK(c, user, "User found")
}

func (h *UserHandler) Create(c *gin.Context) {
	var req domain.UserCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBadRequest(c, err.Error())
		return
	}

	user, err := h.usecase.Create(c.Request.Context(), common.GetUserFromCtx(c), &req)
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseCreated(c, user, "User created successfully")
}

func (h *UserHandler) Update(c *gin.Context) {
	var req domain.UserUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBadRequest(c, err.Error())
		return
	}

	user, err := h.usecase.Update(c.Request.Context(), common.GetUserFromCtx(c), c.Param("id"), &req)
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK(c, user, "User updated successfully")
}

func (h *UserHandler) Delete(c *gin.Context) {
	permanent, _ := strconv.ParseBool(c.Query("permanent"))

	err := h.usecase.Delete(c.Request.Context(), common.GetUserFromCtx(c), c.Param("id"), permanent)
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseNoContent(c, "User deleted successfully")
}

func (h *UserHandler) Restore(c *gin.Context) {
	user, err := h.usecase.Restore(c.Request.Context(), common.GetUserFromCtx(c), c.Param("id"))
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK(c, user, "User restored successfully")
}
