package handlers

import (
	"github.com/cataloghq/catalog_service/internal/api/rest/middleware"
	"github.com/cataloghq/catalog_service/internal/dto"
	"github.com/cataloghq/catalog_service/internal/helper"
	"github.com/cataloghq/catalog_service/internal/helper/utils"
	"github.com/cataloghq/catalog_service/internal/services"
	"github.com/gofiber/fiber/v2"
)

type PermissionHandler struct {
	svc     services.PermissionService
	userSvc services.UserService
	auth    helper.Auth
}

func NewPermissionHandler(svc services.PermissionService, userSvc services.UserService, auth helper.Auth) *PermissionHandler {
	return &PermissionHandler{svc: svc, userSvc: userSvc, auth: auth}
}

func (h *PermissionHandler) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	perms := api.Group("/permissions",
		middleware.AuthMiddleware(h.auth),
		middleware.AdminOnly(h.userSvc),
	)

	perms.Get("/", h.List)
	perms.Get("/:permissionID", h.Get)
	perms.Post("/", h.Create)
	perms.Put("/:permissionID", h.Update)
	perms.Post("/assign", h.AssignToRole)

	api.Get("/roles/:roleID/permissions",
		middleware.AuthMiddleware(h.auth),
		middleware.AdminOnly(h.userSvc),
		h.ListRolePermissions,
	)
	api.Get("/users/:userID/permissions",
		middleware.AuthMiddleware(h.auth),
		middleware.AdminOnly(h.userSvc),
		h.ListUserPermissions,
	)
}

func (h *PermissionHandler) List(ctx *fiber.Ctx) error {
	perms, err := h.svc.List()
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusInternalServerError, err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, perms)
}

func (h *PermissionHandler) Get(ctx *fiber.Ctx) error {
	permissionID, err := paramID(ctx, "permissionID")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	perm, err := h.svc.Get(permissionID)
	if err != nil {
		return utils.ResponseError(ctx, statusFor(err), err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, perm)
}

func (h *PermissionHandler) Create(ctx *fiber.Ctx) error {
	var requestBody dto.PermissionCreate
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	perm, err := h.svc.Create(requestBody)
	if err != nil {
		return utils.ResponseError(ctx, statusFor(err), err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusCreated, perm)
}

func (h *PermissionHandler) Update(ctx *fiber.Ctx) error {
	permissionID, err := paramID(ctx, "permissionID")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}
	var requestBody dto.PermissionUpdate
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	perm, err := h.svc.Update(permissionID, requestBody)
	if err != nil {
		return utils.ResponseError(ctx, statusFor(err), err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, perm)
}

func (h *PermissionHandler) AssignToRole(ctx *fiber.Ctx) error {
	var requestBody dto.AssignPermissionRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}
	if requestBody.RoleID == 0 || requestBody.PermissionID == 0 {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "role_id and permission_id are required")
	}

	if err := h.svc.AssignToRole(requestBody); err != nil {
		return utils.ResponseError(ctx, statusFor(err), err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "Permission assigned")
}

func (h *PermissionHandler) ListRolePermissions(ctx *fiber.Ctx) error {
	roleID, err := paramID(ctx, "roleID")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	perms, err := h.svc.ListRolePermissions(roleID)
	if err != nil {
		return utils.ResponseError(ctx, statusFor(err), err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, perms)
}

func (h *PermissionHandler) ListUserPermissions(ctx *fiber.Ctx) error {
	userID, err := paramID(ctx, "userID")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	perms, err := h.svc.ListUserPermissions(userID)
	if err != nil {
		return utils.ResponseError(ctx, statusFor(err), err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, perms)
}
