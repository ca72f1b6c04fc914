package handlers

import (
	"github.com/cataloghq/catalog_service/internal/api/rest/middleware"
	"github.com/cataloghq/catalog_service/internal/dto"
	"github.com/cataloghq/catalog_service/internal/helper"
	"github.com/cataloghq/catalog_service/internal/helper/utils"
	"github.com/cataloghq/catalog_service/internal/services"
	"github.com/gofiber/fiber/v2"
)

type RoleHandler struct {
	svc     services.RoleService
	userSvc services.UserService
	auth    helper.Auth
}

func NewRoleHandler(svc services.RoleService, userSvc services.UserService, auth helper.Auth) *RoleHandler {
	return &RoleHandler{svc: svc, userSvc: userSvc, auth: auth}
}

func (h *RoleHandler) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	roles := api.Group("/roles",
		middleware.AuthMiddleware(h.auth),
		middleware.AdminOnly(h.userSvc),
	)

	roles.Get("/", h.List)
	roles.Get("/:roleID", h.Get)
	roles.Post("/", h.Create)
	roles.Put("/:roleID", h.Update)
	roles.Delete("/:roleID", h.Delete)
	roles.Post("/assign", h.Assign)

	users := api.Group("/users",
		middleware.AuthMiddleware(h.auth),
		middleware.AdminOnly(h.userSvc),
	)
	users.Get("/:userID/role", h.GetUserRole)
}

func (h *RoleHandler) List(ctx *fiber.Ctx) error {
	roles, err := h.svc.List()
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusInternalServerError, err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, roles)
}

func (h *RoleHandler) Get(ctx *fiber.Ctx) error {
	roleID, err := paramID(ctx, "roleID")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	role, err := h.svc.Get(roleID)
	if err != nil {
		return utils.ResponseError(ctx, statusFor(err), err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, role)
}

func (h *RoleHandler) Create(ctx *fiber.Ctx) error {
	var requestBody dto.RoleCreate
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	role, err := h.svc.Create(requestBody)
	if err != nil {
		return utils.ResponseError(ctx, statusFor(err), err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusCreated, role)
}

func (h *RoleHandler) Update(ctx *fiber.Ctx) error {
	roleID, err := paramID(ctx, "roleID")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}
	var requestBody dto.RoleUpdate
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	role, err := h.svc.Update(roleID, requestBody)
	if err != nil {
		return utils.ResponseError(ctx, statusFor(err), err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, role)
}

func (h *RoleHandler) Delete(ctx *fiber.Ctx) error {
	roleID, err := paramID(ctx, "roleID")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	if err := h.svc.SoftDelete(roleID); err != nil {
		return utils.ResponseError(ctx, statusFor(err), err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "Role deactivated")
}

func (h *RoleHandler) Assign(ctx *fiber.Ctx) error {
	var requestBody dto.AssignRoleRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}
	if requestBody.UserID == 0 || requestBody.RoleID == 0 {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "user_id and role_id are required")
	}

	if err := h.svc.Assign(requestBody); err != nil {
		return utils.ResponseError(ctx, statusFor(err), err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "Role assigned")
}

func (h *RoleHandler) GetUserRole(ctx *fiber.Ctx) error {
	userID, err := paramID(ctx, "userID")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	role, err := h.svc.GetUserRole(userID)
	if err != nil {
		return utils.ResponseError(ctx, statusFor(err), err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, role)
}
