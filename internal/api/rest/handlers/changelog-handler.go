package handlers

import (
	"github.com/cataloghq/catalog_service/internal/api/rest/middleware"
	"github.com/cataloghq/catalog_service/internal/helper"
	"github.com/cataloghq/catalog_service/internal/helper/utils"
	"github.com/cataloghq/catalog_service/internal/services"
	"github.com/gofiber/fiber/v2"
)

type ChangeLogHandler struct {
	svc     services.ChangeLogService
	userSvc services.UserService
	auth    helper.Auth
}

func NewChangeLogHandler(svc services.ChangeLogService, userSvc services.UserService, auth helper.Auth) *ChangeLogHandler {
	return &ChangeLogHandler{svc: svc, userSvc: userSvc, auth: auth}
}

func (h *ChangeLogHandler) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	logs := api.Group("/change-logs",
		middleware.AuthMiddleware(h.auth),
		middleware.AdminOnly(h.userSvc),
	)

	logs.Get("/products", h.ListProductLogs)
	logs.Get("/products/:productID", h.ListProductLogsByProduct)
	logs.Get("/users", h.ListUserLogs)
	logs.Get("/users/:userID", h.ListUserLogsByUser)
}

func (h *ChangeLogHandler) ListProductLogs(ctx *fiber.Ctx) error {
	logs, err := h.svc.ListProductLogs()
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusInternalServerError, err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, logs)
}

func (h *ChangeLogHandler) ListProductLogsByProduct(ctx *fiber.Ctx) error {
	productID, err := paramID(ctx, "productID")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	logs, err := h.svc.ListProductLogsByProduct(productID)
	if err != nil {
		return utils.ResponseError(ctx, statusFor(err), err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, logs)
}

func (h *ChangeLogHandler) ListUserLogs(ctx *fiber.Ctx) error {
	logs, err := h.svc.ListUserLogs()
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusInternalServerError, err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, logs)
}

func (h *ChangeLogHandler) ListUserLogsByUser(ctx *fiber.Ctx) error {
	userID, err := paramID(ctx, "userID")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	logs, err := h.svc.ListUserLogsByUser(userID)
	if err != nil {
		return utils.ResponseError(ctx, statusFor(err), err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, logs)
}
