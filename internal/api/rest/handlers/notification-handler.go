package handlers

import (
	"github.com/cataloghq/catalog_service/internal/api/rest/middleware"
	"github.com/cataloghq/catalog_service/internal/helper"
	"github.com/cataloghq/catalog_service/internal/helper/utils"
	"github.com/cataloghq/catalog_service/internal/services"
	"github.com/gofiber/fiber/v2"
)

type NotificationHandler struct {
	svc     services.NotificationService
	userSvc services.UserService
	auth    helper.Auth
}

func NewNotificationHandler(svc services.NotificationService, userSvc services.UserService, auth helper.Auth) *NotificationHandler {
	return &NotificationHandler{svc: svc, userSvc: userSvc, auth: auth}
}

func (h *NotificationHandler) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	notifs := api.Group("/admin-notifications",
		middleware.AuthMiddleware(h.auth),
		middleware.AdminOnly(h.userSvc),
	)

	notifs.Get("/", h.List)
	notifs.Get("/me", h.ListMine)
}

func (h *NotificationHandler) List(ctx *fiber.Ctx) error {
	notifs, err := h.svc.List()
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusInternalServerError, err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, notifs)
}

func (h *NotificationHandler) ListMine(ctx *fiber.Ctx) error {
	notifs, err := h.svc.ListByUser(currentUserID(ctx))
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusInternalServerError, err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, notifs)
}
