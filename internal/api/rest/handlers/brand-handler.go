package handlers

import (
	"github.com/cataloghq/catalog_service/internal/api/rest/middleware"
	"github.com/cataloghq/catalog_service/internal/dto"
	"github.com/cataloghq/catalog_service/internal/helper"
	"github.com/cataloghq/catalog_service/internal/helper/utils"
	"github.com/cataloghq/catalog_service/internal/services"
	"github.com/gofiber/fiber/v2"
)

type BrandHandler struct {
	svc     services.BrandService
	userSvc services.UserService
	auth    helper.Auth
}

func NewBrandHandler(svc services.BrandService, userSvc services.UserService, auth helper.Auth) *BrandHandler {
	return &BrandHandler{svc: svc, userSvc: userSvc, auth: auth}
}

func (h *BrandHandler) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	brands := api.Group("/brands",
		middleware.AuthMiddleware(h.auth),
		middleware.ReaderOrAdmin(h.userSvc),
	)

	brands.Get("/", h.List)
	brands.Get("/:brandID", h.Get)

	admin := brands.Group("", middleware.AdminOnly(h.userSvc))
	admin.Post("/", h.Create)
	admin.Put("/:brandID", h.Update)
	admin.Delete("/:brandID", h.Delete)
}

func (h *BrandHandler) List(ctx *fiber.Ctx) error {
	brands, err := h.svc.List()
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusInternalServerError, err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, brands)
}

func (h *BrandHandler) Get(ctx *fiber.Ctx) error {
	brandID, err := paramID(ctx, "brandID")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	brand, err := h.svc.Get(brandID)
	if err != nil {
		return utils.ResponseError(ctx, statusFor(err), err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, brand)
}

func (h *BrandHandler) Create(ctx *fiber.Ctx) error {
	var requestBody dto.BrandCreate
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	brand, err := h.svc.Create(requestBody)
	if err != nil {
		return utils.ResponseError(ctx, statusFor(err), err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusCreated, brand)
}

func (h *BrandHandler) Update(ctx *fiber.Ctx) error {
	brandID, err := paramID(ctx, "brandID")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}
	var requestBody dto.BrandUpdate
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	brand, err := h.svc.Update(brandID, requestBody)
	if err != nil {
		return utils.ResponseError(ctx, statusFor(err), err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, brand)
}

func (h *BrandHandler) Delete(ctx *fiber.Ctx) error {
	brandID, err := paramID(ctx, "brandID")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	if err := h.svc.SoftDelete(brandID); err != nil {
		return utils.ResponseError(ctx, statusFor(err), err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "Brand deactivated")
}
