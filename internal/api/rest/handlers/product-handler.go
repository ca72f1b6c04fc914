package handlers

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/cataloghq/catalog_service/internal/api/rest/middleware"
	"github.com/cataloghq/catalog_service/internal/dto"
	"github.com/cataloghq/catalog_service/internal/helper"
	"github.com/cataloghq/catalog_service/internal/helper/utils"
	"github.com/cataloghq/catalog_service/internal/services"
	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	svc     services.ProductService
	userSvc services.UserService
	auth    helper.Auth
}

func NewProductHandler(svc services.ProductService, userSvc services.UserService, auth helper.Auth) *ProductHandler {
	return &ProductHandler{svc: svc, userSvc: userSvc, auth: auth}
}

func (h *ProductHandler) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	products := api.Group("/products",
		middleware.AuthMiddleware(h.auth),
		middleware.ReaderOrAdmin(h.userSvc),
	)

	// reads are open to any role, anonymous included
	products.Get("/", h.List)
	products.Get("/views", h.ListViews)
	products.Get("/:productID", h.Get)
	products.Get("/:productID/views", h.GetView)

	// writes stay admin
	admin := products.Group("", middleware.AdminOnly(h.userSvc))
	admin.Post("/", h.Create)
	admin.Put("/:productID", h.Update)
	admin.Delete("/:productID", h.Delete)
	admin.Post("/:productID/image", h.UploadImage)
}

func (h *ProductHandler) List(ctx *fiber.Ctx) error {
	products, err := h.svc.List(currentUserID(ctx))
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusInternalServerError, err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, products)
}

func (h *ProductHandler) Get(ctx *fiber.Ctx) error {
	productID, err := paramID(ctx, "productID")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	product, err := h.svc.Get(productID, currentUserID(ctx))
	if err != nil {
		return utils.ResponseError(ctx, statusFor(err), err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, product)
}

func (h *ProductHandler) Create(ctx *fiber.Ctx) error {
	var requestBody dto.ProductCreate
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	product, err := h.svc.Create(requestBody, currentUserID(ctx))
	if err != nil {
		return utils.ResponseError(ctx, statusFor(err), err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusCreated, product)
}

func (h *ProductHandler) Update(ctx *fiber.Ctx) error {
	productID, err := paramID(ctx, "productID")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}
	var requestBody dto.ProductUpdate
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	product, err := h.svc.Update(productID, requestBody, currentUserID(ctx))
	if err != nil {
		return utils.ResponseError(ctx, statusFor(err), err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, product)
}

func (h *ProductHandler) Delete(ctx *fiber.Ctx) error {
	productID, err := paramID(ctx, "productID")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	if err := h.svc.SoftDelete(productID, currentUserID(ctx)); err != nil {
		return utils.ResponseError(ctx, statusFor(err), err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "Product deactivated")
}

// POST /api/products/:productID/image
// form-data: file=<image>
func (h *ProductHandler) UploadImage(ctx *fiber.Ctx) error {
	productID, err := paramID(ctx, "productID")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "file is required")
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	allowed := map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true}
	if !allowed[ext] {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "only jpg/jpeg/png/webp allowed")
	}

	const maxSize = 5 * 1024 * 1024 // 5MB
	if file.Size > maxSize {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "file too large (max 5MB)")
	}

	f, err := file.Open()
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusInternalServerError, "cannot open uploaded file")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusInternalServerError, "cannot read uploaded file")
	}

	uploadCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	url, err := h.svc.UploadImage(uploadCtx, productID, file.Filename, data, currentUserID(ctx))
	if err != nil {
		return utils.ResponseError(ctx, statusFor(err), err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{"image_url": url})
}

func (h *ProductHandler) GetView(ctx *fiber.Ctx) error {
	productID, err := paramID(ctx, "productID")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	view, err := h.svc.GetView(productID)
	if err != nil {
		return utils.ResponseError(ctx, statusFor(err), err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, view)
}

func (h *ProductHandler) ListViews(ctx *fiber.Ctx) error {
	views, err := h.svc.ListViews()
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusInternalServerError, err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, views)
}
