package handlers

import (
	"errors"
	"strconv"

	"github.com/cataloghq/catalog_service/internal/services"
	"github.com/gofiber/fiber/v2"
)

func paramID(ctx *fiber.Ctx, name string) (uint, error) {
	raw := ctx.Params(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}

func currentUserID(ctx *fiber.Ctx) uint {
	id, _ := ctx.Locals("userID").(uint)
	return id
}

// statusFor maps the service sentinels onto HTTP codes; anything
// unrecognized is the caller's fault until proven otherwise.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrConflict):
		return fiber.StatusConflict
	default:
		return fiber.StatusBadRequest
	}
}
