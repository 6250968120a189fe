package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/caja-registradora/internal/application/dto"
	"github.com/jhoicas/caja-registradora/internal/domain"
)

// statusByCode código de dominio -> status HTTP.
var statusByCode = map[string]int{
	"VALIDATION":         fiber.StatusBadRequest,
	"INSUFFICIENT_STOCK": fiber.StatusConflict,
	"NOT_FOUND":          fiber.StatusNotFound,
	"UNAUTHORIZED":       fiber.StatusUnauthorized,
	"PERSISTENCE":        fiber.StatusInternalServerError,
	"INTERNAL":           fiber.StatusInternalServerError,
}

// respondError traduce un error de dominio a dto.ErrorResponse.
// ErrEmptyCart es un aviso: responde 200 con dto.InfoResponse.
func respondError(c *fiber.Ctx, err error) error {
	code := domain.Code(err)
	if code == "EMPTY_CART" {
		return c.Status(fiber.StatusOK).JSON(dto.InfoResponse{Code: code, Message: "No hay artículos en el carrito."})
	}
	status, ok := statusByCode[code]
	if !ok {
		status = fiber.StatusInternalServerError
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: err.Error()})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
