package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/caja-registradora/internal/application/dto"
	"github.com/jhoicas/caja-registradora/internal/application/pos"
)

// CartHandler carrito y cobro.
type CartHandler struct {
	session *pos.Session
}

// NewCartHandler construye el handler.
func NewCartHandler(session *pos.Session) *CartHandler {
	return &CartHandler{session: session}
}

// Get godoc
// @Summary      Ver carrito con totales
// @Tags         cart
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CartResponse
// @Router       /api/cart [get]
func (h *CartHandler) Get(c *fiber.Ctx) error {
	return c.JSON(h.session.Cart())
}

// Add godoc
// @Summary      Agregar al carrito
// @Tags         cart
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AddToCartRequest  true  "Artículo y cantidad"
// @Success      200   {object}  dto.CartResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/cart [post]
func (h *CartHandler) Add(c *fiber.Ctx) error {
	var in dto.AddToCartRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.session.AddToCart(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Remove godoc
// @Summary      Quitar del carrito
// @Description  Devuelve quantity unidades al inventario; sin quantity quita la línea completa.
// @Tags         cart
// @Security     Bearer
// @Produce      json
// @Param        id        path   string  true   "ID de la línea"
// @Param        quantity  query  int     false  "Unidades a devolver"
// @Success      200  {object}  dto.CartResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/cart/{id} [delete]
func (h *CartHandler) Remove(c *fiber.Ctx) error {
	lineID := c.Params("id")
	raw := c.Query("quantity")
	if raw == "" {
		out, err := h.session.RemoveLine(c.UserContext(), lineID)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(out)
	}
	quantity, err := strconv.Atoi(raw)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "quantity debe ser un entero"})
	}
	out, err := h.session.RemoveFromCart(c.UserContext(), lineID, quantity)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Checkout godoc
// @Summary      Cobrar
// @Description  Con el carrito vacío responde 200 con code EMPTY_CART y no registra nada.
// @Tags         cart
// @Security     Bearer
// @Produce      json
// @Success      201  {object}  dto.CheckoutResponse
// @Success      200  {object}  dto.InfoResponse
// @Router       /api/cart/checkout [post]
func (h *CartHandler) Checkout(c *fiber.Ctx) error {
	out, err := h.session.Checkout(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
