package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/caja-registradora/internal/application/dto"
	"github.com/jhoicas/caja-registradora/internal/application/pos"
)

// PreferencesHandler porcentajes de impuesto y descuento.
type PreferencesHandler struct {
	session *pos.Session
}

// NewPreferencesHandler construye el handler.
func NewPreferencesHandler(session *pos.Session) *PreferencesHandler {
	return &PreferencesHandler{session: session}
}

// Get godoc
// @Summary      Ver preferencias
// @Tags         preferences
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.PreferencesResponse
// @Router       /api/preferences [get]
func (h *PreferencesHandler) Get(c *fiber.Ctx) error {
	return c.JSON(h.session.Preferences())
}

// Update godoc
// @Summary      Actualizar preferencias
// @Description  Se aplican ambos valores o ninguno.
// @Tags         preferences
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdatePreferencesRequest  true  "Porcentajes"
// @Success      200   {object}  dto.PreferencesResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/preferences [put]
func (h *PreferencesHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdatePreferencesRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.session.UpdatePreferences(in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
