package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/wcastillo/catalogo-api/internal/application/dto"
	"github.com/wcastillo/catalogo-api/internal/application/usecase"
)

// EmailLogHandler expone el historial de notificaciones enviadas.
type EmailLogHandler struct {
	uc *usecase.EmailLogUseCase
}

// NewEmailLogHandler construye el handler del historial de correos.
func NewEmailLogHandler(uc *usecase.EmailLogUseCase) *EmailLogHandler {
	return &EmailLogHandler{uc: uc}
}

// List godoc
// @Summary      Listar historial de correos
// @Tags         email-logs
// @Security     Bearer
// @Produce      json
// @Param        from      query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to        query  string  false  "Hasta (YYYY-MM-DD)"
// @Param        customer  query  string  false  "Texto a buscar en el resumen"
// @Param        type      query  string  false  "order_created u order_edited"
// @Success      200  {array}  dto.EmailLogResponse
// @Router       /api/email-logs [get]
func (h *EmailLogHandler) List(c *fiber.Ctx) error {
	var q dto.EmailLogQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	out, err := h.uc.List(q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
