package http

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/wcastillo/catalogo-api/internal/application/dto"
	"github.com/wcastillo/catalogo-api/internal/application/usecase"
	"github.com/wcastillo/catalogo-api/internal/domain/entity"
)

// ProductHandler expone el catálogo de productos.
type ProductHandler struct {
	uc *usecase.ProductUseCase
}

// NewProductHandler construye el handler de productos.
func NewProductHandler(uc *usecase.ProductUseCase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// List godoc
// @Summary      Listar productos
// @Tags         products
// @Produce      json
// @Param        category  query  string  false  "Filtrar por categoría"
// @Param        type      query  string  false  "Filtrar por tipo"
// @Param        active    query  bool    false  "Filtrar por estado (admin)"
// @Success      200  {array}  dto.ProductResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	var active *bool
	if raw := c.Query("active"); raw != "" {
		v := raw == "true" || raw == "1"
		active = &v
	}
	out, err := h.uc.List(c.Query("category"), c.Query("type"), active)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener producto por ID
// @Tags         products
// @Produce      json
// @Param        id  path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear producto
// @Tags         products
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        name      formData  string  true   "Nombre"
// @Param        category  formData  string  true   "Categoría"
// @Param        type      formData  string  false  "Tipo"
// @Param        variants  formData  string  false  "Variantes en JSON"
// @Param        image     formData  file    false  "Imagen del producto"
// @Success      201  {object}  dto.ProductResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	in, err := parseProductForm(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: err.Error()})
	}
	file, filename, closeFn, err := openFormImage(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "imagen inválida"})
	}
	if closeFn != nil {
		defer closeFn()
	}
	out, err := h.uc.Create(c.Context(), in, file, filename)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar producto
// @Tags         products
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        id  path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	in, err := parseProductUpdateForm(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: err.Error()})
	}
	file, filename, closeFn, err := openFormImage(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "imagen inválida"})
	}
	if closeFn != nil {
		defer closeFn()
	}
	out, err := h.uc.Update(c.Context(), c.Params("id"), in, file, filename)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UpdateStatus godoc
// @Summary      Activar o desactivar producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                          true  "ID del producto"
// @Param        body  body  dto.UpdateProductStatusRequest  true  "active"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/status [patch]
func (h *ProductHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateProductStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Active == nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "el campo active es requerido"})
	}
	out, err := h.uc.UpdateStatus(c.Params("id"), *in.Active)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar producto
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del producto"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Producto eliminado correctamente."})
}

// parseProductForm arma la petición de creación desde multipart/form-data.
func parseProductForm(c *fiber.Ctx) (dto.CreateProductRequest, error) {
	variants, err := parseVariants(c.FormValue("variants"))
	if err != nil {
		return dto.CreateProductRequest{}, err
	}
	return dto.CreateProductRequest{
		Name:        c.FormValue("name"),
		Description: c.FormValue("description"),
		Category:    c.FormValue("category"),
		Type:        c.FormValue("type"),
		Variants:    variants,
	}, nil
}

// parseProductUpdateForm sólo incluye los campos presentes en el formulario.
func parseProductUpdateForm(c *fiber.Ctx) (dto.UpdateProductRequest, error) {
	var in dto.UpdateProductRequest
	form, err := c.MultipartForm()
	if err != nil {
		return in, err
	}
	field := func(name string) *string {
		if vals, ok := form.Value[name]; ok && len(vals) > 0 {
			return &vals[0]
		}
		return nil
	}
	in.Name = field("name")
	in.Description = field("description")
	in.Category = field("category")
	in.Type = field("type")
	if raw := field("variants"); raw != nil {
		variants, err := parseVariants(*raw)
		if err != nil {
			return in, err
		}
		in.Variants = variants
	}
	return in, nil
}

// parseVariants decodifica el campo variants enviado como JSON en el formulario.
func parseVariants(raw string) ([]entity.Variant, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	var variants []entity.Variant
	if err := json.Unmarshal([]byte(raw), &variants); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "variants debe ser un arreglo JSON válido")
	}
	return variants, nil
}

// openFormImage abre el archivo "image" si viene en el formulario.
// Devuelve un reader nil cuando no se envió imagen.
func openFormImage(c *fiber.Ctx) (io.Reader, string, func(), error) {
	header, err := c.FormFile("image")
	if err != nil {
		// Sin archivo adjunto: no es un error.
		return nil, "", nil, nil
	}
	f, err := header.Open()
	if err != nil {
		return nil, "", nil, err
	}
	return f, header.Filename, func() { _ = f.Close() }, nil
}
