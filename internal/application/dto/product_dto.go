package dto

import (
	"time"

	"github.com/wcastillo/catalogo-api/internal/domain/entity"
)

// CreateProductRequest entrada para crear un producto. Llega como multipart
// (la imagen viaja en el form); variants es un campo de formulario con JSON.
type CreateProductRequest struct {
	Name        string           `json:"name" form:"name" validate:"required,min=1,max=200"`
	Description string           `json:"description" form:"description"`
	Category    string           `json:"category" form:"category" validate:"required"`
	Type        string           `json:"type" form:"type"`
	Variants    []entity.Variant `json:"variants"`
}

// UpdateProductRequest entrada para actualizar un producto (merge: los campos
// ausentes no se tocan). La imagen, si llega, reemplaza y destruye la anterior.
type UpdateProductRequest struct {
	Name        *string          `json:"name" form:"name"`
	Description *string          `json:"description" form:"description"`
	Category    *string          `json:"category" form:"category"`
	Type        *string          `json:"type" form:"type"`
	Variants    []entity.Variant `json:"variants"`
}

// UpdateProductStatusRequest entrada para activar/desactivar un producto.
// Puntero para distinguir "false" de "ausente".
type UpdateProductStatusRequest struct {
	Active *bool `json:"active"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Category    string           `json:"category"`
	Type        string           `json:"type,omitempty"`
	Image       entity.Image     `json:"image"`
	Variants    []entity.Variant `json:"variants"`
	Active      bool             `json:"active"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// ProductSummary subconjunto para presentación dentro de un pedido
// (join en lectura, no desnormalización almacenada).
type ProductSummary struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Image    entity.Image `json:"image,omitempty"`
	Category string       `json:"category,omitempty"`
	Type     string       `json:"type,omitempty"`
}
