package dto

import (
	"time"

	"github.com/wcastillo/catalogo-api/internal/domain/entity"
)

// OrderItemRequest línea de pedido tal como la envía el storefront.
type OrderItemRequest struct {
	ProductID string         `json:"product_id" validate:"required"`
	Variant   entity.Variant `json:"variant"`
	Quantity  int            `json:"quantity" validate:"required,min=1"`
}

// CreateOrderRequest entrada pública para crear un pedido.
type CreateOrderRequest struct {
	Customer entity.Customer    `json:"customer"`
	Items    []OrderItemRequest `json:"items"`
}

// CustomerPatch campos del cliente para edición (merge: ausente no toca).
type CustomerPatch struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Company *string `json:"company"`
}

// UpdateOrderRequest entrada administrativa para editar un pedido.
// Items vacío o ausente deja los existentes; Status acepta cualquiera de los
// tres valores válidos (sin guarda de transición en la vía administrativa).
type UpdateOrderRequest struct {
	Customer *CustomerPatch     `json:"customer"`
	Items    []OrderItemRequest `json:"items"`
	Status   *string            `json:"status"`
}

// UpdatePublicOrderRequest entrada de autoservicio (por código): mismas reglas
// de merge que la edición administrativa pero sin cambio de estado.
type UpdatePublicOrderRequest struct {
	Customer *CustomerPatch     `json:"customer"`
	Items    []OrderItemRequest `json:"items"`
}

// OrderItemResponse línea de pedido con el producto resuelto para presentación.
type OrderItemResponse struct {
	Product  ProductSummary `json:"product"`
	Variant  entity.Variant `json:"variant"`
	Quantity int            `json:"quantity"`
}

// OrderResponse salida administrativa completa de un pedido.
type OrderResponse struct {
	ID        string              `json:"id"`
	Customer  entity.Customer     `json:"customer"`
	Items     []OrderItemResponse `json:"items"`
	Status    string              `json:"status"`
	Code      string              `json:"code"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// CreateOrderResponse salida del alta pública: código asignado + pedido.
type CreateOrderResponse struct {
	Message string        `json:"message"`
	Code    string        `json:"code"`
	Order   OrderResponse `json:"order"`
}

// PublicOrderResponse salida reducida para la consulta pública por email.
type PublicOrderResponse struct {
	Code      string              `json:"code"`
	Status    string              `json:"status"`
	Customer  entity.Customer     `json:"customer"`
	Items     []OrderItemResponse `json:"items"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// OrderListQuery filtros del listado administrativo.
// From/To en formato YYYY-MM-DD (inclusivos).
type OrderListQuery struct {
	From     string `query:"from"`
	To       string `query:"to"`
	Customer string `query:"customer"`
	Code     string `query:"code"`
}
