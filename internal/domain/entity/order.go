package entity

import "time"

// Estados válidos para Order.
const (
	OrderStatusPending   = "pending"
	OrderStatusProcessed = "processed"
	OrderStatusCancelled = "cancelled"
)

// ValidOrderStatus indica si s es uno de los tres estados del pedido.
func ValidOrderStatus(s string) bool {
	return s == OrderStatusPending || s == OrderStatusProcessed || s == OrderStatusCancelled
}

// Customer es el snapshot de contacto del cliente copiado dentro del pedido.
// No es una referencia viva: editar un pedido no toca ningún otro registro.
type Customer struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Company string `json:"company,omitempty"`
}

// OrderItem es una línea del pedido: referencia al producto más el snapshot
// de la variante elegida y la cantidad (>= 1). La variante se copia por valor
// para preservar el histórico si el producto se edita después.
type OrderItem struct {
	ProductID string  `json:"product_id"`
	Variant   Variant `json:"variant"`
	Quantity  int     `json:"quantity"`
}

// Order representa un pedido del catálogo.
// Code es el identificador legible CAT-#### usado en consultas públicas;
// es único global e inmutable una vez asignado.
type Order struct {
	ID        string
	Customer  Customer
	Items     []OrderItem
	Status    string
	Code      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
