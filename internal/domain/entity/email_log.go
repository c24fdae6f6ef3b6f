package entity

import "time"

// Tipos de notificación registrados.
const (
	EmailTypeOrderCreated = "order_created"
	EmailTypeOrderEdited  = "order_edited"
)

// Resultados del envío.
const (
	EmailOutcomeSent   = "sent"
	EmailOutcomeFailed = "failed"
)

// EmailLog es el registro de auditoría de cada intento de notificación al
// cliente. Es append-only: la aplicación nunca lo modifica ni lo borra.
// No tiene FK hacia pedidos; se correlaciona por fecha y por el resumen.
type EmailLog struct {
	ID         string
	Type       string   // order_created | order_edited
	Recipients []string // direcciones reales
	Outcome    string   // sent | failed
	Error      string   // solo cuando Outcome es failed
	Summary    string   // ej. "Pedido CAT-6104 de Ana con 3 productos"
	CreatedAt  time.Time
}
