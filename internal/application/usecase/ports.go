package usecase

import (
	"context"
	"io"

	"github.com/wcastillo/catalogo-api/internal/domain/entity"
)

// NotificationItem línea ya resuelta para el correo (nombre de producto
// incluido; el dispatcher no consulta el catálogo).
type NotificationItem struct {
	ProductName string
	Variant     entity.Variant
	Quantity    int
}

// OrderNotification carga útil del correo de confirmación de pedido.
type OrderNotification struct {
	Type     string // entity.EmailTypeOrderCreated | entity.EmailTypeOrderEdited
	Code     string
	Customer entity.Customer
	Items    []NotificationItem
}

// Notifier es el colaborador externo que envía el resumen al cliente y
// registra el resultado en la bitácora. Por contrato nunca devuelve error:
// un fallo de envío se traga, se loguea y queda en EmailLog como "failed".
type Notifier interface {
	Dispatch(n OrderNotification)
}

// ImageStore es el host externo de imágenes de producto (Cloudinary).
type ImageStore interface {
	Upload(ctx context.Context, file io.Reader, filename string) (entity.Image, error)
	Destroy(ctx context.Context, publicID string) error
}
