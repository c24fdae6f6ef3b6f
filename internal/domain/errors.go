package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")

	// ErrOrderLocked: el pedido ya no está en estado "pending" y la edición
	// pública por código no aplica. La edición administrativa nunca lo usa.
	ErrOrderLocked = errors.New("el pedido ya no puede ser modificado")

	// ErrCodeSpaceExhausted: no se pudo asignar un código CAT-#### único tras
	// agotar los reintentos (espacio de 9000 códigos casi lleno).
	ErrCodeSpaceExhausted = errors.New("no hay códigos de pedido disponibles")
)
