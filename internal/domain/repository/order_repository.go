package repository

import (
	"time"

	"github.com/wcastillo/catalogo-api/internal/domain/entity"
)

// OrderFilter acota el listado administrativo de pedidos.
// From/To son inclusivos sobre created_at; CustomerName es coincidencia
// parcial case-insensitive; Code es coincidencia exacta (ya normalizado).
type OrderFilter struct {
	From         *time.Time
	To           *time.Time
	CustomerName string
	Code         string
}

// OrderRepository define el puerto de persistencia para Order (DIP).
// Create debe devolver domain.ErrDuplicate ante colisión del código único
// (constraint 23505); el asignador de códigos reintenta sobre ese error.
type OrderRepository interface {
	Create(order *entity.Order) error
	GetByID(id string) (*entity.Order, error)
	GetByCode(code string) (*entity.Order, error)
	Update(order *entity.Order) error
	List(filter OrderFilter) ([]*entity.Order, error)
	ListByCustomerEmail(email string) ([]*entity.Order, error)
	Delete(id string) error
}
