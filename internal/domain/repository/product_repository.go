package repository

import "github.com/wcastillo/catalogo-api/internal/domain/entity"

// ProductFilter acota el listado de productos.
// Active en nil significa "solo activos" para el público; el panel admin pasa
// el puntero explícito cuando quiere ver inactivos.
type ProductFilter struct {
	Category string
	Type     string
	Active   *bool
}

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	ListByIDs(ids []string) ([]*entity.Product, error)
	Update(product *entity.Product) error
	UpdateActive(id string, active bool) error
	List(filter ProductFilter) ([]*entity.Product, error)
	Delete(id string) error
}
