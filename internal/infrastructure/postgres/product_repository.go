package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/wcastillo/catalogo-api/internal/domain"
	"github.com/wcastillo/catalogo-api/internal/domain/entity"
	"github.com/wcastillo/catalogo-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL.
// Las variantes se guardan como JSONB: son value types embebidos, sin
// identidad propia ni tabla aparte.
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos.
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, name, description, category, type,
	COALESCE(image_url, ''), COALESCE(image_public_id, ''), variants, active, created_at, updated_at`

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(product *entity.Product) error {
	variants, err := marshalVariants(product.Variants)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO products (id, name, description, category, type, image_url, image_public_id, variants, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err = r.q.Exec(context.Background(), query,
		product.ID, product.Name, product.Description, product.Category, product.Type,
		nullIfEmpty(product.Image.URL), nullIfEmpty(product.Image.PublicID),
		variants, product.Active, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID. Devuelve (nil, nil) si no existe.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	p, err := scanProduct(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// ListByIDs obtiene un lote de productos (join en lectura de pedidos).
// IDs sin producto simplemente no aparecen en el resultado.
func (r *ProductRepo) ListByIDs(ids []string) ([]*entity.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT ` + productColumns + ` FROM products WHERE id = ANY($1)`
	rows, err := r.q.Query(context.Background(), query, ids)
	if err != nil {
		return nil, fmt.Errorf("list products by ids: %w", err)
	}
	defer rows.Close()
	return collectProducts(rows)
}

// Update actualiza un producto existente (incluida la referencia de imagen).
func (r *ProductRepo) Update(product *entity.Product) error {
	variants, err := marshalVariants(product.Variants)
	if err != nil {
		return err
	}
	query := `
		UPDATE products
		SET name = $2, description = $3, category = $4, type = $5,
		    image_url = $6, image_public_id = $7, variants = $8, active = $9, updated_at = $10
		WHERE id = $1`
	_, err = r.q.Exec(context.Background(), query,
		product.ID, product.Name, product.Description, product.Category, product.Type,
		nullIfEmpty(product.Image.URL), nullIfEmpty(product.Image.PublicID),
		variants, product.Active, product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// UpdateActive cambia solo la visibilidad pública del producto.
func (r *ProductRepo) UpdateActive(id string, active bool) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE products SET active = $2, updated_at = now() WHERE id = $1`,
		id, active,
	)
	if err != nil {
		return fmt.Errorf("update product active: %w", err)
	}
	return nil
}

// List lista productos filtrando por categoría, tipo y estado, más recientes primero.
func (r *ProductRepo) List(filter repository.ProductFilter) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE 1=1`
	args := []any{}
	if filter.Active != nil {
		args = append(args, *filter.Active)
		query += fmt.Sprintf(" AND active = $%d", len(args))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if filter.Type != "" {
		args = append(args, filter.Type)
		query += fmt.Sprintf(" AND type = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	return collectProducts(rows)
}

// Delete elimina un producto por ID.
func (r *ProductRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

func marshalVariants(variants []entity.Variant) ([]byte, error) {
	if variants == nil {
		variants = []entity.Variant{}
	}
	b, err := json.Marshal(variants)
	if err != nil {
		return nil, fmt.Errorf("marshal variants: %w", err)
	}
	return b, nil
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	var variants []byte
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Category, &p.Type,
		&p.Image.URL, &p.Image.PublicID, &variants, &p.Active, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(variants) > 0 {
		if err := json.Unmarshal(variants, &p.Variants); err != nil {
			return nil, fmt.Errorf("unmarshal variants: %w", err)
		}
	}
	return &p, nil
}

func collectProducts(rows pgx.Rows) ([]*entity.Product, error) {
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
