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

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación del puerto OrderRepository sobre PostgreSQL.
// El snapshot del cliente va en columnas planas y los items como JSONB
// (copias por valor, sin FK viva hacia products). El constraint único sobre
// code arbitra la asignación concurrente de códigos.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador de persistencia para pedidos.
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

const orderColumns = `id, customer_name, customer_email, customer_phone,
	COALESCE(customer_company, ''), items, status, code, created_at, updated_at`

// Create persiste un pedido nuevo. Devuelve domain.ErrDuplicate si el código
// ya existe (23505); el caso de uso reintenta con otro código.
func (r *OrderRepo) Create(order *entity.Order) error {
	items, err := marshalItems(order.Items)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO orders (id, customer_name, customer_email, customer_phone, customer_company, items, status, code, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err = r.q.Exec(context.Background(), query,
		order.ID, order.Customer.Name, order.Customer.Email, order.Customer.Phone,
		nullIfEmpty(order.Customer.Company), items, order.Status, order.Code,
		order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// GetByID obtiene un pedido por ID. Devuelve (nil, nil) si no existe.
func (r *OrderRepo) GetByID(id string) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	o, err := scanOrder(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

// GetByCode obtiene un pedido por su código público (ya normalizado).
func (r *OrderRepo) GetByCode(code string) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE code = $1`
	o, err := scanOrder(r.q.QueryRow(context.Background(), query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order by code: %w", err)
	}
	return o, nil
}

// Update actualiza cliente, items y estado. El código nunca se toca: es
// inmutable una vez asignado.
func (r *OrderRepo) Update(order *entity.Order) error {
	items, err := marshalItems(order.Items)
	if err != nil {
		return err
	}
	query := `
		UPDATE orders
		SET customer_name = $2, customer_email = $3, customer_phone = $4,
		    customer_company = $5, items = $6, status = $7, updated_at = $8
		WHERE id = $1`
	_, err = r.q.Exec(context.Background(), query,
		order.ID, order.Customer.Name, order.Customer.Email, order.Customer.Phone,
		nullIfEmpty(order.Customer.Company), items, order.Status, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	return nil
}

// List lista pedidos con filtros administrativos, más recientes primero.
func (r *OrderRepo) List(filter repository.OrderFilter) ([]*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE 1=1`
	args := []any{}
	if filter.From != nil {
		args = append(args, *filter.From)
		query += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		query += fmt.Sprintf(" AND created_at <= $%d", len(args))
	}
	if filter.CustomerName != "" {
		args = append(args, "%"+filter.CustomerName+"%")
		query += fmt.Sprintf(" AND customer_name ILIKE $%d", len(args))
	}
	if filter.Code != "" {
		args = append(args, filter.Code)
		query += fmt.Sprintf(" AND code = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	return collectOrders(rows)
}

// ListByCustomerEmail lista los pedidos de un cliente (email exacto,
// comparación case-insensitive), más recientes primero.
func (r *OrderRepo) ListByCustomerEmail(email string) ([]*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders
		WHERE LOWER(customer_email) = $1 ORDER BY created_at DESC`
	rows, err := r.q.Query(context.Background(), query, email)
	if err != nil {
		return nil, fmt.Errorf("list orders by email: %w", err)
	}
	defer rows.Close()
	return collectOrders(rows)
}

// Delete elimina un pedido por ID.
func (r *OrderRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	return nil
}

func marshalItems(items []entity.OrderItem) ([]byte, error) {
	if items == nil {
		items = []entity.OrderItem{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("marshal order items: %w", err)
	}
	return b, nil
}

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var o entity.Order
	var items []byte
	err := row.Scan(
		&o.ID, &o.Customer.Name, &o.Customer.Email, &o.Customer.Phone,
		&o.Customer.Company, &items, &o.Status, &o.Code, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &o.Items); err != nil {
			return nil, fmt.Errorf("unmarshal order items: %w", err)
		}
	}
	return &o, nil
}

func collectOrders(rows pgx.Rows) ([]*entity.Order, error) {
	var list []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}
