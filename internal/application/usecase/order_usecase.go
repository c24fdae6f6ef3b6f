package usecase

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wcastillo/catalogo-api/internal/application/dto"
	"github.com/wcastillo/catalogo-api/internal/domain"
	"github.com/wcastillo/catalogo-api/internal/domain/entity"
	"github.com/wcastillo/catalogo-api/internal/domain/repository"
)

// maxCodeAttempts acota el muestreo de códigos CAT-####. Con 9000 códigos
// posibles y el volumen esperado del catálogo las colisiones son raras, pero
// el bucle no puede ser infinito: tras 50 intentos se responde capacidad
// agotada en lugar de colgar la petición.
const maxCodeAttempts = 50

// unknownProductName se usa al resolver items cuyo producto fue eliminado
// después de crearse el pedido (no hay cascada, el snapshot queda).
const unknownProductName = "producto desconocido"

// OrderUseCase orquesta el ciclo de vida del pedido: valida los items contra
// el catálogo, asigna un código único, persiste y dispara la notificación al
// cliente (best-effort, nunca revierte el pedido).
type OrderUseCase struct {
	orders   repository.OrderRepository
	products repository.ProductRepository
	notifier Notifier
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(orders repository.OrderRepository, products repository.ProductRepository, notifier Notifier) *OrderUseCase {
	return &OrderUseCase{orders: orders, products: products, notifier: notifier}
}

// Create registra un pedido público. Todo-o-nada: si un campo requerido falta
// o algún product_id no resuelve, no se persiste nada.
func (uc *OrderUseCase) Create(in dto.CreateOrderRequest) (*dto.CreateOrderResponse, error) {
	customer := normalizeCustomer(in.Customer)
	if customer.Name == "" || customer.Email == "" || customer.Phone == "" {
		return nil, fmt.Errorf("%w: datos del cliente (name, email, phone) son obligatorios", domain.ErrInvalidInput)
	}
	items, names, err := uc.validateItems(in.Items)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	order := &entity.Order{
		ID:        uuid.New().String(),
		Customer:  customer,
		Items:     items,
		Status:    entity.OrderStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// Asignación de código por inserción atómica: el constraint único de la
	// DB arbitra la carrera entre peticiones concurrentes; ante 23505 se
	// muestrea otro código y se reintenta.
	var created bool
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		order.Code = randomOrderCode()
		err := uc.orders.Create(order)
		if err == nil {
			created = true
			break
		}
		if errors.Is(err, domain.ErrDuplicate) {
			continue
		}
		return nil, err
	}
	if !created {
		return nil, domain.ErrCodeSpaceExhausted
	}

	uc.notifier.Dispatch(OrderNotification{
		Type:     entity.EmailTypeOrderCreated,
		Code:     order.Code,
		Customer: order.Customer,
		Items:    notificationItems(order.Items, names),
	})

	return &dto.CreateOrderResponse{
		Message: "Pedido recibido correctamente.",
		Code:    order.Code,
		Order:   *uc.toOrderResponse(order, names),
	}, nil
}

// Update edita un pedido por ID (vía administrativa). Sin guarda de
// transición de estado: el panel puede forzar cualquier estado válido.
func (uc *OrderUseCase) Update(id string, in dto.UpdateOrderRequest) (*dto.OrderResponse, error) {
	order, err := uc.orders.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if in.Status != nil {
		if !entity.ValidOrderStatus(*in.Status) {
			return nil, fmt.Errorf("%w: estado inválido: %s", domain.ErrInvalidInput, *in.Status)
		}
		order.Status = *in.Status
	}
	names, err := uc.applyEdit(order, in.Customer, in.Items)
	if err != nil {
		return nil, err
	}
	return uc.toOrderResponse(order, names), nil
}

// UpdateByCode edita un pedido por su código (autoservicio, sin credenciales).
// Solo procede mientras el estado sea "pending"; nunca cambia el estado.
func (uc *OrderUseCase) UpdateByCode(code string, in dto.UpdatePublicOrderRequest) (*dto.OrderResponse, error) {
	order, err := uc.orders.GetByCode(NormalizeCode(code))
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if order.Status != entity.OrderStatusPending {
		return nil, domain.ErrOrderLocked
	}
	names, err := uc.applyEdit(order, in.Customer, in.Items)
	if err != nil {
		return nil, err
	}
	return uc.toOrderResponse(order, names), nil
}

// applyEdit aplica el merge de cliente e items, persiste y notifica.
// Campos del cliente ausentes o vacíos no se tocan; una lista de items vacía
// deja los existentes.
func (uc *OrderUseCase) applyEdit(order *entity.Order, patch *dto.CustomerPatch, items []dto.OrderItemRequest) (map[string]*entity.Product, error) {
	if patch != nil {
		if patch.Name != nil && strings.TrimSpace(*patch.Name) != "" {
			order.Customer.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.Email != nil && strings.TrimSpace(*patch.Email) != "" {
			order.Customer.Email = strings.TrimSpace(*patch.Email)
		}
		if patch.Phone != nil && strings.TrimSpace(*patch.Phone) != "" {
			order.Customer.Phone = strings.TrimSpace(*patch.Phone)
		}
		if patch.Company != nil && strings.TrimSpace(*patch.Company) != "" {
			order.Customer.Company = strings.TrimSpace(*patch.Company)
		}
	}

	var names map[string]*entity.Product
	if len(items) > 0 {
		validated, resolved, err := uc.validateItems(items)
		if err != nil {
			return nil, err
		}
		order.Items = validated
		names = resolved
	} else {
		resolved, err := uc.resolveProducts(order.Items)
		if err != nil {
			return nil, err
		}
		names = resolved
	}

	order.UpdatedAt = time.Now()
	if err := uc.orders.Update(order); err != nil {
		return nil, err
	}

	uc.notifier.Dispatch(OrderNotification{
		Type:     entity.EmailTypeOrderEdited,
		Code:     order.Code,
		Customer: order.Customer,
		Items:    notificationItems(order.Items, names),
	})
	return names, nil
}

// GetByID obtiene un pedido con items enriquecidos (vía administrativa).
func (uc *OrderUseCase) GetByID(id string) (*dto.OrderResponse, error) {
	order, err := uc.orders.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	products, err := uc.resolveProducts(order.Items)
	if err != nil {
		return nil, err
	}
	return uc.toOrderResponse(order, products), nil
}

// List lista pedidos con filtros (vía administrativa), más recientes primero.
func (uc *OrderUseCase) List(q dto.OrderListQuery) ([]dto.OrderResponse, error) {
	filter := repository.OrderFilter{
		CustomerName: strings.TrimSpace(q.Customer),
		Code:         "",
	}
	if q.Code != "" {
		filter.Code = NormalizeCode(q.Code)
	}
	from, to, err := parseDateRange(q.From, q.To)
	if err != nil {
		return nil, err
	}
	filter.From, filter.To = from, to

	orders, err := uc.orders.List(filter)
	if err != nil {
		return nil, err
	}
	return uc.enrichAll(orders)
}

// ListByCustomerEmail lista pedidos de un cliente (vía pública, por email
// exacto). Sin coincidencias devuelve lista vacía, no error. El resultado no
// está paginado: con el volumen actual del catálogo es aceptable, pero un
// cliente con miles de pedidos recibiría todo de una vez.
func (uc *OrderUseCase) ListByCustomerEmail(email string) ([]dto.PublicOrderResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, fmt.Errorf("%w: el email del cliente es requerido", domain.ErrInvalidInput)
	}
	orders, err := uc.orders.ListByCustomerEmail(email)
	if err != nil {
		return nil, err
	}
	enriched, err := uc.enrichAll(orders)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PublicOrderResponse, 0, len(enriched))
	for _, o := range enriched {
		out = append(out, dto.PublicOrderResponse{
			Code:      o.Code,
			Status:    o.Status,
			Customer:  o.Customer,
			Items:     o.Items,
			CreatedAt: o.CreatedAt,
			UpdatedAt: o.UpdatedAt,
		})
	}
	return out, nil
}

// Delete elimina un pedido por ID (vía administrativa).
func (uc *OrderUseCase) Delete(id string) error {
	order, err := uc.orders.GetByID(id)
	if err != nil {
		return err
	}
	if order == nil {
		return domain.ErrNotFound
	}
	return uc.orders.Delete(id)
}

// NormalizeCode lleva un código de pedido a su forma canónica (CAT-1234).
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// randomOrderCode muestrea un código CAT-#### con el número uniforme en [1000, 9999].
func randomOrderCode() string {
	return fmt.Sprintf("CAT-%d", 1000+rand.Intn(9000))
}

// validateItems valida la lista completa antes de tocar nada: no vacía,
// cantidades >= 1 y cada product_id resolviendo en el catálogo. Devuelve los
// items convertidos y los productos resueltos (para notificación y respuesta).
func (uc *OrderUseCase) validateItems(in []dto.OrderItemRequest) ([]entity.OrderItem, map[string]*entity.Product, error) {
	if len(in) == 0 {
		return nil, nil, fmt.Errorf("%w: el pedido debe tener al menos un item", domain.ErrInvalidInput)
	}
	items := make([]entity.OrderItem, 0, len(in))
	resolved := make(map[string]*entity.Product, len(in))
	for _, it := range in {
		if it.Quantity < 1 {
			return nil, nil, fmt.Errorf("%w: la cantidad debe ser al menos 1", domain.ErrInvalidInput)
		}
		if _, ok := resolved[it.ProductID]; !ok {
			product, err := uc.products.GetByID(it.ProductID)
			if err != nil {
				return nil, nil, err
			}
			if product == nil {
				return nil, nil, fmt.Errorf("%w: producto no válido: %s", domain.ErrInvalidInput, it.ProductID)
			}
			resolved[it.ProductID] = product
		}
		items = append(items, entity.OrderItem{
			ProductID: it.ProductID,
			Variant:   it.Variant,
			Quantity:  it.Quantity,
		})
	}
	return items, resolved, nil
}

// resolveProducts hace el join en lectura de items ya persistidos. A
// diferencia de validateItems es tolerante: un producto borrado después de
// crearse el pedido simplemente no aparece en el mapa.
func (uc *OrderUseCase) resolveProducts(items []entity.OrderItem) (map[string]*entity.Product, error) {
	ids := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		if !seen[it.ProductID] {
			seen[it.ProductID] = true
			ids = append(ids, it.ProductID)
		}
	}
	products, err := uc.products.ListByIDs(ids)
	if err != nil {
		return nil, err
	}
	resolved := make(map[string]*entity.Product, len(products))
	for _, p := range products {
		resolved[p.ID] = p
	}
	return resolved, nil
}

// enrichAll resuelve los productos de un lote de pedidos con una sola consulta.
func (uc *OrderUseCase) enrichAll(orders []*entity.Order) ([]dto.OrderResponse, error) {
	ids := make([]string, 0)
	seen := make(map[string]bool)
	for _, o := range orders {
		for _, it := range o.Items {
			if !seen[it.ProductID] {
				seen[it.ProductID] = true
				ids = append(ids, it.ProductID)
			}
		}
	}
	resolved := make(map[string]*entity.Product, len(ids))
	if len(ids) > 0 {
		products, err := uc.products.ListByIDs(ids)
		if err != nil {
			return nil, err
		}
		for _, p := range products {
			resolved[p.ID] = p
		}
	}
	out := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, *uc.toOrderResponse(o, resolved))
	}
	return out, nil
}

func (uc *OrderUseCase) toOrderResponse(o *entity.Order, products map[string]*entity.Product) *dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		summary := dto.ProductSummary{ID: it.ProductID, Name: unknownProductName}
		if p, ok := products[it.ProductID]; ok && p != nil {
			summary = dto.ProductSummary{
				ID:       p.ID,
				Name:     p.Name,
				Image:    p.Image,
				Category: p.Category,
				Type:     p.Type,
			}
		}
		items = append(items, dto.OrderItemResponse{
			Product:  summary,
			Variant:  it.Variant,
			Quantity: it.Quantity,
		})
	}
	return &dto.OrderResponse{
		ID:        o.ID,
		Customer:  o.Customer,
		Items:     items,
		Status:    o.Status,
		Code:      o.Code,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

func notificationItems(items []entity.OrderItem, products map[string]*entity.Product) []NotificationItem {
	out := make([]NotificationItem, 0, len(items))
	for _, it := range items {
		name := unknownProductName
		if p, ok := products[it.ProductID]; ok && p != nil {
			name = p.Name
		}
		out = append(out, NotificationItem{
			ProductName: name,
			Variant:     it.Variant,
			Quantity:    it.Quantity,
		})
	}
	return out
}

func normalizeCustomer(c entity.Customer) entity.Customer {
	return entity.Customer{
		Name:    strings.TrimSpace(c.Name),
		Email:   strings.TrimSpace(c.Email),
		Phone:   strings.TrimSpace(c.Phone),
		Company: strings.TrimSpace(c.Company),
	}
}

// parseDateRange interpreta from/to como fechas YYYY-MM-DD inclusivas:
// "to" cubre hasta el final de ese día.
func parseDateRange(from, to string) (*time.Time, *time.Time, error) {
	var f, t *time.Time
	if from != "" {
		parsed, err := time.Parse("2006-01-02", from)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: fecha 'from' inválida: %s", domain.ErrInvalidInput, from)
		}
		f = &parsed
	}
	if to != "" {
		parsed, err := time.Parse("2006-01-02", to)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: fecha 'to' inválida: %s", domain.ErrInvalidInput, to)
		}
		endOfDay := parsed.Add(24*time.Hour - time.Nanosecond)
		t = &endOfDay
	}
	return f, t, nil
}
