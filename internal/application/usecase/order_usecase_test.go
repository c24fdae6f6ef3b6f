package usecase_test

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wcastillo/catalogo-api/internal/application/dto"
	"github.com/wcastillo/catalogo-api/internal/application/usecase"
	"github.com/wcastillo/catalogo-api/internal/domain"
	"github.com/wcastillo/catalogo-api/internal/domain/entity"
	"github.com/wcastillo/catalogo-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

// fakeOrderRepo implementa repository.OrderRepository sobre un mapa.
// Responde ErrDuplicate si el código ya está tomado, igual que el constraint
// único de la DB; failAll fuerza duplicado siempre (agota el muestreo).
type fakeOrderRepo struct {
	orders  map[string]*entity.Order // por ID
	byCode  map[string]string        // code → ID
	failAll bool
	creates int
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{
		orders: map[string]*entity.Order{},
		byCode: map[string]string{},
	}
}

func (r *fakeOrderRepo) Create(o *entity.Order) error {
	r.creates++
	if r.failAll {
		return domain.ErrDuplicate
	}
	if _, exists := r.byCode[o.Code]; exists {
		return domain.ErrDuplicate
	}
	cp := *o
	r.orders[o.ID] = &cp
	r.byCode[o.Code] = o.ID
	return nil
}

func (r *fakeOrderRepo) GetByID(id string) (*entity.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (r *fakeOrderRepo) GetByCode(code string) (*entity.Order, error) {
	id, ok := r.byCode[code]
	if !ok {
		return nil, nil
	}
	return r.GetByID(id)
}

func (r *fakeOrderRepo) Update(o *entity.Order) error {
	cp := *o
	r.orders[o.ID] = &cp
	return nil
}

func (r *fakeOrderRepo) List(_ repository.OrderFilter) ([]*entity.Order, error) {
	out := make([]*entity.Order, 0, len(r.orders))
	for _, o := range r.orders {
		cp := *o
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeOrderRepo) ListByCustomerEmail(email string) ([]*entity.Order, error) {
	var out []*entity.Order
	for _, o := range r.orders {
		if strings.EqualFold(o.Customer.Email, email) {
			cp := *o
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) Delete(id string) error {
	if o, ok := r.orders[id]; ok {
		delete(r.byCode, o.Code)
		delete(r.orders, id)
	}
	return nil
}

// fakeProductRepo implementa repository.ProductRepository sobre un mapa.
type fakeProductRepo struct {
	products map[string]*entity.Product
}

func newFakeProductRepo(products ...*entity.Product) *fakeProductRepo {
	r := &fakeProductRepo{products: map[string]*entity.Product{}}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

func (r *fakeProductRepo) Create(p *entity.Product) error { r.products[p.ID] = p; return nil }
func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	return p, nil
}
func (r *fakeProductRepo) ListByIDs(ids []string) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}
func (r *fakeProductRepo) Update(p *entity.Product) error { r.products[p.ID] = p; return nil }
func (r *fakeProductRepo) UpdateActive(id string, active bool) error {
	if p, ok := r.products[id]; ok {
		p.Active = active
	}
	return nil
}
func (r *fakeProductRepo) List(f repository.ProductFilter) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.products {
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if f.Type != "" && p.Type != f.Type {
			continue
		}
		if f.Active != nil && p.Active != *f.Active {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}
func (r *fakeProductRepo) Delete(id string) error { delete(r.products, id); return nil }

// fakeNotifier registra cada notificación despachada.
type fakeNotifier struct {
	dispatched []usecase.OrderNotification
}

func (n *fakeNotifier) Dispatch(notification usecase.OrderNotification) {
	n.dispatched = append(n.dispatched, notification)
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

var codePattern = regexp.MustCompile(`^CAT-\d{4}$`)

func testProduct(id, name string) *entity.Product {
	now := time.Now()
	return &entity.Product{
		ID:        id,
		Name:      name,
		Category:  "escritorio",
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func validCreateRequest(productID string) dto.CreateOrderRequest {
	return dto.CreateOrderRequest{
		Customer: entity.Customer{
			Name:  "Laura Medina",
			Email: "laura@example.com",
			Phone: "3001234567",
		},
		Items: []dto.OrderItemRequest{
			{ProductID: productID, Variant: entity.Variant{Model: "M-01"}, Quantity: 2},
		},
	}
}

func buildOrderUC(orders *fakeOrderRepo, products *fakeProductRepo, notifier *fakeNotifier) *usecase.OrderUseCase {
	return usecase.NewOrderUseCase(orders, products, notifier)
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateOrder_AsignaCodigoConFormato(t *testing.T) {
	orders := newFakeOrderRepo()
	products := newFakeProductRepo(testProduct("p1", "Silla ergonómica"))
	notifier := &fakeNotifier{}
	uc := buildOrderUC(orders, products, notifier)

	out, err := uc.Create(validCreateRequest("p1"))
	require.NoError(t, err)

	assert.Regexp(t, codePattern, out.Code, "el código debe tener formato CAT-####")
	assert.Equal(t, "Pedido recibido correctamente.", out.Message)
	assert.Equal(t, entity.OrderStatusPending, out.Order.Status, "todo pedido nace pendiente")
	require.Len(t, out.Order.Items, 1)
	assert.Equal(t, "Silla ergonómica", out.Order.Items[0].Product.Name,
		"el item debe incluir el producto resuelto")
}

func TestCreateOrder_ReintentaAnteCodigoDuplicado(t *testing.T) {
	orders := newFakeOrderRepo()
	products := newFakeProductRepo(testProduct("p1", "Silla"))
	notifier := &fakeNotifier{}
	uc := buildOrderUC(orders, products, notifier)

	// El fake responde ErrDuplicate si el código ya está tomado, igual que el
	// constraint único de la DB: el asignador debe muestrear otro y terminar.
	first, err := uc.Create(validCreateRequest("p1"))
	require.NoError(t, err)

	second, err := uc.Create(validCreateRequest("p1"))
	require.NoError(t, err)
	assert.NotEqual(t, first.Code, second.Code, "los códigos deben ser únicos")
}

func TestCreateOrder_CapacidadAgotada(t *testing.T) {
	orders := newFakeOrderRepo()
	orders.failAll = true // la DB responde duplicado a todo intento
	products := newFakeProductRepo(testProduct("p1", "Silla"))
	notifier := &fakeNotifier{}
	uc := buildOrderUC(orders, products, notifier)

	_, err := uc.Create(validCreateRequest("p1"))
	assert.ErrorIs(t, err, domain.ErrCodeSpaceExhausted)
	assert.Equal(t, 50, orders.creates, "el muestreo debe estar acotado")
	assert.Empty(t, notifier.dispatched, "sin pedido no hay notificación")
}

func TestCreateOrder_ClienteIncompleto(t *testing.T) {
	uc := buildOrderUC(newFakeOrderRepo(), newFakeProductRepo(), &fakeNotifier{})

	in := validCreateRequest("p1")
	in.Customer.Phone = "   " // solo espacios = vacío
	_, err := uc.Create(in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateOrder_ProductoInexistente_NoPersisteNada(t *testing.T) {
	orders := newFakeOrderRepo()
	products := newFakeProductRepo(testProduct("p1", "Silla"))
	notifier := &fakeNotifier{}
	uc := buildOrderUC(orders, products, notifier)

	in := validCreateRequest("p1")
	in.Items = append(in.Items, dto.OrderItemRequest{ProductID: "no-existe", Quantity: 1})

	_, err := uc.Create(in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput,
		"un product_id que no resuelve invalida el pedido completo")
	assert.Empty(t, orders.orders, "todo-o-nada: nada debe persistirse")
	assert.Empty(t, notifier.dispatched)
}

func TestCreateOrder_CantidadInvalida(t *testing.T) {
	uc := buildOrderUC(newFakeOrderRepo(), newFakeProductRepo(testProduct("p1", "Silla")), &fakeNotifier{})

	in := validCreateRequest("p1")
	in.Items[0].Quantity = 0
	_, err := uc.Create(in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateOrder_DespachaNotificacion(t *testing.T) {
	orders := newFakeOrderRepo()
	products := newFakeProductRepo(testProduct("p1", "Silla ergonómica"))
	notifier := &fakeNotifier{}
	uc := buildOrderUC(orders, products, notifier)

	out, err := uc.Create(validCreateRequest("p1"))
	require.NoError(t, err)

	require.Len(t, notifier.dispatched, 1)
	n := notifier.dispatched[0]
	assert.Equal(t, entity.EmailTypeOrderCreated, n.Type)
	assert.Equal(t, out.Code, n.Code)
	require.Len(t, n.Items, 1)
	assert.Equal(t, "Silla ergonómica", n.Items[0].ProductName,
		"la notificación lleva el nombre resuelto, no el ID")
}

// ──────────────────────────────────────────────────────────────────────────────
// UpdateByCode (autoservicio público)
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdateByCode_SoloPendiente(t *testing.T) {
	orders := newFakeOrderRepo()
	products := newFakeProductRepo(testProduct("p1", "Silla"))
	notifier := &fakeNotifier{}
	uc := buildOrderUC(orders, products, notifier)

	out, err := uc.Create(validCreateRequest("p1"))
	require.NoError(t, err)

	// Procesamos el pedido por la vía administrativa.
	processed := entity.OrderStatusProcessed
	_, err = uc.Update(out.Order.ID, dto.UpdateOrderRequest{Status: &processed})
	require.NoError(t, err)

	// La edición pública debe rechazarse y el pedido quedar intacto.
	nuevoNombre := "Otro Nombre"
	_, err = uc.UpdateByCode(out.Code, dto.UpdatePublicOrderRequest{
		Customer: &dto.CustomerPatch{Name: &nuevoNombre},
	})
	assert.ErrorIs(t, err, domain.ErrOrderLocked)

	stored, err := orders.GetByCode(out.Code)
	require.NoError(t, err)
	assert.Equal(t, "Laura Medina", stored.Customer.Name, "el pedido no debe cambiar")
}

func TestUpdateByCode_CodigoNormalizado(t *testing.T) {
	orders := newFakeOrderRepo()
	products := newFakeProductRepo(testProduct("p1", "Silla"))
	uc := buildOrderUC(orders, products, &fakeNotifier{})

	out, err := uc.Create(validCreateRequest("p1"))
	require.NoError(t, err)

	// Minúsculas y espacios alrededor deben resolver al mismo pedido.
	raw := "  " + strings.ToLower(out.Code) + " "
	updated, err := uc.UpdateByCode(raw, dto.UpdatePublicOrderRequest{})
	require.NoError(t, err)
	assert.Equal(t, out.Code, updated.Code)
}

func TestUpdateByCode_MergeCliente(t *testing.T) {
	orders := newFakeOrderRepo()
	products := newFakeProductRepo(testProduct("p1", "Silla"))
	notifier := &fakeNotifier{}
	uc := buildOrderUC(orders, products, notifier)

	out, err := uc.Create(validCreateRequest("p1"))
	require.NoError(t, err)

	nuevoTelefono := "3109876543"
	vacio := "   "
	updated, err := uc.UpdateByCode(out.Code, dto.UpdatePublicOrderRequest{
		Customer: &dto.CustomerPatch{
			Phone: &nuevoTelefono,
			Name:  &vacio, // vacío tras trim: no debe tocar el nombre
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "3109876543", updated.Customer.Phone)
	assert.Equal(t, "Laura Medina", updated.Customer.Name,
		"un campo vacío no debe sobrescribir el valor existente")
	assert.Equal(t, "laura@example.com", updated.Customer.Email)

	// La edición también notifica.
	require.Len(t, notifier.dispatched, 2)
	assert.Equal(t, entity.EmailTypeOrderEdited, notifier.dispatched[1].Type)
}

func TestUpdateByCode_ItemsVaciosDejanLosExistentes(t *testing.T) {
	orders := newFakeOrderRepo()
	products := newFakeProductRepo(testProduct("p1", "Silla"))
	uc := buildOrderUC(orders, products, &fakeNotifier{})

	out, err := uc.Create(validCreateRequest("p1"))
	require.NoError(t, err)

	updated, err := uc.UpdateByCode(out.Code, dto.UpdatePublicOrderRequest{Items: nil})
	require.NoError(t, err)
	require.Len(t, updated.Items, 1, "lista vacía conserva los items")
	assert.Equal(t, 2, updated.Items[0].Quantity)
}

func TestUpdateByCode_NoEncontrado(t *testing.T) {
	uc := buildOrderUC(newFakeOrderRepo(), newFakeProductRepo(), &fakeNotifier{})
	_, err := uc.UpdateByCode("CAT-9999", dto.UpdatePublicOrderRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Update (vía administrativa)
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdate_AdminCambiaEstadoSinGuarda(t *testing.T) {
	orders := newFakeOrderRepo()
	products := newFakeProductRepo(testProduct("p1", "Silla"))
	uc := buildOrderUC(orders, products, &fakeNotifier{})

	out, err := uc.Create(validCreateRequest("p1"))
	require.NoError(t, err)

	// cancelled → processed: la vía administrativa no impone transiciones.
	cancelled := entity.OrderStatusCancelled
	_, err = uc.Update(out.Order.ID, dto.UpdateOrderRequest{Status: &cancelled})
	require.NoError(t, err)

	processed := entity.OrderStatusProcessed
	updated, err := uc.Update(out.Order.ID, dto.UpdateOrderRequest{Status: &processed})
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusProcessed, updated.Status)
}

func TestUpdate_EstadoInvalido(t *testing.T) {
	orders := newFakeOrderRepo()
	products := newFakeProductRepo(testProduct("p1", "Silla"))
	uc := buildOrderUC(orders, products, &fakeNotifier{})

	out, err := uc.Create(validCreateRequest("p1"))
	require.NoError(t, err)

	bogus := "enviado"
	_, err = uc.Update(out.Order.ID, dto.UpdateOrderRequest{Status: &bogus})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdate_ElCodigoNuncaCambia(t *testing.T) {
	orders := newFakeOrderRepo()
	products := newFakeProductRepo(testProduct("p1", "Silla"))
	uc := buildOrderUC(orders, products, &fakeNotifier{})

	out, err := uc.Create(validCreateRequest("p1"))
	require.NoError(t, err)

	nuevoNombre := "Cliente Editado"
	updated, err := uc.Update(out.Order.ID, dto.UpdateOrderRequest{
		Customer: &dto.CustomerPatch{Name: &nuevoNombre},
	})
	require.NoError(t, err)
	assert.Equal(t, out.Code, updated.Code, "el código es inmutable")
}

// ──────────────────────────────────────────────────────────────────────────────
// Consultas
// ──────────────────────────────────────────────────────────────────────────────

func TestListByCustomerEmail_SinCoincidencias_ListaVacia(t *testing.T) {
	uc := buildOrderUC(newFakeOrderRepo(), newFakeProductRepo(), &fakeNotifier{})

	out, err := uc.ListByCustomerEmail("nadie@example.com")
	require.NoError(t, err)
	assert.NotNil(t, out, "debe ser lista vacía, no nil")
	assert.Empty(t, out)
}

func TestListByCustomerEmail_EmailRequerido(t *testing.T) {
	uc := buildOrderUC(newFakeOrderRepo(), newFakeProductRepo(), &fakeNotifier{})
	_, err := uc.ListByCustomerEmail("   ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestListByCustomerEmail_CaseInsensitive(t *testing.T) {
	orders := newFakeOrderRepo()
	products := newFakeProductRepo(testProduct("p1", "Silla"))
	uc := buildOrderUC(orders, products, &fakeNotifier{})

	_, err := uc.Create(validCreateRequest("p1"))
	require.NoError(t, err)

	out, err := uc.ListByCustomerEmail("LAURA@Example.COM")
	require.NoError(t, err)
	assert.Len(t, out, 1)
}

func TestGetByID_ProductoBorrado_UsaNombreFallback(t *testing.T) {
	orders := newFakeOrderRepo()
	products := newFakeProductRepo(testProduct("p1", "Silla"))
	uc := buildOrderUC(orders, products, &fakeNotifier{})

	out, err := uc.Create(validCreateRequest("p1"))
	require.NoError(t, err)

	// El producto desaparece del catálogo después de crearse el pedido.
	require.NoError(t, products.Delete("p1"))

	got, err := uc.GetByID(out.Order.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "producto desconocido", got.Items[0].Product.Name,
		"el snapshot del item sobrevive al borrado del producto")
	assert.Equal(t, "p1", got.Items[0].Product.ID)
}

func TestList_FechaInvalida(t *testing.T) {
	uc := buildOrderUC(newFakeOrderRepo(), newFakeProductRepo(), &fakeNotifier{})
	_, err := uc.List(dto.OrderListQuery{From: "29-11-2023"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDelete_NoEncontrado(t *testing.T) {
	uc := buildOrderUC(newFakeOrderRepo(), newFakeProductRepo(), &fakeNotifier{})
	err := uc.Delete("no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
