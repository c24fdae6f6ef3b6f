package usecase_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wcastillo/catalogo-api/internal/application/dto"
	"github.com/wcastillo/catalogo-api/internal/application/usecase"
	"github.com/wcastillo/catalogo-api/internal/domain"
	"github.com/wcastillo/catalogo-api/internal/domain/entity"
)

// fakeImageStore simula el host externo de imágenes: registra uploads y
// destroys para verificar la orquestación.
type fakeImageStore struct {
	uploads   int
	destroyed []string
}

func (s *fakeImageStore) Upload(_ context.Context, _ io.Reader, filename string) (entity.Image, error) {
	s.uploads++
	return entity.Image{URL: "https://img.test/" + filename, PublicID: "folder/" + filename}, nil
}

func (s *fakeImageStore) Destroy(_ context.Context, publicID string) error {
	s.destroyed = append(s.destroyed, publicID)
	return nil
}

func buildProductUC(repo *fakeProductRepo, images *fakeImageStore) *usecase.ProductUseCase {
	return usecase.NewProductUseCase(repo, images)
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestProductCreate_CamposObligatorios(t *testing.T) {
	uc := buildProductUC(newFakeProductRepo(), &fakeImageStore{})

	_, err := uc.Create(context.Background(), dto.CreateProductRequest{Name: "Silla"}, nil, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "category es obligatoria")

	_, err = uc.Create(context.Background(), dto.CreateProductRequest{
		Name:     "Silla",
		Category: "escritorio",
		Variants: []entity.Variant{{Size: "M"}}, // sin model
	}, nil, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cada variante requiere model")
}

func TestProductCreate_NaceActivoYSinImagen(t *testing.T) {
	repo := newFakeProductRepo()
	images := &fakeImageStore{}
	uc := buildProductUC(repo, images)

	out, err := uc.Create(context.Background(), dto.CreateProductRequest{
		Name:     "Silla ergonómica",
		Category: "escritorio",
		Variants: []entity.Variant{{Model: "M-01", Size: "estándar"}},
	}, nil, "")
	require.NoError(t, err)

	assert.True(t, out.Active, "los productos nacen activos")
	assert.Empty(t, out.Image.URL, "sin archivo no hay upload")
	assert.Equal(t, 0, images.uploads)
	assert.NotEmpty(t, out.ID)
}

func TestProductCreate_ConImagen(t *testing.T) {
	repo := newFakeProductRepo()
	images := &fakeImageStore{}
	uc := buildProductUC(repo, images)

	out, err := uc.Create(context.Background(), dto.CreateProductRequest{
		Name:     "Silla",
		Category: "escritorio",
	}, strings.NewReader("bytes-de-imagen"), "silla.jpg")
	require.NoError(t, err)

	assert.Equal(t, 1, images.uploads)
	assert.Equal(t, "folder/silla.jpg", out.Image.PublicID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Update / UpdateStatus
// ──────────────────────────────────────────────────────────────────────────────

func TestProductUpdate_MergeYReemplazoDeImagen(t *testing.T) {
	p := testProduct("p1", "Silla")
	p.Image = entity.Image{URL: "https://img.test/vieja.jpg", PublicID: "folder/vieja.jpg"}
	repo := newFakeProductRepo(p)
	images := &fakeImageStore{}
	uc := buildProductUC(repo, images)

	nombre := "Silla Premium"
	out, err := uc.Update(context.Background(), "p1", dto.UpdateProductRequest{Name: &nombre},
		strings.NewReader("nueva"), "nueva.jpg")
	require.NoError(t, err)

	assert.Equal(t, "Silla Premium", out.Name)
	assert.Equal(t, "escritorio", out.Category, "campos ausentes no se tocan")
	assert.Equal(t, []string{"folder/vieja.jpg"}, images.destroyed,
		"la imagen anterior se destruye antes del reemplazo")
	assert.Equal(t, "folder/nueva.jpg", out.Image.PublicID)
}

func TestProductUpdate_NoEncontrado(t *testing.T) {
	uc := buildProductUC(newFakeProductRepo(), &fakeImageStore{})
	nombre := "X"
	_, err := uc.Update(context.Background(), "no-existe", dto.UpdateProductRequest{Name: &nombre}, nil, "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductUpdateStatus_Desactiva(t *testing.T) {
	repo := newFakeProductRepo(testProduct("p1", "Silla"))
	uc := buildProductUC(repo, &fakeImageStore{})

	out, err := uc.UpdateStatus("p1", false)
	require.NoError(t, err)
	assert.False(t, out.Active)
	assert.False(t, repo.products["p1"].Active)
}

// ──────────────────────────────────────────────────────────────────────────────
// List / Delete
// ──────────────────────────────────────────────────────────────────────────────

func TestProductList_PorDefectoSoloActivos(t *testing.T) {
	activo := testProduct("p1", "Silla")
	inactivo := testProduct("p2", "Mesa retirada")
	inactivo.Active = false
	repo := newFakeProductRepo(activo, inactivo)
	uc := buildProductUC(repo, &fakeImageStore{})

	out, err := uc.List("", "", nil)
	require.NoError(t, err)
	require.Len(t, out, 1, "sin filtro explícito solo se muestran los activos")
	assert.Equal(t, "p1", out[0].ID)

	inactivos := false
	out, err = uc.List("", "", &inactivos)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "p2", out[0].ID, "el panel puede pedir los inactivos")
}

func TestProductDelete_DestruyeImagen(t *testing.T) {
	p := testProduct("p1", "Silla")
	p.Image = entity.Image{URL: "https://img.test/a.jpg", PublicID: "folder/a.jpg"}
	repo := newFakeProductRepo(p)
	images := &fakeImageStore{}
	uc := buildProductUC(repo, images)

	require.NoError(t, uc.Delete(context.Background(), "p1"))
	assert.Equal(t, []string{"folder/a.jpg"}, images.destroyed)
	assert.Empty(t, repo.products)
}
