package usecase

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wcastillo/catalogo-api/internal/application/dto"
	"github.com/wcastillo/catalogo-api/internal/domain"
	"github.com/wcastillo/catalogo-api/internal/domain/entity"
	"github.com/wcastillo/catalogo-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para el catálogo de productos.
// La imagen vive en un host externo: crear/editar/eliminar orquestan el
// upload/replace/destroy contra ImageStore antes de tocar la DB.
type ProductUseCase struct {
	repo   repository.ProductRepository
	images ImageStore
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, images ImageStore) *ProductUseCase {
	return &ProductUseCase{repo: repo, images: images}
}

// Create crea un producto; file es opcional (nil = sin imagen).
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest, file io.Reader, filename string) (*dto.ProductResponse, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Category) == "" {
		return nil, fmt.Errorf("%w: name y category son obligatorios", domain.ErrInvalidInput)
	}
	for _, v := range in.Variants {
		if strings.TrimSpace(v.Model) == "" {
			return nil, fmt.Errorf("%w: cada variante requiere model", domain.ErrInvalidInput)
		}
	}

	var img entity.Image
	if file != nil {
		uploaded, err := uc.images.Upload(ctx, file, filename)
		if err != nil {
			return nil, fmt.Errorf("subir imagen: %w", err)
		}
		img = uploaded
	}

	now := time.Now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
		Type:        in.Type,
		Image:       img,
		Variants:    in.Variants,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// Update edita un producto con semántica merge: campos ausentes no se tocan.
// Si llega imagen nueva se destruye primero el asset anterior.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest, file io.Reader, filename string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	if file != nil {
		if product.Image.PublicID != "" {
			if err := uc.images.Destroy(ctx, product.Image.PublicID); err != nil {
				return nil, fmt.Errorf("destruir imagen anterior: %w", err)
			}
		}
		uploaded, err := uc.images.Upload(ctx, file, filename)
		if err != nil {
			return nil, fmt.Errorf("subir imagen: %w", err)
		}
		product.Image = uploaded
	}

	if in.Name != nil && strings.TrimSpace(*in.Name) != "" {
		product.Name = *in.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Category != nil && strings.TrimSpace(*in.Category) != "" {
		product.Category = *in.Category
	}
	if in.Type != nil {
		product.Type = *in.Type
	}
	if len(in.Variants) > 0 {
		for _, v := range in.Variants {
			if strings.TrimSpace(v.Model) == "" {
				return nil, fmt.Errorf("%w: cada variante requiere model", domain.ErrInvalidInput)
			}
		}
		product.Variants = in.Variants
	}
	product.UpdatedAt = time.Now()

	if err := uc.repo.Update(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// UpdateStatus activa o desactiva el producto (visibilidad pública).
func (uc *ProductUseCase) UpdateStatus(id string, active bool) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.repo.UpdateActive(id, active); err != nil {
		return nil, err
	}
	product.Active = active
	product.UpdatedAt = time.Now()
	return toProductResponse(product), nil
}

// List lista productos. Sin filtro explícito de active solo se muestran los
// activos (comportamiento público); el panel puede pedir active=false.
func (uc *ProductUseCase) List(category, typ string, active *bool) ([]dto.ProductResponse, error) {
	if active == nil {
		t := true
		active = &t
	}
	list, err := uc.repo.List(repository.ProductFilter{
		Category: category,
		Type:     typ,
		Active:   active,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return items, nil
}

// Delete elimina el producto y destruye su imagen en el host externo.
// Los pedidos existentes que lo referencian no se tocan (sin cascada).
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	if product.Image.PublicID != "" {
		if err := uc.images.Destroy(ctx, product.Image.PublicID); err != nil {
			return fmt.Errorf("destruir imagen: %w", err)
		}
	}
	return uc.repo.Delete(id)
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	variants := p.Variants
	if variants == nil {
		variants = []entity.Variant{}
	}
	return &dto.ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Type:        p.Type,
		Image:       p.Image,
		Variants:    variants,
		Active:      p.Active,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
