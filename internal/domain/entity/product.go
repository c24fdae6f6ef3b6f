package entity

import "time"

// Variant es una presentación de un producto (modelo + medida + material).
// Es un value type sin identidad propia: los pedidos copian la variante
// elegida dentro del item para conservar el histórico aunque el producto
// cambie después.
type Variant struct {
	Model       string `json:"model"`
	Size        string `json:"size,omitempty"`
	Material    string `json:"material,omitempty"`
	Description string `json:"description,omitempty"`
}

// Image referencia a la imagen del producto en el host externo (Cloudinary).
// PublicID permite destruir o reemplazar el asset.
type Image struct {
	URL      string `json:"url,omitempty"`
	PublicID string `json:"public_id,omitempty"`
}

// Product representa un producto del catálogo.
// Active controla la visibilidad pública; los administradores ven todo.
type Product struct {
	ID          string
	Name        string
	Description string
	Category    string
	Type        string
	Image       Image
	Variants    []Variant
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
