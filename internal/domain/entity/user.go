package entity

import "time"

// Roles válidos para User. El conjunto hoy es efectivamente "admin";
// se mantiene como string para no romper tokens si se amplía.
const (
	RoleAdmin = "admin"
)

// User representa una cuenta administrativa del panel.
// El super-admin se identifica por email configurado (config.Admin), no por
// un literal en el código.
type User struct {
	ID           string
	Name         string
	Email        string // normalizado: minúsculas y sin espacios
	PasswordHash string // bcrypt, nunca texto plano después de persistir
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
