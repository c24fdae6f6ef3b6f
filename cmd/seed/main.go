// seed aprovisiona la cuenta del super-admin a partir de la configuración.
//
// Uso: ADMIN_SUPER_EMAIL=... ADMIN_SUPER_PASSWORD=... go run ./cmd/seed
// Si la cuenta ya existe no se modifica.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/wcastillo/catalogo-api/internal/domain/entity"
	"github.com/wcastillo/catalogo-api/internal/infrastructure/postgres"
	"github.com/wcastillo/catalogo-api/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	email := cfg.Admin.SuperEmail
	password := os.Getenv("ADMIN_SUPER_PASSWORD")
	name := os.Getenv("ADMIN_SUPER_NAME")
	if name == "" {
		name = "Administrador"
	}
	if email == "" || password == "" {
		fmt.Fprintln(os.Stderr, "ADMIN_SUPER_EMAIL y ADMIN_SUPER_PASSWORD son requeridos")
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Conexión a PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	users := postgres.NewUserRepository(pool)
	existing, err := users.GetByEmail(email)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Consultar usuario: %v\n", err)
		os.Exit(1)
	}
	if existing != nil {
		fmt.Printf("El super-admin %s ya existe, nada que hacer\n", email)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Generar hash: %v\n", err)
		os.Exit(1)
	}

	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         entity.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := users.Create(user); err != nil {
		fmt.Fprintf(os.Stderr, "Crear usuario: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Super-admin %s creado\n", email)
}
