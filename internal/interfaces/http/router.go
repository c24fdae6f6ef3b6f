package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/wcastillo/catalogo-api/internal/application/auth"
	"github.com/wcastillo/catalogo-api/internal/application/usecase"
	"github.com/wcastillo/catalogo-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	ProductUC  *usecase.ProductUseCase
	OrderUC    *usecase.OrderUseCase
	UserUC     *usecase.UserUseCase
	EmailLogUC *usecase.EmailLogUseCase
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	authRequired := AuthMiddleware(deps.JWTSecret)
	adminOnly := RequireRole(entity.RoleAdmin)

	// Auth: registro y login públicos, el resto requiere token.
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/admins", authRequired, adminOnly, authHandler.CreateAdmin)
	authGroup.Put("/profile", authRequired, adminOnly, authHandler.UpdateProfile)

	// Products: lectura pública, escritura protegida.
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.Get)
	products.Post("/", authRequired, adminOnly, productHandler.Create)
	products.Put("/:id", authRequired, adminOnly, productHandler.Update)
	products.Patch("/:id/status", authRequired, adminOnly, productHandler.UpdateStatus)
	products.Delete("/:id", authRequired, adminOnly, productHandler.Delete)

	// Orders: clientes crean y consultan por código/email sin sesión.
	orders := api.Group("/orders")
	orderHandler := NewOrderHandler(deps.OrderUC)
	orders.Post("/", orderHandler.Create)
	orders.Get("/public", orderHandler.ListPublic)
	orders.Put("/public/:code", orderHandler.UpdatePublic)
	orders.Get("/", authRequired, adminOnly, orderHandler.List)
	orders.Get("/:id", authRequired, adminOnly, orderHandler.Get)
	orders.Put("/:id", authRequired, adminOnly, orderHandler.Update)
	orders.Delete("/:id", authRequired, adminOnly, orderHandler.Delete)

	// Users (protegido)
	users := api.Group("/users", authRequired, adminOnly)
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Delete)

	// Email logs (protegido)
	emailLogs := api.Group("/email-logs", authRequired, adminOnly)
	emailLogHandler := NewEmailLogHandler(deps.EmailLogUC)
	emailLogs.Get("/", emailLogHandler.List)
}
