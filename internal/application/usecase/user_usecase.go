package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wcastillo/catalogo-api/internal/application/dto"
	"github.com/wcastillo/catalogo-api/internal/domain"
	"github.com/wcastillo/catalogo-api/internal/domain/entity"
	"github.com/wcastillo/catalogo-api/internal/domain/repository"
	"golang.org/x/crypto/bcrypt"
)

// UserUseCase gestión de cuentas administrativas con las reglas del
// super-admin: su cuenta no se elimina nunca, solo él se edita a sí mismo,
// y solo él crea cuentas o cambia roles. La identidad del super-admin llega
// por configuración (no hay email literal en los chequeos).
type UserUseCase struct {
	repo       repository.UserRepository
	superEmail string
}

// NewUserUseCase construye el caso de uso. superEmail ya viene normalizado
// desde config (minúsculas, sin espacios).
func NewUserUseCase(repo repository.UserRepository, superEmail string) *UserUseCase {
	return &UserUseCase{repo: repo, superEmail: superEmail}
}

// IsSuper indica si el email pertenece al super-admin.
func (uc *UserUseCase) IsSuper(email string) bool {
	return uc.superEmail != "" && NormalizeEmail(email) == uc.superEmail
}

// List lista todas las cuentas (sin hash de password).
func (uc *UserUseCase) List() ([]dto.UserResponse, error) {
	users, err := uc.repo.List()
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, *toUserResponse(u))
	}
	return out, nil
}

// Create crea una cuenta nueva. Solo el super-admin puede hacerlo.
func (uc *UserUseCase) Create(requesterEmail string, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	if !uc.IsSuper(requesterEmail) {
		return nil, fmt.Errorf("%w: solo el super-admin puede crear usuarios", domain.ErrForbidden)
	}
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Email) == "" || in.Password == "" || in.Role == "" {
		return nil, fmt.Errorf("%w: name, email, password y role son obligatorios", domain.ErrInvalidInput)
	}
	email := NormalizeEmail(in.Email)
	existing, err := uc.repo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Name:         in.Name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         in.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// Update edita una cuenta:
//   - al super-admin solo puede editarlo él mismo;
//   - un admin normal solo puede editarse a sí mismo;
//   - el cambio de rol lo aplica únicamente el super-admin.
func (uc *UserUseCase) Update(requesterID, requesterEmail, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	requesterIsSuper := uc.IsSuper(requesterEmail)
	if uc.IsSuper(user.Email) && !requesterIsSuper {
		return nil, fmt.Errorf("%w: no tienes permiso para editar al super-admin", domain.ErrForbidden)
	}
	if !requesterIsSuper && requesterID != user.ID {
		return nil, fmt.Errorf("%w: solo puedes editar tu propia cuenta", domain.ErrForbidden)
	}

	if in.Name != nil && strings.TrimSpace(*in.Name) != "" {
		user.Name = *in.Name
	}
	if in.Email != nil && strings.TrimSpace(*in.Email) != "" {
		user.Email = NormalizeEmail(*in.Email)
	}
	if in.Role != nil && requesterIsSuper {
		user.Role = *in.Role
	}
	if in.Password != nil && *in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	user.UpdatedAt = time.Now()

	if err := uc.repo.Update(user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// Delete elimina una cuenta. La cuenta del super-admin no se elimina nunca
// (ni siquiera él mismo); solo el super-admin elimina a otros.
func (uc *UserUseCase) Delete(requesterEmail, id string) error {
	user, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	if uc.IsSuper(user.Email) {
		return fmt.Errorf("%w: no se puede eliminar al super-admin", domain.ErrForbidden)
	}
	if !uc.IsSuper(requesterEmail) {
		return fmt.Errorf("%w: solo el super-admin puede eliminar usuarios", domain.ErrForbidden)
	}
	return uc.repo.Delete(id)
}

// NormalizeEmail lleva un email a su forma canónica (minúsculas, sin espacios).
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
