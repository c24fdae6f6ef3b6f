package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wcastillo/catalogo-api/internal/application/dto"
	"github.com/wcastillo/catalogo-api/internal/application/usecase"
	"github.com/wcastillo/catalogo-api/internal/domain"
	"github.com/wcastillo/catalogo-api/internal/domain/entity"
	"github.com/wcastillo/catalogo-api/internal/domain/repository"
	"github.com/wcastillo/catalogo-api/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro, login, alta de otro
// admin y edición del propio perfil.
type AuthUseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, jwtCfg: jwtCfg}
}

// Register registra un administrador (alta inicial del panel): hashea el
// password con bcrypt, persiste y devuelve token + usuario.
func (uc *AuthUseCase) Register(in dto.RegisterRequest) (*dto.LoginResponse, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: name, email y password son obligatorios", domain.ErrInvalidInput)
	}
	email := usecase.NormalizeEmail(in.Email)
	existing, err := uc.userRepo.GetByEmail(email)
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
		Role:         entity.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(user); err != nil {
		return nil, err
	}
	token, err := uc.token(user)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token, User: *userResponse(user)}, nil
}

// Login verifica email/password, genera JWT y retorna token + usuario.
func (uc *AuthUseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(usecase.NormalizeEmail(in.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	token, err := uc.token(user)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token, User: *userResponse(user)}, nil
}

// CreateAdmin crea otro administrador (requiere token de admin; la ruta lo
// protege). No devuelve token: la cuenta nueva hace login por su cuenta.
func (uc *AuthUseCase) CreateAdmin(in dto.RegisterRequest) (*dto.UserResponse, error) {
	out, err := uc.Register(in)
	if err != nil {
		return nil, err
	}
	return &out.User, nil
}

// UpdateProfile edita el perfil del administrador autenticado (merge).
func (uc *AuthUseCase) UpdateProfile(userID string, in dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) != "" {
		user.Name = *in.Name
	}
	if in.Email != nil && strings.TrimSpace(*in.Email) != "" {
		user.Email = usecase.NormalizeEmail(*in.Email)
	}
	if in.Password != nil && *in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	user.UpdatedAt = time.Now()
	if err := uc.userRepo.Update(user); err != nil {
		return nil, err
	}
	return userResponse(user), nil
}

func (uc *AuthUseCase) token(user *entity.User) (string, error) {
	return jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Email, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
}

func userResponse(u *entity.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
