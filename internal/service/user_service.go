package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/repository"
)

// DTOs for Request validation
type CreateUserRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"required"`
}

type UpdateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email" binding:"omitempty,email"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
}

type LoginUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// DTO for returning User without exposing sensitive data (e.g. password)
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserService defines the interface for business logic related to User
type UserService interface {
	CreateUser(ctx context.Context, actorID string, req CreateUserRequest) (*UserResponse, error)
	Login(ctx context.Context, req LoginUserRequest) (*TokenResponse, *UserResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	GetUserByID(ctx context.Context, id string) (*UserResponse, error)
	ListUsers(ctx context.Context, page, limit int) ([]UserResponse, int64, error)
	UpdateUser(ctx context.Context, actorID string, id string, req UpdateUserRequest) (*UserResponse, error)
	DeleteUser(ctx context.Context, actorID string, id string) error
}

type userService struct {
	repo      repository.UserRepository
	auditRepo repository.AuditRepository
	txManager repository.TransactionManager
}

// NewUserService returns a new instance of UserService
func NewUserService(
	repo repository.UserRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) UserService {
	return &userService{repo: repo, auditRepo: auditRepo, txManager: txManager}
}

// Helper: parse model to standard json API response
func mapToResponse(user *model.User) *UserResponse {
	return &UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Phone:     user.Phone,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

func (s *userService) CreateUser(ctx context.Context, actorID string, req CreateUserRequest) (*UserResponse, error) {
	if !model.ValidRole(req.Role) {
		return nil, validationErrorf("invalid role")
	}

	// Hash password automatically
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, validationErrorf("failed to hash password")
	}

	now := time.Now()
	user := &model.User{
		ID:        uuid.New(),
		Username:  req.Username,
		Email:     req.Email,
		Phone:     req.Phone,
		Password:  string(hashedPassword),
		Role:      req.Role,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if _, findErr := s.repo.GetByUsername(txCtx, req.Username); findErr == nil {
			return validationErrorf("username already exists")
		}
		if _, findErr := s.repo.GetByEmail(txCtx, req.Email); findErr == nil {
			return validationErrorf("email already exists")
		}
		if createErr := s.repo.Create(txCtx, user); createErr != nil {
			return createErr
		}
		return writeAudit(txCtx, s.auditRepo, actorID, model.ActionCreateUser, user.ID.String(), user.Username, map[string]string{"role": req.Role})
	})
	if err != nil {
		return nil, err
	}
	return mapToResponse(user), nil
}

func (s *userService) Login(ctx context.Context, req LoginUserRequest) (*TokenResponse, *UserResponse, error) {
	user, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, nil, validationErrorf("invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, nil, validationErrorf("invalid email or password")
	}

	accessToken, err := signAccessToken(user)
	if err != nil {
		return nil, nil, err
	}

	refresh := &model.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		Token:     randomToken(),
		ExpiresAt: time.Now().Add(7 * 24 * time.Hour),
		CreatedAt: time.Now(),
	}
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		return s.repo.SaveRefreshToken(txCtx, refresh)
	})
	if err != nil {
		return nil, nil, err
	}

	tokens := &TokenResponse{AccessToken: accessToken, RefreshToken: refresh.Token}
	return tokens, mapToResponse(user), nil
}

// Refresh rotates the refresh token and issues a new access token.
func (s *userService) Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	stored, err := s.repo.GetRefreshToken(ctx, refreshToken)
	if err != nil || time.Now().After(stored.ExpiresAt) {
		return nil, validationErrorf("invalid or expired refresh token")
	}

	user, err := s.repo.GetByID(ctx, stored.UserID)
	if err != nil {
		return nil, validationErrorf("invalid refresh token")
	}

	accessToken, err := signAccessToken(user)
	if err != nil {
		return nil, err
	}

	next := &model.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		Token:     randomToken(),
		ExpiresAt: time.Now().Add(7 * 24 * time.Hour),
		CreatedAt: time.Now(),
	}
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if delErr := s.repo.DeleteRefreshToken(txCtx, refreshToken); delErr != nil {
			return delErr
		}
		return s.repo.SaveRefreshToken(txCtx, next)
	})
	if err != nil {
		return nil, err
	}

	return &TokenResponse{AccessToken: accessToken, RefreshToken: next.Token}, nil
}

func (s *userService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		// A token that is already gone is fine on logout.
		_ = s.repo.DeleteRefreshToken(txCtx, refreshToken)
		return nil
	})
}

func (s *userService) GetUserByID(ctx context.Context, id string) (*UserResponse, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return nil, validationErrorf("invalid user id")
	}
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return mapToResponse(user), nil
}

func (s *userService) ListUsers(ctx context.Context, page, limit int) ([]UserResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}

	users, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, *mapToResponse(&users[i]))
	}
	return responses, total, nil
}

func (s *userService) UpdateUser(ctx context.Context, actorID string, id string, req UpdateUserRequest) (*UserResponse, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return nil, validationErrorf("invalid user id")
	}
	if req.Role != "" && !model.ValidRole(req.Role) {
		return nil, validationErrorf("invalid role")
	}

	var updated *model.User
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		user, findErr := s.repo.GetByID(txCtx, userID)
		if findErr != nil {
			return findErr
		}

		if req.Role != "" {
			user.Role = req.Role
		}
		if req.Username != "" && req.Username != user.Username {
			if _, dupErr := s.repo.GetByUsername(txCtx, req.Username); dupErr == nil {
				return validationErrorf("username already exists")
			}
			user.Username = req.Username
		}
		if req.Email != "" && req.Email != user.Email {
			if _, dupErr := s.repo.GetByEmail(txCtx, req.Email); dupErr == nil {
				return validationErrorf("email already exists")
			}
			user.Email = req.Email
		}
		if req.Phone != "" {
			user.Phone = req.Phone
		}
		user.UpdatedAt = time.Now()

		if saveErr := s.repo.Update(txCtx, user); saveErr != nil {
			return saveErr
		}
		updated = user
		return writeAudit(txCtx, s.auditRepo, actorID, model.ActionUpdateUser, user.ID.String(), user.Username, req)
	})
	if err != nil {
		return nil, err
	}
	return mapToResponse(updated), nil
}

func (s *userService) DeleteUser(ctx context.Context, actorID string, id string) error {
	userID, err := uuid.Parse(id)
	if err != nil {
		return validationErrorf("invalid user id")
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		user, findErr := s.repo.GetByID(txCtx, userID)
		if findErr != nil {
			return findErr
		}
		if delErr := s.repo.Delete(txCtx, userID); delErr != nil {
			return delErr
		}
		return writeAudit(txCtx, s.auditRepo, actorID, model.ActionDeleteUser, id, user.Username, map[string]any{"deleted": true})
	})
}

func signAccessToken(user *model.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  user.ID.String(),
		"role": user.Role,
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
	})
	signed, err := token.SignedString(middleware.GetJWTSecret())
	if err != nil {
		return "", validationErrorf("failed to generate token")
	}
	return signed, nil
}

func randomToken() string {
	buf := make([]byte, 32)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}
