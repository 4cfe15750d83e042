package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/store"
)

func newUserService(t *testing.T) UserService {
	t.Helper()
	st := store.New()
	txManager := repository.NewTransactionManager(st)
	return NewUserService(repository.NewUserRepository(st), repository.NewAuditRepository(st), txManager)
}

func createTestUser(t *testing.T, svc UserService, email, role string) *UserResponse {
	t.Helper()
	user, err := svc.CreateUser(context.Background(), "admin", CreateUserRequest{
		Username: email,
		Email:    email,
		Password: "secret123",
		Role:     role,
	})
	require.NoError(t, err)
	return user
}

func TestCreateUserRejectsUnknownRole(t *testing.T) {
	svc := newUserService(t)

	_, err := svc.CreateUser(context.Background(), "admin", CreateUserRequest{
		Username: "bob",
		Email:    "bob@example.com",
		Password: "secret123",
		Role:     "superuser",
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestCreateUserRejectsDuplicateEmail(t *testing.T) {
	svc := newUserService(t)
	createTestUser(t, svc, "dup@example.com", model.RoleAdministrator)

	_, err := svc.CreateUser(context.Background(), "admin", CreateUserRequest{
		Username: "other",
		Email:    "dup@example.com",
		Password: "secret123",
		Role:     model.RoleAdministrator,
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestLoginReturnsTokens(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()
	created := createTestUser(t, svc, "eng@example.com", "engineer")

	tokens, user, err := svc.Login(ctx, LoginUserRequest{Email: "eng@example.com", Password: "secret123"})
	require.NoError(t, err)
	require.NotEmpty(t, tokens.AccessToken)
	require.NotEmpty(t, tokens.RefreshToken)
	require.Equal(t, created.ID, user.ID)
	require.Equal(t, "engineer", user.Role)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc := newUserService(t)
	createTestUser(t, svc, "eng@example.com", "engineer")

	_, _, err := svc.Login(context.Background(), LoginUserRequest{Email: "eng@example.com", Password: "wrong"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestRefreshRotatesToken(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()
	createTestUser(t, svc, "eng@example.com", "engineer")

	tokens, _, err := svc.Login(ctx, LoginUserRequest{Email: "eng@example.com", Password: "secret123"})
	require.NoError(t, err)

	rotated, err := svc.Refresh(ctx, tokens.RefreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, rotated.AccessToken)
	require.NotEqual(t, tokens.RefreshToken, rotated.RefreshToken)

	// the old token is burned by the rotation
	_, err = svc.Refresh(ctx, tokens.RefreshToken)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestLogoutInvalidatesRefreshToken(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()
	createTestUser(t, svc, "eng@example.com", "engineer")

	tokens, _, err := svc.Login(ctx, LoginUserRequest{Email: "eng@example.com", Password: "secret123"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, tokens.RefreshToken))
	require.NoError(t, svc.Logout(ctx, tokens.RefreshToken)) // second logout is a no-op

	_, err = svc.Refresh(ctx, tokens.RefreshToken)
	require.Error(t, err)
}

func TestUpdateUserChangesRole(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()
	created := createTestUser(t, svc, "worker@example.com", "worker")

	updated, err := svc.UpdateUser(ctx, "admin", created.ID.String(), UpdateUserRequest{Role: "foreman"})
	require.NoError(t, err)
	require.Equal(t, "foreman", updated.Role)

	_, err = svc.UpdateUser(ctx, "admin", created.ID.String(), UpdateUserRequest{Role: "ceo"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestDeleteUser(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()
	created := createTestUser(t, svc, "gone@example.com", "client")

	require.NoError(t, svc.DeleteUser(ctx, "admin", created.ID.String()))

	_, err := svc.GetUserByID(ctx, created.ID.String())
	require.ErrorIs(t, err, store.ErrNotFound)
}
