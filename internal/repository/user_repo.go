package repository

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"backend/internal/model"
	"backend/internal/store"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context, page, limit int) ([]model.User, int64, error)
	SaveRefreshToken(ctx context.Context, token *model.RefreshToken) error
	GetRefreshToken(ctx context.Context, token string) (*model.RefreshToken, error)
	DeleteRefreshToken(ctx context.Context, token string) error
}

type userRepository struct {
	store *store.Store
}

func NewUserRepository(s *store.Store) UserRepository {
	return &userRepository{store: s}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	tx, err := store.RequireTx(ctx)
	if err != nil {
		return err
	}
	copied := *user
	tx.State().Users[user.ID] = &copied
	return nil
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	tx, err := store.RequireTx(ctx)
	if err != nil {
		return err
	}
	if _, ok := tx.State().Users[user.ID]; !ok {
		return store.ErrNotFound
	}
	copied := *user
	tx.State().Users[user.ID] = &copied
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := store.RequireTx(ctx)
	if err != nil {
		return err
	}
	if _, ok := tx.State().Users[id]; !ok {
		return store.ErrNotFound
	}
	delete(tx.State().Users, id)
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := stateFrom(ctx, r.store).Users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	for _, u := range stateFrom(ctx, r.store).Users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, store.ErrNotFound
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range stateFrom(ctx, r.store).Users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, store.ErrNotFound
}

func (r *userRepository) List(ctx context.Context, page, limit int) ([]model.User, int64, error) {
	st := stateFrom(ctx, r.store)
	users := make([]model.User, 0, len(st.Users))
	for _, u := range st.Users {
		users = append(users, *u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })

	total := int64(len(users))
	lo, hi := pageBounds(len(users), page, limit)
	return users[lo:hi], total, nil
}

func (r *userRepository) SaveRefreshToken(ctx context.Context, token *model.RefreshToken) error {
	tx, err := store.RequireTx(ctx)
	if err != nil {
		return err
	}
	copied := *token
	tx.State().RefreshTokens[token.Token] = &copied
	return nil
}

func (r *userRepository) GetRefreshToken(ctx context.Context, token string) (*model.RefreshToken, error) {
	t, ok := stateFrom(ctx, r.store).RefreshTokens[token]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := *t
	return &copied, nil
}

func (r *userRepository) DeleteRefreshToken(ctx context.Context, token string) error {
	tx, err := store.RequireTx(ctx)
	if err != nil {
		return err
	}
	delete(tx.State().RefreshTokens, token)
	return nil
}
