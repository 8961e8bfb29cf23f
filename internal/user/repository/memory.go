package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	commoncrypto "github.com/AlibekovAA/storefront/internal/common/crypto"
	"github.com/AlibekovAA/storefront/internal/user/domain"
)

// MemoryRepository keeps users in process memory. Email uniqueness is checked
// and the row inserted under one lock, matching the Postgres unique index.
type MemoryRepository struct {
	mu      sync.RWMutex
	byID    map[domain.ID]domain.User
	byEmail map[string]domain.ID
	ids     commoncrypto.IDGenerator
	now     func() time.Time
}

func NewMemoryRepository(ids commoncrypto.IDGenerator) *MemoryRepository {
	return &MemoryRepository{
		byID:    make(map[domain.ID]domain.User),
		byEmail: make(map[string]domain.ID),
		ids:     ids,
		now:     time.Now,
	}
}

func (r *MemoryRepository) FindIDByEmail(ctx context.Context, email string) (domain.ID, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return "", ErrUserNotFound
	}
	return id, nil
}

func (r *MemoryRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	if err := ctx.Err(); err != nil {
		return domain.User{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return domain.User{}, ErrUserNotFound
	}
	return r.byID[id], nil
}

func (r *MemoryRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	if err := ctx.Err(); err != nil {
		return domain.User{}, err
	}
	id, err := r.ids.NewID()
	if err != nil {
		return domain.User{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[user.Email]; exists {
		return domain.User{}, ErrEmailAlreadyExists
	}

	now := r.now()
	user.ID = domain.ID(id)
	user.CreatedAt = now
	user.UpdatedAt = now
	r.byID[user.ID] = user
	r.byEmail[user.Email] = user.ID
	return user, nil
}

func (r *MemoryRepository) UpdateToken(ctx context.Context, id domain.ID, token string) (domain.User, error) {
	if err := ctx.Err(); err != nil {
		return domain.User{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[id]
	if !ok {
		return domain.User{}, ErrUserNotFound
	}
	user.Token = token
	user.UpdatedAt = r.now()
	r.byID[id] = user
	return user, nil
}

func (r *MemoryRepository) List(ctx context.Context) ([]domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	users := make([]domain.User, 0, len(r.byID))
	for _, u := range r.byID {
		users = append(users, u)
	}
	r.mu.RUnlock()

	sort.Slice(users, func(i, j int) bool {
		if users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].ID < users[j].ID
		}
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
	return users, nil
}
