package service_test

import (
	"context"
	"errors"
	"sync"

	"github.com/AlibekovAA/storefront/internal/account/events"
	userdomain "github.com/AlibekovAA/storefront/internal/user/domain"
	userrepo "github.com/AlibekovAA/storefront/internal/user/repository"
)

type mockUserRepo struct {
	findIDByEmailFunc func(ctx context.Context, email string) (userdomain.ID, error)
	findByEmailFunc   func(ctx context.Context, email string) (userdomain.User, error)
	createFunc        func(ctx context.Context, user userdomain.User) (userdomain.User, error)
	updateTokenFunc   func(ctx context.Context, id userdomain.ID, token string) (userdomain.User, error)
	listFunc          func(ctx context.Context) ([]userdomain.User, error)

	createCalls      int
	updateTokenCalls int
}

func (m *mockUserRepo) FindIDByEmail(ctx context.Context, email string) (userdomain.ID, error) {
	if m.findIDByEmailFunc != nil {
		return m.findIDByEmailFunc(ctx, email)
	}
	return "", userrepo.ErrUserNotFound
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (userdomain.User, error) {
	if m.findByEmailFunc != nil {
		return m.findByEmailFunc(ctx, email)
	}
	return userdomain.User{}, userrepo.ErrUserNotFound
}

func (m *mockUserRepo) Create(ctx context.Context, user userdomain.User) (userdomain.User, error) {
	m.createCalls++
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	user.ID = "user-1"
	return user, nil
}

func (m *mockUserRepo) UpdateToken(ctx context.Context, id userdomain.ID, token string) (userdomain.User, error) {
	m.updateTokenCalls++
	if m.updateTokenFunc != nil {
		return m.updateTokenFunc(ctx, id, token)
	}
	return userdomain.User{ID: id, Token: token}, nil
}

func (m *mockUserRepo) List(ctx context.Context) ([]userdomain.User, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

type mockHasher struct {
	hashFunc    func(password string) (string, error)
	compareFunc func(hash, password string) error
}

func (m *mockHasher) Hash(password string) (string, error) {
	if m.hashFunc != nil {
		return m.hashFunc(password)
	}
	return "hashed_" + password, nil
}

func (m *mockHasher) Compare(hash, password string) error {
	if m.compareFunc != nil {
		return m.compareFunc(hash, password)
	}
	if hash != "hashed_"+password {
		return errors.New("mismatch")
	}
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []events.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Type, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}
