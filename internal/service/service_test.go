package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/user-auth-service/internal/config"
	"github.com/iliyamo/user-auth-service/internal/model"
	"github.com/iliyamo/user-auth-service/internal/queue"
	"github.com/iliyamo/user-auth-service/internal/repository"
)

// memStore is an in-memory credential store implementing both
// UserStore and TokenStore. It mirrors the repository contracts,
// including the sentinel errors and the atomicity of Create and
// Rotate, so service tests exercise the real orchestration logic.
type memStore struct {
	mu     sync.Mutex
	users  map[string]model.User         // by id
	emails map[string]string             // email -> id
	tokens map[string]model.RefreshToken // by id

	failTokenCreate bool // force refresh-token inserts to fail
}

func newMemStore() *memStore {
	return &memStore{
		users:  make(map[string]model.User),
		emails: make(map[string]string),
		tokens: make(map[string]model.RefreshToken),
	}
}

func (m *memStore) Create(_ context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.emails[u.Email]; exists {
		return repository.ErrEmailExists
	}
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	m.users[u.ID] = *u
	m.emails[u.Email] = u.ID
	return nil
}

func (m *memStore) GetByEmail(_ context.Context, email string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.emails[email]
	if !ok {
		return model.User{}, repository.ErrUserNotFound
	}
	return m.users[id], nil
}

func (m *memStore) GetByID(_ context.Context, id string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return model.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

func (m *memStore) TouchLastLogin(_ context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.LastLogin = &at
	m.users[id] = u
	return nil
}

func (m *memStore) UpdateProfile(_ context.Context, id, firstName, lastName, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	if owner, exists := m.emails[email]; exists && owner != id {
		return repository.ErrEmailExists
	}
	delete(m.emails, u.Email)
	u.FirstName, u.LastName, u.Email = firstName, lastName, email
	m.users[id] = u
	m.emails[email] = id
	return nil
}

func (m *memStore) UpdatePassword(_ context.Context, id, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	m.users[id] = u
	return nil
}

func (m *memStore) CreateToken(_ context.Context, t *model.RefreshToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failTokenCreate {
		return errors.New("insert failed")
	}
	m.tokens[t.ID] = *t
	return nil
}

func (m *memStore) FindUsableWithUser(_ context.Context, id string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tokens[id]
	if !ok || !t.Usable(time.Now().UTC()) {
		return model.User{}, repository.ErrTokenNotFound
	}
	return m.users[t.UserID], nil
}

func (m *memStore) Rotate(_ context.Context, oldID string, next *model.RefreshToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.tokens[oldID]
	if !ok || !old.Usable(time.Now().UTC()) {
		return repository.ErrTokenNotFound
	}
	if m.failTokenCreate {
		return errors.New("insert failed") // rollback: old stays usable
	}
	old.Revoked = true
	m.tokens[oldID] = old
	m.tokens[next.ID] = *next
	return nil
}

func (m *memStore) Revoke(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.tokens[id]; ok {
		t.Revoked = true
		m.tokens[id] = t
	}
	return nil
}

// tokenStoreAdapter exposes memStore's token methods under the
// TokenStore method set (Create collides with UserStore.Create).
type tokenStoreAdapter struct{ *memStore }

func (a tokenStoreAdapter) Create(ctx context.Context, t *model.RefreshToken) error {
	return a.CreateToken(ctx, t)
}

func testConfig() config.Config {
	return config.Config{
		Env:            "test",
		JWTSecret:      "test-secret",
		AccessTTLMin:   15,
		RefreshTTLDays: 7,
		BcryptCost:     bcrypt.MinCost,
	}
}

// newTestServices wires both services against one memStore with
// the event sink stubbed out.
func newTestServices(store *memStore) (*AuthService, *UserService) {
	cfg := testConfig()
	log := zap.NewNop()
	auth := NewAuthService(store, tokenStoreAdapter{store}, cfg, log)
	auth.Events = func(queue.AuthEvent) {}
	users := NewUserService(store, auth, cfg, log)
	users.Events = func(queue.AuthEvent) {}
	return auth, users
}
