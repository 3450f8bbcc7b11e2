package memory

import (
	"context"
	"sync"
	"time"

	"github.com/abdesslemchebili/rebornBackend/internal/domain/user"
)

type UserRepository struct {
	s *Store
}

func NewUserRepository(s *Store) *UserRepository {
	return &UserRepository{s: s}
}

func (r *UserRepository) Create(_ context.Context, u *user.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.d.users {
		if existing.Email == u.Email {
			return user.ErrDuplicateEmail
		}
	}
	r.s.d.users[u.ID] = *u
	return nil
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.d.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return &u, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	email = user.NormalizeEmail(email)
	for _, u := range r.s.d.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, user.ErrNotFound
}

func (r *UserRepository) List(_ context.Context, f user.ListFilter) ([]*user.User, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*user.User
	for _, u := range r.s.d.users {
		if (f.Role != "" && u.Role != f.Role) || (f.IsActive != nil && u.IsActive != *f.IsActive) {
			continue
		}
		out = append(out, &u)
	}
	sortBy(out, func(a, b *user.User) bool { return a.CreatedAt.After(b.CreatedAt) })
	return paginate(out, f.Limit, f.Offset), len(out), nil
}

func (r *UserRepository) Update(_ context.Context, u *user.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.d.users[u.ID]; !ok {
		return user.ErrNotFound
	}
	for id, other := range r.s.d.users {
		if id != u.ID && other.Email == u.Email {
			return user.ErrDuplicateEmail
		}
	}
	updated := *u
	updated.UpdatedAt = time.Now().UTC()
	r.s.d.users[u.ID] = updated
	return nil
}

func (r *UserRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.d.users[id]; !ok {
		return user.ErrNotFound
	}
	delete(r.s.d.users, id)
	return nil
}

// TokenStore é um user.RefreshTokenStore em memória com expiração
type TokenStore struct {
	mu     sync.Mutex
	tokens map[string]tokenEntry
	now    func() time.Time
}

type tokenEntry struct {
	userID    string
	expiresAt time.Time
}

func NewTokenStore() *TokenStore {
	return &TokenStore{tokens: map[string]tokenEntry{}, now: time.Now}
}

func (t *TokenStore) Save(_ context.Context, token, userID string, ttl time.Duration) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.tokens[token] = tokenEntry{userID: userID, expiresAt: t.now().Add(ttl)}
	return nil
}

func (t *TokenStore) Consume(_ context.Context, token string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.tokens[token]
	delete(t.tokens, token)
	if !ok || !t.now().Before(e.expiresAt) {
		return "", user.ErrTokenNotFound
	}
	return e.userID, nil
}

func (t *TokenStore) Revoke(_ context.Context, token string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.tokens, token)
	return nil
}
