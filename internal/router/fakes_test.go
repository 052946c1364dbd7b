package router

import (
	"context"
	"sort"
	"sync"

	"gorm.io/gorm"

	"gatewaysandbox/internal/model"
	"gatewaysandbox/internal/repository"
)

// memUsers is an in-memory repository.UserRepository.
type memUsers struct {
	mu    sync.Mutex
	users map[uint]model.User
	next  uint
}

func newMemUsers() *memUsers {
	return &memUsers{users: make(map[uint]model.User)}
}

func (m *memUsers) Create(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	user.ID = m.next
	m.users[user.ID] = *user
	return nil
}

func (m *memUsers) Update(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = *user
	return nil
}

func (m *memUsers) FindByID(_ context.Context, id uint) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memUsers) ListNonAdmin(_ context.Context) ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.User
	for _, u := range m.users {
		if u.UserType != model.RoleAdmin {
			u.Password = ""
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// memListings is an in-memory repository.ListingRepository.
type memListings struct {
	mu   sync.Mutex
	rows map[uint]model.Listing
	next uint
}

func newMemListings() *memListings {
	return &memListings{rows: make(map[uint]model.Listing)}
}

func (m *memListings) Create(_ context.Context, l *model.Listing) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	l.ID = m.next
	m.rows[l.ID] = *l
	return nil
}

func (m *memListings) Save(_ context.Context, l *model.Listing) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[l.ID] = *l
	return nil
}

func (m *memListings) Delete(_ context.Context, l *model.Listing) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, l.ID)
	return nil
}

func (m *memListings) FindByID(_ context.Context, id uint) (*model.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &l, nil
}

func (m *memListings) FindOwned(ctx context.Context, id, ownerID uint) (*model.Listing, error) {
	l, err := m.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l.CreatedBy == nil || *l.CreatedBy != ownerID {
		return nil, gorm.ErrRecordNotFound
	}
	return l, nil
}

func (m *memListings) ListByOwner(_ context.Context, ownerID uint) ([]model.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Listing
	for _, l := range m.rows {
		if l.CreatedBy != nil && *l.CreatedBy == ownerID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memListings) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo repository.ListingRepository) error) error {
	return fn(ctx, m)
}
