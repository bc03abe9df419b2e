package store

import (
	"context"
	"sort"
	"sync"

	"github.com/example/grocery-storefront/internal/model"
)

// MemoryStore is a thread-safe in-memory Store. It backs tests and
// DATABASE_URL-less runs of the server.
type MemoryStore struct {
	mu       sync.RWMutex
	products map[string]*model.Product
	users    map[string]*model.User
	orders   map[string]*model.Order
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products: make(map[string]*model.Product),
		users:    make(map[string]*model.User),
		orders:   make(map[string]*model.Order),
	}
}

func (s *MemoryStore) Product(ctx context.Context, id string) (*model.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *MemoryStore) Products(ctx context.Context) ([]*model.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.Product, 0, len(s.products))
	for _, p := range s.products {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *MemoryStore) SaveProduct(ctx context.Context, p *model.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *p
	s.products[p.ID] = &cp
	return nil
}

func (s *MemoryStore) AdjustStock(ctx context.Context, productID string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[productID]
	if !ok {
		return ErrNotFound
	}
	if p.Stock+delta < 0 {
		return ErrInsufficient
	}
	p.Stock += delta
	return nil
}

func (s *MemoryStore) User(ctx context.Context, id string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *MemoryStore) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) SaveUser(ctx context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, existing := range s.users {
		if existing.Email == u.Email && id != u.ID {
			return ErrDuplicateEmail
		}
	}
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *MemoryStore) SaveOrder(ctx context.Context, o *model.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *o
	cp.Items = append([]model.OrderItem(nil), o.Items...)
	s.orders[o.ID] = &cp
	return nil
}

func (s *MemoryStore) OrdersByUser(ctx context.Context, userID string) ([]*model.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*model.Order
	for _, o := range s.orders {
		if o.UserID == userID {
			cp := *o
			cp.Items = append([]model.OrderItem(nil), o.Items...)
			out = append(out, &cp)
		}
	}
	// Newest first, the way the order listing page shows them.
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
