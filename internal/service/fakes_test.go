package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/kavehram/rms-auth/internal/model"
	"github.com/kavehram/rms-auth/internal/repository"
)

// memUsers is an in-memory UserStore mirroring the repository contract,
// including serialized employee-id allocation.
type memUsers struct {
	mu     sync.Mutex
	seq    uint64
	prefix string
	floor  int
	byID   map[uint64]model.User
}

func newMemUsers() *memUsers {
	return &memUsers{prefix: "EMP", floor: 51020, byID: map[uint64]model.User{}}
}

func (m *memUsers) Create(ctx context.Context, u model.User) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if existing.Email == u.Email {
			return model.User{}, repository.ErrEmailExists
		}
	}
	next := m.floor
	for _, existing := range m.byID {
		if !strings.HasPrefix(existing.EmployeeID, m.prefix) {
			continue
		}
		if n, err := strconv.Atoi(strings.TrimPrefix(existing.EmployeeID, m.prefix)); err == nil && n+1 > next {
			next = n + 1
		}
	}
	m.seq++
	u.ID = m.seq
	u.EmployeeID = fmt.Sprintf("%s%d", m.prefix, next)
	m.byID[u.ID] = u
	return u, nil
}

func (m *memUsers) GetByEmail(ctx context.Context, email string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (m *memUsers) GetByID(ctx context.Context, id uint64) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (m *memUsers) GetAll(ctx context.Context) ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.User, 0, len(m.byID))
	for _, u := range m.byID {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memUsers) Update(ctx context.Context, u model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[u.ID]; !ok {
		return repository.ErrNotFound
	}
	m.byID[u.ID] = u
	return nil
}

func (m *memUsers) Delete(ctx context.Context, id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

// put stores a user directly, bypassing allocation. Test setup only.
func (m *memUsers) put(u model.User) model.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u.ID == 0 {
		m.seq++
		u.ID = m.seq
	}
	m.byID[u.ID] = u
	return u
}

// memTokens is an in-memory TokenStore keyed by access token, like the
// auth_tokens table.
type memTokens struct {
	mu   sync.Mutex
	rows map[string]model.TokenRecord
}

func newMemTokens() *memTokens {
	return &memTokens{rows: map[string]model.TokenRecord{}}
}

func (m *memTokens) Insert(ctx context.Context, userID uint64, accessToken, refreshToken string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[accessToken] = model.TokenRecord{
		UserID:       userID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Status:       true,
	}
	return nil
}

func (m *memTokens) GetActiveByAccess(ctx context.Context, accessToken string) (model.TokenRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.rows[accessToken]
	if !ok || !rec.Status {
		return model.TokenRecord{}, repository.ErrNotFound
	}
	return rec, nil
}

func (m *memTokens) GetActiveByRefresh(ctx context.Context, refreshToken string) (model.TokenRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, rec := range m.rows {
		if rec.RefreshToken == refreshToken && rec.Status {
			return rec, nil
		}
	}
	return model.TokenRecord{}, repository.ErrNotFound
}

func (m *memTokens) ReplaceAccess(ctx context.Context, refreshToken, newAccessToken string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, rec := range m.rows {
		if rec.RefreshToken == refreshToken && rec.Status {
			delete(m.rows, key)
			rec.AccessToken = newAccessToken
			m.rows[newAccessToken] = rec
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memTokens) RevokeByAccess(ctx context.Context, accessToken string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rec, ok := m.rows[accessToken]; ok && rec.Status {
		rec.Status = false
		m.rows[accessToken] = rec
	}
	return nil
}

func (m *memTokens) DeleteAllForUser(ctx context.Context, userID uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, rec := range m.rows {
		if rec.UserID == userID {
			delete(m.rows, key)
		}
	}
	return nil
}

func (m *memTokens) countForUser(userID uint64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, rec := range m.rows {
		if rec.UserID == userID {
			n++
		}
	}
	return n
}
