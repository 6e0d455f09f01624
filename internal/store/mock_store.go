// ABOUTME: Mock Store implementation for testing
// ABOUTME: Allows tests of code built on Store to run without SQLite

package store

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"
)

// MockStore is an in-memory Store implementation for testing.
// It mirrors SQLiteStore's error semantics: unique handles, ErrUserNotFound on
// mapping, lenient solved-problem updates and no membership deduplication.
type MockStore struct {
	mu          sync.RWMutex
	users       map[int64]*User  // keyed by user ID
	userIndex   map[string]int64 // keyed by handle -> user ID
	servers     map[int64]*Server
	channels    map[int64]*Channel
	memberships []*Membership // insertion order
	nextID      map[string]int64
	closed      bool

	// Now is used for timestamps; defaults to time.Now
	Now func() time.Time
}

// NewMockStore creates a new MockStore.
func NewMockStore() *MockStore {
	return &MockStore{
		users:     make(map[int64]*User),
		userIndex: make(map[string]int64),
		servers:   make(map[int64]*Server),
		channels:  make(map[int64]*Channel),
		nextID:    make(map[string]int64),
		Now:       time.Now,
	}
}

// allocID mimics AUTOINCREMENT: ids start at 1 per table and are never reused.
// Caller must hold the write lock.
func (m *MockStore) allocID(table string) int64 {
	m.nextID[table]++
	return m.nextID[table]
}

func copyUser(u *User) *User {
	c := *u
	c.SolvedProblems = slices.Clone(u.SolvedProblems)
	return &c
}

// AddUser stores a new user.
func (m *MockStore) AddUser(ctx context.Context, handle string) (int64, error) {
	if strings.TrimSpace(handle) == "" {
		return 0, ErrInvalidHandle
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return 0, ErrStoreClosed
	}
	if _, exists := m.userIndex[handle]; exists {
		return 0, fmt.Errorf("%w: %q", ErrDuplicateHandle, handle)
	}

	now := m.Now().UTC()
	u := &User{
		ID:             m.allocID("users"),
		Handle:         handle,
		SolvedProblems: []int{},
		LastCheckTime:  now,
		LastUpdateTime: now,
	}
	m.users[u.ID] = u
	m.userIndex[handle] = u.ID
	return u.ID, nil
}

// GetUser retrieves a user by handle.
func (m *MockStore) GetUser(ctx context.Context, handle string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}
	id, ok := m.userIndex[handle]
	if !ok {
		return nil, ErrNotFound
	}
	return copyUser(m.users[id]), nil
}

// GetUserIDByHandle returns the user's id, or false if there is none.
func (m *MockStore) GetUserIDByHandle(ctx context.Context, handle string) (int64, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return 0, false, ErrStoreClosed
	}
	id, ok := m.userIndex[handle]
	return id, ok, nil
}

// ListUsers returns all users ordered by id.
func (m *MockStore) ListUsers(ctx context.Context) ([]*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}
	users := make([]*User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, copyUser(u))
	}
	slices.SortFunc(users, func(a, b *User) int { return cmp.Compare(a.ID, b.ID) })
	return users, nil
}

// UpdateUserSolvedProblems replaces the solved list. Unknown handles return false.
func (m *MockStore) UpdateUserSolvedProblems(ctx context.Context, handle string, solved []int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return false, ErrStoreClosed
	}
	id, ok := m.userIndex[handle]
	if !ok {
		return false, nil
	}

	u := m.users[id]
	u.SolvedProblems = slices.Clone(solved)
	if u.SolvedProblems == nil {
		u.SolvedProblems = []int{}
	}
	u.SolvedCount = len(solved)
	u.LastUpdateTime = m.Now().UTC()
	return true, nil
}

// AddServer stores a server.
func (m *MockStore) AddServer(ctx context.Context, name string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return 0, ErrStoreClosed
	}
	srv := &Server{ID: m.allocID("servers"), Name: name}
	m.servers[srv.ID] = srv
	return srv.ID, nil
}

// AddChannel stores a channel. The server id is not checked, matching
// SQLiteStore with foreign keys off.
func (m *MockStore) AddChannel(ctx context.Context, name string, serverID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return 0, ErrStoreClosed
	}
	ch := &Channel{ID: m.allocID("channels"), Name: name, ServerID: serverID}
	m.channels[ch.ID] = ch
	return ch.ID, nil
}

// MapUserToChannel stores a membership for an existing user.
func (m *MockStore) MapUserToChannel(ctx context.Context, handle string, channelID, serverID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return 0, ErrStoreClosed
	}
	userID, ok := m.userIndex[handle]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUserNotFound, handle)
	}

	ms := &Membership{
		ID:        m.allocID("memberships"),
		UserID:    userID,
		ChannelID: channelID,
		ServerID:  serverID,
	}
	m.memberships = append(m.memberships, ms)
	return ms.ID, nil
}

// GetUserChannels behaves like the SQL inner join: memberships whose channel or
// server does not exist are skipped.
func (m *MockStore) GetUserChannels(ctx context.Context, handle string) ([]UserChannel, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}
	result := []UserChannel{}
	userID, ok := m.userIndex[handle]
	if !ok {
		return result, nil
	}

	for _, ms := range m.memberships {
		if ms.UserID != userID {
			continue
		}
		ch, okCh := m.channels[ms.ChannelID]
		srv, okSrv := m.servers[ms.ServerID]
		if !okCh || !okSrv {
			continue
		}
		result = append(result, UserChannel{
			ChannelID:   ch.ID,
			ChannelName: ch.Name,
			ServerID:    srv.ID,
			ServerName:  srv.Name,
		})
	}
	return result, nil
}

// ListChannelMembers returns distinct users mapped to the channel, ordered by id.
func (m *MockStore) ListChannelMembers(ctx context.Context, channelID int64) ([]*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}
	seen := make(map[int64]bool)
	users := []*User{}
	for _, ms := range m.memberships {
		if ms.ChannelID != channelID || seen[ms.UserID] {
			continue
		}
		seen[ms.UserID] = true
		users = append(users, copyUser(m.users[ms.UserID]))
	}
	slices.SortFunc(users, func(a, b *User) int { return cmp.Compare(a.ID, b.ID) })
	return users, nil
}

// Close marks the store closed. Closing twice is a no-op.
func (m *MockStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

var _ Store = (*MockStore)(nil)
