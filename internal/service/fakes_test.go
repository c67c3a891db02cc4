package service

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/iliyamo/seat-suggest/internal/model"
	"github.com/iliyamo/seat-suggest/internal/queue"
)

type memUsers struct {
	mu    sync.Mutex
	users map[string]model.User
	err   error
}

func newMemUsers() *memUsers { return &memUsers{users: map[string]model.User{}} }

func (m *memUsers) Create(_ context.Context, u model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.users[u.ID]; ok {
		return model.ErrDuplicateIdentity
	}
	m.users[u.ID] = u
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return model.User{}, m.err
	}
	u, ok := m.users[id]
	if !ok {
		return model.User{}, model.ErrNotFound
	}
	return u, nil
}

func (m *memUsers) List(context.Context) ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([]model.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.AuditEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev queue.AuditEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

type staticSource struct {
	seats []model.SeatRef
	err   error
	calls int
}

func (s *staticSource) Occupied(context.Context) ([]model.SeatRef, error) {
	s.calls++
	return s.seats, s.err
}

var errStoreDown = errors.New("store down")
