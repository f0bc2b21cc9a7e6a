package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory is an in-memory Store implementation. It is safe for concurrent
// use and intended primarily for testing.
type Memory struct {
	mu       sync.Mutex
	calls    map[string]*CallRecord
	bySID    map[string]string
	contacts map[string]*Contact
	byPhone  map[string]string
	profiles map[string]*Profile
}

// NewMemory creates a new in-memory Store.
func NewMemory() *Memory {
	return &Memory{
		calls:    make(map[string]*CallRecord),
		bySID:    make(map[string]string),
		contacts: make(map[string]*Contact),
		byPhone:  make(map[string]string),
		profiles: make(map[string]*Profile),
	}
}

func (m *Memory) CreateCall(_ context.Context, rec *CallRecord) (*CallRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := rec.Clone()
	if cp.ID == "" {
		cp.ID = uuid.NewString()
	}
	if cp.SessionID != "" {
		if _, exists := m.bySID[cp.SessionID]; exists {
			return nil, fmt.Errorf("store: session %q already exists", cp.SessionID)
		}
		m.bySID[cp.SessionID] = cp.ID
	}
	now := time.Now().UTC()
	cp.CreatedAt = now
	cp.UpdatedAt = now
	m.calls[cp.ID] = cp
	return cp.Clone(), nil
}

func (m *Memory) GetCall(_ context.Context, id string) (*CallRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.calls[id]
	if !ok {
		return nil, ErrNotFound
	}
	return rec.Clone(), nil
}

func (m *Memory) GetCallBySession(_ context.Context, sessionID string) (*CallRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.bySID[sessionID]
	if !ok {
		return nil, ErrNotFound
	}
	rec, ok := m.calls[id]
	if !ok {
		return nil, ErrNotFound
	}
	return rec.Clone(), nil
}

func (m *Memory) UpdateCall(_ context.Context, id string, mutate func(*CallRecord)) (*CallRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.calls[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := rec.Clone()
	mutate(cp)
	cp.ID = id
	cp.UpdatedAt = time.Now().UTC()
	if cp.SessionID != rec.SessionID && cp.SessionID != "" {
		m.bySID[cp.SessionID] = id
	}
	m.calls[id] = cp
	return cp.Clone(), nil
}

func (m *Memory) ListCalls(_ context.Context) ([]*CallRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*CallRecord, 0, len(m.calls))
	for _, rec := range m.calls {
		out = append(out, rec.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *Memory) UpsertContact(_ context.Context, c *Contact) (*Contact, error) {
	if c.Phone == "" {
		return nil, errors.New("store: contact phone is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if id, ok := m.byPhone[c.Phone]; ok {
		cur := m.contacts[id].Clone()
		mergeContact(cur, c)
		cur.UpdatedAt = time.Now().UTC()
		m.contacts[id] = cur
		return cur.Clone(), nil
	}

	cp := c.Clone()
	if cp.ID == "" {
		cp.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	cp.CreatedAt = now
	cp.UpdatedAt = now
	m.byPhone[cp.Phone] = cp.ID
	m.contacts[cp.ID] = cp
	return cp.Clone(), nil
}

func (m *Memory) GetContact(_ context.Context, id string) (*Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.contacts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return c.Clone(), nil
}

func (m *Memory) ListContacts(_ context.Context) ([]*Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Contact, 0, len(m.contacts))
	for _, c := range m.contacts {
		out = append(out, c.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *Memory) PutProfile(_ context.Context, p *Profile) error {
	if p.ContactID == "" {
		return errors.New("store: profile contact id is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := p.Clone()
	cp.UpdatedAt = time.Now().UTC()
	m.profiles[cp.ContactID] = cp
	return nil
}

func (m *Memory) GetProfile(_ context.Context, contactID string) (*Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[contactID]
	if !ok {
		return nil, ErrNotFound
	}
	return p.Clone(), nil
}

func (m *Memory) Close() error {
	return nil
}
