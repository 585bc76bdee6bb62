package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"sync"

	domainauth "github.com/isaacgyampoh/recipe-saver/internal/domain/auth"
	"github.com/isaacgyampoh/recipe-saver/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.SessionStore   = (*MemorySessionStore)(nil)
	_ ports.PasswordHasher = (*FakeHasher)(nil)
)

// MemorySessionStore is an in-memory session store for tests.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domainauth.Session

	// Optional error injection
	SaveErr   error
	GetErr    error
	DeleteErr error
}

// NewMemorySessionStore creates an empty in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]domainauth.Session),
	}
}

func (m *MemorySessionStore) Save(_ context.Context, sess domainauth.Session) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sess.ID] = sess
	return nil
}

func (m *MemorySessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	if m.GetErr != nil {
		return domainauth.Session{}, m.GetErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[id]
	if !ok {
		return domainauth.Session{}, ErrNotFound
	}
	return sess, nil
}

func (m *MemorySessionStore) Delete(_ context.Context, id string) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// Len reports the number of stored sessions.
func (m *MemorySessionStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

type notFoundError struct{}

func (notFoundError) Error() string { return "session not found" }

// ErrNotFound mirrors the production store's sentinel.
var ErrNotFound error = notFoundError{}

// FakeHasher is a reversible stand-in for bcrypt in unit tests.
// Hash prefixes the password; Compare checks the prefix.
type FakeHasher struct {
	HashErr    error
	CompareErr error
}

const fakeHashPrefix = "hashed:"

func (f *FakeHasher) Hash(password string) (string, error) {
	if f.HashErr != nil {
		return "", f.HashErr
	}
	return fakeHashPrefix + password, nil
}

func (f *FakeHasher) Compare(hash, password string) error {
	if f.CompareErr != nil {
		return f.CompareErr
	}
	if hash != fakeHashPrefix+password {
		return mismatchError{}
	}
	return nil
}

type mismatchError struct{}

func (mismatchError) Error() string { return "password does not match" }
