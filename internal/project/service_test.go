package project

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	mu       sync.Mutex
	projects map[uuid.UUID]Project
	err      error
}

func newMemStore() *memStore {
	return &memStore{projects: make(map[uuid.UUID]Project)}
}

func (s *memStore) Create(ctx context.Context, p *Project) (*Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	created := *p
	created.ID = uuid.New()
	s.projects[created.ID] = created
	return &created, nil
}

func (s *memStore) List(ctx context.Context) ([]*Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	out := make([]*Project, 0, len(s.projects))
	for _, p := range s.projects {
		p := p
		out = append(out, &p)
	}
	return out, nil
}

func (s *memStore) GetByID(ctx context.Context, id uuid.UUID) (*Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	p, ok := s.projects[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (s *memStore) Update(ctx context.Context, p *Project) (*Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[p.ID]; !ok {
		return nil, ErrNotFound
	}
	s.projects[p.ID] = *p
	return p, nil
}

func (s *memStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[id]; !ok {
		return ErrNotFound
	}
	delete(s.projects, id)
	return nil
}

func (s *memStore) StudentIDInUse(ctx context.Context, studentIDs []string, exclude uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return false, s.err
	}
	for id, p := range s.projects {
		if id == exclude {
			continue
		}
		for _, st := range p.Students {
			for _, want := range studentIDs {
				if st.ID == want {
					return true, nil
				}
			}
		}
	}
	return false, nil
}

func TestService_CreateAndGet(t *testing.T) {
	svc := NewService(newMemStore())
	ctx := context.Background()

	in := validInput()
	in.Title = " Smart Irrigation "

	created, err := svc.Create(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "Smart Irrigation", created.Title)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = svc.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_CreateRejectsInvalid(t *testing.T) {
	store := newMemStore()
	svc := NewService(store)

	in := validInput()
	in.Keywords = nil

	_, err := svc.Create(context.Background(), in)
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Empty(t, store.projects)
}

func TestService_StudentIDConflict(t *testing.T) {
	svc := NewService(newMemStore())
	ctx := context.Background()

	first, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	other := validInput()
	other.Title = "Another"
	other.Students = []Student{{ID: "1904002", Name: "Bob"}}
	_, err = svc.Create(ctx, other)
	assert.ErrorIs(t, err, ErrStudentIDInUse)

	// a project keeps its own students on update
	in := validInput()
	in.Title = "Smart Irrigation v2"
	updated, err := svc.Update(ctx, first.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "Smart Irrigation v2", updated.Title)
}

func TestService_UpdateAndDelete(t *testing.T) {
	svc := NewService(newMemStore())
	ctx := context.Background()

	_, err := svc.Update(ctx, uuid.New(), validInput())
	assert.ErrorIs(t, err, ErrNotFound)

	created, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	bad := validInput()
	bad.Year = ""
	_, err = svc.Update(ctx, created.ID, bad)
	assert.ErrorIs(t, err, ErrInvalid)

	require.NoError(t, svc.Delete(ctx, created.ID))
	assert.ErrorIs(t, svc.Delete(ctx, created.ID), ErrNotFound)
}

func TestService_StoreErrorsPropagate(t *testing.T) {
	store := newMemStore()
	store.err = errors.New("connection reset")
	svc := NewService(store)

	_, err := svc.Create(context.Background(), validInput())
	assert.EqualError(t, err, "connection reset")

	_, err = svc.List(context.Background())
	assert.Error(t, err)
}
