package project

import (
	"context"

	"github.com/google/uuid"
)

// Store persists projects
type Store interface {
	Create(ctx context.Context, p *Project) (*Project, error)
	List(ctx context.Context) ([]*Project, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Project, error)
	Update(ctx context.Context, p *Project) (*Project, error)
	Delete(ctx context.Context, id uuid.UUID) error
	StudentIDInUse(ctx context.Context, studentIDs []string, exclude uuid.UUID) (bool, error)
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Create validates in and stores it. A student can belong to one project only.
func (s *Service) Create(ctx context.Context, in Input) (*Project, error) {
	if err := s.check(ctx, &in, uuid.Nil); err != nil {
		return nil, err
	}

	return s.store.Create(ctx, fromInput(uuid.Nil, in))
}

func (s *Service) List(ctx context.Context) ([]*Project, error) {
	return s.store.List(ctx)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Project, error) {
	return s.store.GetByID(ctx, id)
}

// Update replaces project id with in
func (s *Service) Update(ctx context.Context, id uuid.UUID, in Input) (*Project, error) {
	if _, err := s.store.GetByID(ctx, id); err != nil {
		return nil, err
	}

	if err := s.check(ctx, &in, id); err != nil {
		return nil, err
	}

	return s.store.Update(ctx, fromInput(id, in))
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.store.Delete(ctx, id)
}

func (s *Service) check(ctx context.Context, in *Input, self uuid.UUID) error {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return err
	}

	inUse, err := s.store.StudentIDInUse(ctx, in.StudentIDs(), self)
	if err != nil {
		return err
	}
	if inUse {
		return ErrStudentIDInUse
	}

	return nil
}

func fromInput(id uuid.UUID, in Input) *Project {
	return &Project{
		ID:         id,
		Students:   in.Students,
		Batch:      in.Batch,
		Title:      in.Title,
		Supervisor: in.Supervisor,
		Year:       in.Year,
		Link:       in.Link,
		Keywords:   in.Keywords,
	}
}
