package project

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/redmonkez12/projectshelf-api/internal/database"
)

type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, p *Project) (*Project, error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}

	row := mapModelToDBProject(p)

	_, err := r.db.NewInsert().
		Model(row).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return mapDBProjectToModel(row), nil
}

// List returns every project, newest first
func (r *Repository) List(ctx context.Context) ([]*Project, error) {
	var rows []database.Project

	err := r.db.NewSelect().
		Model(&rows).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	projects := make([]*Project, len(rows))
	for i := range rows {
		projects[i] = mapDBProjectToModel(&rows[i])
	}
	return projects, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Project, error) {
	row := new(database.Project)

	err := r.db.NewSelect().
		Model(row).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get project by id: %w", err)
	}

	return mapDBProjectToModel(row), nil
}

// Update replaces the editable columns of project p.ID
func (r *Repository) Update(ctx context.Context, p *Project) (*Project, error) {
	row := mapModelToDBProject(p)
	row.UpdatedAt = time.Now()

	result, err := r.db.NewUpdate().
		Model(row).
		Column("students", "batch", "title", "supervisor", "year", "link", "keywords", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	if err := checkAffected(result); err != nil {
		return nil, err
	}

	return r.GetByID(ctx, p.ID)
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.NewDelete().
		Model((*database.Project)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	return checkAffected(result)
}

// StudentIDInUse reports whether any project other than exclude lists one of studentIDs
func (r *Repository) StudentIDInUse(ctx context.Context, studentIDs []string, exclude uuid.UUID) (bool, error) {
	if len(studentIDs) == 0 {
		return false, nil
	}

	// jsonb containment on the id key alone
	patterns := make([]string, 0, len(studentIDs))
	for _, id := range studentIDs {
		contained, err := json.Marshal([]map[string]string{{"id": id}})
		if err != nil {
			return false, fmt.Errorf("failed to encode student id: %w", err)
		}
		patterns = append(patterns, string(contained))
	}

	q := r.db.NewSelect().Model((*database.Project)(nil))

	q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
		for _, pattern := range patterns {
			q = q.WhereOr("students @> ?::jsonb", pattern)
		}
		return q
	})

	if exclude != uuid.Nil {
		q = q.Where("id != ?", exclude)
	}

	exists, err := q.Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check student ids: %w", err)
	}
	return exists, nil
}

func checkAffected(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func mapModelToDBProject(p *Project) *database.Project {
	students := make([]database.Student, len(p.Students))
	for i, s := range p.Students {
		students[i] = database.Student(s)
	}

	return &database.Project{
		ID:         p.ID,
		Students:   students,
		Batch:      p.Batch,
		Title:      p.Title,
		Supervisor: p.Supervisor,
		Year:       p.Year,
		Link:       p.Link,
		Keywords:   p.Keywords,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func mapDBProjectToModel(row *database.Project) *Project {
	students := make([]Student, len(row.Students))
	for i, s := range row.Students {
		students[i] = Student(s)
	}

	return &Project{
		ID:         row.ID,
		Students:   students,
		Batch:      row.Batch,
		Title:      row.Title,
		Supervisor: row.Supervisor,
		Year:       row.Year,
		Link:       row.Link,
		Keywords:   row.Keywords,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}
}
