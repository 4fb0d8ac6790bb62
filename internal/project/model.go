// Package project manages the showcased student projects.
package project

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const maxStudents = 5

var (
	ErrNotFound       = errors.New("project not found")
	ErrInvalid        = errors.New("invalid project")
	ErrStudentIDInUse = errors.New("student id already belongs to another project")
)

type Student struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Project struct {
	ID         uuid.UUID `json:"id"`
	Students   []Student `json:"students"`
	Batch      string    `json:"batch"`
	Title      string    `json:"title"`
	Supervisor string    `json:"supervisor"`
	Year       string    `json:"year"`
	Link       string    `json:"link,omitempty"`
	Keywords   []string  `json:"keywords"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Input is the client supplied part of a project
type Input struct {
	Students   []Student `json:"students"`
	Batch      string    `json:"batch"`
	Title      string    `json:"title"`
	Supervisor string    `json:"supervisor"`
	Year       string    `json:"year"`
	Link       string    `json:"link"`
	Keywords   []string  `json:"keywords"`
}

// Normalize trims whitespace and drops blank keywords
func (in *Input) Normalize() {
	in.Batch = strings.TrimSpace(in.Batch)
	in.Title = strings.TrimSpace(in.Title)
	in.Supervisor = strings.TrimSpace(in.Supervisor)
	in.Year = strings.TrimSpace(in.Year)
	in.Link = strings.TrimSpace(in.Link)

	for i := range in.Students {
		in.Students[i].ID = strings.TrimSpace(in.Students[i].ID)
		in.Students[i].Name = strings.TrimSpace(in.Students[i].Name)
	}

	keywords := make([]string, 0, len(in.Keywords))
	for _, k := range in.Keywords {
		if k = strings.TrimSpace(k); k != "" {
			keywords = append(keywords, k)
		}
	}
	in.Keywords = keywords
}

// Validate reports the first rule the input breaks, wrapped in ErrInvalid
func (in Input) Validate() error {
	switch {
	case in.Title == "":
		return invalid("title is required")
	case in.Batch == "":
		return invalid("batch is required")
	case in.Supervisor == "":
		return invalid("supervisor is required")
	case in.Year == "":
		return invalid("year is required")
	case len(in.Students) == 0 || len(in.Students) > maxStudents:
		return invalid(fmt.Sprintf("a project needs 1 to %d students", maxStudents))
	case len(in.Keywords) == 0:
		return invalid("at least one keyword is required")
	}

	seen := make(map[string]struct{}, len(in.Students))
	for _, s := range in.Students {
		if s.ID == "" || s.Name == "" {
			return invalid("every student needs an id and a name")
		}
		if _, dup := seen[s.ID]; dup {
			return invalid(fmt.Sprintf("student id %s is listed twice", s.ID))
		}
		seen[s.ID] = struct{}{}
	}

	return nil
}

// StudentIDs returns the ids of the listed students
func (in Input) StudentIDs() []string {
	ids := make([]string, len(in.Students))
	for i, s := range in.Students {
		ids[i] = s.ID
	}
	return ids
}

func invalid(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalid, reason)
}
