package projects

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrProjectNotFound is returned when no project matches the given id.
var ErrProjectNotFound = errors.New("project not found")

// ProjectStore is the persistence interface the project service depends on.
type ProjectStore interface {
	// CreateProject inserts the project and returns it with ID and
	// timestamps populated.
	CreateProject(ctx context.Context, project *Project) (*Project, error)
	// GetProject returns the project with the given id, or ErrProjectNotFound.
	GetProject(ctx context.Context, id int) (*Project, error)
	// ListProjects returns projects ordered by id, skipping skip rows and
	// returning at most limit.
	ListProjects(ctx context.Context, skip, limit int) ([]Project, error)
	// UpdateProject applies the non-nil fields of req to the project and
	// returns the updated row, or ErrProjectNotFound.
	UpdateProject(ctx context.Context, id int, req *UpdateProjectRequest) (*Project, error)
	// DeleteProject removes the project, or returns ErrProjectNotFound.
	DeleteProject(ctx context.Context, id int) error
}

// PostgresProjectStore implements ProjectStore over a pgx connection pool.
type PostgresProjectStore struct {
	db *pgxpool.Pool
}

// NewPostgresProjectStore creates a PostgresProjectStore.
func NewPostgresProjectStore(db *pgxpool.Pool) *PostgresProjectStore {
	return &PostgresProjectStore{db: db}
}

const projectColumns = "id, name, description, owner_id, created_at, updated_at"

func scanProject(row pgx.Row, p *Project) error {
	return row.Scan(&p.ID, &p.Name, &p.Description, &p.OwnerID, &p.CreatedAt, &p.UpdatedAt)
}

func (s *PostgresProjectStore) CreateProject(ctx context.Context, project *Project) (*Project, error) {
	query := `INSERT INTO projects (name, description, owner_id)
              VALUES ($1, $2, $3)
              RETURNING ` + projectColumns
	var created Project
	err := scanProject(s.db.QueryRow(ctx, query, project.Name, project.Description, project.OwnerID), &created)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *PostgresProjectStore) GetProject(ctx context.Context, id int) (*Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`
	var project Project
	err := scanProject(s.db.QueryRow(ctx, query, id), &project)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return &project, nil
}

func (s *PostgresProjectStore) ListProjects(ctx context.Context, skip, limit int) ([]Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects ORDER BY id OFFSET $1 LIMIT $2`
	rows, err := s.db.Query(ctx, query, skip, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		var project Project
		if err := rows.Scan(&project.ID, &project.Name, &project.Description, &project.OwnerID, &project.CreatedAt, &project.UpdatedAt); err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	return projects, rows.Err()
}

func (s *PostgresProjectStore) UpdateProject(ctx context.Context, id int, req *UpdateProjectRequest) (*Project, error) {
	// Build the SET clause from the fields actually present in the request.
	var setClauses []string
	var args []interface{}
	argID := 1

	if req.Name != nil {
		setClauses = append(setClauses, fmt.Sprintf("name = $%d", argID))
		args = append(args, *req.Name)
		argID++
	}
	if req.Description != nil {
		setClauses = append(setClauses, fmt.Sprintf("description = $%d", argID))
		args = append(args, *req.Description)
		argID++
	}
	// An empty update still touches updated_at and returns the current row.
	setClauses = append(setClauses, "updated_at = now()")

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE projects SET %s WHERE id = $%d RETURNING `+projectColumns,
		strings.Join(setClauses, ", "), argID)

	var updated Project
	err := scanProject(s.db.QueryRow(ctx, query, args...), &updated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return &updated, nil
}

func (s *PostgresProjectStore) DeleteProject(ctx context.Context, id int) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProjectNotFound
	}
	return nil
}
