// Package projects implements CRUD over project records. Reads are open to
// any authenticated user; mutations are admin-restricted at the routing
// layer.
package projects

import (
	"context"
	"errors"

	"github.com/user/projecthub-go/apperror"
)

// defaultListLimit caps a listing when the client does not ask for a limit.
const defaultListLimit = 100

// ProjectService contains the project business logic.
type ProjectService struct {
	store ProjectStore
}

// NewProjectService creates a ProjectService.
func NewProjectService(store ProjectStore) *ProjectService {
	return &ProjectService{store: store}
}

// Create inserts a new project owned by ownerID.
func (s *ProjectService) Create(ctx context.Context, req CreateProjectRequest, ownerID int) (*Project, error) {
	project := &Project{
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     ownerID,
	}
	created, err := s.store.CreateProject(ctx, project)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to create project", err)
	}
	return created, nil
}

// Get returns a single project by id.
func (s *ProjectService) Get(ctx context.Context, id int) (*Project, error) {
	project, err := s.store.GetProject(ctx, id)
	if err != nil {
		if errors.Is(err, ErrProjectNotFound) {
			return nil, apperror.NewNotFoundError("project not found", nil)
		}
		return nil, apperror.NewDatabaseError("failed to get project", err)
	}
	return project, nil
}

// List returns a page of projects ordered by id.
func (s *ProjectService) List(ctx context.Context, skip, limit int) ([]Project, error) {
	if skip < 0 || limit < 0 {
		return nil, apperror.NewValidationError("skip and limit must be non-negative", nil)
	}
	if limit == 0 {
		limit = defaultListLimit
	}

	projects, err := s.store.ListProjects(ctx, skip, limit)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list projects", err)
	}
	if projects == nil {
		projects = []Project{}
	}
	return projects, nil
}

// Update applies a partial update to the project and returns the new row.
func (s *ProjectService) Update(ctx context.Context, id int, req UpdateProjectRequest) (*Project, error) {
	updated, err := s.store.UpdateProject(ctx, id, &req)
	if err != nil {
		if errors.Is(err, ErrProjectNotFound) {
			return nil, apperror.NewNotFoundError("project not found", nil)
		}
		return nil, apperror.NewDatabaseError("failed to update project", err)
	}
	return updated, nil
}

// Delete removes the project.
func (s *ProjectService) Delete(ctx context.Context, id int) error {
	if err := s.store.DeleteProject(ctx, id); err != nil {
		if errors.Is(err, ErrProjectNotFound) {
			return apperror.NewNotFoundError("project not found", nil)
		}
		return apperror.NewDatabaseError("failed to delete project", err)
	}
	return nil
}
