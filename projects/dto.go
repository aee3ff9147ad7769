package projects

// CreateProjectRequest is the payload for creating a project.
type CreateProjectRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=200" example:"Orbital launch"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000" example:"Q3 initiative"`
}

// UpdateProjectRequest is the payload for partially updating a project.
// Only fields that are present are changed.
type UpdateProjectRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
}
