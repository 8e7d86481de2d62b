package mock

import (
	"context"

	"github.com/fwojciec/lpedit"
)

var _ lpedit.ProjectService = (*ProjectService)(nil)

// ProjectService is a mock implementation of lpedit.ProjectService.
type ProjectService struct {
	CreateProjectFn   func(ctx context.Context, project *lpedit.ImportProject) error
	FindProjectByIDFn func(ctx context.Context, id string) (*lpedit.ImportProject, error)
	FindProjectsFn    func(ctx context.Context, filter lpedit.ProjectFilter) ([]*lpedit.ImportProject, error)
	UpdateProjectFn   func(ctx context.Context, project *lpedit.ImportProject) error
	DeleteProjectFn   func(ctx context.Context, id string) error
}

func (s *ProjectService) CreateProject(ctx context.Context, project *lpedit.ImportProject) error {
	return s.CreateProjectFn(ctx, project)
}

func (s *ProjectService) FindProjectByID(ctx context.Context, id string) (*lpedit.ImportProject, error) {
	return s.FindProjectByIDFn(ctx, id)
}

func (s *ProjectService) FindProjects(ctx context.Context, filter lpedit.ProjectFilter) ([]*lpedit.ImportProject, error) {
	return s.FindProjectsFn(ctx, filter)
}

func (s *ProjectService) UpdateProject(ctx context.Context, project *lpedit.ImportProject) error {
	return s.UpdateProjectFn(ctx, project)
}

func (s *ProjectService) DeleteProject(ctx context.Context, id string) error {
	return s.DeleteProjectFn(ctx, id)
}
