package app

import (
	"context"
	"fmt"

	"github.com/example/depot/internal/ports/primary"
	"github.com/example/depot/internal/ports/secondary"
)

// WorkspaceServiceImpl implements the WorkspaceService interface.
type WorkspaceServiceImpl struct {
	workspaceRepo secondary.WorkspaceRepository
}

// NewWorkspaceService creates a new WorkspaceService with injected dependencies.
func NewWorkspaceService(workspaceRepo secondary.WorkspaceRepository) *WorkspaceServiceImpl {
	return &WorkspaceServiceImpl{workspaceRepo: workspaceRepo}
}

// CreateWorkspace creates a new workspace.
func (s *WorkspaceServiceImpl) CreateWorkspace(ctx context.Context, name string) (*primary.Workspace, error) {
	if name == "" {
		return nil, fmt.Errorf("workspace name is required")
	}

	id, err := s.workspaceRepo.GetNextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate workspace ID: %w", err)
	}

	record := &secondary.WorkspaceRecord{ID: id, Name: name}
	if err := s.workspaceRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}

	created, err := s.workspaceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toWorkspace(created), nil
}

// ListWorkspaces lists all workspaces.
func (s *WorkspaceServiceImpl) ListWorkspaces(ctx context.Context) ([]*primary.Workspace, error) {
	records, err := s.workspaceRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	workspaces := make([]*primary.Workspace, 0, len(records))
	for _, record := range records {
		workspaces = append(workspaces, toWorkspace(record))
	}
	return workspaces, nil
}

func toWorkspace(record *secondary.WorkspaceRecord) *primary.Workspace {
	return &primary.Workspace{
		ID:        record.ID,
		Name:      record.Name,
		Status:    record.Status,
		CreatedAt: record.CreatedAt,
	}
}

// Ensure WorkspaceServiceImpl implements the interface
var _ primary.WorkspaceService = (*WorkspaceServiceImpl)(nil)
