package app

import (
	"context"
	"fmt"
	"testing"

	"github.com/example/depot/internal/ports/secondary"
)

// mockWorkspaceRepo implements secondary.WorkspaceRepository for testing.
type mockWorkspaceRepo struct {
	workspaces map[string]*secondary.WorkspaceRecord
	nextID     int
}

func newMockWorkspaceRepo() *mockWorkspaceRepo {
	return &mockWorkspaceRepo{workspaces: make(map[string]*secondary.WorkspaceRecord)}
}

func (m *mockWorkspaceRepo) Create(ctx context.Context, workspace *secondary.WorkspaceRecord) error {
	workspace.Status = "active"
	m.workspaces[workspace.ID] = workspace
	return nil
}

func (m *mockWorkspaceRepo) GetByID(ctx context.Context, id string) (*secondary.WorkspaceRecord, error) {
	if ws, ok := m.workspaces[id]; ok {
		return ws, nil
	}
	return nil, fmt.Errorf("workspace %s not found", id)
}

func (m *mockWorkspaceRepo) List(ctx context.Context) ([]*secondary.WorkspaceRecord, error) {
	var result []*secondary.WorkspaceRecord
	for _, ws := range m.workspaces {
		result = append(result, ws)
	}
	return result, nil
}

func (m *mockWorkspaceRepo) GetNextID(ctx context.Context) (string, error) {
	m.nextID++
	return fmt.Sprintf("WS-%03d", m.nextID), nil
}

func TestWorkspaceService_CreateWorkspace(t *testing.T) {
	repo := newMockWorkspaceRepo()
	svc := NewWorkspaceService(repo)
	ctx := context.Background()

	ws, err := svc.CreateWorkspace(ctx, "engineering")
	if err != nil {
		t.Fatalf("CreateWorkspace failed: %v", err)
	}

	if ws.ID != "WS-001" {
		t.Errorf("expected WS-001, got %s", ws.ID)
	}
	if ws.Name != "engineering" {
		t.Errorf("expected name 'engineering', got %s", ws.Name)
	}
	if ws.Status != "active" {
		t.Errorf("expected active, got %s", ws.Status)
	}
}

func TestWorkspaceService_CreateWorkspace_EmptyName(t *testing.T) {
	svc := NewWorkspaceService(newMockWorkspaceRepo())

	_, err := svc.CreateWorkspace(context.Background(), "")
	if err == nil {
		t.Error("expected error for empty workspace name")
	}
}

func TestWorkspaceService_ListWorkspaces(t *testing.T) {
	repo := newMockWorkspaceRepo()
	svc := NewWorkspaceService(repo)
	ctx := context.Background()

	_, _ = svc.CreateWorkspace(ctx, "first")
	_, _ = svc.CreateWorkspace(ctx, "second")

	workspaces, err := svc.ListWorkspaces(ctx)
	if err != nil {
		t.Fatalf("ListWorkspaces failed: %v", err)
	}
	if len(workspaces) != 2 {
		t.Errorf("expected 2 workspaces, got %d", len(workspaces))
	}
}
