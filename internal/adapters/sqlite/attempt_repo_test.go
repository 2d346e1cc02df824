package sqlite_test

import (
	"context"
	"errors"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/depot/internal/adapters/sqlite"
	"github.com/example/depot/internal/core/install"
	"github.com/example/depot/internal/ports/primary"
	"github.com/example/depot/internal/ports/secondary"
)

// newAttempt builds a pending attempt with the full step plan, the way the
// installer creates them.
func newAttempt(id string) *secondary.AttemptRecord {
	attempt := &secondary.AttemptRecord{
		ID:            id,
		WorkspaceID:   "WS-001",
		PackageID:     "PKG-001",
		TargetVersion: "1.0.0",
		Status:        string(install.StatusPending),
	}
	for i, step := range install.Steps() {
		attempt.Steps = append(attempt.Steps, secondary.StepRecord{
			Step:     string(step),
			Position: i,
			Status:   install.StepStatusPending,
		})
	}
	return attempt
}

func TestAttemptRepository_CreateAndGetByID(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewAttemptRepository(db)
	ctx := context.Background()

	seedWorkspace(t, db, "", "")
	seedPackage(t, db, "", "", "")

	if err := repo.Create(ctx, newAttempt("INST-001")); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	attempt, err := repo.GetByID(ctx, "INST-001")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}

	if attempt.Status != string(install.StatusPending) {
		t.Errorf("expected PENDING, got %s", attempt.Status)
	}
	if attempt.Progress != 0 {
		t.Errorf("expected progress 0, got %d", attempt.Progress)
	}
	if len(attempt.Steps) != 9 {
		t.Fatalf("expected 9 step records, got %d", len(attempt.Steps))
	}
	if attempt.Steps[0].Step != string(install.StepPreCheck) {
		t.Errorf("expected first step PRE_CHECK, got %s", attempt.Steps[0].Step)
	}
	if attempt.Steps[8].Step != string(install.StepComplete) {
		t.Errorf("expected last step COMPLETE, got %s", attempt.Steps[8].Step)
	}
	for _, step := range attempt.Steps {
		if step.Status != install.StepStatusPending {
			t.Errorf("expected step %s pending, got %s", step.Step, step.Status)
		}
	}
}

func TestAttemptRepository_GetByID_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewAttemptRepository(db)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, "INST-999")
	if !errors.Is(err, primary.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestAttemptRepository_GetStatus(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewAttemptRepository(db)
	ctx := context.Background()

	seedWorkspace(t, db, "", "")
	seedPackage(t, db, "", "", "")
	_ = repo.Create(ctx, newAttempt("INST-001"))

	status, err := repo.GetStatus(ctx, "INST-001")
	if err != nil {
		t.Fatalf("GetStatus failed: %v", err)
	}
	if status != string(install.StatusPending) {
		t.Errorf("expected PENDING, got %s", status)
	}
}

func TestAttemptRepository_UpdateProgress(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewAttemptRepository(db)
	ctx := context.Background()

	seedWorkspace(t, db, "", "")
	seedPackage(t, db, "", "", "")
	_ = repo.Create(ctx, newAttempt("INST-001"))

	err := repo.UpdateProgress(ctx, "INST-001", string(install.StatusValidating), string(install.StepPreCheck), 11)
	if err != nil {
		t.Fatalf("UpdateProgress failed: %v", err)
	}

	attempt, _ := repo.GetByID(ctx, "INST-001")
	if attempt.Status != string(install.StatusValidating) {
		t.Errorf("expected VALIDATING, got %s", attempt.Status)
	}
	if attempt.CurrentStep != string(install.StepPreCheck) {
		t.Errorf("expected current step PRE_CHECK, got %s", attempt.CurrentStep)
	}
	if attempt.Progress != 11 {
		t.Errorf("expected progress 11, got %d", attempt.Progress)
	}
}

func TestAttemptRepository_MarkStep(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewAttemptRepository(db)
	ctx := context.Background()

	seedWorkspace(t, db, "", "")
	seedPackage(t, db, "", "", "")
	_ = repo.Create(ctx, newAttempt("INST-001"))

	step := string(install.StepPreCheck)

	if err := repo.MarkStep(ctx, "INST-001", step, install.StepStatusInProgress, ""); err != nil {
		t.Fatalf("MarkStep in_progress failed: %v", err)
	}

	attempt, _ := repo.GetByID(ctx, "INST-001")
	if attempt.Steps[0].Status != install.StepStatusInProgress {
		t.Errorf("expected in_progress, got %s", attempt.Steps[0].Status)
	}
	if attempt.Steps[0].StartedAt == "" {
		t.Error("expected started_at to be stamped")
	}
	if attempt.Steps[0].CompletedAt != "" {
		t.Error("expected completed_at to stay empty while in progress")
	}

	if err := repo.MarkStep(ctx, "INST-001", step, install.StepStatusCompleted, ""); err != nil {
		t.Fatalf("MarkStep completed failed: %v", err)
	}

	attempt, _ = repo.GetByID(ctx, "INST-001")
	if attempt.Steps[0].Status != install.StepStatusCompleted {
		t.Errorf("expected completed, got %s", attempt.Steps[0].Status)
	}
	if attempt.Steps[0].CompletedAt == "" {
		t.Error("expected completed_at to be stamped")
	}
}

func TestAttemptRepository_MarkStep_Failed(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewAttemptRepository(db)
	ctx := context.Background()

	seedWorkspace(t, db, "", "")
	seedPackage(t, db, "", "", "")
	_ = repo.Create(ctx, newAttempt("INST-001"))

	step := string(install.StepCheckConflicts)
	err := repo.MarkStep(ctx, "INST-001", step, install.StepStatusFailed, "trigger collision with translator")
	if err != nil {
		t.Fatalf("MarkStep failed: %v", err)
	}

	attempt, _ := repo.GetByID(ctx, "INST-001")
	for _, s := range attempt.Steps {
		if s.Step != step {
			continue
		}
		if s.Status != install.StepStatusFailed {
			t.Errorf("expected failed, got %s", s.Status)
		}
		if s.Error != "trigger collision with translator" {
			t.Errorf("unexpected step error: %q", s.Error)
		}
	}
}

func TestAttemptRepository_Finish(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewAttemptRepository(db)
	ctx := context.Background()

	seedWorkspace(t, db, "", "")
	seedPackage(t, db, "", "", "")

	tests := []struct {
		name       string
		id         string
		finish     func(ctx context.Context, id string) error
		wantStatus string
		wantErrMsg string
	}{
		{
			name:       "completed",
			id:         "INST-001",
			finish:     repo.MarkCompleted,
			wantStatus: string(install.StatusCompleted),
		},
		{
			name: "failed",
			id:   "INST-002",
			finish: func(ctx context.Context, id string) error {
				return repo.MarkFailed(ctx, id, "permission escalation detected")
			},
			wantStatus: string(install.StatusFailed),
			wantErrMsg: "permission escalation detected",
		},
		{
			name: "rolled back",
			id:   "INST-003",
			finish: func(ctx context.Context, id string) error {
				return repo.MarkRolledBack(ctx, id, "rolled back by USR-001")
			},
			wantStatus: string(install.StatusRolledBack),
			wantErrMsg: "rolled back by USR-001",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_ = repo.Create(ctx, newAttempt(tt.id))

			if err := tt.finish(ctx, tt.id); err != nil {
				t.Fatalf("finish failed: %v", err)
			}

			attempt, _ := repo.GetByID(ctx, tt.id)
			if attempt.Status != tt.wantStatus {
				t.Errorf("expected %s, got %s", tt.wantStatus, attempt.Status)
			}
			if attempt.CompletedAt == "" {
				t.Error("expected completed_at to be stamped")
			}
			if attempt.ErrorMessage != tt.wantErrMsg {
				t.Errorf("expected error message %q, got %q", tt.wantErrMsg, attempt.ErrorMessage)
			}
		})
	}
}

func TestAttemptRepository_SetInstalledPackage(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewAttemptRepository(db)
	ctx := context.Background()

	seedWorkspace(t, db, "", "")
	seedPackage(t, db, "", "", "")
	_ = repo.Create(ctx, newAttempt("INST-001"))

	if err := repo.SetInstalledPackage(ctx, "INST-001", "IP-001"); err != nil {
		t.Fatalf("SetInstalledPackage failed: %v", err)
	}

	attempt, _ := repo.GetByID(ctx, "INST-001")
	if attempt.InstalledPackageID != "IP-001" {
		t.Errorf("expected IP-001, got %s", attempt.InstalledPackageID)
	}
}

func TestAttemptRepository_List(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewAttemptRepository(db)
	ctx := context.Background()

	seedWorkspace(t, db, "WS-001", "first")
	seedWorkspace(t, db, "WS-002", "second")
	seedPackage(t, db, "", "", "")

	a1 := newAttempt("INST-001")
	a2 := newAttempt("INST-002")
	a2.WorkspaceID = "WS-002"
	a3 := newAttempt("INST-003")
	_ = repo.Create(ctx, a1)
	_ = repo.Create(ctx, a2)
	_ = repo.Create(ctx, a3)
	_ = repo.MarkFailed(ctx, "INST-003", "boom")

	byWorkspace, err := repo.List(ctx, secondary.AttemptFilters{WorkspaceID: "WS-001"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(byWorkspace) != 2 {
		t.Errorf("expected 2 attempts in WS-001, got %d", len(byWorkspace))
	}

	failed, err := repo.List(ctx, secondary.AttemptFilters{Status: string(install.StatusFailed)})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(failed) != 1 || failed[0].ID != "INST-003" {
		t.Errorf("expected only INST-003 failed, got %v", failed)
	}
}

func TestAttemptRepository_GetNextID(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewAttemptRepository(db)
	ctx := context.Background()

	seedWorkspace(t, db, "", "")
	seedPackage(t, db, "", "", "")

	id, err := repo.GetNextID(ctx)
	if err != nil {
		t.Fatalf("GetNextID failed: %v", err)
	}
	if id != "INST-001" {
		t.Errorf("expected INST-001, got %s", id)
	}

	_ = repo.Create(ctx, newAttempt("INST-004"))

	id, err = repo.GetNextID(ctx)
	if err != nil {
		t.Fatalf("GetNextID failed: %v", err)
	}
	if id != "INST-005" {
		t.Errorf("expected INST-005, got %s", id)
	}
}
