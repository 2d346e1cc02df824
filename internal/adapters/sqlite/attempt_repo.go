package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/depot/internal/core/install"
	"github.com/example/depot/internal/ports/primary"
	"github.com/example/depot/internal/ports/secondary"
)

// AttemptRepository implements secondary.AttemptRepository with SQLite.
// Attempts are append-mostly: rows are created once, updated as the install
// advances, and never deleted.
type AttemptRepository struct {
	db *sql.DB
}

// NewAttemptRepository creates a new SQLite attempt repository.
func NewAttemptRepository(db *sql.DB) *AttemptRepository {
	return &AttemptRepository{db: db}
}

const attemptColumns = "id, workspace_id, package_id, target_version, status, current_step, progress, installed_package_id, error_message, started_at, completed_at, created_at, updated_at"

// Create persists a new attempt together with its pending step records. The
// attempt and its steps are inserted in one transaction so a readable attempt
// always has its full step list.
func (r *AttemptRepository) Create(ctx context.Context, attempt *secondary.AttemptRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO installation_attempts (id, workspace_id, package_id, target_version, status, progress) VALUES (?, ?, ?, ?, ?, ?)",
		attempt.ID, attempt.WorkspaceID, attempt.PackageID, attempt.TargetVersion, attempt.Status, attempt.Progress,
	)
	if err != nil {
		return fmt.Errorf("failed to create attempt: %w", err)
	}

	for _, step := range attempt.Steps {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO installation_steps (attempt_id, step, position, status) VALUES (?, ?, ?, ?)",
			attempt.ID, step.Step, step.Position, step.Status,
		)
		if err != nil {
			return fmt.Errorf("failed to create step record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit attempt: %w", err)
	}
	return nil
}

// GetByID retrieves an attempt with its ordered step list.
func (r *AttemptRepository) GetByID(ctx context.Context, id string) (*secondary.AttemptRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+attemptColumns+" FROM installation_attempts WHERE id = ?", id)

	attempt, err := scanAttempt(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("attempt %s: %w", id, primary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get attempt: %w", err)
	}

	steps, err := r.loadSteps(ctx, id)
	if err != nil {
		return nil, err
	}
	attempt.Steps = steps

	return attempt, nil
}

// GetStatus retrieves just the status of an attempt.
func (r *AttemptRepository) GetStatus(ctx context.Context, id string) (string, error) {
	var status string
	err := r.db.QueryRowContext(ctx,
		"SELECT status FROM installation_attempts WHERE id = ?", id).Scan(&status)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("attempt %s: %w", id, primary.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("failed to get attempt status: %w", err)
	}
	return status, nil
}

// List retrieves attempts matching the given filters, newest first. Step
// lists are not loaded; use GetByID for the full record.
func (r *AttemptRepository) List(ctx context.Context, filters secondary.AttemptFilters) ([]*secondary.AttemptRecord, error) {
	query := "SELECT " + attemptColumns + " FROM installation_attempts WHERE 1=1"
	args := []any{}

	if filters.WorkspaceID != "" {
		query += " AND workspace_id = ?"
		args = append(args, filters.WorkspaceID)
	}
	if filters.PackageID != "" {
		query += " AND package_id = ?"
		args = append(args, filters.PackageID)
	}
	if filters.Status != "" {
		query += " AND status = ?"
		args = append(args, filters.Status)
	}

	query += " ORDER BY created_at DESC"

	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}
	defer rows.Close()

	var attempts []*secondary.AttemptRecord
	for rows.Next() {
		attempt, err := scanAttempt(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attempt: %w", err)
		}
		attempts = append(attempts, attempt)
	}

	return attempts, nil
}

// UpdateProgress updates status, current step, and progress percentage.
func (r *AttemptRepository) UpdateProgress(ctx context.Context, id, status, currentStep string, progress int) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE installation_attempts SET status = ?, current_step = ?, progress = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		status, nullable(currentStep), progress, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update attempt progress: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("attempt %s: %w", id, primary.ErrNotFound)
	}
	return nil
}

// MarkStep updates one step record. in_progress stamps started_at; completed
// and failed stamp completed_at.
func (r *AttemptRepository) MarkStep(ctx context.Context, attemptID, step, status, stepErr string) error {
	query := "UPDATE installation_steps SET status = ?, error = ?"
	switch status {
	case install.StepStatusInProgress:
		query += ", started_at = CURRENT_TIMESTAMP"
	case install.StepStatusCompleted, install.StepStatusFailed:
		query += ", completed_at = CURRENT_TIMESTAMP"
	}
	query += " WHERE attempt_id = ? AND step = ?"

	result, err := r.db.ExecContext(ctx, query, status, nullable(stepErr), attemptID, step)
	if err != nil {
		return fmt.Errorf("failed to mark step: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("step %s of attempt %s: %w", step, attemptID, primary.ErrNotFound)
	}
	return nil
}

// SetInstalledPackage records the installed-package row an attempt produced.
func (r *AttemptRepository) SetInstalledPackage(ctx context.Context, id, installedPackageID string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE installation_attempts SET installed_package_id = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		installedPackageID, id,
	)
	if err != nil {
		return fmt.Errorf("failed to set installed package: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("attempt %s: %w", id, primary.ErrNotFound)
	}
	return nil
}

// MarkCompleted transitions an attempt to COMPLETED and stamps completed_at.
func (r *AttemptRepository) MarkCompleted(ctx context.Context, id string) error {
	return r.finish(ctx, id, string(install.StatusCompleted), "")
}

// MarkFailed transitions an attempt to FAILED and records the error message.
func (r *AttemptRepository) MarkFailed(ctx context.Context, id, errorMessage string) error {
	return r.finish(ctx, id, string(install.StatusFailed), errorMessage)
}

// MarkRolledBack transitions an attempt to ROLLED_BACK with a note.
func (r *AttemptRepository) MarkRolledBack(ctx context.Context, id, note string) error {
	return r.finish(ctx, id, string(install.StatusRolledBack), note)
}

func (r *AttemptRepository) finish(ctx context.Context, id, status, errorMessage string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE installation_attempts SET status = ?, error_message = ?, completed_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		status, nullable(errorMessage), id,
	)
	if err != nil {
		return fmt.Errorf("failed to finish attempt: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("attempt %s: %w", id, primary.ErrNotFound)
	}
	return nil
}

// GetNextID returns the next available attempt ID.
func (r *AttemptRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(CAST(SUBSTR(id, 6) AS INTEGER)), 0) FROM installation_attempts",
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next attempt ID: %w", err)
	}

	return fmt.Sprintf("INST-%03d", maxID+1), nil
}

func (r *AttemptRepository) loadSteps(ctx context.Context, attemptID string) ([]secondary.StepRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT step, position, status, started_at, completed_at, error FROM installation_steps WHERE attempt_id = ? ORDER BY position",
		attemptID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load steps: %w", err)
	}
	defer rows.Close()

	var steps []secondary.StepRecord
	for rows.Next() {
		var (
			step        secondary.StepRecord
			startedAt   sql.NullTime
			completedAt sql.NullTime
			stepErr     sql.NullString
		)
		err := rows.Scan(&step.Step, &step.Position, &step.Status, &startedAt, &completedAt, &stepErr)
		if err != nil {
			return nil, fmt.Errorf("failed to scan step: %w", err)
		}

		step.StartedAt = formatNullTime(startedAt)
		step.CompletedAt = formatNullTime(completedAt)
		step.Error = stepErr.String

		steps = append(steps, step)
	}

	return steps, nil
}

func scanAttempt(row interface{ Scan(...any) error }) (*secondary.AttemptRecord, error) {
	var (
		currentStep sql.NullString
		installedID sql.NullString
		errorMsg    sql.NullString
		startedAt   time.Time
		completedAt sql.NullTime
		createdAt   time.Time
		updatedAt   time.Time
	)

	attempt := &secondary.AttemptRecord{}
	err := row.Scan(&attempt.ID, &attempt.WorkspaceID, &attempt.PackageID, &attempt.TargetVersion,
		&attempt.Status, &currentStep, &attempt.Progress, &installedID, &errorMsg,
		&startedAt, &completedAt, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	attempt.CurrentStep = currentStep.String
	attempt.InstalledPackageID = installedID.String
	attempt.ErrorMessage = errorMsg.String
	attempt.StartedAt = startedAt.Format(time.RFC3339)
	attempt.CompletedAt = formatNullTime(completedAt)
	attempt.CreatedAt = createdAt.Format(time.RFC3339)
	attempt.UpdatedAt = updatedAt.Format(time.RFC3339)

	return attempt, nil
}

// formatNullTime converts a nullable timestamp to its string form, empty when
// null.
func formatNullTime(t sql.NullTime) string {
	if !t.Valid {
		return ""
	}
	return t.Time.Format(time.RFC3339)
}

// Ensure AttemptRepository implements the interface
var _ secondary.AttemptRepository = (*AttemptRepository)(nil)
