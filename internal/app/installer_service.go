package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/example/depot/internal/core/install"
	"github.com/example/depot/internal/ctxutil"
	"github.com/example/depot/internal/models"
	"github.com/example/depot/internal/ports/primary"
	"github.com/example/depot/internal/ports/secondary"
)

// InstallerServiceImpl implements the InstallerService interface: the
// step-based installation state machine with per-step persistence, progress
// notifications, cooperative cancellation, and rollback.
type InstallerServiceImpl struct {
	catalog       secondary.PackageCatalog
	installedRepo secondary.InstalledPackageRepository
	defStore      secondary.DefinitionStore
	attemptRepo   secondary.AttemptRepository
	transactor    secondary.InstallTransactor
	notifier      secondary.NotificationSink
	depSvc        primary.DependencyService
	conflictSvc   primary.ConflictService
}

// NewInstallerService creates a new InstallerService with injected dependencies.
func NewInstallerService(
	catalog secondary.PackageCatalog,
	installedRepo secondary.InstalledPackageRepository,
	defStore secondary.DefinitionStore,
	attemptRepo secondary.AttemptRepository,
	transactor secondary.InstallTransactor,
	notifier secondary.NotificationSink,
	depSvc primary.DependencyService,
	conflictSvc primary.ConflictService,
) *InstallerServiceImpl {
	return &InstallerServiceImpl{
		catalog:       catalog,
		installedRepo: installedRepo,
		defStore:      defStore,
		attemptRepo:   attemptRepo,
		transactor:    transactor,
		notifier:      notifier,
		depSvc:        depSvc,
		conflictSvc:   conflictSvc,
	}
}

// installRun carries the state of one installation through the step loop.
type installRun struct {
	attemptID          string
	req                primary.InstallRequest
	version            string
	definition         *models.Definition
	localDefinitionID  string
	installedPackageID string
	installedRecord    *secondary.InstalledPackageRecord
}

// Install runs the full installation sequence for a package into a
// workspace. Pre-checks fail fast before any attempt record exists; step
// failures are recorded on the attempt and returned.
func (s *InstallerServiceImpl) Install(ctx context.Context, req primary.InstallRequest) (*primary.InstallResponse, error) {
	// 1. Validate the target workspace
	exists, err := s.installedRepo.WorkspaceExists(ctx, req.WorkspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to check workspace: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("workspace %s: %w", req.WorkspaceID, primary.ErrNotFound)
	}

	// 2. Validate the package and resolve the target version
	pkg, err := s.catalog.GetPackage(ctx, req.PackageID)
	if err != nil {
		return nil, err
	}
	if pkg.Status != models.PackageStatusPublished {
		return nil, fmt.Errorf("package %s is %s, not published: %w", pkg.ID, pkg.Status, primary.ErrInvalidState)
	}
	if pkg.DefinitionID == "" {
		return nil, fmt.Errorf("package %s has no definition: %w", pkg.ID, primary.ErrInvalidState)
	}

	version := req.Version
	if version == "" {
		version = pkg.LatestVersion
	}

	// 3. Reject if already installed. The uniqueness constraint re-checks
	// this at commit time for racing installers.
	existing, err := s.installedRepo.Find(ctx, req.WorkspaceID, req.PackageID)
	if err != nil {
		return nil, fmt.Errorf("failed to check installed packages: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("package %s already installed in workspace %s (version %s): %w",
			req.PackageID, req.WorkspaceID, existing.InstalledVersion, primary.ErrConflict)
	}

	// 4. Fail-fast pre-checks
	if err := s.preCheck(ctx, req, version); err != nil {
		return nil, err
	}

	def, err := s.catalog.GetDefinition(ctx, pkg.DefinitionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get definition: %w", err)
	}

	// 5. Create the attempt with its full pending step plan
	attemptID, err := s.attemptRepo.GetNextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate attempt ID: %w", err)
	}

	attempt := &secondary.AttemptRecord{
		ID:            attemptID,
		WorkspaceID:   req.WorkspaceID,
		PackageID:     req.PackageID,
		TargetVersion: version,
		Status:        string(install.StatusPending),
	}
	for i, step := range install.Steps() {
		attempt.Steps = append(attempt.Steps, secondary.StepRecord{
			Step:     string(step),
			Position: i,
			Status:   install.StepStatusPending,
		})
	}
	if err := s.attemptRepo.Create(ctx, attempt); err != nil {
		return nil, fmt.Errorf("failed to create attempt: %w", err)
	}

	// 6. Run the step sequence
	run := &installRun{
		attemptID:  attemptID,
		req:        req,
		version:    version,
		definition: def,
	}
	if err := s.runSteps(ctx, run); err != nil {
		return nil, err
	}

	return &primary.InstallResponse{
		InstallationID:   attemptID,
		InstalledPackage: toInstalledPackage(run.installedRecord),
	}, nil
}

// preCheck combines the dependency and conflict checks. A rejected check is
// returned as a PreCheckError carrying both results; ForceInstall overrides
// everything except blocking-severity conflicts. SkipDependencyCheck skips
// the combined check entirely.
func (s *InstallerServiceImpl) preCheck(ctx context.Context, req primary.InstallRequest, version string) error {
	if req.SkipDependencyCheck {
		return nil
	}

	check := primary.PreInstallCheck{}

	deps, err := s.depSvc.CheckDependencies(ctx, req.PackageID, req.WorkspaceID)
	if err != nil {
		return fmt.Errorf("dependency check failed: %w", err)
	}
	check.Dependencies = deps

	conflicts, err := s.conflictSvc.CheckConflicts(ctx, req.PackageID, req.WorkspaceID, version)
	if err != nil {
		return fmt.Errorf("conflict check failed: %w", err)
	}
	check.Conflicts = conflicts

	blocked := !deps.CanInstall || conflicts.HasConflicts
	if !blocked {
		return nil
	}
	if req.ForceInstall && conflicts.CanForceInstall {
		return nil
	}
	return &primary.PreCheckError{Check: check}
}

// runSteps executes the fixed step sequence, persisting every transition and
// emitting one progress event per step. Between steps it re-reads the
// persisted status so a concurrent Cancel stops the run at the next
// boundary.
func (s *InstallerServiceImpl) runSteps(ctx context.Context, run *installRun) error {
	steps := install.Steps()
	total := len(steps)

	for i, step := range steps {
		if i > 0 {
			status, err := s.attemptRepo.GetStatus(ctx, run.attemptID)
			if err != nil {
				return fmt.Errorf("failed to read attempt status: %w", err)
			}
			if install.Status(status) == install.StatusRolledBack {
				s.notifier.EmitCancelled(s.event(run, step, install.StatusRolledBack, install.Progress(i-1, total), "installation cancelled"))
				return fmt.Errorf("installation %s was cancelled", run.attemptID)
			}
		}

		progress := install.Progress(i, total)
		status := install.StatusFor(step)

		if err := s.attemptRepo.MarkStep(ctx, run.attemptID, string(step), install.StepStatusInProgress, ""); err != nil {
			return fmt.Errorf("failed to mark step: %w", err)
		}
		if err := s.attemptRepo.UpdateProgress(ctx, run.attemptID, string(status), string(step), progress); err != nil {
			return fmt.Errorf("failed to update progress: %w", err)
		}
		s.notifier.EmitProgress(s.event(run, step, status, progress, ""))

		if err := s.runStep(ctx, step, run); err != nil {
			stepErr := err.Error()
			if markErr := s.attemptRepo.MarkStep(ctx, run.attemptID, string(step), install.StepStatusFailed, stepErr); markErr != nil {
				return fmt.Errorf("failed to record step failure: %w", markErr)
			}
			if failErr := s.attemptRepo.MarkFailed(ctx, run.attemptID, stepErr); failErr != nil {
				return fmt.Errorf("failed to mark attempt failed: %w", failErr)
			}
			s.notifier.EmitError(s.event(run, step, install.StatusFailed, progress, stepErr))
			return fmt.Errorf("step %s failed: %w", step, err)
		}

		if err := s.attemptRepo.MarkStep(ctx, run.attemptID, string(step), install.StepStatusCompleted, ""); err != nil {
			return fmt.Errorf("failed to mark step: %w", err)
		}
	}

	s.notifier.EmitComplete(s.event(run, install.StepComplete, install.StatusCompleted, 100,
		fmt.Sprintf("installed %s@%s", run.definition.Name, run.version)))
	return nil
}

// runStep dispatches one unit of work.
func (s *InstallerServiceImpl) runStep(ctx context.Context, step install.Step, run *installRun) error {
	switch step {
	case install.StepPreCheck:
		return s.stepPreCheck(ctx, run)
	case install.StepValidatePermissions:
		return s.stepValidatePermissions(run)
	case install.StepCheckDependencies:
		return s.stepCheckDependencies(ctx, run)
	case install.StepCheckConflicts:
		return s.stepCheckConflicts(ctx, run)
	case install.StepCopyDefinition:
		return s.stepCopyDefinition(ctx, run)
	case install.StepInstallDependencies:
		// Dependencies are never auto-installed; the resolver already
		// confirmed the workspace satisfies them.
		return nil
	case install.StepConfigureAgent:
		return s.stepConfigureAgent(ctx, run)
	case install.StepVerifyInstallation:
		return s.stepVerifyInstallation(ctx, run)
	case install.StepComplete:
		return s.stepComplete(ctx, run)
	default:
		return fmt.Errorf("unknown installation step %s", step)
	}
}

// stepPreCheck re-validates the basics that were checked before the attempt
// existed: the workspace and the package must still be there.
func (s *InstallerServiceImpl) stepPreCheck(ctx context.Context, run *installRun) error {
	exists, err := s.installedRepo.WorkspaceExists(ctx, run.req.WorkspaceID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("workspace %s disappeared", run.req.WorkspaceID)
	}

	pkg, err := s.catalog.GetPackage(ctx, run.req.PackageID)
	if err != nil {
		return err
	}
	if pkg.Status != models.PackageStatusPublished {
		return fmt.Errorf("package %s is no longer published", pkg.ID)
	}
	return nil
}

// stepValidatePermissions rejects malformed permission declarations.
func (s *InstallerServiceImpl) stepValidatePermissions(run *installRun) error {
	seen := make(map[string]bool, len(run.definition.Permissions))
	for _, perm := range run.definition.Permissions {
		if perm == "" {
			return fmt.Errorf("definition declares an empty permission")
		}
		if seen[perm] {
			return fmt.Errorf("definition declares permission %q twice", perm)
		}
		seen[perm] = true
	}
	return nil
}

func (s *InstallerServiceImpl) stepCheckDependencies(ctx context.Context, run *installRun) error {
	if run.req.SkipDependencyCheck {
		return nil
	}
	result, err := s.depSvc.CheckDependencies(ctx, run.req.PackageID, run.req.WorkspaceID)
	if err != nil {
		return err
	}
	if !result.CanInstall && !run.req.ForceInstall {
		return fmt.Errorf("%d required dependencies missing, %d conflicts",
			len(result.MissingDependencies), len(result.Conflicts))
	}
	return nil
}

func (s *InstallerServiceImpl) stepCheckConflicts(ctx context.Context, run *installRun) error {
	if run.req.SkipDependencyCheck {
		return nil
	}
	result, err := s.conflictSvc.CheckConflicts(ctx, run.req.PackageID, run.req.WorkspaceID, run.version)
	if err != nil {
		return err
	}
	if !result.HasConflicts {
		return nil
	}
	if run.req.ForceInstall && result.CanForceInstall {
		return nil
	}
	return fmt.Errorf("%d conflicts detected: %s", len(result.Conflicts), result.Conflicts[0].Message)
}

// stepCopyDefinition runs the three installation mutations inside one
// transaction: copy the definition into the workspace, insert the
// installed-package row, bump the install counter. Either all three commit
// or none do.
func (s *InstallerServiceImpl) stepCopyDefinition(ctx context.Context, run *installRun) error {
	record := &secondary.InstalledPackageRecord{
		ID:               "IP-" + uuid.NewString(),
		WorkspaceID:      run.req.WorkspaceID,
		PackageID:        run.req.PackageID,
		InstalledVersion: run.version,
		AutoUpdate:       run.req.AutoUpdate,
	}

	err := s.transactor.WithTransaction(ctx, func(tx secondary.InstallTx) error {
		localID, err := tx.CopyDefinition(ctx, run.definition, run.req.WorkspaceID)
		if err != nil {
			return err
		}
		record.LocalDefinitionID = localID

		if err := tx.CreateInstalledPackage(ctx, record); err != nil {
			return err
		}
		return tx.IncrementInstallCount(ctx, run.req.PackageID)
	})
	if err != nil {
		return err
	}

	run.localDefinitionID = record.LocalDefinitionID
	run.installedPackageID = record.ID
	run.installedRecord = record

	if err := s.attemptRepo.SetInstalledPackage(ctx, run.attemptID, record.ID); err != nil {
		return fmt.Errorf("failed to record installed package: %w", err)
	}
	return nil
}

// stepConfigureAgent stamps the auto-update preference. The flag already
// rode in on the installed-package insert; this step exists so configuration
// failures surface under CONFIGURING rather than INSTALLING.
func (s *InstallerServiceImpl) stepConfigureAgent(ctx context.Context, run *installRun) error {
	if run.installedPackageID == "" {
		return fmt.Errorf("no installed package to configure")
	}
	return nil
}

// stepVerifyInstallation confirms the transaction's artifacts are readable.
func (s *InstallerServiceImpl) stepVerifyInstallation(ctx context.Context, run *installRun) error {
	rec, err := s.installedRepo.Find(ctx, run.req.WorkspaceID, run.req.PackageID)
	if err != nil {
		return err
	}
	if rec == nil {
		return fmt.Errorf("installed package row missing after transaction")
	}
	if _, err := s.defStore.Get(ctx, run.localDefinitionID); err != nil {
		return fmt.Errorf("definition copy missing after transaction: %w", err)
	}
	run.installedRecord = rec
	return nil
}

func (s *InstallerServiceImpl) stepComplete(ctx context.Context, run *installRun) error {
	if err := s.attemptRepo.MarkCompleted(ctx, run.attemptID); err != nil {
		return fmt.Errorf("failed to mark attempt completed: %w", err)
	}
	return nil
}

// Cancel cancels a non-terminal attempt, transitioning it to ROLLED_BACK.
// The step runner notices at the next boundary; artifacts of a cancelled
// attempt are removed by Rollback.
func (s *InstallerServiceImpl) Cancel(ctx context.Context, installationID string) error {
	status, err := s.attemptRepo.GetStatus(ctx, installationID)
	if err != nil {
		return err
	}

	if guard := install.CanCancel(install.Status(status)); !guard.Allowed {
		return fmt.Errorf("%s: %w", guard.Reason, primary.ErrInvalidState)
	}

	note := "cancelled"
	if actor := ctxutil.ActorFromContext(ctx); actor != "" {
		note = "cancelled by " + actor
	}
	if err := s.attemptRepo.MarkRolledBack(ctx, installationID, note); err != nil {
		return err
	}

	attempt, err := s.attemptRepo.GetByID(ctx, installationID)
	if err != nil {
		return err
	}
	s.notifier.EmitCancelled(secondary.InstallEvent{
		EventID:        uuid.NewString(),
		InstallationID: installationID,
		WorkspaceID:    attempt.WorkspaceID,
		PackageID:      attempt.PackageID,
		Step:           attempt.CurrentStep,
		Status:         string(install.StatusRolledBack),
		Progress:       attempt.Progress,
		Message:        note,
		OccurredAt:     time.Now().UTC().Format(time.RFC3339),
	})
	return nil
}

// Rollback rolls back a FAILED (or already ROLLED_BACK) attempt, deleting
// the installed package and local definition copy it produced. Safe to call
// repeatedly: absent artifacts are skipped.
func (s *InstallerServiceImpl) Rollback(ctx context.Context, installationID string) error {
	attempt, err := s.attemptRepo.GetByID(ctx, installationID)
	if err != nil {
		return err
	}

	if guard := install.CanRollback(install.Status(attempt.Status)); !guard.Allowed {
		return fmt.Errorf("%s: %w", guard.Reason, primary.ErrInvalidState)
	}

	// Remove whatever the attempt managed to create. The installed row may
	// already be gone from an earlier rollback or an uninstall.
	rec, err := s.installedRepo.Find(ctx, attempt.WorkspaceID, attempt.PackageID)
	if err != nil {
		return fmt.Errorf("failed to look up installed package: %w", err)
	}
	if rec != nil && rec.ID == attempt.InstalledPackageID {
		if err := s.installedRepo.Delete(ctx, rec.ID); err != nil {
			return fmt.Errorf("failed to delete installed package: %w", err)
		}
		if err := s.defStore.Delete(ctx, rec.LocalDefinitionID); err != nil {
			return fmt.Errorf("failed to delete definition copy: %w", err)
		}
	}

	note := "rolled back"
	if actor := ctxutil.ActorFromContext(ctx); actor != "" {
		note = "rolled back by " + actor
	}
	if err := s.attemptRepo.MarkRolledBack(ctx, installationID, note); err != nil {
		return err
	}

	s.notifier.EmitRollback(secondary.InstallEvent{
		EventID:        uuid.NewString(),
		InstallationID: installationID,
		WorkspaceID:    attempt.WorkspaceID,
		PackageID:      attempt.PackageID,
		Status:         string(install.StatusRolledBack),
		Progress:       attempt.Progress,
		Message:        note,
		OccurredAt:     time.Now().UTC().Format(time.RFC3339),
	})
	return nil
}

// GetStatus returns a read-only projection of an attempt.
func (s *InstallerServiceImpl) GetStatus(ctx context.Context, installationID string) (*primary.Installation, error) {
	attempt, err := s.attemptRepo.GetByID(ctx, installationID)
	if err != nil {
		return nil, err
	}
	return toInstallation(attempt), nil
}

// ListAttempts lists recent attempts for a workspace, newest first.
func (s *InstallerServiceImpl) ListAttempts(ctx context.Context, workspaceID string) ([]*primary.Installation, error) {
	attempts, err := s.attemptRepo.List(ctx, secondary.AttemptFilters{WorkspaceID: workspaceID})
	if err != nil {
		return nil, err
	}

	out := make([]*primary.Installation, 0, len(attempts))
	for _, attempt := range attempts {
		out = append(out, toInstallation(attempt))
	}
	return out, nil
}

// Uninstall removes an installed package and its workspace-local definition
// copy.
func (s *InstallerServiceImpl) Uninstall(ctx context.Context, workspaceID, packageID string) error {
	rec, err := s.installedRepo.Find(ctx, workspaceID, packageID)
	if err != nil {
		return fmt.Errorf("failed to look up installed package: %w", err)
	}
	if rec == nil {
		return fmt.Errorf("package %s is not installed in workspace %s: %w", packageID, workspaceID, primary.ErrNotFound)
	}

	if err := s.installedRepo.Delete(ctx, rec.ID); err != nil {
		return fmt.Errorf("failed to delete installed package: %w", err)
	}
	if err := s.defStore.Delete(ctx, rec.LocalDefinitionID); err != nil {
		return fmt.Errorf("failed to delete definition copy: %w", err)
	}
	return nil
}

// event builds one notification for the running attempt.
func (s *InstallerServiceImpl) event(run *installRun, step install.Step, status install.Status, progress int, message string) secondary.InstallEvent {
	return secondary.InstallEvent{
		EventID:        uuid.NewString(),
		InstallationID: run.attemptID,
		WorkspaceID:    run.req.WorkspaceID,
		PackageID:      run.req.PackageID,
		Step:           string(step),
		Status:         string(status),
		Progress:       progress,
		Message:        message,
		OccurredAt:     time.Now().UTC().Format(time.RFC3339),
	}
}

func toInstallation(attempt *secondary.AttemptRecord) *primary.Installation {
	inst := &primary.Installation{
		ID:                 attempt.ID,
		WorkspaceID:        attempt.WorkspaceID,
		PackageID:          attempt.PackageID,
		TargetVersion:      attempt.TargetVersion,
		Status:             attempt.Status,
		CurrentStep:        attempt.CurrentStep,
		Progress:           attempt.Progress,
		InstalledPackageID: attempt.InstalledPackageID,
		ErrorMessage:       attempt.ErrorMessage,
		StartedAt:          attempt.StartedAt,
		CompletedAt:        attempt.CompletedAt,
	}
	for _, step := range attempt.Steps {
		inst.Steps = append(inst.Steps, primary.InstallationStep{
			Step:        step.Step,
			Status:      step.Status,
			StartedAt:   step.StartedAt,
			CompletedAt: step.CompletedAt,
			Error:       step.Error,
		})
	}
	return inst
}

func toInstalledPackage(rec *secondary.InstalledPackageRecord) *primary.InstalledPackage {
	if rec == nil {
		return nil
	}
	return &primary.InstalledPackage{
		ID:                rec.ID,
		WorkspaceID:       rec.WorkspaceID,
		PackageID:         rec.PackageID,
		InstalledVersion:  rec.InstalledVersion,
		AutoUpdate:        rec.AutoUpdate,
		LocalDefinitionID: rec.LocalDefinitionID,
		CreatedAt:         rec.CreatedAt,
	}
}

// Ensure InstallerServiceImpl implements the interface
var _ primary.InstallerService = (*InstallerServiceImpl)(nil)
