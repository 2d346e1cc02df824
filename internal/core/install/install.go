// Package install contains the pure state machine for installation attempts:
// the fixed step sequence, the step-to-status mapping, progress math, and the
// guards for cancel and rollback. This is part of the Functional Core -
// no I/O, only pure functions.
package install

import "fmt"

// Status represents the lifecycle state of an installation attempt.
type Status string

const (
	StatusPending               Status = "PENDING"
	StatusValidating            Status = "VALIDATING"
	StatusResolvingDependencies Status = "RESOLVING_DEPENDENCIES"
	StatusDownloading           Status = "DOWNLOADING"
	StatusConfiguring           Status = "CONFIGURING"
	StatusInstalling            Status = "INSTALLING"
	StatusCompleted             Status = "COMPLETED"
	StatusFailed                Status = "FAILED"
	StatusRolledBack            Status = "ROLLED_BACK"
)

// IsTerminal reports whether an attempt in this status can never move again.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusRolledBack
}

// Step identifies one unit of work in the fixed installation sequence.
type Step string

const (
	StepPreCheck            Step = "PRE_CHECK"
	StepValidatePermissions Step = "VALIDATE_PERMISSIONS"
	StepCheckDependencies   Step = "CHECK_DEPENDENCIES"
	StepCheckConflicts      Step = "CHECK_CONFLICTS"
	StepCopyDefinition      Step = "COPY_DEFINITION"
	StepInstallDependencies Step = "INSTALL_DEPENDENCIES"
	StepConfigureAgent      Step = "CONFIGURE_AGENT"
	StepVerifyInstallation  Step = "VERIFY_INSTALLATION"
	StepComplete            Step = "COMPLETE"
)

// StepRecord status constants.
const (
	StepStatusPending    = "pending"
	StepStatusInProgress = "in_progress"
	StepStatusCompleted  = "completed"
	StepStatusFailed     = "failed"
)

// steps is the ordered, fixed installation sequence.
var steps = []Step{
	StepPreCheck,
	StepValidatePermissions,
	StepCheckDependencies,
	StepCheckConflicts,
	StepCopyDefinition,
	StepInstallDependencies,
	StepConfigureAgent,
	StepVerifyInstallation,
	StepComplete,
}

// Steps returns a copy of the ordered installation step sequence.
func Steps() []Step {
	out := make([]Step, len(steps))
	copy(out, steps)
	return out
}

// stepStatus maps each step to the attempt status it runs under.
var stepStatus = map[Step]Status{
	StepPreCheck:            StatusValidating,
	StepValidatePermissions: StatusValidating,
	StepCheckDependencies:   StatusResolvingDependencies,
	StepCheckConflicts:      StatusResolvingDependencies,
	StepCopyDefinition:      StatusDownloading,
	StepInstallDependencies: StatusInstalling,
	StepConfigureAgent:      StatusConfiguring,
	StepVerifyInstallation:  StatusInstalling,
	StepComplete:            StatusCompleted,
}

// StatusFor returns the attempt status corresponding to a step.
func StatusFor(step Step) Status {
	if s, ok := stepStatus[step]; ok {
		return s
	}
	return StatusPending
}

// Progress returns the percentage after entering step stepIndex (0-based)
// out of total steps: round(100 * (stepIndex+1) / total). The result is
// monotonically non-decreasing across the sequence and reaches 100 only on
// the final step.
func Progress(stepIndex, total int) int {
	if total <= 0 {
		return 0
	}
	return (100*(stepIndex+1) + total/2) / total
}

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string // Human-readable reason (populated when not allowed)
}

// Error returns the guard result as an error if not allowed, nil otherwise.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// CanCancel evaluates whether an attempt in the given status may be
// cancelled. Rule: terminal attempts cannot be cancelled.
func CanCancel(status Status) GuardResult {
	if status.IsTerminal() {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("cannot cancel an installation that is already %s", status),
		}
	}
	return GuardResult{Allowed: true}
}

// CanRollback evaluates whether an attempt in the given status may be rolled
// back. Rule: only FAILED or already ROLLED_BACK attempts are eligible;
// rolling back an already rolled back attempt is a safe no-op.
func CanRollback(status Status) GuardResult {
	if status != StatusFailed && status != StatusRolledBack {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("can only roll back a FAILED or ROLLED_BACK installation, not %s", status),
		}
	}
	return GuardResult{Allowed: true}
}
