package secondary

import "context"

// InstallEvent is one notification about an installation attempt. Events
// are fire-and-forget: delivery is best-effort, at most once per call,
// ordered per attempt, and never durable. A missed event must not leave the
// attempt record inconsistent, so nothing here returns an error.
type InstallEvent struct {
	EventID        string // unique per emission
	InstallationID string
	WorkspaceID    string
	PackageID      string
	Step           string
	Status         string
	Progress       int
	Message        string
	OccurredAt     string
}

// NotificationSink defines the secondary port for installation
// notifications.
type NotificationSink interface {
	// EmitProgress reports a step transition.
	EmitProgress(event InstallEvent)

	// EmitComplete reports a successful installation.
	EmitComplete(event InstallEvent)

	// EmitError reports a failed installation.
	EmitError(event InstallEvent)

	// EmitCancelled reports a cancelled installation.
	EmitCancelled(event InstallEvent)

	// EmitRollback reports a rollback.
	EmitRollback(event InstallEvent)
}

// MembershipAuthorizer defines the secondary port for workspace role
// checks. The request-handling layer calls AssertRole before invoking
// install, cancel, rollback, or uninstall; the services assume it passed.
type MembershipAuthorizer interface {
	// AssertRole returns an error unless the actor holds one of the
	// allowed roles in the workspace.
	AssertRole(ctx context.Context, workspaceID, actorID string, allowedRoles []string) error
}
