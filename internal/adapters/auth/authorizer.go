// Package auth contains the configuration-backed workspace authorizer.
package auth

import (
	"context"
	"fmt"

	"github.com/example/depot/internal/ports/secondary"
)

// RoleLookup resolves the role an actor holds in a workspace. The CLI backs
// this with the local configuration; a server deployment would back it with
// a membership table.
type RoleLookup func(workspaceID, actorID string) (string, error)

// Authorizer implements secondary.MembershipAuthorizer over a RoleLookup.
type Authorizer struct {
	lookup RoleLookup
}

// NewAuthorizer creates an authorizer backed by the given role lookup.
func NewAuthorizer(lookup RoleLookup) *Authorizer {
	return &Authorizer{lookup: lookup}
}

// AssertRole returns an error unless the actor holds one of the allowed
// roles in the workspace.
func (a *Authorizer) AssertRole(ctx context.Context, workspaceID, actorID string, allowedRoles []string) error {
	if actorID == "" {
		return fmt.Errorf("no actor identity; run 'depot init' first")
	}

	role, err := a.lookup(workspaceID, actorID)
	if err != nil {
		return fmt.Errorf("failed to resolve role for %s in %s: %w", actorID, workspaceID, err)
	}

	for _, allowed := range allowedRoles {
		if role == allowed {
			return nil
		}
	}

	return fmt.Errorf("actor %s holds role %s in workspace %s; requires one of %v",
		actorID, role, workspaceID, allowedRoles)
}

// Ensure Authorizer implements the interface
var _ secondary.MembershipAuthorizer = (*Authorizer)(nil)
