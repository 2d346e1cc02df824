// Package models contains the domain entities shared across layers.
// All database access is handled by the repositories in the adapters layer.
package models

// Package status constants
const (
	PackageStatusDraft     = "draft"
	PackageStatusPublished = "published"
	PackageStatusArchived  = "archived"
)

// Workspace status constants
const (
	WorkspaceStatusActive   = "active"
	WorkspaceStatusArchived = "archived"
)
