package models

// Trigger is one event subscription declared by a package definition.
type Trigger struct {
	Type  string `json:"type"`
	Event string `json:"event"`
}

// Dependency is one dependency declaration in a package definition.
type Dependency struct {
	Name         string `json:"name"`
	VersionRange string `json:"versionRange"`
	Required     bool   `json:"required"`
	Description  string `json:"description,omitempty"`
}

// Definition is the typed payload describing an agent package: its declared
// capabilities, triggers, and dependencies. The catalog holds one master
// copy per package (WorkspaceID empty); each install creates a
// workspace-local copy (WorkspaceID set). The capability lists are decoded
// once at the storage boundary; everything downstream is plain field access.
type Definition struct {
	ID           string
	PackageID    string
	WorkspaceID  string // empty = catalog master copy
	Name         string
	Version      string
	Description  string
	Tools        []string
	Permissions  []string
	Triggers     []Trigger
	Dependencies []Dependency
	CreatedAt    string
	UpdatedAt    string
}
