// Package conflict contains the pure conflict model for package installation.
// This is part of the Functional Core - no I/O, only value objects and the
// fixed severity policy that decides whether an install may be forced.
package conflict

// Type classifies what kind of collision was detected.
type Type string

const (
	TypeToolPermission Type = "tool_permission"
	TypeVersion        Type = "version"
	TypeResource       Type = "resource"
	TypeTrigger        Type = "trigger"
)

// Severity grades how serious a conflict is. The thresholds are fixed
// policy: anything high or critical blocks a forced install.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Blocking reports whether a conflict of this severity prevents a force
// install.
func (s Severity) Blocking() bool {
	return s == SeverityHigh || s == SeverityCritical
}

// Conflict is a computed, ephemeral description of one collision between the
// candidate package and the target workspace. Conflicts are never persisted.
type Conflict struct {
	Type                   Type
	Severity               Severity
	Message                string
	ConflictingPackageID   string
	ConflictingPackageName string
	Details                map[string]string
	Resolution             string
}

// CanForceInstall reports whether an installation may proceed with
// forceInstall given the detected conflicts: true only when no conflict is
// high or critical.
func CanForceInstall(conflicts []Conflict) bool {
	for _, c := range conflicts {
		if c.Severity.Blocking() {
			return false
		}
	}
	return true
}

// Warnings collects the messages of the low and medium conflicts.
// Blocking conflicts are never downgraded to warnings.
func Warnings(conflicts []Conflict) []string {
	var warnings []string
	for _, c := range conflicts {
		if !c.Severity.Blocking() {
			warnings = append(warnings, c.Message)
		}
	}
	return warnings
}

// Intersect returns the elements present in both string slices, preserving
// the order of the first. Used for tool and permission overlap checks.
func Intersect(a, b []string) []string {
	seen := make(map[string]bool, len(b))
	for _, s := range b {
		seen[s] = true
	}

	var out []string
	for _, s := range a {
		if seen[s] {
			out = append(out, s)
		}
	}
	return out
}
