// Package resolve contains the pure dependency classification logic.
// This is part of the Functional Core - no I/O, only pure functions.
//
// The classifier only reports what is missing or incompatible; it never
// installs anything on its own.
package resolve

import (
	"fmt"

	"github.com/example/depot/internal/core/semver"
)

// Dependency is one declared dependency of a candidate package.
type Dependency struct {
	AgentName    string
	VersionRange string
	Required     bool
	Description  string
}

// InstalledAgent is the classifier's view of one package already installed
// in the target workspace.
type InstalledAgent struct {
	PackageID string
	AgentName string
	Version   string
}

// ResolvedDependency is a declared dependency matched by an installed
// package whose version satisfies the range.
type ResolvedDependency struct {
	Dependency       Dependency
	PackageID        string
	InstalledVersion string
}

// DependencyConflict is a declared dependency matched by an installed
// package whose version does not satisfy the range.
type DependencyConflict struct {
	Dependency       Dependency
	Reason           string
	ConflictingAgent string
}

// Result is the outcome of classifying a candidate's dependencies against a
// workspace.
type Result struct {
	CanInstall            bool
	MissingDependencies   []Dependency
	InstalledDependencies []ResolvedDependency
	Conflicts             []DependencyConflict
	Suggestions           []string
}

// Classify walks the declared dependencies and sorts each one into
// satisfied, missing, or conflicting:
//
//   - no installed match + required: missing
//   - no installed match + optional: silently ignored
//   - match with satisfying version: installed
//   - match with non-satisfying version: conflict (upgrade suggestion when
//     the dependency is required)
//
// CanInstall is true when no required dependency is missing and no conflict
// involves a required dependency.
func Classify(deps []Dependency, installed []InstalledAgent) Result {
	byName := make(map[string]InstalledAgent, len(installed))
	for _, agent := range installed {
		byName[agent.AgentName] = agent
	}

	result := Result{CanInstall: true}

	for _, dep := range deps {
		agent, found := byName[dep.AgentName]
		if !found {
			if dep.Required {
				result.MissingDependencies = append(result.MissingDependencies, dep)
				result.CanInstall = false
				result.Suggestions = append(result.Suggestions,
					fmt.Sprintf("Required dependency %s is not installed in this workspace", dep.AgentName))
			}
			// Optional missing dependencies are not reported.
			result.Suggestions = append(result.Suggestions, installSuggestion(dep))
			continue
		}

		if semver.Satisfies(agent.Version, dep.VersionRange) {
			result.InstalledDependencies = append(result.InstalledDependencies, ResolvedDependency{
				Dependency:       dep,
				PackageID:        agent.PackageID,
				InstalledVersion: agent.Version,
			})
			continue
		}

		result.Conflicts = append(result.Conflicts, DependencyConflict{
			Dependency:       dep,
			Reason:           fmt.Sprintf("installed version %s does not satisfy required range %s", agent.Version, dep.VersionRange),
			ConflictingAgent: agent.AgentName,
		})
		if dep.Required {
			result.CanInstall = false
			result.Suggestions = append(result.Suggestions,
				fmt.Sprintf("Upgrade %s from %s to a version matching %s", dep.AgentName, agent.Version, dep.VersionRange))
		}
	}

	return result
}

func installSuggestion(dep Dependency) string {
	s := fmt.Sprintf("Install %s (%s)", dep.AgentName, displayRange(dep.VersionRange))
	if dep.Description != "" {
		s += ": " + dep.Description
	}
	return s
}

func displayRange(rng string) string {
	if rng == "" {
		return "any version"
	}
	return rng
}
