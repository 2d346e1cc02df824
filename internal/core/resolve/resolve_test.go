package resolve

import (
	"strings"
	"testing"
)

func TestClassify_AllSatisfied(t *testing.T) {
	deps := []Dependency{
		{AgentName: "summarizer", VersionRange: "^1.0.0", Required: true},
	}
	installed := []InstalledAgent{
		{PackageID: "PKG-001", AgentName: "summarizer", Version: "1.4.2"},
	}

	result := Classify(deps, installed)

	if !result.CanInstall {
		t.Error("expected CanInstall to be true")
	}
	if len(result.InstalledDependencies) != 1 {
		t.Fatalf("expected 1 installed dependency, got %d", len(result.InstalledDependencies))
	}
	if result.InstalledDependencies[0].InstalledVersion != "1.4.2" {
		t.Errorf("expected installed version 1.4.2, got %s", result.InstalledDependencies[0].InstalledVersion)
	}
	if len(result.MissingDependencies) != 0 {
		t.Errorf("expected no missing dependencies, got %v", result.MissingDependencies)
	}
}

func TestClassify_RequiredMissing(t *testing.T) {
	deps := []Dependency{
		{AgentName: "translator", VersionRange: ">=2.0.0", Required: true, Description: "Translates messages"},
	}

	result := Classify(deps, nil)

	if result.CanInstall {
		t.Error("expected CanInstall to be false")
	}
	if len(result.MissingDependencies) != 1 {
		t.Fatalf("expected 1 missing dependency, got %d", len(result.MissingDependencies))
	}
	if result.MissingDependencies[0].AgentName != "translator" {
		t.Errorf("expected missing dependency 'translator', got %s", result.MissingDependencies[0].AgentName)
	}
	if len(result.Suggestions) != 2 {
		t.Fatalf("expected 2 suggestions (missing + install line), got %v", result.Suggestions)
	}
	if !strings.Contains(result.Suggestions[1], "Install translator (>=2.0.0)") {
		t.Errorf("expected install suggestion, got %q", result.Suggestions[1])
	}
}

func TestClassify_OptionalMissingIsIgnored(t *testing.T) {
	deps := []Dependency{
		{AgentName: "formatter", VersionRange: "*", Required: false},
	}

	result := Classify(deps, nil)

	if !result.CanInstall {
		t.Error("optional missing dependency must not block install")
	}
	if len(result.MissingDependencies) != 0 {
		t.Errorf("optional missing dependency must not be reported as missing, got %v", result.MissingDependencies)
	}
	// The catch-all install suggestion is still produced.
	if len(result.Suggestions) != 1 {
		t.Fatalf("expected 1 suggestion, got %v", result.Suggestions)
	}
}

func TestClassify_VersionConflict(t *testing.T) {
	deps := []Dependency{
		{AgentName: "indexer", VersionRange: "^2.0.0", Required: true},
	}
	installed := []InstalledAgent{
		{PackageID: "PKG-007", AgentName: "indexer", Version: "1.8.0"},
	}

	result := Classify(deps, installed)

	if result.CanInstall {
		t.Error("required dependency conflict must block install")
	}
	if len(result.Conflicts) != 1 {
		t.Fatalf("expected 1 conflict, got %d", len(result.Conflicts))
	}
	c := result.Conflicts[0]
	if c.ConflictingAgent != "indexer" {
		t.Errorf("expected conflicting agent 'indexer', got %s", c.ConflictingAgent)
	}
	if !strings.Contains(c.Reason, "1.8.0") || !strings.Contains(c.Reason, "^2.0.0") {
		t.Errorf("expected reason to name version and range, got %q", c.Reason)
	}
	if len(result.Suggestions) != 1 || !strings.Contains(result.Suggestions[0], "Upgrade indexer") {
		t.Errorf("expected upgrade suggestion, got %v", result.Suggestions)
	}
}

func TestClassify_OptionalConflictDoesNotBlock(t *testing.T) {
	deps := []Dependency{
		{AgentName: "notifier", VersionRange: "~1.2.0", Required: false},
	}
	installed := []InstalledAgent{
		{PackageID: "PKG-003", AgentName: "notifier", Version: "1.3.0"},
	}

	result := Classify(deps, installed)

	if !result.CanInstall {
		t.Error("optional dependency conflict must not block install")
	}
	if len(result.Conflicts) != 1 {
		t.Errorf("optional conflicts are still reported, got %d", len(result.Conflicts))
	}
	if len(result.Suggestions) != 0 {
		t.Errorf("optional conflicts get no upgrade suggestion, got %v", result.Suggestions)
	}
}

func TestClassify_NoDependencies(t *testing.T) {
	result := Classify(nil, nil)

	if !result.CanInstall {
		t.Error("a package without dependencies is always installable")
	}
}
