package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/example/depot/internal/models"
	"github.com/example/depot/internal/ports/primary"
	"github.com/example/depot/internal/ports/secondary"
)

// ============================================================================
// Mock Implementations
// ============================================================================

// mockCatalog implements secondary.PackageCatalog for testing.
type mockCatalog struct {
	packages    map[string]*secondary.PackageRecord
	definitions map[string]*models.Definition
	getErr      error
	nextID      int
}

func newMockCatalog() *mockCatalog {
	return &mockCatalog{
		packages:    make(map[string]*secondary.PackageRecord),
		definitions: make(map[string]*models.Definition),
	}
}

func (m *mockCatalog) GetPackage(ctx context.Context, id string) (*secondary.PackageRecord, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if pkg, ok := m.packages[id]; ok {
		return pkg, nil
	}
	return nil, fmt.Errorf("package %s: %w", id, primary.ErrNotFound)
}

func (m *mockCatalog) GetPackageByName(ctx context.Context, name string) (*secondary.PackageRecord, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, pkg := range m.packages {
		if pkg.Name == name {
			return pkg, nil
		}
	}
	return nil, fmt.Errorf("package %s: %w", name, primary.ErrNotFound)
}

func (m *mockCatalog) GetDefinition(ctx context.Context, definitionID string) (*models.Definition, error) {
	if def, ok := m.definitions[definitionID]; ok {
		return def, nil
	}
	return nil, fmt.Errorf("definition %s: %w", definitionID, primary.ErrNotFound)
}

func (m *mockCatalog) CreatePackage(ctx context.Context, pkg *secondary.PackageRecord) error {
	m.packages[pkg.ID] = pkg
	return nil
}

func (m *mockCatalog) CreateDefinition(ctx context.Context, def *models.Definition) error {
	m.definitions[def.ID] = def
	return nil
}

func (m *mockCatalog) UpdateLatestVersion(ctx context.Context, packageID, version, definitionID string) error {
	pkg, ok := m.packages[packageID]
	if !ok {
		return fmt.Errorf("package %s: %w", packageID, primary.ErrNotFound)
	}
	pkg.LatestVersion = version
	pkg.DefinitionID = definitionID
	return nil
}

func (m *mockCatalog) List(ctx context.Context, filters secondary.PackageFilters) ([]*secondary.PackageRecord, error) {
	var result []*secondary.PackageRecord
	for _, pkg := range m.packages {
		if filters.Status == "" || pkg.Status == filters.Status {
			result = append(result, pkg)
		}
	}
	return result, nil
}

func (m *mockCatalog) GetNextID(ctx context.Context) (string, error) {
	m.nextID++
	return fmt.Sprintf("PKG-%03d", m.nextID), nil
}

// addPackage registers a published package together with its master
// definition.
func (m *mockCatalog) addPackage(id, name, version string, def *models.Definition) {
	defID := "DEF-master-" + id
	def.ID = defID
	def.PackageID = id
	def.Name = name
	def.Version = version
	m.definitions[defID] = def
	m.packages[id] = &secondary.PackageRecord{
		ID:            id,
		Name:          name,
		LatestVersion: version,
		Status:        models.PackageStatusPublished,
		DefinitionID:  defID,
	}
}

// mockInstalledRepo implements secondary.InstalledPackageRepository for testing.
type mockInstalledRepo struct {
	records    map[string]*secondary.InstalledPackageRecord // keyed by workspace|package
	workspaces map[string]bool
	findErr    error
}

func newMockInstalledRepo() *mockInstalledRepo {
	return &mockInstalledRepo{
		records:    make(map[string]*secondary.InstalledPackageRecord),
		workspaces: map[string]bool{"WS-001": true},
	}
}

func installedKey(workspaceID, packageID string) string {
	return workspaceID + "|" + packageID
}

func (m *mockInstalledRepo) Find(ctx context.Context, workspaceID, packageID string) (*secondary.InstalledPackageRecord, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.records[installedKey(workspaceID, packageID)], nil
}

func (m *mockInstalledRepo) FindAllInWorkspace(ctx context.Context, workspaceID string) ([]*secondary.InstalledPackageRecord, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	var result []*secondary.InstalledPackageRecord
	for _, rec := range m.records {
		if rec.WorkspaceID == workspaceID {
			result = append(result, rec)
		}
	}
	return result, nil
}

func (m *mockInstalledRepo) Delete(ctx context.Context, id string) error {
	for key, rec := range m.records {
		if rec.ID == id {
			delete(m.records, key)
			return nil
		}
	}
	return fmt.Errorf("installed package %s: %w", id, primary.ErrNotFound)
}

func (m *mockInstalledRepo) WorkspaceExists(ctx context.Context, workspaceID string) (bool, error) {
	return m.workspaces[workspaceID], nil
}

func (m *mockInstalledRepo) add(rec *secondary.InstalledPackageRecord) {
	m.records[installedKey(rec.WorkspaceID, rec.PackageID)] = rec
}

// mockDefStore implements secondary.DefinitionStore for testing.
type mockDefStore struct {
	defs map[string]*models.Definition
}

func newMockDefStore() *mockDefStore {
	return &mockDefStore{defs: make(map[string]*models.Definition)}
}

func (m *mockDefStore) Get(ctx context.Context, definitionID string) (*models.Definition, error) {
	if def, ok := m.defs[definitionID]; ok {
		return def, nil
	}
	return nil, fmt.Errorf("definition %s: %w", definitionID, primary.ErrNotFound)
}

func (m *mockDefStore) Delete(ctx context.Context, definitionID string) error {
	delete(m.defs, definitionID)
	return nil
}

// mockAttemptRepo implements secondary.AttemptRepository for testing.
// onMarkStep, when set, fires after every step transition so tests can
// interleave concurrent operations with a running step sequence.
type mockAttemptRepo struct {
	attempts   map[string]*secondary.AttemptRecord
	nextID     int
	onMarkStep func(attemptID, step, status string)
}

func newMockAttemptRepo() *mockAttemptRepo {
	return &mockAttemptRepo{attempts: make(map[string]*secondary.AttemptRecord)}
}

func (m *mockAttemptRepo) Create(ctx context.Context, attempt *secondary.AttemptRecord) error {
	m.attempts[attempt.ID] = attempt
	return nil
}

func (m *mockAttemptRepo) GetByID(ctx context.Context, id string) (*secondary.AttemptRecord, error) {
	if attempt, ok := m.attempts[id]; ok {
		return attempt, nil
	}
	return nil, fmt.Errorf("attempt %s: %w", id, primary.ErrNotFound)
}

func (m *mockAttemptRepo) GetStatus(ctx context.Context, id string) (string, error) {
	attempt, err := m.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return attempt.Status, nil
}

func (m *mockAttemptRepo) List(ctx context.Context, filters secondary.AttemptFilters) ([]*secondary.AttemptRecord, error) {
	var result []*secondary.AttemptRecord
	for _, attempt := range m.attempts {
		if filters.WorkspaceID != "" && attempt.WorkspaceID != filters.WorkspaceID {
			continue
		}
		if filters.Status != "" && attempt.Status != filters.Status {
			continue
		}
		result = append(result, attempt)
	}
	return result, nil
}

func (m *mockAttemptRepo) UpdateProgress(ctx context.Context, id, status, currentStep string, progress int) error {
	attempt, err := m.GetByID(ctx, id)
	if err != nil {
		return err
	}
	attempt.Status = status
	attempt.CurrentStep = currentStep
	attempt.Progress = progress
	return nil
}

func (m *mockAttemptRepo) MarkStep(ctx context.Context, attemptID, step, status, stepErr string) error {
	attempt, err := m.GetByID(ctx, attemptID)
	if err != nil {
		return err
	}
	for i := range attempt.Steps {
		if attempt.Steps[i].Step == step {
			attempt.Steps[i].Status = status
			attempt.Steps[i].Error = stepErr
			switch status {
			case "in_progress":
				attempt.Steps[i].StartedAt = "2026-01-01T00:00:00Z"
			case "completed", "failed":
				attempt.Steps[i].CompletedAt = "2026-01-01T00:00:00Z"
			}
			if m.onMarkStep != nil {
				m.onMarkStep(attemptID, step, status)
			}
			return nil
		}
	}
	return fmt.Errorf("step %s: %w", step, primary.ErrNotFound)
}

func (m *mockAttemptRepo) SetInstalledPackage(ctx context.Context, id, installedPackageID string) error {
	attempt, err := m.GetByID(ctx, id)
	if err != nil {
		return err
	}
	attempt.InstalledPackageID = installedPackageID
	return nil
}

func (m *mockAttemptRepo) MarkCompleted(ctx context.Context, id string) error {
	return m.finish(ctx, id, "COMPLETED", "")
}

func (m *mockAttemptRepo) MarkFailed(ctx context.Context, id, errorMessage string) error {
	return m.finish(ctx, id, "FAILED", errorMessage)
}

func (m *mockAttemptRepo) MarkRolledBack(ctx context.Context, id, note string) error {
	return m.finish(ctx, id, "ROLLED_BACK", note)
}

func (m *mockAttemptRepo) finish(ctx context.Context, id, status, errorMessage string) error {
	attempt, err := m.GetByID(ctx, id)
	if err != nil {
		return err
	}
	attempt.Status = status
	attempt.ErrorMessage = errorMessage
	attempt.CompletedAt = "2026-01-01T00:00:00Z"
	return nil
}

func (m *mockAttemptRepo) GetNextID(ctx context.Context) (string, error) {
	m.nextID++
	return fmt.Sprintf("INST-%03d", m.nextID), nil
}

// mockTransactor implements secondary.InstallTransactor against the other
// mocks so committed mutations become visible to them, the way the SQLite
// transactor's commits do.
type mockTransactor struct {
	catalog   *mockCatalog
	installed *mockInstalledRepo
	defStore  *mockDefStore
	copyCount int
	txErr     error
}

func (m *mockTransactor) WithTransaction(ctx context.Context, fn func(tx secondary.InstallTx) error) error {
	if m.txErr != nil {
		return m.txErr
	}
	return fn(m)
}

func (m *mockTransactor) CopyDefinition(ctx context.Context, def *models.Definition, workspaceID string) (string, error) {
	m.copyCount++
	localID := fmt.Sprintf("DEF-local-%03d", m.copyCount)
	local := *def
	local.ID = localID
	local.WorkspaceID = workspaceID
	m.defStore.defs[localID] = &local
	return localID, nil
}

func (m *mockTransactor) CreateInstalledPackage(ctx context.Context, rec *secondary.InstalledPackageRecord) error {
	key := installedKey(rec.WorkspaceID, rec.PackageID)
	if _, exists := m.installed.records[key]; exists {
		return fmt.Errorf("package %s already installed: %w", rec.PackageID, primary.ErrConflict)
	}
	m.installed.records[key] = rec
	return nil
}

func (m *mockTransactor) IncrementInstallCount(ctx context.Context, packageID string) error {
	pkg, ok := m.catalog.packages[packageID]
	if !ok {
		return fmt.Errorf("package %s: %w", packageID, primary.ErrNotFound)
	}
	pkg.InstallCount++
	return nil
}

// recordingSink implements secondary.NotificationSink, capturing events in
// order.
type recordingSink struct {
	mu     sync.Mutex
	events []secondary.InstallEvent
	kinds  []string
}

func (r *recordingSink) record(kind string, event secondary.InstallEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.kinds = append(r.kinds, kind)
	r.events = append(r.events, event)
}

func (r *recordingSink) EmitProgress(event secondary.InstallEvent)  { r.record("progress", event) }
func (r *recordingSink) EmitComplete(event secondary.InstallEvent)  { r.record("complete", event) }
func (r *recordingSink) EmitError(event secondary.InstallEvent)     { r.record("error", event) }
func (r *recordingSink) EmitCancelled(event secondary.InstallEvent) { r.record("cancelled", event) }
func (r *recordingSink) EmitRollback(event secondary.InstallEvent)  { r.record("rollback", event) }

// ============================================================================
// Fixture assembly
// ============================================================================

// installerFixture wires an InstallerService against a full set of mocks.
type installerFixture struct {
	catalog   *mockCatalog
	installed *mockInstalledRepo
	defStore  *mockDefStore
	attempts  *mockAttemptRepo
	tx        *mockTransactor
	sink      *recordingSink
	service   *InstallerServiceImpl
}

func newInstallerFixture() *installerFixture {
	catalog := newMockCatalog()
	installed := newMockInstalledRepo()
	defStore := newMockDefStore()
	attempts := newMockAttemptRepo()
	tx := &mockTransactor{catalog: catalog, installed: installed, defStore: defStore}
	sink := &recordingSink{}

	depSvc := NewDependencyService(catalog, installed, defStore)
	conflictSvc := NewConflictService(catalog, installed, defStore)

	return &installerFixture{
		catalog:   catalog,
		installed: installed,
		defStore:  defStore,
		attempts:  attempts,
		tx:        tx,
		sink:      sink,
		service:   NewInstallerService(catalog, installed, defStore, attempts, tx, sink, depSvc, conflictSvc),
	}
}

// installPackage seeds an already-installed package into the fixture's
// workspace, with its local definition copy.
func (f *installerFixture) installPackage(workspaceID, packageID, name, version string, def *models.Definition) {
	localID := "DEF-local-seed-" + packageID
	local := *def
	local.ID = localID
	local.PackageID = packageID
	local.Name = name
	local.Version = version
	local.WorkspaceID = workspaceID
	f.defStore.defs[localID] = &local
	f.installed.add(&secondary.InstalledPackageRecord{
		ID:                "IP-seed-" + packageID,
		WorkspaceID:       workspaceID,
		PackageID:         packageID,
		InstalledVersion:  version,
		LocalDefinitionID: localID,
	})
}
