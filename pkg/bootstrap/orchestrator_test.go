package bootstrap

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"studyforge/pkg/config"
	"studyforge/pkg/github"
	"studyforge/pkg/registry"
)

// MockAPI is a mock implementation of github.API for testing
type MockAPI struct {
	mock.Mock
}

func (m *MockAPI) RepoExists(org, name string) (bool, error) {
	args := m.Called(org, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockAPI) CreateRepo(org string, opts github.CreateOptions) error {
	args := m.Called(org, opts)
	return args.Error(0)
}

func (m *MockAPI) BranchExists(org, name, branch string) (bool, error) {
	args := m.Called(org, name, branch)
	return args.Bool(0), args.Error(1)
}

func (m *MockAPI) GetPagesConfig(org, name string) (*github.PagesConfig, error) {
	args := m.Called(org, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*github.PagesConfig), args.Error(1)
}

func (m *MockAPI) ConfigurePages(org, name, branch, path string) (github.PagesStatus, error) {
	args := m.Called(org, name, branch, path)
	return args.Get(0).(github.PagesStatus), args.Error(1)
}

func (m *MockAPI) Dispatch(org, name, eventType string) error {
	args := m.Called(org, name, eventType)
	return args.Error(0)
}

// MockSyncer is a mock implementation of Syncer for testing
type MockSyncer struct {
	mock.Mock
}

func (m *MockSyncer) Run(org, name string) (bool, error) {
	args := m.Called(org, name)
	return args.Bool(0), args.Error(1)
}

// orchestratorTestConfig keeps the poll loops at a single instant attempt
// so tests never sleep.
func orchestratorTestConfig() config.BootstrapConfig {
	cfg := config.DefaultConfig().Bootstrap
	cfg.PollIntervalSeconds = 1
	cfg.WaitTimeoutSeconds = 1
	return cfg
}

func TestNewOrchestrator(t *testing.T) {
	api := &MockAPI{}
	sync := &MockSyncer{}

	orch := NewOrchestrator(api, sync, orchestratorTestConfig())

	assert.NotNil(t, orch)
}

func TestOrchestrator_Run_SkipsExistingRepo(t *testing.T) {
	api := &MockAPI{}
	sync := &MockSyncer{}
	orch := NewOrchestrator(api, sync, orchestratorTestConfig())

	api.On("RepoExists", "acme", "algebra-1").Return(true, nil).Once()

	batch := orch.Run([]registry.Entry{{Org: "acme", Name: "algebra-1"}})

	require.Len(t, batch.Results, 1)
	assert.Equal(t, StatusSkipped, batch.Results[0].Status)
	assert.Equal(t, 1, batch.Summary.Skipped)
	api.AssertNotCalled(t, "CreateRepo", mock.Anything, mock.Anything)
	api.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything, mock.Anything)
	sync.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
	api.AssertExpectations(t)
}

func TestOrchestrator_Run_CreatesAndEnablesPages(t *testing.T) {
	api := &MockAPI{}
	sync := &MockSyncer{}
	cfg := orchestratorTestConfig()
	orch := NewOrchestrator(api, sync, cfg)

	api.On("RepoExists", "acme", "algebra-1").Return(false, nil).Once()
	api.On("CreateRepo", "acme", github.CreateOptions{
		Name:        "algebra-1",
		Description: "Algebra I",
	}).Return(nil).Once()
	// Readiness check after creation
	api.On("RepoExists", "acme", "algebra-1").Return(true, nil).Once()
	sync.On("Run", "acme", "algebra-1").Return(true, nil).Once()
	api.On("Dispatch", "acme", "algebra-1", cfg.SiteEvent).Return(nil).Once()
	api.On("Dispatch", "acme", "algebra-1", cfg.ReadmeEvent).Return(nil).Once()
	api.On("BranchExists", "acme", "algebra-1", "gh-pages").Return(true, nil).Once()
	api.On("ConfigurePages", "acme", "algebra-1", "gh-pages", "/").Return(github.PagesEnabled, nil).Once()

	batch := orch.Run([]registry.Entry{{Org: "acme", Name: "algebra-1", Title: "Algebra I"}})

	require.Len(t, batch.Results, 1)
	result := batch.Results[0]
	assert.Equal(t, StatusCreated, result.Status)
	assert.Equal(t, OutcomeEnabled, result.Outcome)
	assert.True(t, result.Pushed)
	assert.Equal(t, Summary{Total: 1, Created: 1}, batch.Summary)
	api.AssertExpectations(t)
	sync.AssertExpectations(t)
}

func TestOrchestrator_Run_NormalizesEntryName(t *testing.T) {
	api := &MockAPI{}
	sync := &MockSyncer{}
	orch := NewOrchestrator(api, sync, orchestratorTestConfig())

	api.On("RepoExists", "acme", "stats-honors-").Return(true, nil).Once()

	batch := orch.Run([]registry.Entry{{Org: "acme", Name: "stats(honors)"}})

	require.Len(t, batch.Results, 1)
	assert.Equal(t, "acme/stats-honors-", batch.Results[0].FullName())
	api.AssertExpectations(t)
}

func TestOrchestrator_Run_ContinuesAfterFailure(t *testing.T) {
	api := &MockAPI{}
	sync := &MockSyncer{}
	cfg := orchestratorTestConfig()
	orch := NewOrchestrator(api, sync, cfg)

	boom := errors.New("boom")
	api.On("RepoExists", "acme", "broken").Return(false, nil).Once()
	api.On("CreateRepo", "acme", mock.Anything).Return(boom).Once()

	api.On("RepoExists", "acme", "fine").Return(false, nil).Once()
	api.On("CreateRepo", "acme", mock.Anything).Return(nil).Once()
	api.On("RepoExists", "acme", "fine").Return(true, nil).Once()
	sync.On("Run", "acme", "fine").Return(true, nil).Once()
	api.On("Dispatch", "acme", "fine", mock.Anything).Return(nil).Twice()
	api.On("BranchExists", "acme", "fine", "gh-pages").Return(true, nil).Once()
	api.On("ConfigurePages", "acme", "fine", "gh-pages", "/").Return(github.PagesEnabled, nil).Once()

	batch := orch.Run([]registry.Entry{
		{Org: "acme", Name: "broken"},
		{Org: "acme", Name: "fine"},
	})

	require.Len(t, batch.Results, 2)
	assert.Equal(t, StatusFailed, batch.Results[0].Status)
	assert.ErrorIs(t, batch.Results[0].Err, boom)
	assert.Equal(t, StatusCreated, batch.Results[1].Status)
	assert.Equal(t, Summary{Total: 2, Created: 1, Failed: 1}, batch.Summary)
	assert.True(t, batch.HasFailures())
	require.Len(t, batch.Failed(), 1)
	assert.Equal(t, "acme/broken", batch.Failed()[0].FullName())
	api.AssertExpectations(t)
}

func TestOrchestrator_Run_DispatchOnlyWithoutPush(t *testing.T) {
	api := &MockAPI{}
	sync := &MockSyncer{}
	cfg := orchestratorTestConfig()
	cfg.AlwaysDispatch = false
	orch := NewOrchestrator(api, sync, cfg)

	api.On("RepoExists", "acme", "algebra-1").Return(false, nil).Once()
	api.On("CreateRepo", "acme", mock.Anything).Return(nil).Once()
	api.On("RepoExists", "acme", "algebra-1").Return(true, nil).Once()
	sync.On("Run", "acme", "algebra-1").Return(true, nil).Once()
	api.On("BranchExists", "acme", "algebra-1", "gh-pages").Return(true, nil).Once()
	api.On("ConfigurePages", "acme", "algebra-1", "gh-pages", "/").Return(github.PagesEnabled, nil).Once()

	orch.Run([]registry.Entry{{Org: "acme", Name: "algebra-1"}})

	api.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything, mock.Anything)
	api.AssertExpectations(t)
}

func TestOrchestrator_Run_DispatchFallbackOnNoopSync(t *testing.T) {
	api := &MockAPI{}
	sync := &MockSyncer{}
	cfg := orchestratorTestConfig()
	cfg.AlwaysDispatch = false
	orch := NewOrchestrator(api, sync, cfg)

	api.On("RepoExists", "acme", "algebra-1").Return(false, nil).Once()
	api.On("CreateRepo", "acme", mock.Anything).Return(nil).Once()
	api.On("RepoExists", "acme", "algebra-1").Return(true, nil).Once()
	sync.On("Run", "acme", "algebra-1").Return(false, nil).Once()
	api.On("Dispatch", "acme", "algebra-1", cfg.SiteEvent).Return(nil).Once()
	api.On("Dispatch", "acme", "algebra-1", cfg.ReadmeEvent).Return(nil).Once()
	api.On("BranchExists", "acme", "algebra-1", "gh-pages").Return(true, nil).Once()
	api.On("ConfigurePages", "acme", "algebra-1", "gh-pages", "/").Return(github.PagesEnabled, nil).Once()

	batch := orch.Run([]registry.Entry{{Org: "acme", Name: "algebra-1"}})

	assert.False(t, batch.Results[0].Pushed)
	api.AssertExpectations(t)
}

func TestOrchestrator_Run_DispatchFailureFailsEntry(t *testing.T) {
	api := &MockAPI{}
	sync := &MockSyncer{}
	cfg := orchestratorTestConfig()
	orch := NewOrchestrator(api, sync, cfg)

	boom := errors.New("dispatch rejected")
	api.On("RepoExists", "acme", "algebra-1").Return(false, nil).Once()
	api.On("CreateRepo", "acme", mock.Anything).Return(nil).Once()
	api.On("RepoExists", "acme", "algebra-1").Return(true, nil).Once()
	sync.On("Run", "acme", "algebra-1").Return(true, nil).Once()
	api.On("Dispatch", "acme", "algebra-1", cfg.SiteEvent).Return(boom).Once()

	batch := orch.Run([]registry.Entry{{Org: "acme", Name: "algebra-1"}})

	require.Len(t, batch.Results, 1)
	assert.Equal(t, StatusFailed, batch.Results[0].Status)
	assert.ErrorIs(t, batch.Results[0].Err, boom)
	api.AssertNotCalled(t, "BranchExists", mock.Anything, mock.Anything, mock.Anything)
	api.AssertExpectations(t)
}

func TestOrchestrator_Run_BranchTimeoutIsOutcome(t *testing.T) {
	api := &MockAPI{}
	sync := &MockSyncer{}
	orch := NewOrchestrator(api, sync, orchestratorTestConfig())

	api.On("RepoExists", "acme", "algebra-1").Return(false, nil).Once()
	api.On("CreateRepo", "acme", mock.Anything).Return(nil).Once()
	api.On("RepoExists", "acme", "algebra-1").Return(true, nil).Once()
	sync.On("Run", "acme", "algebra-1").Return(true, nil).Once()
	api.On("Dispatch", "acme", "algebra-1", mock.Anything).Return(nil).Twice()
	api.On("BranchExists", "acme", "algebra-1", "gh-pages").Return(false, nil)

	batch := orch.Run([]registry.Entry{{Org: "acme", Name: "algebra-1"}})

	require.Len(t, batch.Results, 1)
	result := batch.Results[0]
	assert.Equal(t, StatusCreated, result.Status)
	assert.Equal(t, OutcomeTimeoutBranch, result.Outcome)
	assert.NoError(t, result.Err)
	assert.False(t, batch.HasFailures())
	api.AssertNotCalled(t, "ConfigurePages", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	api.AssertExpectations(t)
}

func TestOrchestrator_Run_PagesTimeoutIsOutcome(t *testing.T) {
	api := &MockAPI{}
	sync := &MockSyncer{}
	orch := NewOrchestrator(api, sync, orchestratorTestConfig())

	api.On("RepoExists", "acme", "algebra-1").Return(false, nil).Once()
	api.On("CreateRepo", "acme", mock.Anything).Return(nil).Once()
	api.On("RepoExists", "acme", "algebra-1").Return(true, nil).Once()
	sync.On("Run", "acme", "algebra-1").Return(true, nil).Once()
	api.On("Dispatch", "acme", "algebra-1", mock.Anything).Return(nil).Twice()
	api.On("BranchExists", "acme", "algebra-1", "gh-pages").Return(true, nil).Once()
	api.On("ConfigurePages", "acme", "algebra-1", "gh-pages", "/").Return(github.PagesNotReady, nil)

	batch := orch.Run([]registry.Entry{{Org: "acme", Name: "algebra-1"}})

	result := batch.Results[0]
	assert.Equal(t, StatusCreated, result.Status)
	assert.Equal(t, OutcomeTimeoutPages, result.Outcome)
	assert.False(t, batch.HasFailures())
	api.AssertExpectations(t)
}

func TestOrchestrator_Run_PagesAlreadyCorrectIsNoop(t *testing.T) {
	api := &MockAPI{}
	sync := &MockSyncer{}
	orch := NewOrchestrator(api, sync, orchestratorTestConfig())

	api.On("RepoExists", "acme", "algebra-1").Return(false, nil).Once()
	api.On("CreateRepo", "acme", mock.Anything).Return(nil).Once()
	api.On("RepoExists", "acme", "algebra-1").Return(true, nil).Once()
	sync.On("Run", "acme", "algebra-1").Return(true, nil).Once()
	api.On("Dispatch", "acme", "algebra-1", mock.Anything).Return(nil).Twice()
	api.On("BranchExists", "acme", "algebra-1", "gh-pages").Return(true, nil).Once()
	api.On("ConfigurePages", "acme", "algebra-1", "gh-pages", "/").Return(github.PagesAlreadyCorrect, nil).Once()

	batch := orch.Run([]registry.Entry{{Org: "acme", Name: "algebra-1"}})

	assert.Equal(t, OutcomeNoop, batch.Results[0].Outcome)
	api.AssertExpectations(t)
}

func TestOrchestrator_Run_InvalidEntryFailsWithoutAPICalls(t *testing.T) {
	api := &MockAPI{}
	sync := &MockSyncer{}
	orch := NewOrchestrator(api, sync, orchestratorTestConfig())

	batch := orch.Run([]registry.Entry{{Org: "", Name: ""}})

	require.Len(t, batch.Results, 1)
	assert.Equal(t, StatusFailed, batch.Results[0].Status)
	var verrs registry.ValidationErrors
	assert.ErrorAs(t, batch.Results[0].Err, &verrs)
	api.AssertNotCalled(t, "RepoExists", mock.Anything, mock.Anything)
}

func TestOrchestrator_Run_SyncFailureFailsEntry(t *testing.T) {
	api := &MockAPI{}
	sync := &MockSyncer{}
	orch := NewOrchestrator(api, sync, orchestratorTestConfig())

	boom := errors.New("clone failed")
	api.On("RepoExists", "acme", "algebra-1").Return(false, nil).Once()
	api.On("CreateRepo", "acme", mock.Anything).Return(nil).Once()
	api.On("RepoExists", "acme", "algebra-1").Return(true, nil).Once()
	sync.On("Run", "acme", "algebra-1").Return(false, boom).Once()

	batch := orch.Run([]registry.Entry{{Org: "acme", Name: "algebra-1"}})

	assert.Equal(t, StatusFailed, batch.Results[0].Status)
	assert.ErrorIs(t, batch.Results[0].Err, boom)
	api.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrchestrator_Plan(t *testing.T) {
	api := &MockAPI{}
	sync := &MockSyncer{}
	orch := NewOrchestrator(api, sync, orchestratorTestConfig())

	api.On("RepoExists", "acme", "existing").Return(true, nil).Once()
	api.On("RepoExists", "acme", "new").Return(false, nil).Once()
	api.On("RepoExists", "acme", "flaky").Return(false, errors.New("api down")).Once()

	items := orch.Plan([]registry.Entry{
		{Org: "acme", Name: "existing"},
		{Org: "acme", Name: "new"},
		{Org: "", Name: "invalid"},
		{Org: "acme", Name: "flaky"},
	})

	require.Len(t, items, 4)
	assert.Equal(t, PlanSkip, items[0].Action)
	assert.Equal(t, PlanCreate, items[1].Action)
	assert.Equal(t, PlanInvalid, items[2].Action)
	assert.Error(t, items[2].Err)
	assert.Equal(t, PlanUnknown, items[3].Action)
	assert.Error(t, items[3].Err)
	api.AssertExpectations(t)
	sync.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
}
