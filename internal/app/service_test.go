package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gitquill/gitquill/internal/pkg/config"
	apperrors "github.com/gitquill/gitquill/internal/pkg/errors"
	"github.com/gitquill/gitquill/internal/pkg/history"
	"github.com/gitquill/gitquill/internal/pkg/ui"
)

// MockGitClient is a mock implementation of git.Client
type MockGitClient struct {
	mock.Mock
}

func (m *MockGitClient) IsRepository(ctx context.Context) bool {
	args := m.Called(ctx)
	return args.Bool(0)
}

func (m *MockGitClient) HasStagedChanges(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *MockGitClient) GetStagedDiff(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockGitClient) GetLastCommitDiff(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockGitClient) Commit(ctx context.Context, message string) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockGitClient) AmendLastMessage(ctx context.Context, message string) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockGitClient) Push(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockGitClient) HasRemote(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *MockGitClient) GetCurrentBranch(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// MockAIProvider is a mock implementation of ai.Provider
type MockAIProvider struct {
	mock.Mock
}

func (m *MockAIProvider) GenerateCommitMessage(ctx context.Context, diff string) (string, error) {
	args := m.Called(ctx, diff)
	return args.String(0), args.Error(1)
}

func (m *MockAIProvider) Name() string {
	args := m.Called()
	return args.String(0)
}

// MockUIManager is a mock implementation of ui.Manager
type MockUIManager struct {
	mock.Mock
}

func (m *MockUIManager) ShowSpinner(text string) ui.Spinner {
	args := m.Called(text)
	return args.Get(0).(ui.Spinner)
}

func (m *MockUIManager) ShowMessage(message string) {
	m.Called(message)
}

func (m *MockUIManager) ShowInfo(message string) {
	m.Called(message)
}

func (m *MockUIManager) ShowSuccess(message string) {
	m.Called(message)
}

func (m *MockUIManager) ShowWarning(message string) {
	m.Called(message)
}

func (m *MockUIManager) ShowError(err error) {
	m.Called(err)
}

// MockSpinner is a mock implementation of ui.Spinner
type MockSpinner struct {
	mock.Mock
}

func (m *MockSpinner) Start() {
	m.Called()
}

func (m *MockSpinner) Stop() {
	m.Called()
}

func (m *MockSpinner) UpdateText(text string) {
	m.Called(text)
}

// MockHistoryManager is a mock implementation of history.Manager
type MockHistoryManager struct {
	mock.Mock
}

func (m *MockHistoryManager) Save(entry *history.Entry) error {
	args := m.Called(entry)
	return args.Error(0)
}

func (m *MockHistoryManager) List(limit int) ([]*history.Entry, error) {
	args := m.Called(limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*history.Entry), args.Error(1)
}

func (m *MockHistoryManager) Clear() error {
	args := m.Called()
	return args.Error(0)
}

// fixture bundles the mocks behind a wired CommitService.
type fixture struct {
	gitClient  *MockGitClient
	aiProvider *MockAIProvider
	uiManager  *MockUIManager
	historyMgr *MockHistoryManager
	spinner    *MockSpinner
	service    *CommitService
}

func newFixture() *fixture {
	f := &fixture{
		gitClient:  &MockGitClient{},
		aiProvider: &MockAIProvider{},
		uiManager:  &MockUIManager{},
		historyMgr: &MockHistoryManager{},
		spinner:    &MockSpinner{},
	}
	cfg := &config.Config{
		Provider: config.ProviderConfig{Model: "test-model"},
		History:  config.HistoryConfig{Enabled: true},
	}
	f.service = NewCommitService(f.gitClient, f.aiProvider, f.uiManager, f.historyMgr, cfg)

	f.uiManager.On("ShowSpinner", mock.Anything).Return(f.spinner).Maybe()
	f.spinner.On("Start").Return().Maybe()
	f.spinner.On("Stop").Return().Maybe()

	return f
}

func TestRun_NotARepository(t *testing.T) {
	f := newFixture()
	f.gitClient.On("IsRepository", mock.Anything).Return(false)

	err := f.service.Run(context.Background(), ModeCommit, nil)

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrGitCommandFailed, apperrors.GetAppError(err).Code)
	f.gitClient.AssertNotCalled(t, "GetStagedDiff", mock.Anything)
}

func TestRun_EmptyDiffIsNoop(t *testing.T) {
	f := newFixture()
	f.gitClient.On("IsRepository", mock.Anything).Return(true)
	f.gitClient.On("HasStagedChanges", mock.Anything).Return(false, nil)
	f.uiManager.On("ShowInfo", "No staged changes found.").Return()

	err := f.service.Run(context.Background(), ModeCommit, nil)

	assert.NoError(t, err)
	f.aiProvider.AssertNotCalled(t, "GenerateCommitMessage", mock.Anything, mock.Anything)
	f.gitClient.AssertNotCalled(t, "GetStagedDiff", mock.Anything)
	f.gitClient.AssertNotCalled(t, "Commit", mock.Anything, mock.Anything)
	f.uiManager.AssertExpectations(t)
}

func TestRun_EmptyDiffIsNoopInPushMode(t *testing.T) {
	f := newFixture()
	f.gitClient.On("IsRepository", mock.Anything).Return(true)
	f.gitClient.On("HasStagedChanges", mock.Anything).Return(true, nil)
	f.gitClient.On("GetStagedDiff", mock.Anything).Return("   \n", nil)
	f.uiManager.On("ShowInfo", "No staged changes found.").Return()

	err := f.service.Run(context.Background(), ModeCommitAndPush, nil)

	assert.NoError(t, err)
	// The no-op wins over the remote check: nothing to commit means
	// nothing to push, with or without a remote.
	f.gitClient.AssertNotCalled(t, "HasRemote", mock.Anything)
	f.gitClient.AssertNotCalled(t, "Push", mock.Anything)
}

func TestRun_PushWithoutRemoteFailsBeforeGeneration(t *testing.T) {
	f := newFixture()
	f.gitClient.On("IsRepository", mock.Anything).Return(true)
	f.gitClient.On("HasStagedChanges", mock.Anything).Return(true, nil)
	f.gitClient.On("GetStagedDiff", mock.Anything).Return("diff content", nil)
	f.gitClient.On("HasRemote", mock.Anything).Return(false, nil)

	err := f.service.Run(context.Background(), ModeCommitAndPush, nil)

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrPushFailed, apperrors.GetAppError(err).Code)
	f.aiProvider.AssertNotCalled(t, "GenerateCommitMessage", mock.Anything, mock.Anything)
	f.gitClient.AssertNotCalled(t, "Commit", mock.Anything, mock.Anything)
	f.gitClient.AssertNotCalled(t, "Push", mock.Anything)
}

func TestRun_SuccessfulCommit(t *testing.T) {
	f := newFixture()
	f.gitClient.On("IsRepository", mock.Anything).Return(true)
	f.gitClient.On("HasStagedChanges", mock.Anything).Return(true, nil)
	f.gitClient.On("GetStagedDiff", mock.Anything).Return("diff --git a/x b/x", nil)
	f.aiProvider.On("GenerateCommitMessage", mock.Anything, "diff --git a/x b/x").Return("FEAT: add x", nil)
	f.gitClient.On("Commit", mock.Anything, "FEAT: add x").Return(nil)
	f.uiManager.On("ShowMessage", "FEAT: add x").Return()
	f.uiManager.On("ShowSuccess", mock.Anything).Return()
	f.historyMgr.On("Save", mock.MatchedBy(func(e *history.Entry) bool {
		return e.Message == "FEAT: add x" && e.Mode == "commit" && e.Committed && !e.Pushed
	})).Return(nil)

	err := f.service.Run(context.Background(), ModeCommit, nil)

	assert.NoError(t, err)
	f.gitClient.AssertExpectations(t)
	f.historyMgr.AssertExpectations(t)
}

func TestRun_GenerationFailureLeavesRepoUntouched(t *testing.T) {
	f := newFixture()
	f.gitClient.On("IsRepository", mock.Anything).Return(true)
	f.gitClient.On("HasStagedChanges", mock.Anything).Return(true, nil)
	f.gitClient.On("GetStagedDiff", mock.Anything).Return("diff content", nil)
	genErr := apperrors.NewGenerationExhaustedError(3, errors.New("api returned status 500"))
	f.aiProvider.On("GenerateCommitMessage", mock.Anything, mock.Anything).Return("", genErr)

	err := f.service.Run(context.Background(), ModeCommit, nil)

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrGenerationExhausted, apperrors.GetAppError(err).Code)
	f.gitClient.AssertNotCalled(t, "Commit", mock.Anything, mock.Anything)
}

func TestRun_CommitFailureSkipsPush(t *testing.T) {
	f := newFixture()
	f.gitClient.On("IsRepository", mock.Anything).Return(true)
	f.gitClient.On("HasRemote", mock.Anything).Return(true, nil)
	f.gitClient.On("HasStagedChanges", mock.Anything).Return(true, nil)
	f.gitClient.On("GetStagedDiff", mock.Anything).Return("diff content", nil)
	f.aiProvider.On("GenerateCommitMessage", mock.Anything, mock.Anything).Return("FIX: repair y", nil)
	commitErr := apperrors.NewCommitFailedError(errors.New("exit status 1"), "hook rejected")
	f.gitClient.On("Commit", mock.Anything, "FIX: repair y").Return(commitErr)
	f.uiManager.On("ShowMessage", mock.Anything).Return()
	f.historyMgr.On("Save", mock.Anything).Return(nil)

	err := f.service.Run(context.Background(), ModeCommitAndPush, nil)

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCommitFailed, apperrors.GetAppError(err).Code)
	f.gitClient.AssertNotCalled(t, "Push", mock.Anything)
}

func TestRun_PushFailureKeepsCommit(t *testing.T) {
	f := newFixture()
	f.gitClient.On("IsRepository", mock.Anything).Return(true)
	f.gitClient.On("HasRemote", mock.Anything).Return(true, nil)
	f.gitClient.On("HasStagedChanges", mock.Anything).Return(true, nil)
	f.gitClient.On("GetStagedDiff", mock.Anything).Return("diff content", nil)
	f.aiProvider.On("GenerateCommitMessage", mock.Anything, mock.Anything).Return("FEAT: add z", nil)
	f.gitClient.On("Commit", mock.Anything, "FEAT: add z").Return(nil)
	pushErr := apperrors.NewPushFailedError(errors.New("exit status 1"), "rejected: non-fast-forward")
	f.gitClient.On("Push", mock.Anything).Return(pushErr)
	f.uiManager.On("ShowMessage", mock.Anything).Return()
	f.uiManager.On("ShowSuccess", mock.Anything).Return()
	f.historyMgr.On("Save", mock.MatchedBy(func(e *history.Entry) bool {
		return e.Committed && !e.Pushed
	})).Return(nil)

	err := f.service.Run(context.Background(), ModeCommitAndPush, nil)

	require.Error(t, err)
	appErr := apperrors.GetAppError(err)
	assert.Equal(t, apperrors.ErrPushFailed, appErr.Code)
	assert.Contains(t, appErr.Message, "remains local")
	// No rollback: the commit is never undone
	f.gitClient.AssertNotCalled(t, "AmendLastMessage", mock.Anything, mock.Anything)
	f.historyMgr.AssertExpectations(t)
}

func TestRun_PushAfterSuccessfulCommit(t *testing.T) {
	f := newFixture()
	f.gitClient.On("IsRepository", mock.Anything).Return(true)
	f.gitClient.On("HasRemote", mock.Anything).Return(true, nil)
	f.gitClient.On("HasStagedChanges", mock.Anything).Return(true, nil)
	f.gitClient.On("GetStagedDiff", mock.Anything).Return("diff content", nil)
	f.aiProvider.On("GenerateCommitMessage", mock.Anything, mock.Anything).Return("FEAT: add z", nil)
	f.gitClient.On("Commit", mock.Anything, "FEAT: add z").Return(nil)
	f.gitClient.On("Push", mock.Anything).Return(nil)
	f.gitClient.On("GetCurrentBranch", mock.Anything).Return("main", nil)
	f.uiManager.On("ShowMessage", mock.Anything).Return()
	f.uiManager.On("ShowSuccess", mock.Anything).Return()
	f.historyMgr.On("Save", mock.MatchedBy(func(e *history.Entry) bool {
		return e.Mode == "push" && e.Committed && e.Pushed
	})).Return(nil)

	err := f.service.Run(context.Background(), ModeCommitAndPush, nil)

	assert.NoError(t, err)
	f.gitClient.AssertExpectations(t)
	f.historyMgr.AssertExpectations(t)
}

func TestRun_RegenerateAmendsLastCommit(t *testing.T) {
	f := newFixture()
	f.gitClient.On("IsRepository", mock.Anything).Return(true)
	f.gitClient.On("GetLastCommitDiff", mock.Anything).Return("diff of last commit", nil)
	f.aiProvider.On("GenerateCommitMessage", mock.Anything, "diff of last commit").Return("REFACTOR: simplify w", nil)
	f.gitClient.On("AmendLastMessage", mock.Anything, "REFACTOR: simplify w").Return(nil)
	f.uiManager.On("ShowMessage", mock.Anything).Return()
	f.uiManager.On("ShowSuccess", mock.Anything).Return()
	f.historyMgr.On("Save", mock.MatchedBy(func(e *history.Entry) bool {
		return e.Mode == "regenerate" && e.Committed
	})).Return(nil)

	err := f.service.Run(context.Background(), ModeRegenerate, nil)

	assert.NoError(t, err)
	f.gitClient.AssertNotCalled(t, "GetStagedDiff", mock.Anything)
	f.gitClient.AssertNotCalled(t, "Commit", mock.Anything, mock.Anything)
	f.gitClient.AssertExpectations(t)
}

func TestRun_RegenerateEmptyDiffIsNoop(t *testing.T) {
	f := newFixture()
	f.gitClient.On("IsRepository", mock.Anything).Return(true)
	f.gitClient.On("GetLastCommitDiff", mock.Anything).Return("", nil)
	f.uiManager.On("ShowInfo", mock.Anything).Return()

	err := f.service.Run(context.Background(), ModeRegenerate, nil)

	assert.NoError(t, err)
	f.gitClient.AssertNotCalled(t, "AmendLastMessage", mock.Anything, mock.Anything)
}

func TestRun_DryRunDoesNotCommit(t *testing.T) {
	f := newFixture()
	f.gitClient.On("IsRepository", mock.Anything).Return(true)
	f.gitClient.On("HasStagedChanges", mock.Anything).Return(true, nil)
	f.gitClient.On("GetStagedDiff", mock.Anything).Return("diff content", nil)
	f.aiProvider.On("GenerateCommitMessage", mock.Anything, mock.Anything).Return("DOCS: update readme", nil)
	f.uiManager.On("ShowMessage", "DOCS: update readme").Return()
	f.uiManager.On("ShowSuccess", mock.Anything).Return()
	f.historyMgr.On("Save", mock.MatchedBy(func(e *history.Entry) bool {
		return !e.Committed && !e.Pushed
	})).Return(nil)

	err := f.service.Run(context.Background(), ModeCommit, &RunOptions{DryRun: true})

	assert.NoError(t, err)
	f.gitClient.AssertNotCalled(t, "Commit", mock.Anything, mock.Anything)
}

func TestRun_DryRunWritesOutputFile(t *testing.T) {
	var writtenPath string
	var writtenContent []byte
	origWriteFile := writeFile
	writeFile = func(name string, data []byte, perm os.FileMode) error {
		writtenPath = name
		writtenContent = data
		return nil
	}
	defer func() { writeFile = origWriteFile }()

	f := newFixture()
	f.gitClient.On("IsRepository", mock.Anything).Return(true)
	f.gitClient.On("HasStagedChanges", mock.Anything).Return(true, nil)
	f.gitClient.On("GetStagedDiff", mock.Anything).Return("diff content", nil)
	f.aiProvider.On("GenerateCommitMessage", mock.Anything, mock.Anything).Return("CHORE: tidy deps", nil)
	f.uiManager.On("ShowMessage", mock.Anything).Return()
	f.uiManager.On("ShowSuccess", mock.Anything).Return()
	f.historyMgr.On("Save", mock.Anything).Return(nil)

	err := f.service.Run(context.Background(), ModeCommit, &RunOptions{DryRun: true, OutputFile: "msg.txt"})

	assert.NoError(t, err)
	assert.Equal(t, "msg.txt", writtenPath)
	assert.Equal(t, "CHORE: tidy deps\n", string(writtenContent))
}

func TestRun_HistoryFailureDoesNotFailTheRun(t *testing.T) {
	f := newFixture()
	f.gitClient.On("IsRepository", mock.Anything).Return(true)
	f.gitClient.On("HasStagedChanges", mock.Anything).Return(true, nil)
	f.gitClient.On("GetStagedDiff", mock.Anything).Return("diff content", nil)
	f.aiProvider.On("GenerateCommitMessage", mock.Anything, mock.Anything).Return("FEAT: add q", nil)
	f.gitClient.On("Commit", mock.Anything, mock.Anything).Return(nil)
	f.uiManager.On("ShowMessage", mock.Anything).Return()
	f.uiManager.On("ShowSuccess", mock.Anything).Return()
	f.uiManager.On("ShowWarning", mock.MatchedBy(func(msg string) bool {
		return fmt.Sprintf("%v", msg) != ""
	})).Return()
	f.historyMgr.On("Save", mock.Anything).Return(errors.New("disk full"))

	err := f.service.Run(context.Background(), ModeCommit, nil)

	assert.NoError(t, err)
	f.uiManager.AssertCalled(t, "ShowWarning", mock.Anything)
}

func TestRun_MessageWarningsAreShown(t *testing.T) {
	f := newFixture()
	f.gitClient.On("IsRepository", mock.Anything).Return(true)
	f.gitClient.On("HasStagedChanges", mock.Anything).Return(true, nil)
	f.gitClient.On("GetStagedDiff", mock.Anything).Return("diff content", nil)
	// No recognized TYPE prefix: a warning, not an error
	f.aiProvider.On("GenerateCommitMessage", mock.Anything, mock.Anything).Return("add retry with backoff", nil)
	f.gitClient.On("Commit", mock.Anything, "add retry with backoff").Return(nil)
	f.uiManager.On("ShowMessage", mock.Anything).Return()
	f.uiManager.On("ShowWarning", mock.Anything).Return()
	f.uiManager.On("ShowSuccess", mock.Anything).Return()
	f.historyMgr.On("Save", mock.Anything).Return(nil)

	err := f.service.Run(context.Background(), ModeCommit, nil)

	assert.NoError(t, err)
	f.uiManager.AssertCalled(t, "ShowWarning", mock.Anything)
}
