package walker_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/treesync/internal/syncer"
	"github.com/temirov/treesync/internal/walker"
)

type fakeRepositoryInspector struct {
	workingTreeRoots map[string]bool
	submodulePaths   map[string][]string
	updatedPaths     []string
	updateError      error
}

func (inspector *fakeRepositoryInspector) IsWorkingTreeRoot(_ context.Context, repositoryPath string) (bool, error) {
	return inspector.workingTreeRoots[repositoryPath], nil
}

func (inspector *fakeRepositoryInspector) UpdateSubmodules(_ context.Context, repositoryPath string) error {
	inspector.updatedPaths = append(inspector.updatedPaths, repositoryPath)
	return inspector.updateError
}

func (inspector *fakeRepositoryInspector) ListSubmodulePaths(_ context.Context, repositoryPath string) ([]string, error) {
	return inspector.submodulePaths[repositoryPath], nil
}

type fakeRepositoryProcessor struct {
	failingPaths   map[string]bool
	processedPaths []string
}

func (processor *fakeRepositoryProcessor) Process(_ context.Context, repositoryPath string) (syncer.Result, error) {
	processor.processedPaths = append(processor.processedPaths, repositoryPath)
	return syncer.Result{RepositoryPath: repositoryPath, Succeeded: !processor.failingPaths[repositoryPath]}, nil
}

type recordingWalkReporter struct {
	sectionMessages []string
	warningMessages []string
	errorMessages   []string
}

func (reporter *recordingWalkReporter) Sectionf(format string, arguments ...any) {
	reporter.sectionMessages = append(reporter.sectionMessages, fmt.Sprintf(format, arguments...))
}

func (reporter *recordingWalkReporter) Warningf(format string, arguments ...any) {
	reporter.warningMessages = append(reporter.warningMessages, fmt.Sprintf(format, arguments...))
}

func (reporter *recordingWalkReporter) Errorf(format string, arguments ...any) {
	reporter.errorMessages = append(reporter.errorMessages, fmt.Sprintf(format, arguments...))
}

type staticDiscoverer struct {
	repositoryPaths []string
	discoveryError  error
}

func (discoverer staticDiscoverer) Discover(string) ([]string, error) {
	return discoverer.repositoryPaths, discoverer.discoveryError
}

func newWalkService(testInstance *testing.T, inspector *fakeRepositoryInspector, processor *fakeRepositoryProcessor, reporter *recordingWalkReporter, discoverer walker.RepositoryDiscoverer) *walker.Service {
	testInstance.Helper()
	service, creationError := walker.NewService(walker.Dependencies{
		Inspector:  inspector,
		Processor:  processor,
		Reporter:   reporter,
		Discoverer: discoverer,
	})
	require.NoError(testInstance, creationError)
	return service
}

func TestWalkServiceConstructorValidation(testInstance *testing.T) {
	testCases := []struct {
		name          string
		dependencies  walker.Dependencies
		expectedError error
	}{
		{
			name:          "missing_inspector",
			dependencies:  walker.Dependencies{Processor: &fakeRepositoryProcessor{}, Reporter: &recordingWalkReporter{}},
			expectedError: walker.ErrRepositoryInspectorNotConfigured,
		},
		{
			name:          "missing_processor",
			dependencies:  walker.Dependencies{Inspector: &fakeRepositoryInspector{}, Reporter: &recordingWalkReporter{}},
			expectedError: walker.ErrRepositoryProcessorNotConfigured,
		},
		{
			name:          "missing_reporter",
			dependencies:  walker.Dependencies{Inspector: &fakeRepositoryInspector{}, Processor: &fakeRepositoryProcessor{}},
			expectedError: walker.ErrWalkReporterNotConfigured,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			_, creationError := walker.NewService(testCase.dependencies)
			require.ErrorIs(testInstance, creationError, testCase.expectedError)
		})
	}
}

func TestWalkRejectsMissingPath(testInstance *testing.T) {
	service := newWalkService(testInstance, &fakeRepositoryInspector{}, &fakeRepositoryProcessor{}, &recordingWalkReporter{}, staticDiscoverer{})

	_, blankError := service.Walk(context.Background(), " ", walker.TraversalModeRootSearch, 0)
	require.ErrorIs(testInstance, blankError, walker.ErrWalkPathRequired)

	_, missingError := service.Walk(context.Background(), filepath.Join(testInstance.TempDir(), "absent"), walker.TraversalModeRootSearch, 0)
	require.Error(testInstance, missingError)
}

func TestWalkProcessesWorkingTreeAndUpdatesSubmodules(testInstance *testing.T) {
	repositoryPath := testInstance.TempDir()
	inspector := &fakeRepositoryInspector{workingTreeRoots: map[string]bool{repositoryPath: true}}
	processor := &fakeRepositoryProcessor{}
	reporter := &recordingWalkReporter{}
	service := newWalkService(testInstance, inspector, processor, reporter, staticDiscoverer{})

	outcome, walkError := service.Walk(context.Background(), repositoryPath, walker.TraversalModeRootSearch, 0)
	require.NoError(testInstance, walkError)
	require.Equal(testInstance, 1, outcome.SynchronizedCount)
	require.Zero(testInstance, outcome.FailedCount)
	require.True(testInstance, outcome.Succeeded())
	require.Equal(testInstance, []string{repositoryPath}, processor.processedPaths)
	require.Equal(testInstance, []string{repositoryPath}, inspector.updatedPaths)
	require.Len(testInstance, reporter.sectionMessages, 1)
}

func TestWalkRecursesIntoExistingSubmodules(testInstance *testing.T) {
	repositoryPath := testInstance.TempDir()
	submodulePath := createRepository(testInstance, repositoryPath, "library")
	inspector := &fakeRepositoryInspector{
		workingTreeRoots: map[string]bool{repositoryPath: true, submodulePath: true},
		submodulePaths:   map[string][]string{repositoryPath: {"library", "tools"}},
	}
	processor := &fakeRepositoryProcessor{}
	reporter := &recordingWalkReporter{}
	service := newWalkService(testInstance, inspector, processor, reporter, staticDiscoverer{})

	outcome, walkError := service.Walk(context.Background(), repositoryPath, walker.TraversalModeRootSearch, 0)
	require.NoError(testInstance, walkError)
	require.Equal(testInstance, 2, outcome.SynchronizedCount)
	require.Equal(testInstance, []string{repositoryPath, submodulePath}, processor.processedPaths)
	require.Len(testInstance, reporter.warningMessages, 1)
	require.Contains(testInstance, reporter.warningMessages[0], "tools")
	require.Len(testInstance, reporter.sectionMessages, 2)
	require.False(testInstance, strings.HasPrefix(reporter.sectionMessages[0], " "))
	require.True(testInstance, strings.HasPrefix(reporter.sectionMessages[1], "  "))
}

func TestWalkWarnsWhenRecursedPathIsNotAWorkingTree(testInstance *testing.T) {
	directoryPath := testInstance.TempDir()
	reporter := &recordingWalkReporter{}
	service := newWalkService(testInstance, &fakeRepositoryInspector{}, &fakeRepositoryProcessor{}, reporter, staticDiscoverer{})

	outcome, walkError := service.Walk(context.Background(), directoryPath, walker.TraversalModeSubmoduleRecursion, 1)
	require.NoError(testInstance, walkError)
	require.Equal(testInstance, 1, outcome.FailedCount)
	require.Zero(testInstance, outcome.SynchronizedCount)
	require.Len(testInstance, reporter.warningMessages, 1)
	require.True(testInstance, strings.HasPrefix(reporter.warningMessages[0], "  "))
}

func TestWalkSearchesForNestedRepositories(testInstance *testing.T) {
	rootDirectory := testInstance.TempDir()
	firstRepository := createRepository(testInstance, rootDirectory, "alpha")
	secondRepository := createRepository(testInstance, rootDirectory, "beta")
	inspector := &fakeRepositoryInspector{workingTreeRoots: map[string]bool{firstRepository: true, secondRepository: true}}
	processor := &fakeRepositoryProcessor{}
	service := newWalkService(testInstance, inspector, processor, &recordingWalkReporter{}, staticDiscoverer{repositoryPaths: []string{firstRepository, secondRepository}})

	outcome, walkError := service.Walk(context.Background(), rootDirectory, walker.TraversalModeRootSearch, 0)
	require.NoError(testInstance, walkError)
	require.Equal(testInstance, 2, outcome.SynchronizedCount)
	require.Equal(testInstance, []string{firstRepository, secondRepository}, processor.processedPaths)
}

func TestWalkWarnsWhenNoRepositoriesFound(testInstance *testing.T) {
	rootDirectory := testInstance.TempDir()
	reporter := &recordingWalkReporter{}
	service := newWalkService(testInstance, &fakeRepositoryInspector{}, &fakeRepositoryProcessor{}, reporter, staticDiscoverer{})

	outcome, walkError := service.Walk(context.Background(), rootDirectory, walker.TraversalModeRootSearch, 0)
	require.NoError(testInstance, walkError)
	require.False(testInstance, outcome.Succeeded())
	require.Len(testInstance, reporter.warningMessages, 1)
}

func TestWalkCountsRepositoryFailuresWithoutAborting(testInstance *testing.T) {
	rootDirectory := testInstance.TempDir()
	failingRepository := createRepository(testInstance, rootDirectory, "broken")
	healthyRepository := createRepository(testInstance, rootDirectory, "healthy")
	inspector := &fakeRepositoryInspector{workingTreeRoots: map[string]bool{failingRepository: true, healthyRepository: true}}
	processor := &fakeRepositoryProcessor{failingPaths: map[string]bool{failingRepository: true}}
	service := newWalkService(testInstance, inspector, processor, &recordingWalkReporter{}, staticDiscoverer{repositoryPaths: []string{failingRepository, healthyRepository}})

	outcome, walkError := service.Walk(context.Background(), rootDirectory, walker.TraversalModeRootSearch, 0)
	require.NoError(testInstance, walkError)
	require.Equal(testInstance, 1, outcome.SynchronizedCount)
	require.Equal(testInstance, 1, outcome.FailedCount)
	require.Equal(testInstance, 2, outcome.AttemptedCount())
	require.True(testInstance, outcome.Succeeded())
}

func TestWalkSucceedsWhenEveryRepositoryFailsToSynchronize(testInstance *testing.T) {
	rootDirectory := testInstance.TempDir()
	failingRepository := createRepository(testInstance, rootDirectory, "broken")
	inspector := &fakeRepositoryInspector{workingTreeRoots: map[string]bool{failingRepository: true}}
	processor := &fakeRepositoryProcessor{failingPaths: map[string]bool{failingRepository: true}}
	service := newWalkService(testInstance, inspector, processor, &recordingWalkReporter{}, staticDiscoverer{repositoryPaths: []string{failingRepository}})

	outcome, walkError := service.Walk(context.Background(), rootDirectory, walker.TraversalModeRootSearch, 0)
	require.NoError(testInstance, walkError)
	require.Zero(testInstance, outcome.SynchronizedCount)
	require.Equal(testInstance, 1, outcome.FailedCount)
	require.True(testInstance, outcome.Succeeded())
}

func TestWalkReportsSubmoduleUpdateFailureAsWarning(testInstance *testing.T) {
	repositoryPath := testInstance.TempDir()
	inspector := &fakeRepositoryInspector{
		workingTreeRoots: map[string]bool{repositoryPath: true},
		updateError:      errors.New("network unreachable"),
	}
	reporter := &recordingWalkReporter{}
	service := newWalkService(testInstance, inspector, &fakeRepositoryProcessor{}, reporter, staticDiscoverer{})

	outcome, walkError := service.Walk(context.Background(), repositoryPath, walker.TraversalModeRootSearch, 0)
	require.NoError(testInstance, walkError)
	require.Equal(testInstance, 1, outcome.SynchronizedCount)
	require.Len(testInstance, reporter.warningMessages, 1)
}
