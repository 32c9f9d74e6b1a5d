package walker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/temirov/treesync/internal/syncer"
)

// TraversalMode distinguishes the initial repository search from recursion
// into repositories the walker already located.
type TraversalMode int

const (
	// TraversalModeRootSearch allows a bounded directory search when the
	// current path is not itself a working tree root.
	TraversalModeRootSearch TraversalMode = iota
	// TraversalModeSubmoduleRecursion marks paths the walker reached through
	// an enclosing repository; such paths are expected to be working trees.
	TraversalModeSubmoduleRecursion
)

const (
	repositoryInspectorMissingMessageText = "repository inspector not configured"
	repositoryProcessorMissingMessageText = "repository processor not configured"
	walkReporterMissingMessageText        = "walk reporter not configured"
	walkPathRequiredMessageText           = "walk path must be provided"
	walkPathTemplateConstant              = "path %s: %w"

	inspectionFailureTemplateConstant  = "failed to inspect %s: %v"
	processingFailureTemplateConstant  = "failed to process %s: %v"
	submoduleUpdateFailureTemplate     = "%sfailed to update submodules in %s: %v"
	submoduleListingFailureTemplate    = "%sfailed to list submodules in %s: %v"
	missingSubmoduleWarningTemplate    = "%ssubmodule %s declared in %s is missing on disk"
	notWorkingTreeWarningTemplate      = "%s%s is not a git working tree"
	noRepositoriesFoundWarningTemplate = "no git repositories found under %s"
	discoveryFailureTemplateConstant   = "failed to search %s for repositories: %v"
	repositorySectionTemplateConstant  = "%srepository %s"
	indentationUnitConstant            = "  "
)

// ErrRepositoryInspectorNotConfigured indicates the inspector dependency was missing.
var ErrRepositoryInspectorNotConfigured = errors.New(repositoryInspectorMissingMessageText)

// ErrRepositoryProcessorNotConfigured indicates the processor dependency was missing.
var ErrRepositoryProcessorNotConfigured = errors.New(repositoryProcessorMissingMessageText)

// ErrWalkReporterNotConfigured indicates the reporter dependency was missing.
var ErrWalkReporterNotConfigured = errors.New(walkReporterMissingMessageText)

// ErrWalkPathRequired indicates Walk received a blank path.
var ErrWalkPathRequired = errors.New(walkPathRequiredMessageText)

// RepositoryInspector answers the structural questions the walker asks about
// a path before and after processing it.
type RepositoryInspector interface {
	IsWorkingTreeRoot(executionContext context.Context, repositoryPath string) (bool, error)
	UpdateSubmodules(executionContext context.Context, repositoryPath string) error
	ListSubmodulePaths(executionContext context.Context, repositoryPath string) ([]string, error)
}

// RepositoryProcessor synchronizes a single repository.
type RepositoryProcessor interface {
	Process(executionContext context.Context, repositoryPath string) (syncer.Result, error)
}

// WalkReporter receives traversal-level console output.
type WalkReporter interface {
	Sectionf(format string, arguments ...any)
	Warningf(format string, arguments ...any)
	Errorf(format string, arguments ...any)
}

// RepositoryDiscoverer locates working tree roots beneath a directory.
type RepositoryDiscoverer interface {
	Discover(startPath string) ([]string, error)
}

// Outcome aggregates the repositories touched during one traversal.
type Outcome struct {
	SynchronizedCount int
	FailedCount       int
}

// AttemptedCount returns how many repositories the traversal found and
// processed, successfully or not.
func (outcome Outcome) AttemptedCount() int {
	return outcome.SynchronizedCount + outcome.FailedCount
}

// Succeeded reports whether the traversal found at least one repository to
// process. Individual repository failures do not fail the traversal; only an
// empty search does.
func (outcome Outcome) Succeeded() bool {
	return outcome.AttemptedCount() > 0
}

func (outcome Outcome) merge(other Outcome) Outcome {
	return Outcome{
		SynchronizedCount: outcome.SynchronizedCount + other.SynchronizedCount,
		FailedCount:       outcome.FailedCount + other.FailedCount,
	}
}

// Dependencies enumerates the collaborators required by the tree walker.
type Dependencies struct {
	Inspector  RepositoryInspector
	Processor  RepositoryProcessor
	Reporter   WalkReporter
	Discoverer RepositoryDiscoverer
}

// Service walks a directory tree and synchronizes every repository it finds.
type Service struct {
	inspector  RepositoryInspector
	processor  RepositoryProcessor
	reporter   WalkReporter
	discoverer RepositoryDiscoverer
}

// NewService constructs a Service from the provided dependencies. A missing
// discoverer falls back to the default bounded discoverer.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.Inspector == nil {
		return nil, ErrRepositoryInspectorNotConfigured
	}
	if dependencies.Processor == nil {
		return nil, ErrRepositoryProcessorNotConfigured
	}
	if dependencies.Reporter == nil {
		return nil, ErrWalkReporterNotConfigured
	}

	discoverer := dependencies.Discoverer
	if discoverer == nil {
		discoverer = NewBoundedRepositoryDiscoverer()
	}

	return &Service{
		inspector:  dependencies.Inspector,
		processor:  dependencies.Processor,
		reporter:   dependencies.Reporter,
		discoverer: discoverer,
	}, nil
}

// Walk synchronizes the repository rooted at walkPath, or searches beneath it
// when it is not a working tree and the mode allows searching. Repository
// failures are reported and counted; only unusable paths surface as errors.
func (service *Service) Walk(executionContext context.Context, walkPath string, mode TraversalMode, depth int) (Outcome, error) {
	trimmedWalkPath := strings.TrimSpace(walkPath)
	if len(trimmedWalkPath) == 0 {
		return Outcome{}, ErrWalkPathRequired
	}

	pathInformation, statError := os.Stat(trimmedWalkPath)
	if statError != nil {
		return Outcome{}, fmt.Errorf(walkPathTemplateConstant, trimmedWalkPath, statError)
	}
	if !pathInformation.IsDir() {
		return Outcome{}, fmt.Errorf(walkPathTemplateConstant, trimmedWalkPath, errNotADirectory)
	}

	workingTreeRoot, inspectionError := service.inspector.IsWorkingTreeRoot(executionContext, trimmedWalkPath)
	if inspectionError != nil {
		service.reporter.Errorf(inspectionFailureTemplateConstant, trimmedWalkPath, inspectionError)
		return Outcome{FailedCount: 1}, nil
	}

	if workingTreeRoot {
		return service.processRepository(executionContext, trimmedWalkPath, depth), nil
	}

	if mode == TraversalModeSubmoduleRecursion {
		service.reporter.Warningf(notWorkingTreeWarningTemplate, indentationForDepth(depth), trimmedWalkPath)
		return Outcome{FailedCount: 1}, nil
	}

	return service.searchForRepositories(executionContext, trimmedWalkPath, depth)
}

func (service *Service) processRepository(executionContext context.Context, repositoryPath string, depth int) Outcome {
	indentation := indentationForDepth(depth)
	service.reporter.Sectionf(repositorySectionTemplateConstant, indentation, repositoryPath)

	outcome := Outcome{}
	result, processError := service.processor.Process(executionContext, repositoryPath)
	switch {
	case processError != nil:
		service.reporter.Errorf(processingFailureTemplateConstant, repositoryPath, processError)
		outcome.FailedCount++
	case result.Succeeded:
		outcome.SynchronizedCount++
	default:
		outcome.FailedCount++
	}

	if updateError := service.inspector.UpdateSubmodules(executionContext, repositoryPath); updateError != nil {
		service.reporter.Warningf(submoduleUpdateFailureTemplate, indentation, repositoryPath, updateError)
	}

	submodulePaths, listingError := service.inspector.ListSubmodulePaths(executionContext, repositoryPath)
	if listingError != nil {
		service.reporter.Warningf(submoduleListingFailureTemplate, indentation, repositoryPath, listingError)
		return outcome
	}

	for _, submoduleRelativePath := range submodulePaths {
		submodulePath := filepath.Join(repositoryPath, submoduleRelativePath)
		if !directoryExists(submodulePath) {
			service.reporter.Warningf(missingSubmoduleWarningTemplate, indentation, submoduleRelativePath, repositoryPath)
			continue
		}

		childOutcome, childError := service.Walk(executionContext, submodulePath, TraversalModeSubmoduleRecursion, depth+1)
		if childError != nil {
			service.reporter.Errorf(processingFailureTemplateConstant, submodulePath, childError)
			outcome.FailedCount++
			continue
		}
		outcome = outcome.merge(childOutcome)
	}

	return outcome
}

func (service *Service) searchForRepositories(executionContext context.Context, searchPath string, depth int) (Outcome, error) {
	repositoryPaths, discoveryError := service.discoverer.Discover(searchPath)
	if discoveryError != nil {
		service.reporter.Errorf(discoveryFailureTemplateConstant, searchPath, discoveryError)
		return Outcome{FailedCount: 1}, nil
	}

	if len(repositoryPaths) == 0 {
		service.reporter.Warningf(noRepositoriesFoundWarningTemplate, searchPath)
		return Outcome{}, nil
	}

	outcome := Outcome{}
	for _, repositoryPath := range repositoryPaths {
		childOutcome, childError := service.Walk(executionContext, repositoryPath, TraversalModeSubmoduleRecursion, depth+1)
		if childError != nil {
			service.reporter.Errorf(processingFailureTemplateConstant, repositoryPath, childError)
			outcome.FailedCount++
			continue
		}
		outcome = outcome.merge(childOutcome)
	}

	return outcome, nil
}

var errNotADirectory = errors.New("not a directory")

func indentationForDepth(depth int) string {
	if depth <= 0 {
		return ""
	}
	return strings.Repeat(indentationUnitConstant, depth)
}

func directoryExists(directoryPath string) bool {
	pathInformation, statError := os.Stat(directoryPath)
	return statError == nil && pathInformation.IsDir()
}
