package walker

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	gitMetadataEntryNameConstant  = ".git"
	defaultMaximumSearchDepth     = 3
	searchPathRequiredMessageText = "search path must be provided"
)

// ErrSearchPathRequired indicates Discover received a blank start path.
var ErrSearchPathRequired = errors.New(searchPathRequiredMessageText)

// BoundedRepositoryDiscoverer locates git working tree roots beneath a start
// directory without entering discovered repositories. MaximumDepth bounds the
// nesting level of the git metadata entry itself, so matching repository
// roots sit at most MaximumDepth-1 levels below the start path.
type BoundedRepositoryDiscoverer struct {
	MaximumDepth int
}

// NewBoundedRepositoryDiscoverer constructs a discoverer with the default
// three-level search depth.
func NewBoundedRepositoryDiscoverer() BoundedRepositoryDiscoverer {
	return BoundedRepositoryDiscoverer{MaximumDepth: defaultMaximumSearchDepth}
}

// Discover returns the sorted working tree roots found beneath startPath. The
// start path's own git metadata never qualifies as a match.
func (discoverer BoundedRepositoryDiscoverer) Discover(startPath string) ([]string, error) {
	trimmedStartPath := strings.TrimSpace(startPath)
	if len(trimmedStartPath) == 0 {
		return nil, ErrSearchPathRequired
	}

	maximumDepth := discoverer.MaximumDepth
	if maximumDepth <= 0 {
		maximumDepth = defaultMaximumSearchDepth
	}

	discoveredRepositoryPaths := []string{}
	walkError := filepath.WalkDir(trimmedStartPath, func(currentPath string, directoryEntry fs.DirEntry, entryError error) error {
		if entryError != nil {
			return entryError
		}
		if !directoryEntry.IsDir() {
			return nil
		}
		if currentPath == trimmedStartPath {
			return nil
		}
		if directoryEntry.Name() == gitMetadataEntryNameConstant {
			return fs.SkipDir
		}
		// The metadata entry of a repository rooted here would sit one
		// level below the directory itself.
		if directoryDepth(trimmedStartPath, currentPath)+1 > maximumDepth {
			return fs.SkipDir
		}
		if containsGitMetadata(currentPath) {
			discoveredRepositoryPaths = append(discoveredRepositoryPaths, currentPath)
			return fs.SkipDir
		}
		return nil
	})
	if walkError != nil {
		return nil, walkError
	}

	sort.Strings(discoveredRepositoryPaths)
	return discoveredRepositoryPaths, nil
}

func directoryDepth(startPath string, currentPath string) int {
	relativePath, relativeError := filepath.Rel(startPath, currentPath)
	if relativeError != nil {
		return 0
	}
	return strings.Count(relativePath, string(filepath.Separator)) + 1
}

func containsGitMetadata(directoryPath string) bool {
	// Submodule working trees keep a .git file rather than a directory, so
	// any stat hit counts.
	_, statError := os.Stat(filepath.Join(directoryPath, gitMetadataEntryNameConstant))
	return statError == nil
}
