package walker_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/treesync/internal/walker"
)

func createDirectory(testInstance *testing.T, pathSegments ...string) string {
	testInstance.Helper()
	directoryPath := filepath.Join(pathSegments...)
	require.NoError(testInstance, os.MkdirAll(directoryPath, 0o755))
	return directoryPath
}

func createRepository(testInstance *testing.T, pathSegments ...string) string {
	testInstance.Helper()
	repositoryPath := createDirectory(testInstance, pathSegments...)
	createDirectory(testInstance, repositoryPath, ".git")
	return repositoryPath
}

func TestDiscoverRequiresSearchPath(testInstance *testing.T) {
	discoverer := walker.NewBoundedRepositoryDiscoverer()
	_, discoveryError := discoverer.Discover("   ")
	require.ErrorIs(testInstance, discoveryError, walker.ErrSearchPathRequired)
}

func TestDiscoverFindsRepositoriesWithinDepthLimit(testInstance *testing.T) {
	rootDirectory := testInstance.TempDir()
	firstRepository := createRepository(testInstance, rootDirectory, "alpha")
	secondRepository := createRepository(testInstance, rootDirectory, "nested", "beta")
	createRepository(testInstance, rootDirectory, "nested", "deeper", "gamma")
	createRepository(testInstance, rootDirectory, "one", "two", "three", "too-deep")

	discoverer := walker.NewBoundedRepositoryDiscoverer()
	discoveredPaths, discoveryError := discoverer.Discover(rootDirectory)
	require.NoError(testInstance, discoveryError)
	require.Equal(testInstance, []string{firstRepository, secondRepository}, discoveredPaths)
}

func TestDiscoverExcludesMetadataBeyondThirdNestingLevel(testInstance *testing.T) {
	rootDirectory := testInstance.TempDir()
	createRepository(testInstance, rootDirectory, "one", "two", "repo")

	discoverer := walker.NewBoundedRepositoryDiscoverer()
	discoveredPaths, discoveryError := discoverer.Discover(rootDirectory)
	require.NoError(testInstance, discoveryError)
	require.Empty(testInstance, discoveredPaths)
}

func TestDiscoverSkipsRepositoryInteriors(testInstance *testing.T) {
	rootDirectory := testInstance.TempDir()
	outerRepository := createRepository(testInstance, rootDirectory, "outer")
	createRepository(testInstance, outerRepository, "vendored")

	discoverer := walker.NewBoundedRepositoryDiscoverer()
	discoveredPaths, discoveryError := discoverer.Discover(rootDirectory)
	require.NoError(testInstance, discoveryError)
	require.Equal(testInstance, []string{outerRepository}, discoveredPaths)
}

func TestDiscoverIgnoresStartPathMetadata(testInstance *testing.T) {
	rootDirectory := testInstance.TempDir()
	createDirectory(testInstance, rootDirectory, ".git")
	innerRepository := createRepository(testInstance, rootDirectory, "inner")

	discoverer := walker.NewBoundedRepositoryDiscoverer()
	discoveredPaths, discoveryError := discoverer.Discover(rootDirectory)
	require.NoError(testInstance, discoveryError)
	require.Equal(testInstance, []string{innerRepository}, discoveredPaths)
}

func TestDiscoverRecognizesGitFileMetadata(testInstance *testing.T) {
	rootDirectory := testInstance.TempDir()
	submoduleStyleRepository := createDirectory(testInstance, rootDirectory, "module")
	require.NoError(testInstance, os.WriteFile(filepath.Join(submoduleStyleRepository, ".git"), []byte("gitdir: ../.git/modules/module\n"), 0o644))

	discoverer := walker.NewBoundedRepositoryDiscoverer()
	discoveredPaths, discoveryError := discoverer.Discover(rootDirectory)
	require.NoError(testInstance, discoveryError)
	require.Equal(testInstance, []string{submoduleStyleRepository}, discoveredPaths)
}
