package commands_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/standardizer/internal/catalog"
	"github.com/cleared-dev/standardizer/internal/config"
)

var binaryPath string

func TestMain(m *testing.M) {
	// Build the binary once for all tests.
	tmpDir, err := os.MkdirTemp("", "standardizer-test-*")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(tmpDir)

	binaryPath = filepath.Join(tmpDir, "standardizer")
	cmd := exec.Command("go", "build", "-o", binaryPath, "../../cmd/standardizer")
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		panic("failed to build binary: " + err.Error())
	}

	os.Exit(m.Run())
}

func runStandardizer(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(binaryPath, args...)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func TestInit_CreatesStructure(t *testing.T) {
	dir := t.TempDir()
	_, err := runStandardizer(t, "init", dir)
	require.NoError(t, err)

	expectedDirs := []string{
		"catalog",
		"logs",
		"exports",
		"import",
		filepath.Join("import", "processed"),
	}
	for _, d := range expectedDirs {
		info, err := os.Stat(filepath.Join(dir, d))
		require.NoError(t, err, "directory %s should exist", d)
		assert.True(t, info.IsDir(), "%s should be a directory", d)
	}
}

func TestInit_Config(t *testing.T) {
	dir := t.TempDir()
	_, err := runStandardizer(t, "init", dir, "--endpoint", "http://localhost:5000/categorize")
	require.NoError(t, err)

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5000/categorize", cfg.Classifier.Endpoint)
	assert.Equal(t, 3, cfg.Classifier.Attempts)
}

func TestInit_Catalog(t *testing.T) {
	dir := t.TempDir()
	_, err := runStandardizer(t, "init", dir)
	require.NoError(t, err)

	cat, err := catalog.LoadFile(filepath.Join(dir, "catalog", "chart-of-categories.csv"))
	require.NoError(t, err)
	assert.Equal(t, catalog.Default().Len(), cat.Len())
}

func TestInit_Gitignore(t *testing.T) {
	dir := t.TempDir()
	_, err := runStandardizer(t, "init", dir)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	for _, pattern := range []string{"exports/", ".standardizer-cache/"} {
		assert.Contains(t, string(data), pattern, ".gitignore should contain %s", pattern)
	}
}

func TestInit_RefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	_, err := runStandardizer(t, "init", dir)
	require.NoError(t, err)

	out, err := runStandardizer(t, "init", dir)
	require.Error(t, err)
	assert.Contains(t, out, "already exists")

	_, err = runStandardizer(t, "init", dir, "--force")
	require.NoError(t, err)
}

func TestInit_RejectsBadEndpoint(t *testing.T) {
	_, err := runStandardizer(t, "init", t.TempDir(), "--endpoint", "localhost:5000")
	require.Error(t, err)
}
