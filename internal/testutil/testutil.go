// Package testutil provides shared test helpers for creating config files and source documents.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// SetupTestConfig creates a config file whose cache lives under tmpDir.
// extra is appended verbatim to the generated YAML.
// Returns the paths of the config file and of the cache file.
func SetupTestConfig(t *testing.T, tmpDir string, extra string) (string, string) {
	t.Helper()

	cachePath := filepath.Join(tmpDir, "cache", "callcache.yml")
	configContent := fmt.Sprintf(`cache:
  path: %s
%s`, cachePath, extra)

	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configContent), 0644))
	return cfgPath, cachePath
}

// WriteSourceDocument writes a raw syscall table document into dir and returns its path.
func WriteSourceDocument(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}
