package registry_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/steprelay/steprelay/internal/registry"
	"github.com/steprelay/steprelay/internal/workercfg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeStep(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	writeStep(t, dir, "hello.step.yaml", `
config:
  queue: hello
  flow:
    name: [welcome-flow]
    role: entry
    step: hello
    emits: [hello.done]
`)
	writeStep(t, dir, "nested/send-email.step.yaml", `
config:
  flow:
    name: [welcome-flow]
    role: step
    step: send-email
`)
	writeStep(t, dir, "notes.txt", "not a definition")

	reg, err := registry.Scan(dir, workercfg.NewLoader())
	require.NoError(t, err)

	entries := reg.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "hello", entries[0].Queue)
	assert.Equal(t, "send-email", entries[1].Queue)

	entry, ok := reg.Resolve("send-email")
	require.True(t, ok)
	// Queue defaulted from the file base name; the config declared none.
	assert.Empty(t, entry.Descriptor.Queue)
	assert.Equal(t, filepath.Join("nested", "send-email.step.yaml"), entry.Path)

	_, ok = reg.Resolve("missing")
	assert.False(t, ok)
}

func TestScanDuplicateQueue(t *testing.T) {
	dir := t.TempDir()
	writeStep(t, dir, "a.yaml", "config:\n  queue: hello\n")
	writeStep(t, dir, "b.yaml", "config:\n  queue: hello\n")

	_, err := registry.Scan(dir, nil)

	var dupErr *registry.DuplicateQueueError
	require.ErrorAs(t, err, &dupErr)
	assert.Equal(t, "hello", dupErr.Queue)
}

func TestScanAbortsOnBrokenDefinition(t *testing.T) {
	dir := t.TempDir()
	writeStep(t, dir, "broken.yaml", "not-a-config: true\n")

	_, err := registry.Scan(dir, nil)

	var missingErr *workercfg.MissingConfigError
	require.ErrorAs(t, err, &missingErr)
}

func TestScanMissingDir(t *testing.T) {
	_, err := registry.Scan(filepath.Join(t.TempDir(), "nope"), nil)
	assert.Error(t, err)
}

func TestDefinitions(t *testing.T) {
	dir := t.TempDir()
	writeStep(t, dir, "b.yaml", "config: {}\n")
	writeStep(t, dir, "a.json", `{"config": {}}`)
	writeStep(t, dir, "c.md", "readme")

	paths, err := registry.Definitions(dir)
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.Equal(t, filepath.Join(dir, "a.json"), paths[0])
	assert.Equal(t, filepath.Join(dir, "b.yaml"), paths[1])
}

func TestDefaultQueue(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"hello.yaml", "hello"},
		{"hello.step.yaml", "hello"},
		{"steps/resize-image.step.json", "resize-image"},
		{"steps/audit.yml", "audit"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, registry.DefaultQueue(tt.path))
		})
	}
}
