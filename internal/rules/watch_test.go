package rules

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func watchTestEngine(t *testing.T) *Engine {
	t.Helper()
	config, err := LoadConfig(writeTestRules(t, testRulesYAML))
	require.NoError(t, err)
	engine, err := NewEngine(config, nil)
	require.NoError(t, err)
	return engine
}

func TestHandleFileEventWithRelativePath(t *testing.T) {
	engine := watchTestEngine(t)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "f.tp"), []byte("A::B = 42\n"), 0o644))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer func() { _ = os.Chdir(wd) }()

	var got []Issue
	called := false
	event := fsnotify.Event{Name: "./f.tp", Op: fsnotify.Write}
	engine.handleFileEvent(context.Background(), event, func(filename string, issues []Issue) {
		called = true
		got = issues
	})

	require.True(t, called, "a Write event for ./f.tp must be re-checked and reported")
	assert.NotEmpty(t, got)
}

func TestHandleFileEventSkipsHiddenFiles(t *testing.T) {
	engine := watchTestEngine(t)

	dir := t.TempDir()
	path := filepath.Join(dir, ".hidden.tp")
	require.NoError(t, os.WriteFile(path, []byte("A::B = 42\n"), 0o644))

	called := false
	event := fsnotify.Event{Name: path, Op: fsnotify.Write}
	engine.handleFileEvent(context.Background(), event, func(string, []Issue) {
		called = true
	})

	assert.False(t, called, "hidden files are not re-checked")
}

func TestHandleFileEventIgnoresNonWrites(t *testing.T) {
	engine := watchTestEngine(t)

	called := false
	event := fsnotify.Event{Name: "f.tp", Op: fsnotify.Chmod}
	engine.handleFileEvent(context.Background(), event, func(string, []Issue) {
		called = true
	})

	assert.False(t, called)
}
