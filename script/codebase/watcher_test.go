package codebase

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileWatcherScan(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "a.js")
	writeFile(t, path, "function a() {}")

	c := New(root)
	w := NewFileWatcher(c, time.Hour)
	var changed []string
	var removed []string
	w.OnChange = func(p string, f *FileInfo) {
		if f == nil {
			removed = append(removed, p)
			return
		}
		changed = append(changed, p)
	}

	w.Scan()
	assert.Equal(t, []string{path}, changed)
	require.NotNil(t, c.GetFile(path))

	w.Scan()
	assert.Len(t, changed, 1, "unchanged files are not parsed again")

	writeFile(t, path, "function b() {}")
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, later, later))
	w.Scan()
	assert.Len(t, changed, 2)
	assert.Equal(t, []string{"b"}, c.GetFile(path).Model.FunctionNames())

	require.NoError(t, os.Remove(path))
	w.Scan()
	assert.Equal(t, []string{path}, removed)
	assert.Nil(t, c.GetFile(path))
}

func TestFileWatcherStartStop(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "a.js")
	writeFile(t, path, "function a() {}")

	c := New(root)
	w := NewFileWatcher(c, 10*time.Millisecond)
	w.Start()
	defer w.Stop()

	assert.Eventually(t, func() bool {
		return len(c.Paths()) == 1
	}, time.Second, 10*time.Millisecond)

	w.Stop()
	w.Stop()
}
