package watcher_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/abikit/internal/watcher"
)

func startWatcher(t *testing.T, paths ...string) <-chan struct{} {
	t.Helper()
	w, err := watcher.New(watcher.Config{Paths: paths, DebounceDur: 50 * time.Millisecond})
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	onChange, err := w.Start()
	require.NoError(t, err)
	return onChange
}

func TestWatcher_DebounceMultipleWrites(t *testing.T) {
	manifest := filepath.Join(t.TempDir(), "app.json")
	require.NoError(t, os.WriteFile(manifest, []byte(`{}`), 0644))
	onChange := startWatcher(t, manifest)

	for i := 0; i < 10; i++ {
		require.NoError(t, os.WriteFile(manifest, []byte(fmt.Sprintf(`{"n":%d}`, i)), 0644))
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case <-onChange:
	case <-time.After(time.Second):
		t.Fatal("expected notification but got timeout")
	}

	select {
	case <-onChange:
		t.Fatal("unexpected second notification")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "app.json")
	require.NoError(t, os.WriteFile(manifest, []byte(`{}`), 0644))
	onChange := startWatcher(t, manifest)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.json"), []byte(`{}`), 0644))

	select {
	case <-onChange:
		t.Fatal("unexpected notification for unwatched file")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcher_RenameIntoPlace(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "app.json")
	require.NoError(t, os.WriteFile(manifest, []byte(`{}`), 0644))
	onChange := startWatcher(t, manifest)

	tmp := filepath.Join(dir, ".app.json.swp")
	require.NoError(t, os.WriteFile(tmp, []byte(`{"sdkVersion":"7.0.0"}`), 0644))
	require.NoError(t, os.Rename(tmp, manifest))

	select {
	case <-onChange:
	case <-time.After(time.Second):
		t.Fatal("expected notification after rename")
	}
}

func TestWatcher_MultipleFiles(t *testing.T) {
	dirA, dirB := t.TempDir(), t.TempDir()
	manifest := filepath.Join(dirA, "app.json")
	versions := filepath.Join(dirB, "versions.yaml")
	require.NoError(t, os.WriteFile(manifest, []byte(`{}`), 0644))
	require.NoError(t, os.WriteFile(versions, []byte("versions: []\n"), 0644))
	onChange := startWatcher(t, manifest, versions)

	require.NoError(t, os.WriteFile(versions, []byte("versions:\n  - version: 1.0.0\n"), 0644))

	select {
	case <-onChange:
	case <-time.After(time.Second):
		t.Fatal("expected notification for second file")
	}
}

func TestNew_RequiresPaths(t *testing.T) {
	_, err := watcher.New(watcher.Config{})
	require.Error(t, err)
}

func TestWatcher_StartMissingDirectory(t *testing.T) {
	w, err := watcher.New(watcher.DefaultConfig(filepath.Join(t.TempDir(), "missing", "app.json")))
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	_, err = w.Start()
	require.Error(t, err)
}
