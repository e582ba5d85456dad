package batch

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gerunddev/refdoc/internal/config"
	"github.com/gerunddev/refdoc/internal/logger"
	"github.com/gerunddev/refdoc/internal/state"
	"github.com/gerunddev/refdoc/markdown"
)

const (
	canonical = "# class: Page\n\nSome text.\n"
	messy     = "# class: Page\nSome\ntext.\n"
	broken    = "orphan text\n"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.CacheFile = filepath.Join(t.TempDir(), "cache.json")
	cfg.Workers = 2
	return cfg
}

func writeDocs(t *testing.T, docs map[string]string) (string, []string) {
	t.Helper()
	dir := t.TempDir()
	var paths []string
	for name, content := range docs {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		paths = append(paths, path)
	}
	paths, err := Collect(paths, []string{".md"})
	require.NoError(t, err)
	return dir, paths
}

func TestRunReportsChangesAndErrors(t *testing.T) {
	_, paths := writeDocs(t, map[string]string{
		"a.md": canonical,
		"b.md": messy,
		"c.md": broken,
	})

	var logBuf bytes.Buffer
	runner := NewRunner(testConfig(t), nil)
	runner.SetLogger(logger.New(&logBuf))

	result, err := runner.Run(context.Background(), paths, Options{})
	require.NoError(t, err)
	require.Len(t, result.Files, 3)
	assert.NotEmpty(t, result.RunID)

	assert.False(t, result.Files[0].Changed)
	assert.True(t, result.Files[1].Changed)
	assert.Equal(t, canonical, result.Files[1].After)
	assert.ErrorIs(t, result.Files[2].Err, markdown.ErrStructure)

	assert.Equal(t, 2, result.Processed())
	assert.Len(t, result.Changed(), 1)
	assert.Len(t, result.Errors(), 1)
	assert.Contains(t, result.String(), "1 changed")

	assert.Contains(t, logBuf.String(), "run started")
	assert.Contains(t, logBuf.String(), "run completed")
	assert.Contains(t, logBuf.String(), "document error")

	// Without Write the files are untouched.
	data, err := os.ReadFile(paths[1])
	require.NoError(t, err)
	assert.Equal(t, messy, string(data))
}

func TestRunWrite(t *testing.T) {
	_, paths := writeDocs(t, map[string]string{"b.md": messy})

	runner := NewRunner(testConfig(t), nil)
	result, err := runner.Run(context.Background(), paths, Options{Write: true})
	require.NoError(t, err)
	assert.Len(t, result.Changed(), 1)

	data, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.Equal(t, canonical, string(data))
}

func TestRunUsesCache(t *testing.T) {
	_, paths := writeDocs(t, map[string]string{"a.md": canonical, "b.md": messy})

	cfg := testConfig(t)
	st := state.NewState()
	runner := NewRunner(cfg, st)

	first, err := runner.Run(context.Background(), paths, Options{UseCache: true, Write: true})
	require.NoError(t, err)
	assert.Equal(t, 0, first.Skipped())
	assert.Len(t, first.Changed(), 1)

	second, err := runner.Run(context.Background(), paths, Options{UseCache: true})
	require.NoError(t, err)
	assert.Equal(t, 2, second.Skipped())

	// A different width invalidates the cache.
	third, err := runner.Run(context.Background(), paths, Options{UseCache: true, Width: 60})
	require.NoError(t, err)
	assert.Equal(t, 0, third.Skipped())

	_, err = os.Stat(cfg.CacheFile)
	assert.NoError(t, err, "cache was not saved")
}

func TestRunPrunesDeletedDocuments(t *testing.T) {
	_, paths := writeDocs(t, map[string]string{"a.md": canonical, "b.md": canonical})

	cfg := testConfig(t)
	st := state.NewState()
	runner := NewRunner(cfg, st)

	_, err := runner.Run(context.Background(), paths, Options{UseCache: true})
	require.NoError(t, err)
	require.Len(t, st.Files, 2)

	require.NoError(t, os.Remove(paths[1]))
	_, err = runner.Run(context.Background(), paths[:1], Options{UseCache: true})
	require.NoError(t, err)
	assert.Contains(t, st.Files, paths[0])
	assert.NotContains(t, st.Files, paths[1])

	saved, err := state.Load(cfg.CacheFile)
	require.NoError(t, err)
	assert.Len(t, saved.Files, 1)
}

func TestRunWithParams(t *testing.T) {
	_, paths := writeDocs(t, map[string]string{
		"a.md": "# method: Page.close\n- `options` <[Object]> = %%-close-options-%%\n",
	})
	params, err := markdown.Parse("# close-options\n- `force` <[boolean]>\n")
	require.NoError(t, err)

	runner := NewRunner(testConfig(t), state.NewState())
	result, err := runner.Run(context.Background(), paths, Options{Params: params, UseCache: true})
	require.NoError(t, err)

	assert.Equal(t, 0, result.Skipped())
	assert.Equal(t, "# method: Page.close\n- `options` <[Object]>\n  - `force` <[boolean]>\n", result.Files[0].After)
}

func TestRunManyDocuments(t *testing.T) {
	docs := make(map[string]string)
	for i := 0; i < 40; i++ {
		docs[fmt.Sprintf("doc%02d.md", i)] = fmt.Sprintf("# class: C%d\n- item\n  - nested %d\n", i, i)
	}
	_, paths := writeDocs(t, docs)

	result, err := NewRunner(testConfig(t), nil).Run(context.Background(), paths, Options{})
	require.NoError(t, err)
	require.Len(t, result.Files, 40)
	for i, f := range result.Files {
		assert.Equal(t, paths[i], f.Path)
		assert.NoError(t, f.Err)
		assert.Contains(t, f.After, fmt.Sprintf("nested %d", i))
	}
}

func TestRunCancelled(t *testing.T) {
	_, paths := writeDocs(t, map[string]string{"a.md": canonical})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRunner(testConfig(t), nil).Run(ctx, paths, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestScanDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	for _, name := range []string{"a.md", "b.MD", "c.markdown", "notes.txt", "sub/d.md", ".git/e.md"} {
		path := filepath.Join(tmpDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("# h\n"), 0644))
	}

	files, err := ScanDirectory(tmpDir, []string{".md"})
	require.NoError(t, err)
	assert.Len(t, files, 3)

	files, err = ScanDirectory(tmpDir, []string{".md", ".markdown"})
	require.NoError(t, err)
	assert.Len(t, files, 4)
}

func TestCollect(t *testing.T) {
	dir, _ := writeDocs(t, map[string]string{"x/a.md": canonical, "x/b.md": canonical, "y.txt": "raw"})

	files, err := Collect([]string{
		filepath.Join(dir, "x"),
		filepath.Join(dir, "x", "a.md"),
		filepath.Join(dir, "y.txt"),
	}, []string{".md"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "x", "a.md"),
		filepath.Join(dir, "x", "b.md"),
		filepath.Join(dir, "y.txt"),
	}, files)

	_, err = Collect([]string{filepath.Join(dir, "missing")}, []string{".md"})
	assert.Error(t, err)
}
