package sync

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grovekit/grove/pkg/config"
	"github.com/grovekit/grove/pkg/logging"
)

type installCall struct {
	dir  string
	argv []string
}

func newTestEngine() (*Engine, *[]installCall) {
	calls := &[]installCall{}
	e := &Engine{
		logger: logging.GetLogger("sync.test"),
		runInstall: func(dir string, argv []string) error {
			*calls = append(*calls, installCall{dir: dir, argv: argv})
			return nil
		},
	}
	return e, calls
}

func setupPair(t *testing.T) (source, target string) {
	t.Helper()
	tmp := t.TempDir()
	source = filepath.Join(tmp, "repo")
	target = filepath.Join(tmp, "repo--feature")
	require.NoError(t, os.MkdirAll(source, 0755))
	require.NoError(t, os.MkdirAll(target, 0755))
	return source, target
}

func mkdir(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(path, 0755))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestSync_SymlinksRelevantDirs(t *testing.T) {
	source, target := setupPair(t)
	writeFile(t, filepath.Join(source, "package.json"), "{}")
	mkdir(t, filepath.Join(source, "node_modules"))
	mkdir(t, filepath.Join(source, ".cache"))

	engine, _ := newTestEngine()
	cfg := config.SyncConfig{Symlink: []string{"node_modules", ".cache"}}

	result := engine.Sync(source, target, cfg)

	assert.Equal(t, 2, result.Count(StatusLinked))

	link, err := os.Readlink(filepath.Join(target, "node_modules"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(source, "node_modules"), link)
}

func TestSync_EcosystemGating(t *testing.T) {
	// .venv is owned by python; without a python marker the directory is
	// not linked even though it exists and is configured.
	source, target := setupPair(t)
	writeFile(t, filepath.Join(source, "package.json"), "{}")
	mkdir(t, filepath.Join(source, ".venv"))

	engine, _ := newTestEngine()
	cfg := config.SyncConfig{Symlink: []string{".venv"}}

	result := engine.Sync(source, target, cfg)

	assert.Empty(t, result.Items)
	_, err := os.Lstat(filepath.Join(target, ".venv"))
	assert.True(t, os.IsNotExist(err))
}

func TestSync_IgnoredDirSkipped(t *testing.T) {
	source, target := setupPair(t)
	mkdir(t, filepath.Join(source, ".cache"))

	engine, _ := newTestEngine()
	cfg := config.SyncConfig{Symlink: []string{".cache"}, Ignore: []string{".cache"}}

	result := engine.Sync(source, target, cfg)

	assert.Empty(t, result.Items)
	_, err := os.Lstat(filepath.Join(target, ".cache"))
	assert.True(t, os.IsNotExist(err))
}

func TestSync_NeverOverwrites(t *testing.T) {
	source, target := setupPair(t)
	mkdir(t, filepath.Join(source, ".cache"))
	writeFile(t, filepath.Join(source, ".env"), "SECRET=source")

	// Target already has a regular file where the symlink would go and
	// its own .env contents.
	writeFile(t, filepath.Join(target, ".cache"), "i am a file")
	writeFile(t, filepath.Join(target, ".env"), "SECRET=target")

	engine, _ := newTestEngine()
	cfg := config.SyncConfig{Symlink: []string{".cache"}, Copy: []string{".env"}}

	result := engine.Sync(source, target, cfg)

	assert.Equal(t, 0, result.Count(StatusLinked))
	assert.Equal(t, 0, result.Count(StatusCopied))

	data, err := os.ReadFile(filepath.Join(target, ".cache"))
	require.NoError(t, err)
	assert.Equal(t, "i am a file", string(data))

	data, err = os.ReadFile(filepath.Join(target, ".env"))
	require.NoError(t, err)
	assert.Equal(t, "SECRET=target", string(data))
}

func TestSync_BrokenSymlinkInTargetLeftAlone(t *testing.T) {
	source, target := setupPair(t)
	mkdir(t, filepath.Join(source, ".cache"))

	// A symlink pointing nowhere: invisible to Stat, visible to Lstat.
	require.NoError(t, os.Symlink(filepath.Join(target, "gone"), filepath.Join(target, ".cache")))

	engine, _ := newTestEngine()
	cfg := config.SyncConfig{Symlink: []string{".cache"}}

	result := engine.Sync(source, target, cfg)

	assert.Equal(t, 1, result.Count(StatusSkipped))

	link, err := os.Readlink(filepath.Join(target, ".cache"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(target, "gone"), link)
}

func TestSync_CopiesMatchingFiles(t *testing.T) {
	source, target := setupPair(t)
	writeFile(t, filepath.Join(source, ".env"), "A=1")
	writeFile(t, filepath.Join(source, ".env.local"), "B=2")
	writeFile(t, filepath.Join(source, ".envrc"), "use flake")

	engine, _ := newTestEngine()
	cfg := config.SyncConfig{Copy: []string{".env", ".env.*", ".envrc"}}

	result := engine.Sync(source, target, cfg)

	assert.Equal(t, 3, result.Count(StatusCopied))

	data, err := os.ReadFile(filepath.Join(target, ".env.local"))
	require.NoError(t, err)
	assert.Equal(t, "B=2", string(data))
}

func TestSync_CopySkipsDirectoriesAndIgnored(t *testing.T) {
	source, target := setupPair(t)
	mkdir(t, filepath.Join(source, ".env.d"))
	writeFile(t, filepath.Join(source, ".env"), "A=1")
	writeFile(t, filepath.Join(source, ".env.production"), "C=3")

	engine, _ := newTestEngine()
	cfg := config.SyncConfig{
		Copy:   []string{".env*"},
		Ignore: []string{".env.production"},
	}

	result := engine.Sync(source, target, cfg)

	assert.Equal(t, 1, result.Count(StatusCopied))
	_, err := os.Lstat(filepath.Join(target, ".env.d"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Lstat(filepath.Join(target, ".env.production"))
	assert.True(t, os.IsNotExist(err))
}

func TestSync_FirstPatternWinsForDuplicateBasenames(t *testing.T) {
	source, target := setupPair(t)
	writeFile(t, filepath.Join(source, ".env"), "A=1")

	engine, _ := newTestEngine()
	// Both patterns match .env; the second sees it already copied.
	cfg := config.SyncConfig{Copy: []string{".env", ".env*"}}

	result := engine.Sync(source, target, cfg)

	assert.Equal(t, 1, result.Count(StatusCopied))
}

func TestSync_Idempotent(t *testing.T) {
	source, target := setupPair(t)
	writeFile(t, filepath.Join(source, "package.json"), "{}")
	mkdir(t, filepath.Join(source, "node_modules"))
	writeFile(t, filepath.Join(source, ".env"), "A=1")

	engine, _ := newTestEngine()
	cfg := config.SyncConfig{Symlink: []string{"node_modules"}, Copy: []string{".env"}}

	first := engine.Sync(source, target, cfg)
	assert.Equal(t, 1, first.Count(StatusLinked))
	assert.Equal(t, 1, first.Count(StatusCopied))
	assert.Empty(t, first.Failures())

	second := engine.Sync(source, target, cfg)
	assert.Equal(t, 0, second.Count(StatusLinked))
	assert.Equal(t, 0, second.Count(StatusCopied))
	assert.Empty(t, second.Failures())
}

func TestSync_AutoInstallWhenDepsAbsent(t *testing.T) {
	source, target := setupPair(t)
	writeFile(t, filepath.Join(source, "package.json"), "{}")
	writeFile(t, filepath.Join(source, "pnpm-lock.yaml"), "")

	engine, calls := newTestEngine()

	result := engine.Sync(source, target, config.SyncConfig{})

	assert.Equal(t, 1, result.Count(StatusInstalled))
	require.Len(t, *calls, 1)
	assert.Equal(t, target, (*calls)[0].dir)
	assert.Equal(t, []string{"pnpm", "install", "--frozen-lockfile"}, (*calls)[0].argv)
}

func TestSync_AutoInstallSkippedWhenSourceHasDeps(t *testing.T) {
	// node_modules exists at the source, so it gets symlinked in by
	// phase one and installing would be redundant.
	source, target := setupPair(t)
	writeFile(t, filepath.Join(source, "package.json"), "{}")
	writeFile(t, filepath.Join(source, "pnpm-lock.yaml"), "")
	mkdir(t, filepath.Join(source, "node_modules"))

	engine, calls := newTestEngine()
	cfg := config.SyncConfig{Symlink: []string{"node_modules"}}

	result := engine.Sync(source, target, cfg)

	assert.Equal(t, 1, result.Count(StatusLinked))
	assert.Equal(t, 0, result.Count(StatusInstalled))
	assert.Empty(t, *calls)
}

func TestSync_AutoInstallSkippedWhenTargetHasDeps(t *testing.T) {
	source, target := setupPair(t)
	writeFile(t, filepath.Join(source, "package.json"), "{}")
	writeFile(t, filepath.Join(source, "pnpm-lock.yaml"), "")
	mkdir(t, filepath.Join(target, "node_modules"))

	engine, calls := newTestEngine()

	engine.Sync(source, target, config.SyncConfig{})

	assert.Empty(t, *calls)
}

func TestSync_InstallFailureIsWarning(t *testing.T) {
	source, target := setupPair(t)
	writeFile(t, filepath.Join(source, "package.json"), "{}")
	writeFile(t, filepath.Join(source, "package-lock.json"), "{}")

	engine, _ := newTestEngine()
	engine.runInstall = func(dir string, argv []string) error {
		return assert.AnError
	}

	result := engine.Sync(source, target, config.SyncConfig{})

	assert.Equal(t, 1, result.Count(StatusFailed))
	require.Len(t, result.Failures(), 1)
	assert.Equal(t, PhaseInstall, result.Failures()[0].Phase)
}

func TestSync_MissingSourceDirSkippedQuietly(t *testing.T) {
	source, target := setupPair(t)
	writeFile(t, filepath.Join(source, "package.json"), "{}")

	engine, _ := newTestEngine()
	cfg := config.SyncConfig{Symlink: []string{"node_modules"}}

	result := engine.Sync(source, target, cfg)

	assert.Empty(t, result.Items)
}
