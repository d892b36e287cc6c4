package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/mandelsoft/vfs/pkg/memoryfs"
	"github.com/mandelsoft/vfs/pkg/osfs"
	"github.com/mandelsoft/vfs/pkg/vfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/datapacker/internal/config"
	"github.com/mcncl/datapacker/internal/errors"
)

func loadSample(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "datapack.yaml"))
	require.NoError(t, err)
	return data
}

func memoryContext(t *testing.T, source []byte) (*Context, vfs.FileSystem) {
	t.Helper()
	fs := memoryfs.New()
	if source != nil {
		require.NoError(t, vfs.WriteFile(fs, "/datapack.yaml", source, 0o644))
	}
	cfg := config.NewConfig()
	cfg.Source = "/datapack.yaml"
	cfg.Output = "/out"
	return &Context{Config: cfg, FS: fs}, fs
}

func readJSON(t *testing.T, fs vfs.FileSystem, path string) map[string]any {
	t.Helper()
	data, err := vfs.ReadFile(fs, path)
	require.NoError(t, err)
	var parsed map[string]any
	require.NoError(t, json.Unmarshal(data, &parsed))
	return parsed
}

func TestRun_SampleDatapack(t *testing.T) {
	ctx, fs := memoryContext(t, loadSample(t))

	require.NoError(t, run(ctx))

	meta := readJSON(t, fs, "/out/pack.mcmeta")
	assert.Equal(t, map[string]any{"pack_format": float64(15), "description": "Example datapack"}, meta["pack"])

	load := readJSON(t, fs, "/out/data/example/tags/functions/load.json")
	assert.Equal(t, []any{"example:init", "example:setup", "example:greet"}, load["values"])

	tick := readJSON(t, fs, "/out/data/example/tags/functions/tick.json")
	assert.Equal(t, []any{"example:loop"}, tick["values"])

	swords := readJSON(t, fs, "/out/data/minecraft/tags/items/swords.json")
	assert.Equal(t, false, swords["replace"])
	assert.Equal(t, []any{
		"minecraft:wooden_sword",
		"minecraft:stone_sword",
		"example:ruby_sword",
		"minecraft:netherite_sword",
	}, swords["values"])
}

func TestRun_PrettyPrintedOutput(t *testing.T) {
	ctx, fs := memoryContext(t, []byte("a.json:\n  k: [1, 2]\n"))

	require.NoError(t, run(ctx))

	data, err := vfs.ReadFile(fs, "/out/a.json")
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"k\": [\n    1,\n    2\n  ]\n}", string(data))
}

func TestRun_AbsentSourceWritesNothing(t *testing.T) {
	ctx, fs := memoryContext(t, nil)

	require.NoError(t, run(ctx))

	_, err := fs.Stat("/out")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRun_NonMappingSourceFailsBeforeWriting(t *testing.T) {
	for name, source := range map[string]string{
		"scalar":   "hello\n",
		"sequence": "- a\n- b\n",
	} {
		t.Run(name, func(t *testing.T) {
			ctx, fs := memoryContext(t, []byte(source))

			err := run(ctx)
			require.Error(t, err)
			assert.ErrorIs(t, err, &errors.AppError{Type: errors.ErrorTypeShape})

			_, statErr := fs.Stat("/out")
			assert.ErrorIs(t, statErr, os.ErrNotExist)
		})
	}
}

func TestRun_UnknownTagFails(t *testing.T) {
	ctx, _ := memoryContext(t, []byte("x.json:\n  values: [!include other.yaml]\n"))

	err := run(ctx)
	require.Error(t, err)
	assert.Contains(t, errors.UserFriendlyError(err), "!include")
}

func TestRun_ParseError(t *testing.T) {
	ctx, _ := memoryContext(t, []byte("a: [unclosed\n"))

	err := run(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, &errors.AppError{Type: errors.ErrorTypeParsing})
}

func TestRun_DryRunWritesNothing(t *testing.T) {
	ctx, fs := memoryContext(t, loadSample(t))
	ctx.Config.Dev.DryRun = true
	var logs bytes.Buffer
	ctx.Logger = log.New(&logs)

	require.NoError(t, run(ctx))

	_, err := fs.Stat("/out")
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, logs.String(), "dry run")
}

func TestRun_Idempotent(t *testing.T) {
	sample := loadSample(t)
	first, fs1 := memoryContext(t, sample)
	second, fs2 := memoryContext(t, sample)

	require.NoError(t, run(first))
	require.NoError(t, run(second))

	for _, path := range []string{
		"/out/pack.mcmeta",
		"/out/data/example/tags/functions/load.json",
		"/out/data/example/tags/functions/tick.json",
		"/out/data/minecraft/tags/items/swords.json",
	} {
		a, err := vfs.ReadFile(fs1, path)
		require.NoError(t, err)
		b, err := vfs.ReadFile(fs2, path)
		require.NoError(t, err)
		assert.Equal(t, a, b, path)
	}
}

func TestRun_RealFilesystem(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "datapack.yaml")
	require.NoError(t, os.WriteFile(source, loadSample(t), 0o644))

	cfg := config.NewConfig()
	cfg.Source = source
	cfg.Output = filepath.Join(dir, "out")

	require.NoError(t, run(&Context{Config: cfg, FS: osfs.New()}))

	_, err := os.Stat(filepath.Join(dir, "out", "data", "minecraft", "tags", "items", "swords.json"))
	assert.NoError(t, err)
}

func TestStackTrace(t *testing.T) {
	ctx, _ := memoryContext(t, []byte("a.json: 1\n"))
	ctx.Config.Output = "/out"
	// A file where the output directory should go.
	require.NoError(t, vfs.WriteFile(ctx.FS, "/out", []byte("blocker"), 0o644))

	err := run(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, &errors.AppError{Type: errors.ErrorTypeIO})

	trace, ok := stackTrace(err)
	assert.True(t, ok)
	assert.NotEmpty(t, trace)
}
