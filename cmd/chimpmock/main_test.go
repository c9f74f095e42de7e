package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ShroXd/chimpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvOr(t *testing.T) {
	t.Setenv("CHIMPMOCK_TEST_SET", "value")
	t.Setenv("CHIMPMOCK_TEST_EMPTY", "")

	assert.Equal(t, "value", envOr("CHIMPMOCK_TEST_SET", "def"))
	assert.Equal(t, "def", envOr("CHIMPMOCK_TEST_EMPTY", "def"))
	assert.Equal(t, "def", envOr("CHIMPMOCK_TEST_UNSET", "def"))
}

func TestDefaultFixturePath(t *testing.T) {
	assert.Equal(t, "members.json", filepath.Base(defaultFixturePath()))
}

func writeFixture(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "members.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunStartupErrors(t *testing.T) {
	t.Setenv("CHIMPMOCK_ADDR", "")
	t.Setenv("CHIMPMOCK_FIXTURE", "")
	t.Setenv("CHIMPMOCK_LOG_DIR", "")
	t.Setenv("CHIMPMOCK_LOG_LEVEL", "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	t.Run("Missing fixture", func(t *testing.T) {
		missing := filepath.Join(t.TempDir(), "nope.json")

		err := run(ctx, []string{"-addr", "127.0.0.1:0", "-fixture", missing})

		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
		assert.Contains(t, err.Error(), missing)
	})

	t.Run("Fixture without members", func(t *testing.T) {
		path := writeFixture(t, `{"total_items":3}`)

		err := run(ctx, []string{"-addr", "127.0.0.1:0", "-fixture", path})

		assert.ErrorIs(t, err, chimpmock.ErrMissingMembers)
	})

	t.Run("Fixture is not JSON", func(t *testing.T) {
		path := writeFixture(t, "members:\n  - ada\n")

		err := run(ctx, []string{"-addr", "127.0.0.1:0", "-fixture", path})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse fixture")
	})

	t.Run("Invalid log level", func(t *testing.T) {
		err := run(ctx, []string{"-log-level", "loud", "-fixture", "../../testdata/members.json"})

		assert.Error(t, err)
	})

	t.Run("Invalid address", func(t *testing.T) {
		err := run(ctx, []string{"-addr", "no-port", "-fixture", "../../testdata/members.json"})

		assert.Error(t, err)
	})

	t.Run("Unknown flag", func(t *testing.T) {
		err := run(ctx, []string{"-port", "8000"})

		assert.Error(t, err)
	})
}
