// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/roomchat-tui/internal/config"
)

// =============================================================================
// HELPERS
// =============================================================================

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	ForceColorsEnabled(false)
	for _, env := range []string{"ROOMCHAT_SERVER_URL", "ROOMCHAT_ROOM", "ROOMCHAT_NAME", "ROOMCHAT_LOG_LEVEL"} {
		t.Setenv(env, "")
	}
	config.ResetGlobalForTesting()
	t.Cleanup(config.ResetGlobalForTesting)

	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

// =============================================================================
// COMMAND TESTS
// =============================================================================

func TestVersionCmd(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "roomchat "+Version)
	assert.Contains(t, out, GitCommit)
}

func TestConfigShow_FlagsOverrideFile(t *testing.T) {
	path := writeConfig(t, `
[server]
url = "ws://files.example.com/ws"

[user]
name = "from-file"
`)

	out, err := run(t, "config", "show", "--config", path, "--name", "from-flag", "--room", "ops")
	require.NoError(t, err)

	assert.Contains(t, out, `url = "ws://files.example.com/ws"`)
	assert.Contains(t, out, `name = "from-flag"`)
	assert.Contains(t, out, `room = "ops"`)
	assert.Equal(t, "from-flag", config.Global().User.Name)
}

func TestConfigShow_InvalidFlag(t *testing.T) {
	path := writeConfig(t, "")

	_, err := run(t, "config", "show", "--config", path, "--server", "http://nope")
	require.Error(t, err)
	assert.Equal(t, ExitConfigError, GetExitCode(err))
}

func TestConfigShow_MissingFile(t *testing.T) {
	_, err := run(t, "config", "show", "--config", filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
}

func TestConfigPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.toml")
	out, err := run(t, "config", "path", "--config", path)
	require.NoError(t, err)
	assert.Equal(t, path+"\n", out)
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roomchat", "config.toml")

	out, err := run(t, "config", "init", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "[OK]")
	assert.Contains(t, out, initHint)

	loaded, err := config.LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default().Server.URL, loaded.Server.URL)

	_, err = run(t, "config", "init", "--config", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
	assert.Equal(t, ExitConfigError, GetExitCode(err))

	_, err = run(t, "config", "init", "--config", path, "--force")
	require.NoError(t, err)
}

func TestRoot_RequiresTerminal(t *testing.T) {
	if CanRunTUI() {
		t.Skip("test binary is attached to a terminal")
	}

	_, err := run(t)
	require.Error(t, err)
	assert.Equal(t, ExitUsageError, GetExitCode(err))
}

func TestServe_RejectsZeroBurst(t *testing.T) {
	_, err := run(t, "serve", "--message-burst", "0", "--log-level", "error")
	require.Error(t, err)
	assert.Equal(t, ExitUsageError, GetExitCode(err))
}

func TestRunServe_StopsWhenContextEnds(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := runServe(ctx, &serveOptions{addr: "127.0.0.1:0", messageRate: 1, messageBurst: 1})
	assert.NoError(t, err)
}

func TestRunServe_AddressInUseIsNetworkError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	err = runServe(context.Background(), &serveOptions{addr: ln.Addr().String(), messageRate: 1, messageBurst: 1})
	require.Error(t, err)
	assert.Equal(t, ExitNetworkError, GetExitCode(err))
}

// =============================================================================
// ERROR TESTS
// =============================================================================

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"usage", &UsageError{Field: "x", Reason: "bad"}, ExitUsageError},
		{"validation", fmt.Errorf("wrap: %w", config.ValidateErrors{{Field: "user.name"}}), ExitConfigError},
		{"config command", NewCommandError("config", "init", "exists", nil), ExitConfigError},
		{"network", fmt.Errorf("relay: %w", &net.OpError{Op: "listen", Net: "tcp", Err: errors.New("address already in use")}), ExitNetworkError},
		{"other", errors.New("boom"), ExitGeneralError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetExitCode(tt.err))
		})
	}
}

func TestDisplayError(t *testing.T) {
	ForceColorsEnabled(false)

	var buf bytes.Buffer
	DisplayError(&buf, errors.New("boom"))
	assert.Equal(t, "[ERROR] boom\n", buf.String())

	buf.Reset()
	DisplayError(&buf, nil)
	assert.Empty(t, buf.String())
}

func TestCommandError_Unwrap(t *testing.T) {
	inner := errors.New("disk full")
	err := NewCommandError("config", "init", "could not write config", inner)
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, "config init failed: could not write config: disk full", err.Error())
}
