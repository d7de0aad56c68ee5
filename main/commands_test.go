package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autogroupchat/internal/sheet"
)

func TestMakeDryRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("gateway: dryrun\n"), 0o600))

	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--config", path, "make", "Dinner", "Ann:555-0001", "--admin", "Carl:555-9999"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), `Created group "Dinner"`)
}

func TestMakeRejectsBadMember(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("gateway: dryrun\n"), 0o600))

	cmd := newRootCommand()
	cmd.SetArgs([]string{"--config", path, "make", "Dinner", "Ann"})
	assert.ErrorIs(t, cmd.Execute(), sheet.ErrInvalidContact)
}

func TestMakeLeavesGroupByDefault(t *testing.T) {
	cmd := newMakeCommand(&options{})
	f := cmd.Flags().Lookup("dont-leave-group")
	require.NotNil(t, f)
	assert.Equal(t, "false", f.DefValue)
}
