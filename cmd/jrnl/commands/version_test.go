package commands

import (
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/jrnl/cmd"
)

func TestVersionCommand_Output(t *testing.T) {
	stdout, _, err := execute(t, "version")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "jrnl version "+cmd.Version, lines[0])
	assert.Contains(t, stdout, "commit: "+cmd.Commit)
	assert.Contains(t, stdout, "built:  "+cmd.Date)
	assert.Contains(t, stdout, runtime.Version())
}

func TestVersionFlag(t *testing.T) {
	stdout, _, err := execute(t, "--version")
	require.NoError(t, err)
	assert.Equal(t, "jrnl version "+cmd.Version+"\n", stdout)
}

func TestVersionCommand_CommandMetadata(t *testing.T) {
	assert.Equal(t, "version", versionCmd.Use)
	assert.NotEmpty(t, versionCmd.Short)
	assert.NotEmpty(t, versionCmd.Long)
}
