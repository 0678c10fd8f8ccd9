package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-advisor-api/pkg/database"
)

func TestRootCommandHelp(t *testing.T) {
	root := newRootCmd()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"--help"})

	require.NoError(t, root.Execute())
	assert.Contains(t, buf.String(), "advisor-api")
	assert.Contains(t, buf.String(), "migrate")
	assert.Contains(t, buf.String(), "serve")
}

func TestRootCommandVersion(t *testing.T) {
	previous := version
	t.Cleanup(func() { version = previous })
	SetVersion("1.2.3")

	root := newRootCmd()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"--version"})

	require.NoError(t, root.Execute())
	assert.Equal(t, "1.2.3\n", buf.String())
}

func TestMigrateRequiresDirection(t *testing.T) {
	root := newRootCmd()
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"migrate"})
	assert.Error(t, root.Execute())
}

func TestMigrateRejectsUnknownDirection(t *testing.T) {
	root := newRootCmd()
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"migrate", "sideways"})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown migration direction")
}

func TestParseDirection(t *testing.T) {
	dir, err := parseDirection("up")
	require.NoError(t, err)
	assert.Equal(t, database.MigrateUp, dir)

	dir, err = parseDirection("down")
	require.NoError(t, err)
	assert.Equal(t, database.MigrateDown, dir)
}
