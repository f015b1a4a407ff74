package cmd

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append(args, "--config", t.TempDir()))

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestTokenCmd(t *testing.T) {
	t.Setenv("JWT_SECRET", "cli-secret")

	out, err := run(t, "token", "12", "--role", "moderator")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "."), 3)

	_, err = run(t, "token", "12", "--role", "owner")
	assert.ErrorContains(t, err, "unknown role")
}

func TestTokenCmd_RequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := run(t, "token", "12")
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestMigrateCmd_RequiresDatabase(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := run(t, "migrate", "--dir", "migrations")
	assert.ErrorContains(t, err, "DATABASE_URL")
}

func TestRootCmd_Commands(t *testing.T) {
	var names []string
	for _, c := range NewRootCmd().Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"serve", "migrate", "reevaluate", "token"}, names)
}
