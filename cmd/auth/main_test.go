package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_Subcommands(t *testing.T) {
	cmd := NewRootCmd()

	names := make([]string, 0, len(cmd.Commands()))
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "serve")
	assert.Contains(t, names, "migrate")
	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
}

func TestServeCmd_RegistersConfigFlags(t *testing.T) {
	cmd := NewServeCmd()
	for _, name := range []string{"http-port", "database-url", "jwt-secret", "cookie-samesite", "reset-token-in-response"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}
}

func TestMigrateCmd_Subcommands(t *testing.T) {
	cmd := NewMigrateCmd()

	names := make([]string, 0, 3)
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"up", "down", "status"}, names)
}

func TestMigrateUp_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	configFile = ""

	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"migrate", "up"})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database-url")
}

func TestServe_RequiresSecrets(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "")
	configFile = ""

	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"serve"})

	require.Error(t, root.Execute())
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "applied", statusLabel(true))
	assert.Equal(t, "pending", statusLabel(false))
}
