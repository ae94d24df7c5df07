package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd(t *testing.T) {
	cmd := RootCmd()
	names := []string{}
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"run", "render"}, names)
	assert.NotNil(t, cmd.PersistentFlags().Lookup(CustomConfigLocation))

	render, _, err := cmd.Find([]string{"render"})
	assert.NoError(t, err)
	assert.NotNil(t, render.Flags().Lookup("dialect"))
}

func TestHomeConfig(t *testing.T) {
	homedir.DisableCache = true
	defer func() { homedir.DisableCache = false }()

	home := t.TempDir()
	t.Setenv("HOME", home)

	path, err := homeConfig()
	require.NoError(t, err)
	assert.Empty(t, path)

	expected := filepath.Join(home, HomeConfigFile)
	require.NoError(t, os.WriteFile(expected, []byte("defaultGroupSize: 10\n"), 0o600))
	path, err = homeConfig()
	require.NoError(t, err)
	assert.Equal(t, expected, path)
}
