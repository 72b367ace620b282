package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadParsesProjectFile(t *testing.T) {
	yaml := `
modules:
  - intro.t
  - lamp.t
defines:
  DEBUG_MODE: "1"
output: game.t3
symbolImports:
  - adv3.tsym
debug: true
`
	path := filepath.Join(t.TempDir(), "t3c.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"intro.t", "lamp.t"}, p.Modules)
	assert.Equal(t, "1", p.Defines["DEBUG_MODE"])
	assert.Equal(t, "game.t3", p.Output)
	assert.Equal(t, []string{"adv3.tsym"}, p.SymbolImports)
	assert.True(t, p.Debug)
}

func TestLoadMissingFileReturnsError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	assert.Error(t, err)
}

func TestLoadInvalidYAMLReturnsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t3c.yaml")
	require.NoError(t, os.WriteFile(path, []byte("modules: [unterminated"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestFromFlagsBuildsProjectDirectly(t *testing.T) {
	p := FromFlags([]string{"a.t", "b.t"}, "out.t3", true)
	assert.Equal(t, []string{"a.t", "b.t"}, p.Modules)
	assert.Equal(t, "out.t3", p.Output)
	assert.True(t, p.Debug)
	assert.Nil(t, p.Defines)
}
