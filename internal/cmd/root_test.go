package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	assert.Equal(t, "studyforge", rootCmd.Use)

	expected := []string{"init", "bootstrap [registry.yaml]", "validate <registry.yaml>", "site", "posts", "readme"}
	var uses []string
	for _, cmd := range rootCmd.Commands() {
		uses = append(uses, cmd.Use)
	}
	for _, use := range expected {
		assert.Contains(t, uses, use)
	}
}

func TestRootCommandHelp(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"--help"})

	require.NoError(t, rootCmd.Execute())

	output := buf.String()
	assert.Contains(t, output, "studyforge")
	assert.Contains(t, output, "bootstrap")
	assert.Contains(t, output, "validate")
	assert.Contains(t, output, "site")
	assert.Contains(t, output, "posts")
	assert.Contains(t, output, "readme")
}
