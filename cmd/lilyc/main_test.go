package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thelilylang/lily-sub004/internal/diag"
	"github.com/thelilylang/lily-sub004/internal/mir/builder"
)

func TestRootCommandHasScanAndMIRDemoSubcommands(t *testing.T) {
	root := newRootCmd()
	names := make(map[string]bool)
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["scan"])
	assert.True(t, names["mir-demo"])
}

func TestExpandGlobsDedupesAndMatches(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.ly"), []byte("fn a() {}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.ly"), []byte("fn b() {}"), 0o644))

	files, err := expandGlobs([]string{filepath.Join(dir, "*.ly"), filepath.Join(dir, "a.ly")})
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestExpandGlobsRejectsBadPattern(t *testing.T) {
	_, err := expandGlobs([]string{"["})
	assert.Error(t, err)
}

func TestScanFilePrintsTokens(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.ly")
	require.NoError(t, os.WriteFile(path, []byte("42"), 0o644))

	require.NoError(t, scanFile(path, false))
}

func TestMIRDemoCommandIsRegistered(t *testing.T) {
	cmd := newMIRDemoCmd()
	assert.Equal(t, "mir-demo", cmd.Use)
}

func TestLowerSampleAddFunctionProducesAddInstruction(t *testing.T) {
	m := builder.NewModule(&diag.Bag{})
	require.NoError(t, lowerSampleAddFunction(m))
	out := m.Print()
	assert.Contains(t, out, "fun add.")
	assert.Contains(t, out, "= iadd ")
}
