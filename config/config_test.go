package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewAppliesBuiltinDefaults(t *testing.T) {
	cfg, err := New("")
	require.NoError(t, err)
	require.True(t, cfg.UseTLS)
	require.Equal(t, 3*time.Second, cfg.SoftDeadline)
	require.Equal(t, 10*time.Second, cfg.HardDeadline)
	require.Equal(t, 10000, cfg.Bloom.ExpectedItems)
	require.Equal(t, 0.01, cfg.Bloom.FalsePositiveRate)
}

func TestNewDefaultsAuthorityToTarget(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hif.yaml")
	require.NoError(t, os.WriteFile(path, []byte("target: example.com:443\n"), 0o644))

	cfg, err := New(path)
	require.NoError(t, err)
	require.Equal(t, "example.com:443", cfg.Target)
	require.Equal(t, "example.com:443", cfg.Authority)
}

func TestNewFileOverridesDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hif.yaml")
	require.NoError(t, os.WriteFile(path, []byte("useTLS: false\nnodeID: 7\n"), 0o644))

	cfg, err := New(path)
	require.NoError(t, err)
	require.False(t, cfg.UseTLS)
	require.Equal(t, uint32(7), cfg.NodeID)
}

func TestNewRejectsMissingFile(t *testing.T) {
	_, err := New("/nonexistent/does-not-exist.yaml")
	require.Error(t, err)
}
