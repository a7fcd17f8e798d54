package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pepicrft/micelio/internal/logging"
)

func TestHashCommandPrintsDigest(t *testing.T) {
	root := newRootCmd(logging.Noop())
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"hash"})
	root.SetIn(strings.NewReader("hello"))

	require.NoError(t, root.Execute())
	require.Len(t, strings.TrimSpace(out.String()), 64)
}

func TestClockCommandPrintsTimestamp(t *testing.T) {
	root := newRootCmd(logging.Noop())
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"clock", "--node-id", "7"})

	require.NoError(t, root.Execute())
	require.Contains(t, out.String(), "node_id=7")
}

func TestCallCommandRequiresTwoArgs(t *testing.T) {
	root := newRootCmd(logging.Noop())
	root.SetArgs([]string{"call", "only-target"})
	require.Error(t, root.Execute())
}
