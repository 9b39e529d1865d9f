package output

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/voxtype/voxtype/internal/config"
)

func TestFileSinkDeliverAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transcript.txt")
	sink := newFileSink(config.OutputConfig{File: config.FileOutputConfig{Path: path, AppendVsOverwrite: "append"}})

	require.NoError(t, sink.Probe(context.Background()))
	require.NoError(t, sink.Deliver(context.Background(), "first"))
	require.NoError(t, sink.Deliver(context.Background(), "second"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "first\nsecond\n", string(data))
}

func TestFileSinkDeliverOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transcript.txt")
	require.NoError(t, os.WriteFile(path, []byte("stale\n"), 0o644))

	sink := newFileSink(config.OutputConfig{File: config.FileOutputConfig{Path: path, AppendVsOverwrite: "overwrite"}})
	require.NoError(t, sink.Deliver(context.Background(), "fresh"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "fresh\n", string(data))
}

func TestFileSinkProbeRequiresPath(t *testing.T) {
	sink := newFileSink(config.OutputConfig{})
	err := sink.Probe(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "not configured")
}
