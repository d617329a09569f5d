package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	opts := Default()

	assert.InDelta(t, 1.0, opts.WeightPrimaryKeys+opts.WeightDataTypes+
		opts.WeightDenormalization+opts.WeightQueryPatterns, 1e-9)

	assert.Equal(t, 0.30, opts.WeightPrimaryKeys)
	assert.Equal(t, 0.20, opts.WeightDataTypes)
	assert.Equal(t, 0.25, opts.WeightDenormalization)
	assert.Equal(t, 0.25, opts.WeightQueryPatterns)

	assert.Equal(t, 15.0, opts.JoinPenalty)
	assert.Equal(t, 10.0, opts.RelationshipPenalty)
	assert.Equal(t, 20.0, opts.TypePenalty)

	assert.Equal(t, 3, opts.MaxChainHops)
	assert.Equal(t, 5, opts.MaxChainCount)
	assert.Equal(t, 5, opts.TopN)

	assert.Equal(t, "converted_schema", opts.Keyspace)
	assert.Equal(t, 3, opts.ReplicationFactor)
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
keyspace: orders_ks
replication_factor: 1
weight_primary_keys: 0.4
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	opts, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "orders_ks", opts.Keyspace)
	assert.Equal(t, 1, opts.ReplicationFactor)
	assert.Equal(t, 0.4, opts.WeightPrimaryKeys)
	// 未覆盖的键保持缺省
	assert.Equal(t, 0.20, opts.WeightDataTypes)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	require.Error(t, err)
}
