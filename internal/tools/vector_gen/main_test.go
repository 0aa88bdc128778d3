package main

import (
	"os"
	"path/filepath"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The checked-in vectors must be exactly what the generator produces.
func TestCheckedInVectorsAreCurrent(t *testing.T) {
	b, err := os.ReadFile(filepath.Join("..", "..", "..", "testdata", "conformance", "vectors.json"))
	require.NoError(t, err)
	var onDisk vectors
	require.NoError(t, jsoniter.Unmarshal(b, &onDisk))

	want, err := build()
	require.NoError(t, err)
	assert.Equal(t, want, onDisk)
}
