package bcs

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tinypay.dev/paykit/digest"
)

func TestConformanceVectors_BCS(t *testing.T) {
	b, err := os.ReadFile(filepath.Join("..", "testdata", "conformance", "vectors.json"))
	require.NoError(t, err)
	var doc struct {
		BCS []struct {
			Name   string `json:"name"`
			JSON   string `json:"json"`
			BCSHex string `json:"bcs_hex"`
			SHA256 string `json:"sha256"`
		} `json:"bcs"`
	}
	require.NoError(t, jsoniter.Unmarshal(b, &doc))
	require.NotEmpty(t, doc.BCS)

	for _, v := range doc.BCS {
		t.Run(v.Name, func(t *testing.T) {
			val, err := FromJSON([]byte(v.JSON))
			require.NoError(t, err)
			enc, err := Encode(val)
			require.NoError(t, err)
			assert.Equal(t, v.BCSHex, hex.EncodeToString(enc))

			d, err := Hash(digest.SHA256(), val)
			require.NoError(t, err)
			assert.Equal(t, v.SHA256, d.Hex())
		})
	}
}
