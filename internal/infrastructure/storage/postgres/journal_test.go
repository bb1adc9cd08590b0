package postgres

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJournalSnapshot_CompressesLargeAndDecodesBack(t *testing.T) {
	svc, err := NewJournalService(nil)
	require.NoError(t, err)

	snapshot, err := json.Marshal(map[string]string{
		"name": strings.Repeat("Carrelage 60x60 gris anthracite ", 200),
	})
	require.NoError(t, err)
	require.Greater(t, len(snapshot), svc.compressThreshold)

	entry := JournalEntry{Snapshot: snapshot, CompressionAlgo: CompressionNone}
	svc.compressEntry(&entry)

	require.Equal(t, CompressionZstd, entry.CompressionAlgo)
	require.Nil(t, entry.Snapshot)
	require.NotEmpty(t, entry.SnapshotCompressed)
	assert.Less(t, len(entry.SnapshotCompressed), len(snapshot))

	require.NoError(t, svc.decodeSnapshot(&entry))
	assert.Equal(t, json.RawMessage(snapshot), entry.Snapshot)
	assert.Empty(t, entry.SnapshotCompressed)
}

func TestJournalSnapshot_SmallStaysRaw(t *testing.T) {
	svc, err := NewJournalService(nil)
	require.NoError(t, err)

	snapshot := json.RawMessage(`{"name":"Colle carrelage 25kg"}`)
	entry := JournalEntry{Snapshot: snapshot, CompressionAlgo: CompressionNone}
	svc.compressEntry(&entry)

	assert.Equal(t, CompressionNone, entry.CompressionAlgo)
	assert.Equal(t, snapshot, entry.Snapshot)
	assert.Empty(t, entry.SnapshotCompressed)

	// Decode is a no-op on uncompressed entries.
	require.NoError(t, svc.decodeSnapshot(&entry))
	assert.Equal(t, snapshot, entry.Snapshot)
}
