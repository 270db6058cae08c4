package storage

import (
	"testing"
	"time"

	"github.com/poiesic/briefing/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateRecordSerialization(t *testing.T) {
	tests := []struct {
		name   string
		record *core.UpdateRecord
	}{
		{
			name: "all fields",
			record: &core.UpdateRecord{
				ID:             "mc-001",
				Title:          "Teams classic retirement",
				Summary:        "Classic Teams client reaches end of support",
				Impact:         "Users must move to new Teams",
				ActionRequired: "Deploy the new client",
				Severity:       core.SeverityBreaking,
				Product:        "m365-teams",
				ProductFamily:  "Microsoft 365",
				Source:         core.SourceMessageCenter,
				SourceRef:      "MC123456",
				SourceURL:      "https://admin.microsoft.com/#/MessageCenter/:/messages/MC123456",
				Date:           "2025-01-15",
				Deadline:       "2025-07-01",
			},
		},
		{
			name: "optional fields empty",
			record: &core.UpdateRecord{
				ID:       "mc-002",
				Title:    "AKS 1.27 サポート終了",
				Severity: core.SeverityImprovement,
				Product:  "azure-compute",
				Source:   core.SourceMessageCenter,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalUpdateRecord(tt.record)
			assert.Len(t, data, core.UpdateRecordMUS.Size(*tt.record))

			decoded, err := UnmarshalUpdateRecord(data)
			require.NoError(t, err)
			assert.Equal(t, tt.record, decoded)

			n, err := core.UpdateRecordMUS.Skip(data)
			require.NoError(t, err)
			assert.Equal(t, len(data), n)
		})
	}
}

func TestUnmarshalUpdateRecord_Corrupt(t *testing.T) {
	data := MarshalUpdateRecord(&core.UpdateRecord{ID: "mc-001", Title: "Truncated"})

	_, err := UnmarshalUpdateRecord(data[:len(data)/2])
	assert.ErrorIs(t, err, ErrSerializationFailed)

	_, err = UnmarshalUpdateRecord(nil)
	assert.ErrorIs(t, err, ErrSerializationFailed)
}

func TestCheckpointSerialization(t *testing.T) {
	t.Run("populated", func(t *testing.T) {
		checkpoint := &core.Checkpoint{
			Source:    "seed:/data/azure.yaml",
			Digest:    "abc123",
			Records:   12,
			UpdatedAt: time.Date(2025, 3, 1, 10, 0, 0, 123456000, time.UTC),
		}

		data := MarshalCheckpoint(checkpoint)
		decoded, err := UnmarshalCheckpoint(data)
		require.NoError(t, err)
		assert.Equal(t, checkpoint, decoded)

		n, err := core.CheckpointMUS.Skip(data)
		require.NoError(t, err)
		assert.Equal(t, len(data), n)
	})

	t.Run("sub-microsecond precision is dropped", func(t *testing.T) {
		checkpoint := &core.Checkpoint{
			Source:    "seed:/data/m365.yaml",
			UpdatedAt: time.Date(2025, 3, 1, 10, 0, 0, 999, time.UTC),
		}

		decoded, err := UnmarshalCheckpoint(MarshalCheckpoint(checkpoint))
		require.NoError(t, err)
		assert.True(t, decoded.UpdatedAt.Equal(time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)))
	})

	t.Run("truncated", func(t *testing.T) {
		data := MarshalCheckpoint(&core.Checkpoint{Source: "seed:/data/d365.yaml", Digest: "ff"})
		_, err := UnmarshalCheckpoint(data[:3])
		assert.ErrorIs(t, err, ErrSerializationFailed)
	})
}
