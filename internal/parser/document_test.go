package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/form-guide/internal/models"
)

func TestInferTrackAndDate(t *testing.T) {
	tests := []struct {
		id        string
		wantTrack string
		wantDate  string
	}{
		{id: "QSTR_2025-09-08", wantTrack: "QSTR", wantDate: "2025-09-08"},
		{id: "forms/RICH_2025-09-05.pdf", wantTrack: "RICH", wantDate: "2025-09-05"},
		{id: "heal-2025-08-31.txt", wantTrack: "HEAL", wantDate: "2025-08-31"},
		{id: "DRWN_2025-13-40.pdf", wantTrack: "DRWN", wantDate: ""},
		{id: "meeting 2025-09-06.html", wantTrack: "", wantDate: "2025-09-06"},
		{id: "random.pdf", wantTrack: "", wantDate: ""},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			track, date := InferTrackAndDate(tt.id)
			assert.Equal(t, tt.wantTrack, track)
			assert.Equal(t, tt.wantDate, date)
		})
	}
}

func TestResolveIdentityLabelsUnknown(t *testing.T) {
	id := ResolveIdentity("random.pdf", time.Time{})

	assert.Equal(t, Identity{Track: models.Unknown, Date: models.Unknown}, id)
}

func TestResolveIdentityRacingAndSportsName(t *testing.T) {
	runDate := time.Date(2025, 8, 31, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, Identity{Track: "HEAL", Date: "2025-08-31"}, ResolveIdentity("HEALG3108form.pdf", runDate))
	assert.Equal(t, Identity{Track: "CAPA", Date: models.Unknown}, ResolveIdentity("CAPAG3108form.pdf", time.Time{}))
}

func TestParseDocumentUnknownIdentity(t *testing.T) {
	doc := Document{ID: "no-convention.txt", Lines: []string{"Race 1", "1 Fast Dog"}}

	res := ParseDocument(doc, time.Time{}, nil)

	require.Len(t, res.Rows, 1)
	assert.Equal(t, models.Unknown, res.Rows[0].Track)
	assert.Equal(t, models.Unknown, res.Rows[0].Date)
}
