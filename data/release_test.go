package data_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albumshare/mbimport/data"
)

func TestMinimalKeepsCoreFields(t *testing.T) {
	n := 10
	full := data.Release{
		MBReleaseID:      "r1",
		MBReleaseGroupID: "rg1",
		Album:            "One",
		Artist:           "A",
		ReleaseDate:      "2025-12-05",
		Label:            "Sub Pop",
		CoverURL:         "https://coverartarchive.org/release/r1/front",
		MediaType:        "CD",
		TrackCount:       &n,
		Country:          "US",
		SpotifyURL:       "https://open.spotify.com/album/1",
		YouTubeMusicURL:  "https://music.youtube.com/search?q=A+One",
		Tags:             []string{"rock"},
		FullJSON:         json.RawMessage(`{"id":"r1"}`),
	}

	got := full.Minimal()
	assert.Equal(t, data.Release{
		MBReleaseID:      "r1",
		MBReleaseGroupID: "rg1",
		Album:            "One",
		Artist:           "A",
		ReleaseDate:      "2025-12-05",
		Label:            "Sub Pop",
		CoverURL:         "https://coverartarchive.org/release/r1/front",
	}, got)
}

func TestOptionalFieldsOmitted(t *testing.T) {
	bs, err := json.Marshal(data.Release{MBReleaseID: "r1", Album: "One"})
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(bs, &m))
	assert.Contains(t, m, "mb_release_id")
	assert.Contains(t, m, "album")
	assert.NotContains(t, m, "label")
	assert.NotContains(t, m, "track_count")
	assert.NotContains(t, m, "tags")
	assert.NotContains(t, m, "full_json")
}
