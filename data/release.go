package data

import "encoding/json"

// Release is one normalized MusicBrainz release, flattened into the row shape
// shared by the JSON dumps, the Supabase tables, and the local archive.
//
// Optional string fields are empty when the release had no usable value; the
// json tags omit them so dumps stay close to what the catalog actually said.
type Release struct {
	// identity
	MBReleaseID      string `json:"mb_release_id,omitempty" gorm:"column:mb_release_id;primaryKey"`
	MBReleaseGroupID string `json:"mb_release_group_id,omitempty" gorm:"column:mb_release_group_id"`

	// core
	Album       string `json:"album,omitempty"`
	Artist      string `json:"artist,omitempty"`
	ReleaseDate string `json:"release_date,omitempty"`
	Label       string `json:"label,omitempty"`
	CoverURL    string `json:"cover_url,omitempty" gorm:"column:cover_url"`

	// metadata
	MediaType  string `json:"media_type,omitempty"`
	TrackCount *int   `json:"track_count,omitempty"`
	Country    string `json:"country,omitempty"`

	// links
	SpotifyURL      string `json:"spotify_url,omitempty" gorm:"column:spotify_url"`
	AppleMusicURL   string `json:"apple_music_url,omitempty" gorm:"column:apple_music_url"`
	YouTubeMusicURL string `json:"youtube_music_url,omitempty" gorm:"column:youtube_music_url"`
	BandcampURL     string `json:"bandcamp_url,omitempty" gorm:"column:bandcamp_url"`

	Tags []string `json:"tags,omitempty" gorm:"serializer:json"`

	// FullJSON is the release exactly as the catalog returned it, kept for
	// audit and replay.
	FullJSON json.RawMessage `json:"full_json,omitempty" gorm:"column:full_json"`
}

// Minimal returns a copy keeping only the identity and core fields, for
// destination tables that don't have the optional columns yet.
func (r Release) Minimal() Release {
	return Release{
		MBReleaseID:      r.MBReleaseID,
		MBReleaseGroupID: r.MBReleaseGroupID,
		Album:            r.Album,
		Artist:           r.Artist,
		ReleaseDate:      r.ReleaseDate,
		Label:            r.Label,
		CoverURL:         r.CoverURL,
	}
}
