// Package normalize flattens MusicBrainz releases into storable rows and
// collapses them to one row per release id.
package normalize

import (
	"strings"

	"github.com/albumshare/mbimport/data"
	"github.com/albumshare/mbimport/mb"
)

const unknown = "Unknown"

// Release flattens one MusicBrainz release into a row. It never fails: every
// missing or oddly shaped sub-structure falls back to a documented default
// (empty, "Unknown", or absent).
func Release(rel mb.Release) data.Release {
	artist := Artist(rel.ArtistCredit)
	title := rel.Title
	if title == "" {
		title = unknown
	}

	row := data.Release{
		MBReleaseID: rel.ID,
		Album:       title,
		Artist:      artist,
		ReleaseDate: rel.Date,
		Label:       label(rel.LabelInfo),
		MediaType:   mediaType(rel.Media),
		TrackCount:  rel.TrackCount,
		Country:     country(rel),
		Tags:        tags(rel.Tags, 10),
		FullJSON:    rel.Raw,
	}
	if rel.ReleaseGroup != nil {
		row.MBReleaseGroupID = rel.ReleaseGroup.ID
	}
	if rel.ID != "" {
		row.CoverURL = "https://coverartarchive.org/release/" + rel.ID + "/front"
	}

	row.SpotifyURL, row.AppleMusicURL, row.BandcampURL = links(rel.Relations)
	row.YouTubeMusicURL = youtubeSearchURL(artist, title)

	return row
}

// Artist joins each credit's name with its join phrase, in credit order, and
// trims the result. An empty credit list, or one that joins to nothing, is
// "Unknown".
func Artist(credits []mb.ArtistCredit) string {
	var b strings.Builder
	for _, ac := range credits {
		b.WriteString(ac.Name)
		b.WriteString(ac.JoinPhrase)
	}
	if s := strings.TrimSpace(b.String()); s != "" {
		return s
	}
	return unknown
}

// country prefers the release's own country code, then the first
// release-event's area's first ISO-3166-1 code.
func country(rel mb.Release) string {
	if rel.Country != "" {
		return rel.Country
	}
	if len(rel.Events) > 0 && rel.Events[0].Area != nil {
		if codes := rel.Events[0].Area.ISOCodes; len(codes) > 0 {
			return codes[0]
		}
	}
	return ""
}

// label returns the first label-info entry carrying a non-empty label name.
func label(infos []mb.LabelInfo) string {
	for _, li := range infos {
		if li.Label != nil && li.Label.Name != "" {
			return li.Label.Name
		}
	}
	return ""
}

func mediaType(media []mb.Medium) string {
	if len(media) == 0 || media[0].Format == "" {
		return unknown
	}
	return media[0].Format
}

// links scans the url relations once. When several relations qualify for the
// same slot the last one wins; that matches the catalog's iteration order and
// is kept deliberately, since relation order carries no declared precedence.
func links(rels []mb.Relation) (spotify, appleMusic, bandcamp string) {
	for _, rel := range rels {
		if rel.URL == nil || rel.URL.Resource == "" {
			continue
		}
		target := rel.URL.Resource
		switch {
		case rel.Type == "spotify":
			spotify = target
		case rel.Type == "itunes" || strings.Contains(target, "music.apple.com"):
			appleMusic = target
		case strings.Contains(target, "bandcamp.com"):
			bandcamp = target
		}
	}
	return spotify, appleMusic, bandcamp
}

// youtubeSearchURL synthesizes a search link from artist and title. It is a
// query, not a resolved canonical link, and is always present.
func youtubeSearchURL(artist, title string) string {
	return "https://music.youtube.com/search?q=" +
		strings.ReplaceAll(artist, " ", "+") + "+" +
		strings.ReplaceAll(title, " ", "+")
}

// tags keeps up to limit tag names in source order, skipping unnamed entries.
func tags(in []mb.Tag, limit int) []string {
	var out []string
	for _, t := range in {
		if t.Name == "" {
			continue
		}
		out = append(out, t.Name)
		if len(out) == limit {
			break
		}
	}
	return out
}
