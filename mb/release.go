package mb

import "encoding/json"

// Release is one release as returned by the search endpoint. The catalog
// omits most sub-structures release to release, so everything beyond the id
// is a slice or pointer that may be empty.
type Release struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Date         string         `json:"date"`
	Country      string         `json:"country"`
	TrackCount   *int           `json:"track-count"`
	ReleaseGroup *ReleaseGroup  `json:"release-group"`
	ArtistCredit []ArtistCredit `json:"artist-credit"`
	Events       []ReleaseEvent `json:"release-events"`
	LabelInfo    []LabelInfo    `json:"label-info"`
	Media        []Medium       `json:"media"`
	Relations    []Relation     `json:"relations"`
	Tags         []Tag          `json:"tags"`

	// Raw is the release exactly as the service sent it, kept for the
	// dump's full_json column.
	Raw json.RawMessage `json:"-"`
}

func (r *Release) UnmarshalJSON(bs []byte) error {
	type plain Release
	var p plain
	if err := json.Unmarshal(bs, &p); err != nil {
		return err
	}
	*r = Release(p)
	r.Raw = append(json.RawMessage(nil), bs...)
	return nil
}

type ReleaseGroup struct {
	ID string `json:"id"`
}

type ArtistCredit struct {
	Name       string `json:"name"`
	JoinPhrase string `json:"joinphrase"`
}

type ReleaseEvent struct {
	Area *Area `json:"area"`
}

type Area struct {
	ISOCodes []string `json:"iso-3166-1-codes"`
}

type LabelInfo struct {
	Label *Label `json:"label"`
}

type Label struct {
	Name string `json:"name"`
}

type Medium struct {
	Format string `json:"format"`
}

type Relation struct {
	Type string       `json:"type"`
	URL  *RelationURL `json:"url"`
}

type RelationURL struct {
	Resource string `json:"resource"`
}

type Tag struct {
	Name string `json:"name"`
}

type searchPage struct {
	Count    int       `json:"count"`
	Releases []Release `json:"releases"`
}
