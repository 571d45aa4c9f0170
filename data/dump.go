package data

// Dump is the durable artifact written after every run, whatever the mode. A
// saved dump can be fed back into the importer to skip the network entirely.
type Dump struct {
	Source                Source    `json:"source"`
	CountNormalizedUnique int       `json:"count_normalized_unique"`
	Rows                  []Release `json:"rows"`
}

// Source records where a dump's rows came from. A live fetch fills Year,
// Month, and Sleep (Sleep as seconds, flag default included); a replayed dump
// fills only FromJSON, since no request pacing happened.
type Source struct {
	Year     int     `json:"year,omitempty"`
	Month    int     `json:"month,omitempty"`
	Sleep    float64 `json:"sleep,omitempty"`
	FromJSON string  `json:"from_json,omitempty"`
}
