package normalize

import "github.com/albumshare/mbimport/data"

// Dedupe collapses rows to one per MusicBrainz release id, keeping the first
// row seen for each id. Rows with no id are dropped, never kept under a
// synthetic key; how many were dropped is returned alongside. Feeding
// Dedupe's output back into Dedupe changes nothing.
func Dedupe(rows []data.Release) (unique []data.Release, missingID int) {
	seen := make(map[string]struct{}, len(rows))
	unique = make([]data.Release, 0, len(rows))

	for _, row := range rows {
		id := row.MBReleaseID
		if id == "" {
			missingID++
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, row)
	}

	return unique, missingID
}
