package itunes

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// MapArtist converts one raw search result into an Artist.
// Records without an integral positive artistId or a string artistName are
// rejected with ok == false; a bad record never fails the whole fetch.
func MapArtist(raw json.RawMessage) (Artist, bool) {
	var record rawArtist
	if err := json.Unmarshal(raw, &record); err != nil {
		return Artist{}, false
	}

	id, ok := parseID(record.ArtistID)
	if !ok {
		return Artist{}, false
	}

	name, ok := parseString(record.ArtistName)
	if !ok {
		return Artist{}, false
	}

	artist := Artist{ID: id, Name: name}
	if genre, ok := parseString(record.PrimaryGenreName); ok {
		artist.Genre = &genre
	}
	return artist, true
}

func parseID(raw json.RawMessage) (int64, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || !(raw[0] == '-' || (raw[0] >= '0' && raw[0] <= '9')) {
		return 0, false
	}

	id, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		// 12.0 and 1e3 are still integers
		f, ferr := strconv.ParseFloat(string(raw), 64)
		if ferr != nil || f != math.Trunc(f) || f > math.MaxInt64 || f < math.MinInt64 {
			return 0, false
		}
		id = int64(f)
	}
	if id <= 0 {
		return 0, false
	}
	return id, true
}

func parseString(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}
