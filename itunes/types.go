package itunes

import "encoding/json"

// Artist is a catalog artist as returned to callers
type Artist struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Genre *string `json:"genre,omitempty"` // nil when the catalog sent no usable genre
}

// searchResponse is the envelope of the iTunes search endpoint.
// Results stays raw so each record can be validated on its own.
type searchResponse struct {
	Results json.RawMessage `json:"results"`
}

// rawArtist mirrors the fields we read from a search result
type rawArtist struct {
	ArtistID         json.RawMessage `json:"artistId"`
	ArtistName       json.RawMessage `json:"artistName"`
	PrimaryGenreName json.RawMessage `json:"primaryGenreName"`
}
