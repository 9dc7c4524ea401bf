package itunes

import (
	"encoding/json"
	"testing"
)

func TestMapArtist(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantOK    bool
		wantID    int64
		wantName  string
		wantGenre *string
	}{
		{
			name:      "complete record",
			raw:       `{"artistId": 5, "artistName": "Steve Find", "primaryGenreName": "Pop"}`,
			wantOK:    true,
			wantID:    5,
			wantName:  "Steve Find",
			wantGenre: strPtr("Pop"),
		},
		{
			name:      "extra fields ignored",
			raw:       `{"artistId": 5, "artistName": "Steve Find", "primaryGenreName": "", "year": 1990}`,
			wantOK:    true,
			wantID:    5,
			wantName:  "Steve Find",
			wantGenre: strPtr(""),
		},
		{
			name:     "missing genre",
			raw:      `{"artistId": 11, "artistName": "Sia"}`,
			wantOK:   true,
			wantID:   11,
			wantName: "Sia",
		},
		{
			name:     "null genre",
			raw:      `{"artistId": 11, "artistName": "Sia", "primaryGenreName": null}`,
			wantOK:   true,
			wantID:   11,
			wantName: "Sia",
		},
		{
			name:     "numeric genre",
			raw:      `{"artistId": 11, "artistName": "Sia", "primaryGenreName": 7}`,
			wantOK:   true,
			wantID:   11,
			wantName: "Sia",
		},
		{
			name:     "empty name allowed",
			raw:      `{"artistId": 3, "artistName": ""}`,
			wantOK:   true,
			wantID:   3,
			wantName: "",
		},
		{
			name:     "integral float id",
			raw:      `{"artistId": 12.0, "artistName": "Muse"}`,
			wantOK:   true,
			wantID:   12,
			wantName: "Muse",
		},
		{name: "missing name", raw: `{"artistId": 19, "primaryGenreName": "Rock"}`},
		{name: "null name", raw: `{"artistId": 11, "artistName": null}`},
		{name: "numeric name", raw: `{"artistId": 11, "artistName": 42}`},
		{name: "missing id", raw: `{"artistName": "Nobody"}`},
		{name: "string id", raw: `{"artistId": "5", "artistName": "Steve Find"}`},
		{name: "fractional id", raw: `{"artistId": 5.5, "artistName": "Steve Find"}`},
		{name: "zero id", raw: `{"artistId": 0, "artistName": "Zero"}`},
		{name: "negative id", raw: `{"artistId": -4, "artistName": "Minus"}`},
		{name: "not an object", raw: `"Steve Find"`},
		{name: "null record", raw: `null`},
		{name: "array record", raw: `[1, "Steve Find"]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := MapArtist(json.RawMessage(tt.raw))
			if ok != tt.wantOK {
				t.Fatalf("MapArtist(%s) ok = %v, want %v", tt.raw, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if got.ID != tt.wantID || got.Name != tt.wantName {
				t.Errorf("MapArtist() = {%d %q}, want {%d %q}", got.ID, got.Name, tt.wantID, tt.wantName)
			}
			switch {
			case tt.wantGenre == nil && got.Genre != nil:
				t.Errorf("MapArtist() genre = %q, want absent", *got.Genre)
			case tt.wantGenre != nil && (got.Genre == nil || *got.Genre != *tt.wantGenre):
				t.Errorf("MapArtist() genre = %v, want %q", got.Genre, *tt.wantGenre)
			}
		})
	}
}

func TestArtistJSON(t *testing.T) {
	tests := []struct {
		name   string
		artist Artist
		want   string
	}{
		{"with genre", Artist{ID: 1, Name: "Metallica", Genre: strPtr("Metal")}, `{"id":1,"name":"Metallica","genre":"Metal"}`},
		{"empty genre kept", Artist{ID: 5, Name: "Steve Find", Genre: strPtr("")}, `{"id":5,"name":"Steve Find","genre":""}`},
		{"absent genre omitted", Artist{ID: 11, Name: "Sia"}, `{"id":11,"name":"Sia"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := json.Marshal(tt.artist)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			if string(b) != tt.want {
				t.Errorf("Marshal() = %s, want %s", b, tt.want)
			}
		})
	}
}

func strPtr(s string) *string { return &s }
