package pages

import (
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"todaysartists/artists"
	"todaysartists/itunes"
)

func parse(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("failed to parse HTML: %v", err)
	}
	return doc
}

func TestRenderArtists(t *testing.T) {
	pop := "Pop"
	result := &artists.Result{
		Data: []itunes.Artist{
			{ID: 32, Name: "a mad man", Genre: &pop},
			{ID: 3, Name: "<Madonna>"},
		},
		Meta: artists.Meta{Total: 5, Page: 2, Limit: 2, HasNextPage: true},
		Day:  "Monday",
	}

	html, err := RenderArtists(result)
	if err != nil {
		t.Fatalf("RenderArtists() error = %v", err)
	}
	doc := parse(t, html)

	if got := doc.Find("h1").Text(); got != "Monday's Artists" {
		t.Errorf("h1 = %q, want %q", got, "Monday's Artists")
	}

	items := doc.Find("li.artist")
	if items.Length() != 2 {
		t.Fatalf("found %d artists, want 2", items.Length())
	}
	if id, _ := items.First().Attr("data-id"); id != "32" {
		t.Errorf("first data-id = %q, want 32", id)
	}
	if got := items.First().Find(".genre").Text(); got != "Pop" {
		t.Errorf("first genre = %q, want Pop", got)
	}
	if items.Last().Find(".genre").Length() != 0 {
		t.Error("artist without genre rendered a genre span")
	}
	if got := strings.TrimSpace(items.Last().Text()); got != "<Madonna>" {
		t.Errorf("second artist text = %q, want escaped name", got)
	}
	if start, _ := doc.Find("ol.artists").Attr("start"); start != "3" {
		t.Errorf("ol start = %q, want 3", start)
	}

	next, ok := doc.Find(`a[rel="next"]`).Attr("href")
	if !ok || next != "?limit=2&page=3" {
		t.Errorf("next link = %q, want ?limit=2&page=3", next)
	}
}

func TestRenderArtistsEmpty(t *testing.T) {
	result := &artists.Result{
		Data: []itunes.Artist{},
		Meta: artists.Meta{Total: 0, Page: 1, Limit: 20},
		Day:  "Sunday",
	}

	html, err := RenderArtists(result)
	if err != nil {
		t.Fatalf("RenderArtists() error = %v", err)
	}
	doc := parse(t, html)

	if doc.Find("p.empty").Length() != 1 {
		t.Error("empty message missing")
	}
	if doc.Find(`a[rel="next"]`).Length() != 0 {
		t.Error("next link rendered on last page")
	}
}

func TestRenderArtistsNextLinkKeepsSelection(t *testing.T) {
	result := &artists.Result{
		Data:  []itunes.Artist{{ID: 3, Name: "Madonna"}},
		Meta:  artists.Meta{Total: 3, Page: 1, Limit: 1, HasNextPage: true},
		Day:   "Monday",
		Query: artists.Query{Sort: "desc", Genre: "Hip Hop/Rap", Limit: 1, Page: 1},
	}

	html, err := RenderArtists(result)
	if err != nil {
		t.Fatalf("RenderArtists() error = %v", err)
	}

	next, ok := parse(t, html).Find(`a[rel="next"]`).Attr("href")
	if !ok {
		t.Fatal("next link missing")
	}
	params, err := url.ParseQuery(strings.TrimPrefix(next, "?"))
	if err != nil {
		t.Fatalf("next link %q is not a query string: %v", next, err)
	}
	want := map[string]string{"sort": "desc", "genre": "Hip Hop/Rap", "limit": "1", "page": "2"}
	for key, value := range want {
		if got := params.Get(key); got != value {
			t.Errorf("next link %s = %q, want %q (href %q)", key, got, value, next)
		}
	}
}
