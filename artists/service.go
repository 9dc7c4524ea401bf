package artists

import (
	"context"
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	sentry "github.com/getsentry/sentry-go"
	log "github.com/sirupsen/logrus"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"todaysartists/itunes"
	"todaysartists/sentryhelper"
)

// Fetcher returns the full catalog. *itunes.Client satisfies it.
type Fetcher interface {
	FetchArtists(ctx context.Context) ([]itunes.Artist, error)
}

// Service selects today's artists. It holds no per-request state, so one
// Service can serve any number of concurrent requests.
type Service struct {
	fetcher Fetcher
	now     func() time.Time
	locale  language.Tag
}

func NewService(fetcher Fetcher) *Service {
	return &Service{
		fetcher: fetcher,
		now:     time.Now,
		locale:  language.English,
	}
}

// GetItems fetches the catalog and returns the requested page of artists
// whose normalized name starts with today's initial.
// Fetch errors are returned unchanged and no partial page is produced.
func (s *Service) GetItems(ctx context.Context, query Query) (*Result, error) {
	query = query.withDefaults()
	logger := log.WithFields(log.Fields{"module": "artists", "function": "GetItems"})

	span := sentryhelper.StartSpan(ctx, "artists.get_items")
	span.Description = "Select today's artists"
	span.SetTag("sort", query.Sort)
	defer span.Finish()

	catalog, err := s.fetcher.FetchArtists(span.Context())
	if err != nil {
		span.Status = sentry.SpanStatusUnavailable
		return nil, err
	}

	day, err := resolveDay("", s.now)
	if err != nil {
		span.Status = sentry.SpanStatusInternalError
		return nil, err
	}
	selected := filterByInitial(catalog, firstLower(day))
	if query.Genre != "" {
		selected = filterByGenre(selected, query.Genre)
	}
	sortByName(selected, query.Sort == SortDesc, s.locale)

	result := paginate(selected, query.Page, query.Limit)
	result.Day = day
	result.Query = query

	logger.Debugf("Selected %d of %d artists for %s (page %d, limit %d)",
		result.Meta.Total, len(catalog), day, query.Page, query.Limit)
	sentryhelper.AddBreadcrumb(ctx, &sentry.Breadcrumb{
		Category: "artists",
		Message:  "selected today's artists",
		Data: map[string]interface{}{
			"day":   day,
			"total": result.Meta.Total,
		},
		Level: sentry.LevelInfo,
	})
	span.Status = sentry.SpanStatusOK
	span.SetData("total", result.Meta.Total)

	return result, nil
}

// firstLower returns the lower-cased first rune of s, or utf8.RuneError for "".
func firstLower(s string) rune {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return utf8.RuneError
	}
	return unicode.ToLower(r)
}

func filterByInitial(catalog []itunes.Artist, initial rune) []itunes.Artist {
	selected := make([]itunes.Artist, 0, len(catalog))
	for _, artist := range catalog {
		name := NormalizeName(artist.Name)
		if name == "" {
			continue
		}
		if firstLower(name) == initial {
			selected = append(selected, artist)
		}
	}
	return selected
}

func filterByGenre(artists []itunes.Artist, genre string) []itunes.Artist {
	selected := artists[:0]
	for _, artist := range artists {
		if artist.Genre != nil && strings.EqualFold(*artist.Genre, genre) {
			selected = append(selected, artist)
		}
	}
	return selected
}

// sortByName orders artists by their lower-cased normalized name using the
// locale's collation. Equal keys keep fetch order in both directions.
func sortByName(artists []itunes.Artist, desc bool, locale language.Tag) {
	keys := make([]string, len(artists))
	for i, artist := range artists {
		keys[i] = strings.ToLower(NormalizeName(artist.Name))
	}

	// collators are not safe for concurrent use, so each sort gets its own
	collator := collate.New(locale)
	sort.Stable(byKey{artists: artists, keys: keys, desc: desc, collator: collator})
}

type byKey struct {
	artists  []itunes.Artist
	keys     []string
	desc     bool
	collator *collate.Collator
}

func (b byKey) Len() int { return len(b.artists) }

func (b byKey) Less(i, j int) bool {
	cmp := b.collator.CompareString(b.keys[i], b.keys[j])
	if b.desc {
		return cmp > 0
	}
	return cmp < 0
}

func (b byKey) Swap(i, j int) {
	b.artists[i], b.artists[j] = b.artists[j], b.artists[i]
	b.keys[i], b.keys[j] = b.keys[j], b.keys[i]
}

func paginate(artists []itunes.Artist, page, limit int) *Result {
	total := len(artists)

	// (page-1)*limit can overflow for absurd pages, and anything past
	// total/limit is empty anyway
	start := total
	if page-1 <= total/limit {
		start = min((page-1)*limit, total)
	}
	end := min(start+limit, total)

	data := make([]itunes.Artist, end-start)
	copy(data, artists[start:end])

	return &Result{
		Data: data,
		Meta: Meta{
			Total:       total,
			Page:        page,
			Limit:       limit,
			HasNextPage: start+limit < total,
		},
	}
}
