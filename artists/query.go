package artists

import "todaysartists/itunes"

const (
	SortAsc  = "asc"
	SortDesc = "desc"

	DefaultLimit = 20
	MaxLimit     = 100
	DefaultPage  = 1
)

// Query selects a page of today's artists. It is validated by the HTTP
// layer before it gets here; zero values mean "use the default".
type Query struct {
	Sort  string
	Genre string
	Limit int
	Page  int
}

// Result is one page of today's artists. Day is the weekday the selection
// was keyed on and Query the effective query after defaults.
type Result struct {
	Data  []itunes.Artist `json:"data"`
	Meta  Meta            `json:"meta"`
	Day   string          `json:"-"`
	Query Query           `json:"-"`
}

type Meta struct {
	Total       int  `json:"total"`
	Page        int  `json:"page"`
	Limit       int  `json:"limit"`
	HasNextPage bool `json:"hasNextPage"`
}

func (q Query) withDefaults() Query {
	if q.Sort == "" {
		q.Sort = SortAsc
	}
	if q.Limit <= 0 {
		q.Limit = DefaultLimit
	}
	if q.Page <= 0 {
		q.Page = DefaultPage
	}
	return q
}
