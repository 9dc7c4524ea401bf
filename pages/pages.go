package pages

import (
	"html/template"
	"net/url"
	"strconv"
	"strings"

	"todaysartists/artists"
)

var artistsPage = template.Must(template.New("artists").Funcs(template.FuncMap{
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
}).Parse(`
<!DOCTYPE html>
<html>
<head>
    <title>Today's Artists</title>
    <style>
        body {
            font-family: Arial, sans-serif;
            line-height: 1.6;
            max-width: 800px;
            margin: 0 auto;
            padding: 20px;
        }
        .genre {
            color: #666;
            font-size: 0.9em;
        }
    </style>
</head>
<body>
    <h1>{{.Day}}'s Artists</h1>
    {{if .Result.Data}}
    <ol class="artists" start="{{.Start}}">
        {{range .Result.Data}}
        <li class="artist" data-id="{{.ID}}">{{.Name}}{{with deref .Genre}} <span class="genre">{{.}}</span>{{end}}</li>
        {{end}}
    </ol>
    {{else}}
    <p class="empty">No artists today.</p>
    {{end}}
    <p class="meta">Page {{.Result.Meta.Page}} &middot; {{.Result.Meta.Total}} artists{{if .Result.Meta.HasNextPage}} &middot; <a rel="next" href="{{.NextURL}}">next</a>{{end}}</p>
</body>
</html>`))

type artistsView struct {
	Day     string
	Result  *artists.Result
	Start   int
	NextURL string
}

// RenderArtists renders one page of today's artists as HTML. The next link
// keeps the sort and genre the page was selected with.
func RenderArtists(result *artists.Result) (string, error) {
	view := artistsView{
		Day:     result.Day,
		Result:  result,
		Start:   (result.Meta.Page-1)*result.Meta.Limit + 1,
		NextURL: nextPageURL(result),
	}

	var sb strings.Builder
	if err := artistsPage.Execute(&sb, view); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func nextPageURL(result *artists.Result) string {
	params := url.Values{}
	if result.Query.Sort != "" {
		params.Set("sort", result.Query.Sort)
	}
	if result.Query.Genre != "" {
		params.Set("genre", result.Query.Genre)
	}
	params.Set("limit", strconv.Itoa(result.Meta.Limit))
	params.Set("page", strconv.Itoa(result.Meta.Page+1))
	return "?" + params.Encode()
}
