package handlers

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"todaysartists/artists"
)

// todayRequest is the validated form of the /artists/today query string.
type todayRequest struct {
	Sort  string `binding:"oneof=asc desc"`
	Genre string
	Limit int `binding:"min=1,max=100"`
	Page  int `binding:"min=1"`
}

// parseTodayQuery coerces and validates the query string. Numbers follow
// loose number semantics: absent, blank or non-numeric values fall back to
// the default, while numeric values must be in range integers.
func parseTodayQuery(c *gin.Context) (artists.Query, []string) {
	req := todayRequest{
		Sort:  artists.SortAsc,
		Limit: artists.DefaultLimit,
		Page:  artists.DefaultPage,
	}
	var problems []string

	if sort, ok := c.GetQuery("sort"); ok {
		req.Sort = sort
	}
	req.Genre = c.Query("genre")

	if limit, ok, problem := intParam(c, "limit"); problem != "" {
		problems = append(problems, problem)
	} else if ok {
		req.Limit = limit
	}
	if page, ok, problem := intParam(c, "page"); problem != "" {
		problems = append(problems, problem)
	} else if ok {
		req.Page = page
	}

	if err := binding.Validator.ValidateStruct(&req); err != nil {
		problems = append(problems, validationMessages(err)...)
	}
	if len(problems) > 0 {
		return artists.Query{}, problems
	}

	return artists.Query{
		Sort:  req.Sort,
		Genre: req.Genre,
		Limit: req.Limit,
		Page:  req.Page,
	}, nil
}

// intParam reads a numeric query parameter. ok is false when the value is
// absent or not a number; problem is set when it is a number but not an integer.
func intParam(c *gin.Context, name string) (value int, ok bool, problem string) {
	n, ok := toNumber(c.Query(name))
	if !ok {
		return 0, false, ""
	}
	if n != math.Trunc(n) {
		return 0, false, fmt.Sprintf("%s must be an integer number", name)
	}
	// huge integers are clamped so the range rules report them
	n = math.Max(math.MinInt32, math.Min(n, math.MaxInt32))
	return int(n), true, ""
}

// toNumber converts a raw query value to a finite number.
func toNumber(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(n, 0) || math.IsNaN(n) {
		return 0, false
	}
	return n, true
}

func validationMessages(err error) []string {
	var messages []string
	fieldErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}
	for _, fe := range fieldErrors {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "oneof":
			messages = append(messages, fmt.Sprintf("%s must be one of the following values: %s",
				field, strings.ReplaceAll(fe.Param(), " ", ", ")))
		case "min":
			messages = append(messages, fmt.Sprintf("%s must not be less than %s", field, fe.Param()))
		case "max":
			messages = append(messages, fmt.Sprintf("%s must not be greater than %s", field, fe.Param()))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", field))
		}
	}
	return messages
}
