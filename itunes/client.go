package itunes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	sentry "github.com/getsentry/sentry-go"
	log "github.com/sirupsen/logrus"

	"todaysartists/sentryhelper"
)

const (
	// DefaultTimeout bounds a whole catalog fetch, body included.
	DefaultTimeout = 5000 * time.Millisecond

	searchTerm   = "music"
	searchEntity = "musicArtist"
	searchLimit  = 200
)

// The deadline comes from the request context, so the shared client has no Timeout of its own.
var httpClient = &http.Client{}

// Client fetches artists from the iTunes search API rooted at BaseURL.
type Client struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		Timeout:    DefaultTimeout,
		HTTPClient: httpClient,
	}
}

// FetchArtists fetches the catalog from baseURL with the default timeout.
func FetchArtists(ctx context.Context, baseURL string) ([]Artist, error) {
	return NewClient(baseURL).FetchArtists(ctx)
}

// FetchArtists runs one bounded search against the catalog and returns the
// artists that survived mapping, in upstream order.
// Every failure is an *UpstreamError matching ErrServiceUnavailable.
func (c *Client) FetchArtists(ctx context.Context) ([]Artist, error) {
	logger := log.WithFields(log.Fields{"module": "itunes", "function": "FetchArtists"})

	span := sentryhelper.StartSpan(ctx, "itunes.fetch_artists")
	span.Description = "Search iTunes catalog for music artists"
	span.SetTag("entity", searchEntity)
	defer span.Finish()

	artists, err := c.fetch(span.Context(), logger)
	if err != nil {
		reason := ReasonOf(err)
		logger.WithField("reason", reason).Errorf("Failed to fetch artists: %v", err)
		span.SetTag("reason", string(reason))
		span.Status = spanStatus(reason)
		sentryhelper.CaptureException(ctx, err)
		return nil, err
	}

	span.Status = sentry.SpanStatusOK
	span.SetData("artists_count", len(artists))
	return artists, nil
}

func (c *Client) fetch(ctx context.Context, logger *log.Entry) ([]Artist, error) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	searchURL, err := c.searchURL()
	if err != nil {
		return nil, &UpstreamError{Reason: ReasonUnreachable, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, &UpstreamError{Reason: ReasonUnreachable, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	logger.Tracef("Fetching iTunes catalog: %s", searchURL)

	client := c.HTTPClient
	if client == nil {
		client = httpClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, transportError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// drain a little so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return nil, &UpstreamError{
			Reason:     ReasonBadStatus,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("HTTP %d", resp.StatusCode),
		}
	}

	var envelope searchResponse
	if err := decodeEnvelope(resp.Body, &envelope); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, &UpstreamError{Reason: ReasonTimeout, Err: ctx.Err()}
		}
		return nil, &UpstreamError{Reason: ReasonMalformed, Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	records, err := decodeResults(envelope.Results)
	if err != nil {
		return nil, &UpstreamError{Reason: ReasonMalformed, Err: err}
	}

	artists := make([]Artist, 0, len(records))
	for _, record := range records {
		if artist, ok := MapArtist(record); ok {
			artists = append(artists, artist)
		}
	}

	if dropped := len(records) - len(artists); dropped > 0 {
		logger.Debugf("Dropped %d malformed catalog records", dropped)
	}
	logger.Debugf("Fetched %d artists from iTunes", len(artists))

	return artists, nil
}

func (c *Client) searchURL() (string, error) {
	base, err := url.Parse(c.BaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return "", fmt.Errorf("invalid base URL %q", c.BaseURL)
	}

	u := base.JoinPath("search")
	q := u.Query()
	q.Set("term", searchTerm)
	q.Set("entity", searchEntity)
	q.Set("limit", strconv.Itoa(searchLimit))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// decodeEnvelope decodes exactly one JSON value; anything after it but
// whitespace makes the body malformed.
func decodeEnvelope(r io.Reader, envelope *searchResponse) error {
	dec := json.NewDecoder(r)
	if err := dec.Decode(envelope); err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		if err != nil {
			return err
		}
		return errors.New("unexpected data after response body")
	}
	return nil
}

func decodeResults(raw json.RawMessage) ([]json.RawMessage, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, errors.New("results is missing")
	}
	if raw[0] != '[' {
		return nil, errors.New("results is not an array")
	}

	var records []json.RawMessage
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("failed to decode results: %w", err)
	}
	return records, nil
}

func transportError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &UpstreamError{Reason: ReasonTimeout, Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &UpstreamError{Reason: ReasonTimeout, Err: err}
	}
	return &UpstreamError{Reason: ReasonUnreachable, Err: fmt.Errorf("HTTP request failed: %w", err)}
}

func spanStatus(reason Reason) sentry.SpanStatus {
	switch reason {
	case ReasonTimeout:
		return sentry.SpanStatusDeadlineExceeded
	case ReasonMalformed:
		return sentry.SpanStatusInternalError
	default:
		return sentry.SpanStatusUnavailable
	}
}
