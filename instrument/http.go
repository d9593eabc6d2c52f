package instrument

import (
	"net/http"
	"strings"
	"time"

	"github.com/authe-me/authe-go/action"
	"github.com/authe-me/authe-go/client"
)

// headers never copied into recorded input.
var skippedHeaders = map[string]bool{
	"authorization": true,
	"cookie":        true,
	"x-api-key":     true,
}

const maxRecordedHeaders = 10

// roundTripper records outbound HTTP requests as actions.
type roundTripper struct {
	base     http.RoundTripper
	tracker  Tracker
	skipBase string
}

// NewRoundTripper wraps base so every request through it is recorded as an
// http action. Requests whose URL contains skipBase (the SDK's own API) pass
// through unrecorded, so the delivery pipeline does not observe itself.
func NewRoundTripper(t Tracker, base http.RoundTripper, skipBase string) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return &roundTripper{base: base, tracker: t, skipBase: skipBase}
}

// HTTPClient returns a copy of base (or a fresh client when base is nil)
// whose transport records requests against c, skipping c's own API traffic.
func HTTPClient(c *client.Client, base *http.Client) *http.Client {
	var wrapped http.Client
	if base != nil {
		wrapped = *base
	}
	wrapped.Transport = NewRoundTripper(c, wrapped.Transport, c.BaseURL())
	return &wrapped
}

func (rt *roundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	url := req.URL.String()
	if rt.skipBase != "" && strings.Contains(url, rt.skipBase) {
		return rt.base.RoundTrip(req)
	}

	start := time.Now()
	resp, err := rt.base.RoundTrip(req)
	duration := time.Since(start)

	opts := client.TrackOptions{
		Tool: "http.request",
		Type: action.TypeHTTP,
		Input: map[string]any{
			"method":  req.Method,
			"url":     action.Truncate(url, 500),
			"headers": recordableHeaders(req.Header),
		},
		Duration: duration,
	}

	switch {
	case err != nil:
		opts.Status = action.StatusError
		opts.Output = map[string]any{"error": action.Truncate(err.Error(), 500)}
	default:
		opts.Output = map[string]any{
			"status_code":    resp.StatusCode,
			"content_length": resp.ContentLength,
		}
		if resp.StatusCode >= 400 {
			opts.Status = action.StatusError
		}
	}

	rt.tracker.Track(opts)
	return resp, err
}

func recordableHeaders(h http.Header) map[string]any {
	out := make(map[string]any, maxRecordedHeaders)
	for name, values := range h {
		if len(out) >= maxRecordedHeaders {
			break
		}
		if skippedHeaders[strings.ToLower(name)] || len(values) == 0 {
			continue
		}
		out[name] = action.Truncate(values[0], 500)
	}
	return out
}
