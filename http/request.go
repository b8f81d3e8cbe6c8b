package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Request wraps *http.Request with query and route helpers.
type Request struct {
	raw *http.Request
}

// NewRequest wraps a standard *http.Request.
func NewRequest(r *http.Request) *Request {
	return &Request{raw: r}
}

// Query returns a query-string value.
func (req *Request) Query(key string, fallback ...string) string {
	v := req.raw.URL.Query().Get(key)
	if v == "" && len(fallback) > 0 {
		return fallback[0]
	}
	return v
}

// QueryBool parses a query-string flag. ok is false when the key is absent;
// malformed values report a non-nil error.
func (req *Request) QueryBool(key string) (value, ok bool, err error) {
	v := req.raw.URL.Query().Get(key)
	if v == "" {
		return false, false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, true, err
	}
	return b, true, nil
}

// RouteParam returns a URL route parameter (chi). For a trailing wildcard
// route use "*"; the leading slash is trimmed.
func (req *Request) RouteParam(key string) string {
	return strings.TrimPrefix(chi.URLParam(req.raw, key), "/")
}
