package internal

import (
	"sync"

	"github.com/tidwall/gjson"

	pkgerrs "github.com/kgale/snoo/pkg/errors"
)

// Response wraps a completed HTTP exchange. The body is kept as raw bytes;
// endpoints that return bare text ("true", CSS) are read through Raw, and
// JSON endpoints through the lazily parsed document. Parsing happens at most
// once, on first access.
type Response struct {
	StatusCode  int
	ContentType string
	Body        []byte

	parseOnce sync.Once
	doc       gjson.Result
}

// NewResponse builds a Response from the raw transport result.
func NewResponse(statusCode int, contentType string, body []byte) *Response {
	return &Response{StatusCode: statusCode, ContentType: contentType, Body: body}
}

// Raw returns the response body as text.
func (r *Response) Raw() string {
	return string(r.Body)
}

// JSON returns the parsed document. For non-JSON bodies the result simply
// has no matching fields; no error is raised.
func (r *Response) JSON() gjson.Result {
	r.parseOnce.Do(func() {
		r.doc = gjson.ParseBytes(r.Body)
	})
	return r.doc
}

// HasErrors reports whether the envelope carries a non-empty "json.errors"
// array. This is independent of the HTTP status: Reddit returns 200 for most
// application-level failures.
func (r *Response) HasErrors() bool {
	return len(r.JSON().Get("json.errors").Array()) > 0
}

// Errors extracts the API error triples from the envelope. The slice is
// empty when the response carries no errors; this never fails.
func (r *Response) Errors() []*pkgerrs.APIError {
	entries := r.JSON().Get("json.errors").Array()
	if len(entries) == 0 {
		return nil
	}

	errs := make([]*pkgerrs.APIError, 0, len(entries))
	for _, entry := range entries {
		triple := entry.Array()
		apiErr := &pkgerrs.APIError{}
		if len(triple) > 0 {
			apiErr.Code = triple[0].String()
		}
		if len(triple) > 1 {
			apiErr.Explanation = triple[1].String()
		}
		if len(triple) > 2 {
			apiErr.Field = triple[2].String()
		}
		errs = append(errs, apiErr)
	}
	return errs
}
