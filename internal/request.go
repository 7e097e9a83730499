package internal

import (
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	pkgerrs "github.com/kgale/snoo/pkg/errors"
)

// redactedValue replaces sensitive parameter values in diagnostics.
const redactedValue = "<redacted>"

// RequestSpec is an immutable description of one API call. Build one with a
// RequestBuilder; each spec is consumed exactly once by the Dispatcher.
type RequestSpec struct {
	Host         string
	HTTPS        bool
	Method       string
	Path         string
	Query        url.Values
	Body         url.Values
	RequiresAuth bool

	// ExpectType, when set, makes the Dispatcher reject responses whose
	// media type differs (Content-Type parameters are ignored).
	ExpectType string

	sensitive map[string]struct{}
}

// URL renders the full request URL including the encoded query string.
func (s *RequestSpec) URL() string {
	scheme := "http"
	if s.HTTPS {
		scheme = "https"
	}
	u := url.URL{Scheme: scheme, Host: s.Host, Path: s.Path, RawQuery: s.Query.Encode()}
	return u.String()
}

// IsSensitive reports whether the named parameter must be kept out of
// diagnostics.
func (s *RequestSpec) IsSensitive(name string) bool {
	_, ok := s.sensitive[name]
	return ok
}

// RedactedURL renders the request URL with sensitive query values masked.
// Error messages must use this instead of URL; url.URL.Redacted only masks
// userinfo, not the query string.
func (s *RequestSpec) RedactedURL() string {
	scheme := "http"
	if s.HTTPS {
		scheme = "https"
	}
	q := url.Values{}
	for name, vals := range s.Query {
		for _, v := range vals {
			if s.IsSensitive(name) {
				v = redactedValue
			}
			q.Add(name, v)
		}
	}
	u := url.URL{Scheme: scheme, Host: s.Host, Path: s.Path, RawQuery: q.Encode()}
	return u.String()
}

// RedactedParams renders the combined query and body parameters with
// sensitive values masked. This is the only parameter representation that
// may reach a log or error message.
func (s *RequestSpec) RedactedParams() string {
	var parts []string
	for _, values := range []url.Values{s.Query, s.Body} {
		for name, vals := range values {
			for _, v := range vals {
				if s.IsSensitive(name) {
					v = redactedValue
				}
				parts = append(parts, name+"="+v)
			}
		}
	}
	sort.Strings(parts)
	return strings.Join(parts, "&")
}

// RequestBuilder assembles a RequestSpec. Errors are deferred to Build so
// calls chain without intermediate checks.
type RequestBuilder struct {
	spec RequestSpec
	err  error
}

// NewRequest starts a builder for a call to the given host. The method
// defaults to GET and the scheme to HTTPS.
func NewRequest(host string) *RequestBuilder {
	return &RequestBuilder{spec: RequestSpec{
		Host:      host,
		HTTPS:     true,
		Method:    http.MethodGet,
		Query:     url.Values{},
		Body:      url.Values{},
		sensitive: map[string]struct{}{},
	}}
}

// HTTPS sets whether the request must use TLS.
func (b *RequestBuilder) HTTPS(on bool) *RequestBuilder {
	b.spec.HTTPS = on
	return b
}

// Method overrides the HTTP method.
func (b *RequestBuilder) Method(method string) *RequestBuilder {
	b.spec.Method = method
	return b
}

// Path sets the request path directly, bypassing the endpoint table.
func (b *RequestBuilder) Path(path string) *RequestBuilder {
	b.spec.Path = path
	return b
}

// Endpoint resolves the path, method and auth requirement from the endpoint
// table, filling the path template with args.
func (b *RequestBuilder) Endpoint(ep Endpoint, args ...any) *RequestBuilder {
	info, ok := LookupEndpoint(ep)
	if !ok {
		b.err = fmt.Errorf("unknown endpoint %d", ep)
		return b
	}
	b.spec.Path = ResolvePath(info, args...)
	b.spec.Method = info.Method
	b.spec.RequiresAuth = info.RequiresAuth
	return b
}

// SubredditEndpoint resolves the endpoint like Endpoint and prefixes the
// path with /r/<subreddit>. An empty subreddit leaves the path at the site
// root.
func (b *RequestBuilder) SubredditEndpoint(ep Endpoint, subreddit string, args ...any) *RequestBuilder {
	b.Endpoint(ep, args...)
	if b.err == nil && subreddit != "" {
		b.spec.Path = "/r/" + subreddit + b.spec.Path
	}
	return b
}

// Query adds a single query parameter.
func (b *RequestBuilder) Query(name, value string) *RequestBuilder {
	b.spec.Query.Set(name, value)
	return b
}

// QueryValues merges the given parameters into the query string.
func (b *RequestBuilder) QueryValues(values url.Values) *RequestBuilder {
	for name, vals := range values {
		for _, v := range vals {
			b.spec.Query.Add(name, v)
		}
	}
	return b
}

// Post switches the method to POST and sets the form body.
func (b *RequestBuilder) Post(body url.Values) *RequestBuilder {
	b.spec.Method = http.MethodPost
	b.spec.Body = body
	return b
}

// Sensitive marks parameter names whose values must never be echoed into
// logs or error text. They are still transmitted in full.
func (b *RequestBuilder) Sensitive(names ...string) *RequestBuilder {
	for _, name := range names {
		b.spec.sensitive[name] = struct{}{}
	}
	return b
}

// RequireAuth overrides the endpoint table's auth requirement.
func (b *RequestBuilder) RequireAuth(on bool) *RequestBuilder {
	b.spec.RequiresAuth = on
	return b
}

// ExpectType requires the response Content-Type to match.
func (b *RequestBuilder) ExpectType(contentType string) *RequestBuilder {
	b.spec.ExpectType = contentType
	return b
}

// Build finalizes the spec.
func (b *RequestBuilder) Build() (*RequestSpec, error) {
	if b.err != nil {
		return nil, &pkgerrs.ConfigError{Field: "request", Message: b.err.Error()}
	}
	if b.spec.Host == "" {
		return nil, &pkgerrs.ConfigError{Field: "host", Message: "request host cannot be empty"}
	}
	if b.spec.Path == "" {
		return nil, &pkgerrs.ConfigError{Field: "path", Message: "request path cannot be empty"}
	}
	spec := b.spec
	return &spec, nil
}
