package internal

import (
	"context"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	pkgerrs "github.com/kgale/snoo/pkg/errors"
)

// Header carrying the modhash auth token on authenticated calls.
const headerModhash = "X-Modhash"

// Dispatcher turns a RequestSpec into an HTTP exchange: it enforces the auth
// precondition, waits on the rate limiter, injects session state, performs
// the transport call and wraps the result. It holds no per-call state and is
// safe for concurrent use.
type Dispatcher struct {
	client    *http.Client
	session   *Session
	limiter   *Limiter
	userAgent string
	logger    *slog.Logger
}

// NewDispatcher wires a dispatcher to its collaborators. The http.Client is
// expected to use the session as its cookie jar. logger may be nil.
func NewDispatcher(client *http.Client, session *Session, limiter *Limiter, userAgent string, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		client:    client,
		session:   session,
		limiter:   limiter,
		userAgent: userAgent,
		logger:    logger,
	}
}

// Execute performs one API call. Order of operations: auth precondition,
// rate limit, request assembly, transport, wrapping. A request that requires
// auth while the session is logged out fails with a StateError before any
// network activity. Callers inspect the returned Response for API-level
// errors themselves.
func (d *Dispatcher) Execute(ctx context.Context, spec *RequestSpec) (*Response, error) {
	if spec.RequiresAuth && !d.session.LoggedIn() {
		return nil, &pkgerrs.StateError{
			Operation: spec.Method + " " + spec.Path,
			Message:   "this call requires an authenticated user; call Login first",
		}
	}

	if err := d.limiter.Acquire(ctx); err != nil {
		return nil, &pkgerrs.TransportError{URL: spec.RedactedURL(), Message: "rate limit wait aborted", Err: err}
	}

	req, err := d.assemble(ctx, spec)
	if err != nil {
		return nil, err
	}

	requestID := uuid.NewString()
	if d.logger != nil {
		d.logger.Debug("dispatching request",
			"request_id", requestID,
			"method", spec.Method,
			"host", spec.Host,
			"path", spec.Path,
			"params", spec.RedactedParams(),
			"requires_auth", spec.RequiresAuth,
		)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, &pkgerrs.TransportError{URL: spec.RedactedURL(), Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &pkgerrs.TransportError{
			URL:        spec.RedactedURL(),
			StatusCode: resp.StatusCode,
			Message:    "failed to read response body",
			Err:        err,
		}
	}

	contentType := resp.Header.Get("Content-Type")
	parsed := NewResponse(resp.StatusCode, contentType, body)

	if d.logger != nil {
		d.logger.Debug("request complete",
			"request_id", requestID,
			"status", resp.StatusCode,
			"content_type", contentType,
			"bytes", len(body),
		)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parsed, &pkgerrs.TransportError{
			URL:        spec.RedactedURL(),
			StatusCode: resp.StatusCode,
			Message:    "unexpected status",
		}
	}

	if spec.ExpectType != "" && !contentTypeMatches(contentType, spec.ExpectType) {
		return parsed, &pkgerrs.TransportError{
			URL:        spec.RedactedURL(),
			StatusCode: resp.StatusCode,
			Message:    "expected content type " + spec.ExpectType + ", got " + contentType,
		}
	}

	return parsed, nil
}

// assemble builds the http.Request: URL with scheme selection, encoded query
// and form body, identity and auth headers. Cookies are attached by the
// client's jar (the session).
func (d *Dispatcher) assemble(ctx context.Context, spec *RequestSpec) (*http.Request, error) {
	scheme := "http"
	if spec.HTTPS || d.session.ForceHTTPS() {
		scheme = "https"
	}
	u := url.URL{Scheme: scheme, Host: spec.Host, Path: spec.Path, RawQuery: spec.Query.Encode()}

	var body io.Reader
	if len(spec.Body) > 0 {
		body = strings.NewReader(spec.Body.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, spec.Method, u.String(), body)
	if err != nil {
		return nil, &pkgerrs.TransportError{URL: spec.RedactedURL(), Message: "failed to build request", Err: err}
	}

	req.Header.Set("User-Agent", d.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if token := d.session.Token(); token != "" {
		req.Header.Set(headerModhash, token)
	}

	return req, nil
}

// contentTypeMatches compares only the media type, ignoring parameters such
// as charset.
func contentTypeMatches(got, want string) bool {
	mediaType, _, err := mime.ParseMediaType(got)
	if err != nil {
		return false
	}
	return strings.EqualFold(mediaType, want)
}
