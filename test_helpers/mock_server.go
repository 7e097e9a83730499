// Package test_helpers provides a configurable mock Reddit API server plus
// canned envelope bodies for tests. It deliberately imports nothing from the
// client packages so in-package tests can use it without import cycles.
package test_helpers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"
)

// MockServer is a TLS httptest server with per-path scripted responses, a
// request log and per-path call counters.
type MockServer struct {
	server *httptest.Server

	mu        sync.Mutex
	responses map[string][]*MockResponse
	calls     map[string]int
	requests  []RequestEntry
}

// RequestEntry records one request the server saw.
type RequestEntry struct {
	Method    string
	Path      string
	Query     string
	Form      string
	Timestamp time.Time
}

// MockResponse defines one scripted response.
type MockResponse struct {
	Status  int
	Body    string
	Headers map[string]string
	Cookies []*http.Cookie
}

// NewMockServer starts the server. Responses default to 200 with an empty
// JSON object for unscripted paths.
func NewMockServer() *MockServer {
	ms := &MockServer{
		responses: make(map[string][]*MockResponse),
		calls:     make(map[string]int),
	}
	ms.server = httptest.NewTLSServer(http.HandlerFunc(ms.handle))
	return ms
}

func (ms *MockServer) handle(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()

	ms.mu.Lock()
	ms.calls[r.URL.Path]++
	ms.requests = append(ms.requests, RequestEntry{
		Method:    r.Method,
		Path:      r.URL.Path,
		Query:     r.URL.RawQuery,
		Form:      r.PostForm.Encode(),
		Timestamp: time.Now(),
	})

	var resp *MockResponse
	if queue := ms.responses[r.URL.Path]; len(queue) > 0 {
		resp = queue[0]
		if len(queue) > 1 {
			ms.responses[r.URL.Path] = queue[1:]
		}
	}
	ms.mu.Unlock()

	if resp == nil {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, "{}")
		return
	}

	for name, value := range resp.Headers {
		w.Header().Set(name, value)
	}
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/json")
	}
	for _, cookie := range resp.Cookies {
		http.SetCookie(w, cookie)
	}

	status := resp.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	fmt.Fprint(w, resp.Body)
}

// Host returns the host:port the server listens on.
func (ms *MockServer) Host() string {
	return strings.TrimPrefix(ms.server.URL, "https://")
}

// Transport returns a round tripper that trusts the server's certificate.
func (ms *MockServer) Transport() http.RoundTripper {
	return ms.server.Client().Transport
}

// SetResponse scripts a single response for a path. It is replayed on every
// call to that path.
func (ms *MockServer) SetResponse(path string, resp *MockResponse) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.responses[path] = []*MockResponse{resp}
}

// QueueResponses scripts consecutive responses for a path. The last one
// sticks once the queue drains.
func (ms *MockServer) QueueResponses(path string, resps ...*MockResponse) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.responses[path] = append([]*MockResponse{}, resps...)
}

// CallCount returns how many requests hit the given path.
func (ms *MockServer) CallCount(path string) int {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.calls[path]
}

// TotalCalls returns how many requests the server saw in total.
func (ms *MockServer) TotalCalls() int {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return len(ms.requests)
}

// Requests returns a copy of the request log.
func (ms *MockServer) Requests() []RequestEntry {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return append([]RequestEntry{}, ms.requests...)
}

// Close shuts the server down.
func (ms *MockServer) Close() {
	ms.server.Close()
}

// SessionCookie builds the login session cookie Reddit sets.
func SessionCookie(value string) *http.Cookie {
	return &http.Cookie{Name: "reddit_session", Value: value, Path: "/"}
}

// LoginSuccessBody builds the login envelope for a successful login.
func LoginSuccessBody(modhash string, needHTTPS bool) string {
	return fmt.Sprintf(`{"json": {"errors": [], "data": {"modhash": %q, "need_https": %t, "cookie": "session"}}}`, modhash, needHTTPS)
}

// ErrorEnvelope builds an envelope carrying a single API error triple.
func ErrorEnvelope(code, explanation, field string) string {
	return fmt.Sprintf(`{"json": {"errors": [[%q, %q, %q]]}}`, code, explanation, field)
}

// AccountBody builds a t2 envelope for the identity endpoint.
func AccountBody(name string) string {
	return fmt.Sprintf(`{"kind": "t2", "data": {"id": "1a2b3c", "name": %q, "link_karma": 100, "comment_karma": 200}}`, name)
}

// ListingBody builds a Listing envelope holding one t3 child per title,
// with the given continuation token ("" renders as null).
func ListingBody(after string, titles ...string) string {
	children := make([]string, 0, len(titles))
	for i, title := range titles {
		children = append(children, fmt.Sprintf(
			`{"kind": "t3", "data": {"id": "post%d", "name": "t3_post%d", "title": %q, "subreddit": "golang", "score": %d}}`,
			i, i, title, 10*(i+1)))
	}

	afterJSON := "null"
	if after != "" {
		afterJSON = fmt.Sprintf("%q", after)
	}
	return fmt.Sprintf(`{"kind": "Listing", "data": {"after": %s, "before": null, "children": [%s]}}`,
		afterJSON, strings.Join(children, ", "))
}
