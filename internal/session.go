package internal

import (
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
)

// SessionCookieName is the cookie Reddit sets on a successful login. Its
// presence in the jar is the login heuristic; the modhash token is tracked
// separately and the two can disagree transiently (e.g. when the cookie
// expires server-side while the token is still held).
const SessionCookieName = "reddit_session"

// Session holds the mutable authentication context for one client instance:
// the modhash auth token, the authenticated username and the cookie store.
// It is mutated only by login and logout; ordinary dispatches read it.
//
// Session implements http.CookieJar so the transport writes response cookies
// straight into it, and Clear can swap the underlying jar without rebuilding
// the HTTP client.
type Session struct {
	mu         sync.RWMutex
	jar        http.CookieJar
	token      string
	username   string
	forceHTTPS bool

	// root is the URL the login cookie is scoped to.
	root *url.URL
}

// NewSession creates an empty session for the given platform host.
func NewSession(host string) (*Session, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Session{
		jar:  jar,
		root: &url.URL{Scheme: "https", Host: host, Path: "/"},
	}, nil
}

// SetCookies implements http.CookieJar.
func (s *Session) SetCookies(u *url.URL, cookies []*http.Cookie) {
	s.mu.RLock()
	jar := s.jar
	s.mu.RUnlock()
	jar.SetCookies(u, cookies)
}

// Cookies implements http.CookieJar.
func (s *Session) Cookies(u *url.URL) []*http.Cookie {
	s.mu.RLock()
	jar := s.jar
	s.mu.RUnlock()
	return jar.Cookies(u)
}

// Token returns the modhash auth token, or "" when not logged in.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// SetToken records the modhash obtained from a successful login.
func (s *Session) SetToken(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

// Username returns the authenticated username, or "" when unknown.
func (s *Session) Username() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.username
}

// SetUsername records the name learned from the self-identity call.
func (s *Session) SetUsername(name string) {
	s.mu.Lock()
	s.username = name
	s.mu.Unlock()
}

// ForceHTTPS reports whether all subsequent requests must use TLS.
func (s *Session) ForceHTTPS() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.forceHTTPS
}

// SetForceHTTPS records the need_https flag from the login envelope.
func (s *Session) SetForceHTTPS(on bool) {
	s.mu.Lock()
	s.forceHTTPS = on
	s.mu.Unlock()
}

// LoggedIn reports whether the session cookie is present for the platform
// root. This is evaluated purely from cookie state, independent of the
// token field.
func (s *Session) LoggedIn() bool {
	s.mu.RLock()
	jar, root := s.jar, s.root
	s.mu.RUnlock()

	for _, c := range jar.Cookies(root) {
		if c.Name == SessionCookieName {
			return true
		}
	}
	return false
}

// Clear wipes the token, username, cookies and the HTTPS override. Used by
// logout.
func (s *Session) Clear() {
	jar, err := cookiejar.New(nil)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.username = ""
	s.forceHTTPS = false
	if err == nil {
		s.jar = jar
	}
}
