package internal

import (
	"fmt"
	"net/http"
)

// Endpoint identifies one documented Reddit API operation.
type Endpoint int

const (
	EndpointLogin Endpoint = iota
	EndpointMe
	EndpointNeedsCaptcha
	EndpointNewCaptcha
	EndpointCaptcha
	EndpointUserAbout
	EndpointSubredditAbout
	EndpointUsernameAvailable
	EndpointComments
	EndpointSearch
	EndpointSubredditsByTopic
	EndpointSearchRedditNames
	EndpointSubmitText
	EndpointStylesheet
	EndpointRandom
)

// EndpointInfo describes the wire contract of one endpoint: its path
// template (fmt verbs for path arguments), HTTP method, and whether a logged
// in session is required. The table is consulted by the request builder and
// by tests that introspect the endpoint surface.
type EndpointInfo struct {
	Path         string
	Method       string
	RequiresAuth bool
}

var endpointTable = map[Endpoint]EndpointInfo{
	EndpointLogin:             {Path: "/api/login", Method: http.MethodPost},
	EndpointMe:                {Path: "/api/me.json", Method: http.MethodGet, RequiresAuth: true},
	EndpointNeedsCaptcha:      {Path: "/api/needs_captcha.json", Method: http.MethodGet},
	EndpointNewCaptcha:        {Path: "/api/new_captcha", Method: http.MethodPost},
	EndpointCaptcha:           {Path: "/captcha/%s.png", Method: http.MethodGet},
	EndpointUserAbout:         {Path: "/user/%s/about.json", Method: http.MethodGet},
	EndpointSubredditAbout:    {Path: "/r/%s/about.json", Method: http.MethodGet},
	EndpointUsernameAvailable: {Path: "/api/username_available.json", Method: http.MethodGet},
	EndpointComments:          {Path: "/comments/%s.json", Method: http.MethodGet},
	EndpointSearch:            {Path: "/search.json", Method: http.MethodGet},
	EndpointSubredditsByTopic: {Path: "/api/subreddits_by_topic.json", Method: http.MethodGet},
	EndpointSearchRedditNames: {Path: "/api/search_reddit_names.json", Method: http.MethodPost},
	EndpointSubmitText:        {Path: "/api/submit_text.json", Method: http.MethodGet},
	EndpointStylesheet:        {Path: "/stylesheet", Method: http.MethodGet},
	EndpointRandom:            {Path: "/random.json", Method: http.MethodGet},
}

// LookupEndpoint returns the descriptor for ep. The second return value is
// false for endpoints missing from the table.
func LookupEndpoint(ep Endpoint) (EndpointInfo, bool) {
	info, ok := endpointTable[ep]
	return info, ok
}

// Endpoints returns a copy of the full endpoint table, keyed by operation.
func Endpoints() map[Endpoint]EndpointInfo {
	out := make(map[Endpoint]EndpointInfo, len(endpointTable))
	for ep, info := range endpointTable {
		out[ep] = info
	}
	return out
}

// ResolvePath fills the endpoint's path template with the given arguments.
func ResolvePath(info EndpointInfo, args ...any) string {
	if len(args) == 0 {
		return info.Path
	}
	return fmt.Sprintf(info.Path, args...)
}

// SubredditPath resolves an endpoint's path under an optional /r/<subreddit>
// prefix. An empty subreddit addresses the site root (front page or
// site-wide, depending on the endpoint). Returns "" for unknown endpoints.
func SubredditPath(ep Endpoint, subreddit string, args ...any) string {
	info, ok := LookupEndpoint(ep)
	if !ok {
		return ""
	}
	path := ResolvePath(info, args...)
	if subreddit == "" {
		return path
	}
	return "/r/" + subreddit + path
}
