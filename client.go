package snoo

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/kgale/snoo/internal"
	pkgerrs "github.com/kgale/snoo/pkg/errors"
	"github.com/kgale/snoo/pkg/types"
	"github.com/kgale/snoo/pkg/validation"
)

const (
	// DefaultHost serves most HTTP(S) requests
	DefaultHost = "www.reddit.com"
	// DefaultSecureHost serves logins and other always-HTTPS requests
	DefaultSecureHost = "ssl.reddit.com"
	// DefaultRequestsPerMinute is Reddit's ceiling for cookie-authenticated clients
	DefaultRequestsPerMinute = 30
	// DefaultTimeout is the default HTTP client timeout
	DefaultTimeout = 30 * time.Second
)

// Config holds the construction parameters for a Client.
//
// UserAgent is the only required field. Reddit throttles generic user agents
// aggressively, so use something unique and descriptive, preferably
// referencing your Reddit username.
type Config struct {
	// UserAgent identifies your application to Reddit. Required.
	UserAgent string

	// Host for ordinary API requests. Defaults to DefaultHost.
	Host string

	// SecureHost for logins. Defaults to DefaultSecureHost, or to Host
	// when Host was overridden (useful for tests).
	SecureHost string

	// RequestsPerMinute caps steady-state throughput.
	// Defaults to DefaultRequestsPerMinute if zero.
	RequestsPerMinute int

	// RateLimitDisabled turns off client-side throttling entirely.
	RateLimitDisabled bool

	// Timeout for the underlying HTTP client. Defaults to DefaultTimeout.
	Timeout time.Duration

	// Transport overrides the HTTP transport. Useful for proxies and tests.
	Transport http.RoundTripper

	// Logger for structured diagnostics. Optional; nil disables logging.
	// Sensitive request parameters are never written to it.
	Logger *slog.Logger
}

// Client talks to the Reddit API. One client holds one session (cookie jar,
// auth token) and one rate-limit budget shared by every call made through
// it. Methods are safe to call from multiple goroutines as long as Login and
// Logout are not raced against ordinary calls.
type Client struct {
	config     *Config
	session    *internal.Session
	dispatcher *internal.Dispatcher
}

// NewClient validates the configuration, fills in defaults and returns a
// ready client. No network activity happens here; the session starts out
// logged out.
func NewClient(config *Config) (*Client, error) {
	if config == nil {
		return nil, &pkgerrs.ConfigError{Message: "config cannot be nil"}
	}
	if strings.TrimSpace(config.UserAgent) == "" {
		return nil, &pkgerrs.ConfigError{Field: "UserAgent", Message: "user agent is required"}
	}
	if config.RequestsPerMinute < 0 {
		return nil, &pkgerrs.ConfigError{Field: "RequestsPerMinute", Message: "quota must be positive"}
	}

	cfg := *config
	if cfg.Host == "" {
		cfg.Host = DefaultHost
		if cfg.SecureHost == "" {
			cfg.SecureHost = DefaultSecureHost
		}
	} else if cfg.SecureHost == "" {
		cfg.SecureHost = cfg.Host
	}
	if cfg.RequestsPerMinute == 0 {
		cfg.RequestsPerMinute = DefaultRequestsPerMinute
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	session, err := internal.NewSession(cfg.Host)
	if err != nil {
		return nil, &pkgerrs.ConfigError{Message: "failed to create cookie store: " + err.Error()}
	}

	httpClient := &http.Client{
		Timeout:   cfg.Timeout,
		Jar:       session,
		Transport: cfg.Transport,
	}

	quota := cfg.RequestsPerMinute
	if cfg.RateLimitDisabled {
		quota = 0
	}

	return &Client{
		config:     &cfg,
		session:    session,
		dispatcher: internal.NewDispatcher(httpClient, session, internal.NewLimiter(quota), cfg.UserAgent, cfg.Logger),
	}, nil
}

// request starts a builder targeting the ordinary API host.
func (c *Client) request() *internal.RequestBuilder {
	return internal.NewRequest(c.config.Host)
}

// execute finalizes the builder and dispatches it.
func (c *Client) execute(ctx context.Context, b *internal.RequestBuilder) (*internal.Response, error) {
	spec, err := b.Build()
	if err != nil {
		return nil, err
	}
	return c.dispatcher.Execute(ctx, spec)
}

// Login authenticates the session. The credential call always travels over
// HTTPS to the secure host with the password marked sensitive. When Reddit
// reports an application error (wrong password, rate limited) the first one
// is returned as *errors.APIError and the session is left untouched. On
// success the modhash token and need_https flag are stored and a self
// identity call records the authenticated username; if that identity call
// fails the session is cleared again, so Login never returns an error with
// a partially authenticated session.
func (c *Client) Login(ctx context.Context, username, password string) (*types.Account, error) {
	spec, err := internal.NewRequest(c.config.SecureHost).
		HTTPS(true).
		Endpoint(internal.EndpointLogin).
		Post(url.Values{
			"user":     {username},
			"passwd":   {password},
			"api_type": {"json"},
		}).
		Sensitive("passwd").
		Build()
	if err != nil {
		return nil, err
	}

	resp, err := c.dispatcher.Execute(ctx, spec)
	if err != nil {
		return nil, err
	}
	if resp.HasErrors() {
		return nil, resp.Errors()[0]
	}

	data := resp.JSON().Get("json.data")
	modhash := data.Get("modhash").String()
	if modhash == "" {
		return nil, &pkgerrs.ParseError{Operation: "login", Message: "login envelope carried no modhash"}
	}

	c.session.SetForceHTTPS(data.Get("need_https").Bool())
	c.session.SetToken(modhash)

	me, err := c.Me(ctx)
	if err != nil {
		// Roll back to logged out rather than leave the token and HTTPS
		// override set on a login that reported failure.
		c.session.Clear()
		return nil, err
	}
	c.session.SetUsername(me.Name)
	return me, nil
}

// Logout clears the auth token, the authenticated username and all cookies.
func (c *Client) Logout() {
	c.session.Clear()
}

// IsLoggedIn reports whether the session cookie is present. Note this is a
// cookie heuristic, evaluated without touching the network; it can disagree
// with the token field if the cookie expires server-side.
func (c *Client) IsLoggedIn() bool {
	return c.session.LoggedIn()
}

// AuthenticatedUser returns the username recorded at login, or "".
func (c *Client) AuthenticatedUser() string {
	return c.session.Username()
}

// Me returns the account currently logged in.
func (c *Client) Me(ctx context.Context) (*types.Account, error) {
	resp, err := c.execute(ctx, c.request().Endpoint(internal.EndpointMe))
	if err != nil {
		return nil, err
	}
	return types.NewAccount(resp.JSON().Get("data")), nil
}

// GetUser returns the account with the given username.
func (c *Client) GetUser(ctx context.Context, username string) (*types.Account, error) {
	if !validation.IsValidUsername(username) {
		return nil, &pkgerrs.ConfigError{Field: "username", Message: "invalid username: " + username}
	}
	resp, err := c.execute(ctx, c.request().Endpoint(internal.EndpointUserAbout, username))
	if err != nil {
		return nil, err
	}
	return types.NewAccount(resp.JSON().Get("data")), nil
}

// GetSubreddit returns metadata about a subreddit.
func (c *Client) GetSubreddit(ctx context.Context, name string) (*types.Subreddit, error) {
	if !validation.IsValidSubreddit(name) {
		return nil, &pkgerrs.ConfigError{Field: "subreddit", Message: "invalid subreddit name: " + name}
	}
	resp, err := c.execute(ctx, c.request().Endpoint(internal.EndpointSubredditAbout, name))
	if err != nil {
		return nil, err
	}
	return types.NewSubreddit(resp.JSON().Get("data")), nil
}

// GetRandomSubreddit returns a random subreddit.
func (c *Client) GetRandomSubreddit(ctx context.Context) (*types.Subreddit, error) {
	return c.GetSubreddit(ctx, "random")
}

// GetSubmission fetches one submission together with its comment tree.
// Optional knobs on the request control depth, focus and sorting of the
// tree; zero values are omitted from the query.
func (c *Client) GetSubmission(ctx context.Context, request *types.SubmissionRequest) (*types.Submission, error) {
	if request == nil || request.ID == "" {
		return nil, &pkgerrs.ConfigError{Field: "id", Message: "submission ID is required"}
	}
	if !validation.IsValidBase36(request.ID) {
		return nil, &pkgerrs.ConfigError{Field: "id", Message: "invalid submission ID: " + request.ID}
	}

	b := c.request().Endpoint(internal.EndpointComments, request.ID)
	if request.Depth > 0 {
		b.Query("depth", strconv.Itoa(request.Depth))
	}
	if request.Context > 0 {
		b.Query("context", strconv.Itoa(request.Context))
	}
	if request.Limit > 0 {
		b.Query("limit", strconv.Itoa(request.Limit))
	}
	if request.Focus != "" {
		if !validation.IsValidBase36(request.Focus) {
			return nil, &pkgerrs.ConfigError{Field: "focus", Message: "invalid comment ID: " + request.Focus}
		}
		b.Query("comment", request.Focus)
	}
	if request.Sort != "" {
		b.Query("sort", string(request.Sort))
	}

	resp, err := c.execute(ctx, b)
	if err != nil {
		return nil, err
	}
	return parseThread(resp.JSON(), "GetSubmission")
}

// GetRandomSubmission returns a random submission, optionally from a
// specific subreddit (empty means site-wide).
func (c *Client) GetRandomSubmission(ctx context.Context, subreddit string) (*types.Submission, error) {
	resp, err := c.execute(ctx, c.request().SubredditEndpoint(internal.EndpointRandom, subreddit))
	if err != nil {
		return nil, err
	}
	return parseThread(resp.JSON(), "GetRandomSubmission")
}

// NeedsCaptcha reports whether the current user must solve a captcha for
// actions like submitting links. The endpoint returns a bare boolean body,
// not a JSON envelope.
func (c *Client) NeedsCaptcha(ctx context.Context) (bool, error) {
	resp, err := c.execute(ctx, c.request().Endpoint(internal.EndpointNeedsCaptcha))
	if err != nil {
		return false, err
	}
	return parseBoolBody(resp, "NeedsCaptcha")
}

// NewCaptcha asks Reddit to generate a captcha challenge.
func (c *Client) NewCaptcha(ctx context.Context) (*types.Captcha, error) {
	b := c.request().
		Endpoint(internal.EndpointNewCaptcha).
		Post(url.Values{"api_type": {"json"}})
	resp, err := c.execute(ctx, b)
	if err != nil {
		return nil, err
	}
	if resp.HasErrors() {
		return nil, resp.Errors()[0]
	}

	iden := resp.JSON().Get("json.data.iden").String()
	if iden == "" {
		return nil, &pkgerrs.ParseError{Operation: "NewCaptcha", Message: "captcha envelope carried no iden"}
	}
	return &types.Captcha{Iden: iden, URL: c.CaptchaURL(iden)}, nil
}

// CaptchaURL returns the image URL for a captcha identifier. Fetching the
// image is left to the caller.
func (c *Client) CaptchaURL(iden string) string {
	spec, err := c.request().Endpoint(internal.EndpointCaptcha, iden).Build()
	if err != nil {
		return ""
	}
	return spec.URL()
}

// IsUsernameAvailable reports whether a username is free for registration.
// Another bare boolean body endpoint.
func (c *Client) IsUsernameAvailable(ctx context.Context, name string) (bool, error) {
	resp, err := c.execute(ctx, c.request().
		Endpoint(internal.EndpointUsernameAvailable).
		Query("user", name))
	if err != nil {
		return false, err
	}
	return parseBoolBody(resp, "IsUsernameAvailable")
}

// GetSubmitText returns the text displayed in a subreddit's "submit link"
// form, in markdown and HTML renderings.
func (c *Client) GetSubmitText(ctx context.Context, subreddit string) (*types.RenderStringPair, error) {
	resp, err := c.execute(ctx, c.request().SubredditEndpoint(internal.EndpointSubmitText, subreddit))
	if err != nil {
		return nil, err
	}
	doc := resp.JSON()
	return &types.RenderStringPair{
		Markdown: doc.Get("submit_text").String(),
		HTML:     doc.Get("submit_text_html").String(),
	}, nil
}

// GetSubredditsByTopic returns subreddit names related to a topic, e.g.
// "programming" yields "programming", "ProgrammerHumor" and so on.
func (c *Client) GetSubredditsByTopic(ctx context.Context, topic string) ([]string, error) {
	resp, err := c.execute(ctx, c.request().
		Endpoint(internal.EndpointSubredditsByTopic).
		Query("query", topic))
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range resp.JSON().Array() {
		if name := entry.Get("name").String(); name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

// SearchSubredditNames returns subreddit names starting with the given
// prefix, e.g. "fun" yields "funny", "funnysigns" and so on.
func (c *Client) SearchSubredditNames(ctx context.Context, prefix string, includeNSFW bool) ([]string, error) {
	b := c.request().
		Endpoint(internal.EndpointSearchRedditNames).
		Post(url.Values{
			"query":           {prefix},
			"include_over_18": {strconv.FormatBool(includeNSFW)},
		})
	resp, err := c.execute(ctx, b)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range resp.JSON().Get("names").Array() {
		names = append(names, entry.String())
	}
	return names, nil
}

// GetStylesheet returns the raw CSS of a subreddit (or the front page when
// subreddit is empty). A response without a text/css content type fails
// with a *errors.TransportError.
func (c *Client) GetStylesheet(ctx context.Context, subreddit string) (string, error) {
	resp, err := c.execute(ctx, c.request().
		SubredditEndpoint(internal.EndpointStylesheet, subreddit).
		ExpectType("text/css"))
	if err != nil {
		return "", err
	}
	return resp.Raw(), nil
}

// Number of subreddits named in each /r/trendingsubreddits post.
const trendingSubredditCount = 5

// GetTrendingSubreddits returns today's trending subreddit names, parsed
// from the title of the newest /r/trendingsubreddits post.
func (c *Client) GetTrendingSubreddits(ctx context.Context) ([]string, error) {
	paginator := c.NewSubredditPaginator()
	if err := paginator.SetSubreddit("trendingsubreddits"); err != nil {
		return nil, err
	}
	if err := paginator.SetSorting(SortNew); err != nil {
		return nil, err
	}

	page, err := paginator.Next(ctx)
	if err != nil {
		return nil, err
	}
	if len(page) == 0 {
		return nil, &pkgerrs.ParseError{Operation: "GetTrendingSubreddits", Message: "listing returned no posts"}
	}

	subreddits := make([]string, 0, trendingSubredditCount)
	for _, part := range strings.Fields(page[0].Title) {
		if strings.HasPrefix(part, "/r/") {
			// All but the last name arrive as "/r/{name},"
			subreddits = append(subreddits, strings.TrimSuffix(strings.TrimPrefix(part, "/r/"), ","))
		}
	}
	return subreddits, nil
}

// parseThread interprets the two-listing array the comments endpoint
// returns: [0] wraps the submission, [1] the comment forest.
func parseThread(doc gjson.Result, operation string) (*types.Submission, error) {
	post := doc.Get("0.data.children.0")
	if !post.Exists() {
		return nil, &pkgerrs.ParseError{Operation: operation, Message: "thread response carried no submission"}
	}

	submission := types.NewSubmission(post.Get("data"))
	for _, child := range doc.Get("1.data.children").Array() {
		switch child.Get("kind").String() {
		case types.KindComment:
			submission.Comments = append(submission.Comments, types.NewComment(child.Get("data")))
		case types.KindMore:
			for _, id := range child.Get("data.children").Array() {
				submission.MoreIDs = append(submission.MoreIDs, id.String())
			}
		}
	}
	return submission, nil
}

// parseBoolBody reads endpoints that answer with a literal "true"/"false"
// body instead of the JSON envelope.
func parseBoolBody(resp *internal.Response, operation string) (bool, error) {
	value, err := strconv.ParseBool(strings.TrimSpace(resp.Raw()))
	if err != nil {
		return false, &pkgerrs.ParseError{Operation: operation, Message: "expected boolean body", Err: err}
	}
	return value, nil
}

// subredditPath prefixes a path with /r/{subreddit} unless subreddit is
// empty (front page).
func subredditPath(subreddit, suffix string) string {
	if subreddit == "" {
		return suffix
	}
	return "/r/" + subreddit + suffix
}
