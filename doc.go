// Package snoo is a Go client for the Reddit API's cookie-session surface.
//
// It covers login/logout lifecycle, the common read endpoints (users,
// subreddits, submissions with comment trees, search) and exposes every
// listing endpoint through a cursor-driven paginator.
//
// # Quick start
//
//	client, err := snoo.NewClient(&snoo.Config{
//		UserAgent: "myapp/1.0 by yourusername",
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	me, err := client.Login(ctx, "username", "password")
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println("logged in as", me.Name)
//
// # Failure channels
//
// Every call can fail in one of three distinguishable ways, defined in
// pkg/errors: *TransportError when the HTTP exchange itself failed,
// *APIError when Reddit rejected the request inside a successful response,
// and *StateError when the client was used incorrectly (for example an
// authenticated call while logged out). The client never retries; layering
// retry or backoff on top is the caller's choice.
//
// # Rate limiting
//
// A client throttles itself to Config.RequestsPerMinute (default 30, the
// ceiling for cookie-authenticated clients). Requests are smoothed to one
// per interval rather than allowed to burst. All methods block on whatever
// goroutine calls them; the limiter is the only shared serialization point.
//
// # Pagination
//
// SubredditPaginator and SearchPaginator fetch listing pages on demand via
// Next. Changing any parameter that affects result ordering (sort, time
// period, subreddit, query) resets the cursor, so a stale position token is
// never combined with new filters. Paginators are not safe for concurrent
// use; drive each one from a single goroutine.
package snoo
