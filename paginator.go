package snoo

import (
	"context"
	"net/url"
	"strconv"

	"github.com/tidwall/gjson"

	"github.com/kgale/snoo/internal"
	pkgerrs "github.com/kgale/snoo/pkg/errors"
	"github.com/kgale/snoo/pkg/types"
	"github.com/kgale/snoo/pkg/validation"
)

// Sort enumerates the orderings of ordinary subreddit listings.
type Sort string

const (
	SortHot           Sort = "hot"
	SortNew           Sort = "new"
	SortRising        Sort = "rising"
	SortTop           Sort = "top"
	SortControversial Sort = "controversial"
)

// TimePeriod bounds the results of time-sensitive sorts (top, controversial).
type TimePeriod string

const (
	PeriodHour  TimePeriod = "hour"
	PeriodDay   TimePeriod = "day"
	PeriodWeek  TimePeriod = "week"
	PeriodMonth TimePeriod = "month"
	PeriodYear  TimePeriod = "year"
	PeriodAll   TimePeriod = "all"
)

// MaxLimit is the largest page size Reddit accepts.
const MaxLimit = 100

// Paginator walks a listing endpoint page by page. The zero state is fresh:
// no page fetched, no position token. Next advances along the endpoint's
// "after" tokens until a page arrives without one, after which the paginator
// is exhausted and further Next calls return empty pages without touching
// the network. Invalidate returns to the fresh state at any time.
//
// Concrete paginators supply the path and extra query parameters per page
// and must call Invalidate from every setter that changes result ordering;
// a position token is only meaningful relative to the parameters it was
// fetched under.
//
// A Paginator is owned by a single goroutine; it is not safe for concurrent
// use.
type Paginator[T any] struct {
	client  *Client
	newItem func(gjson.Result) T
	kind    string
	pathFn  func() string
	queryFn func() url.Values

	limit     int
	after     string
	pageCount int
	exhausted bool
}

// Next fetches the next page. Once the paginator is exhausted it returns an
// empty page and nil error without issuing a request. Items are returned in
// the order the endpoint sent them.
func (p *Paginator[T]) Next(ctx context.Context) ([]T, error) {
	if p.exhausted {
		return nil, nil
	}

	b := internal.NewRequest(p.client.config.Host).Path(p.pathFn())
	if q := p.queryFn(); q != nil {
		b.QueryValues(q)
	}
	if p.limit > 0 {
		b.Query("limit", strconv.Itoa(p.limit))
	}
	if p.after != "" {
		b.Query("after", p.after)
	}

	resp, err := p.client.execute(ctx, b)
	if err != nil {
		return nil, err
	}
	if resp.HasErrors() {
		return nil, resp.Errors()[0]
	}

	listing := resp.JSON().Get("data")
	if !listing.Exists() {
		return nil, &pkgerrs.ParseError{Operation: "Paginator.Next", Message: "response carried no listing"}
	}

	var items []T
	for _, child := range listing.Get("children").Array() {
		if p.kind != "" && child.Get("kind").String() != p.kind {
			continue
		}
		items = append(items, p.newItem(child.Get("data")))
	}

	p.after = listing.Get("after").String() // null becomes ""
	p.pageCount++
	if p.after == "" {
		p.exhausted = true
	}
	return items, nil
}

// Invalidate resets the paginator to its fresh state: position token
// cleared, page count zero, not exhausted.
func (p *Paginator[T]) Invalidate() {
	p.after = ""
	p.pageCount = 0
	p.exhausted = false
}

// SetLimit sets the page size (capped at MaxLimit). Page size does not
// affect ordering, so the cursor survives.
func (p *Paginator[T]) SetLimit(limit int) {
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if limit < 0 {
		limit = 0
	}
	p.limit = limit
}

// HasNext reports whether another Next call may yield items.
func (p *Paginator[T]) HasNext() bool {
	return !p.exhausted
}

// Exhausted reports whether the listing ran out of continuation tokens.
func (p *Paginator[T]) Exhausted() bool {
	return p.exhausted
}

// Position returns the current opaque position token, "" when fresh.
func (p *Paginator[T]) Position() string {
	return p.after
}

// PageCount returns the number of pages fetched since the last Invalidate.
func (p *Paginator[T]) PageCount() int {
	return p.pageCount
}

// SubredditPaginator pages through a subreddit listing (or the front page
// when no subreddit is set) under the generic sort vocabulary.
type SubredditPaginator struct {
	Paginator[*types.Submission]
	subreddit string
	sorting   Sort
	period    TimePeriod
}

// NewSubredditPaginator creates a front-page paginator sorted by hot.
func (c *Client) NewSubredditPaginator() *SubredditPaginator {
	p := &SubredditPaginator{
		sorting: SortHot,
		period:  PeriodDay,
	}
	p.Paginator = Paginator[*types.Submission]{
		client:  c,
		kind:    types.KindLink,
		newItem: func(node gjson.Result) *types.Submission { return types.NewSubmission(node) },
		pathFn: func() string {
			return subredditPath(p.subreddit, "/"+string(p.sorting)+".json")
		},
		queryFn: func() url.Values {
			q := url.Values{}
			if p.sorting == SortTop || p.sorting == SortControversial {
				q.Set("t", string(p.period))
			}
			return q
		},
	}
	return p
}

// Subreddit returns the current subreddit scope, "" meaning the front page.
func (p *SubredditPaginator) Subreddit() string {
	return p.subreddit
}

// SetSubreddit changes the listing scope and resets the cursor.
func (p *SubredditPaginator) SetSubreddit(subreddit string) error {
	if subreddit != "" && !validation.IsValidSubreddit(subreddit) {
		return &pkgerrs.ConfigError{Field: "subreddit", Message: "invalid subreddit name: " + subreddit}
	}
	p.subreddit = subreddit
	p.Invalidate()
	return nil
}

// Sorting returns the current sort order.
func (p *SubredditPaginator) Sorting() Sort {
	return p.sorting
}

// SetSorting changes the sort order and resets the cursor.
func (p *SubredditPaginator) SetSorting(sorting Sort) error {
	p.sorting = sorting
	p.Invalidate()
	return nil
}

// TimePeriod returns the current time bound.
func (p *SubredditPaginator) TimePeriod() TimePeriod {
	return p.period
}

// SetTimePeriod changes the time bound and resets the cursor.
func (p *SubredditPaginator) SetTimePeriod(period TimePeriod) {
	p.period = period
	p.Invalidate()
}
