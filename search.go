package snoo

import (
	"net/url"

	"github.com/tidwall/gjson"

	"github.com/kgale/snoo/internal"
	pkgerrs "github.com/kgale/snoo/pkg/errors"
	"github.com/kgale/snoo/pkg/types"
	"github.com/kgale/snoo/pkg/validation"
)

// SearchSort enumerates the orderings of the search endpoint. Search uses
// its own vocabulary; the generic Sort values do not apply.
type SearchSort string

const (
	SearchSortRelevance SearchSort = "relevance"
	SearchSortNew       SearchSort = "new"
	SearchSortHot       SearchSort = "hot"
	SearchSortTop       SearchSort = "top"
	SearchSortComments  SearchSort = "comments"
)

// DefaultSearchSorting is applied to new search paginators.
const DefaultSearchSorting = SearchSortRelevance

// SearchPaginator pages through Reddit's search results, optionally
// restricted to a single subreddit.
type SearchPaginator struct {
	Paginator[*types.Submission]
	query     string
	subreddit string
	sorting   SearchSort
}

// NewSearchPaginator creates a site-wide search for the given query text,
// sorted by relevance.
func (c *Client) NewSearchPaginator(query string) *SearchPaginator {
	p := &SearchPaginator{
		query:   query,
		sorting: DefaultSearchSorting,
	}
	p.Paginator = Paginator[*types.Submission]{
		client:  c,
		kind:    types.KindLink,
		newItem: func(node gjson.Result) *types.Submission { return types.NewSubmission(node) },
		pathFn: func() string {
			return internal.SubredditPath(internal.EndpointSearch, p.subreddit)
		},
		queryFn: func() url.Values {
			restrict := "off"
			if p.subreddit != "" {
				restrict = "on"
			}
			return url.Values{
				"q":           {p.query},
				"restrict_sr": {restrict},
				"sort":        {string(p.sorting)},
			}
		},
	}
	return p
}

// Query returns the current search text.
func (p *SearchPaginator) Query() string {
	return p.query
}

// SetQuery changes the search text and resets the cursor.
func (p *SearchPaginator) SetQuery(query string) {
	p.query = query
	p.Invalidate()
}

// Subreddit returns the subreddit the search is restricted to, "" when the
// search is site-wide.
func (p *SearchPaginator) Subreddit() string {
	return p.subreddit
}

// SetSubreddit restricts the search to one subreddit ("" lifts the
// restriction) and resets the cursor.
func (p *SearchPaginator) SetSubreddit(subreddit string) error {
	if subreddit != "" && !validation.IsValidSubreddit(subreddit) {
		return &pkgerrs.ConfigError{Field: "subreddit", Message: "invalid subreddit name: " + subreddit}
	}
	p.subreddit = subreddit
	p.Invalidate()
	return nil
}

// SearchSorting returns the current search sort order.
func (p *SearchPaginator) SearchSorting() SearchSort {
	return p.sorting
}

// SetSearchSorting changes the sort order and resets the cursor.
func (p *SearchPaginator) SetSearchSorting(sorting SearchSort) {
	p.sorting = sorting
	p.Invalidate()
}

// SetSorting always fails: search does not speak the generic sort
// vocabulary. The cursor is left untouched. Use SetSearchSorting.
func (p *SearchPaginator) SetSorting(Sort) error {
	return &pkgerrs.StateError{
		Operation: "SetSorting",
		Message:   "search paginators sort with SetSearchSorting",
	}
}
