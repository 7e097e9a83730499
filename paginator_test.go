package snoo

import (
	"context"
	"strings"
	"testing"

	"github.com/kgale/snoo/test_helpers"
)

func TestSubredditPaginatorWalksPages(t *testing.T) {
	client, ms := newTestClient(t)
	ctx := context.Background()

	ms.QueueResponses("/r/golang/hot.json",
		&test_helpers.MockResponse{Body: test_helpers.ListingBody("t3_page1end", "first", "second")},
		&test_helpers.MockResponse{Body: test_helpers.ListingBody("t3_page2end", "third")},
		&test_helpers.MockResponse{Body: test_helpers.ListingBody("")},
	)

	paginator := client.NewSubredditPaginator()
	if err := paginator.SetSubreddit("golang"); err != nil {
		t.Fatalf("SetSubreddit failed: %v", err)
	}

	if !paginator.HasNext() || paginator.Position() != "" || paginator.PageCount() != 0 {
		t.Fatal("fresh paginator should have no position and no pages")
	}

	page, err := paginator.Next(ctx)
	if err != nil {
		t.Fatalf("first Next failed: %v", err)
	}
	if len(page) != 2 || page[0].Title != "first" || page[1].Title != "second" {
		t.Errorf("first page = %+v", page)
	}
	if paginator.Position() != "t3_page1end" {
		t.Errorf("Position = %q after first page", paginator.Position())
	}

	page, err = paginator.Next(ctx)
	if err != nil {
		t.Fatalf("second Next failed: %v", err)
	}
	if len(page) != 1 || page[0].Title != "third" {
		t.Errorf("second page = %+v", page)
	}

	// The second request must carry the token from the first page.
	requests := ms.Requests()
	if len(requests) != 2 {
		t.Fatalf("server saw %d requests, want 2", len(requests))
	}
	if !strings.Contains(requests[1].Query, "after=t3_page1end") {
		t.Errorf("second query = %q, want the continuation token", requests[1].Query)
	}

	// The empty-token page exhausts the cursor.
	page, err = paginator.Next(ctx)
	if err != nil {
		t.Fatalf("third Next failed: %v", err)
	}
	if len(page) != 0 {
		t.Errorf("third page = %+v, want empty", page)
	}
	if !paginator.Exhausted() || paginator.HasNext() {
		t.Error("paginator should be exhausted after a null token")
	}
	if paginator.PageCount() != 3 {
		t.Errorf("PageCount = %d, want 3", paginator.PageCount())
	}
}

func TestPaginatorExhaustedNextSkipsNetwork(t *testing.T) {
	client, ms := newTestClient(t)
	ctx := context.Background()

	ms.SetResponse("/r/golang/hot.json", &test_helpers.MockResponse{
		Body: test_helpers.ListingBody("", "only"),
	})

	paginator := client.NewSubredditPaginator()
	if err := paginator.SetSubreddit("golang"); err != nil {
		t.Fatalf("SetSubreddit failed: %v", err)
	}

	if _, err := paginator.Next(ctx); err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	before := ms.TotalCalls()

	for i := 0; i < 3; i++ {
		page, err := paginator.Next(ctx)
		if err != nil {
			t.Fatalf("exhausted Next returned %v", err)
		}
		if len(page) != 0 {
			t.Errorf("exhausted Next returned %d items", len(page))
		}
	}

	if got := ms.TotalCalls(); got != before {
		t.Errorf("exhausted Next hit the network: %d calls, want %d", got, before)
	}
}

func TestPaginatorInvalidateRestartsFromTop(t *testing.T) {
	client, ms := newTestClient(t)
	ctx := context.Background()

	ms.QueueResponses("/r/golang/hot.json",
		&test_helpers.MockResponse{Body: test_helpers.ListingBody("t3_tok", "a")},
		&test_helpers.MockResponse{Body: test_helpers.ListingBody("", "b")},
	)

	paginator := client.NewSubredditPaginator()
	if err := paginator.SetSubreddit("golang"); err != nil {
		t.Fatalf("SetSubreddit failed: %v", err)
	}
	if _, err := paginator.Next(ctx); err != nil {
		t.Fatalf("Next failed: %v", err)
	}

	paginator.Invalidate()

	if paginator.Position() != "" || paginator.PageCount() != 0 || paginator.Exhausted() {
		t.Error("Invalidate should reset position, page count and exhaustion")
	}

	if _, err := paginator.Next(ctx); err != nil {
		t.Fatalf("Next after Invalidate failed: %v", err)
	}
	requests := ms.Requests()
	last := requests[len(requests)-1]
	if strings.Contains(last.Query, "after=") {
		t.Errorf("query after Invalidate = %q, want no continuation token", last.Query)
	}
}

func TestSubredditPaginatorSettersResetCursor(t *testing.T) {
	client, ms := newTestClient(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(p *SubredditPaginator)
		path   string
	}{
		{"SetSorting", func(p *SubredditPaginator) {
			if err := p.SetSorting(SortNew); err != nil {
				t.Fatalf("SetSorting failed: %v", err)
			}
		}, "/r/golang/new.json"},
		{"SetTimePeriod", func(p *SubredditPaginator) {
			p.SetTimePeriod(PeriodWeek)
		}, "/r/golang/hot.json"},
		{"SetSubreddit", func(p *SubredditPaginator) {
			if err := p.SetSubreddit("programming"); err != nil {
				t.Fatalf("SetSubreddit failed: %v", err)
			}
		}, "/r/programming/hot.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ms.SetResponse("/r/golang/hot.json", &test_helpers.MockResponse{
				Body: test_helpers.ListingBody("t3_tok", "a"),
			})

			paginator := client.NewSubredditPaginator()
			if err := paginator.SetSubreddit("golang"); err != nil {
				t.Fatalf("SetSubreddit failed: %v", err)
			}
			if _, err := paginator.Next(ctx); err != nil {
				t.Fatalf("Next failed: %v", err)
			}

			tt.mutate(paginator)

			if paginator.Position() != "" || paginator.PageCount() != 0 {
				t.Error("mutator should reset the cursor")
			}

			ms.SetResponse(tt.path, &test_helpers.MockResponse{
				Body: test_helpers.ListingBody("", "b"),
			})
			if _, err := paginator.Next(ctx); err != nil {
				t.Fatalf("Next after mutator failed: %v", err)
			}
			requests := ms.Requests()
			last := requests[len(requests)-1]
			if last.Path != tt.path {
				t.Errorf("path = %q, want %q", last.Path, tt.path)
			}
			if strings.Contains(last.Query, "after=") {
				t.Errorf("query = %q, want no continuation token", last.Query)
			}
		})
	}
}

func TestSubredditPaginatorSetLimitKeepsCursor(t *testing.T) {
	client, ms := newTestClient(t)
	ctx := context.Background()

	ms.SetResponse("/r/golang/hot.json", &test_helpers.MockResponse{
		Body: test_helpers.ListingBody("t3_tok", "a"),
	})

	paginator := client.NewSubredditPaginator()
	if err := paginator.SetSubreddit("golang"); err != nil {
		t.Fatalf("SetSubreddit failed: %v", err)
	}
	if _, err := paginator.Next(ctx); err != nil {
		t.Fatalf("Next failed: %v", err)
	}

	paginator.SetLimit(25)

	if paginator.Position() != "t3_tok" || paginator.PageCount() != 1 {
		t.Error("SetLimit should not reset the cursor")
	}

	if _, err := paginator.Next(ctx); err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	requests := ms.Requests()
	last := requests[len(requests)-1]
	if !strings.Contains(last.Query, "limit=25") || !strings.Contains(last.Query, "after=t3_tok") {
		t.Errorf("query = %q, want both limit and continuation token", last.Query)
	}
}

func TestSubredditPaginatorSetLimitCaps(t *testing.T) {
	client, ms := newTestClient(t)

	paginator := client.NewSubredditPaginator()
	if err := paginator.SetSubreddit("golang"); err != nil {
		t.Fatalf("SetSubreddit failed: %v", err)
	}
	paginator.SetLimit(500)

	ms.SetResponse("/r/golang/hot.json", &test_helpers.MockResponse{
		Body: test_helpers.ListingBody(""),
	})
	if _, err := paginator.Next(context.Background()); err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if !strings.Contains(ms.Requests()[0].Query, "limit=100") {
		t.Errorf("query = %q, want the capped limit", ms.Requests()[0].Query)
	}
}

func TestSubredditPaginatorTimePeriodOnlyForTimeSorts(t *testing.T) {
	client, ms := newTestClient(t)
	ctx := context.Background()

	paginator := client.NewSubredditPaginator()
	if err := paginator.SetSubreddit("golang"); err != nil {
		t.Fatalf("SetSubreddit failed: %v", err)
	}

	ms.SetResponse("/r/golang/hot.json", &test_helpers.MockResponse{
		Body: test_helpers.ListingBody(""),
	})
	if _, err := paginator.Next(ctx); err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if strings.Contains(ms.Requests()[0].Query, "t=") {
		t.Errorf("hot query = %q, want no time bound", ms.Requests()[0].Query)
	}

	if err := paginator.SetSorting(SortTop); err != nil {
		t.Fatalf("SetSorting failed: %v", err)
	}
	paginator.SetTimePeriod(PeriodAll)

	ms.SetResponse("/r/golang/top.json", &test_helpers.MockResponse{
		Body: test_helpers.ListingBody(""),
	})
	if _, err := paginator.Next(ctx); err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	requests := ms.Requests()
	if !strings.Contains(requests[len(requests)-1].Query, "t=all") {
		t.Errorf("top query = %q, want t=all", requests[len(requests)-1].Query)
	}
}

func TestSubredditPaginatorFrontPage(t *testing.T) {
	client, ms := newTestClient(t)

	ms.SetResponse("/hot.json", &test_helpers.MockResponse{
		Body: test_helpers.ListingBody("", "front"),
	})

	paginator := client.NewSubredditPaginator()
	page, err := paginator.Next(context.Background())
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if len(page) != 1 || page[0].Title != "front" {
		t.Errorf("page = %+v", page)
	}
}

func TestSubredditPaginatorRejectsInvalidSubreddit(t *testing.T) {
	client, _ := newTestClient(t)

	paginator := client.NewSubredditPaginator()
	if err := paginator.SetSubreddit("no spaces allowed"); err == nil {
		t.Fatal("invalid subreddit name should be rejected")
	}
	if paginator.Subreddit() != "" {
		t.Errorf("Subreddit = %q, want unchanged", paginator.Subreddit())
	}
}

func TestPaginatorSkipsForeignKinds(t *testing.T) {
	client, ms := newTestClient(t)

	// A t5 child smuggled into a submission listing is dropped.
	ms.SetResponse("/r/golang/hot.json", &test_helpers.MockResponse{
		Body: `{"kind": "Listing", "data": {"after": null, "children": [
			{"kind": "t3", "data": {"id": "aaa111", "title": "kept"}},
			{"kind": "t5", "data": {"id": "bbb222", "display_name": "dropped"}}
		]}}`,
	})

	paginator := client.NewSubredditPaginator()
	if err := paginator.SetSubreddit("golang"); err != nil {
		t.Fatalf("SetSubreddit failed: %v", err)
	}
	page, err := paginator.Next(context.Background())
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if len(page) != 1 || page[0].Title != "kept" {
		t.Errorf("page = %+v, want only the t3 child", page)
	}
}
