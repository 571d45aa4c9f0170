package mb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

const (
	pageSize = 100

	// maxOffset is the per-day pagination safety ceiling. A day reporting
	// more matches than this is abandoned rather than paged forever.
	maxOffset = 10000
)

// FetchMonth retrieves every release with official status and primary type
// Album dated within the given month, paging through the search results one
// calendar day at a time. The result is ordered day-ascending, then page
// order within a day; the same release can appear more than once (ambiguous
// dates, shifting page windows), which the caller's deduplication resolves.
//
// A failed page ends that day early, keeping whatever the day had already
// collected; only context cancellation aborts the whole month.
func (c *Client) FetchMonth(ctx context.Context, year, month int) ([]Release, error) {
	var all []Release
	for day := 1; day <= daysIn(year, month); day++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		date := fmt.Sprintf("%04d-%02d-%02d", year, month, day)
		all = append(all, c.fetchDay(ctx, date)...)
	}
	return all, nil
}

func (c *Client) fetchDay(ctx context.Context, date string) []Release {
	query := fmt.Sprintf("date:%s AND status:official AND primarytype:Album", date)

	var collected []Release
	total := -1
	offset := 0
	for {
		page, err := c.searchPage(ctx, query, offset)
		if err != nil {
			c.log.Errorw("failed fetching page", "date", date, "offset", offset, "error", err)
			break
		}
		if total < 0 {
			total = page.Count
			c.log.Infow("processing date", "date", date, "total", total)
		}
		if len(page.Releases) == 0 {
			break
		}

		collected = append(collected, page.Releases...)
		offset += len(page.Releases)

		if offset >= total {
			break
		}
		if offset > maxOffset {
			c.log.Warnw("hit safety limit, moving to next day", "date", date, "offset", offset)
			break
		}
	}

	c.log.Infow("collected releases", "date", date, "count", len(collected))
	return collected
}

func (c *Client) searchPage(ctx context.Context, query string, offset int) (*searchPage, error) {
	q := url.Values{}
	q.Set("query", query)
	q.Set("fmt", "json")
	q.Set("limit", strconv.Itoa(pageSize))
	q.Set("offset", strconv.Itoa(offset))
	q.Set("inc", "url-rels")

	bs, err := c.get(ctx, "/release", q)
	if err != nil {
		return nil, err
	}

	var page searchPage
	if err := json.Unmarshal(bs, &page); err != nil {
		// a malformed body is as final as a 4xx
		return nil, &PermanentError{Body: fmt.Sprintf("undecodable response: %v", err)}
	}
	return &page, nil
}

// daysIn counts the calendar days in a month, leap years included.
func daysIn(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
